package check

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/broady/nominal/cmd/nominal/internal/input"
)

const fixture = "../../../../nominalgen/provider/testdata/hcl"

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCmd_Summary(t *testing.T) {
	cmd := &Cmd{Input: input.Input{Sources: []string{fixture}}}
	var stdout, stderr bytes.Buffer
	if err := cmd.run(context.Background(), quietLogger(), &stdout, &stderr); err != nil {
		t.Fatalf("run: %v\n%s", err, stderr.String())
	}
	for _, want := range []string{
		"✓ Module: zoo",
		"✓ 3 classes, 2 interfaces, 2 enums, 1 imported",
		"✓ Entry point: Zoo.Cat.Main",
		"✓ 8 registrations accepted",
	} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("output missing %q:\n%s", want, stdout.String())
		}
	}
}

func TestCmd_JSON(t *testing.T) {
	cmd := &Cmd{Input: input.Input{Sources: []string{fixture}}, JSON: true}
	var stdout, stderr bytes.Buffer
	if err := cmd.run(context.Background(), quietLogger(), &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout.String())
	}
	if doc["module"] != "zoo" {
		t.Errorf("module = %v, want zoo", doc["module"])
	}
}

func TestCmd_Diagnostics(t *testing.T) {
	dir := t.TempDir()
	src := `
class "App.Program" {
  method "Main" {
    static      = true
    inline_code = "start()"
  }
}

entry_point {
  type   = "App.Program"
  method = "Main"
}
`
	if err := os.WriteFile(filepath.Join(dir, "app.hcl"), []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	cmd := &Cmd{Input: input.Input{Sources: []string{dir}}}
	var stdout, stderr bytes.Buffer
	err := cmd.run(context.Background(), quietLogger(), &stdout, &stderr)
	if err == nil || err.Error() != "1 error reported" {
		t.Fatalf("error = %v, want 1 error reported", err)
	}
	if !strings.Contains(stderr.String(), "NM7801") {
		t.Errorf("stderr = %q, want NM7801", stderr.String())
	}
}
