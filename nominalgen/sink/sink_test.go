package sink

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		errMsg string
	}{
		{"simple", "zoo.js", ""},
		{"nested", "out/zoo/zoo.js", ""},
		{"dotted name", "zoo..js", ""},
		{"empty", "", "empty"},
		{"leading slash", "/abs/zoo.js", "absolute paths not allowed"},
		{"drive letter", "C:\\zoo.js", "absolute paths not allowed"},
		{"backslash", "out\\zoo.js", "separator"},
		{"traversal", "out/../zoo.js", "path traversal not allowed"},
		{"parent", "..", "path traversal not allowed"},
		{"current dir prefix", "./zoo.js", "not clean"},
		{"double slash", "out//zoo.js", "not clean"},
		{"trailing slash", "out/", "not clean"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.errMsg == "" {
				if err != nil {
					t.Errorf("ValidatePath(%q) = %v, want nil", tt.path, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("ValidatePath(%q) = %v, want error containing %q", tt.path, err, tt.errMsg)
			}
		})
	}
}

func TestMemorySink(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySink()

	content := []byte("var x;")
	if err := s.WriteFile(ctx, "b.js", content); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteFile(ctx, "a.js", []byte("var y;")); err != nil {
		t.Fatal(err)
	}
	content[0] = 'X'
	if got := string(s.Get("b.js")); got != "var x;" {
		t.Errorf("Get(b.js) = %q, stored content should be a copy", got)
	}
	if got := s.Paths(); len(got) != 2 || got[0] != "a.js" {
		t.Errorf("Paths() = %v", got)
	}
	if s.Get("missing.js") != nil {
		t.Error("Get(missing.js) should be nil")
	}
	if err := s.WriteFile(ctx, "../x.js", nil); err == nil {
		t.Error("WriteFile should reject invalid paths")
	}

	s.Reset()
	if len(s.Paths()) != 0 {
		t.Error("Reset should clear all files")
	}
}

func TestMemorySink_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewMemorySink().WriteFile(ctx, "a.js", nil); err != context.Canceled {
		t.Errorf("WriteFile error = %v, want context.Canceled", err)
	}
}

func TestMemorySink_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySink()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := s.WriteFile(ctx, fmt.Sprintf("f%d.js", i), []byte("x")); err != nil {
				t.Error(err)
			}
			_ = s.Get("f0.js")
		}(i)
	}
	wg.Wait()
	if got := len(s.Paths()); got != 20 {
		t.Errorf("Paths() length = %d, want 20", got)
	}
}

func TestFilesystemSink(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := NewFilesystemSink(root)

	if err := s.WriteFile(ctx, "out/zoo.js", []byte("one")); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteFile(ctx, "out/zoo.js", []byte("two")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(root, "out", "zoo.js"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "two" {
		t.Errorf("content = %q, want two", got)
	}

	entries, _ := os.ReadDir(filepath.Join(root, "out"))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".nominal-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}

	info, err := os.Stat(filepath.Join(root, "out", "zoo.js"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0644 {
		t.Errorf("mode = %v, want 0644", info.Mode().Perm())
	}
}

func TestFilesystemSink_NoOverwrite(t *testing.T) {
	ctx := context.Background()
	s := &FilesystemSink{Root: t.TempDir()}

	if err := s.WriteFile(ctx, "zoo.js", []byte("one")); err != nil {
		t.Fatal(err)
	}
	err := s.WriteFile(ctx, "zoo.js", []byte("two"))
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second write error = %v, want already exists", err)
	}
	got, _ := os.ReadFile(filepath.Join(s.Root, "zoo.js"))
	if string(got) != "one" {
		t.Errorf("content = %q, want one", got)
	}
}

func TestFilesystemSink_RejectsInvalidPaths(t *testing.T) {
	s := NewFilesystemSink(t.TempDir())
	for _, p := range []string{"../escape.js", "/etc/passwd", "a/../../b.js"} {
		if err := s.WriteFile(context.Background(), p, []byte("x")); err == nil {
			t.Errorf("WriteFile(%q) should fail", p)
		}
	}
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriterSink(&buf)
	if err := s.WriteFile(context.Background(), "zoo.js", []byte("var x;\n")); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "// zoo.js\nvar x;\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	buf.Reset()
	s.Header = nil
	_ = s.WriteFile(context.Background(), "zoo.js", []byte("y"))
	if buf.String() != "y" {
		t.Errorf("output without header = %q", buf.String())
	}
}
