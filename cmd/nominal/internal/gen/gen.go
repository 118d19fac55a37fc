package gen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/broady/nominal/cmd/nominal/internal/input"
	"github.com/broady/nominal/nominalgen"
	"github.com/broady/nominal/nominalgen/ir"
	"github.com/broady/nominal/nominalgen/sink"
)

type Cmd struct {
	input.Input

	Out          string `help:"Output directory for generated files." short:"O" default:"." type:"path"`
	Stdout       bool   `help:"Write generated files to standard output instead of --out."`
	KeepExisting bool   `help:"Fail instead of replacing existing files."`
	Verify       bool   `help:"Apply the emitted registrations to a fresh registry before writing."`
}

func (c *Cmd) Run(logger *slog.Logger) error {
	return c.run(context.Background(), logger, os.Stdout, os.Stderr)
}

func (c *Cmd) run(ctx context.Context, logger *slog.Logger, stdout, stderr io.Writer) error {
	cfg := c.Config()
	cfg.KeepExisting = c.KeepExisting
	cfg.Verify = c.Verify
	cfg.Logger = logger

	if c.Stdout {
		result, err := nominalgen.GenerateContext(ctx, cfg)
		if err != nil {
			return err
		}
		out := sink.NewWriterSink(stdout)
		for _, f := range result.Files {
			if err := out.WriteFile(ctx, f.Path, f.Content); err != nil {
				return err
			}
		}
		return ReportDiagnostics(stderr, result.Diagnostics)
	}

	outDir, err := filepath.Abs(c.Out)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}
	cfg.OutDir = outDir

	result, err := nominalgen.GenerateContext(ctx, cfg)
	if err != nil {
		return err
	}
	for _, f := range result.Files {
		fmt.Fprintf(stdout, "%s\n", filepath.Join(outDir, f.Path))
	}
	return ReportDiagnostics(stderr, result.Diagnostics)
}

// ReportDiagnostics prints each diagnostic and returns an error if any
// of them is an error.
func ReportDiagnostics(w io.Writer, diags []ir.Diagnostic) error {
	failed := 0
	for _, d := range diags {
		fmt.Fprintln(w, d.String())
		if d.Severity == ir.SeverityError {
			failed++
		}
	}
	if failed > 0 {
		return errors.New(plural(failed, "error") + " reported")
	}
	return nil
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
