package check

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/broady/nominal/cmd/nominal/internal/gen"
	"github.com/broady/nominal/cmd/nominal/internal/input"
	"github.com/broady/nominal/nominalgen"
	"github.com/broady/nominal/nominalgen/ir"
)

type Cmd struct {
	input.Input

	JSON bool `help:"Print the loaded declarations as JSON."`
}

func (c *Cmd) Run(logger *slog.Logger) error {
	return c.run(context.Background(), logger, os.Stdout, os.Stderr)
}

func (c *Cmd) run(ctx context.Context, logger *slog.Logger, stdout, stderr io.Writer) error {
	cfg := c.Config()
	cfg.Verify = true
	cfg.Logger = logger

	// Nothing is written without an output directory.
	result, err := nominalgen.GenerateContext(ctx, cfg)
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result.Program); err != nil {
			return fmt.Errorf("encode program: %w", err)
		}
		return gen.ReportDiagnostics(stderr, result.Diagnostics)
	}

	var classes, interfaces, enums int
	for _, td := range result.Program.Types {
		switch td.Kind() {
		case ir.KindClass:
			classes++
		case ir.KindInterface:
			interfaces++
		case ir.KindEnum:
			enums++
		}
	}
	fmt.Fprintf(stdout, "✓ Module: %s\n", result.Program.Module)
	fmt.Fprintf(stdout, "✓ %d classes, %d interfaces, %d enums, %d imported\n",
		classes, interfaces, enums, len(result.Program.Imported))
	if ep := result.Program.EntryPoint; ep != nil && result.Plan.Invocation != "" {
		fmt.Fprintf(stdout, "✓ Entry point: %s\n", ep.FullName())
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(stderr, "warning: %s\n", w.Message)
	}
	if err := gen.ReportDiagnostics(stderr, result.Diagnostics); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "✓ %d registrations accepted\n", len(result.Plan.Registrations))
	return nil
}
