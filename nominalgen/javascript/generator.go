package javascript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/broady/nominal/nominalgen/ir"
)

// JavaScriptGenerator renders programs as JavaScript modules.
type JavaScriptGenerator struct {
	// Logger receives progress messages. Nil uses slog.Default().
	Logger *slog.Logger
}

// Name returns "javascript".
func (g *JavaScriptGenerator) Name() string { return "javascript" }

// Generate plans and renders the program and writes the module to the sink.
func (g *JavaScriptGenerator) Generate(ctx context.Context, program *ir.Program, opts GenerateOptions) (*GenerateResult, error) {
	if program == nil {
		return nil, errors.New("program is nil")
	}
	if opts.Sink == nil {
		return nil, errors.New("output sink is required")
	}
	logger := g.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := NewEmitter(opts.Config)
	plan, err := e.Plan(program)
	if err != nil {
		return nil, fmt.Errorf("failed to plan registrations: %w", err)
	}
	logger.Debug("planned registrations",
		slog.String("module", program.Module),
		slog.Int("registrations", len(plan.Registrations)),
		slog.Int("statics", len(plan.Statics)),
		slog.Int("diagnostics", len(plan.Diagnostics)))

	result := &GenerateResult{
		TypesGenerated: len(plan.Registrations),
		EntryPoint:     plan.Invocation != "",
		Warnings:       program.Warnings,
		Diagnostics:    plan.Diagnostics,
		Plan:           plan,
	}

	path := e.config.FileName
	if path == "" {
		path = moduleName(program) + ".js"
	}
	content := e.Render(program, plan)
	if err := opts.Sink.WriteFile(ctx, path, content); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	result.Files = append(result.Files, OutputFile{Path: path, Size: int64(len(content))})

	if e.config.EmitPlan {
		planPath := moduleName(program) + ".plan.json"
		data, err := json.MarshalIndent(plan, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode plan: %w", err)
		}
		if err := opts.Sink.WriteFile(ctx, planPath, data); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", planPath, err)
		}
		result.Files = append(result.Files, OutputFile{Path: planPath, Size: int64(len(data))})
	}

	for _, d := range plan.Diagnostics {
		logger.Warn("entry point rejected", slog.Int("code", d.Code), slog.String("message", d.Message()))
	}
	return result, nil
}

func moduleName(program *ir.Program) string {
	if program.Module == "" {
		return "module"
	}
	return program.Module
}
