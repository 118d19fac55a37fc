// Package nominalgen generates host registration modules from declarations.
//
// It ties a provider (HCL declaration files or Go packages) to the
// JavaScript registration emitter and an output sink.
package nominalgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/broady/nominal"
	"github.com/broady/nominal/nominalgen/ir"
	"github.com/broady/nominal/nominalgen/javascript"
	"github.com/broady/nominal/nominalgen/provider"
	"github.com/broady/nominal/nominalgen/sink"
	"github.com/go-playground/validator/v10"
)

// Provider names.
const (
	ProviderHCL    = "hcl"
	ProviderSource = "source"
)

var validate = validator.New()

// Config holds the configuration for code generation.
type Config struct {
	// OutDir is the directory where generated files will be written.
	// If empty, files are only returned in the result.
	OutDir string

	// KeepExisting fails generation instead of replacing existing files
	// in OutDir.
	KeepExisting bool

	// Provider selects the front end.
	// "hcl" reads declaration files; "source" loads Go packages.
	// Default: "source" when Packages is set, "hcl" otherwise.
	Provider string `validate:"oneof=hcl source"`

	// Paths are the HCL files or directories to read.
	// Required when Provider is "hcl".
	Paths []string `validate:"required_if=Provider hcl"`

	// Packages are the Go package paths to analyze.
	// Required when Provider is "source".
	Packages []string `validate:"required_if=Provider source"`

	// Namespaces maps Go package paths to namespaces.
	Namespaces map[string]string

	// Module overrides the emitted module name.
	Module string

	// EntryType is the class receiving a package-level Main function.
	EntryType string

	// Options are key=value emitter options applied on top of JavaScript.
	// e.g. []string{"registry=$rt", "strict=false"}
	Options []string

	// JavaScript is the base emitter configuration.
	// Default: javascript.DefaultConfig()
	JavaScript *javascript.GeneratorConfig

	// Verify applies the emitted registrations to a fresh registry and
	// fails generation if any of them is rejected.
	Verify bool

	// Logger receives progress messages. Default: slog.Default()
	Logger *slog.Logger `validate:"-"`
}

// GenerateResult contains the generated files and what produced them.
type GenerateResult struct {
	// Files lists the generated files with their content.
	Files []File

	// Program is the declaration graph the files were generated from.
	Program *ir.Program

	// Plan is the registration plan that was rendered.
	Plan *javascript.Plan

	// Warnings contains non-fatal issues reported by the provider.
	Warnings []ir.Warning

	// Diagnostics contains user-reportable problems found during emission.
	Diagnostics []ir.Diagnostic
}

// File is a generated file.
type File struct {
	Path    string
	Content []byte
}

// Generate builds the program, validates it and emits the registration
// module. The config is not modified.
func Generate(cfg *Config) (*GenerateResult, error) {
	return GenerateContext(context.Background(), cfg)
}

// GenerateContext is like Generate but accepts a context for cancellation.
func GenerateContext(ctx context.Context, cfg *Config) (*GenerateResult, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	cfg = applyConfigDefaults(cfg)
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	jsConfig, err := javascript.ParseOptions(*cfg.JavaScript, cfg.Options)
	if err != nil {
		return nil, err
	}
	if err := validateConfig(&jsConfig); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	program, err := BuildProgram(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build program: %w", err)
	}
	logger.Info("program loaded",
		slog.String("provider", cfg.Provider),
		slog.String("module", program.Module),
		slog.Int("types", len(program.Types)),
		slog.Int("imported", len(program.Imported)))
	for _, w := range program.Warnings {
		logger.Warn(w.Message, slog.String("code", w.Code), slog.String("type", w.TypeName))
	}

	if errs := program.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("program %q is invalid: %w", program.Module, errors.Join(errs...))
	}

	mem := sink.NewMemorySink()
	gen := &javascript.JavaScriptGenerator{Logger: logger}
	res, err := gen.Generate(ctx, program, javascript.GenerateOptions{Sink: mem, Config: jsConfig})
	if err != nil {
		return nil, fmt.Errorf("failed to generate JavaScript: %w", err)
	}

	if cfg.Verify {
		if err := nominal.NewRegistry().Apply(res.Plan.Registrations); err != nil {
			return nil, fmt.Errorf("registration plan rejected: %w", err)
		}
		logger.Debug("registration plan verified", slog.Int("registrations", len(res.Plan.Registrations)))
	}

	result := &GenerateResult{
		Program:     program,
		Plan:        res.Plan,
		Warnings:    res.Warnings,
		Diagnostics: res.Diagnostics,
	}
	for _, f := range res.Files {
		result.Files = append(result.Files, File{Path: f.Path, Content: mem.Get(f.Path)})
	}

	if cfg.OutDir != "" {
		out := sink.NewFilesystemSink(cfg.OutDir)
		out.Overwrite = !cfg.KeepExisting
		for _, f := range result.Files {
			if err := out.WriteFile(ctx, f.Path, f.Content); err != nil {
				return nil, err
			}
		}
		logger.Info("files written", slog.String("dir", cfg.OutDir), slog.Int("files", len(result.Files)))
	}
	return result, nil
}

// BuildProgram runs the configured provider.
func BuildProgram(ctx context.Context, cfg *Config) (*ir.Program, error) {
	switch cfg.Provider {
	case ProviderHCL:
		p := &provider.HCLProvider{}
		return p.BuildProgram(ctx, provider.HCLInputOptions{
			Paths:  cfg.Paths,
			Module: cfg.Module,
		})
	case ProviderSource:
		p := &provider.SourceProvider{}
		return p.BuildProgram(ctx, provider.SourceInputOptions{
			Packages:   cfg.Packages,
			Namespaces: cfg.Namespaces,
			Module:     cfg.Module,
			EntryType:  cfg.EntryType,
		})
	default:
		return nil, fmt.Errorf("unknown provider: %q (expected %q or %q)", cfg.Provider, ProviderHCL, ProviderSource)
	}
}

// applyConfigDefaults applies default values to a copy of cfg.
func applyConfigDefaults(cfg *Config) *Config {
	result := *cfg

	if result.Provider == "" {
		if len(result.Packages) > 0 {
			result.Provider = ProviderSource
		} else {
			result.Provider = ProviderHCL
		}
	}
	if result.JavaScript == nil {
		js := javascript.DefaultConfig()
		result.JavaScript = &js
	}
	if result.Logger == nil {
		result.Logger = slog.Default()
	}

	return &result
}

// validateConfig validates s and formats field errors.
func validateConfig(s any) error {
	err := validate.Struct(s)
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return err
	}
	messages := make([]string, 0, len(valErrs))
	for _, ve := range valErrs {
		messages = append(messages, ve.Namespace()+": "+formatValidationError(ve))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
}

func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required", "required_if":
		return "required"
	case "gte":
		return fmt.Sprintf("must be at least %s", ve.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", ve.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}
