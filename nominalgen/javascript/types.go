package javascript

import (
	"context"

	"github.com/broady/nominal"
	"github.com/broady/nominal/nominalgen/ir"
	"github.com/broady/nominal/nominalgen/sink"
)

// Generator transforms a declaration graph into a host module.
type Generator interface {
	// Name returns the generator's identifier.
	Name() string

	// Generate produces the module for the given program.
	Generate(ctx context.Context, program *ir.Program, opts GenerateOptions) (*GenerateResult, error)
}

// GenerateOptions configures generation behavior.
type GenerateOptions struct {
	// Sink receives generated output files.
	Sink sink.OutputSink

	// Config contains generator configuration.
	Config GeneratorConfig
}

// GenerateResult contains generation output metadata.
type GenerateResult struct {
	// Files lists all files that were written.
	Files []OutputFile

	// TypesGenerated is the number of registration calls emitted.
	TypesGenerated int

	// EntryPoint is true when an entry point invocation was emitted.
	EntryPoint bool

	// Warnings contains non-fatal issues carried over from the program.
	Warnings []ir.Warning

	// Diagnostics contains user-reportable problems found during emission.
	Diagnostics []ir.Diagnostic

	// Plan is the registration plan that was rendered.
	Plan *Plan
}

// OutputFile describes a generated file.
type OutputFile struct {
	// Path is the relative path of the generated file.
	Path string

	// Size is the number of bytes written.
	Size int64
}

// Plan is the emitted form of a program before rendering.
type Plan struct {
	// Module is the module name the plan was built for.
	Module string `json:"module"`

	// Registrations are the registration calls in dependency order.
	Registrations []nominal.Registration `json:"registrations"`

	// Statics are the static initialization statements in declaration order.
	Statics []string `json:"statics,omitempty"`

	// Invocation is the entry point call, empty if there is none.
	Invocation string `json:"invocation,omitempty"`

	// Diagnostics accumulated while planning.
	Diagnostics []ir.Diagnostic `json:"diagnostics,omitempty"`
}

// GeneratorConfig controls rendering. Fields carry schema tags so options
// can be supplied as key=value pairs (see ParseOptions).
type GeneratorConfig struct {
	// RegistryVar is the host variable holding the runtime registry.
	RegistryVar string `schema:"registry" validate:"required"`

	// FileName overrides the output path. Default: "<module>.js".
	FileName string `schema:"file"`

	// Formatting
	IndentStyle     string `schema:"indent_style" validate:"oneof=space tab"`
	IndentSize      int    `schema:"indent_size" validate:"gte=0,lte=8"`
	LineEnding      string `schema:"line_ending" validate:"oneof=lf crlf"`
	TrailingNewline bool   `schema:"trailing_newline"`

	// EmitComments includes documentation comments in output.
	EmitComments bool `schema:"comments"`

	// StrictMode starts the module with 'use strict'.
	StrictMode bool `schema:"strict"`

	// EmitPlan also writes the registrations as <module>.plan.json.
	EmitPlan bool `schema:"emit_plan"`

	// Header emits the generated-code header line.
	Header bool `schema:"header"`
}

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		RegistryVar:     "$nominal",
		IndentStyle:     "space",
		IndentSize:      2,
		LineEnding:      "lf",
		TrailingNewline: true,
		EmitComments:    true,
		StrictMode:      true,
		Header:          true,
	}
}
