package nominalgen

import (
	"log/slog"

	"github.com/broady/nominal/nominalgen/javascript"
)

// Generator provides a fluent API for code generation.
// Create with FromHCL() or FromPackages() and configure with method chaining.
//
// Example:
//
//	nominalgen.FromHCL("./decls").
//	    Module("zoo").
//	    Option("registry=$rt").
//	    ToDir("./out")
type Generator struct {
	cfg Config
}

// FromHCL creates a Generator reading HCL declaration files or directories.
func FromHCL(paths ...string) *Generator {
	return &Generator{cfg: Config{Provider: ProviderHCL, Paths: paths}}
}

// FromPackages creates a Generator reading exported types of Go packages.
//
// Example:
//
//	nominalgen.FromPackages("github.com/myorg/zoo").
//	    Namespace("github.com/myorg/zoo", "Zoo").
//	    Generate()
func FromPackages(pkgs ...string) *Generator {
	return &Generator{cfg: Config{Provider: ProviderSource, Packages: pkgs}}
}

// Module sets the emitted module name.
func (g *Generator) Module(name string) *Generator {
	g.cfg.Module = name
	return g
}

// Namespace maps a Go package path to a namespace.
func (g *Generator) Namespace(pkgPath, namespace string) *Generator {
	if g.cfg.Namespaces == nil {
		g.cfg.Namespaces = make(map[string]string)
	}
	g.cfg.Namespaces[pkgPath] = namespace
	return g
}

// EntryType sets the class receiving a package-level Main function.
func (g *Generator) EntryType(name string) *Generator {
	g.cfg.EntryType = name
	return g
}

// Option adds key=value emitter options (e.g. "indent_style=tab").
func (g *Generator) Option(opts ...string) *Generator {
	g.cfg.Options = append(g.cfg.Options, opts...)
	return g
}

// JavaScript replaces the base emitter configuration.
func (g *Generator) JavaScript(cfg javascript.GeneratorConfig) *Generator {
	g.cfg.JavaScript = &cfg
	return g
}

// Verify applies the emitted registrations to a fresh registry after
// generation and fails if any registration is rejected.
func (g *Generator) Verify() *Generator {
	g.cfg.Verify = true
	return g
}

// KeepExisting refuses to replace files that already exist in the
// output directory.
func (g *Generator) KeepExisting() *Generator {
	g.cfg.KeepExisting = true
	return g
}

// WithLogger sets the logger for progress messages.
func (g *Generator) WithLogger(logger *slog.Logger) *Generator {
	g.cfg.Logger = logger
	return g
}

// ToDir generates files to the specified directory.
// This is a terminal operation that writes files to disk.
func (g *Generator) ToDir(dir string) (*GenerateResult, error) {
	g.cfg.OutDir = dir
	return Generate(&g.cfg)
}

// Generate returns generated files in memory without writing to disk.
// Use ToDir() to write files to disk instead.
func (g *Generator) Generate() (*GenerateResult, error) {
	g.cfg.OutDir = ""
	return Generate(&g.cfg)
}
