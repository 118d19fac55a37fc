// Package input holds the declaration flags shared by the gen and check commands.
package input

import (
	"github.com/broady/nominal/nominalgen"
)

// Input selects the declarations to read.
type Input struct {
	Sources    []string          `arg:"" optional:"" help:"HCL declaration files or directories." type:"path"`
	Packages   []string          `help:"Go packages to analyze instead of HCL files." short:"P" sep:","`
	Module     string            `help:"Module name of the generated registration file." short:"m"`
	Namespaces map[string]string `help:"Map a Go package path to a namespace (pkg=Namespace)." short:"n" name:"namespace"`
	EntryType  string            `help:"Class receiving a package-level Main function." default:"Program" name:"entry-type"`
	Options    []string          `help:"Emitter option as key=value (e.g. registry=$rt)." short:"o" name:"option"`
}

// Config converts the flags to a generator configuration.
func (in *Input) Config() *nominalgen.Config {
	cfg := &nominalgen.Config{
		Paths:      in.Sources,
		Packages:   in.Packages,
		Namespaces: in.Namespaces,
		Module:     in.Module,
		EntryType:  in.EntryType,
		Options:    in.Options,
	}
	if len(in.Packages) > 0 {
		cfg.Provider = nominalgen.ProviderSource
	} else {
		cfg.Provider = nominalgen.ProviderHCL
	}
	return cfg
}
