// Package entrypoint checks the method designated as a program's entry
// point and produces the statement that invokes it.
package entrypoint

import (
	"github.com/broady/nominal/nominalgen/ir"
)

// Result is the outcome of validating an entry point. Exactly one of
// Invocation and Diagnostic is set.
type Result struct {
	// Invocation is the call to append after all registrations, e.g.
	// "$Zoo$Program.main();".
	Invocation string

	// Diagnostic reports why the method cannot be an entry point.
	Diagnostic *ir.Diagnostic
}

// Valid reports whether the entry point can be invoked.
func (r Result) Valid() bool { return r.Diagnostic == nil }

// Validate checks that method takes no parameters and is an ordinary call
// target. fullName is the method's fully qualified name; call renders the
// invocation statement once the method has been accepted.
func Validate(fullName string, method *ir.MethodDescriptor, call func() string) Result {
	code := 0
	switch {
	case len(method.Parameters) > 0:
		code = ir.CodeEntryPointParameters
	case method.InlineCode != "":
		code = ir.CodeEntryPointInlineCode
	}
	if code != 0 {
		d := &ir.Diagnostic{Code: code, Severity: ir.SeverityError, Args: []string{fullName}}
		if !method.Source.IsZero() {
			src := method.Source
			d.Source = &src
		}
		return Result{Diagnostic: d}
	}
	return Result{Invocation: call()}
}
