// Package args is a fixture whose entry point takes parameters.
package args

// Program holds the entry point.
type Program struct{}

// Run is an instance method.
func (p *Program) Run() {}

// Main starts the program.
func Main(args []string) {}
