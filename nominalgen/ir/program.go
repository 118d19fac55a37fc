package ir

import (
	"strconv"
	"strings"

	"github.com/broady/nominal"
)

// Program is the complete declaration graph of one compilation.
type Program struct {
	// Module is the name of the emitted module (e.g. "zoo").
	Module string

	// Types contains the declared classes, interfaces and enums.
	// Emitters MUST NOT rely on their order.
	Types []TypeDescriptor

	// Imported lists host types known only by name. They may be referenced
	// but are never registered with a shape.
	Imported []string

	// EntryPoint designates the method invoked when the program starts.
	// This field is OPTIONAL.
	EntryPoint *EntryPoint

	// Warnings contains non-fatal issues encountered while building the program.
	Warnings []Warning
}

// EntryPoint names a static method of a declared class.
type EntryPoint struct {
	// Type is the qualified name of the declaring class.
	Type string `json:"type"`

	// Method is the method name.
	Method string `json:"method"`
}

// FullName returns the fully qualified method name.
func (e EntryPoint) FullName() string { return e.Type + "." + e.Method }

// AddType adds a declared type to the program.
func (p *Program) AddType(t TypeDescriptor) {
	p.Types = append(p.Types, t)
}

// AddWarning adds a warning to the program.
func (p *Program) AddWarning(w Warning) {
	p.Warnings = append(p.Warnings, w)
}

// FindType looks up a declared type by registered name. Returns nil if not found.
func (p *Program) FindType(name string) TypeDescriptor {
	for _, t := range p.Types {
		if t.TypeName() == name {
			return t
		}
	}
	return nil
}

// EntryMethod resolves the entry point to its method descriptor.
// Returns nil if the program has no entry point or it cannot be found.
func (p *Program) EntryMethod() *MethodDescriptor {
	if p.EntryPoint == nil {
		return nil
	}
	cd, ok := p.FindType(p.EntryPoint.Type).(*ClassDescriptor)
	if !ok {
		return nil
	}
	return cd.Method(p.EntryPoint.Method)
}

// Validate checks the program for structural issues.
// Returns all validation errors found (not just the first).
func (p *Program) Validate() []error {
	var errors []*ValidationError

	// Build the set of declared names, checking for duplicates
	declared := make(map[string]TypeDescriptor)
	plain := make(map[string]bool)
	for _, t := range p.Types {
		name := t.TypeName()
		if name == "" {
			errors = append(errors, &ValidationError{
				Code:    "empty_name",
				Message: "declared " + strings.ToLower(t.Kind().String()) + " has no name",
			})
			continue
		}
		if _, dup := declared[name]; dup {
			errors = append(errors, &ValidationError{
				Code:    "duplicate_type",
				Message: "duplicate type name: " + name,
			})
		}
		declared[name] = t
		plain[baseName(name)] = true
	}

	known := make(map[string]bool)
	for _, name := range nominal.DefaultIntrinsics().Names() {
		known[name] = true
	}
	for _, name := range p.Imported {
		if _, dup := declared[name]; dup {
			errors = append(errors, &ValidationError{
				Code:    "imported_declared",
				Message: "imported type is also declared: " + name,
			})
		}
		known[name] = true
	}

	v := &refValidator{declared: declared, plain: plain, known: known}
	for _, t := range p.Types {
		switch d := t.(type) {
		case *ClassDescriptor:
			if d.Base != nil {
				ctx := "class " + d.Name + " base"
				v.check(d.Base, len(d.TypeParameters), ctx)
				if target, ok := declared[d.Base.Key()]; ok && target.Kind() != KindClass {
					v.add("invalid_base", ctx+" is not a class: "+d.Base.Key())
				}
			}
			v.checkInterfaces(d.Interfaces, len(d.TypeParameters), "class "+d.Name)
			for _, m := range d.Methods {
				for _, param := range m.Parameters {
					References(param.Type, func(r *ReferenceDescriptor) {
						v.check(r, len(d.TypeParameters), "method "+d.Name+"."+m.Name+" parameter "+param.Name)
					})
				}
			}
		case *InterfaceDescriptor:
			v.checkInterfaces(d.Interfaces, len(d.TypeParameters), "interface "+d.Name)
		case *EnumDescriptor:
			members := make(map[string]bool)
			for _, m := range d.Members {
				if members[m.Name] {
					v.add("duplicate_member", "duplicate member in enum "+d.Name+": "+m.Name)
				}
				members[m.Name] = true
			}
		}
	}
	errors = append(errors, v.errors...)

	// Check for circular inheritance
	errors = append(errors, p.detectCircularInheritance(declared)...)

	if ep := p.EntryPoint; ep != nil {
		cd, ok := declared[ep.Type].(*ClassDescriptor)
		switch {
		case !ok:
			errors = append(errors, &ValidationError{
				Code:    "missing_entry_point",
				Message: "entry point " + ep.FullName() + " refers to unknown class: " + ep.Type,
			})
		case cd.Method(ep.Method) == nil:
			errors = append(errors, &ValidationError{
				Code:    "missing_entry_point",
				Message: "entry point method not found: " + ep.FullName(),
			})
		case !cd.Method(ep.Method).Static:
			errors = append(errors, &ValidationError{
				Code:    "entry_point_not_static",
				Message: "entry point must be a static method: " + ep.FullName(),
			})
		}
	}

	// Convert ValidationErrors to regular errors
	var result []error
	for _, e := range errors {
		result = append(result, e)
	}
	return result
}

// ValidationError represents a program validation error.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type refValidator struct {
	declared map[string]TypeDescriptor
	plain    map[string]bool
	known    map[string]bool
	errors   []*ValidationError
}

func (v *refValidator) add(code, msg string) {
	v.errors = append(v.errors, &ValidationError{Code: code, Message: msg})
}

func (v *refValidator) checkInterfaces(refs []*ReferenceDescriptor, arity int, owner string) {
	for _, ref := range refs {
		ctx := owner + " interface"
		v.check(ref, arity, ctx)
		if target, ok := v.declared[ref.Key()]; ok && target.Kind() != KindInterface {
			v.add("invalid_interface", ctx+" is not an interface: "+ref.Key())
		}
	}
}

// check walks ref and its arguments, reporting unknown targets, arity
// mismatches and type parameters outside the enclosing declaration.
func (v *refValidator) check(ref *ReferenceDescriptor, arity int, context string) {
	if ref == nil {
		return
	}
	key := ref.Key()
	if _, ok := v.declared[key]; !ok && !v.known[key] {
		if v.plain[ref.Target] || v.known[ref.Target] {
			v.add("arity_mismatch", context+" applies "+ref.Target+" to "+strconv.Itoa(len(ref.Args))+" type arguments")
		} else {
			v.add("missing_type_reference", context+" references unknown type: "+ref.String())
		}
	}
	for _, a := range ref.Args {
		switch d := a.(type) {
		case *ReferenceDescriptor:
			v.check(d, arity, context)
		case *TypeParameterDescriptor:
			if d.Index < 0 || d.Index >= arity {
				v.add("invalid_type_parameter", context+" uses type parameter "+describe(d)+" outside its declaration")
			}
		case nil:
			v.add("missing_type_reference", context+" has a nil type argument")
		}
	}
}

// detectCircularInheritance checks for cycles in base classes and
// interface extension.
func (p *Program) detectCircularInheritance(declared map[string]TypeDescriptor) []*ValidationError {
	var errors []*ValidationError

	visited := make(map[string]bool)
	inStack := make(map[string]bool)

	var detectCycle func(name string, path []string)
	detectCycle = func(name string, path []string) {
		if inStack[name] {
			cyclePath := append(path, name)
			errors = append(errors, &ValidationError{
				Code:    "circular_inheritance",
				Message: "circular inheritance detected: " + joinPath(cyclePath),
			})
			return
		}
		if visited[name] {
			return
		}

		visited[name] = true
		inStack[name] = true

		for _, dep := range Dependencies(declared[name]) {
			if _, ok := declared[dep.Key()]; ok {
				detectCycle(dep.Key(), append(path, name))
			}
		}

		inStack[name] = false
	}

	for _, t := range p.Types {
		if name := t.TypeName(); name != "" {
			detectCycle(name, nil)
		}
	}

	return errors
}

// baseName strips a generic arity suffix.
func baseName(name string) string {
	if i := strings.LastIndexByte(name, '`'); i >= 0 {
		return name[:i]
	}
	return name
}

// joinPath joins path elements with " -> ".
func joinPath(path []string) string {
	return strings.Join(path, " -> ")
}
