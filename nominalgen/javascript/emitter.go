// Package javascript emits a program's type registrations as a host module.
package javascript

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/broady/nominal"
	"github.com/broady/nominal/nominalgen/entrypoint"
	"github.com/broady/nominal/nominalgen/ir"
	"github.com/broady/nominal/nominalgen/order"
)

// Emitter plans and renders registrations for a program.
type Emitter struct {
	config GeneratorConfig
	indent string
}

// NewEmitter creates an Emitter. Zero-valued formatting fields fall back
// to DefaultConfig.
func NewEmitter(cfg GeneratorConfig) *Emitter {
	def := DefaultConfig()
	if cfg.RegistryVar == "" {
		cfg.RegistryVar = def.RegistryVar
	}
	if cfg.IndentStyle == "" {
		cfg.IndentStyle = def.IndentStyle
	}
	if cfg.LineEnding == "" {
		cfg.LineEnding = def.LineEnding
	}
	indent := "\t"
	if cfg.IndentStyle == "space" {
		indent = strings.Repeat(" ", cfg.IndentSize)
	}
	return &Emitter{config: cfg, indent: indent}
}

// Plan orders the program's declarations and converts them into
// registration calls. Imported types come first, then declared types in
// dependency order. Static initializers follow in namespace order and the
// entry point, if valid, is invoked last. Entry point problems are
// reported as diagnostics; a dependency cycle is an error.
func (e *Emitter) Plan(program *ir.Program) (*Plan, error) {
	types, err := order.Topological(program.Types)
	if err != nil {
		return nil, err
	}

	plan := &Plan{Module: program.Module}
	for _, name := range order.Names(program.Imported) {
		plan.Registrations = append(plan.Registrations, nominal.Registration{Op: nominal.OpImport, Name: name})
	}
	for _, t := range types {
		reg, err := registration(t)
		if err != nil {
			return nil, err
		}
		plan.Registrations = append(plan.Registrations, reg)
	}

	for _, t := range order.Namespace(program.Types) {
		if cd, ok := t.(*ir.ClassDescriptor); ok {
			plan.Statics = append(plan.Statics, cd.Statics...)
		}
	}

	if ep := program.EntryPoint; ep != nil {
		m := program.EntryMethod()
		if m == nil {
			return nil, fmt.Errorf("entry point not found: %s", ep.FullName())
		}
		res := entrypoint.Validate(ep.FullName(), m, func() string {
			return ctorIdent(ep.Type) + "." + memberName(m.Name) + "();"
		})
		if res.Valid() {
			plan.Invocation = res.Invocation
		} else {
			plan.Diagnostics = append(plan.Diagnostics, *res.Diagnostic)
		}
	}
	return plan, nil
}

// registration converts a declared type into its registration call.
func registration(t ir.TypeDescriptor) (nominal.Registration, error) {
	switch d := t.(type) {
	case *ir.ClassDescriptor:
		reg := nominal.Registration{
			Op:         nominal.OpRegisterClass,
			Name:       d.TypeName(),
			Interfaces: typeRefs(d.Interfaces),
		}
		if d.Base != nil {
			base := typeRef(d.Base)
			reg.Base = &base
		}
		if n := len(d.TypeParameters); n > 0 {
			reg.Op = nominal.OpRegisterGenericClass
			reg.Arity = n
		}
		return reg, nil

	case *ir.InterfaceDescriptor:
		reg := nominal.Registration{
			Op:         nominal.OpRegisterInterface,
			Name:       d.TypeName(),
			Interfaces: typeRefs(d.Interfaces),
		}
		if n := len(d.TypeParameters); n > 0 {
			reg.Op = nominal.OpRegisterGenericInterface
			reg.Arity = n
		}
		return reg, nil

	case *ir.EnumDescriptor:
		members := make([]nominal.EnumMember, len(d.Members))
		for i, m := range d.Members {
			members[i] = nominal.EnumMember{Name: m.Name, Value: m.Value}
		}
		return nominal.Registration{
			Op:      nominal.OpRegisterEnum,
			Name:    d.Name,
			IsFlags: d.Flags,
			Members: members,
		}, nil

	default:
		return nominal.Registration{}, fmt.Errorf("unsupported declaration kind: %s", t.Kind())
	}
}

func typeRefs(refs []*ir.ReferenceDescriptor) []nominal.TypeRef {
	if len(refs) == 0 {
		return nil
	}
	out := make([]nominal.TypeRef, len(refs))
	for i, r := range refs {
		out[i] = typeRef(r)
	}
	return out
}

func typeRef(ref *ir.ReferenceDescriptor) nominal.TypeRef {
	out := nominal.TypeRef{Name: ref.Key()}
	for _, a := range ref.Args {
		switch a := a.(type) {
		case *ir.ReferenceDescriptor:
			out.Args = append(out.Args, typeRef(a))
		case *ir.TypeParameterDescriptor:
			out.Args = append(out.Args, nominal.ParamRef(a.Index))
		}
	}
	return out
}

// Render writes the plan as module text: constructor declarations, the
// registration calls, static initializers and the entry point invocation.
func (e *Emitter) Render(program *ir.Program, plan *Plan) []byte {
	var buf bytes.Buffer
	w := &writer{buf: &buf}

	if e.config.Header {
		w.line("// Code generated by nominal. DO NOT EDIT.")
	}
	if e.config.StrictMode {
		w.line("'use strict';")
	}
	w.blank()

	for _, reg := range plan.Registrations {
		if reg.Op == nominal.OpImport {
			continue
		}
		e.emitConstructor(w, program.FindType(reg.Name), reg)
	}

	w.blank()
	for _, reg := range plan.Registrations {
		e.emitRegistration(w, program, reg)
	}

	if len(plan.Statics) > 0 {
		w.blank()
		for _, s := range plan.Statics {
			w.line(s)
		}
	}
	if plan.Invocation != "" {
		w.blank()
		w.line(plan.Invocation)
	}

	out := bytes.TrimRight(buf.Bytes(), "\n")
	if e.config.TrailingNewline {
		out = append(out, '\n')
	}
	if e.config.LineEnding == "crlf" {
		out = bytes.ReplaceAll(out, []byte("\n"), []byte("\r\n"))
	}
	return out
}

// emitConstructor declares the constructor function a registration names.
// Enums also get their member table on the prototype.
func (e *Emitter) emitConstructor(w *writer, typ ir.TypeDescriptor, reg nominal.Registration) {
	if typ != nil && e.config.EmitComments && !typ.Doc().IsZero() {
		e.emitJSDoc(w, typ.Doc())
	}
	ident := ctorIdent(reg.Name)
	w.line("function " + ident + "() {}")
	if reg.Op != nominal.OpRegisterEnum || len(reg.Members) == 0 {
		return
	}
	w.line(ident + ".prototype = {")
	for i, m := range reg.Members {
		sep := ","
		if i == len(reg.Members)-1 {
			sep = ""
		}
		w.line(e.indent + sanitizeIdentifier(m.Name) + ": " + strconv.FormatInt(m.Value, 10) + sep)
	}
	w.line("};")
}

func (e *Emitter) emitRegistration(w *writer, program *ir.Program, reg nominal.Registration) {
	call := e.config.RegistryVar + "." + reg.Op.String()
	name := quote(reg.Name)
	ctor := ctorIdent(reg.Name)
	refs := func(rs []nominal.TypeRef, params []string) string {
		parts := make([]string, len(rs))
		for i, r := range rs {
			parts[i] = e.typeExpr(program, r, params)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}

	switch reg.Op {
	case nominal.OpImport:
		w.line(call + "(" + name + ");")

	case nominal.OpRegisterClass:
		base := "null"
		if reg.Base != nil {
			base = e.typeExpr(program, *reg.Base, nil)
		}
		w.line(call + "(" + name + ", " + ctor + ", " + base + ", " + refs(reg.Interfaces, nil) + ");")

	case nominal.OpRegisterInterface:
		w.line(call + "(" + name + ", " + ctor + ", " + refs(reg.Interfaces, nil) + ");")

	case nominal.OpRegisterEnum:
		w.line(call + "(" + name + ", " + ctor + ", " + strconv.FormatBool(reg.IsFlags) + ");")

	case nominal.OpRegisterGenericClass, nominal.OpRegisterGenericInterface:
		head := call + "(" + name + ", " + ctor + ", " + strconv.Itoa(reg.Arity)
		if reg.Base == nil && len(reg.Interfaces) == 0 {
			w.line(head + ");")
			return
		}
		params := typeParameterNames(program.FindType(reg.Name), reg.Arity)
		base := "null"
		if reg.Base != nil {
			base = e.typeExpr(program, *reg.Base, params)
		}
		w.line(head + ", function(" + strings.Join(params, ", ") + ") {")
		w.line(e.indent + "return { base: " + base + ", interfaces: " + refs(reg.Interfaces, params) + " };")
		w.line("});")
	}
}

// typeExpr renders a reference. Declared types are named by their
// constructor identifier, other types by their host path, and generic
// applications go through the registry's instantiate call.
func (e *Emitter) typeExpr(program *ir.Program, ref nominal.TypeRef, params []string) string {
	if ref.IsParam() {
		if ref.Param < len(params) {
			return params[ref.Param]
		}
		return "$T" + strconv.Itoa(ref.Param)
	}
	ident := ref.Name
	if program.FindType(ref.Name) != nil {
		ident = ctorIdent(ref.Name)
	}
	if len(ref.Args) == 0 {
		return ident
	}
	args := make([]string, len(ref.Args))
	for i, a := range ref.Args {
		args[i] = e.typeExpr(program, a, params)
	}
	return e.config.RegistryVar + ".instantiate(" + ident + ", [" + strings.Join(args, ", ") + "])"
}

func typeParameterNames(typ ir.TypeDescriptor, arity int) []string {
	var declared []string
	switch d := typ.(type) {
	case *ir.ClassDescriptor:
		declared = d.TypeParameters
	case *ir.InterfaceDescriptor:
		declared = d.TypeParameters
	}
	names := make([]string, arity)
	for i := range names {
		if i < len(declared) && declared[i] != "" {
			names[i] = sanitizeIdentifier(declared[i])
		} else {
			names[i] = "$T" + strconv.Itoa(i)
		}
	}
	return names
}

// emitJSDoc emits JSDoc-style documentation comments.
func (e *Emitter) emitJSDoc(w *writer, doc ir.Documentation) {
	text := doc.Body
	if text == "" {
		text = doc.Summary
	}
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) == 1 {
		w.line("/** " + strings.TrimSpace(lines[0]) + " */")
		return
	}
	w.line("/**")
	for _, l := range lines {
		w.line(strings.TrimRight(" * "+strings.TrimSpace(l), " "))
	}
	w.line(" */")
}

type writer struct {
	buf *bytes.Buffer
}

func (w *writer) line(s string) {
	w.buf.WriteString(s)
	w.buf.WriteByte('\n')
}

// blank separates sections with one empty line, never at the start.
func (w *writer) blank() {
	if w.buf.Len() == 0 || bytes.HasSuffix(w.buf.Bytes(), []byte("\n\n")) {
		return
	}
	w.buf.WriteByte('\n')
}
