package provider

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/broady/nominal/nominalgen/ir"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// HCLProvider reads declarations from HCL files.
//
// A declaration file contains class, interface, enum, imported and
// entry_point blocks:
//
//	module = "zoo"
//
//	imported "Host.Widget" {}
//
//	class "Zoo.Cage" {
//	  type_parameters = ["T"]
//	  base            = "Zoo.Box<T>"
//	  interfaces      = ["Zoo.IBox<T>"]
//	}
//
//	enum "Zoo.Diet" {
//	  flags = true
//	  member "Meat" { value = 1 }
//	  member "Fish" { value = 2 }
//	}
//
//	entry_point {
//	  type   = "Zoo.Cat"
//	  method = "Main"
//	}
type HCLProvider struct{}

// HCLInputOptions configures HCL-based declaration loading.
type HCLInputOptions struct {
	// Paths are HCL files or directories. Directories contribute every
	// *.hcl file they directly contain, in lexical order.
	Paths []string

	// Sources maps file names to in-memory HCL content. They are parsed
	// after Paths, in lexical order of their names.
	Sources map[string][]byte

	// Module overrides the module name declared in the files.
	Module string
}

type hclFile struct {
	Module      string           `hcl:"module,optional"`
	Imported    []*hclImported   `hcl:"imported,block"`
	Classes     []*hclClass      `hcl:"class,block"`
	Interfaces  []*hclInterface  `hcl:"interface,block"`
	Enums       []*hclEnum       `hcl:"enum,block"`
	EntryPoints []*hclEntryPoint `hcl:"entry_point,block"`
}

type hclImported struct {
	Name string `hcl:"name,label"`
}

type hclClass struct {
	Name           string       `hcl:"name,label"`
	TypeParameters []string     `hcl:"type_parameters,optional"`
	Base           string       `hcl:"base,optional"`
	Interfaces     []string     `hcl:"interfaces,optional"`
	Statics        []string     `hcl:"statics,optional"`
	Doc            string       `hcl:"doc,optional"`
	Methods        []*hclMethod `hcl:"method,block"`
	Remain         hcl.Body     `hcl:",remain"`
}

type hclInterface struct {
	Name           string       `hcl:"name,label"`
	TypeParameters []string     `hcl:"type_parameters,optional"`
	Extends        []string     `hcl:"extends,optional"`
	Doc            string       `hcl:"doc,optional"`
	Methods        []*hclMethod `hcl:"method,block"`
	Remain         hcl.Body     `hcl:",remain"`
}

type hclMethod struct {
	Name       string          `hcl:"name,label"`
	Static     bool            `hcl:"static,optional"`
	InlineCode string          `hcl:"inline_code,optional"`
	Parameters []*hclParameter `hcl:"parameter,block"`
	Remain     hcl.Body        `hcl:",remain"`
}

type hclParameter struct {
	Name string `hcl:"name,label"`
	Type string `hcl:"type"`
}

type hclEnum struct {
	Name    string           `hcl:"name,label"`
	Flags   bool             `hcl:"flags,optional"`
	Doc     string           `hcl:"doc,optional"`
	Members []*hclEnumMember `hcl:"member,block"`
	Remain  hcl.Body         `hcl:",remain"`
}

type hclEnumMember struct {
	Name  string     `hcl:"name,label"`
	Value *cty.Value `hcl:"value,optional"`
	Doc   string     `hcl:"doc,optional"`
}

type hclEntryPoint struct {
	Type   string   `hcl:"type"`
	Method string   `hcl:"method"`
	Remain hcl.Body `hcl:",remain"`
}

// BuildProgram parses the configured files and returns the declared program.
func (p *HCLProvider) BuildProgram(ctx context.Context, opts HCLInputOptions) (*ir.Program, error) {
	files, err := expandHCLPaths(opts.Paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 && len(opts.Sources) == 0 {
		return nil, fmt.Errorf("no HCL files specified")
	}

	parser := hclparse.NewParser()
	b := &hclBuilder{program: &ir.Program{}}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
		}
		if err := b.decode(path, f); err != nil {
			return nil, err
		}
	}

	names := make([]string, 0, len(opts.Sources))
	for name := range opts.Sources {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		f, diags := parser.ParseHCL(opts.Sources[name], name)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", name, diags)
		}
		if err := b.decode(name, f); err != nil {
			return nil, err
		}
	}

	if opts.Module != "" {
		b.program.Module = opts.Module
	}
	return b.program, nil
}

func expandHCLPaths(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(path, "*.hcl"))
		if err != nil {
			return nil, fmt.Errorf("failed to list HCL files in %s: %w", path, err)
		}
		slices.Sort(matches)
		files = append(files, matches...)
	}
	return files, nil
}

type hclBuilder struct {
	program *ir.Program
}

func (b *hclBuilder) decode(path string, f *hcl.File) error {
	var parsed hclFile
	if diags := gohcl.DecodeBody(f.Body, nil, &parsed); diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	if parsed.Module != "" {
		if b.program.Module != "" && b.program.Module != parsed.Module {
			return fmt.Errorf("%s: module %q conflicts with module %q", path, parsed.Module, b.program.Module)
		}
		b.program.Module = parsed.Module
	}

	for _, imp := range parsed.Imported {
		if !slices.Contains(b.program.Imported, imp.Name) {
			b.program.Imported = append(b.program.Imported, imp.Name)
		}
	}

	for _, c := range parsed.Classes {
		cd, err := b.class(c)
		if err != nil {
			return fmt.Errorf("%s: class %q: %w", path, c.Name, err)
		}
		b.program.AddType(cd)
	}

	for _, i := range parsed.Interfaces {
		id, err := b.iface(i)
		if err != nil {
			return fmt.Errorf("%s: interface %q: %w", path, i.Name, err)
		}
		b.program.AddType(id)
	}

	for _, e := range parsed.Enums {
		ed, err := b.enum(e)
		if err != nil {
			return fmt.Errorf("%s: enum %q: %w", path, e.Name, err)
		}
		b.program.AddType(ed)
	}

	for _, ep := range parsed.EntryPoints {
		if diags := rejectUnknown(ep.Remain); diags.HasErrors() {
			return fmt.Errorf("%s: entry_point: %w", path, diags)
		}
		if b.program.EntryPoint != nil {
			return fmt.Errorf("%s: entry point %s.%s: an entry point is already declared as %s",
				path, ep.Type, ep.Method, b.program.EntryPoint.FullName())
		}
		b.program.EntryPoint = &ir.EntryPoint{Type: ep.Type, Method: ep.Method}
	}
	return nil
}

func (b *hclBuilder) class(c *hclClass) (*ir.ClassDescriptor, error) {
	if diags := rejectUnknown(c.Remain); diags.HasErrors() {
		return nil, diags
	}
	cd := &ir.ClassDescriptor{
		Name:           c.Name,
		TypeParameters: c.TypeParameters,
		Statics:        c.Statics,
		Documentation:  newDocumentation(c.Doc),
		Source:         declSource(c.Remain),
	}
	if c.Base != "" {
		base, err := parseNamedRef(c.Base, c.TypeParameters)
		if err != nil {
			return nil, fmt.Errorf("base: %w", err)
		}
		cd.Base = base
	}
	refs, err := parseRefs(c.Interfaces, c.TypeParameters)
	if err != nil {
		return nil, fmt.Errorf("interfaces: %w", err)
	}
	cd.Interfaces = refs
	if cd.Methods, err = b.methods(c.Methods, c.TypeParameters); err != nil {
		return nil, err
	}
	return cd, nil
}

func (b *hclBuilder) iface(i *hclInterface) (*ir.InterfaceDescriptor, error) {
	if diags := rejectUnknown(i.Remain); diags.HasErrors() {
		return nil, diags
	}
	refs, err := parseRefs(i.Extends, i.TypeParameters)
	if err != nil {
		return nil, fmt.Errorf("extends: %w", err)
	}
	id := &ir.InterfaceDescriptor{
		Name:           i.Name,
		TypeParameters: i.TypeParameters,
		Interfaces:     refs,
		Documentation:  newDocumentation(i.Doc),
		Source:         declSource(i.Remain),
	}
	if id.Methods, err = b.methods(i.Methods, i.TypeParameters); err != nil {
		return nil, err
	}
	return id, nil
}

func (b *hclBuilder) methods(methods []*hclMethod, params []string) ([]ir.MethodDescriptor, error) {
	var out []ir.MethodDescriptor
	for _, m := range methods {
		if diags := rejectUnknown(m.Remain); diags.HasErrors() {
			return nil, fmt.Errorf("method %q: %w", m.Name, diags)
		}
		md := ir.MethodDescriptor{
			Name:       m.Name,
			Static:     m.Static,
			InlineCode: m.InlineCode,
			Source:     declSource(m.Remain),
		}
		for _, param := range m.Parameters {
			td, err := ParseTypeRef(param.Type, params)
			if err != nil {
				return nil, fmt.Errorf("method %q parameter %q: %w", m.Name, param.Name, err)
			}
			md.Parameters = append(md.Parameters, ir.ParameterDescriptor{Name: param.Name, Type: td})
		}
		out = append(out, md)
	}
	return out, nil
}

func (b *hclBuilder) enum(e *hclEnum) (*ir.EnumDescriptor, error) {
	if diags := rejectUnknown(e.Remain); diags.HasErrors() {
		return nil, diags
	}
	ed := &ir.EnumDescriptor{
		Name:          e.Name,
		Flags:         e.Flags,
		Documentation: newDocumentation(e.Doc),
		Source:        declSource(e.Remain),
	}
	next := int64(0)
	for _, m := range e.Members {
		value := next
		if m.Value != nil && !m.Value.IsNull() {
			v, err := memberValue(*m.Value)
			if err != nil {
				return nil, fmt.Errorf("member %q: %w", m.Name, err)
			}
			value = v
		}
		ed.Members = append(ed.Members, ir.EnumMember{
			Name:          m.Name,
			Value:         value,
			Documentation: newDocumentation(m.Doc),
		})
		next = value + 1
	}
	return ed, nil
}

// memberValue converts an HCL value to an integral enum value.
func memberValue(v cty.Value) (int64, error) {
	if !v.IsKnown() {
		return 0, fmt.Errorf("value must be known")
	}
	if v.Type() != cty.Number {
		return 0, fmt.Errorf("value must be a number, got %s", v.Type().FriendlyName())
	}
	bf := v.AsBigFloat()
	if !bf.IsInt() {
		return 0, fmt.Errorf("value %s is not an integer", bf.Text('g', -1))
	}
	i, acc := bf.Int64()
	if acc != big.Exact {
		return 0, fmt.Errorf("value %s does not fit in 64 bits", bf.Text('g', -1))
	}
	return i, nil
}

func parseRefs(texts []string, params []string) ([]*ir.ReferenceDescriptor, error) {
	var refs []*ir.ReferenceDescriptor
	for _, text := range texts {
		ref, err := parseNamedRef(strings.TrimSpace(text), params)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// rejectUnknown reports any attribute or block left over after decoding.
func rejectUnknown(remain hcl.Body) hcl.Diagnostics {
	if remain == nil {
		return nil
	}
	_, diags := remain.Content(&hcl.BodySchema{})
	return diags
}

// declSource returns the location of the block owning body.
func declSource(body hcl.Body) ir.Source {
	if body == nil {
		return ir.Source{}
	}
	r := body.MissingItemRange()
	return ir.Source{File: r.Filename, Line: r.Start.Line, Column: r.Start.Column}
}
