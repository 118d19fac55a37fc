package provider

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/broady/nominal/nominalgen/ir"
)

// ParseTypeRef parses a type reference written as Name or Name<Arg, ...>.
// Arguments matching one of params become type parameter descriptors;
// everything else is a reference to a named type.
func ParseTypeRef(text string, params []string) (ir.TypeDescriptor, error) {
	p := &refParser{src: text, params: params}
	td, err := p.expr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return td, nil
}

// parseNamedRef parses a reference that must name a type, not a parameter.
func parseNamedRef(text string, params []string) (*ir.ReferenceDescriptor, error) {
	td, err := ParseTypeRef(text, params)
	if err != nil {
		return nil, err
	}
	ref, ok := td.(*ir.ReferenceDescriptor)
	if !ok {
		return nil, fmt.Errorf("type reference %q: a type parameter cannot be used here", text)
	}
	return ref, nil
}

type refParser struct {
	src    string
	pos    int
	params []string
}

func (p *refParser) errorf(format string, args ...any) error {
	return fmt.Errorf("type reference %q at offset %d: %s", p.src, p.pos, fmt.Sprintf(format, args...))
}

func (p *refParser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *refParser) expr() (ir.TypeDescriptor, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && !strings.ContainsRune("<>, \t\n", rune(p.src[p.pos])) {
		p.pos++
	}
	name := p.src[start:p.pos]
	if name == "" {
		return nil, p.errorf("expected a type name")
	}

	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != '<' {
		for i, param := range p.params {
			if param == name {
				return ir.TypeParam(name, i), nil
			}
		}
		return ir.Ref(name), nil
	}

	p.pos++
	var args []ir.TypeDescriptor
	for {
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, p.errorf("unterminated argument list")
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case '>':
			p.pos++
			return ir.Ref(name, args...), nil
		default:
			return nil, p.errorf("unexpected %q", p.src[p.pos])
		}
	}
}
