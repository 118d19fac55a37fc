package ir

import (
	"strconv"
	"strings"
)

// ReferenceDescriptor represents a reference to a named type, optionally
// applied to generic arguments.
type ReferenceDescriptor struct {
	exprBase

	// Target is the qualified name of the referenced type, without any
	// generic arity suffix.
	Target string

	// Args are the generic arguments: references or type parameters.
	Args []TypeDescriptor
}

// Kind returns KindReference.
func (d *ReferenceDescriptor) Kind() DescriptorKind { return KindReference }

// Key returns the registered name the reference resolves to.
func (d *ReferenceDescriptor) Key() string { return GenericName(d.Target, len(d.Args)) }

// String renders the reference in canonical generic name form.
func (d *ReferenceDescriptor) String() string {
	if len(d.Args) == 0 {
		return d.Target
	}
	parts := make([]string, len(d.Args))
	for i, a := range d.Args {
		parts[i] = describe(a)
	}
	return d.Key() + "[" + strings.Join(parts, ",") + "]"
}

// Ref returns a ReferenceDescriptor for a named type.
func Ref(target string, args ...TypeDescriptor) *ReferenceDescriptor {
	return &ReferenceDescriptor{Target: target, Args: args}
}

// TypeParameterDescriptor refers to a type parameter of the enclosing
// generic declaration.
type TypeParameterDescriptor struct {
	exprBase

	// ParamName is the declared name (e.g. "T").
	ParamName string

	// Index is the position of the parameter in the declaration.
	Index int
}

// Kind returns KindTypeParameter.
func (d *TypeParameterDescriptor) Kind() DescriptorKind { return KindTypeParameter }

// TypeParam returns a TypeParameterDescriptor.
func TypeParam(name string, index int) *TypeParameterDescriptor {
	return &TypeParameterDescriptor{ParamName: name, Index: index}
}

func describe(td TypeDescriptor) string {
	switch d := td.(type) {
	case *ReferenceDescriptor:
		return d.String()
	case *TypeParameterDescriptor:
		if d.ParamName != "" {
			return d.ParamName
		}
		return "!" + strconv.Itoa(d.Index)
	case nil:
		return "<nil>"
	default:
		return d.TypeName()
	}
}

// References calls fn for every reference nested in td, outermost first.
func References(td TypeDescriptor, fn func(*ReferenceDescriptor)) {
	ref, ok := td.(*ReferenceDescriptor)
	if !ok || ref == nil {
		return
	}
	fn(ref)
	for _, a := range ref.Args {
		References(a, fn)
	}
}

// Dependencies returns the references a declared type names in its
// inheritance clause: the base class and the interfaces.
func Dependencies(td TypeDescriptor) []*ReferenceDescriptor {
	switch d := td.(type) {
	case *ClassDescriptor:
		var deps []*ReferenceDescriptor
		if d.Base != nil {
			deps = append(deps, d.Base)
		}
		return append(deps, d.Interfaces...)
	case *InterfaceDescriptor:
		return append([]*ReferenceDescriptor(nil), d.Interfaces...)
	default:
		return nil
	}
}
