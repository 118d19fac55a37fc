package nominal

// Kind identifies the category of a type descriptor.
type Kind int

const (
	KindClass              Kind = iota // Class with single inheritance
	KindInterface                      // Interface with multiple inheritance
	KindEnum                           // Enumeration, optionally flags
	KindGenericDefinition              // Open generic class or interface
	KindConstructedGeneric             // Generic definition bound to type arguments
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindClass:
		return "Class"
	case KindInterface:
		return "Interface"
	case KindEnum:
		return "Enum"
	case KindGenericDefinition:
		return "GenericDefinition"
	case KindConstructedGeneric:
		return "ConstructedGeneric"
	default:
		return "Unknown"
	}
}

// Predicate overrides the structural instance-of check for a type.
type Predicate func(value any) bool

// Type is a registered runtime type descriptor.
// The concrete types are *Class, *Interface, *Enum, *GenericDefinition and
// *Constructed.
type Type interface {
	// Kind returns the descriptor kind for type switching.
	Kind() Kind

	// Name returns the qualified name the type is registered under.
	// For constructed generics this is the canonical generic name.
	Name() string

	// Predicate returns the custom instance-of check, or nil.
	Predicate() Predicate

	// Constructor returns the opaque host constructor attached at registration.
	Constructor() any

	sealed()
}

type typeBase struct {
	name      string
	predicate Predicate
	ctor      any
}

func (b *typeBase) Name() string         { return b.name }
func (b *typeBase) Predicate() Predicate { return b.predicate }
func (b *typeBase) Constructor() any     { return b.ctor }
func (*typeBase) sealed()                {}

// Class is a class descriptor. Its base is either another *Class or a
// class-shaped *Constructed; the root object type has no base.
type Class struct {
	typeBase
	base       Type
	interfaces []Type
	intrinsic  bool
	imported   bool
}

// Kind returns KindClass.
func (c *Class) Kind() Kind { return KindClass }

// Base returns the direct base type, or nil for the root object type.
func (c *Class) Base() Type { return c.base }

// Interfaces returns the directly implemented interfaces.
func (c *Class) Interfaces() []Type { return cloneTypes(c.interfaces) }

// Intrinsic reports whether the class stands for a host-native type.
func (c *Class) Intrinsic() bool { return c.intrinsic }

// Imported reports whether the class was declared by name only.
func (c *Class) Imported() bool { return c.imported }

// Interface is an interface descriptor. Its interfaces are the interfaces
// it extends.
type Interface struct {
	typeBase
	interfaces []Type
}

// Kind returns KindInterface.
func (i *Interface) Kind() Kind { return KindInterface }

// Interfaces returns the directly extended interfaces.
func (i *Interface) Interfaces() []Type { return cloneTypes(i.interfaces) }

// GenericDefinition is an open generic class or interface. Its base and
// interfaces are templates over the type parameters and are only resolved
// once arguments are bound by Instantiate.
type GenericDefinition struct {
	typeBase
	arity       int
	isInterface bool
	base        TypeExpr
	interfaces  []TypeExpr
}

// Kind returns KindGenericDefinition.
func (g *GenericDefinition) Kind() Kind { return KindGenericDefinition }

// Arity returns the number of type parameters.
func (g *GenericDefinition) Arity() int { return g.arity }

// IsInterface reports whether the definition is a generic interface.
func (g *GenericDefinition) IsInterface() bool { return g.isInterface }

// Constructed is a generic definition bound to concrete type arguments.
type Constructed struct {
	typeBase
	definition *GenericDefinition
	args       []Type
	base       Type
	interfaces []Type
}

// Kind returns KindConstructedGeneric.
func (c *Constructed) Kind() Kind { return KindConstructedGeneric }

// Definition returns the generic definition this type was built from.
func (c *Constructed) Definition() *GenericDefinition { return c.definition }

// TypeArguments returns the bound type arguments in order.
func (c *Constructed) TypeArguments() []Type { return cloneTypes(c.args) }

// Base returns the substituted base type. Interfaces have no base.
func (c *Constructed) Base() Type { return c.base }

// Interfaces returns the substituted direct interfaces.
func (c *Constructed) Interfaces() []Type { return cloneTypes(c.interfaces) }

// IsInterface reports whether the type is a constructed generic interface.
func (c *Constructed) IsInterface() bool { return c.definition.isInterface }

func cloneTypes(ts []Type) []Type {
	if len(ts) == 0 {
		return nil
	}
	out := make([]Type, len(ts))
	copy(out, ts)
	return out
}

// isInterfaceType reports whether t can appear in an interface list.
func isInterfaceType(t Type) bool {
	switch v := t.(type) {
	case *Interface:
		return true
	case *Constructed:
		return v.IsInterface()
	}
	return false
}

// isClassType reports whether t can appear as a base type.
func isClassType(t Type) bool {
	switch v := t.(type) {
	case *Class:
		return true
	case *Constructed:
		return !v.IsInterface()
	}
	return false
}

// TypeOption configures a type at registration time.
type TypeOption func(*typeOptions)

type typeOptions struct {
	predicate  Predicate
	ctor       any
	base       TypeExpr
	interfaces []TypeExpr
}

// WithPredicate attaches a custom instance-of check to the type.
func WithPredicate(p Predicate) TypeOption {
	return func(o *typeOptions) { o.predicate = p }
}

// WithConstructor attaches the host constructor value to the type.
func WithConstructor(ctor any) TypeOption {
	return func(o *typeOptions) { o.ctor = ctor }
}

// WithGenericBase sets the base type template of a generic class definition.
func WithGenericBase(base TypeExpr) TypeOption {
	return func(o *typeOptions) { o.base = base }
}

// WithGenericInterfaces sets the interface templates of a generic definition.
func WithGenericInterfaces(ifaces ...TypeExpr) TypeOption {
	return func(o *typeOptions) { o.interfaces = append(o.interfaces, ifaces...) }
}

func collectOptions(opts []TypeOption) typeOptions {
	var o typeOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
