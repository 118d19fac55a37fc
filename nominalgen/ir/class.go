package ir

// ClassDescriptor represents a class declaration.
type ClassDescriptor struct {
	// Name is the qualified name (e.g. "Zoo.Animals.Cat").
	Name string

	// TypeParameters names the generic type parameters in order.
	// A class with type parameters is registered as a generic definition.
	TypeParameters []string

	// Base is the base class. Nil means the root object type.
	Base *ReferenceDescriptor

	// Interfaces lists the directly implemented interfaces.
	Interfaces []*ReferenceDescriptor

	// Methods lists the methods the class declares.
	Methods []MethodDescriptor

	// Statics contains the static initialization statements of the class,
	// emitted after every registration in declaration order.
	Statics []string

	// Documentation for this type.
	Documentation Documentation

	// Source location of the declaration.
	Source Source
}

// Kind returns KindClass.
func (d *ClassDescriptor) Kind() DescriptorKind { return KindClass }

// TypeName returns the class's registered name.
func (d *ClassDescriptor) TypeName() string { return GenericName(d.Name, len(d.TypeParameters)) }

// Doc returns the class's documentation.
func (d *ClassDescriptor) Doc() Documentation { return d.Documentation }

// Src returns the class's source location.
func (d *ClassDescriptor) Src() Source { return d.Source }

func (*ClassDescriptor) sealed() {}

// Method returns the method with the given name, or nil.
func (d *ClassDescriptor) Method(name string) *MethodDescriptor {
	for i := range d.Methods {
		if d.Methods[i].Name == name {
			return &d.Methods[i]
		}
	}
	return nil
}

// InterfaceDescriptor represents an interface declaration.
type InterfaceDescriptor struct {
	// Name is the qualified name.
	Name string

	// TypeParameters names the generic type parameters in order.
	TypeParameters []string

	// Interfaces lists the interfaces this interface extends.
	Interfaces []*ReferenceDescriptor

	// Methods lists the interface's method signatures.
	Methods []MethodDescriptor

	// Documentation for this type.
	Documentation Documentation

	// Source location of the declaration.
	Source Source
}

// Kind returns KindInterface.
func (d *InterfaceDescriptor) Kind() DescriptorKind { return KindInterface }

// TypeName returns the interface's registered name.
func (d *InterfaceDescriptor) TypeName() string {
	return GenericName(d.Name, len(d.TypeParameters))
}

// Doc returns the interface's documentation.
func (d *InterfaceDescriptor) Doc() Documentation { return d.Documentation }

// Src returns the interface's source location.
func (d *InterfaceDescriptor) Src() Source { return d.Source }

func (*InterfaceDescriptor) sealed() {}

// MethodDescriptor represents a method of a class or interface.
type MethodDescriptor struct {
	// Name is the method name, unqualified.
	Name string

	// Static is true for static methods.
	Static bool

	// Parameters lists the formal parameters in order.
	Parameters []ParameterDescriptor

	// InlineCode is set when calls to the method are replaced by a code
	// template instead of calling a function.
	InlineCode string

	// Source location of the declaration.
	Source Source
}

// ParameterDescriptor represents one formal parameter.
type ParameterDescriptor struct {
	Name string
	Type TypeDescriptor
}
