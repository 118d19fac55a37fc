package ir

// EnumDescriptor represents an enumeration.
type EnumDescriptor struct {
	// Name is the qualified name.
	Name string

	// Flags marks an enum whose members are combined as bit sets.
	Flags bool

	// Members contains all enum members in declaration order.
	Members []EnumMember

	// Documentation for this type.
	Documentation Documentation

	// Source location of the declaration.
	Source Source
}

// Kind returns KindEnum.
func (d *EnumDescriptor) Kind() DescriptorKind { return KindEnum }

// TypeName returns the enum's name.
func (d *EnumDescriptor) TypeName() string { return d.Name }

// Doc returns the enum's documentation.
func (d *EnumDescriptor) Doc() Documentation { return d.Documentation }

// Src returns the enum's source location.
func (d *EnumDescriptor) Src() Source { return d.Source }

func (*EnumDescriptor) sealed() {}

// EnumMember represents a single enum member.
type EnumMember struct {
	// Name is the member name.
	Name string

	// Value is the member's integral value.
	Value int64

	// Documentation for this member.
	Documentation Documentation
}
