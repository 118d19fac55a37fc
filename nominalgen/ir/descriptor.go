package ir

// DescriptorKind identifies the category of a type descriptor.
type DescriptorKind int

const (
	// Declared type descriptors (appear in Program.Types)
	KindClass     DescriptorKind = iota // Class with single inheritance
	KindInterface                       // Interface with multiple inheritance
	KindEnum                            // Enumeration of integral constants

	// Expression type descriptors (appear nested in references)
	KindReference     // Reference to a declared or imported type
	KindTypeParameter // Type parameter of the enclosing generic declaration
)

// String returns the string representation of the descriptor kind.
func (k DescriptorKind) String() string {
	switch k {
	case KindClass:
		return "Class"
	case KindInterface:
		return "Interface"
	case KindEnum:
		return "Enum"
	case KindReference:
		return "Reference"
	case KindTypeParameter:
		return "TypeParameter"
	default:
		return "Unknown"
	}
}

// TypeDescriptor is the base interface for all type descriptors.
type TypeDescriptor interface {
	// Kind returns the descriptor kind for type switching.
	Kind() DescriptorKind

	// TypeName returns the registered name of a declared type: its
	// qualified name, suffixed with `N for generic declarations.
	// Returns "" for expression types.
	TypeName() string

	// Doc returns associated documentation comments.
	// Returns zero value for expression types.
	Doc() Documentation

	// Src returns the source location.
	// Returns zero value for expression types.
	Src() Source

	// Ensure only types in this package can implement TypeDescriptor.
	sealed()
}

// exprBase provides zero-value implementations of TypeDescriptor methods
// for expression type descriptors that don't have names, docs, or source.
type exprBase struct{}

func (exprBase) TypeName() string   { return "" }
func (exprBase) Doc() Documentation { return Documentation{} }
func (exprBase) Src() Source        { return Source{} }
func (exprBase) sealed()            {}
