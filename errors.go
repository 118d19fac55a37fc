package nominal

import "errors"

var (
	// ErrEmptyName is returned when a type is registered without a name.
	ErrEmptyName = errors.New("nominal: empty type name")

	// ErrDuplicateType is returned when a name is registered twice with a
	// different shape.
	ErrDuplicateType = errors.New("nominal: duplicate type registration")

	// ErrUnknownType is returned when a type reference cannot be resolved.
	ErrUnknownType = errors.New("nominal: unknown type")

	// ErrInvalidBase is returned when a base type is not a class.
	ErrInvalidBase = errors.New("nominal: base type is not a class")

	// ErrInvalidInterface is returned when an interface list holds a
	// non-interface type.
	ErrInvalidInterface = errors.New("nominal: type is not an interface")

	// ErrInvalidArity is returned when a generic definition declares no
	// type parameters.
	ErrInvalidArity = errors.New("nominal: generic arity must be positive")

	// ErrArityMismatch is returned when the number of type arguments does
	// not match the definition's arity.
	ErrArityMismatch = errors.New("nominal: type argument count mismatch")

	// ErrNotGeneric is returned when type arguments are applied to a type
	// that is not a generic definition.
	ErrNotGeneric = errors.New("nominal: type is not a generic definition")

	// ErrOpenGeneric is returned when an open generic definition is used as
	// a type argument.
	ErrOpenGeneric = errors.New("nominal: open generic used as type argument")

	// ErrDuplicateMember is returned when an enum declares a member twice.
	ErrDuplicateMember = errors.New("nominal: duplicate enum member")

	// ErrInvalidEnumValue is returned when an enum value cannot be parsed
	// or formatted.
	ErrInvalidEnumValue = errors.New("nominal: invalid enumeration value")
)
