package nominal

import (
	"fmt"
	"strconv"
	"strings"
)

// EnumMember is a single named enum value.
type EnumMember struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// Enum is an enum descriptor. It doubles as a name/value lookup table.
type Enum struct {
	typeBase
	flags   bool
	members []EnumMember
	byName  map[string]int64
}

func newEnum(name string, members []EnumMember, isFlags bool) (*Enum, error) {
	e := &Enum{
		typeBase: typeBase{name: name},
		flags:    isFlags,
		members:  make([]EnumMember, len(members)),
		byName:   make(map[string]int64, len(members)),
	}
	for i, m := range members {
		if _, dup := e.byName[m.Name]; dup {
			return nil, fmt.Errorf("%w: %s.%s", ErrDuplicateMember, name, m.Name)
		}
		e.members[i] = m
		e.byName[m.Name] = m.Value
	}
	return e, nil
}

// Kind returns KindEnum.
func (e *Enum) Kind() Kind { return KindEnum }

// IsFlags reports whether values combine as bit sets.
func (e *Enum) IsFlags() bool { return e.flags }

// Members returns the members in declaration order.
func (e *Enum) Members() []EnumMember {
	out := make([]EnumMember, len(e.members))
	copy(out, e.members)
	return out
}

// Value returns the value of the named member.
func (e *Enum) Value(name string) (int64, bool) {
	v, ok := e.byName[name]
	return v, ok
}

// NameOf returns the first member declared with exactly value.
func (e *Enum) NameOf(value int64) (string, bool) {
	for _, m := range e.members {
		if m.Value == value {
			return m.Name, true
		}
	}
	return "", false
}

// IsDefined reports whether some member has exactly value.
func (e *Enum) IsDefined(value int64) bool {
	_, ok := e.NameOf(value)
	return ok
}

// ValueOf wraps value as an instance of the enum.
func (e *Enum) ValueOf(value int64) EnumValue {
	return EnumValue{Enum: e, Value: value}
}

// Format renders value by member name. Flags enums that have no exact match
// render as the names of every non-zero member whose bits are all set,
// joined by " | ", provided those members cover every set bit.
func (e *Enum) Format(value int64) (string, error) {
	if name, ok := e.NameOf(value); ok {
		return name, nil
	}
	if !e.flags || value == 0 {
		return "", fmt.Errorf("%w: %d for %s", ErrInvalidEnumValue, value, e.name)
	}
	var parts []string
	var covered int64
	for _, m := range e.members {
		if m.Value != 0 && value&m.Value == m.Value {
			parts = append(parts, m.Name)
			covered |= m.Value
		}
	}
	if len(parts) == 0 || covered != value {
		return "", fmt.Errorf("%w: %d for %s", ErrInvalidEnumValue, value, e.name)
	}
	return strings.Join(parts, " | "), nil
}

// Parse converts text to a value. Flags enums accept member names separated
// by '|', which are combined with bitwise or.
func (e *Enum) Parse(text string) (int64, error) {
	if !e.flags {
		if v, ok := e.byName[strings.TrimSpace(text)]; ok {
			return v, nil
		}
		return 0, fmt.Errorf("%w: %q for %s", ErrInvalidEnumValue, text, e.name)
	}
	var value int64
	for _, part := range strings.Split(text, "|") {
		v, ok := e.byName[strings.TrimSpace(part)]
		if !ok {
			return 0, fmt.Errorf("%w: %q for %s", ErrInvalidEnumValue, text, e.name)
		}
		value |= v
	}
	return value, nil
}

// EnumValue is a value of an enum type.
type EnumValue struct {
	Enum  *Enum
	Value int64
}

// RuntimeType returns the enum type.
func (v EnumValue) RuntimeType() Type { return v.Enum }

// String formats the value by member name, falling back to the number.
func (v EnumValue) String() string {
	if v.Enum != nil {
		if s, err := v.Enum.Format(v.Value); err == nil {
			return s
		}
	}
	return strconv.FormatInt(v.Value, 10)
}
