package nominal

import (
	"math"
	"reflect"
	"time"
)

// IntrinsicKind identifies a host-native value representation that is never
// registered explicitly but still takes part in relation queries.
type IntrinsicKind int

const (
	IntrinsicSequence IntrinsicKind = iota // Homogeneous sequence (slices, arrays)
	IntrinsicText                          // Strings
	IntrinsicNumber                        // All numeric kinds
	IntrinsicBoolean                       // Booleans
	IntrinsicTemporal                      // time.Time
)

// String returns the string representation of the intrinsic kind.
func (k IntrinsicKind) String() string {
	switch k {
	case IntrinsicSequence:
		return "Sequence"
	case IntrinsicText:
		return "Text"
	case IntrinsicNumber:
		return "Number"
	case IntrinsicBoolean:
		return "Boolean"
	case IntrinsicTemporal:
		return "Temporal"
	default:
		return "Unknown"
	}
}

var intrinsicKinds = []IntrinsicKind{
	IntrinsicSequence,
	IntrinsicText,
	IntrinsicNumber,
	IntrinsicBoolean,
	IntrinsicTemporal,
}

// Intrinsic describes how a host-native kind appears in the type model.
type Intrinsic struct {
	// Name is the qualified name of the host type (e.g. "String").
	Name string

	// Base is the name of the base class. Empty means the root object type.
	Base string

	// Interfaces are the names of the interfaces the host type satisfies.
	// Names not registered otherwise are registered as plain interfaces.
	Interfaces []string
}

// IntrinsicTable maps host-native kinds to their descriptors.
type IntrinsicTable map[IntrinsicKind]Intrinsic

// DefaultIntrinsics returns the standard mapping of host-native types.
func DefaultIntrinsics() IntrinsicTable {
	return IntrinsicTable{
		IntrinsicSequence: {Name: "Array", Interfaces: []string{"ss.IEnumerable", "ss.ICollection", "ss.IList"}},
		IntrinsicText:     {Name: "String", Interfaces: []string{"ss.IComparable", "ss.IEquatable"}},
		IntrinsicNumber:   {Name: "Number", Interfaces: []string{"ss.IComparable", "ss.IEquatable", "ss.IFormattable"}},
		IntrinsicBoolean:  {Name: "Boolean", Interfaces: []string{"ss.IEquatable"}},
		IntrinsicTemporal: {Name: "Date", Interfaces: []string{"ss.IComparable", "ss.IEquatable"}},
	}
}

// Names returns every type name the table causes a registry to hold,
// including the root object and integral types.
func (t IntrinsicTable) Names() []string {
	names := []string{ObjectName, Int32Name}
	seen := map[string]bool{ObjectName: true, Int32Name: true}
	for _, k := range intrinsicKinds {
		in, ok := t[k]
		if !ok {
			continue
		}
		for _, n := range append(in.Interfaces, in.Name) {
			if n != "" && !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	return names
}

// Intrinsic returns the class standing for a host-native kind.
func (r *Registry) Intrinsic(kind IntrinsicKind) (*Class, bool) {
	c, ok := r.intrinsics[kind]
	return c, ok
}

// bootstrapIntrinsics registers the intrinsic classes and the interfaces
// they name. It runs inside NewRegistry, before the registry is shared.
func (r *Registry) bootstrapIntrinsics() {
	for _, kind := range intrinsicKinds {
		in, ok := r.table[kind]
		if !ok || in.Name == "" {
			continue
		}
		var ifaces []Type
		for _, name := range in.Interfaces {
			t, ok := r.types[name]
			if !ok {
				t = &Interface{typeBase: typeBase{name: name}}
				r.store(t)
			}
			if isInterfaceType(t) {
				ifaces = append(ifaces, t)
			}
		}
		var base Type = r.object
		if b, ok := r.types[in.Base]; ok && isClassType(b) {
			base = b
		}
		c := &Class{
			typeBase:   typeBase{name: in.Name, predicate: nativeKindPredicate(kind)},
			base:       base,
			interfaces: ifaces,
			intrinsic:  true,
		}
		r.store(c)
		r.intrinsics[kind] = c
	}
}

// RuntimeTypeOf returns the type of value: the declared type of an Instance,
// the enum of an EnumValue, an intrinsic class for host-native values, and
// the root object type otherwise. nil has no type.
func (r *Registry) RuntimeTypeOf(value any) Type {
	if value == nil {
		return nil
	}
	if inst, ok := value.(Instance); ok {
		return inst.RuntimeType()
	}
	if kind, ok := nativeKind(value); ok {
		if c, ok := r.intrinsics[kind]; ok {
			return c
		}
	}
	return r.object
}

func nativeKindPredicate(kind IntrinsicKind) Predicate {
	return func(value any) bool {
		k, ok := nativeKind(value)
		return ok && k == kind
	}
}

func nativeKind(value any) (IntrinsicKind, bool) {
	switch value.(type) {
	case Instance:
		return 0, false
	case string:
		return IntrinsicText, true
	case bool:
		return IntrinsicBoolean, true
	case time.Time:
		return IntrinsicTemporal, true
	}
	switch reflect.ValueOf(value).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return IntrinsicNumber, true
	case reflect.Slice, reflect.Array:
		return IntrinsicSequence, true
	}
	return 0, false
}

// isIntegral is the instance check of the integral type: whole numbers
// within 32 bits and every enum value.
func isIntegral(value any) bool {
	if _, ok := value.(EnumValue); ok {
		return true
	}
	if _, ok := value.(Instance); ok {
		return false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int()
		return n >= math.MinInt32 && n <= math.MaxInt32
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() <= math.MaxInt32
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f == math.Trunc(f) && f >= math.MinInt32 && f <= math.MaxInt32
	}
	return false
}
