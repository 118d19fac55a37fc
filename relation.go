package nominal

// IsAssignableFrom reports whether a value of type candidate can be used
// where target is expected. Unknown or unrelated types answer false.
//
// Generic definitions are only assignable to themselves: an open generic is
// never related to any of its constructed instances, in either direction.
func (r *Registry) IsAssignableFrom(target, candidate Type) bool {
	if target == nil || candidate == nil {
		return false
	}
	if target == Type(r.object) || target == candidate {
		return true
	}
	if _, open := candidate.(*GenericDefinition); open {
		return false
	}

	switch t := target.(type) {
	case *Class:
		return r.inheritsFrom(candidate, t)
	case *Interface:
		return r.implements(candidate, t)
	case *Constructed:
		if t.IsInterface() {
			return r.implements(candidate, t)
		}
		return r.inheritsFrom(candidate, t)
	case *Enum, *GenericDefinition:
		return false
	default:
		return false
	}
}

// IsInstanceOfType reports whether value is an instance of t. A custom
// predicate on t decides on its own; otherwise the value's runtime type is
// checked with IsAssignableFrom. nil is never an instance.
func (r *Registry) IsInstanceOfType(value any, t Type) bool {
	if value == nil || t == nil {
		return false
	}
	if p := t.Predicate(); p != nil {
		return p(value)
	}
	return r.IsAssignableFrom(t, r.RuntimeTypeOf(value))
}

// BaseType returns the direct base type of t. Classes without an explicit
// base report the root object type; the root, interfaces, enums and generic
// definitions report nil.
func (r *Registry) BaseType(t Type) Type {
	switch v := t.(type) {
	case *Class:
		return v.base
	case *Constructed:
		return v.base
	default:
		return nil
	}
}

// Interfaces returns the interfaces t lists directly. For interfaces these
// are the interfaces they extend.
func (r *Registry) Interfaces(t Type) []Type {
	switch v := t.(type) {
	case *Class:
		return v.Interfaces()
	case *Interface:
		return v.Interfaces()
	case *Constructed:
		return v.Interfaces()
	default:
		return nil
	}
}

// AllInterfaces returns every interface t satisfies: those listed by t and
// by each ancestor in its base chain, plus everything those interfaces
// extend. Order is first-seen, walking from t towards the root.
func (r *Registry) AllInterfaces(t Type) []Type {
	var out []Type
	seen := make(map[Type]bool)
	var visit func(Type)
	visit = func(i Type) {
		if seen[i] {
			return
		}
		seen[i] = true
		out = append(out, i)
		for _, parent := range r.Interfaces(i) {
			visit(parent)
		}
	}
	for link := t; link != nil; link = r.BaseType(link) {
		for _, i := range r.Interfaces(link) {
			visit(i)
		}
	}
	return out
}

// inheritsFrom walks the base chain of candidate looking for target.
func (r *Registry) inheritsFrom(candidate, target Type) bool {
	for link := r.BaseType(candidate); link != nil; link = r.BaseType(link) {
		if link == target {
			return true
		}
	}
	return false
}

// implements reports whether candidate or any ancestor lists target,
// directly or through interface inheritance. Subclasses do not re-declare
// inherited interfaces, so every link of the chain is searched.
func (r *Registry) implements(candidate, target Type) bool {
	seen := make(map[Type]bool)
	var extends func(Type) bool
	extends = func(i Type) bool {
		if i == target {
			return true
		}
		if seen[i] {
			return false
		}
		seen[i] = true
		for _, parent := range r.Interfaces(i) {
			if extends(parent) {
				return true
			}
		}
		return false
	}
	for link := candidate; link != nil; link = r.BaseType(link) {
		for _, i := range r.Interfaces(link) {
			if extends(i) {
				return true
			}
		}
	}
	return false
}
