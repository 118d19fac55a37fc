package nominal

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"
)

const (
	// ObjectName is the qualified name of the implicit root type.
	ObjectName = "Object"

	// Int32Name is the qualified name of the integral type underlying enums.
	Int32Name = "ss.Int32"
)

// Registry is the table of every type known to a program. It maps qualified
// names to descriptors and caches constructed generic instances.
//
// Registration is expected to happen once, on a single path, before any
// relation query. After that the registry is read-only except for the
// generic instantiation cache, which is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	types     map[string]Type
	order     []Type
	instances map[string]*Constructed

	// buildMu serializes construction of new generic instances so that a
	// canonical name is only ever bound to one descriptor.
	buildMu sync.Mutex
	flight  singleflight.Group

	object     *Class
	int32      *Class
	intrinsics map[IntrinsicKind]*Class
	table      IntrinsicTable
	logger     *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithIntrinsics replaces the table of host-native types.
func WithIntrinsics(table IntrinsicTable) RegistryOption {
	return func(r *Registry) { r.table = table }
}

// WithLogger sets a custom logger for the registry.
// If not set, slog.Default() will be used.
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) { r.logger = logger }
}

// NewRegistry creates a registry holding the root object type, the integral
// enum type and the intrinsic host types.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		types:      make(map[string]Type),
		instances:  make(map[string]*Constructed),
		intrinsics: make(map[IntrinsicKind]*Class),
		table:      DefaultIntrinsics(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}

	r.object = &Class{typeBase: typeBase{name: ObjectName}}
	r.store(r.object)
	r.int32 = &Class{
		typeBase:  typeBase{name: Int32Name, predicate: isIntegral},
		base:      r.object,
		intrinsic: true,
	}
	r.store(r.int32)
	r.bootstrapIntrinsics()
	return r
}

// Object returns the root object type.
func (r *Registry) Object() *Class { return r.object }

// Int32 returns the integral type underlying every enum.
func (r *Registry) Int32() *Class { return r.int32 }

// Lookup returns the type registered under name. Constructed generics are
// found by their canonical name once they have been instantiated.
func (r *Registry) Lookup(name string) (Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.types[name]; ok {
		return t, true
	}
	if c, ok := r.instances[name]; ok {
		return c, true
	}
	return nil, false
}

// Types returns every registered type in registration order, excluding
// constructed generics.
func (r *Registry) Types() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Len returns the number of registered types, excluding constructed generics.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// RegisterClass registers a class. A nil base means the root object type.
// Registering the same name again with the same base and interfaces returns
// the existing descriptor.
func (r *Registry) RegisterClass(name string, base Type, interfaces []Type, opts ...TypeOption) (*Class, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if base == nil {
		base = r.object
	}
	if !isClassType(base) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidBase, base.Name())
	}
	if err := checkInterfaces(interfaces); err != nil {
		return nil, err
	}

	o := collectOptions(opts)
	c := &Class{
		typeBase:   typeBase{name: name, predicate: o.predicate, ctor: o.ctor},
		base:       base,
		interfaces: cloneTypes(interfaces),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.types[name]; ok {
		if prev, ok := old.(*Class); ok && prev.base == c.base && slices.Equal(prev.interfaces, c.interfaces) {
			return prev, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrDuplicateType, name)
	}
	r.store(c)
	return c, nil
}

// RegisterInterface registers an interface extending baseInterfaces.
func (r *Registry) RegisterInterface(name string, baseInterfaces []Type, opts ...TypeOption) (*Interface, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if err := checkInterfaces(baseInterfaces); err != nil {
		return nil, err
	}

	o := collectOptions(opts)
	i := &Interface{
		typeBase:   typeBase{name: name, predicate: o.predicate, ctor: o.ctor},
		interfaces: cloneTypes(baseInterfaces),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.types[name]; ok {
		if prev, ok := old.(*Interface); ok && slices.Equal(prev.interfaces, i.interfaces) {
			return prev, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrDuplicateType, name)
	}
	r.store(i)
	return i, nil
}

// RegisterEnum registers an enum and copies its member table onto the
// descriptor, which then doubles as a value lookup table.
func (r *Registry) RegisterEnum(name string, members []EnumMember, isFlags bool, opts ...TypeOption) (*Enum, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	o := collectOptions(opts)
	e, err := newEnum(name, members, isFlags)
	if err != nil {
		return nil, err
	}
	e.predicate = o.predicate
	e.ctor = o.ctor

	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.types[name]; ok {
		if prev, ok := old.(*Enum); ok && prev.flags == e.flags && slices.Equal(prev.members, e.members) {
			return prev, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrDuplicateType, name)
	}
	r.store(e)
	return e, nil
}

// RegisterGenericClass registers an open generic class with the given arity.
// Its base and interfaces are supplied as templates with WithGenericBase and
// WithGenericInterfaces and resolved per instantiation.
func (r *Registry) RegisterGenericClass(name string, arity int, opts ...TypeOption) (*GenericDefinition, error) {
	return r.registerGeneric(name, arity, false, opts)
}

// RegisterGenericInterface registers an open generic interface.
func (r *Registry) RegisterGenericInterface(name string, arity int, opts ...TypeOption) (*GenericDefinition, error) {
	return r.registerGeneric(name, arity, true, opts)
}

func (r *Registry) registerGeneric(name string, arity int, isInterface bool, opts []TypeOption) (*GenericDefinition, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if arity <= 0 {
		return nil, fmt.Errorf("%w: %s has arity %d", ErrInvalidArity, name, arity)
	}
	o := collectOptions(opts)
	if isInterface && o.base != nil {
		return nil, fmt.Errorf("%w: interface %s cannot have a base", ErrInvalidBase, name)
	}
	g := &GenericDefinition{
		typeBase:    typeBase{name: name, predicate: o.predicate, ctor: o.ctor},
		arity:       arity,
		isInterface: isInterface,
		base:        o.base,
		interfaces:  o.interfaces,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.types[name]; ok {
		if prev, ok := old.(*GenericDefinition); ok && prev.arity == arity && prev.isInterface == isInterface {
			return prev, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrDuplicateType, name)
	}
	r.store(g)
	return g, nil
}

// Imported declares a host type known only by name. Imported types are
// replaced by the root object type when used as generic arguments.
func (r *Registry) Imported(name string) (*Class, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.types[name]; ok {
		if prev, ok := old.(*Class); ok && prev.imported {
			return prev, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrDuplicateType, name)
	}
	c := &Class{typeBase: typeBase{name: name}, base: r.object, imported: true}
	r.store(c)
	return c, nil
}

// store records t. Callers hold r.mu or run during construction.
func (r *Registry) store(t Type) {
	r.types[t.Name()] = t
	r.order = append(r.order, t)
}

func checkInterfaces(ts []Type) error {
	for _, t := range ts {
		if t == nil || !isInterfaceType(t) {
			name := "<nil>"
			if t != nil {
				name = t.Name()
			}
			return fmt.Errorf("%w: %s", ErrInvalidInterface, name)
		}
	}
	return nil
}
