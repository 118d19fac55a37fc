package nominal

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// Op identifies a registration call.
type Op int

const (
	OpRegisterClass Op = iota
	OpRegisterInterface
	OpRegisterEnum
	OpRegisterGenericClass
	OpRegisterGenericInterface
	OpImport
)

// String returns the host function name of the registration call.
func (o Op) String() string {
	switch o {
	case OpRegisterClass:
		return "registerClass"
	case OpRegisterInterface:
		return "registerInterface"
	case OpRegisterEnum:
		return "registerEnum"
	case OpRegisterGenericClass:
		return "registerGenericClass"
	case OpRegisterGenericInterface:
		return "registerGenericInterface"
	case OpImport:
		return "import"
	default:
		return "unknown"
	}
}

// MarshalText encodes the op by its host function name.
func (o Op) MarshalText() ([]byte, error) {
	if o.String() == "unknown" {
		return nil, fmt.Errorf("unknown registration op %d", int(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText decodes an op from its host function name.
func (o *Op) UnmarshalText(text []byte) error {
	for op := OpRegisterClass; op <= OpImport; op++ {
		if op.String() == string(text) {
			*o = op
			return nil
		}
	}
	return fmt.Errorf("unknown registration op %q", text)
}

// TypeRef refers to a type by qualified name, optionally with generic
// arguments. A TypeRef with an empty Name refers to the type parameter at
// index Param of the enclosing generic definition.
type TypeRef struct {
	Name  string    `json:"name,omitempty"`
	Args  []TypeRef `json:"args,omitempty"`
	Param int       `json:"param,omitempty"`
}

// Ref returns a reference to name applied to args.
func Ref(name string, args ...TypeRef) TypeRef {
	return TypeRef{Name: name, Args: args}
}

// ParamRef returns a reference to the type parameter at index i.
func ParamRef(i int) TypeRef {
	return TypeRef{Param: i}
}

// IsParam reports whether the reference names a type parameter.
func (t TypeRef) IsParam() bool { return t.Name == "" }

// String renders the reference using the canonical generic name format.
func (t TypeRef) String() string {
	if t.IsParam() {
		return fmt.Sprintf("!%d", t.Param)
	}
	if len(t.Args) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return t.Name + "[" + strings.Join(parts, ",") + "]"
}

// Expr converts the reference into a template for a generic definition.
func (t TypeRef) Expr() TypeExpr {
	if t.IsParam() {
		return Param(t.Param)
	}
	args := make([]TypeExpr, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.Expr()
	}
	return Named(t.Name, args...)
}

// Registration is one call of the registration protocol. A generator emits
// an ordered slice of these; Apply replays them into a registry.
type Registration struct {
	Op   Op     `json:"op"`
	Name string `json:"name"`

	// Base is the base class. For generic classes it is a template that
	// may reference type parameters.
	Base *TypeRef `json:"base,omitempty"`

	// Interfaces are implemented (classes) or extended (interfaces).
	Interfaces []TypeRef `json:"interfaces,omitempty"`

	// IsFlags and Members describe enums.
	IsFlags bool         `json:"isFlags,omitempty"`
	Members []EnumMember `json:"members,omitempty"`

	// Arity is the number of type parameters of a generic definition.
	Arity int `json:"arity,omitempty"`
}

// Apply performs ops in order. The first failure is fatal: it is returned
// and the remaining ops are skipped.
//
// A class or interface may mention itself, or a class or interface that a
// later op registers, inside the generic arguments of its base or
// interfaces, as in "class Node : IEquatable<Node>". Such names are
// declared first with an empty shape, and each is completed when its own
// op is applied.
func (r *Registry) Apply(ops []Registration) error {
	a := &applier{
		r:       r,
		kinds:   make(map[string]Op),
		pending: make(map[string]bool),
	}
	for _, op := range ops {
		if op.Op == OpRegisterClass || op.Op == OpRegisterInterface {
			a.kinds[op.Name] = op.Op
		}
	}
	for _, op := range ops {
		if err := a.apply(op); err != nil {
			return fmt.Errorf("%s %q: %w", op.Op, op.Name, err)
		}
	}
	r.logger.Debug("registrations applied", slog.Int("count", len(ops)))
	return nil
}

type applier struct {
	r *Registry

	// kinds maps each class and interface the plan registers to its op.
	kinds map[string]Op

	// pending holds names declared ahead of their own op.
	pending map[string]bool
}

func (a *applier) apply(op Registration) error {
	r := a.r
	switch op.Op {
	case OpRegisterClass, OpRegisterInterface:
		forward := a.forwardNames(op)
		if !a.pending[op.Name] && len(forward) == 0 {
			return a.register(op)
		}
		delete(a.pending, op.Name)
		if _, ok := r.Lookup(op.Name); !ok {
			if err := a.declare(op.Name); err != nil {
				return err
			}
		}
		for _, name := range forward {
			if name == op.Name {
				continue
			}
			if err := a.declare(name); err != nil {
				return err
			}
			a.pending[name] = true
		}
		t, _ := r.Lookup(op.Name)
		return r.completeDeclared(t, op)

	case OpRegisterEnum:
		_, err := r.RegisterEnum(op.Name, op.Members, op.IsFlags)
		return err

	case OpRegisterGenericClass, OpRegisterGenericInterface:
		var opts []TypeOption
		if op.Base != nil {
			opts = append(opts, WithGenericBase(op.Base.Expr()))
		}
		for _, i := range op.Interfaces {
			opts = append(opts, WithGenericInterfaces(i.Expr()))
		}
		var err error
		if op.Op == OpRegisterGenericClass {
			_, err = r.RegisterGenericClass(op.Name, op.Arity, opts...)
		} else {
			_, err = r.RegisterGenericInterface(op.Name, op.Arity, opts...)
		}
		return err

	case OpImport:
		_, err := r.Imported(op.Name)
		return err

	default:
		return fmt.Errorf("unknown registration op %d", int(op.Op))
	}
}

// register applies a class or interface op whose references all resolve.
func (a *applier) register(op Registration) error {
	r := a.r
	if op.Op == OpRegisterInterface {
		ifaces, err := r.resolveAll(op.Interfaces)
		if err != nil {
			return err
		}
		_, err = r.RegisterInterface(op.Name, ifaces)
		return err
	}
	var base Type
	if op.Base != nil {
		b, err := r.Resolve(*op.Base)
		if err != nil {
			return err
		}
		base = b
	}
	ifaces, err := r.resolveAll(op.Interfaces)
	if err != nil {
		return err
	}
	_, err = r.RegisterClass(op.Name, base, ifaces)
	return err
}

// declare stores name with an empty shape of the kind its op registers.
func (a *applier) declare(name string) error {
	var err error
	if a.kinds[name] == OpRegisterInterface {
		_, err = a.r.RegisterInterface(name, nil)
	} else {
		_, err = a.r.RegisterClass(name, nil, nil)
	}
	return err
}

// forwardNames returns, in order of first mention, the names op references
// that are not registered yet but are registered by this plan. The op's own
// name is included when it mentions itself.
func (a *applier) forwardNames(op Registration) []string {
	var names []string
	var walk func(ref TypeRef)
	walk = func(ref TypeRef) {
		if _, planned := a.kinds[ref.Name]; planned && !slices.Contains(names, ref.Name) {
			if _, ok := a.r.Lookup(ref.Name); !ok {
				names = append(names, ref.Name)
			}
		}
		for _, arg := range ref.Args {
			walk(arg)
		}
	}
	if op.Base != nil {
		walk(*op.Base)
	}
	for _, i := range op.Interfaces {
		walk(i)
	}
	return names
}

// completeDeclared fills in the base and interfaces of a type that was
// stored with an empty shape so that its name could be resolved early.
func (r *Registry) completeDeclared(t Type, op Registration) error {
	var base Type = r.object
	if op.Base != nil {
		b, err := r.Resolve(*op.Base)
		if err != nil {
			return err
		}
		if !isClassType(b) || b == t {
			return fmt.Errorf("%w: %s", ErrInvalidBase, b.Name())
		}
		base = b
	}
	ifaces, err := r.resolveAll(op.Interfaces)
	if err != nil {
		return err
	}
	if err := checkInterfaces(ifaces); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	switch t := t.(type) {
	case *Class:
		t.base = base
		t.interfaces = ifaces
	case *Interface:
		t.interfaces = ifaces
	}
	return nil
}

// Resolve returns the type a closed reference denotes, instantiating generic
// definitions as needed.
func (r *Registry) Resolve(ref TypeRef) (Type, error) {
	if ref.IsParam() {
		return nil, fmt.Errorf("%w: unbound type parameter %d", ErrUnknownType, ref.Param)
	}
	t, ok := r.Lookup(ref.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, ref.Name)
	}
	if len(ref.Args) == 0 {
		return t, nil
	}
	def, ok := t.(*GenericDefinition)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotGeneric, ref.Name)
	}
	args, err := r.resolveAll(ref.Args)
	if err != nil {
		return nil, err
	}
	c, err := r.Instantiate(def, args...)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *Registry) resolveAll(refs []TypeRef) ([]Type, error) {
	out := make([]Type, 0, len(refs))
	for _, ref := range refs {
		t, err := r.Resolve(ref)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
