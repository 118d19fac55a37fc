package nominal

import (
	"fmt"
	"log/slog"
	"strings"
)

// TypeExpr is a type template used by generic definitions for their base
// type and interfaces. It is resolved against the bound type arguments each
// time the definition is instantiated.
type TypeExpr interface {
	resolve(b *build, args []Type) (Type, error)
	String() string
}

// Param refers to the definition's type parameter at index i.
func Param(i int) TypeExpr { return paramExpr(i) }

// Concrete refers to an already registered type.
func Concrete(t Type) TypeExpr { return concreteExpr{t: t} }

// Apply binds a generic definition to argument templates.
func Apply(def *GenericDefinition, args ...TypeExpr) TypeExpr {
	return applyExpr{def: def, args: args}
}

// Named refers to a type by qualified name, optionally applied to argument
// templates. The name is looked up at instantiation time, which allows a
// definition to mention itself or types registered after it.
func Named(name string, args ...TypeExpr) TypeExpr {
	return namedExpr{name: name, args: args}
}

type paramExpr int

func (p paramExpr) resolve(_ *build, args []Type) (Type, error) {
	if int(p) < 0 || int(p) >= len(args) {
		return nil, fmt.Errorf("%w: parameter %d out of %d", ErrArityMismatch, int(p), len(args))
	}
	return args[p], nil
}

func (p paramExpr) String() string { return fmt.Sprintf("!%d", int(p)) }

type concreteExpr struct{ t Type }

func (c concreteExpr) resolve(*build, []Type) (Type, error) {
	if c.t == nil {
		return nil, ErrUnknownType
	}
	return c.t, nil
}

func (c concreteExpr) String() string {
	if c.t == nil {
		return "<nil>"
	}
	return c.t.Name()
}

type applyExpr struct {
	def  *GenericDefinition
	args []TypeExpr
}

func (a applyExpr) resolve(b *build, args []Type) (Type, error) {
	if a.def == nil {
		return nil, ErrUnknownType
	}
	bound, err := resolveAll(b, a.args, args)
	if err != nil {
		return nil, err
	}
	return b.resolveInstance(a.def, bound)
}

func (a applyExpr) String() string {
	name := "<nil>"
	if a.def != nil {
		name = a.def.Name()
	}
	return exprString(name, a.args)
}

type namedExpr struct {
	name string
	args []TypeExpr
}

func (n namedExpr) resolve(b *build, args []Type) (Type, error) {
	t, ok := b.r.Lookup(n.name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, n.name)
	}
	if len(n.args) == 0 {
		return t, nil
	}
	def, ok := t.(*GenericDefinition)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotGeneric, n.name)
	}
	bound, err := resolveAll(b, n.args, args)
	if err != nil {
		return nil, err
	}
	return b.resolveInstance(def, bound)
}

func (n namedExpr) String() string { return exprString(n.name, n.args) }

func resolveAll(b *build, exprs []TypeExpr, args []Type) ([]Type, error) {
	out := make([]Type, len(exprs))
	for i, e := range exprs {
		t, err := e.resolve(b, args)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func exprString(name string, args []TypeExpr) string {
	if len(args) == 0 {
		return name
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return name + "[" + strings.Join(parts, ",") + "]"
}

// CanonicalName returns the cache key of def bound to args:
// the definition name followed by the argument names in brackets. Argument
// names of constructed generics are canonical already, so nesting recurses.
func CanonicalName(def *GenericDefinition, args []Type) string {
	var sb strings.Builder
	sb.WriteString(def.Name())
	sb.WriteByte('[')
	for i, a := range args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(a.Name())
	}
	sb.WriteByte(']')
	return sb.String()
}

// NormalizeArgument returns the type used in place of t as a generic
// argument. Imported host types and nil collapse onto the root object type
// so that instantiations differing only by such a stand-in are equal.
func (r *Registry) NormalizeArgument(t Type) Type {
	if t == nil {
		return r.object
	}
	if c, ok := t.(*Class); ok && c.imported {
		return r.object
	}
	return t
}

// Instantiate returns the constructed generic for def bound to args.
// Repeated calls with equal arguments, compared by qualified name and in
// order, return the same descriptor.
func (r *Registry) Instantiate(def *GenericDefinition, args ...Type) (*Constructed, error) {
	if def == nil {
		return nil, ErrUnknownType
	}
	norm, err := r.normalizeArguments(def, args)
	if err != nil {
		return nil, err
	}
	key := CanonicalName(def, norm)

	r.mu.RLock()
	c, ok := r.instances[key]
	r.mu.RUnlock()
	if ok {
		return c, nil
	}

	v, err, _ := r.flight.Do(key, func() (any, error) {
		r.buildMu.Lock()
		defer r.buildMu.Unlock()

		b := &build{r: r, pending: make(map[string]*Constructed)}
		c, err := b.instantiate(def, norm)
		if err != nil {
			return nil, err
		}
		b.publish()
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Constructed), nil
}

func (r *Registry) normalizeArguments(def *GenericDefinition, args []Type) ([]Type, error) {
	if len(args) != def.arity {
		return nil, fmt.Errorf("%w: %s expects %d, got %d", ErrArityMismatch, def.Name(), def.arity, len(args))
	}
	norm := make([]Type, len(args))
	for i, a := range args {
		if _, open := a.(*GenericDefinition); open {
			return nil, fmt.Errorf("%w: %s", ErrOpenGeneric, a.Name())
		}
		norm[i] = r.NormalizeArgument(a)
	}
	return norm, nil
}

// build is one construct-if-absent pass. New descriptors stay in pending
// until the whole pass succeeds, so readers never observe a half-built
// instance; recursive references within the pass resolve through pending.
type build struct {
	r       *Registry
	pending map[string]*Constructed
	order   []*Constructed
}

func (b *build) resolveInstance(def *GenericDefinition, args []Type) (Type, error) {
	c, err := b.instantiate(def, args)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (b *build) instantiate(def *GenericDefinition, args []Type) (*Constructed, error) {
	norm, err := b.r.normalizeArguments(def, args)
	if err != nil {
		return nil, err
	}
	key := CanonicalName(def, norm)

	b.r.mu.RLock()
	c, ok := b.r.instances[key]
	b.r.mu.RUnlock()
	if ok {
		return c, nil
	}
	if c, ok := b.pending[key]; ok {
		return c, nil
	}

	c = &Constructed{
		typeBase:   typeBase{name: key, predicate: def.predicate, ctor: def.ctor},
		definition: def,
		args:       norm,
	}
	b.pending[key] = c
	b.order = append(b.order, c)

	if !def.isInterface {
		c.base = b.r.object
		if def.base != nil {
			base, err := def.base.resolve(b, norm)
			if err != nil {
				return nil, fmt.Errorf("%s base: %w", key, err)
			}
			if !isClassType(base) {
				return nil, fmt.Errorf("%w: %s base %s", ErrInvalidBase, key, base.Name())
			}
			c.base = base
		}
	}
	for _, expr := range def.interfaces {
		iface, err := expr.resolve(b, norm)
		if err != nil {
			return nil, fmt.Errorf("%s interface: %w", key, err)
		}
		if !isInterfaceType(iface) {
			return nil, fmt.Errorf("%w: %s implements %s", ErrInvalidInterface, key, iface.Name())
		}
		c.interfaces = append(c.interfaces, iface)
	}
	return c, nil
}

// publish inserts every pending instance. Callers hold buildMu, so no other
// writer can have bound the same canonical names meanwhile.
func (b *build) publish() {
	b.r.mu.Lock()
	defer b.r.mu.Unlock()
	for _, c := range b.order {
		if _, ok := b.r.instances[c.name]; ok {
			continue
		}
		b.r.instances[c.name] = c
		b.r.logger.Debug("constructed generic instance", slog.String("type", c.name))
	}
}
