package nominal

// Instance is implemented by values that carry their runtime type.
type Instance interface {
	RuntimeType() Type
}

// Object is a host object created from a registered type.
type Object struct {
	typ    Type
	Fields map[string]any
}

// NewObject creates an empty object whose runtime type is t.
func NewObject(t Type) *Object {
	return &Object{typ: t, Fields: make(map[string]any)}
}

// RuntimeType returns the type the object was created from.
func (o *Object) RuntimeType() Type { return o.typ }
