package nominal

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestOp_String(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{OpRegisterClass, "registerClass"},
		{OpRegisterInterface, "registerInterface"},
		{OpRegisterEnum, "registerEnum"},
		{OpRegisterGenericClass, "registerGenericClass"},
		{OpRegisterGenericInterface, "registerGenericInterface"},
		{OpImport, "import"},
		{Op(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op(%d).String() = %q, want %q", int(tt.op), got, tt.want)
		}
	}
}

func TestTypeRef_String(t *testing.T) {
	ref := Ref("Ns.G`2", Ref("Ns.BX`1", Ref("Number")), ParamRef(1))
	if got, want := ref.String(), "Ns.G`2[Ns.BX`1[Number],!1]"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if !ParamRef(0).IsParam() {
		t.Error("ParamRef should be a parameter reference")
	}
}

func TestRegistry_Apply(t *testing.T) {
	c3 := Ref("Ns.C3")
	c2 := Ref("Ns.C2")
	ops := []Registration{
		{Op: OpRegisterInterface, Name: "Ns.I1"},
		{Op: OpRegisterClass, Name: "Ns.C3"},
		{Op: OpRegisterClass, Name: "Ns.C2", Base: &c3, Interfaces: []TypeRef{Ref("Ns.I1")}},
		{Op: OpRegisterClass, Name: "Ns.C1", Base: &c2},
		{Op: OpRegisterEnum, Name: "Ns.Mode", IsFlags: true, Members: []EnumMember{{Name: "A", Value: 1}, {Name: "B", Value: 2}}},
		{Op: OpRegisterGenericInterface, Name: "Ns.IBox`1", Arity: 1},
		{Op: OpRegisterGenericClass, Name: "Ns.Box`1", Arity: 1, Interfaces: []TypeRef{Ref("Ns.IBox`1", ParamRef(0))}},
		{Op: OpImport, Name: "Host.Widget"},
	}

	reg := NewRegistry()
	if err := reg.Apply(ops); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	i1, _ := reg.Lookup("Ns.I1")
	c1, _ := reg.Lookup("Ns.C1")
	if !reg.IsAssignableFrom(i1, c1) {
		t.Error("I1 should be assignable from C1")
	}

	mode, ok := reg.Lookup("Ns.Mode")
	if !ok || !mode.(*Enum).IsFlags() {
		t.Error("Ns.Mode should be a flags enum")
	}

	box, err := reg.Resolve(Ref("Ns.Box`1", Ref("Ns.C1")))
	if err != nil {
		t.Fatal(err)
	}
	ibox, err := reg.Resolve(Ref("Ns.IBox`1", Ref("Ns.C1")))
	if err != nil {
		t.Fatal(err)
	}
	if !reg.IsAssignableFrom(ibox, box) {
		t.Error("IBox<C1> should be assignable from Box<C1>")
	}

	viaImport, err := reg.Resolve(Ref("Ns.Box`1", Ref("Host.Widget")))
	if err != nil {
		t.Fatal(err)
	}
	viaObject, _ := reg.Resolve(Ref("Ns.Box`1", Ref(ObjectName)))
	if viaImport != viaObject {
		t.Error("imported argument should resolve to the object stand-in instance")
	}
}

func TestRegistry_Apply_FatalOnUnknownBase(t *testing.T) {
	missing := Ref("Ns.Missing")
	ops := []Registration{
		{Op: OpRegisterClass, Name: "Ns.A", Base: &missing},
		{Op: OpRegisterClass, Name: "Ns.B"},
	}
	reg := NewRegistry()
	err := reg.Apply(ops)
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("Apply error = %v, want ErrUnknownType", err)
	}
	if _, ok := reg.Lookup("Ns.B"); ok {
		t.Error("ops after a fatal error should not run")
	}
}

func TestRegistry_Resolve_Errors(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Resolve(ParamRef(0)); !errors.Is(err, ErrUnknownType) {
		t.Errorf("unbound parameter error = %v", err)
	}
	if _, err := reg.Resolve(Ref(ObjectName, Ref("String"))); !errors.Is(err, ErrNotGeneric) {
		t.Errorf("non-generic application error = %v", err)
	}
}

func TestRegistration_JSON(t *testing.T) {
	base := Ref("Ns.Base")
	op := Registration{Op: OpRegisterClass, Name: "Ns.C", Base: &base}
	data, err := json.Marshal(op)
	if err != nil {
		t.Fatal(err)
	}
	var back Registration
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Name != "Ns.C" || back.Base == nil || back.Base.Name != "Ns.Base" {
		t.Errorf("round trip = %+v", back)
	}
}

func TestOp_Text(t *testing.T) {
	data, err := json.Marshal(OpRegisterGenericInterface)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"registerGenericInterface"` {
		t.Errorf("Marshal = %s", data)
	}
	var op Op
	if err := json.Unmarshal([]byte(`"import"`), &op); err != nil || op != OpImport {
		t.Errorf("Unmarshal = %v, %v", op, err)
	}
	if err := json.Unmarshal([]byte(`"registerStruct"`), &op); err == nil {
		t.Error("Unmarshal of an unknown op should fail")
	}
}

func TestRegistry_Apply_SelfReferential(t *testing.T) {
	ops := []Registration{
		{Op: OpRegisterGenericInterface, Name: "Ns.IEquatable`1", Arity: 1},
		{Op: OpRegisterGenericClass, Name: "Ns.Base`1", Arity: 1},
		{Op: OpRegisterClass, Name: "Ns.Node",
			Base:       &TypeRef{Name: "Ns.Base`1", Args: []TypeRef{Ref("Ns.Node")}},
			Interfaces: []TypeRef{Ref("Ns.IEquatable`1", Ref("Ns.Node"))}},
	}
	reg := NewRegistry()
	if err := reg.Apply(ops); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	node, _ := reg.Lookup("Ns.Node")
	eq, err := reg.Resolve(Ref("Ns.IEquatable`1", Ref("Ns.Node")))
	if err != nil {
		t.Fatal(err)
	}
	if !reg.IsAssignableFrom(eq, node) {
		t.Error("IEquatable<Node> should be assignable from Node")
	}
	base, _ := reg.Resolve(Ref("Ns.Base`1", Ref("Ns.Node")))
	if reg.BaseType(node) != base {
		t.Errorf("BaseType(Node) = %v, want Base<Node>", reg.BaseType(node))
	}

	if err := reg.Apply(ops); err != nil {
		t.Errorf("re-applying the same plan should be idempotent: %v", err)
	}
}

func TestRegistry_Apply_ForwardArguments(t *testing.T) {
	ops := []Registration{
		{Op: OpRegisterGenericInterface, Name: "Ns.IEquatable`1", Arity: 1},
		{Op: OpRegisterClass, Name: "Ns.A",
			Interfaces: []TypeRef{Ref("Ns.IEquatable`1", Ref("Ns.B"))}},
		{Op: OpRegisterInterface, Name: "Ns.B",
			Interfaces: []TypeRef{Ref("Ns.IEquatable`1", Ref("Ns.A"))}},
		{Op: OpRegisterClass, Name: "Ns.C", Base: &TypeRef{Name: "Ns.A"}},
	}
	reg := NewRegistry()
	if err := reg.Apply(ops); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	a, _ := reg.Lookup("Ns.A")
	b, ok := reg.Lookup("Ns.B")
	if !ok || b.Kind() != KindInterface {
		t.Fatalf("Ns.B = %v, want an interface", b)
	}
	eqB, err := reg.Resolve(Ref("Ns.IEquatable`1", Ref("Ns.B")))
	if err != nil {
		t.Fatal(err)
	}
	eqA, err := reg.Resolve(Ref("Ns.IEquatable`1", Ref("Ns.A")))
	if err != nil {
		t.Fatal(err)
	}
	if !reg.IsAssignableFrom(eqB, a) {
		t.Error("IEquatable<B> should be assignable from A")
	}
	if !reg.IsAssignableFrom(eqA, b) {
		t.Error("IEquatable<A> should be assignable from B")
	}
	c, _ := reg.Lookup("Ns.C")
	if !reg.IsAssignableFrom(eqB, c) {
		t.Error("C inherits IEquatable<B> from A")
	}

	if err := reg.Apply(ops); err != nil {
		t.Errorf("re-applying the same plan should be idempotent: %v", err)
	}
}

func TestRegistry_Apply_ForwardNameNotInPlan(t *testing.T) {
	ops := []Registration{
		{Op: OpRegisterGenericInterface, Name: "Ns.IEquatable`1", Arity: 1},
		{Op: OpRegisterClass, Name: "Ns.A",
			Interfaces: []TypeRef{Ref("Ns.IEquatable`1", Ref("Ns.Missing"))}},
	}
	if err := NewRegistry().Apply(ops); !errors.Is(err, ErrUnknownType) {
		t.Errorf("Apply error = %v, want ErrUnknownType", err)
	}
}
