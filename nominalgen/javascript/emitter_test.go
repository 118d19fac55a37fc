package javascript

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/broady/nominal"
	"github.com/broady/nominal/nominalgen/ir"
	"github.com/broady/nominal/nominalgen/order"
)

func zooProgram() *ir.Program {
	return &ir.Program{
		Module: "zoo",
		Types: []ir.TypeDescriptor{
			&ir.ClassDescriptor{
				Name:       "Zoo.Cat",
				Base:       ir.Ref("Zoo.Animal"),
				Interfaces: []*ir.ReferenceDescriptor{ir.Ref("Zoo.IPet")},
				Methods:    []ir.MethodDescriptor{{Name: "Main", Static: true}},
				Statics:    []string{"$Zoo$Cat.count = 0;"},
			},
			&ir.InterfaceDescriptor{
				Name:          "Zoo.IPet",
				Documentation: ir.Documentation{Summary: "IPet is a pet."},
			},
			&ir.ClassDescriptor{
				Name:           "Zoo.Cage",
				TypeParameters: []string{"T"},
				Interfaces:     []*ir.ReferenceDescriptor{ir.Ref("Zoo.IBox", ir.TypeParam("T", 0))},
			},
			&ir.EnumDescriptor{
				Name:    "Zoo.Diet",
				Flags:   true,
				Members: []ir.EnumMember{{Name: "Meat", Value: 1}, {Name: "Fish", Value: 2}},
			},
			&ir.InterfaceDescriptor{Name: "Zoo.IBox", TypeParameters: []string{"T"}},
			&ir.ClassDescriptor{Name: "Zoo.Animal", Statics: []string{"$Zoo$Animal.kingdom = 'animalia';"}},
		},
		EntryPoint: &ir.EntryPoint{Type: "Zoo.Cat", Method: "Main"},
	}
}

func opNames(plan *Plan) []string {
	out := make([]string, len(plan.Registrations))
	for i, r := range plan.Registrations {
		out[i] = r.Name
	}
	return out
}

func TestEmitter_Plan(t *testing.T) {
	plan, err := NewEmitter(DefaultConfig()).Plan(zooProgram())
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"Zoo.Animal", "Zoo.Diet", "Zoo.IBox`1", "Zoo.Cage`1", "Zoo.IPet", "Zoo.Cat"}
	if got := opNames(plan); !slices.Equal(got, want) {
		t.Errorf("registration order = %v, want %v", got, want)
	}

	cage := plan.Registrations[3]
	if cage.Op != nominal.OpRegisterGenericClass || cage.Arity != 1 {
		t.Errorf("Cage registration = %+v", cage)
	}
	if len(cage.Interfaces) != 1 || cage.Interfaces[0].String() != "Zoo.IBox`1[!0]" {
		t.Errorf("Cage interfaces = %v", cage.Interfaces)
	}

	wantStatics := []string{"$Zoo$Animal.kingdom = 'animalia';", "$Zoo$Cat.count = 0;"}
	if !slices.Equal(plan.Statics, wantStatics) {
		t.Errorf("Statics = %v, want %v", plan.Statics, wantStatics)
	}
	if plan.Invocation != "$Zoo$Cat.main();" {
		t.Errorf("Invocation = %q", plan.Invocation)
	}
	if len(plan.Diagnostics) != 0 {
		t.Errorf("Diagnostics = %v, want none", plan.Diagnostics)
	}
}

func TestEmitter_Plan_AnyPermutation(t *testing.T) {
	e := NewEmitter(DefaultConfig())
	base, err := e.Plan(zooProgram())
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 30; i++ {
		p := zooProgram()
		rng.Shuffle(len(p.Types), func(i, j int) { p.Types[i], p.Types[j] = p.Types[j], p.Types[i] })
		plan, err := e.Plan(p)
		if err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(opNames(plan), opNames(base)) || !slices.Equal(plan.Statics, base.Statics) {
			t.Fatalf("plan differs for permutation %d: %v", i, opNames(plan))
		}
	}
}

func TestEmitter_Plan_EntryPointDiagnostics(t *testing.T) {
	tests := []struct {
		name   string
		method ir.MethodDescriptor
		code   int
	}{
		{"parameters", ir.MethodDescriptor{Name: "Main", Static: true, Parameters: []ir.ParameterDescriptor{{Name: "args"}}}, ir.CodeEntryPointParameters},
		{"inline code", ir.MethodDescriptor{Name: "Main", Static: true, InlineCode: "start()"}, ir.CodeEntryPointInlineCode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := zooProgram()
			p.Types[0].(*ir.ClassDescriptor).Methods = []ir.MethodDescriptor{tt.method}

			plan, err := NewEmitter(DefaultConfig()).Plan(p)
			if err != nil {
				t.Fatal(err)
			}
			if plan.Invocation != "" {
				t.Errorf("Invocation = %q, want none", plan.Invocation)
			}
			if len(plan.Diagnostics) != 1 {
				t.Fatalf("Diagnostics = %v, want exactly one", plan.Diagnostics)
			}
			d := plan.Diagnostics[0]
			if d.Code != tt.code || len(d.Args) != 1 || d.Args[0] != "Zoo.Cat.Main" {
				t.Errorf("Diagnostic = %+v", d)
			}
			if len(plan.Registrations) != 6 {
				t.Errorf("registrations = %d, all types should still be emitted", len(plan.Registrations))
			}
		})
	}
}

func TestEmitter_Plan_Imported(t *testing.T) {
	p := &ir.Program{
		Types:    []ir.TypeDescriptor{&ir.ClassDescriptor{Name: "App.Widget", Base: ir.Ref("Host.Element")}},
		Imported: []string{"Host.Element", "Host.Document"},
	}
	plan, err := NewEmitter(DefaultConfig()).Plan(p)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Host.Document", "Host.Element", "App.Widget"}
	if got := opNames(plan); !slices.Equal(got, want) {
		t.Errorf("registration order = %v, want %v", got, want)
	}
	if plan.Registrations[0].Op != nominal.OpImport {
		t.Errorf("first op = %v, want import", plan.Registrations[0].Op)
	}
}

func TestEmitter_Plan_Cycle(t *testing.T) {
	p := &ir.Program{Types: []ir.TypeDescriptor{
		&ir.ClassDescriptor{Name: "A.X", Base: ir.Ref("A.Y")},
		&ir.ClassDescriptor{Name: "A.Y", Base: ir.Ref("A.X")},
	}}
	if _, err := NewEmitter(DefaultConfig()).Plan(p); !errors.Is(err, order.ErrCycle) {
		t.Errorf("Plan error = %v, want ErrCycle", err)
	}
}

func TestEmitter_Plan_MissingEntryPoint(t *testing.T) {
	p := zooProgram()
	p.EntryPoint = &ir.EntryPoint{Type: "Zoo.Cat", Method: "Run"}
	if _, err := NewEmitter(DefaultConfig()).Plan(p); err == nil {
		t.Error("Plan should fail when the entry method does not exist")
	}
}

// The plan is replayed into a registry and the resulting relations checked.
func TestEmitter_Plan_AppliesToRegistry(t *testing.T) {
	plan, err := NewEmitter(DefaultConfig()).Plan(zooProgram())
	if err != nil {
		t.Fatal(err)
	}
	reg := nominal.NewRegistry()
	if err := reg.Apply(plan.Registrations); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	cat, _ := reg.Lookup("Zoo.Cat")
	animal, _ := reg.Lookup("Zoo.Animal")
	pet, _ := reg.Lookup("Zoo.IPet")
	if !reg.IsAssignableFrom(animal, cat) || !reg.IsAssignableFrom(pet, cat) {
		t.Error("Cat should be assignable to Animal and IPet")
	}
	if !reg.IsInstanceOfType(nominal.NewObject(cat), pet) {
		t.Error("a Cat instance should be an IPet")
	}

	cageOfCat, err := reg.Resolve(nominal.Ref("Zoo.Cage`1", nominal.Ref("Zoo.Cat")))
	if err != nil {
		t.Fatal(err)
	}
	boxOfCat, _ := reg.Resolve(nominal.Ref("Zoo.IBox`1", nominal.Ref("Zoo.Cat")))
	boxOfAnimal, _ := reg.Resolve(nominal.Ref("Zoo.IBox`1", nominal.Ref("Zoo.Animal")))
	if !reg.IsAssignableFrom(boxOfCat, cageOfCat) {
		t.Error("IBox<Cat> should be assignable from Cage<Cat>")
	}
	if reg.IsAssignableFrom(boxOfAnimal, cageOfCat) {
		t.Error("IBox<Animal> should not be assignable from Cage<Cat>")
	}

	diet, _ := reg.Lookup("Zoo.Diet")
	if s, err := diet.(*nominal.Enum).Format(3); err != nil || s != "Meat | Fish" {
		t.Errorf("Format(3) = %q, %v", s, err)
	}
}

func TestEmitter_Plan_StaticsIndependentOfRegistrationOrder(t *testing.T) {
	program := &ir.Program{
		Module: "app",
		Types: []ir.TypeDescriptor{
			&ir.ClassDescriptor{Name: "Z.Base", Statics: []string{"$Z$Base.a = 1;"}},
			&ir.ClassDescriptor{
				Name:    "A.Derived",
				Base:    ir.Ref("Z.Base"),
				Statics: []string{"$A$Derived.b = 2;", "$A$Derived.c = $A$Derived.b + 1;"},
			},
		},
	}
	plan, err := NewEmitter(DefaultConfig()).Plan(program)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"Z.Base", "A.Derived"}; !slices.Equal(opNames(plan), want) {
		t.Errorf("Registrations = %v, want %v", opNames(plan), want)
	}
	wantStatics := []string{"$A$Derived.b = 2;", "$A$Derived.c = $A$Derived.b + 1;", "$Z$Base.a = 1;"}
	if !slices.Equal(plan.Statics, wantStatics) {
		t.Errorf("Statics = %v, want %v", plan.Statics, wantStatics)
	}
}

func TestEmitter_Plan_MutualGenericArguments(t *testing.T) {
	program := &ir.Program{
		Module: "app",
		Types: []ir.TypeDescriptor{
			&ir.InterfaceDescriptor{Name: "Ns.IEquatable", TypeParameters: []string{"T"}},
			&ir.ClassDescriptor{Name: "Ns.A", Interfaces: []*ir.ReferenceDescriptor{ir.Ref("Ns.IEquatable", ir.Ref("Ns.B"))}},
			&ir.ClassDescriptor{Name: "Ns.B", Interfaces: []*ir.ReferenceDescriptor{ir.Ref("Ns.IEquatable", ir.Ref("Ns.A"))}},
		},
	}
	plan, err := NewEmitter(DefaultConfig()).Plan(program)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	reg := nominal.NewRegistry()
	if err := reg.Apply(plan.Registrations); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	a, _ := reg.Lookup("Ns.A")
	eqB, err := reg.Resolve(nominal.Ref("Ns.IEquatable`1", nominal.Ref("Ns.B")))
	if err != nil {
		t.Fatal(err)
	}
	if !reg.IsAssignableFrom(eqB, a) {
		t.Error("IEquatable<B> should be assignable from A")
	}
}
