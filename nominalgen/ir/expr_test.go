package ir

import "testing"

func TestReferenceDescriptor_String(t *testing.T) {
	tests := []struct {
		name string
		ref  *ReferenceDescriptor
		want string
		key  string
	}{
		{"plain", Ref("Zoo.Cat"), "Zoo.Cat", "Zoo.Cat"},
		{"generic", Ref("Zoo.List", Ref("String")), "Zoo.List`1[String]", "Zoo.List`1"},
		{"nested", Ref("Zoo.G", Ref("Zoo.BX", Ref("Number")), Ref("String")), "Zoo.G`2[Zoo.BX`1[Number],String]", "Zoo.G`2"},
		{"parameter", Ref("Zoo.List", TypeParam("T", 0)), "Zoo.List`1[T]", "Zoo.List`1"},
		{"anonymous parameter", Ref("Zoo.List", TypeParam("", 1)), "Zoo.List`1[!1]", "Zoo.List`1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ref.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if got := tt.ref.Key(); got != tt.key {
				t.Errorf("Key() = %q, want %q", got, tt.key)
			}
		})
	}
}

func TestReferences(t *testing.T) {
	ref := Ref("Zoo.G", Ref("Zoo.BX", Ref("Number")), TypeParam("T", 0), Ref("String"))
	var got []string
	References(ref, func(r *ReferenceDescriptor) { got = append(got, r.Target) })

	want := []string{"Zoo.G", "Zoo.BX", "Number", "String"}
	if len(got) != len(want) {
		t.Fatalf("References visited %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("References[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDependencies(t *testing.T) {
	cd := &ClassDescriptor{
		Name:       "Zoo.Cat",
		Base:       Ref("Zoo.Animal"),
		Interfaces: []*ReferenceDescriptor{Ref("Zoo.IPet"), Ref("Zoo.IFeed", Ref("Zoo.Fish"))},
	}
	deps := Dependencies(cd)
	if len(deps) != 3 || deps[0].Target != "Zoo.Animal" || deps[2].Key() != "Zoo.IFeed`1" {
		t.Errorf("Dependencies(class) = %v", deps)
	}
	if deps := Dependencies(&EnumDescriptor{Name: "Zoo.Diet"}); deps != nil {
		t.Errorf("Dependencies(enum) = %v, want nil", deps)
	}
}
