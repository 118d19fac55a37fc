// Package nominal emulates a nominal type system (classes, interfaces, enums
// and generics) on top of a dynamic host.
//
// A Registry owns every type descriptor known to a running program. Types are
// registered once, in dependency order, by the registration plan a generator
// emits (see the nominalgen packages), and queried afterwards by generated
// code through the relation operations:
//
//	reg := nominal.NewRegistry()
//	animal, _ := reg.RegisterClass("Zoo.Animal", nil, nil)
//	dog, _ := reg.RegisterClass("Zoo.Dog", animal, nil)
//	reg.IsAssignableFrom(animal, dog) // true
//
// Generic definitions are registered with their arity; closed instances are
// built lazily by Instantiate and cached by canonical name so that equal
// instantiations always yield the same descriptor:
//
//	list, _ := reg.RegisterGenericClass("Zoo.List`1", 1)
//	a, _ := reg.Instantiate(list, dog)
//	b, _ := reg.Instantiate(list, dog)
//	a == b // true
//
// Relation queries never fail: unknown or unrelated types simply answer false.
package nominal
