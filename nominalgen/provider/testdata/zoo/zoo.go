// Package zoo is a fixture for the source provider.
package zoo

// IPet is implemented by animals kept as pets.
type IPet interface {
	Name() string
}

// IGroomed is implemented by pets that need grooming.
type IGroomed interface {
	IPet
	Groom(times int)
}

// IBox holds one value.
type IBox[T any] interface {
	Get() T
}

// Marker has no methods and is never inferred.
type Marker interface{}

// Numeric is a constraint, not a nominal interface.
type Numeric interface {
	~int | ~float64
}

// Animal is the root of the hierarchy.
type Animal struct {
	legs int
}

// Legs returns the number of legs.
func (a *Animal) Legs() int { return a.legs }

// Cat is a pet.
type Cat struct {
	Animal
	name string
}

// Name returns the cat's name.
func (c *Cat) Name() string { return c.name }

// Speak returns the cat's sound.
//
//nominal:inline 'meow'
func (c *Cat) Speak() string { return "meow" }

// Dog is a pet that needs grooming.
type Dog struct {
	*Animal
}

// Name returns the dog's name.
func (d *Dog) Name() string { return "dog" }

// Groom grooms the dog.
func (d *Dog) Groom(times int) {}

// Box holds a value.
type Box[T any] struct {
	value T
}

// Get returns the value.
func (b *Box[T]) Get() T { return b.value }

// Cage is a box for animals.
type Cage[T any] struct {
	Box[T]
}

// Keeper feeds animals.
type Keeper struct{}

// Feed feeds a cat.
func (k *Keeper) Feed(c *Cat, diet DietFlags, portions []int) {}

// Count returns how many animals are kept.
//
//nominal:static
func (Keeper) Count() int { return 0 }

// DietFlags lists what an animal eats.
type DietFlags int

const (
	// Meat eaters.
	Meat DietFlags = 1 << iota
	Fish
	Plants
)

// Color is a coat color.
type Color int

const (
	Black Color = iota
	White
	Ginger
)

// Access is a bit set inferred from its values.
type Access uint8

const (
	Read Access = 1 << iota
	Write
	Execute
)

// Label is a plain string type without constants.
type Label string

type hidden struct{}

// Main starts the zoo.
func Main() {}
