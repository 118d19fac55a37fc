// Package order arranges declared types for registration: first by
// namespace tree, then topologically so that every type follows its base
// class and interfaces.
package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/broady/nominal/nominalgen/ir"
)

// ErrCycle is returned when declared types inherit from each other.
var ErrCycle = errors.New("order: dependency cycle")

// Compare orders qualified names by namespace tree: names are grouped by
// namespace, namespaces are compared with '.' sorting before any other
// character, and names within a namespace are compared ordinally.
// The result is negative, zero or positive like strings.Compare.
func Compare(a, b string) int {
	nsA, nameA := ir.SplitName(a)
	nsB, nameB := ir.SplitName(b)
	if c := compareDotFirst(nsA, nsB); c != 0 {
		return c
	}
	return compareDotFirst(nameA, nameB)
}

// Less reports whether a sorts before b in namespace order.
func Less(a, b string) bool { return Compare(a, b) < 0 }

func compareDotFirst(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		ca, cb := a[i], b[i]
		if ca == cb {
			continue
		}
		switch {
		case ca == '.':
			return -1
		case cb == '.':
			return 1
		case ca < cb:
			return -1
		default:
			return 1
		}
	}
	return len(a) - len(b)
}

// Names returns a sorted copy of names in namespace order.
func Names(names []string) []string {
	out := slices.Clone(names)
	slices.SortStableFunc(out, Compare)
	return out
}

// Namespace returns a copy of types sorted by their registered names in
// namespace order.
func Namespace(types []ir.TypeDescriptor) []ir.TypeDescriptor {
	out := slices.Clone(types)
	slices.SortStableFunc(out, func(a, b ir.TypeDescriptor) int {
		return Compare(a.TypeName(), b.TypeName())
	})
	return out
}

// Topological returns types ordered so that each type comes after every
// declared type its base class and interfaces reference. Among types whose
// dependencies are satisfied, the one first in namespace order goes next, so
// the result does not depend on input order.
//
// The base and interface targets themselves must come first; a cycle among
// them returns ErrCycle. Types named only inside generic arguments are
// ordered first when possible. Such an edge is dropped, visiting types in
// namespace order, when it would close a cycle, as in "A : IEquatable<B>"
// with "B : IEquatable<A>". References to undeclared types and to the type
// itself are ignored.
func Topological(types []ir.TypeDescriptor) ([]ir.TypeDescriptor, error) {
	sorted := Namespace(types)
	index := make(map[string]int, len(sorted))
	for i, t := range sorted {
		index[t.TypeName()] = i
	}

	g := newGraph(len(sorted))
	var soft [][2]int
	for i, t := range sorted {
		for _, dep := range ir.Dependencies(t) {
			if j, ok := index[dep.Key()]; ok && j != i {
				g.add(j, i)
			}
			for _, arg := range dep.Args {
				ir.References(arg, func(r *ir.ReferenceDescriptor) {
					if j, ok := index[r.Key()]; ok && j != i {
						soft = append(soft, [2]int{j, i})
					}
				})
			}
		}
	}

	out, ok := g.sort(sorted)
	if !ok {
		return nil, cycleError(sorted, g)
	}
	if len(soft) == 0 {
		return out, nil
	}

	for _, e := range soft {
		if !g.has(e[0], e[1]) && !g.reaches(e[1], e[0]) {
			g.add(e[0], e[1])
		}
	}
	out, _ = g.sort(sorted)
	return out, nil
}

// graph is a dependency graph over indexes into a namespace-ordered slice.
// An edge from j to i means j must come before i.
type graph struct {
	dependents [][]int
	indegree   []int
}

func newGraph(n int) *graph {
	return &graph{dependents: make([][]int, n), indegree: make([]int, n)}
}

func (g *graph) has(from, to int) bool {
	return slices.Contains(g.dependents[from], to)
}

func (g *graph) add(from, to int) {
	if g.has(from, to) {
		return
	}
	g.dependents[from] = append(g.dependents[from], to)
	g.indegree[to]++
}

// reaches reports whether to can be reached from from.
func (g *graph) reaches(from, to int) bool {
	seen := make([]bool, len(g.indegree))
	stack := []int{from}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == to {
			return true
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		stack = append(stack, g.dependents[n]...)
	}
	return false
}

// sort runs Kahn's algorithm, always taking the ready type first in
// namespace order. It reports false if a cycle left types unsorted.
func (g *graph) sort(sorted []ir.TypeDescriptor) ([]ir.TypeDescriptor, bool) {
	indegree := slices.Clone(g.indegree)
	var ready []int
	for i, d := range indegree {
		if d == 0 {
			ready = append(ready, i)
		}
	}

	out := make([]ir.TypeDescriptor, 0, len(sorted))
	for len(ready) > 0 {
		next := ready[0]
		ready = ready[1:]
		out = append(out, sorted[next])
		for _, d := range g.dependents[next] {
			indegree[d]--
			if indegree[d] == 0 {
				pos, _ := slices.BinarySearch(ready, d)
				ready = slices.Insert(ready, pos, d)
			}
		}
	}
	return out, len(out) == len(sorted)
}

func cycleError(sorted []ir.TypeDescriptor, g *graph) error {
	out, _ := g.sort(sorted)
	done := make(map[string]bool, len(out))
	for _, t := range out {
		done[t.TypeName()] = true
	}
	var stuck []string
	for _, t := range sorted {
		if !done[t.TypeName()] {
			stuck = append(stuck, t.TypeName())
		}
	}
	return fmt.Errorf("%w: %s", ErrCycle, strings.Join(stuck, ", "))
}
