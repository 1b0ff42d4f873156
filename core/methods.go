// File: methods.go
// Role: Rule insertion & unit/edge queries.
//
// Determinism:
//   - Units() and Neighbors() return results sorted by unit name.
//
// Concurrency:
//   - adjacency protected by mu (write lock in AddRule, read lock elsewhere).
package core

import (
	"fmt"
	"sort"
)

// AddRule inserts the two directed edges described by r.
//
// Implementation:
//   - Stage 1: Normalize both unit names.
//   - Stage 2: Under the write lock, create adjacency buckets on demand.
//   - Stage 3: Store src→dest = Factor and dest→src = 1/Factor, overwriting
//     any previous edges for the same ordered pairs.
//
// Behavior highlights:
//   - No validation: a zero factor produces +Inf on the reverse edge.
//     Call r.Validate first when the input is untrusted.
//   - Last write wins; replaced reports whether src→dest already existed.
//
// Complexity:
//   - Time O(1) amortized, Space O(1).
func (g *Graph) AddRule(r Rule) (replaced bool) {
	src := Normalize(r.Src)
	dest := Normalize(r.Dest)

	g.mu.Lock()
	defer g.mu.Unlock()

	_, replaced = g.bucket(src)[dest]
	g.adjacency[src][dest] = r.Factor
	g.bucket(dest)[src] = 1 / r.Factor

	return replaced
}

// bucket returns the adjacency row for unit, creating it if absent.
// Caller must hold the write lock.
func (g *Graph) bucket(unit string) map[string]float64 {
	row, ok := g.adjacency[unit]
	if !ok {
		row = make(map[string]float64)
		g.adjacency[unit] = row
	}

	return row
}

// HasUnit reports whether unit appears in any registered rule.
// The name is normalized before lookup.
func (g *Graph) HasUnit(unit string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.adjacency[Normalize(unit)]

	return ok
}

// Weight returns the direct factor from→to, if such an edge exists.
func (g *Graph) Weight(from, to string) (float64, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	w, ok := g.adjacency[Normalize(from)][Normalize(to)]

	return w, ok
}

// Neighbors returns the outgoing edges of unit sorted by neighbour name.
//
// The result is a copy; mutating it does not affect the graph.
//
// Errors:
//   - ErrUnitNotFound if unit is not a vertex.
//
// Complexity:
//   - Time O(d log d) where d is the out-degree, Space O(d).
func (g *Graph) Neighbors(unit string) ([]Neighbor, error) {
	key := Normalize(unit)

	g.mu.RLock()
	row, ok := g.adjacency[key]
	if !ok {
		g.mu.RUnlock()
		return nil, fmt.Errorf("%w: %q", ErrUnitNotFound, key)
	}
	out := make([]Neighbor, 0, len(row))
	for to, w := range row {
		out = append(out, Neighbor{Unit: to, Factor: w})
	}
	g.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Unit < out[j].Unit })

	return out, nil
}

// Units returns every known unit, sorted lexicographically.
func (g *Graph) Units() []string {
	g.mu.RLock()
	units := make([]string, 0, len(g.adjacency))
	for u := range g.adjacency {
		units = append(units, u)
	}
	g.mu.RUnlock()

	sort.Strings(units)

	return units
}

// Order returns the number of units.
func (g *Graph) Order() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.adjacency)
}

// Size returns the number of directed edges. A rule between two distinct
// units contributes two; a self-loop rule contributes one.
func (g *Graph) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := 0
	for _, row := range g.adjacency {
		n += len(row)
	}

	return n
}
