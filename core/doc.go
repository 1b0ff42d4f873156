// Package core provides the conversion Rule record and the thread-safe,
// in-memory unit Graph that every other mensura package builds on.
//
// The Graph G = (U, E) stores units as vertices and conversion factors as
// weighted directed edges:
//
//   - Vertices are unit names, normalized to lower case (Normalize).
//     "Meter", "METER" and "meter" are the same vertex.
//   - Every Rule{Src, Dest, Factor} yields exactly two edges:
//     graph[src][dest] = Factor and graph[dest][src] = 1/Factor.
//     Reachability is therefore always symmetric.
//   - Re-adding a rule for an existing ordered pair overwrites both edges
//     (last write wins). AddRule reports whether a replacement happened so
//     callers may apply a stricter policy.
//   - Vertices are never removed; the graph only grows.
//
// Storage:
//
//	adjacency[(from)unit][(to)unit] = factor
//
// A single sync.RWMutex guards the adjacency map. Queries take the read lock,
// AddRule takes the write lock, so any number of concurrent readers may share
// one Graph while writers are serialized.
//
// Core Methods:
//
//	AddRule(r Rule) (replaced bool)             // O(1)
//	HasUnit(unit string) bool                   // O(1)
//	Weight(from, to string) (float64, bool)     // O(1)
//	Neighbors(unit string) ([]Neighbor, error)  // O(d log d), sorted by unit
//	Units() []string                            // O(U log U), sorted
//	Order() int / Size() int                    // O(1) / O(U)
//
// Rule validation (Rule.Validate) is deliberately separate from insertion:
// the Graph stores whatever it is given, the converter decides the policy.
//
// Errors:
//
//	ErrEmptyUnit      - rule names an empty unit.
//	ErrBadFactor      - factor is zero, negative, NaN or infinite.
//	ErrUnitNotFound   - requested unit does not exist in the graph.
package core
