// SPDX-License-Identifier: MIT
//
// File: types.go
// Role: Rule record, Graph type, sentinel errors and the NewGraph constructor.
// Policy:
//   - Unit names are normalized exactly once, at the Graph boundary.
//   - Rule carries no behavior beyond validation; it is plain catalog data.

package core

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
)

// Sentinel errors for core graph operations.
var (
	// ErrEmptyUnit indicates that a rule names an empty (or blank) unit.
	ErrEmptyUnit = errors.New("core: unit name is empty")

	// ErrBadFactor indicates a factor that is not a finite, strictly positive number.
	ErrBadFactor = errors.New("core: factor must be finite and positive")

	// ErrUnitNotFound indicates an operation referenced a unit absent from the graph.
	ErrUnitNotFound = errors.New("core: unit not found")
)

// Rule is a directed pairwise conversion: 1 Src equals Factor Dest.
//
// Rules are supplied by a caller-owned catalog and are only read by the Graph.
type Rule struct {
	// Src is the unit being converted from.
	Src string `json:"src" yaml:"src"`

	// Dest is the unit being converted to.
	Dest string `json:"dest" yaml:"dest"`

	// Factor is the number of Dest units in one Src unit.
	Factor float64 `json:"factor" yaml:"factor"`
}

// String renders the rule as "1 src = factor dest".
func (r Rule) String() string {
	return fmt.Sprintf("1 %s = %g %s", r.Src, r.Factor, r.Dest)
}

// Validate reports whether the rule can be registered safely.
//
// Implementation:
//   - Stage 1: Reject blank Src/Dest (ErrEmptyUnit).
//   - Stage 2: Reject NaN, ±Inf, zero and negative factors (ErrBadFactor).
//
// Errors are wrapped with the offending rule so they read well in logs;
// use errors.Is to match the sentinel.
func (r Rule) Validate() error {
	if strings.TrimSpace(r.Src) == "" || strings.TrimSpace(r.Dest) == "" {
		return fmt.Errorf("%w: %q -> %q", ErrEmptyUnit, r.Src, r.Dest)
	}
	if math.IsNaN(r.Factor) || math.IsInf(r.Factor, 0) || r.Factor <= 0 {
		return fmt.Errorf("%w: %s", ErrBadFactor, r)
	}

	return nil
}

// Normalize returns the canonical graph key for a unit name.
// Only case is folded; surrounding whitespace is significant.
func Normalize(unit string) string {
	return strings.ToLower(unit)
}

// Neighbor is one outgoing edge of a unit: 1 unit = Factor Unit.
type Neighbor struct {
	Unit   string
	Factor float64
}

// Graph is the weighted unit graph.
//
// mu protects adjacency. The zero value is not usable; call NewGraph.
type Graph struct {
	mu sync.RWMutex

	// adjacency[from][to] = factor
	adjacency map[string]map[string]float64
}

// NewGraph creates an empty Graph and seeds it with the given rules in order.
// Complexity: O(len(rules)).
func NewGraph(rules ...Rule) *Graph {
	g := &Graph{
		adjacency: make(map[string]map[string]float64),
	}
	for _, r := range rules {
		g.AddRule(r)
	}

	return g
}
