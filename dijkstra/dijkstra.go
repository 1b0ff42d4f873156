// Package dijkstra finds the effective conversion factor between two units
// of a core.Graph: the path whose edge factors have the smallest product.
//
// Composing conversions multiplies factors, so the search is Dijkstra's
// algorithm with multiplication in place of addition and 1.0 in place of 0.
// It processes units in order of increasing cumulative factor using a
// min-heap, relaxing outgoing edges and updating the best factor seen.
//
// Complexity:
//
//   - Time:  O((V + E) log V)
//   - Each relaxation that strictly improves a unit pushes one heap entry.
//   - Each heap operation (Push/Pop) costs O(log N), N ≤ V + E.
//   - Space: O(V + E)
//   - O(V) for the best-factor map.
//   - O(E) worst-case heap entries under "lazy-decrease-key".
//
// Notes on implementation choices:
//
//   - The best-factor map records every unit reached and doubles as the
//     visited set; a popped entry whose factor exceeds the recorded best is
//     stale and skipped.
//   - A unit is expanded again whenever a strictly smaller factor reaches it.
//     A rule round trip can round below one (49 * (1/49) < 1), so the
//     reported factor may carry such a round trip in its last bits. A unit's
//     best factor only ever decreases, so the search still terminates,
//     usually a handful of pops later.
//   - Relaxation uses a plain floating-point less-than with no tolerance, so
//     results are bit-reproducible for a given graph.
//   - The search returns as soon as the target is popped.
//   - Heap ties on equal factor are broken by unit name, and neighbours are
//     visited in sorted order, so the reported path is deterministic.
package dijkstra

import (
	"container/heap"
	"fmt"

	"github.com/katalvlaran/mensura/core"
)

// Factor computes the minimal cumulative factor from Options.Source to
// Options.Target in g.
//
// Preconditions and validation (in order):
//  1. Source must be non-empty (ErrEmptySource).
//  2. Target must be non-empty (ErrEmptyTarget).
//  3. g must be non-nil (ErrNilGraph).
//  4. g must contain Source and Target (ErrVertexNotFound).
//
// If Source and Target normalize to the same unit, the result is exactly
// 1.0 with zero hops, whether or not the unit carries a self-loop.
//
// Returns ErrUnreachable (wrapped with both names) when the frontier is
// exhausted without popping Target.
func Factor(g *core.Graph, opts ...Option) (Result, error) {
	// 1) Build options.
	cfg := DefaultOptions("", "")
	for _, opt := range opts {
		opt(&cfg)
	}

	// 2) Validate endpoints and graph.
	if cfg.Source == "" {
		return Result{}, ErrEmptySource
	}
	if cfg.Target == "" {
		return Result{}, ErrEmptyTarget
	}
	if g == nil {
		return Result{}, ErrNilGraph
	}

	src := core.Normalize(cfg.Source)
	dst := core.Normalize(cfg.Target)
	if !g.HasUnit(src) {
		return Result{}, fmt.Errorf("%w: %q", ErrVertexNotFound, src)
	}
	if !g.HasUnit(dst) {
		return Result{}, fmt.Errorf("%w: %q", ErrVertexNotFound, dst)
	}

	// 3) Run the search.
	r := &runner{
		g:      g,
		source: src,
		target: dst,
		best:   make(map[string]float64),
		pq:     make(factorPQ, 0, 16),
	}

	r.init()
	last, err := r.process()
	if err != nil {
		return Result{}, err
	}
	if last == nil {
		return Result{}, fmt.Errorf("%w: %q -> %q", ErrUnreachable, src, dst)
	}

	res := Result{Factor: last.factor, Expanded: r.expanded}
	if cfg.ReturnPath {
		res.Path = last.path()
	}

	return res, nil
}

// runner holds the mutable state for a single search.
type runner struct {
	g        *core.Graph        // read-only within the search
	source   string             // normalized source unit
	target   string             // normalized target unit
	best     map[string]float64 // unit → smallest cumulative factor seen
	pq       factorPQ           // min-heap of *factorItem
	expanded int                // non-stale pops
}

// init seeds the frontier with the source at factor 1.0.
func (r *runner) init() {
	r.best[r.source] = 1.0
	heap.Init(&r.pq)
	heap.Push(&r.pq, &factorItem{unit: r.source, factor: 1.0})
}

// process pops units in increasing cumulative factor until the target is
// popped (its entry is returned) or the heap runs dry (nil).
func (r *runner) process() (*factorItem, error) {
	for r.pq.Len() > 0 {
		// 1) Pop the smallest cumulative factor.
		item := heap.Pop(&r.pq).(*factorItem)

		// 2) Target popped: its factor is final.
		if item.unit == r.target {
			r.expanded++
			return item, nil
		}

		// 3) Skip entries superseded by a strictly smaller factor.
		if item.factor > r.best[item.unit] {
			continue
		}
		r.expanded++

		// 4) Relax outgoing edges.
		if err := r.relax(item); err != nil {
			return nil, err
		}
	}

	return nil, nil
}

// relax pushes every neighbour of item.unit whose cumulative factor through
// it is strictly smaller than its best known factor (or that was never seen).
func (r *runner) relax(item *factorItem) error {
	neighbors, err := r.g.Neighbors(item.unit)
	if err != nil {
		return fmt.Errorf("dijkstra: failed to get neighbors of %q: %w", item.unit, err)
	}

	var cand float64
	for _, n := range neighbors {
		cand = item.factor * n.Factor
		if seen, ok := r.best[n.Unit]; ok && !(cand < seen) {
			continue
		}

		r.best[n.Unit] = cand
		heap.Push(&r.pq, &factorItem{unit: n.Unit, factor: cand, from: item})
	}

	return nil
}

// factorItem is one frontier entry: a unit, the cumulative factor that
// reached it and the entry it was relaxed from.
//
// A later, smaller factor can overwrite a unit's best after its successors
// were pushed, so a per-unit predecessor map may form cycles. Following the
// entry chain instead yields exactly the walk whose product is factor.
type factorItem struct {
	unit   string
	factor float64
	from   *factorItem // nil for the source entry
}

// path returns the units from the source to it.unit along the entry chain.
// The walk may revisit a unit when a rounded round trip lowered the product.
func (it *factorItem) path() []string {
	var rev []string
	for cur := it; cur != nil; cur = cur.from {
		rev = append(rev, cur.unit)
	}

	out := make([]string, len(rev))
	for i := range rev {
		out[i] = rev[len(rev)-1-i]
	}

	return out
}

// factorPQ is a min-heap of *factorItem ordered by factor, then unit name.
// Outdated entries stay in the heap and are ignored when popped.
type factorPQ []*factorItem

// Len returns the number of items in the heap.
func (pq factorPQ) Len() int { return len(pq) }

// Less orders by smaller factor first; equal factors fall back to unit name.
func (pq factorPQ) Less(i, j int) bool {
	if pq[i].factor != pq[j].factor {
		return pq[i].factor < pq[j].factor
	}

	return pq[i].unit < pq[j].unit
}

// Swap swaps two elements in the heap.
func (pq factorPQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

// Push adds a new element x onto the heap. Called by heap.Push.
func (pq *factorPQ) Push(x interface{}) { *pq = append(*pq, x.(*factorItem)) }

// Pop removes and returns the last element. Called by heap.Pop.
func (pq *factorPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]

	return item
}
