// Package converter converts numeric values between named units by finding
// the effective multiplicative factor through a graph of pairwise rules.
//
// A Converter owns a core.Graph built from a rule catalog. Each rule
// "1 src = factor dest" contributes the edges src→dest (factor) and
// dest→src (1/factor); Convert then searches for the path whose factors
// have the smallest product, so units without a direct rule still convert
// as long as some chain of rules connects them.
//
// Unit names are case-insensitive. The converter does not know about
// physical dimensions: it converts between any two connected units.
//
// Errors:
//
//	ErrUnitNotFound      - from or to unit never registered.
//	ErrConversionFailed  - both known, but no path connects them.
//	ErrInvalidRule       - rule rejected by validation (AddConversion).
//	ErrDuplicateRule     - redefinition under WithStrictRedefinition.
//
// Query failures are returned as *ConversionError carrying the pair.
//
// Thread safety:
//
//   - Convert, Factor, Path, Units and HasUnit may run concurrently.
//   - AddConversion calls are serialized internally. A query running while
//     a rule is added sees each edge either before or after the write, never
//     torn; callers needing a stable view across reloads should build a new
//     Converter and swap it in.
package converter

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/katalvlaran/mensura/core"
	"github.com/katalvlaran/mensura/dijkstra"
)

// Converter maintains the conversion graph and answers factor queries.
type Converter struct {
	wmu    sync.Mutex // serializes AddConversion (check-then-insert)
	graph  *core.Graph
	opts   Options
	logger *slog.Logger
}

// New builds a Converter and registers rules in catalog order.
// Registration stops at the first rejected rule; the error names its index.
func New(rules []core.Rule, opts ...Option) (*Converter, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Converter{
		graph:  core.NewGraph(),
		opts:   cfg,
		logger: cfg.Logger,
	}
	for i, r := range rules {
		if err := c.AddConversion(r); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
	}
	c.logger.Debug("converter ready",
		slog.Int("rules", len(rules)),
		slog.Int("units", c.graph.Order()),
	)

	return c, nil
}

// AddConversion registers r as two directed edges.
//
// Unit names are lower-cased. An existing edge for the same ordered pair is
// overwritten (last write wins) unless WithStrictRedefinition was given.
func (c *Converter) AddConversion(r core.Rule) error {
	if c.opts.Validate {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRule, err)
		}
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()

	if c.opts.StrictRedefinition {
		if _, exists := c.graph.Weight(r.Src, r.Dest); exists {
			return fmt.Errorf("%w: %s", ErrDuplicateRule, r)
		}
	}

	if c.graph.AddRule(r) {
		c.logger.Debug("conversion redefined",
			slog.String("src", core.Normalize(r.Src)),
			slog.String("dest", core.Normalize(r.Dest)),
			slog.Float64("factor", r.Factor),
		)
	}

	return nil
}

// Convert returns value expressed in to units, given it is expressed in from units.
//
// If from and to name the same known unit, value is returned unchanged.
func (c *Converter) Convert(value float64, from, to string) (float64, error) {
	res, err := c.search(from, to, false)
	if err != nil {
		return 0, err
	}

	return value * res.Factor, nil
}

// Factor returns the effective factor from→to: 1 from = factor to.
func (c *Converter) Factor(from, to string) (float64, error) {
	res, err := c.search(from, to, false)
	if err != nil {
		return 0, err
	}

	return res.Factor, nil
}

// Path returns the units walked from→to (both included, normalized) and the
// effective factor along them.
func (c *Converter) Path(from, to string) ([]string, float64, error) {
	res, err := c.search(from, to, true)
	if err != nil {
		return nil, 0, err
	}

	return res.Path, res.Factor, nil
}

// HasUnit reports whether unit was registered by any rule.
func (c *Converter) HasUnit(unit string) bool {
	return c.graph.HasUnit(unit)
}

// Units returns all registered units, lower-cased and sorted.
func (c *Converter) Units() []string {
	return c.graph.Units()
}

// search validates both endpoints and runs the minimum-product search.
func (c *Converter) search(from, to string, withPath bool) (dijkstra.Result, error) {
	src := core.Normalize(from)
	dst := core.Normalize(to)

	if !c.graph.HasUnit(src) || !c.graph.HasUnit(dst) {
		return dijkstra.Result{}, &ConversionError{From: src, To: dst, Err: ErrUnitNotFound}
	}

	opts := []dijkstra.Option{dijkstra.Source(src), dijkstra.Target(dst)}
	if withPath {
		opts = append(opts, dijkstra.WithReturnPath())
	}

	res, err := dijkstra.Factor(c.graph, opts...)
	switch {
	case err == nil:
		return res, nil
	case errors.Is(err, dijkstra.ErrUnreachable):
		return dijkstra.Result{}, &ConversionError{From: src, To: dst, Err: ErrConversionFailed}
	case errors.Is(err, dijkstra.ErrVertexNotFound),
		errors.Is(err, dijkstra.ErrEmptySource),
		errors.Is(err, dijkstra.ErrEmptyTarget):
		return dijkstra.Result{}, &ConversionError{From: src, To: dst, Err: ErrUnitNotFound}
	default:
		return dijkstra.Result{}, fmt.Errorf("converter: %q to %q: %w", src, dst, err)
	}
}
