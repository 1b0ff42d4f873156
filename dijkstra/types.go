// Package dijkstra defines the options, result and sentinel errors of the
// minimum-product path search over a core.Graph.
//
// Options:
//
//	– Source:         unit the search starts from (required, must be a vertex).
//	– Target:         unit the search stops at (required, must be a vertex).
//	– WithReturnPath: also reconstruct the unit chain Source → … → Target.
//
// Errors (sentinel):
//
//	– ErrEmptySource     if the provided source unit is empty.
//	– ErrEmptyTarget     if the provided target unit is empty.
//	– ErrNilGraph        if the provided graph pointer is nil.
//	– ErrVertexNotFound  if the source or target is not in the graph.
//	– ErrUnreachable     if the frontier is exhausted before the target is popped.
package dijkstra

import "errors"

// Sentinel errors returned by Factor.
var (
	// ErrEmptySource indicates that no source unit was supplied.
	ErrEmptySource = errors.New("dijkstra: source unit is empty")

	// ErrEmptyTarget indicates that no target unit was supplied.
	ErrEmptyTarget = errors.New("dijkstra: target unit is empty")

	// ErrNilGraph indicates that a nil *core.Graph was passed to Factor.
	ErrNilGraph = errors.New("dijkstra: graph is nil")

	// ErrVertexNotFound indicates that the source or target unit is absent from the graph.
	ErrVertexNotFound = errors.New("dijkstra: unit not found in graph")

	// ErrUnreachable indicates that source and target lie in disconnected components.
	ErrUnreachable = errors.New("dijkstra: target unreachable from source")
)

// Options configures a single search.
//
// Source     – starting unit; normalized before lookup.
// Target     – unit whose cumulative factor is wanted; normalized before lookup.
// ReturnPath – if true, Result.Path holds the units walked, Source first.
type Options struct {
	Source     string
	Target     string
	ReturnPath bool
}

// Option represents a functional option for configuring Factor.
type Option func(*Options)

// Source sets the starting unit. Must be supplied.
func Source(unit string) Option {
	return func(o *Options) {
		o.Source = unit
	}
}

// Target sets the destination unit. Must be supplied.
func Target(unit string) Option {
	return func(o *Options) {
		o.Target = unit
	}
}

// WithReturnPath enables reconstruction of the unit chain in Result.Path.
// If not set (default), Result.Path is nil.
func WithReturnPath() Option {
	return func(o *Options) {
		o.ReturnPath = true
	}
}

// DefaultOptions returns Options for the given endpoints with path
// reconstruction disabled. No validation happens here; Factor validates.
func DefaultOptions(source, target string) Options {
	return Options{
		Source:     source,
		Target:     target,
		ReturnPath: false,
	}
}

// Result is the outcome of a successful search.
type Result struct {
	// Factor is the minimal product of edge factors from Source to Target.
	// One Source unit equals Factor Target units.
	Factor float64

	// Path lists the normalized units walked from Source to Target inclusive,
	// in the order their factors were multiplied. A unit may repeat when a
	// rounded round trip produced the smaller product. Nil unless
	// WithReturnPath was given.
	Path []string

	// Expanded counts the frontier entries that were not skipped as stale.
	Expanded int
}
