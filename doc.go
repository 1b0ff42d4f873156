// Package mensura converts values between named units by walking a graph of
// pairwise conversion rules.
//
// 🚀 What is mensura?
//
//	A small, thread-safe conversion engine:
//		• Rules: "1 src = factor dest", registered in both directions
//		• Graph: case-insensitive units, weighted by conversion factor
//		• Search: Dijkstra over the product of factors, so chains of rules
//		  convert units that share no direct rule
//		• Catalog: built-in units plus YAML catalogs, hot-reloadable
//		• Surfaces: a cobra CLI and a gin HTTP API with Prometheus metrics
//
// Under the hood, everything is organized under these subpackages:
//
//	core/        Rule record and the weighted unit Graph
//	dijkstra/    minimum-product path search over core.Graph
//	converter/   Converter: AddConversion, Convert, Factor, Path
//	catalog/     built-in rules, YAML documents, file watcher
//	server/      HTTP API, converter Holder, metrics
//	cmd/mensura  command-line entry point
//
// Quick ASCII example:
//
//	meter ──0.001──▶ kilometer ──0.621371──▶ mile
//	      ◀──1000───           ◀─1.609344───
//
// converts 1000 meter to 0.621371 mile with no meter↔mile rule.
//
// mensura has no notion of physical dimension: it converts between any two
// units the graph connects, and reports disconnected units as an error.
//
//	go get github.com/katalvlaran/mensura
package mensura
