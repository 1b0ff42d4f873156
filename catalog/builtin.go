// Package catalog supplies conversion rules to a converter: a built-in
// table of common units, a YAML document format for custom catalogs, and a
// file watcher that reloads a catalog when it changes on disk.
//
// Rules read "1 src = factor dest". A catalog is an ordered list; when two
// rules define the same pair, the later one wins.
package catalog

import "github.com/katalvlaran/mensura/core"

// builtin holds the default rules, grouped by quantity. Each group is
// connected; groups are deliberately not bridged to each other.
var builtin = []core.Rule{
	// length, metric
	{Src: "kilometer", Dest: "meter", Factor: 1000},
	{Src: "meter", Dest: "decimeter", Factor: 10},
	{Src: "meter", Dest: "centimeter", Factor: 100},
	{Src: "meter", Dest: "millimeter", Factor: 1000},
	{Src: "millimeter", Dest: "micrometer", Factor: 1000},
	{Src: "micrometer", Dest: "nanometer", Factor: 1000},

	// length, imperial
	{Src: "mile", Dest: "yard", Factor: 1760},
	{Src: "yard", Dest: "foot", Factor: 3},
	{Src: "foot", Dest: "inch", Factor: 12},
	{Src: "nautical_mile", Dest: "meter", Factor: 1852},
	{Src: "inch", Dest: "centimeter", Factor: 2.54},

	// mass
	{Src: "tonne", Dest: "kilogram", Factor: 1000},
	{Src: "kilogram", Dest: "gram", Factor: 1000},
	{Src: "gram", Dest: "milligram", Factor: 1000},
	{Src: "pound", Dest: "ounce", Factor: 16},
	{Src: "stone", Dest: "pound", Factor: 14},
	{Src: "pound", Dest: "gram", Factor: 453.59237},

	// time
	{Src: "week", Dest: "day", Factor: 7},
	{Src: "day", Dest: "hour", Factor: 24},
	{Src: "hour", Dest: "minute", Factor: 60},
	{Src: "minute", Dest: "second", Factor: 60},
	{Src: "second", Dest: "millisecond", Factor: 1000},

	// volume
	{Src: "cubic_meter", Dest: "liter", Factor: 1000},
	{Src: "liter", Dest: "milliliter", Factor: 1000},
	{Src: "gallon", Dest: "liter", Factor: 3.785411784},
	{Src: "gallon", Dest: "quart", Factor: 4},
	{Src: "quart", Dest: "pint", Factor: 2},

	// area
	{Src: "square_kilometer", Dest: "hectare", Factor: 100},
	{Src: "hectare", Dest: "square_meter", Factor: 10000},
	{Src: "acre", Dest: "square_meter", Factor: 4046.8564224},

	// digital storage
	{Src: "byte", Dest: "bit", Factor: 8},
	{Src: "kilobyte", Dest: "byte", Factor: 1000},
	{Src: "megabyte", Dest: "kilobyte", Factor: 1000},
	{Src: "gigabyte", Dest: "megabyte", Factor: 1000},
	{Src: "kibibyte", Dest: "byte", Factor: 1024},
	{Src: "mebibyte", Dest: "kibibyte", Factor: 1024},
	{Src: "gibibyte", Dest: "mebibyte", Factor: 1024},
}

// Default returns a copy of the built-in rules.
func Default() []core.Rule {
	out := make([]core.Rule, len(builtin))
	copy(out, builtin)

	return out
}

// Merge returns base followed by extra. Rules in extra override rules in
// base for the same pair once registered in order.
func Merge(base, extra []core.Rule) []core.Rule {
	out := make([]core.Rule, 0, len(base)+len(extra))
	out = append(out, base...)
	out = append(out, extra...)

	return out
}
