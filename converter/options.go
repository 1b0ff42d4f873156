package converter

import (
	"io"
	"log/slog"
)

// Options configures a Converter.
//
// Logger             – receives debug records for registrations and redefinitions.
// StrictRedefinition – reject a rule whose ordered pair is already registered.
// Validate           – check names and factors before registering (default true).
type Options struct {
	Logger             *slog.Logger
	StrictRedefinition bool
	Validate           bool
}

// Option represents a functional option for configuring New.
type Option func(*Options)

// WithLogger sets the structured logger. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithStrictRedefinition makes AddConversion fail with ErrDuplicateRule when
// the (src, dest) pair, in either direction, already exists.
func WithStrictRedefinition() Option {
	return func(o *Options) {
		o.StrictRedefinition = true
	}
}

// WithoutValidation registers rules as given: empty names and zero, negative
// or non-finite factors are accepted. Use only with trusted catalogs.
func WithoutValidation() Option {
	return func(o *Options) {
		o.Validate = false
	}
}

// DefaultOptions returns validation on, last-write-wins redefinition and a
// logger that discards everything.
func DefaultOptions() Options {
	return Options{
		Logger:             slog.New(slog.NewTextHandler(io.Discard, nil)),
		StrictRedefinition: false,
		Validate:           true,
	}
}
