package converter

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Converter. Match them with errors.Is.
var (
	// ErrUnitNotFound indicates that the source or destination unit was never
	// registered by any rule.
	ErrUnitNotFound = errors.New("converter: unit not found")

	// ErrConversionFailed indicates that both units are known but no chain of
	// rules connects them.
	ErrConversionFailed = errors.New("converter: no conversion path")

	// ErrDuplicateRule indicates a redefinition of an already registered pair
	// while strict redefinition is enabled.
	ErrDuplicateRule = errors.New("converter: conversion already defined")

	// ErrInvalidRule indicates a rule rejected by validation.
	ErrInvalidRule = errors.New("converter: invalid rule")
)

// ConversionError carries the attempted pair of a failed query.
// Err is one of ErrUnitNotFound or ErrConversionFailed.
type ConversionError struct {
	From string
	To   string
	Err  error
}

// Error implements error.
func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion from %q to %q: %v", e.From, e.To, e.Err)
}

// Unwrap exposes the sentinel to errors.Is.
func (e *ConversionError) Unwrap() error { return e.Err }
