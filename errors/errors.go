// Package errors defines all exported error sentinels for the combspan library.
//
// This is the single source of truth for error values. Both the top-level
// combspan package and internal packages import from here, ensuring errors.Is
// checks work across package boundaries.
package errors

import "errors"

// Configuration errors
var (
	ErrInvalidParameter = errors.New("combspan: invalid family parameter")
	ErrCapExceeded      = errors.New("combspan: parameter exceeds supported cap")
	ErrInvalidRange     = errors.New("combspan: invalid index range")
	ErrNegativeSkip     = errors.New("combspan: skip count is negative")
	ErrIndexOutOfRange  = errors.New("combspan: index is outside the sequence")
	ErrInvalidWidth     = errors.New("combspan: unknown arithmetic width")
)

// Capacity errors
var (
	// ErrCapacityExceeded reports that the native uint64 path cannot represent
	// the cardinality (or an intermediate of the unranking) of a family.
	ErrCapacityExceeded = errors.New("combspan: cardinality exceeds native width")
)

// Internal errors (raised as panic values by the unranking engines)
var (
	ErrArithmeticInvariant = errors.New("combspan: arithmetic invariant violated")
)

// Table errors
var (
	ErrInvalidMagic   = errors.New("combspan: invalid magic number")
	ErrInvalidVersion = errors.New("combspan: unsupported version")
	ErrChecksumFailed = errors.New("combspan: table checksum verification failed")
	ErrTruncatedFile  = errors.New("combspan: table file is truncated")
	ErrCorruptedTable = errors.New("combspan: table data is corrupted")
	ErrTableTooLarge  = errors.New("combspan: sequence is too large to export")
	ErrTableClosed    = errors.New("combspan: table is closed")
)
