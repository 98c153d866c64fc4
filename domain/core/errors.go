package core

import (
	"errors"
	"fmt"
)

// Failure kinds. Every domain error wraps exactly one of these.
var (
	ErrFormat = errors.New("format error")
	ErrLookup = errors.New("lookup error")
	ErrIO     = errors.New("io error")
)

// Domain errors - centralized error definitions
var (
	ErrEmptyIdentifier    = fmt.Errorf("%w: empty identifier", ErrFormat)
	ErrBadHeader          = fmt.Errorf("%w: column header is not of the form \"Name (Unit)\"", ErrFormat)
	ErrBadLegendLine      = fmt.Errorf("%w: legend line is not of the form \"(code) text\"", ErrFormat)
	ErrConflictingLegend  = fmt.Errorf("%w: legend code defined twice", ErrFormat)
	ErrDuplicateConcept   = fmt.Errorf("%w: duplicate concept id", ErrFormat)
	ErrInconsistentEntity = fmt.Errorf("%w: entity has more than one name", ErrFormat)
	ErrMissingColumn      = fmt.Errorf("%w: missing column", ErrFormat)
	ErrHeaderMismatch     = fmt.Errorf("%w: sheet headers differ", ErrFormat)
	ErrBadMeasure         = fmt.Errorf("%w: non-numeric measure", ErrFormat)

	ErrUnknownNoteCode = fmt.Errorf("%w: note code not in legend", ErrLookup)
)

// IsFormatError reports whether err is an input-format violation
func IsFormatError(err error) bool {
	return errors.Is(err, ErrFormat)
}

// IsLookupError reports whether err is an unresolved reference
func IsLookupError(err error) bool {
	return errors.Is(err, ErrLookup)
}

// IsIOError reports whether err came from reading or writing files
func IsIOError(err error) bool {
	return errors.Is(err, ErrIO)
}
