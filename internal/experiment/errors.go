package experiment

import (
	"errors"
	"fmt"
)

// Failure kinds surfaced by loading, validating and bridging experiment
// configurations. Each typed error below wraps exactly one of these.
var (
	// ErrLoad is returned when the document cannot be read.
	ErrLoad = errors.New("config load failed")

	// ErrSyntax is returned when the document is not well-formed YAML or a
	// section has the wrong shape.
	ErrSyntax = errors.New("config syntax error")

	// ErrValidation is returned when a well-formed document violates an invariant.
	ErrValidation = errors.New("config validation failed")

	// ErrResolution is returned when an enum literal matches no accepted spelling.
	ErrResolution = errors.New("unknown enum literal")

	// ErrIndexOutOfRange is returned when a descriptor index is not a valid position.
	ErrIndexOutOfRange = errors.New("descriptor index out of range")
)

// LoadError reports a document that could not be read.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("error loading %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() []error { return []error{ErrLoad, e.Err} }

// SyntaxError reports a document that is present but not well-formed.
type SyntaxError struct {
	Source string
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("YAML parsing error in %s: %v", e.Source, e.Err)
}

func (e *SyntaxError) Unwrap() []error { return []error{ErrSyntax, e.Err} }

// ValidationError names the single invariant that failed. Descriptor is the
// declared name of the offending descriptor entry, if any.
type ValidationError struct {
	Field      string
	Descriptor string
	Message    string
}

func (e *ValidationError) Error() string {
	if e.Descriptor != "" {
		return fmt.Sprintf("validation error: %s: %s for descriptor %q", e.Field, e.Message, e.Descriptor)
	}
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ResolutionError reports an enum literal outside the accepted set. Field is
// the document path of the offending value and is empty when the literal was
// resolved outside of a document.
type ResolutionError struct {
	Field   string
	Kind    string
	Literal string
}

func (e *ResolutionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: unknown %s %q", e.Field, e.Kind, e.Literal)
	}
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Literal)
}

func (e *ResolutionError) Unwrap() error { return ErrResolution }

// IndexError reports a descriptor selection outside [0, Len).
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("descriptor index %d out of range [0,%d)", e.Index, e.Len)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

func atField(err error, field string) error {
	var re *ResolutionError
	if errors.As(err, &re) {
		return &ResolutionError{Field: field, Kind: re.Kind, Literal: re.Literal}
	}
	return err
}
