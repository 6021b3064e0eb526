package domain

import (
	"fmt"
	"strings"
)

// KeySetMismatchError reports that the geometry and attribute key sets differ.
// Both lists are sorted so the diagnostic is stable and diffable.
type KeySetMismatchError struct {
	GeometryKeys  []string
	AttributeKeys []string
}

func (e *KeySetMismatchError) Error() string {
	return fmt.Sprintf("region key sets do not match: geometry=[%s] attributes=[%s]",
		strings.Join(e.GeometryKeys, ", "), strings.Join(e.AttributeKeys, ", "))
}

// InputError wraps a failure to read or parse an input source: missing file,
// malformed row, non-numeric column, non-positive denominator.
type InputError struct {
	Source string
	Err    error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input %s: %v", e.Source, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// NewInputError wraps err with its source name.
func NewInputError(source string, err error) *InputError {
	return &InputError{Source: source, Err: err}
}
