package graph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidIdentifier marks a canonical identifier with an empty segment.
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrDuplicateIdentifier marks a record whose canonical identifier was
	// already claimed by another record.
	ErrDuplicateIdentifier = errors.New("duplicate identifier")
)

// IdentifierError reports a record left out of the forest.
type IdentifierError struct {
	ID     string
	Source string
	Err    error
}

func (e *IdentifierError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("%v: %q", e.Err, e.ID)
	}
	return fmt.Sprintf("%v: %q (%s)", e.Err, e.ID, e.Source)
}

func (e *IdentifierError) Unwrap() error {
	return e.Err
}

// ValidateID rejects identifiers with an empty segment: "", "PT//B",
// "/PT", "PT/" and segments made only of whitespace.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidIdentifier)
	}
	for i, seg := range strings.Split(id, Separator) {
		if strings.TrimSpace(seg) == "" {
			return fmt.Errorf("%w: empty segment at position %d", ErrInvalidIdentifier, i+1)
		}
	}
	return nil
}
