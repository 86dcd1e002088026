package graph

import "errors"

// TypeCounts counts nodes per type token.
func (f *Forest) TypeCounts() map[string]int {
	counts := make(map[string]int)
	if f == nil {
		return counts
	}
	for _, n := range f.Nodes {
		counts[n.Type.String()]++
	}
	return counts
}

// PlaceholderCount counts nodes synthesized without a record.
func (f *Forest) PlaceholderCount() int {
	if f == nil {
		return 0
	}
	count := 0
	for _, n := range f.Nodes {
		if n.Placeholder {
			count++
		}
	}
	return count
}

// SkipReasonCounts groups skipped records by reason.
func (f *Forest) SkipReasonCounts() map[string]int {
	counts := make(map[string]int)
	if f == nil {
		return counts
	}
	for _, s := range f.Skipped {
		counts[SkipReason(s)]++
	}
	return counts
}

// SkipReason names the reason a record was left out.
func SkipReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidIdentifier):
		return "invalid_identifier"
	case errors.Is(err, ErrDuplicateIdentifier):
		return "duplicate_identifier"
	default:
		return "other"
	}
}
