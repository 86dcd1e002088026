package record

import (
	"context"
	"strings"
)

// Record is one catalog entry as supplied by a record source.
// Only the fields the archival tree needs are kept.
type Record struct {
	Identifiers []string `yaml:"identifiers" json:"identifiers"`
	Title       *string  `yaml:"title,omitempty" json:"title,omitempty"`
	Type        *string  `yaml:"type,omitempty" json:"type,omitempty"`

	// SourcePath is the file the record was read from. Empty when unknown.
	SourcePath string `yaml:"-" json:"source_path,omitempty"`
}

// Source supplies the full record set for one run.
type Source interface {
	ListRecords(ctx context.Context) ([]Record, error)
}

// TitleText returns the trimmed title, or false when it is missing or blank.
func (r Record) TitleText() (string, bool) {
	return optional(r.Title)
}

// TypeText returns the trimmed type code, or false when it is missing or blank.
func (r Record) TypeText() (string, bool) {
	return optional(r.Type)
}

func optional(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return "", false
	}
	return v, true
}

// StringPtr is a small helper for building records in code.
func StringPtr(s string) *string {
	return &s
}
