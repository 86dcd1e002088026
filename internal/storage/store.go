package storage

import (
	"context"

	"fondstree/internal/index"
	"fondstree/internal/record"
)

// Store combines record persistence and source-file lookup.
type Store interface {
	RecordCatalog
	Close() error
}

// RecordCatalog persists harvested records between runs.
type RecordCatalog interface {
	record.Source

	// SaveRecords replaces the stored snapshot with records.
	SaveRecords(ctx context.Context, records []record.Record, resolver record.Resolver) error

	// LoadSourceIndex builds the {canonical id -> record file} index in one query.
	LoadSourceIndex(ctx context.Context) (*index.SourceIndex, error)

	// CountRecords returns the number of stored records.
	CountRecords(ctx context.Context) (int, error)
}
