package index

import (
	"context"
	"fmt"
	"sort"

	"fondstree/internal/graph"
	"fondstree/internal/record"
)

// SourceIndex maps canonical identifiers to the record file they came from.
// It is built once per run so lookups never rescan the record directory.
type SourceIndex struct {
	paths map[string]string
}

// NewSourceIndex creates an empty index.
func NewSourceIndex() *SourceIndex {
	return &SourceIndex{paths: make(map[string]string)}
}

// FromRecords indexes every record that has both a canonical identifier and
// a source path. When two records share an identifier the lexically first
// path is kept, matching the record graph.BuildForest keeps.
func FromRecords(records []record.Record, resolver record.Resolver) *SourceIndex {
	idx := NewSourceIndex()
	for _, rec := range records {
		if rec.SourcePath == "" {
			continue
		}
		id, ok := resolver.Resolve(rec)
		if !ok || graph.ValidateID(id) != nil {
			continue
		}
		idx.Add(id, rec.SourcePath)
	}
	return idx
}

// Add registers path for fullID, keeping the lexically first path on conflict.
func (i *SourceIndex) Add(fullID, path string) {
	if prev, ok := i.paths[fullID]; ok && prev <= path {
		return
	}
	i.paths[fullID] = path
}

// SourceFilePath returns the record file for fullID, if any.
func (i *SourceIndex) SourceFilePath(fullID string) (string, bool) {
	if i == nil {
		return "", false
	}
	p, ok := i.paths[fullID]
	return p, ok
}

// HasSourceFile reports whether a record file exists for fullID.
func (i *SourceIndex) HasSourceFile(fullID string) bool {
	_, ok := i.SourceFilePath(fullID)
	return ok
}

// Len returns the number of indexed identifiers.
func (i *SourceIndex) Len() int {
	if i == nil {
		return 0
	}
	return len(i.paths)
}

// IDs returns the indexed identifiers in sorted order.
func (i *SourceIndex) IDs() []string {
	if i == nil {
		return nil
	}
	ids := make([]string, 0, len(i.paths))
	for id := range i.paths {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Indexer loads records from a source and builds both the forest and the
// source index from the same record set.
type Indexer struct {
	source   record.Source
	resolver record.Resolver
}

// NewIndexer creates a new indexer.
func NewIndexer(source record.Source, resolver record.Resolver) *Indexer {
	return &Indexer{
		source:   source,
		resolver: resolver,
	}
}

// Build reads the full record set and constructs the forest.
// Failure to read the source is the only fatal error.
func (i *Indexer) Build(ctx context.Context) (*graph.Forest, *SourceIndex, error) {
	records, err := i.source.ListRecords(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list records: %w", err)
	}

	f := graph.BuildForest(records, i.resolver)
	return f, FromRecords(records, i.resolver), nil
}
