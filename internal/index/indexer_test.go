package index

import (
	"context"
	"errors"
	"testing"

	"fondstree/internal/record"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	records []record.Record
	err     error
}

func (s staticSource) ListRecords(context.Context) ([]record.Record, error) {
	return s.records, s.err
}

func withSource(id, path string) record.Record {
	return record.Record{Identifiers: []string{id}, SourcePath: path}
}

func TestFromRecords(t *testing.T) {
	idx := FromRecords([]record.Record{
		withSource("PT/A/B", "records/b.yaml"),
		withSource("PT/A/C", ""),
		withSource("PT//bad", "records/bad.yaml"),
		withSource("http://example.org", "records/url.yaml"),
		withSource("PT/A", "records/z.yaml"),
		withSource("PT/A", "records/a.yaml"),
	}, record.Resolver{})

	assert.Equal(t, []string{"PT/A", "PT/A/B"}, idx.IDs())

	p, ok := idx.SourceFilePath("PT/A")
	require.True(t, ok)
	assert.Equal(t, "records/a.yaml", p, "first path wins on duplicates")

	assert.True(t, idx.HasSourceFile("PT/A/B"))
	assert.False(t, idx.HasSourceFile("PT/A/C"))
	assert.False(t, idx.HasSourceFile("PT"))
}

func TestSourceIndex_Nil(t *testing.T) {
	var idx *SourceIndex
	_, ok := idx.SourceFilePath("PT")
	assert.False(t, ok)
	assert.Equal(t, 0, idx.Len())
}

func TestIndexer_Build(t *testing.T) {
	src := staticSource{records: []record.Record{
		withSource("PT/A/B", "b.yaml"),
		withSource("PT/A/C", "c.yaml"),
	}}

	f, idx, err := NewIndexer(src, record.Resolver{}).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, f.Len())
	assert.Equal(t, 2, idx.Len())
}

func TestIndexer_SourceFailureIsFatal(t *testing.T) {
	boom := errors.New("boom")
	_, _, err := NewIndexer(staticSource{err: boom}, record.Resolver{}).Build(context.Background())
	assert.ErrorIs(t, err, boom)
}
