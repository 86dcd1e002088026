package record

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_CanonicalID(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		ids    []string
		want   string
		ok     bool
	}{
		{
			name: "first matching identifier wins",
			ids:  []string{"https://example.org/details?id=1", "PT/MVNF/AMAS/CSC/006-003", "PT/OTHER"},
			want: "PT/MVNF/AMAS/CSC/006-003",
			ok:   true,
		},
		{
			name: "surrounding whitespace is trimmed",
			ids:  []string{"  PT/A/B \n"},
			want: "PT/A/B",
			ok:   true,
		},
		{
			name: "no canonical identifier",
			ids:  []string{"https://example.org/x", "rights statement"},
			ok:   false,
		},
		{
			name: "empty identifier list",
			ok:   false,
		},
		{
			name:   "custom prefix",
			prefix: "ES/",
			ids:    []string{"PT/A", "ES/B/C"},
			want:   "ES/B/C",
			ok:     true,
		},
		{
			name: "prefix must be literal at the start",
			ids:  []string{"xPT/A"},
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NewResolver(tt.prefix).CanonicalID(tt.ids)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_ZeroValueUsesDefaultPrefix(t *testing.T) {
	got, ok := Resolver{}.Resolve(Record{Identifiers: []string{"PT/A"}})
	assert.True(t, ok)
	assert.Equal(t, "PT/A", got)
}

func TestRecord_OptionalFields(t *testing.T) {
	r := Record{Title: StringPtr("  Leaf "), Type: StringPtr("   ")}

	title, ok := r.TitleText()
	assert.True(t, ok)
	assert.Equal(t, "Leaf", title)

	_, ok = r.TypeText()
	assert.False(t, ok, "blank type counts as absent")

	_, ok = Record{}.TitleText()
	assert.False(t, ok)
}

func TestDecode_PortugueseKeys(t *testing.T) {
	data := []byte(`id: oai:arquivo:1234
titulo: Correspondência recebida
datas:
  inicio: "1890"
  fim: null
tipo: UI
identificadores:
- https://example.org/details?id=1234
- PT/MVNF/AMAS/CSC/006-003
colecoes:
- set1
`)
	r, err := Decode(data, "records_yaml/record_1.yaml")
	require.NoError(t, err)

	assert.Equal(t, "records_yaml/record_1.yaml", r.SourcePath)
	assert.Len(t, r.Identifiers, 2)
	title, ok := r.TitleText()
	require.True(t, ok)
	assert.Equal(t, "Correspondência recebida", title)
	typ, ok := r.TypeText()
	require.True(t, ok)
	assert.Equal(t, "UI", typ)
}

func TestDecode_EnglishKeysAndNulls(t *testing.T) {
	data := []byte(`identifiers: [PT/A/B]
title: null
`)
	r, err := Decode(data, "b.yaml")
	require.NoError(t, err)

	assert.Equal(t, []string{"PT/A/B"}, r.Identifiers)
	assert.Nil(t, r.Title)
	assert.Nil(t, r.Type)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode([]byte("identifiers: [unclosed"), "bad.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record_0.yaml")
	require.NoError(t, os.WriteFile(path, []byte("identificadores: [PT/A]\ntitulo: Fundo A\n"), 0644))

	r, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, r.SourcePath)
	assert.Equal(t, []string{"PT/A"}, r.Identifiers)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
