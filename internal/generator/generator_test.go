package generator

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"fondstree/internal/graph"
	"fondstree/internal/index"
	"fondstree/internal/record"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func exampleForest() *graph.Forest {
	return graph.BuildForest([]record.Record{
		{Identifiers: []string{"PT/A/B"}, Title: record.StringPtr("Leaf"), Type: record.StringPtr("UI")},
		{Identifiers: []string{"PT/A/C"}},
	}, record.Resolver{})
}

func TestLines_Example(t *testing.T) {
	got := slices.Collect(Lines(exampleForest()))

	assert.Equal(t, []string{
		"PT [F] - (PT)",
		"\tA [SC] - (A)",
		"\t\tB [UI] - Leaf",
		"\t\tC [SSC] - (C)",
	}, got)
}

func TestLines_Restartable(t *testing.T) {
	seq := Lines(exampleForest())

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)

	// Early exit stops the traversal.
	var n int
	for range seq {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestLines_EmptyForest(t *testing.T) {
	assert.Empty(t, slices.Collect(Lines(nil)))
	assert.Empty(t, slices.Collect(Lines(graph.BuildForest(nil, record.Resolver{}))))
}

func TestLines_UnsortedChildrenRenderSorted(t *testing.T) {
	f := exampleForest()
	a, _ := f.Node("PT/A")
	b, c := a.Children[0], a.Children[1]

	// A hand-built forest with children out of order still renders sorted
	// and is left as it was.
	a.Children = []*graph.Node{c, b}
	got := slices.Collect(Lines(f))

	assert.Equal(t, "\t\tB [UI] - Leaf", got[2])
	assert.Equal(t, "C", a.Children[0].ID)
}

func TestFormatLine_EmptyTypeToken(t *testing.T) {
	n := &graph.Node{ID: "X", Title: "T", Type: graph.Explicit("")}
	assert.Equal(t, "\tX - T", FormatLine(n, 1))
}

func TestSaveText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "tree.txt")

	require.NoError(t, SaveText(path, exampleForest()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "PT [F] - (PT)\n\tA [SC] - (A)\n\t\tB [UI] - Leaf\n\t\tC [SSC] - (C)\n", string(data))
}

func TestSaveText_UnwritablePath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	path := filepath.Join(blocker, "tree.txt")
	err := SaveText(path, exampleForest())

	var artifactErr *ArtifactError
	require.ErrorAs(t, err, &artifactErr)
	assert.Equal(t, RendererText, artifactErr.Renderer)
	assert.Equal(t, path, artifactErr.Path)
}

func TestDirName(t *testing.T) {
	n := &graph.Node{ID: "006-003", Type: graph.Unit, Title: "Cartas a/de Lisboa\\Porto"}
	assert.Equal(t, "006-003-UI-Cartas a_de Lisboa_Porto", DirName(n))

	long := &graph.Node{ID: "X", Type: graph.Unit, Title: strings.Repeat("ção", 100)}
	name := DirName(long)
	assert.LessOrEqual(t, len(name), maxDirName)
	assert.True(t, strings.HasPrefix(name, "X-UI-ção"))
	assert.True(t, strings.HasSuffix(name, "ção") || strings.HasSuffix(name, "çã") || strings.HasSuffix(name, "ç"))
}

func TestMirrorWriter_Render(t *testing.T) {
	base := t.TempDir()

	require.NoError(t, MirrorWriter{Base: base}.Render(exampleForest()))

	leafDir := filepath.Join(base, "PT-F-(PT)", "A-SC-(A)", "B-UI-Leaf")
	data, err := os.ReadFile(filepath.Join(leafDir, DescriptorName))
	require.NoError(t, err)

	var d Descriptor
	require.NoError(t, yaml.Unmarshal(data, &d))
	assert.Equal(t, Descriptor{ID: "B", Type: "UI", Title: "Leaf", FullID: "PT/A/B", ParentID: "PT/A"}, d)

	rootData, err := os.ReadFile(filepath.Join(base, "PT-F-(PT)", DescriptorName))
	require.NoError(t, err)
	assert.NotContains(t, string(rootData), "parent_id", "roots carry no parent")

	assert.DirExists(t, filepath.Join(base, "PT-F-(PT)", "A-SC-(A)", "C-SSC-(C)"))
}

func TestMirrorWriter_RerunIsIdentical(t *testing.T) {
	base := t.TempDir()
	w := MirrorWriter{Base: base}

	require.NoError(t, w.Render(exampleForest()))
	first := snapshot(t, base)

	require.NoError(t, w.Render(exampleForest()))
	second := snapshot(t, base)

	assert.Equal(t, first, second)
	assert.Len(t, first, 4)
}

func TestMirrorWriter_FailureSkipsSubtreeOnly(t *testing.T) {
	base := t.TempDir()
	f := graph.BuildForest([]record.Record{
		{Identifiers: []string{"PT/A/B"}},
		{Identifiers: []string{"ES/X"}},
	}, record.Resolver{})

	// A plain file where PT's directory should go.
	blocked := filepath.Join(base, "PT-F-(PT)")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0644))

	err := MirrorWriter{Base: base}.Render(f)
	require.Error(t, err)

	var artifactErr *ArtifactError
	require.ErrorAs(t, err, &artifactErr)
	assert.Equal(t, RendererMirror, artifactErr.Renderer)
	assert.Equal(t, blocked, artifactErr.Path)

	assert.FileExists(t, filepath.Join(base, "ES-F-(ES)", "X-SC-(X)", DescriptorName))
}

type mapLookup map[string]string

func (m mapLookup) SourceFilePath(fullID string) (string, bool) {
	p, ok := m[fullID]
	return p, ok
}

func TestLabel(t *testing.T) {
	n := &graph.Node{ID: "B", Type: graph.Unit, Title: "a/b"}
	assert.Equal(t, "B-UI-a_b", Label(n))
}

func TestHTMLWriter_LinksOnlyNodesWithSource(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "html", "index.html")
	lookup := mapLookup{"PT/A/B": filepath.Join(dir, "records", "b.yaml")}

	require.NoError(t, HTMLWriter{Lookup: lookup}.Render(exampleForest(), out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	doc := string(data)

	assert.Contains(t, doc, "<title>"+DefaultHTMLTitle+"</title>")
	assert.Contains(t, doc, `<a href="../records/b.yaml">B-UI-Leaf</a>`)
	assert.Equal(t, 1, strings.Count(doc, "<a "))
	assert.Contains(t, doc, "<li>PT-F-(PT)")
	assert.Contains(t, doc, "<li>C-SSC-(C)</li>")
	assert.Less(t, strings.Index(doc, "B-UI-Leaf"), strings.Index(doc, "C-SSC-(C)"))
}

func TestHTMLWriter_EscapesLabels(t *testing.T) {
	f := graph.BuildForest([]record.Record{
		{Identifiers: []string{"PT"}, Title: record.StringPtr("<script>x</script>")},
	}, record.Resolver{})

	var buf bytes.Buffer
	require.NoError(t, HTMLWriter{Title: "Fundo"}.Write(&buf, f, ""))

	assert.NotContains(t, buf.String(), "<script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
	assert.Contains(t, buf.String(), "<h1>Fundo</h1>")
}

func TestHTMLWriter_StableAcrossRuns(t *testing.T) {
	records := []record.Record{
		{Identifiers: []string{"PT/A/B"}, SourcePath: "records/b.yaml"},
		{Identifiers: []string{"PT/A"}, SourcePath: "records/a.yaml"},
	}
	f := graph.BuildForest(records, record.Resolver{})
	w := HTMLWriter{Lookup: index.FromRecords(records, record.Resolver{})}

	var first, second bytes.Buffer
	require.NoError(t, w.Write(&first, f, "."))
	require.NoError(t, w.Write(&second, f, "."))

	assert.Equal(t, first.String(), second.String())
	assert.Contains(t, first.String(), `href="records/a.yaml"`)
}

func TestHTMLWriter_UnwritablePath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	out := filepath.Join(blocker, "index.html")
	err := HTMLWriter{}.Render(exampleForest(), out)

	var artifactErr *ArtifactError
	require.ErrorAs(t, err, &artifactErr)
	assert.Equal(t, RendererHTML, artifactErr.Renderer)
	assert.Equal(t, out, artifactErr.Path)
	assert.True(t, errors.Unwrap(err) != nil)
}

func snapshot(t *testing.T, base string) map[string]string {
	t.Helper()
	files := map[string]string{}
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(base, path)
		files[rel] = string(data)
		return nil
	})
	require.NoError(t, err)
	return files
}
