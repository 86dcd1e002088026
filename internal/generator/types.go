package generator

import (
	"fmt"
	"sort"

	"fondstree/internal/graph"
)

// Renderer names used in errors and reports.
const (
	RendererText   = "text"
	RendererMirror = "mirror"
	RendererHTML   = "html"
)

// SourceLookup resolves the record file behind a canonical identifier.
// The boolean reports whether such a file exists.
type SourceLookup interface {
	SourceFilePath(fullID string) (string, bool)
}

// ArtifactError reports an I/O failure while writing one artifact.
type ArtifactError struct {
	Renderer string
	Path     string
	Err      error
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("%s: write %s: %v", e.Renderer, e.Path, e.Err)
}

func (e *ArtifactError) Unwrap() error {
	return e.Err
}

// ordered returns nodes sorted by ID without touching the forest.
// Assembled forests are already sorted, so this normally returns nodes as is.
func ordered(nodes []*graph.Node) []*graph.Node {
	less := func(s []*graph.Node) func(i, j int) bool {
		return func(i, j int) bool { return s[i].ID < s[j].ID }
	}
	if sort.SliceIsSorted(nodes, less(nodes)) {
		return nodes
	}
	out := append([]*graph.Node(nil), nodes...)
	sort.Slice(out, less(out))
	return out
}

func roots(f *graph.Forest) []*graph.Node {
	if f == nil {
		return nil
	}
	return ordered(f.Roots)
}
