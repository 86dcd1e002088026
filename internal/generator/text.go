package generator

import (
	"bufio"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"fondstree/internal/graph"
)

// Lines yields the indented text tree, one line per node, pre-order.
// The sequence is lazy and can be ranged over any number of times.
func Lines(f *graph.Forest) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, root := range roots(f) {
			if !textLines(root, 0, yield) {
				return
			}
		}
	}
}

func textLines(n *graph.Node, level int, yield func(string) bool) bool {
	if !yield(FormatLine(n, level)) {
		return false
	}
	for _, child := range ordered(n.Children) {
		if !textLines(child, level+1, yield) {
			return false
		}
	}
	return true
}

// FormatLine renders a single node as "<tabs>ID [TYPE] - Title".
func FormatLine(n *graph.Node, level int) string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat("\t", level))
	sb.WriteString(n.ID)
	if code := n.Type.String(); code != "" {
		sb.WriteString(" [")
		sb.WriteString(code)
		sb.WriteString("]")
	}
	sb.WriteString(" - ")
	sb.WriteString(n.Title)
	return sb.String()
}

// WriteText writes every line of the text tree followed by a newline.
func WriteText(w io.Writer, f *graph.Forest) error {
	bw := bufio.NewWriter(w)
	for line := range Lines(f) {
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// SaveText writes the text tree to path, creating parent directories.
func SaveText(path string, f *graph.Forest) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &ArtifactError{Renderer: RendererText, Path: path, Err: err}
	}
	file, err := os.Create(path)
	if err != nil {
		return &ArtifactError{Renderer: RendererText, Path: path, Err: err}
	}
	if err := WriteText(file, f); err != nil {
		file.Close()
		return &ArtifactError{Renderer: RendererText, Path: path, Err: err}
	}
	if err := file.Close(); err != nil {
		return &ArtifactError{Renderer: RendererText, Path: path, Err: err}
	}
	return nil
}
