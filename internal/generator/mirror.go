package generator

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"fondstree/internal/graph"

	"gopkg.in/yaml.v3"
)

// DescriptorName is the file written inside every mirrored directory.
const DescriptorName = "node.yaml"

// maxDirName keeps directory names under common filesystem limits.
const maxDirName = 200

var titleReplacer = strings.NewReplacer("/", "_", "\\", "_", "\x00", "_")

// Descriptor is the content of a node.yaml file.
type Descriptor struct {
	ID       string `yaml:"id"`
	Type     string `yaml:"type"`
	Title    string `yaml:"title"`
	FullID   string `yaml:"full_id"`
	ParentID string `yaml:"parent_id,omitempty"`
}

// MirrorWriter reproduces the forest as nested directories under Base.
type MirrorWriter struct {
	Base string
}

// Render creates one directory per node, each holding a descriptor.
// Existing files are overwritten, so re-running with the same forest yields
// the same tree. A failing node is reported and its subtree skipped; the
// rest of the mirror is still written.
func (m MirrorWriter) Render(f *graph.Forest) error {
	if err := os.MkdirAll(m.Base, 0755); err != nil {
		return &ArtifactError{Renderer: RendererMirror, Path: m.Base, Err: err}
	}

	var errs []error
	for _, root := range roots(f) {
		errs = append(errs, m.writeNode(root, m.Base)...)
	}
	return errors.Join(errs...)
}

func (m MirrorWriter) writeNode(n *graph.Node, parentDir string) []error {
	dir := filepath.Join(parentDir, DirName(n))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return []error{&ArtifactError{Renderer: RendererMirror, Path: dir, Err: err}}
	}

	var errs []error
	path := filepath.Join(dir, DescriptorName)
	data, err := yaml.Marshal(DescriptorFor(n))
	if err == nil {
		err = os.WriteFile(path, data, 0644)
	}
	if err != nil {
		errs = append(errs, &ArtifactError{Renderer: RendererMirror, Path: path, Err: err})
	}

	for _, child := range ordered(n.Children) {
		errs = append(errs, m.writeNode(child, dir)...)
	}
	return errs
}

// DescriptorFor builds the descriptor recorded for n.
func DescriptorFor(n *graph.Node) Descriptor {
	return Descriptor{
		ID:       n.ID,
		Type:     n.Type.String(),
		Title:    n.Title,
		FullID:   n.FullID,
		ParentID: n.ParentID,
	}
}

// DirName returns "{ID}-{TYPE}-{title}" with path separators in the title
// replaced by underscores.
func DirName(n *graph.Node) string {
	name := n.ID + "-" + n.Type.String() + "-" + titleReplacer.Replace(n.Title)
	return truncate(name, maxDirName)
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return strings.TrimRight(s[:n], " .")
}
