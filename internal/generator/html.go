package generator

import (
	"bufio"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fondstree/internal/graph"
)

// DefaultHTMLTitle is used when HTMLWriter.Title is empty.
const DefaultHTMLTitle = "Archival Tree"

var labelReplacer = strings.NewReplacer("/", "_")

const htmlTemplate = `{{define "node"}}<li>{{if .Href}}<a href="{{.Href}}">{{.Label}}</a>{{else}}{{.Label}}{{end}}
{{- if .Children}}
<ul>
{{range .Children}}{{template "node" .}}
{{end}}</ul>
{{- end}}</li>{{end -}}
<!DOCTYPE html>
<html lang="pt">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
<ul>
{{range .Roots}}{{template "node" .}}
{{end}}</ul>
</body>
</html>
`

var htmlTmpl = template.Must(template.New("tree").Parse(htmlTemplate))

type htmlPage struct {
	Title string
	Roots []htmlNode
}

type htmlNode struct {
	Label    string
	Href     string
	Children []htmlNode
}

// HTMLWriter renders the forest as one nested list document.
type HTMLWriter struct {
	Lookup SourceLookup
	Title  string
}

// Render writes the HTML tree to outputPath. Labels link to the record file
// behind a node when Lookup knows one; hrefs are relative to outputPath.
func (h HTMLWriter) Render(f *graph.Forest, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return &ArtifactError{Renderer: RendererHTML, Path: outputPath, Err: err}
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return &ArtifactError{Renderer: RendererHTML, Path: outputPath, Err: err}
	}
	if err := h.Write(file, f, filepath.Dir(outputPath)); err != nil {
		file.Close()
		return &ArtifactError{Renderer: RendererHTML, Path: outputPath, Err: err}
	}
	if err := file.Close(); err != nil {
		return &ArtifactError{Renderer: RendererHTML, Path: outputPath, Err: err}
	}
	return nil
}

// Write renders the document to w. baseDir is the directory hrefs are made
// relative to.
func (h HTMLWriter) Write(w io.Writer, f *graph.Forest, baseDir string) error {
	page := htmlPage{Title: h.Title}
	if page.Title == "" {
		page.Title = DefaultHTMLTitle
	}
	for _, root := range roots(f) {
		page.Roots = append(page.Roots, h.node(root, baseDir))
	}

	bw := bufio.NewWriter(w)
	if err := htmlTmpl.Execute(bw, page); err != nil {
		return err
	}
	return bw.Flush()
}

func (h HTMLWriter) node(n *graph.Node, baseDir string) htmlNode {
	out := htmlNode{Label: Label(n)}
	if h.Lookup != nil {
		if path, ok := h.Lookup.SourceFilePath(n.FullID); ok {
			out.Href = href(path, baseDir)
		}
	}
	for _, child := range ordered(n.Children) {
		out.Children = append(out.Children, h.node(child, baseDir))
	}
	return out
}

// Label returns the text shown for n in the HTML tree.
func Label(n *graph.Node) string {
	return labelReplacer.Replace(n.ID + "-" + n.Type.String() + "-" + n.Title)
}

func href(path, baseDir string) string {
	if baseDir != "" {
		absPath, err1 := filepath.Abs(path)
		absBase, err2 := filepath.Abs(baseDir)
		if err1 == nil && err2 == nil {
			if rel, err := filepath.Rel(absBase, absPath); err == nil {
				path = rel
			}
		}
	}
	return filepath.ToSlash(path)
}
