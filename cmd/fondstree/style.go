package main

import (
	"bufio"
	"io"
	"strings"

	"fondstree/internal/generator"
	"fondstree/internal/graph"

	"github.com/charmbracelet/lipgloss"
)

var (
	idStyle = lipgloss.NewStyle().
		Bold(true)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241")).
				Italic(true)

	explicitTypeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("212"))

	typeStyles = map[graph.TypeKind]lipgloss.Style{
		graph.KindFundo:            lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		graph.KindSubCollection:    lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		graph.KindSubSubCollection: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		graph.KindSeries:           lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		graph.KindUnit:             lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	}
)

// printTree writes the text tree, coloring ids and type tokens when styled.
func printTree(w io.Writer, f *graph.Forest, styled bool) error {
	if !styled {
		return generator.WriteText(w, f)
	}

	roots := make(map[*graph.Node]bool, len(f.Roots))
	for _, r := range f.Roots {
		roots[r] = true
	}

	bw := bufio.NewWriter(w)
	base := 0
	f.Walk(func(n *graph.Node) bool {
		if roots[n] {
			base = n.Depth()
		}
		bw.WriteString(styledLine(n, n.Depth()-base))
		bw.WriteByte('\n')
		return true
	})
	return bw.Flush()
}

func styledLine(n *graph.Node, level int) string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat("\t", level))
	sb.WriteString(idStyle.Render(n.ID))
	if code := n.Type.String(); code != "" {
		style, ok := typeStyles[n.Type.Kind()]
		if !ok {
			style = explicitTypeStyle
		}
		sb.WriteString(" ")
		sb.WriteString(style.Render("[" + code + "]"))
	}
	sb.WriteString(" - ")
	if n.Placeholder {
		sb.WriteString(placeholderStyle.Render(n.Title))
	} else {
		sb.WriteString(n.Title)
	}
	return sb.String()
}
