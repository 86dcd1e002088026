package graph

import (
	"strings"

	"fondstree/internal/record"
)

// Synthesize materializes a node for every prefix of every canonical
// identifier in records. Ancestors without a record of their own become
// placeholders.
//
// A node's attributes come only from the record stored at its exact
// identifier, so the result does not depend on map iteration order or on
// which descendant caused the node to be created.
func Synthesize(records map[string]record.Record) map[string]*Node {
	nodes := make(map[string]*Node, len(records))
	for fullID := range records {
		ensureChain(nodes, records, fullID)
	}
	return nodes
}

// ensureChain creates the missing nodes from the root down to fullID.
// Existing nodes are left untouched.
func ensureChain(nodes map[string]*Node, records map[string]record.Record, fullID string) {
	parts := strings.Split(fullID, Separator)
	for depth := 1; depth <= len(parts); depth++ {
		subID := strings.Join(parts[:depth], Separator)
		if _, ok := nodes[subID]; ok {
			continue
		}
		nodes[subID] = newNode(parts[:depth], records)
	}
}

func newNode(parts []string, records map[string]record.Record) *Node {
	depth := len(parts)
	fullID := strings.Join(parts, Separator)
	id := parts[depth-1]

	n := &Node{
		ID:          id,
		FullID:      fullID,
		Title:       "(" + id + ")",
		Type:        InferType(depth),
		Placeholder: true,
	}
	if depth > 1 {
		n.ParentID = strings.Join(parts[:depth-1], Separator)
	}

	rec, ok := records[fullID]
	if !ok {
		return n
	}
	n.Placeholder = false
	if title, ok := rec.TitleText(); ok {
		n.Title = title
	}
	if code, ok := rec.TypeText(); ok {
		n.Type = Explicit(code)
	}
	return n
}
