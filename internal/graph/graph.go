package graph

import (
	"sort"

	"fondstree/internal/record"
)

// Forest is the set of archival trees produced by one run.
// Nothing in it is modified after Assemble returns.
type Forest struct {
	// Roots are sorted by ID.
	Roots []*Node
	// Nodes indexes every node by FullID.
	Nodes map[string]*Node

	// Skipped lists the records left out because of their identifier.
	Skipped []*IdentifierError
	// Records is the number of input records.
	Records int
	// WithoutCanonicalID counts records carrying no canonical identifier.
	WithoutCanonicalID int
}

// BuildForest resolves canonical identifiers, synthesizes every node and
// links them. The result depends only on the set of records, not on their
// order.
func BuildForest(records []record.Record, resolver record.Resolver) *Forest {
	byID, skipped, without := collect(records, resolver)

	f := Assemble(Synthesize(byID))
	f.Skipped = skipped
	f.Records = len(records)
	f.WithoutCanonicalID = without
	return f
}

// Assemble links nodes to their parents. Nodes whose parent is unknown are
// roots. Children and roots are sorted by ID.
func Assemble(nodes map[string]*Node) *Forest {
	f := &Forest{Nodes: nodes}

	for _, node := range nodes {
		node.Children = nil
	}
	for _, node := range nodes {
		if node.ParentID != "" {
			if parent, ok := nodes[node.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		f.Roots = append(f.Roots, node)
	}

	for _, node := range nodes {
		sortByID(node.Children)
	}
	sortByID(f.Roots)
	return f
}

// Node looks up a node by its canonical identifier.
func (f *Forest) Node(fullID string) (*Node, bool) {
	if f == nil {
		return nil, false
	}
	n, ok := f.Nodes[fullID]
	return n, ok
}

// Len returns the number of nodes.
func (f *Forest) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Nodes)
}

// Walk visits nodes depth-first in rendering order. Returning false from
// fn skips the node's children.
func (f *Forest) Walk(fn func(n *Node) bool) {
	if f == nil {
		return
	}
	for _, root := range f.Roots {
		walk(root, fn)
	}
}

func walk(n *Node, fn func(n *Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		walk(child, fn)
	}
}

// collect keys records by canonical identifier, dropping records without
// one, with a malformed one, or whose identifier is already taken.
func collect(records []record.Record, resolver record.Resolver) (map[string]record.Record, []*IdentifierError, int) {
	byID := make(map[string]record.Record, len(records))
	var skipped []*IdentifierError
	without := 0

	for _, rec := range records {
		id, ok := resolver.Resolve(rec)
		if !ok {
			without++
			continue
		}
		if err := ValidateID(id); err != nil {
			skipped = append(skipped, &IdentifierError{ID: id, Source: rec.SourcePath, Err: err})
			continue
		}

		prev, dup := byID[id]
		if !dup {
			byID[id] = rec
			continue
		}
		keep, drop := prev, rec
		if preferred(rec, prev) {
			keep, drop = rec, prev
		}
		byID[id] = keep
		skipped = append(skipped, &IdentifierError{ID: id, Source: drop.SourcePath, Err: ErrDuplicateIdentifier})
	}

	sort.SliceStable(skipped, func(i, j int) bool {
		a, b := skipped[i], skipped[j]
		if a.ID != b.ID {
			return a.ID < b.ID
		}
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		return a.Error() < b.Error()
	})
	return byID, skipped, without
}

// preferred reports whether a should win over b for the same identifier.
func preferred(a, b record.Record) bool {
	if a.SourcePath != b.SourcePath {
		return a.SourcePath < b.SourcePath
	}
	at, _ := a.TitleText()
	bt, _ := b.TitleText()
	if at != bt {
		return at < bt
	}
	aty, _ := a.TypeText()
	bty, _ := b.TypeText()
	return aty < bty
}

func sortByID(nodes []*Node) {
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].ID < nodes[j].ID
	})
}
