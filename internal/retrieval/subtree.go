package retrieval

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"fondstree/internal/graph"
)

var ErrUnknownRoot = errors.New("unknown root identifier")

// Config controls which part of a forest is selected.
type Config struct {
	// RootIDs are canonical identifiers whose subtrees are kept.
	// Empty keeps every root.
	RootIDs []string
	// MaxDepth limits levels below each selected root, counting the root
	// itself as 1. Zero or less means unlimited.
	MaxDepth int
}

// Select returns a pruned copy of f. The input forest is never modified.
// Selected subtrees keep their ParentID so descriptors still point to the
// real parent. A root nested inside another selected root is folded into it.
func Select(f *graph.Forest, cfg Config) (*graph.Forest, error) {
	if f == nil {
		return &graph.Forest{Nodes: map[string]*graph.Node{}}, nil
	}

	seeds, err := seedNodes(f, cfg.RootIDs)
	if err != nil {
		return nil, err
	}

	out := &graph.Forest{
		Nodes:              make(map[string]*graph.Node),
		Skipped:            f.Skipped,
		Records:            f.Records,
		WithoutCanonicalID: f.WithoutCanonicalID,
	}
	for _, seed := range seeds {
		out.Roots = append(out.Roots, copySubtree(seed, 1, cfg.MaxDepth, out.Nodes))
	}
	sort.Slice(out.Roots, func(i, j int) bool {
		if out.Roots[i].ID == out.Roots[j].ID {
			return out.Roots[i].FullID < out.Roots[j].FullID
		}
		return out.Roots[i].ID < out.Roots[j].ID
	})
	return out, nil
}

func seedNodes(f *graph.Forest, rootIDs []string) ([]*graph.Node, error) {
	if len(rootIDs) == 0 {
		return f.Roots, nil
	}

	ids := make([]string, 0, len(rootIDs))
	seen := make(map[string]bool)
	for _, id := range rootIDs {
		id = strings.Trim(strings.TrimSpace(id), graph.Separator)
		if id == "" || seen[id] {
			continue
		}
		if _, ok := f.Node(id); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRoot, id)
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var seeds []*graph.Node
	for _, id := range ids {
		if coveredBy(id, seen) {
			continue
		}
		n, _ := f.Node(id)
		seeds = append(seeds, n)
	}
	return seeds, nil
}

// coveredBy reports whether an ancestor of id is also selected.
func coveredBy(id string, selected map[string]bool) bool {
	for i := strings.LastIndex(id, graph.Separator); i > 0; i = strings.LastIndex(id, graph.Separator) {
		id = id[:i]
		if selected[id] {
			return true
		}
	}
	return false
}

func copySubtree(n *graph.Node, level, maxDepth int, nodes map[string]*graph.Node) *graph.Node {
	c := *n
	c.Children = nil
	nodes[c.FullID] = &c

	if maxDepth > 0 && level >= maxDepth {
		return &c
	}
	for _, child := range n.Children {
		c.Children = append(c.Children, copySubtree(child, level+1, maxDepth, nodes))
	}
	return &c
}
