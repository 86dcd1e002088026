package graph

import "strings"

// Separator joins the segments of a canonical identifier.
const Separator = "/"

// TypeKind enumerates the classification a node can carry.
type TypeKind int

const (
	KindFundo TypeKind = iota + 1
	KindSubCollection
	KindSubSubCollection
	KindSeries
	KindUnit
	KindExplicit
)

// TypeCode classifies a node. It is either one of the five levels inferred
// from depth or an explicit code copied from the node's record.
type TypeCode struct {
	kind TypeKind
	code string
}

var (
	Fundo            = TypeCode{kind: KindFundo}
	SubCollection    = TypeCode{kind: KindSubCollection}
	SubSubCollection = TypeCode{kind: KindSubSubCollection}
	Series           = TypeCode{kind: KindSeries}
	Unit             = TypeCode{kind: KindUnit}
)

// Explicit wraps a type code taken verbatim from a record.
func Explicit(code string) TypeCode {
	return TypeCode{kind: KindExplicit, code: code}
}

// InferType maps a 1-indexed depth to the level it denotes.
func InferType(depth int) TypeCode {
	switch {
	case depth <= 1:
		return Fundo
	case depth == 2:
		return SubCollection
	case depth == 3:
		return SubSubCollection
	case depth == 4:
		return Series
	default:
		return Unit
	}
}

func (t TypeCode) Kind() TypeKind { return t.kind }

func (t TypeCode) IsExplicit() bool { return t.kind == KindExplicit }

// String returns the token written by every renderer.
func (t TypeCode) String() string {
	switch t.kind {
	case KindFundo:
		return "F"
	case KindSubCollection:
		return "SC"
	case KindSubSubCollection:
		return "SSC"
	case KindSeries:
		return "SR"
	case KindUnit:
		return "UI"
	case KindExplicit:
		return t.code
	default:
		return ""
	}
}

// Label is the human readable level name.
func (t TypeCode) Label() string {
	switch t.kind {
	case KindFundo:
		return "Fundo"
	case KindSubCollection:
		return "Sub-collection"
	case KindSubSubCollection:
		return "Sub-sub-collection"
	case KindSeries:
		return "Series"
	case KindUnit:
		return "Unit"
	case KindExplicit:
		return t.code
	default:
		return ""
	}
}

// Node is one level of the archival hierarchy.
type Node struct {
	ID       string // last path segment
	FullID   string // canonical identifier from the root
	Title    string
	Type     TypeCode
	ParentID string // empty for roots

	// Placeholder is set when no record exists at FullID.
	Placeholder bool

	// Children is sorted by ID once the forest is assembled.
	Children []*Node
}

// Depth is the number of segments in FullID.
func (n *Node) Depth() int {
	return strings.Count(n.FullID, Separator) + 1
}

func (n *Node) IsRoot() bool {
	return n.ParentID == ""
}
