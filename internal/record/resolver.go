package record

import "strings"

// DefaultPrefix is the literal prefix of the archive's reference codes.
const DefaultPrefix = "PT/"

// Resolver picks the canonical hierarchical identifier out of a record's
// identifiers. Most harvested records also carry URLs, handles and internal
// codes; only the one starting with Prefix positions the record in the tree.
type Resolver struct {
	Prefix string
}

// NewResolver returns a resolver for prefix, falling back to DefaultPrefix.
func NewResolver(prefix string) Resolver {
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultPrefix
	}
	return Resolver{Prefix: prefix}
}

// CanonicalID returns the first identifier carrying the prefix.
// Records without one are not archival units and are left out of the tree.
func (r Resolver) CanonicalID(identifiers []string) (string, bool) {
	prefix := r.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	for _, ident := range identifiers {
		ident = strings.TrimSpace(ident)
		if strings.HasPrefix(ident, prefix) {
			return ident, true
		}
	}
	return "", false
}

// Resolve is CanonicalID applied to a whole record.
func (r Resolver) Resolve(rec Record) (string, bool) {
	return r.CanonicalID(rec.Identifiers)
}
