package domain

// Edge is an ordered pair of entity identifiers. In the descriptor DAG the
// direction is parent→child; in the chemical mapping table it is
// chemical→descriptor.
type Edge struct {
	From string
	To   string
}

// DedupEdges removes duplicate and self-loop edges, preserving first-seen
// order. Two tree-number paths between the same pair of descriptors collapse
// to a single edge.
func DedupEdges(edges []Edge) []Edge {
	seen := make(map[Edge]bool, len(edges))
	out := edges[:0:0]
	for _, e := range edges {
		if e.From == e.To {
			continue
		}
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}
