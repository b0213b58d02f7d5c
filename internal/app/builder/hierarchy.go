// Package builder assembles a taxonomy snapshot out of parsed dump entities:
// it resolves the descriptor hierarchy, maps chemicals onto descriptors,
// scopes the result to the requested subtrees and enriches entities with
// structure identifiers.
package builder

import (
	"strings"

	"github.com/graphbio/meshchem/internal/domain"
)

// HierarchyStats holds hierarchy-resolution statistics for logging.
type HierarchyStats struct {
	TreeNumbers int
	Edges       int
	Roots       int
	Unresolved  int // tree numbers whose parent position has no owner
	Conflicts   int // tree numbers claimed by more than one descriptor
}

// BuildHierarchy derives parent→child edges between descriptors from their
// tree numbers. A tree number's parent position is the number with its last
// dot-segment removed; single-segment numbers are roots and produce no edge.
// The result is deduplicated: descriptors linked through several tree-number
// paths share one edge. Acyclicity holds by construction, every edge goes
// from a strictly shorter tree number to a longer one.
func BuildHierarchy(descriptors []domain.Descriptor) ([]domain.Edge, HierarchyStats) {
	var stats HierarchyStats

	owner := make(map[string]string)
	for _, d := range descriptors {
		for _, tn := range d.TreeNumbers {
			if prev, ok := owner[tn]; ok && prev != d.UI {
				stats.Conflicts++
				continue
			}
			owner[tn] = d.UI
			stats.TreeNumbers++
		}
	}

	var edges []domain.Edge
	for _, d := range descriptors {
		for _, tn := range d.TreeNumbers {
			if owner[tn] != d.UI {
				continue
			}
			parent, ok := parentTreeNumber(tn)
			if !ok {
				stats.Roots++
				continue
			}
			parentUI, ok := owner[parent]
			if !ok {
				stats.Unresolved++
				continue
			}
			edges = append(edges, domain.Edge{From: parentUI, To: d.UI})
		}
	}

	edges = domain.DedupEdges(edges)
	stats.Edges = len(edges)
	return edges, stats
}

// parentTreeNumber strips the last dot-segment. Root positions have none.
func parentTreeNumber(tn string) (string, bool) {
	i := strings.LastIndexByte(tn, '.')
	if i < 0 {
		return "", false
	}
	return tn[:i], true
}
