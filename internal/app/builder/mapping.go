package builder

import (
	"github.com/graphbio/meshchem/internal/domain"
)

// MappingStats holds mapping-resolution statistics for logging.
type MappingStats struct {
	Chemicals  int
	Edges      int
	Unresolved int // heading references pointing at no known descriptor
	Unmapped   int // chemicals that resolved to zero descriptors
}

// ResolveMappings turns each chemical's heading references into
// chemical→descriptor edges. A reference is either a descriptor code, matched
// by unique identifier, or a heading name, matched after normalization.
// References that resolve to nothing are dropped and counted; a chemical with
// no surviving reference stays in the dataset with zero edges.
func ResolveMappings(chemicals []domain.Chemical, descriptors []domain.Descriptor) ([]domain.Edge, MappingStats) {
	stats := MappingStats{Chemicals: len(chemicals)}

	byUI := make(map[string]string, len(descriptors))
	byName := make(map[string]string, len(descriptors))
	for _, d := range descriptors {
		byUI[d.UI] = d.UI
		byName[d.Name] = d.UI
	}

	var edges []domain.Edge
	for _, c := range chemicals {
		resolved := 0
		for _, ref := range c.HeadingMappedTo {
			ui, ok := byUI[ref]
			if !ok {
				ui, ok = byName[domain.NormalizeName(ref)]
			}
			if !ok {
				stats.Unresolved++
				continue
			}
			resolved++
			edges = append(edges, domain.Edge{From: c.UI, To: ui})
		}
		if resolved == 0 {
			stats.Unmapped++
		}
	}

	edges = domain.DedupEdges(edges)
	stats.Edges = len(edges)
	return edges, stats
}
