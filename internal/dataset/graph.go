package dataset

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/graphbio/meshchem/internal/domain"
)

// ErrCycle reports that the descriptor hierarchy contains a cycle. A built
// snapshot never does; the check guards loads of hand-edited files.
var ErrCycle = errors.New("hierarchy contains a cycle")

// Graph is a directed view over the descriptor table and the hierarchy
// edges. Chemicals and mapping edges are not part of this view.
type Graph struct {
	nodes []domain.Descriptor
	edges []domain.Edge
}

// Graph exports the hierarchy view of the snapshot.
func (d *Dataset) Graph() Graph {
	return Graph{nodes: d.descriptors, edges: d.dagEdges}
}

// Nodes returns a copy of the node table.
func (g Graph) Nodes() []domain.Descriptor {
	return append([]domain.Descriptor(nil), g.nodes...)
}

// Edges returns a copy of the edge table.
func (g Graph) Edges() []domain.Edge {
	return append([]domain.Edge(nil), g.edges...)
}

// TopoSort returns the node identifiers in a parents-before-children order
// (Kahn's algorithm), or ErrCycle. Ties break by identifier so the order is
// deterministic.
func (g Graph) TopoSort() ([]string, error) {
	indegree := make(map[string]int, len(g.nodes))
	children := make(map[string][]string, len(g.nodes))
	for _, n := range g.nodes {
		indegree[n.UI] = 0
	}
	for _, e := range g.edges {
		children[e.From] = append(children[e.From], e.To)
		indegree[e.To]++
	}

	var frontier []string
	for ui, deg := range indegree {
		if deg == 0 {
			frontier = append(frontier, ui)
		}
	}
	sort.Strings(frontier)

	order := make([]string, 0, len(g.nodes))
	for len(frontier) > 0 {
		ui := frontier[0]
		frontier = frontier[1:]
		order = append(order, ui)

		var released []string
		for _, child := range children[ui] {
			indegree[child]--
			if indegree[child] == 0 {
				released = append(released, child)
			}
		}
		sort.Strings(released)
		frontier = append(frontier, released...)
	}

	if len(order) != len(g.nodes) {
		return nil, ErrCycle
	}
	return order, nil
}

// DOT serializes the graph for graphviz and similar tools. Nodes carry their
// descriptor name as label.
func (g Graph) DOT() string {
	var b strings.Builder
	b.WriteString("digraph mesh {\n")
	for _, n := range g.nodes {
		fmt.Fprintf(&b, "\t%q [label=%q];\n", n.UI, n.Name)
	}
	for _, e := range g.edges {
		fmt.Fprintf(&b, "\t%q -> %q;\n", e.From, e.To)
	}
	b.WriteString("}\n")
	return b.String()
}
