// Package dataset holds the assembled taxonomy snapshot: two node tables,
// two edge tables and build metadata. A Dataset is immutable after
// construction; filtering returns a new value, and the persisted form
// round-trips through Save and Load.
package dataset

import (
	"errors"
	"fmt"

	"github.com/graphbio/meshchem/internal/domain"
)

// Dataset is an immutable taxonomy snapshot. Construct one with New or Load;
// accessors hand out copies so callers cannot mutate the tables.
type Dataset struct {
	descriptors   []domain.Descriptor
	chemicals     []domain.Chemical
	chemicalEdges []domain.Edge
	dagEdges      []domain.Edge
	meta          Metadata
}

// New assembles and validates a snapshot. Identifier uniqueness, edge
// endpoint integrity and hierarchy acyclicity are all checked; a Dataset
// that fails any of them is never returned.
func New(
	descriptors []domain.Descriptor,
	chemicals []domain.Chemical,
	chemicalEdges []domain.Edge,
	dagEdges []domain.Edge,
	meta Metadata,
) (*Dataset, error) {
	d := &Dataset{
		descriptors:   append([]domain.Descriptor(nil), descriptors...),
		chemicals:     append([]domain.Chemical(nil), chemicals...),
		chemicalEdges: append([]domain.Edge(nil), chemicalEdges...),
		dagEdges:      append([]domain.Edge(nil), dagEdges...),
		meta:          meta,
	}
	d.meta.Counts = TableCounts{
		Descriptors:   len(d.descriptors),
		Chemicals:     len(d.chemicals),
		ChemicalEdges: len(d.chemicalEdges),
		DAGEdges:      len(d.dagEdges),
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Descriptors returns a copy of the descriptor table.
func (d *Dataset) Descriptors() []domain.Descriptor {
	return append([]domain.Descriptor(nil), d.descriptors...)
}

// Chemicals returns a copy of the chemical table.
func (d *Dataset) Chemicals() []domain.Chemical {
	return append([]domain.Chemical(nil), d.chemicals...)
}

// ChemicalEdges returns a copy of the chemical→descriptor edge table.
func (d *Dataset) ChemicalEdges() []domain.Edge {
	return append([]domain.Edge(nil), d.chemicalEdges...)
}

// DAGEdges returns a copy of the descriptor-hierarchy edge table.
func (d *Dataset) DAGEdges() []domain.Edge {
	return append([]domain.Edge(nil), d.dagEdges...)
}

// Metadata returns the build metadata.
func (d *Dataset) Metadata() Metadata { return d.meta }

// validate enforces the structural invariants of a snapshot.
func (d *Dataset) validate() error {
	descriptorIDs := make(map[string]bool, len(d.descriptors))
	for _, desc := range d.descriptors {
		if desc.UI == "" {
			return fmt.Errorf("descriptor %q: %w", desc.Name, errEmptyIdentifier)
		}
		if descriptorIDs[desc.UI] {
			return fmt.Errorf("descriptor %s: %w", desc.UI, errDuplicateIdentifier)
		}
		descriptorIDs[desc.UI] = true
	}

	chemicalIDs := make(map[string]bool, len(d.chemicals))
	for _, chem := range d.chemicals {
		if chem.UI == "" {
			return fmt.Errorf("chemical %q: %w", chem.Name, errEmptyIdentifier)
		}
		if chemicalIDs[chem.UI] {
			return fmt.Errorf("chemical %s: %w", chem.UI, errDuplicateIdentifier)
		}
		chemicalIDs[chem.UI] = true
	}

	for _, e := range d.dagEdges {
		if e.From == e.To {
			return fmt.Errorf("hierarchy edge %s→%s: %w", e.From, e.To, errSelfLoop)
		}
		if !descriptorIDs[e.From] || !descriptorIDs[e.To] {
			return fmt.Errorf("hierarchy edge %s→%s: %w", e.From, e.To, errDanglingEdge)
		}
	}
	for _, e := range d.chemicalEdges {
		if !chemicalIDs[e.From] || !descriptorIDs[e.To] {
			return fmt.Errorf("mapping edge %s→%s: %w", e.From, e.To, errDanglingEdge)
		}
	}

	if _, err := d.Graph().TopoSort(); err != nil {
		return fmt.Errorf("hierarchy: %w", err)
	}
	return nil
}

var (
	errEmptyIdentifier     = errors.New("empty unique identifier")
	errDuplicateIdentifier = errors.New("duplicate unique identifier")
	errSelfLoop            = errors.New("self-loop edge")
	errDanglingEdge        = errors.New("edge endpoint not in node tables")
)
