package dataset

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphbio/meshchem/internal/domain"
)

func sampleMetadata() Metadata {
	return Metadata{
		BuildID:        uuid.MustParse("a2c9f7de-6b46-4c15-9d2e-3f1f4c8b9a01"),
		Version:        2024,
		DescriptorsURL: "https://example.org/d2024.bin",
		ChemicalsURL:   "https://example.org/c2024.bin",
		Roots:          []string{"D02", "D27"},
	}
}

// sampleDataset covers both table families: a three-level descriptor chain
// under D02, a sibling branch under D27, two mapped chemicals and one
// unmapped one.
func sampleDataset(t *testing.T) *Dataset {
	t.Helper()

	cid := int64(40632)
	smiles := "CCO"
	descriptors := []domain.Descriptor{
		{UI: "D009930", Name: "organic chemicals", TreeNumbers: []string{"D02"}},
		{UI: "D000431", Name: "alcohols", TreeNumbers: []string{"D02.033"}},
		{UI: "D000432", Name: "methanol", TreeNumbers: []string{"D02.033.375"},
			Structure: domain.Structure{CompoundID: &cid, SMILES: &smiles}},
		{UI: "D020164", Name: "chemical actions and uses", TreeNumbers: []string{"D27"}},
		{UI: "D000890", Name: "anti-infective agents", TreeNumbers: []string{"D27.505"}},
	}
	chemicals := []domain.Chemical{
		{UI: "C000002", Name: "bevonium"},
		{UI: "C000615", Name: "temefos oxon"},
		{UI: "C000012", Name: "acetylnovadral"},
	}
	chemicalEdges := []domain.Edge{
		{From: "C000002", To: "D000431"},
		{From: "C000615", To: "D000890"},
	}
	dagEdges := []domain.Edge{
		{From: "D009930", To: "D000431"},
		{From: "D000431", To: "D000432"},
		{From: "D020164", To: "D000890"},
	}

	d, err := New(descriptors, chemicals, chemicalEdges, dagEdges, sampleMetadata())
	require.NoError(t, err)
	return d
}

func TestNew_FillsCounts(t *testing.T) {
	t.Parallel()

	d := sampleDataset(t)
	assert.Equal(t, TableCounts{
		Descriptors:   5,
		Chemicals:     3,
		ChemicalEdges: 2,
		DAGEdges:      3,
	}, d.Metadata().Counts)
}

func TestNew_RejectsInvalidSnapshots(t *testing.T) {
	t.Parallel()

	meta := sampleMetadata()
	valid := []domain.Descriptor{
		{UI: "D1", Name: "one", TreeNumbers: []string{"D02"}},
		{UI: "D2", Name: "two", TreeNumbers: []string{"D02.100"}},
	}

	tests := []struct {
		name          string
		descriptors   []domain.Descriptor
		chemicals     []domain.Chemical
		chemicalEdges []domain.Edge
		dagEdges      []domain.Edge
	}{
		{
			name: "duplicate descriptor identifier",
			descriptors: []domain.Descriptor{
				{UI: "D1", Name: "one"}, {UI: "D1", Name: "one again"},
			},
		},
		{
			name:      "duplicate chemical identifier",
			chemicals: []domain.Chemical{{UI: "C1", Name: "a"}, {UI: "C1", Name: "b"}},
		},
		{
			name:        "empty identifier",
			descriptors: []domain.Descriptor{{Name: "anonymous"}},
		},
		{
			name:        "dangling hierarchy edge",
			descriptors: valid,
			dagEdges:    []domain.Edge{{From: "D1", To: "D404"}},
		},
		{
			name:          "dangling mapping edge",
			descriptors:   valid,
			chemicalEdges: []domain.Edge{{From: "C404", To: "D1"}},
		},
		{
			name:        "self-loop",
			descriptors: valid,
			dagEdges:    []domain.Edge{{From: "D1", To: "D1"}},
		},
		{
			name:        "cycle",
			descriptors: valid,
			dagEdges:    []domain.Edge{{From: "D1", To: "D2"}, {From: "D2", To: "D1"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(tt.descriptors, tt.chemicals, tt.chemicalEdges, tt.dagEdges, meta)
			assert.Error(t, err)
		})
	}
}

func TestDataset_AccessorsCopy(t *testing.T) {
	t.Parallel()

	d := sampleDataset(t)
	got := d.Descriptors()
	got[0].UI = "mutated"
	assert.Equal(t, "D009930", d.Descriptors()[0].UI)

	edges := d.DAGEdges()
	edges[0].From = "mutated"
	assert.Equal(t, "D009930", d.DAGEdges()[0].From)
}
