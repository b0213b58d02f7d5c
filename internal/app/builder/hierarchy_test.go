package builder

import (
	"reflect"
	"testing"

	"github.com/graphbio/meshchem/internal/domain"
)

func TestBuildHierarchy(t *testing.T) {
	t.Parallel()

	descriptors := []domain.Descriptor{
		{UI: "D000900", Name: "anti-bacterial agents", TreeNumbers: []string{"D27.505.954.122.085"}},
		{UI: "D009930", Name: "organic chemicals", TreeNumbers: []string{"D02"}},
		{UI: "D000432", Name: "methanol", TreeNumbers: []string{"D02.033.375"}},
		{UI: "D000431", Name: "alcohols", TreeNumbers: []string{"D02.033"}},
	}

	edges, stats := BuildHierarchy(descriptors)

	want := []domain.Edge{
		{From: "D000431", To: "D000432"},
		{From: "D009930", To: "D000431"},
	}
	if !reflect.DeepEqual(edges, want) {
		t.Errorf("edges = %v, want %v", edges, want)
	}
	if stats.Roots != 1 {
		t.Errorf("Roots = %d, want 1 (D02)", stats.Roots)
	}
	// D27.505.954.122.085 has no parent position in this set; same for the
	// intermediate D02.033.375 ancestors that are present, so only the
	// anti-bacterial agents chain is unresolved.
	if stats.Unresolved != 1 {
		t.Errorf("Unresolved = %d, want 1", stats.Unresolved)
	}
	if stats.Edges != len(want) {
		t.Errorf("Edges = %d, want %d", stats.Edges, len(want))
	}
}

func TestBuildHierarchy_MultiplePathsCollapse(t *testing.T) {
	t.Parallel()

	descriptors := []domain.Descriptor{
		{UI: "D1", Name: "parent", TreeNumbers: []string{"D02.100", "D03.200"}},
		{UI: "D2", Name: "child", TreeNumbers: []string{"D02.100.500", "D03.200.500"}},
	}

	edges, stats := BuildHierarchy(descriptors)
	if len(edges) != 1 || edges[0] != (domain.Edge{From: "D1", To: "D2"}) {
		t.Fatalf("edges = %v, want single D1→D2", edges)
	}
	if stats.Edges != 1 {
		t.Errorf("Edges = %d, want 1", stats.Edges)
	}
}

func TestBuildHierarchy_ConflictingOwnership(t *testing.T) {
	t.Parallel()

	descriptors := []domain.Descriptor{
		{UI: "D1", Name: "first claimant", TreeNumbers: []string{"D02.100"}},
		{UI: "D2", Name: "second claimant", TreeNumbers: []string{"D02.100"}},
		{UI: "D3", Name: "child", TreeNumbers: []string{"D02.100.500"}},
	}

	edges, stats := BuildHierarchy(descriptors)
	if stats.Conflicts != 1 {
		t.Errorf("Conflicts = %d, want 1", stats.Conflicts)
	}
	// First claimant keeps the position.
	want := []domain.Edge{{From: "D1", To: "D3"}}
	if !reflect.DeepEqual(edges, want) {
		t.Errorf("edges = %v, want %v", edges, want)
	}
}

func TestBuildHierarchy_Empty(t *testing.T) {
	t.Parallel()

	edges, stats := BuildHierarchy(nil)
	if len(edges) != 0 {
		t.Errorf("edges = %v, want none", edges)
	}
	if stats != (HierarchyStats{}) {
		t.Errorf("stats = %+v, want zero", stats)
	}
}

func TestParentTreeNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"D02.033.375", "D02.033", true},
		{"D02.033", "D02", true},
		{"D02", "", false},
	}
	for _, tt := range tests {
		got, ok := parentTreeNumber(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("parentTreeNumber(%q) = (%q, %v), want (%q, %v)",
				tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
