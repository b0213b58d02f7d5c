package dataset

import (
	"strings"

	"github.com/graphbio/meshchem/internal/domain"
)

// Filter scopes the snapshot to the requested root subtrees and returns a
// new Dataset; the receiver is untouched. A descriptor survives when at
// least one of its tree numbers is included; without the recursive flag only
// positions at a root or one segment below it count. Edges survive only when
// both endpoints do, and chemicals without a surviving mapping edge are
// dropped unless the settings keep them. Filtering with the same settings
// twice produces an identical result.
func (d *Dataset) Filter(settings domain.Settings) (*Dataset, error) {
	keptDescriptors := make([]domain.Descriptor, 0, len(d.descriptors))
	keptIDs := make(map[string]bool)
	for _, desc := range d.descriptors {
		for _, tn := range desc.TreeNumbers {
			if includeTreeNumber(tn, settings.Roots, settings.Recursive) {
				keptDescriptors = append(keptDescriptors, desc)
				keptIDs[desc.UI] = true
				break
			}
		}
	}

	keptDAG := make([]domain.Edge, 0, len(d.dagEdges))
	for _, e := range d.dagEdges {
		if keptIDs[e.From] && keptIDs[e.To] {
			keptDAG = append(keptDAG, e)
		}
	}

	keptChemicalEdges := make([]domain.Edge, 0, len(d.chemicalEdges))
	mapped := make(map[string]bool)
	for _, e := range d.chemicalEdges {
		if keptIDs[e.To] {
			keptChemicalEdges = append(keptChemicalEdges, e)
			mapped[e.From] = true
		}
	}

	keptChemicals := make([]domain.Chemical, 0, len(d.chemicals))
	keptChemicalIDs := make(map[string]bool)
	for _, chem := range d.chemicals {
		if mapped[chem.UI] || settings.KeepUnmappedChemicals {
			keptChemicals = append(keptChemicals, chem)
			keptChemicalIDs[chem.UI] = true
		}
	}
	// An edge whose chemical was dropped by an earlier, stricter pass cannot
	// survive; re-check so repeated filtering stays consistent.
	finalChemicalEdges := keptChemicalEdges[:0]
	for _, e := range keptChemicalEdges {
		if keptChemicalIDs[e.From] {
			finalChemicalEdges = append(finalChemicalEdges, e)
		}
	}

	meta := d.meta
	meta.Roots = append([]string(nil), settings.Roots...)
	meta.Recursive = settings.Recursive
	meta.KeepUnmapped = settings.KeepUnmappedChemicals

	return New(keptDescriptors, keptChemicals, finalChemicalEdges, keptDAG, meta)
}

// includeTreeNumber reports whether tn falls inside one of the root
// subtrees. Non-recursive inclusion stops one segment below the root.
func includeTreeNumber(tn string, roots []string, recursive bool) bool {
	for _, root := range roots {
		if tn == root {
			return true
		}
		if !strings.HasPrefix(tn, root+".") {
			continue
		}
		if recursive {
			return true
		}
		rest := tn[len(root)+1:]
		if !strings.ContainsRune(rest, '.') {
			return true
		}
	}
	return false
}
