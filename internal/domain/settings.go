package domain

import (
	"fmt"
	"sort"
	"strings"
)

// chemicalsAndDrugsRoots maps the named sub-branches of the MeSH
// "Chemicals and Drugs" category to their root tree-number codes.
var chemicalsAndDrugsRoots = map[string]string{
	"Inorganic Chemicals":       "D01",
	"Organic Chemicals":         "D02",
	"Heterocyclic Compounds":    "D03",
	"Polycyclic Compounds":      "D04",
	"Macromolecular Substances": "D05",
	"Hormones, Hormone Substitutes, and Hormone Antagonists": "D06",
	"Enzymes and Coenzymes":                        "D08",
	"Carbohydrates":                                "D09",
	"Lipids":                                       "D10",
	"Amino Acids, Peptides, and Proteins":          "D12",
	"Nucleic Acids, Nucleotides, and Nucleosides":  "D13",
	"Complex Mixtures":                             "D20",
	"Biological Factors":                           "D23",
	"Biomedical and Dental Materials":              "D25",
	"Pharmaceutical Preparations":                  "D26",
	"Chemical Actions and Uses":                    "D27",
}

// Settings is the immutable build configuration consumed by the pipeline and
// the filter engine. Zero value is not usable; construct explicitly and call
// Validate before building.
type Settings struct {
	// Version selects a known MeSH release year.
	Version int

	// Roots is the set of included root tree-number prefixes (e.g. "D02").
	Roots []string

	// Recursive keeps entire sub-branches under each included root. When
	// false, only the root descriptor and its immediate children are kept.
	Recursive bool

	IncludeSMILES bool
	IncludeInChI  bool

	// KeepUnmappedChemicals retains chemicals whose every heading-mapped-to
	// reference fell outside the included scope. Default policy drops them.
	KeepUnmappedChemicals bool

	Verbose bool
}

// Validate checks that the version is a known release and every root is a
// recognized Chemicals-and-Drugs code.
func (s Settings) Validate() error {
	if _, ok := VersionByYear(s.Version); !ok {
		return fmt.Errorf("unknown MeSH version %d", s.Version)
	}
	if len(s.Roots) == 0 {
		return fmt.Errorf("no root tree-number prefixes included")
	}
	known := make(map[string]bool, len(chemicalsAndDrugsRoots))
	for _, code := range chemicalsAndDrugsRoots {
		known[code] = true
	}
	for _, root := range s.Roots {
		if !known[root] {
			return fmt.Errorf("unknown root code %q", root)
		}
	}
	return nil
}

// RootCodeByName resolves a named sub-branch ("Organic Chemicals") to its
// root code ("D02").
func RootCodeByName(name string) (string, bool) {
	code, ok := chemicalsAndDrugsRoots[name]
	return code, ok
}

// AllChemicalsAndDrugsRoots returns every root code of the Chemicals and
// Drugs category, sorted.
func AllChemicalsAndDrugsRoots() []string {
	codes := make([]string, 0, len(chemicalsAndDrugsRoots))
	for _, code := range chemicalsAndDrugsRoots {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// ParseRoots parses a comma-separated list of root codes or sub-branch
// names. "all" (or an empty string) selects every root.
func ParseRoots(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return AllChemicalsAndDrugsRoots(), nil
	}

	seen := make(map[string]bool)
	var roots []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		code := part
		if byName, ok := RootCodeByName(part); ok {
			code = byName
		}
		if seen[code] {
			continue
		}
		seen[code] = true
		roots = append(roots, code)
	}
	sort.Strings(roots)
	if len(roots) == 0 {
		return nil, fmt.Errorf("no recognized roots in %q", raw)
	}
	return roots, nil
}
