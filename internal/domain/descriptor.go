package domain

// Structure holds the chemical-structure identifiers an entity may acquire
// during enrichment. All fields are nullable: a missing value means the
// external lookup had no data, which is a valid "structure unknown" state,
// not an error.
type Structure struct {
	CompoundID  *int64
	SubstanceID *int64
	SMILES      *string
	InChI       *string
	InChIKey    *string
}

// HasIdentifiers reports whether any structure field is populated.
func (s Structure) HasIdentifiers() bool {
	return s.CompoundID != nil || s.SubstanceID != nil ||
		s.SMILES != nil || s.InChI != nil || s.InChIKey != nil
}

// Descriptor is a MeSH descriptor record (D-prefixed unique identifier).
// A descriptor owns one or more tree numbers, each encoding a position in
// the hierarchy; one descriptor may sit at several positions at once.
type Descriptor struct {
	UI             string
	Name           string
	TreeNumbers    []string
	RegistryNumber string
	Structure      Structure
}

// OwnsTreeNumber reports whether tn is one of the descriptor's positions.
func (d Descriptor) OwnsTreeNumber(tn string) bool {
	for _, t := range d.TreeNumbers {
		if t == tn {
			return true
		}
	}
	return false
}
