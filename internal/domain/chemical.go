package domain

// Chemical is a MeSH supplementary-chemical record (C-prefixed unique
// identifier). HeadingMappedTo carries the raw references the record uses to
// point at the descriptors that classify it; the mapping resolver turns them
// into edges. A chemical may legitimately resolve to zero descriptors.
type Chemical struct {
	UI                     string
	Name                   string
	HeadingMappedTo        []string
	Qualifiers             []string
	PharmacologicalActions []string
	RegistryNumber         string
	Structure              Structure
}
