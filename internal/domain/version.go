package domain

import "fmt"

// Version identifies a yearly MeSH release and the source URLs of its raw
// ASCII dumps. Downloading is out of scope; the URLs are recorded into
// snapshot metadata for provenance.
type Version struct {
	Year           int
	DescriptorsURL string
	ChemicalsURL   string
}

const asciiMeshBase = "https://nlmpubs.nlm.nih.gov/projects/mesh/MESH_FILES/asciimesh"

var knownVersions = []Version{
	newVersion(2023),
	newVersion(2024),
	newVersion(2025),
}

func newVersion(year int) Version {
	return Version{
		Year:           year,
		DescriptorsURL: fmt.Sprintf("%s/d%d.bin", asciiMeshBase, year),
		ChemicalsURL:   fmt.Sprintf("%s/c%d.bin", asciiMeshBase, year),
	}
}

// VersionByYear resolves a release year to its Version.
func VersionByYear(year int) (Version, bool) {
	for _, v := range knownVersions {
		if v.Year == year {
			return v, true
		}
	}
	return Version{}, false
}
