package dataset

import (
	"time"

	"github.com/google/uuid"

	"github.com/graphbio/meshchem/internal/domain"
)

// TableCounts records the size of every snapshot table at save time. Load
// verifies the actual tables against these numbers.
type TableCounts struct {
	Descriptors   int `json:"descriptors"`
	Chemicals     int `json:"chemicals"`
	ChemicalEdges int `json:"chemicals_to_descriptors"`
	DAGEdges      int `json:"mesh_dag"`
}

// Metadata describes how a snapshot was produced.
type Metadata struct {
	BuildID        uuid.UUID   `json:"build_id"`
	Version        int         `json:"version"`
	DescriptorsURL string      `json:"descriptors_url"`
	ChemicalsURL   string      `json:"chemicals_url"`
	Roots          []string    `json:"roots"`
	Recursive      bool        `json:"recursive"`
	IncludeSMILES  bool        `json:"include_smiles"`
	IncludeInChI   bool        `json:"include_inchi"`
	KeepUnmapped   bool        `json:"keep_unmapped_chemicals"`
	BuiltAt        time.Time   `json:"built_at"`
	Counts         TableCounts `json:"counts"`
}

// NewMetadata stamps a fresh build identity from the settings and release
// the pipeline ran with. Table counts are filled in by New.
func NewMetadata(settings domain.Settings, version domain.Version) Metadata {
	return Metadata{
		BuildID:        uuid.New(),
		Version:        version.Year,
		DescriptorsURL: version.DescriptorsURL,
		ChemicalsURL:   version.ChemicalsURL,
		Roots:          append([]string(nil), settings.Roots...),
		Recursive:      settings.Recursive,
		IncludeSMILES:  settings.IncludeSMILES,
		IncludeInChI:   settings.IncludeInChI,
		KeepUnmapped:   settings.KeepUnmappedChemicals,
		BuiltAt:        time.Now().UTC().Truncate(time.Second),
	}
}
