package dataset

import (
	"archive/tar"
	"compress/gzip"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/graphbio/meshchem/internal/domain"
)

// File names inside a snapshot directory.
const (
	descriptorsFile   = "descriptors.csv"
	chemicalsFile     = "chemicals.csv"
	chemicalEdgesFile = "chemicals_to_descriptors.csv"
	dagEdgesFile      = "mesh_dag.csv"
	metadataFile      = "metadata.json"
)

var (
	descriptorColumns = []string{
		"unique_identifier", "name", "tree_numbers",
		"compound_id", "substance_id", "smiles", "inchi", "inchikey",
	}
	chemicalColumns = []string{
		"unique_identifier", "name",
		"compound_id", "substance_id", "smiles", "inchi", "inchikey",
	}
	chemicalEdgeColumns = []string{"chemical", "descriptor"}
	dagEdgeColumns      = []string{"parent", "child"}
)

// treeNumberSeparator joins a descriptor's tree numbers into one CSV cell.
const treeNumberSeparator = "|"

// Save persists the snapshot into dir: four CSV tables plus metadata.json.
// With tarball set it additionally packs the directory into <dir>.tar.gz.
func (d *Dataset) Save(dir string, tarball bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	descriptorRows := make([][]string, 0, len(d.descriptors))
	for _, desc := range d.descriptors {
		descriptorRows = append(descriptorRows, []string{
			desc.UI,
			desc.Name,
			strings.Join(desc.TreeNumbers, treeNumberSeparator),
			formatNullableInt(desc.Structure.CompoundID),
			formatNullableInt(desc.Structure.SubstanceID),
			formatNullableString(desc.Structure.SMILES),
			formatNullableString(desc.Structure.InChI),
			formatNullableString(desc.Structure.InChIKey),
		})
	}
	if err := writeTable(filepath.Join(dir, descriptorsFile), descriptorColumns, descriptorRows); err != nil {
		return err
	}

	chemicalRows := make([][]string, 0, len(d.chemicals))
	for _, chem := range d.chemicals {
		chemicalRows = append(chemicalRows, []string{
			chem.UI,
			chem.Name,
			formatNullableInt(chem.Structure.CompoundID),
			formatNullableInt(chem.Structure.SubstanceID),
			formatNullableString(chem.Structure.SMILES),
			formatNullableString(chem.Structure.InChI),
			formatNullableString(chem.Structure.InChIKey),
		})
	}
	if err := writeTable(filepath.Join(dir, chemicalsFile), chemicalColumns, chemicalRows); err != nil {
		return err
	}

	if err := writeTable(filepath.Join(dir, chemicalEdgesFile), chemicalEdgeColumns, edgeRows(d.chemicalEdges)); err != nil {
		return err
	}
	if err := writeTable(filepath.Join(dir, dagEdgesFile), dagEdgeColumns, edgeRows(d.dagEdges)); err != nil {
		return err
	}

	metaJSON, err := json.MarshalIndent(d.meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, metadataFile), append(metaJSON, '\n'), 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}

	if tarball {
		if err := packTarball(dir); err != nil {
			return fmt.Errorf("pack snapshot tarball: %w", err)
		}
	}
	return nil
}

// Load reads a snapshot directory produced by Save. Schema violations
// (missing columns, bad cells, duplicate identifiers, count mismatches)
// surface as SnapshotFormatError; Load never returns a partial Dataset.
func Load(dir string) (*Dataset, error) {
	metaJSON, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	var meta Metadata
	if err := json.Unmarshal(metaJSON, &meta); err != nil {
		return nil, &domain.SnapshotFormatError{Table: metadataFile, Reason: err.Error()}
	}

	descriptorRows, err := readTable(filepath.Join(dir, descriptorsFile), descriptorsFile, descriptorColumns)
	if err != nil {
		return nil, err
	}
	descriptors := make([]domain.Descriptor, 0, len(descriptorRows))
	for i, row := range descriptorRows {
		s, err := parseStructure(descriptorsFile, i, row[3:])
		if err != nil {
			return nil, err
		}
		var treeNumbers []string
		if row[2] != "" {
			treeNumbers = strings.Split(row[2], treeNumberSeparator)
		}
		descriptors = append(descriptors, domain.Descriptor{
			UI:          row[0],
			Name:        row[1],
			TreeNumbers: treeNumbers,
			Structure:   s,
		})
	}

	chemicalRows, err := readTable(filepath.Join(dir, chemicalsFile), chemicalsFile, chemicalColumns)
	if err != nil {
		return nil, err
	}
	chemicals := make([]domain.Chemical, 0, len(chemicalRows))
	for i, row := range chemicalRows {
		s, err := parseStructure(chemicalsFile, i, row[2:])
		if err != nil {
			return nil, err
		}
		chemicals = append(chemicals, domain.Chemical{
			UI:        row[0],
			Name:      row[1],
			Structure: s,
		})
	}

	chemicalEdgeRows, err := readTable(filepath.Join(dir, chemicalEdgesFile), chemicalEdgesFile, chemicalEdgeColumns)
	if err != nil {
		return nil, err
	}
	dagEdgeRows, err := readTable(filepath.Join(dir, dagEdgesFile), dagEdgesFile, dagEdgeColumns)
	if err != nil {
		return nil, err
	}

	want := meta.Counts
	got := TableCounts{
		Descriptors:   len(descriptors),
		Chemicals:     len(chemicals),
		ChemicalEdges: len(chemicalEdgeRows),
		DAGEdges:      len(dagEdgeRows),
	}
	if want != got {
		return nil, &domain.SnapshotFormatError{
			Table:  metadataFile,
			Reason: fmt.Sprintf("table counts %+v do not match metadata %+v", got, want),
		}
	}

	d, err := New(descriptors, chemicals, rowEdges(chemicalEdgeRows), rowEdges(dagEdgeRows), meta)
	if err != nil {
		return nil, &domain.SnapshotFormatError{Table: dir, Reason: err.Error()}
	}
	return d, nil
}

func writeTable(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write %s header: %w", filepath.Base(path), err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

func readTable(path, table string, columns []string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", table, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(columns)

	header, err := r.Read()
	if err != nil {
		return nil, &domain.SnapshotFormatError{Table: table, Reason: fmt.Sprintf("read header: %v", err)}
	}
	for i, col := range columns {
		if header[i] != col {
			return nil, &domain.SnapshotFormatError{
				Table:  table,
				Reason: fmt.Sprintf("column %d is %q, want %q", i, header[i], col),
			}
		}
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, &domain.SnapshotFormatError{Table: table, Reason: err.Error()}
	}
	return rows, nil
}

// parseStructure decodes the five trailing structure cells of a node row.
func parseStructure(table string, row int, cells []string) (domain.Structure, error) {
	cid, err := parseNullableInt(table, row, cells[0])
	if err != nil {
		return domain.Structure{}, err
	}
	sid, err := parseNullableInt(table, row, cells[1])
	if err != nil {
		return domain.Structure{}, err
	}
	return domain.Structure{
		CompoundID:  cid,
		SubstanceID: sid,
		SMILES:      parseNullableString(cells[2]),
		InChI:       parseNullableString(cells[3]),
		InChIKey:    parseNullableString(cells[4]),
	}, nil
}

func parseNullableInt(table string, row int, cell string) (*int64, error) {
	if cell == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(cell, 10, 64)
	if err != nil {
		return nil, &domain.SnapshotFormatError{
			Table:  table,
			Reason: fmt.Sprintf("row %d: numeric cell %q: %v", row+1, cell, err),
		}
	}
	return &v, nil
}

func parseNullableString(cell string) *string {
	if cell == "" {
		return nil
	}
	return &cell
}

func formatNullableInt(p *int64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatInt(*p, 10)
}

func formatNullableString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func edgeRows(edges []domain.Edge) [][]string {
	rows := make([][]string, 0, len(edges))
	for _, e := range edges {
		rows = append(rows, []string{e.From, e.To})
	}
	return rows
}

func rowEdges(rows [][]string) []domain.Edge {
	edges := make([]domain.Edge, 0, len(rows))
	for _, row := range rows {
		edges = append(edges, domain.Edge{From: row[0], To: row[1]})
	}
	return edges
}

// packTarball writes <dir>.tar.gz containing the snapshot files under the
// directory's base name.
func packTarball(dir string) error {
	out, err := os.Create(dir + ".tar.gz")
	if err != nil {
		return err
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	base := filepath.Base(dir)
	for _, name := range []string{descriptorsFile, chemicalsFile, chemicalEdgesFile, dagEdgesFile, metadataFile} {
		if err := addTarFile(tw, filepath.Join(dir, name), base+"/"+name); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}
	return out.Close()
}

func addTarFile(tw *tar.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = name

	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err = io.Copy(tw, f)
	return err
}
