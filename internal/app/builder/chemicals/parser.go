// Package chemicals parses the MeSH supplementary-chemical dump (c-file)
// into domain entities. Pure function: reader in, domain structs out.
package chemicals

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/graphbio/meshchem/internal/app/builder/record"
	"github.com/graphbio/meshchem/internal/domain"
)

// Tags of the supplementary-chemical dump this builder consumes.
const (
	tagName           = "NM"
	tagHeadingMapped  = "HM"
	tagPharmacology   = "PA"
	tagRegistryNumber = "RN"
)

// Stats holds builder statistics for logging.
type Stats struct {
	Records   int
	Malformed int
	Nameless  int
	Skipped   int
}

// Parse reads a supplementary-chemical dump from disk.
func Parse(path string) ([]domain.Chemical, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("open chemical dump: %w", err)
	}
	defer f.Close()
	return ParseReader(f)
}

// ParseReader converts every C-type record into a Chemical. Nameless
// records are dropped and counted. Q-prefixed heading references become
// qualifiers; everything else (descriptor codes or plain heading names)
// feeds the mapping resolver.
func ParseReader(r io.Reader) ([]domain.Chemical, Stats, error) {
	var (
		out   []domain.Chemical
		stats Stats
	)

	reader := record.NewReader(r)
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if errors.Is(err, domain.ErrMalformedRecord) {
				stats.Malformed++
				continue
			}
			return nil, stats, fmt.Errorf("read chemical record: %w", err)
		}

		stats.Records++
		if rec.Type != "" && rec.Type != "C" {
			stats.Skipped++
			continue
		}

		name := domain.NormalizeName(rec.First(tagName))
		if name == "" {
			stats.Nameless++
			continue
		}

		chem := domain.Chemical{
			UI:             rec.UI,
			Name:           name,
			RegistryNumber: registryNumber(rec.First(tagRegistryNumber)),
		}

		for _, hm := range rec.All(tagHeadingMapped) {
			for _, heading := range strings.Split(hm, "/") {
				ref := cleanHeading(heading)
				if ref == "" {
					continue
				}
				if isQualifierCode(ref) {
					chem.Qualifiers = append(chem.Qualifiers, ref)
				} else {
					chem.HeadingMappedTo = append(chem.HeadingMappedTo, ref)
				}
			}
		}

		for _, pa := range rec.All(tagPharmacology) {
			if action := cleanHeading(pa); action != "" {
				chem.PharmacologicalActions = append(chem.PharmacologicalActions, action)
			}
		}

		out = append(out, chem)
	}

	return out, stats, nil
}

// cleanHeading strips the "starred main heading" marker and any trailing
// dash-separated annotation from an HM or PA value.
func cleanHeading(h string) string {
	if i := strings.IndexByte(h, '-'); i >= 0 {
		h = h[:i]
	}
	return strings.Trim(h, " *")
}

// isQualifierCode reports whether ref is a Q-prefixed MeSH code.
func isQualifierCode(ref string) bool {
	if len(ref) < 2 || ref[0] != 'Q' {
		return false
	}
	for _, r := range ref[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func registryNumber(rn string) string {
	if rn == "0" {
		return ""
	}
	return rn
}
