// Package descriptors parses the MeSH descriptor dump (d-file) into domain
// entities. Pure function: reader in, domain structs out.
package descriptors

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/graphbio/meshchem/internal/app/builder/record"
	"github.com/graphbio/meshchem/internal/domain"
)

// Tags of the descriptor dump this builder consumes. Everything else the
// record parser carries is ignored, which keeps yearly tag additions
// harmless.
const (
	tagHeading        = "MH"
	tagTreeNumber     = "MN"
	tagRegistryNumber = "RN"
)

// Stats holds builder statistics for logging.
type Stats struct {
	Records   int
	Malformed int
	Nameless  int
	Skipped   int // records of a different type in the same dump
}

// Parse reads a descriptor dump from disk.
func Parse(path string) ([]domain.Descriptor, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("open descriptor dump: %w", err)
	}
	defer f.Close()
	return ParseReader(f)
}

// ParseReader converts every D-type record into a Descriptor. Records
// without the mandatory heading are dropped and counted, not fatal: dumps
// carry deprecated placeholder rows.
func ParseReader(r io.Reader) ([]domain.Descriptor, Stats, error) {
	var (
		out   []domain.Descriptor
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
			return nil, stats, fmt.Errorf("read descriptor record: %w", err)
		}

		stats.Records++
		if rec.Type != "" && rec.Type != "D" {
			stats.Skipped++
			continue
		}

		name := domain.NormalizeName(rec.First(tagHeading))
		if name == "" {
			stats.Nameless++
			continue
		}

		out = append(out, domain.Descriptor{
			UI:             rec.UI,
			Name:           name,
			TreeNumbers:    append([]string(nil), rec.All(tagTreeNumber)...),
			RegistryNumber: registryNumber(rec.First(tagRegistryNumber)),
		})
	}

	return out, stats, nil
}

// registryNumber filters the provider's "0" placeholder for "no registry
// number assigned".
func registryNumber(rn string) string {
	if rn == "0" {
		return ""
	}
	return rn
}
