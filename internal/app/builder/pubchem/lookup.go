// Package pubchem loads the PubChem cross-reference extracts (CID-MeSH,
// SID-MeSH, CID-SMILES, CID-InChI-Key) and answers structure lookups by
// chemical name. The extracts are plain TSV files published alongside the
// yearly dumps; only the configured ones are loaded.
package pubchem

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/graphbio/meshchem/internal/domain"
)

// Files names the extract files backing a lookup. Empty paths skip the
// corresponding facet.
type Files struct {
	CIDMeSH     string
	SIDMeSH     string
	CIDSMILES   string
	CIDInChIKey string
}

// Stats holds load statistics for logging.
type Stats struct {
	Names     int // distinct names with at least one identifier
	Malformed int // extract lines that did not parse
}

// FileLookup is an in-memory structure index built from the extract files.
// Safe for concurrent use after construction.
type FileLookup struct {
	byName map[string]ids
	smiles map[int64]string
	inchi  map[int64]inchiPair
}

type ids struct {
	cid *int64
	sid *int64
}

type inchiPair struct {
	inchi string
	key   string
}

// NewFileLookup loads every configured extract. Lines that do not parse are
// skipped and counted; a name listed several times keeps its first
// identifier, the extracts are sorted by identifier so that is the lowest.
func NewFileLookup(files Files) (*FileLookup, Stats, error) {
	l := &FileLookup{
		byName: make(map[string]ids),
		smiles: make(map[int64]string),
		inchi:  make(map[int64]inchiPair),
	}
	var stats Stats

	if files.CIDMeSH != "" {
		if err := l.loadNames(files.CIDMeSH, &stats, func(e *ids, id int64) {
			if e.cid == nil {
				e.cid = &id
			}
		}); err != nil {
			return nil, stats, fmt.Errorf("load CID-MeSH extract: %w", err)
		}
	}
	if files.SIDMeSH != "" {
		if err := l.loadNames(files.SIDMeSH, &stats, func(e *ids, id int64) {
			if e.sid == nil {
				e.sid = &id
			}
		}); err != nil {
			return nil, stats, fmt.Errorf("load SID-MeSH extract: %w", err)
		}
	}
	if files.CIDSMILES != "" {
		if err := l.loadColumns(files.CIDSMILES, &stats, func(cid int64, cols []string) {
			if _, ok := l.smiles[cid]; !ok {
				l.smiles[cid] = cols[0]
			}
		}, 1); err != nil {
			return nil, stats, fmt.Errorf("load CID-SMILES extract: %w", err)
		}
	}
	if files.CIDInChIKey != "" {
		if err := l.loadColumns(files.CIDInChIKey, &stats, func(cid int64, cols []string) {
			if _, ok := l.inchi[cid]; !ok {
				l.inchi[cid] = inchiPair{inchi: cols[0], key: cols[1]}
			}
		}, 2); err != nil {
			return nil, stats, fmt.Errorf("load CID-InChI-Key extract: %w", err)
		}
	}

	stats.Names = len(l.byName)
	return l, stats, nil
}

// Lookup returns the structure identifiers recorded for a chemical name.
// The boolean is false when the name is not in any extract.
func (l *FileLookup) Lookup(ctx context.Context, name string) (domain.Structure, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Structure{}, false, err
	}

	e, ok := l.byName[domain.NormalizeName(name)]
	if !ok {
		return domain.Structure{}, false, nil
	}

	s := domain.Structure{CompoundID: e.cid, SubstanceID: e.sid}
	if e.cid != nil {
		if sm, ok := l.smiles[*e.cid]; ok {
			s.SMILES = &sm
		}
		if p, ok := l.inchi[*e.cid]; ok {
			inchi, key := p.inchi, p.key
			s.InChI = &inchi
			s.InChIKey = &key
		}
	}
	return s, true, nil
}

// loadNames reads an "identifier<TAB>name" extract.
func (l *FileLookup) loadNames(path string, stats *Stats, assign func(*ids, int64)) error {
	return scanTSV(path, func(cols []string) {
		if len(cols) < 2 {
			stats.Malformed++
			return
		}
		id, err := strconv.ParseInt(cols[0], 10, 64)
		if err != nil {
			stats.Malformed++
			return
		}
		name := domain.NormalizeName(cols[1])
		if name == "" {
			stats.Malformed++
			return
		}
		e := l.byName[name]
		assign(&e, id)
		l.byName[name] = e
	})
}

// loadColumns reads a "cid<TAB>value..." extract with want value columns.
func (l *FileLookup) loadColumns(path string, stats *Stats, assign func(int64, []string), want int) error {
	return scanTSV(path, func(cols []string) {
		if len(cols) < want+1 {
			stats.Malformed++
			return
		}
		cid, err := strconv.ParseInt(cols[0], 10, 64)
		if err != nil {
			stats.Malformed++
			return
		}
		assign(cid, cols[1:])
	})
}

func scanTSV(path string, handle func(cols []string)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		handle(strings.Split(line, "\t"))
	}
	return scanner.Err()
}
