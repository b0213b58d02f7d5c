package pubchem

import (
	"context"
	"path/filepath"
	"testing"
)

func testFiles() Files {
	return Files{
		CIDMeSH:     filepath.Join("testdata", "cid-mesh.tsv"),
		SIDMeSH:     filepath.Join("testdata", "sid-mesh.tsv"),
		CIDSMILES:   filepath.Join("testdata", "cid-smiles.tsv"),
		CIDInChIKey: filepath.Join("testdata", "cid-inchikey.tsv"),
	}
}

func TestFileLookup_AllFacets(t *testing.T) {
	t.Parallel()

	l, stats, err := NewFileLookup(testFiles())
	if err != nil {
		t.Fatalf("NewFileLookup: %v", err)
	}
	if stats.Malformed != 1 {
		t.Errorf("Malformed = %d, want 1", stats.Malformed)
	}
	if stats.Names != 4 {
		t.Errorf("Names = %d, want 4", stats.Names)
	}

	// Lookup matches after normalization; the extract spells it "Bevonium".
	s, ok, err := l.Lookup(context.Background(), "  BEVONIUM ")
	if err != nil || !ok {
		t.Fatalf("Lookup = (ok=%v, err=%v)", ok, err)
	}
	if s.CompoundID == nil || *s.CompoundID != 40632 {
		t.Errorf("CompoundID = %v, want 40632", s.CompoundID)
	}
	if s.SubstanceID == nil || *s.SubstanceID != 7849231 {
		t.Errorf("SubstanceID = %v, want 7849231", s.SubstanceID)
	}
	if s.SMILES == nil {
		t.Error("SMILES missing")
	}
	if s.InChI == nil || s.InChIKey == nil {
		t.Error("InChI pair missing")
	}
	if s.InChIKey != nil && *s.InChIKey != "NYDXNILOWQXUOF-UHFFFAOYSA-M" {
		t.Errorf("InChIKey = %q", *s.InChIKey)
	}
}

func TestFileLookup_SubstanceOnly(t *testing.T) {
	t.Parallel()

	l, _, err := NewFileLookup(testFiles())
	if err != nil {
		t.Fatalf("NewFileLookup: %v", err)
	}

	s, ok, err := l.Lookup(context.Background(), "acetylnovadral")
	if err != nil || !ok {
		t.Fatalf("Lookup = (ok=%v, err=%v)", ok, err)
	}
	if s.CompoundID != nil {
		t.Errorf("CompoundID = %v, want nil", s.CompoundID)
	}
	if s.SubstanceID == nil || *s.SubstanceID != 7847193 {
		t.Errorf("SubstanceID = %v", s.SubstanceID)
	}
	if s.SMILES != nil || s.InChI != nil {
		t.Error("structure facets require a compound identifier")
	}
}

func TestFileLookup_UnknownName(t *testing.T) {
	t.Parallel()

	l, _, err := NewFileLookup(testFiles())
	if err != nil {
		t.Fatalf("NewFileLookup: %v", err)
	}

	s, ok, err := l.Lookup(context.Background(), "unobtainium")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if ok || s.HasIdentifiers() {
		t.Errorf("Lookup = (%+v, %v), want miss", s, ok)
	}
}

func TestFileLookup_OptionalFacets(t *testing.T) {
	t.Parallel()

	l, _, err := NewFileLookup(Files{CIDMeSH: filepath.Join("testdata", "cid-mesh.tsv")})
	if err != nil {
		t.Fatalf("NewFileLookup: %v", err)
	}

	s, ok, err := l.Lookup(context.Background(), "temefos")
	if err != nil || !ok {
		t.Fatalf("Lookup = (ok=%v, err=%v)", ok, err)
	}
	if s.CompoundID == nil || *s.CompoundID != 5392 {
		t.Errorf("CompoundID = %v", s.CompoundID)
	}
	if s.SMILES != nil || s.InChI != nil || s.SubstanceID != nil {
		t.Errorf("facets loaded without their files: %+v", s)
	}
}

func TestFileLookup_ContextCancelled(t *testing.T) {
	t.Parallel()

	l, _, err := NewFileLookup(testFiles())
	if err != nil {
		t.Fatalf("NewFileLookup: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := l.Lookup(ctx, "temefos"); err == nil {
		t.Error("Lookup with cancelled context must fail")
	}
}

func TestFileLookup_MissingFile(t *testing.T) {
	t.Parallel()

	if _, _, err := NewFileLookup(Files{CIDMeSH: filepath.Join("testdata", "nope.tsv")}); err == nil {
		t.Error("NewFileLookup with missing file must fail")
	}
}
