package domain

import (
	"errors"
	"testing"
)

func TestMalformedRecordError(t *testing.T) {
	t.Parallel()

	err := &MalformedRecordError{Line: 42, Reason: "missing UI field"}

	if got := err.Error(); got != "malformed record at line 42: missing UI field" {
		t.Fatalf("unexpected Error(): %q", got)
	}
	if !errors.Is(err, ErrMalformedRecord) {
		t.Fatal("errors.Is(err, ErrMalformedRecord) = false")
	}
}

func TestSnapshotFormatError(t *testing.T) {
	t.Parallel()

	err := &SnapshotFormatError{Table: "descriptors", Reason: "missing column name"}

	if got := err.Error(); got != "snapshot table descriptors: missing column name" {
		t.Fatalf("unexpected Error(): %q", got)
	}
	if !errors.Is(err, ErrSnapshotFormat) {
		t.Fatal("errors.Is(err, ErrSnapshotFormat) = false")
	}
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	t.Parallel()

	sentinels := []error{
		ErrMalformedRecord, ErrUnresolvedReference,
		ErrEnrichmentLookup, ErrSnapshotFormat,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel errors %d and %d should not match", i, j)
			}
		}
	}
}
