package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	// ErrMalformedRecord marks a raw record missing its mandatory
	// identifier. Fatal for that record only; builds count and skip.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrUnresolvedReference marks a tree number or heading-mapped-to
	// reference with no owner in the loaded entity universe. Never fatal.
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrEnrichmentLookup marks a failed external structure lookup after
	// retries are exhausted. Never fatal; fields stay empty.
	ErrEnrichmentLookup = errors.New("enrichment lookup failed")

	// ErrSnapshotFormat marks a persisted snapshot failing schema
	// validation on load. Fatal: no Dataset is returned.
	ErrSnapshotFormat = errors.New("invalid snapshot format")

	// ErrSnapshotExists marks an attempt to store a snapshot whose build
	// identifier is already present in the database.
	ErrSnapshotExists = errors.New("snapshot already stored")
)

// MalformedRecordError describes a record rejected by the record parser.
type MalformedRecordError struct {
	Line   int
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record at line %d: %s", e.Line, e.Reason)
}

func (e *MalformedRecordError) Unwrap() error { return ErrMalformedRecord }

// SnapshotFormatError describes a snapshot table failing validation on load.
type SnapshotFormatError struct {
	Table  string
	Reason string
}

func (e *SnapshotFormatError) Error() string {
	return fmt.Sprintf("snapshot table %s: %s", e.Table, e.Reason)
}

func (e *SnapshotFormatError) Unwrap() error { return ErrSnapshotFormat }
