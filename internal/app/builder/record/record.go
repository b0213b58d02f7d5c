// Package record parses the MeSH ASCII record format: records delimited by a
// terminator line, each a sequence of "TAG = value" lines where tags may
// repeat. The tag vocabulary is configuration, not hardcoded semantics; the
// upstream provider owns the format and drifts it across yearly dumps.
package record

import "strings"

// Record is one raw MeSH record: a type marker, a unique identifier, and the
// remaining tag/value pairs in occurrence order. Unknown tags are kept.
type Record struct {
	Type   string
	UI     string
	Fields map[string][]string
}

// Has reports whether the record carries at least one value for tag.
func (r Record) Has(tag string) bool {
	return len(r.Fields[tag]) > 0
}

// First returns the first value of tag, or "" when absent. Single-valued
// fields take the first occurrence; later duplicates are ignored.
func (r Record) First(tag string) string {
	if vs := r.Fields[tag]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// All returns every value of tag in occurrence order.
func (r Record) All(tag string) []string {
	return r.Fields[tag]
}

// validUI reports whether ui is the record type letter followed by digits
// (e.g. "D000040", "C000002").
func validUI(recordType, ui string) bool {
	if recordType == "" || !strings.HasPrefix(ui, recordType) {
		return false
	}
	rest := ui[len(recordType):]
	if rest == "" {
		return false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
