package record

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/graphbio/meshchem/internal/domain"
)

// Options configures the tag vocabulary of a dump.
type Options struct {
	// Terminator opens a new record. Default "*NEWRECORD".
	Terminator string
	// TypeTag carries the record type marker. Default "RECTYPE".
	TypeTag string
	// IDTag carries the unique identifier. Default "UI".
	IDTag string
}

func (o Options) withDefaults() Options {
	if o.Terminator == "" {
		o.Terminator = "*NEWRECORD"
	}
	if o.TypeTag == "" {
		o.TypeTag = "RECTYPE"
	}
	if o.IDTag == "" {
		o.IDTag = "UI"
	}
	return o
}

// Reader reads records one at a time from a dump. Read returns io.EOF after
// the last record. A record missing its identifier yields a
// *domain.MalformedRecordError; the reader stays usable, so callers can
// count the bad record and keep going. The stream is not seekable; restart
// by constructing a new Reader over a fresh source.
type Reader struct {
	scanner *bufio.Scanner
	opts    Options
	line    int
	started bool
	eof     bool
}

// NewReader wraps r with default MeSH tag options.
func NewReader(r io.Reader) *Reader {
	return NewReaderWithOptions(r, Options{})
}

// NewReaderWithOptions wraps r with an explicit tag vocabulary.
func NewReaderWithOptions(r io.Reader, opts Options) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{scanner: scanner, opts: opts.withDefaults()}
}

// Read returns the next record. The error is io.EOF at end of input, a
// *domain.MalformedRecordError for a record without a valid identifier, or
// the underlying scan error.
func (r *Reader) Read() (Record, error) {
	if r.eof {
		return Record{}, io.EOF
	}

	rec := Record{Fields: make(map[string][]string)}
	startLine := r.line + 1
	seen := false

	for r.scanner.Scan() {
		r.line++
		line := strings.TrimSpace(r.scanner.Text())

		if line == "" {
			continue
		}

		if line == r.opts.Terminator {
			if !r.started {
				// First terminator in the file; the record starts here.
				r.started = true
				startLine = r.line
				continue
			}
			if !seen {
				// Consecutive terminators: empty record, skip it.
				startLine = r.line
				continue
			}
			return r.finish(rec, startLine)
		}

		if !r.started {
			// Preamble before the first terminator is ignored.
			continue
		}

		tag, value, ok := splitField(line)
		if !ok {
			// Tolerate stray lines; the format owner may add free text.
			continue
		}
		seen = true
		rec.Fields[tag] = append(rec.Fields[tag], value)
	}

	r.eof = true
	if err := r.scanner.Err(); err != nil {
		return Record{}, fmt.Errorf("scan dump: %w", err)
	}
	if seen {
		return r.finish(rec, startLine)
	}
	return Record{}, io.EOF
}

// finish promotes the type and identifier tags and validates the identifier.
func (r *Reader) finish(rec Record, startLine int) (Record, error) {
	rec.Type = rec.First(r.opts.TypeTag)
	rec.UI = rec.First(r.opts.IDTag)
	delete(rec.Fields, r.opts.TypeTag)
	delete(rec.Fields, r.opts.IDTag)

	if rec.UI == "" {
		return Record{}, &domain.MalformedRecordError{
			Line:   startLine,
			Reason: fmt.Sprintf("missing %s field", r.opts.IDTag),
		}
	}
	if rec.Type != "" && !validUI(rec.Type, rec.UI) {
		return Record{}, &domain.MalformedRecordError{
			Line:   startLine,
			Reason: fmt.Sprintf("identifier %q does not match record type %q", rec.UI, rec.Type),
		}
	}
	return rec, nil
}

// splitField splits a "TAG = value" line. Both sides must be non-empty.
func splitField(line string) (tag, value string, ok bool) {
	tag, value, found := strings.Cut(line, " = ")
	if !found {
		return "", "", false
	}
	tag = strings.TrimSpace(tag)
	value = strings.TrimSpace(value)
	if tag == "" || value == "" {
		return "", "", false
	}
	return tag, value, true
}
