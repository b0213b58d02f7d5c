package domain

import (
	"strings"
)

// NormalizeName prepares a MeSH heading or chemical name for comparison:
//   - trims leading/trailing whitespace
//   - converts to lowercase
//   - compresses multiple spaces into one
//
// Commas, hyphens, and digits are preserved; MeSH names rely on them
// ("Acids, Carbocyclic", "2-Naphthylamine").
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	name = strings.ToLower(name)

	// Compress multiple spaces into one.
	var b strings.Builder
	b.Grow(len(name))
	prevSpace := false
	for _, r := range name {
		if r == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
