package analyzer

import (
	"net/http"
	"slices"
)

// Outcome is the single response fetched for a candidate.
type Outcome struct {
	// URL is the target that was fetched: candidate plus optional path
	URL string

	StatusCode int
	Header     http.Header
	Body       string

	// ContentLength is the transport-reported length, -1 when unknown
	ContentLength int64
}

// HeaderLines renders headers as "Name:value" lines with canonical names,
// sorted by name, one line per value. Value order within a name is kept.
func (o Outcome) HeaderLines() []string {
	names := make([]string, 0, len(o.Header))
	for name := range o.Header {
		names = append(names, name)
	}
	slices.Sort(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		canonical := http.CanonicalHeaderKey(name)
		for _, v := range o.Header[name] {
			lines = append(lines, canonical+":"+v)
		}
	}
	return lines
}
