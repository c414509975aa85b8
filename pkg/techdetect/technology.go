// Package techdetect identifies the technologies behind a URL.
//
// A Scanner is consulted once per candidate when technology detection is
// enabled. The production Scanner is a Browser: one headless Chrome per
// worker that loads the page and feeds what it observed to a Detector, a
// Wappalyzer-style signature engine.
package techdetect

import (
	"context"
	"strings"
)

// Technology is one detected product.
type Technology struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories,omitempty"`
	Confidence int      `json:"confidence"` // 0-100
}

// Scanner fingerprints a fully resolved URL.
type Scanner interface {
	Scan(ctx context.Context, url string) ([]Technology, error)
}

// ScanFunc adapts a function to the Scanner interface.
type ScanFunc func(ctx context.Context, url string) ([]Technology, error)

// Scan calls f(ctx, url).
func (f ScanFunc) Scan(ctx context.Context, url string) ([]Technology, error) {
	return f(ctx, url)
}

// Names returns the technology names in order.
func Names(techs []Technology) []string {
	out := make([]string, len(techs))
	for i, t := range techs {
		out[i] = t.Name
	}
	return out
}

// Join renders technology names comma-separated, e.g. "Nginx,PHP".
func Join(techs []Technology) string {
	return strings.Join(Names(techs), ",")
}
