// Package analyzer derives the printable match for a fetched candidate:
// title, body and header pattern gates, content metadata and optional
// technology fingerprinting.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spaolacci/murmur3"

	"github.com/hrekt/hrekt/pkg/job"
	"github.com/hrekt/hrekt/pkg/regexcache"
	"github.com/hrekt/hrekt/pkg/techdetect"
)

// TitlePattern extracts the page title from the first <title> element.
const TitlePattern = `<title>(.*)</title>`

// MatchResult is the printable projection of an Outcome through a job's
// flags. Fields whose flag is off are left empty.
type MatchResult struct {
	Host          string
	URL           string
	Title         string
	StatusCode    int
	Technologies  []techdetect.Technology
	ContentType   string
	ContentLength int64 // -1 when unknown
	Server        string
	BodyMatch     string
	BodyHash      string

	// Options are the display flags the result was produced under.
	Options job.Options
}

// Analyzer inspects outcomes for one worker. The scanner, when set, is the
// worker's own fingerprinting handle.
type Analyzer struct {
	scanner techdetect.Scanner
	logger  *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithScanner sets the technology scanner used when the tech flag is on.
func WithScanner(s techdetect.Scanner) Option {
	return func(a *Analyzer) {
		a.scanner = s
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze applies opts to out. It returns ErrNoMatch when a configured
// pattern rejects the candidate, a regexcache.ErrInvalidPattern error for a
// malformed caller pattern and ErrTechScan when fingerprinting fails.
func (a *Analyzer) Analyze(ctx context.Context, host string, opts job.Options, out Outcome) (*MatchResult, error) {
	if err := regexcache.Validate(opts.HeaderRegex, opts.BodyRegex); err != nil {
		return nil, err
	}
	if !HeaderMatches(opts.HeaderRegex, out) {
		return nil, fmt.Errorf("%w: header regex %q", ErrNoMatch, opts.HeaderRegex)
	}

	bodyMatch, ok, err := BodyMatch(opts.BodyRegex, out.Body)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: body regex %q", ErrNoMatch, opts.BodyRegex)
	}

	res := &MatchResult{
		Host:          host,
		URL:           out.URL,
		StatusCode:    out.StatusCode,
		ContentLength: -1,
		BodyMatch:     bodyMatch,
		BodyHash:      BodyHash(out.Body),
		Options:       opts,
	}

	if opts.Title {
		res.Title = Title(out.Body)
	}
	if opts.ContentType {
		res.ContentType = out.Header.Get("Content-Type")
	}
	if opts.ContentLength {
		res.ContentLength = out.ContentLength
	}
	if opts.Server {
		res.Server = out.Header.Get("Server")
	}

	if opts.Tech {
		if a.scanner == nil {
			return nil, fmt.Errorf("%w: no scanner configured", ErrTechScan)
		}
		techs, err := a.scanner.Scan(ctx, out.URL)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrTechScan, out.URL, err)
		}
		res.Technologies = techs
	}

	return res, nil
}

// Title returns group 1 of the first TitlePattern match, or "".
func Title(body string) string {
	m := regexcache.MustGet(TitlePattern).FindStringSubmatch(body)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// BodyMatch reports whether pattern matches body and returns the reported
// match: capture group 1 when the pattern has groups, else the whole match.
// An empty pattern always matches with an empty capture.
func BodyMatch(pattern, body string) (string, bool, error) {
	if pattern == "" {
		return "", true, nil
	}
	re, err := regexcache.Get(pattern)
	if err != nil {
		return "", false, err
	}
	m := re.FindStringSubmatch(body)
	if m == nil {
		return "", false, nil
	}
	if re.NumSubexp() >= 1 {
		return m[1], true, nil
	}
	return m[0], true, nil
}

// HeaderMatches reports whether any "Name:value" line of out matches
// pattern. An empty pattern passes; a malformed one never matches.
func HeaderMatches(pattern string, out Outcome) bool {
	if pattern == "" {
		return true
	}
	re, err := regexcache.Get(pattern)
	if err != nil {
		return false
	}
	for _, line := range out.HeaderLines() {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// BodyHash returns the hex murmur3 hash of body.
func BodyHash(body string) string {
	return strconv.FormatUint(murmur3.Sum64([]byte(body)), 16)
}
