// Package job defines the unit of work that flows from the dispatcher to
// the probing workers.
package job

import "strings"

// Options is the per-run snapshot of matching and display settings that is
// copied into every Job. It is never mutated after the run starts.
type Options struct {
	// BodyRegex keeps a candidate only when the body matches (empty = keep all)
	BodyRegex string `json:"body_regex,omitempty" yaml:"body-regex"`

	// HeaderRegex keeps a candidate only when a "Name:value" header line matches
	HeaderRegex string `json:"header_regex,omitempty" yaml:"header-regex"`

	// Ports is the comma-separated port list, compared literally per token
	Ports string `json:"ports" yaml:"ports"`

	// Path, when set, is probed first and gates the candidate on 404/400
	Path string `json:"path,omitempty" yaml:"path"`

	// Display toggles
	Title         bool `json:"title" yaml:"title"`
	Tech          bool `json:"tech" yaml:"tech-detect"`
	StatusCode    bool `json:"status_code" yaml:"status-code"`
	ContentLength bool `json:"content_length" yaml:"content-length"`
	ContentType   bool `json:"content_type" yaml:"content-type"`
	Server        bool `json:"server" yaml:"server"`
}

// HasPath reports whether a path probe is required.
func (o Options) HasPath() bool {
	return o.Path != ""
}

// PortTokens splits Ports on commas without trimming.
func (o Options) PortTokens() []string {
	return strings.Split(o.Ports, ",")
}

// Job is an immutable per-host task descriptor. It is passed by value and
// consumed by exactly one worker.
type Job struct {
	Host    string
	Options Options
}

// New builds a Job for one input line.
func New(host string, opts Options) Job {
	return Job{Host: host, Options: opts}
}
