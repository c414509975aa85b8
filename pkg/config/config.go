// Package config assembles the immutable run configuration from command
// line flags and an optional YAML file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/hrekt/hrekt/pkg/defaults"
	"github.com/hrekt/hrekt/pkg/httpclient"
	"github.com/hrekt/hrekt/pkg/job"
	"github.com/hrekt/hrekt/pkg/regexcache"
)

// Config holds every run option. It is built once and never mutated.
type Config struct {
	// Execution
	RateLimit   int           // Jobs admitted per second (default: 1000)
	Concurrency int           // Number of probing workers (default: 100)
	Timeout     time.Duration // Per-request HTTP timeout (default: 3s)
	Workers     int           // GOMAXPROCS (default: 1)

	// Probing
	Ports           string // Comma-separated port list (default: "80,443")
	Path            string // Optional path probed per candidate
	BodyRegex       string // Keep candidates whose body matches
	HeaderRegex     string // Keep candidates with a matching "Name:value" line
	FollowRedirects bool   // Follow up to 10 redirects
	MaxBody         int64  // Body bytes read per candidate

	// Display
	Title         bool
	Tech          bool
	StatusCode    bool
	ContentLength bool
	ContentType   bool
	Server        bool

	// Output
	Silent    bool // Suppress the banner
	JSONLines bool // One JSON object per match
	NoColor   bool
	Debug     bool

	// Network and integrations
	Proxy        string // HTTP or SOCKS5 proxy URL
	MetricsAddr  string // host:port for the /metrics listener
	Fingerprints string // YAML file with extra technology signatures
	ChromePath   string // Chrome binary for -tech-detect

	// ConfigFile is the YAML file that was applied, if any.
	ConfigFile string
}

// Default returns the documented defaults.
func Default() Config {
	return Config{
		RateLimit:   defaults.RateLimit,
		Concurrency: defaults.Concurrency,
		Timeout:     defaults.TimeoutSeconds * time.Second,
		Workers:     defaults.Workers,
		Ports:       defaults.Ports,
		MaxBody:     defaults.BufferMax,
	}
}

// JobOptions returns the per-job snapshot of matching and display settings.
func (c *Config) JobOptions() job.Options {
	return job.Options{
		BodyRegex:     c.BodyRegex,
		HeaderRegex:   c.HeaderRegex,
		Ports:         c.Ports,
		Path:          c.Path,
		Title:         c.Title,
		Tech:          c.Tech,
		StatusCode:    c.StatusCode,
		ContentLength: c.ContentLength,
		ContentType:   c.ContentType,
		Server:        c.Server,
	}
}

// Validate checks options that prevent building any worker. A malformed
// proxy is fatal; malformed patterns are not (see PatternWarnings).
func (c *Config) Validate() error {
	if c.Proxy != "" {
		if _, err := httpclient.ParseProxyURL(c.Proxy); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

// numericFlags are read as strings so that unparsable values can fall back
// to their defaults with a warning instead of aborting.
type numericFlags struct {
	rate, concurrency, timeout, workers, maxBody string
}

// aliases maps short flag names to their canonical long name.
var aliases = map[string]string{
	"r":  "rate",
	"c":  "concurrency",
	"t":  "timeout",
	"w":  "workers",
	"p":  "ports",
	"i":  "title",
	"d":  "tech-detect",
	"x":  "path",
	"b":  "body-regex",
	"H":  "header-regex",
	"l":  "follow-redirects",
	"q":  "silent",
	"sc": "status-code",
	"cl": "content-length",
	"ct": "content-type",
	"j":  "jsonl",
	"nc": "no-color",
}

// Parse builds a Config from args (without the program name). Warnings
// describe values that were replaced by defaults. Usage text goes to usage.
func Parse(args []string, usage io.Writer) (*Config, []string, error) {
	cfg := Default()
	var num numericFlags

	fs := flag.NewFlagSet("hrekt", flag.ContinueOnError)
	fs.SetOutput(usage)

	// === EXECUTION ===
	strFlag(fs, &num.rate, strconv.Itoa(defaults.RateLimit), "Maximum jobs admitted per second", "rate", "r")
	strFlag(fs, &num.concurrency, strconv.Itoa(defaults.Concurrency), "Number of concurrent workers", "concurrency", "c")
	strFlag(fs, &num.timeout, strconv.Itoa(defaults.TimeoutSeconds), "HTTP timeout in seconds", "timeout", "t")
	strFlag(fs, &num.workers, strconv.Itoa(defaults.Workers), "OS threads used by the scheduler", "workers", "w")

	// === PROBING ===
	strFlag(fs, &cfg.Ports, defaults.Ports, "Comma-separated ports to probe", "ports", "p")
	strFlag(fs, &cfg.Path, "", "Probe the specified path", "path", "x")
	strFlag(fs, &cfg.BodyRegex, "", "Regex matched against the response body", "body-regex", "b")
	strFlag(fs, &cfg.HeaderRegex, "", "Regex matched against Name:value header lines", "header-regex", "H")
	boolFlag(fs, &cfg.FollowRedirects, "Follow HTTP redirects", "follow-redirects", "l")
	strFlag(fs, &num.maxBody, strconv.Itoa(defaults.BufferMax), "Maximum body bytes read per response", "max-body")

	// === DISPLAY ===
	boolFlag(fs, &cfg.Title, "Display the page title", "title", "i")
	boolFlag(fs, &cfg.Tech, "Display detected technologies (launches Chrome)", "tech-detect", "d")
	boolFlag(fs, &cfg.StatusCode, "Display the status code", "status-code", "sc")
	boolFlag(fs, &cfg.ContentLength, "Display the content length", "content-length", "cl")
	boolFlag(fs, &cfg.ContentType, "Display the content type", "content-type", "ct")
	boolFlag(fs, &cfg.Server, "Display the Server header", "server")

	// === OUTPUT ===
	boolFlag(fs, &cfg.Silent, "Suppress the banner", "silent", "q")
	boolFlag(fs, &cfg.JSONLines, "JSONL output (one JSON object per line)", "jsonl", "j")
	boolFlag(fs, &cfg.NoColor, "Disable colored output", "no-color", "nc")
	boolFlag(fs, &cfg.Debug, "Log dropped candidates to stderr", "debug")

	// === NETWORK / INTEGRATIONS ===
	strFlag(fs, &cfg.Proxy, "", "HTTP/SOCKS5 proxy URL", "proxy")
	strFlag(fs, &cfg.MetricsAddr, "", "Expose Prometheus metrics on host:port", "metrics-addr")
	strFlag(fs, &cfg.Fingerprints, "", "YAML file with custom technology signatures", "fingerprints")
	strFlag(fs, &cfg.ChromePath, "", "Chrome/Chromium binary for tech detection", "chrome-path")
	strFlag(fs, &cfg.ConfigFile, "", "YAML configuration file", "config")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, ErrHelp
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[canonical(f.Name)] = true
	})

	if cfg.ConfigFile != "" {
		file, err := LoadFile(cfg.ConfigFile)
		if err != nil {
			return nil, nil, err
		}
		file.apply(&cfg, &num, set)
	}

	return &cfg, num.resolve(&cfg), nil
}

func (n *numericFlags) resolve(cfg *Config) []string {
	var warnings []string
	warn := func(w string) {
		if w != "" {
			warnings = append(warnings, w)
		}
	}

	var w string
	cfg.RateLimit, w = positiveInt("rate", n.rate, defaults.RateLimit)
	warn(w)
	cfg.Concurrency, w = positiveInt("concurrency", n.concurrency, defaults.Concurrency)
	warn(w)
	secs, w := positiveInt("timeout", n.timeout, defaults.TimeoutSeconds)
	warn(w)
	cfg.Timeout = time.Duration(secs) * time.Second
	cfg.Workers, w = positiveInt("workers", n.workers, defaults.Workers)
	warn(w)
	maxBody, w := positiveInt("max-body", n.maxBody, defaults.BufferMax)
	warn(w)
	cfg.MaxBody = int64(maxBody)

	return warnings
}

// positiveInt parses value, returning def and a warning when it is not a
// positive integer.
func positiveInt(name, value string, def int) (int, string) {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return def, fmt.Sprintf("could not parse %s, using default of %d", name, def)
	}
	return n, ""
}

func canonical(name string) string {
	if long, ok := aliases[name]; ok {
		return long
	}
	return name
}

func strFlag(fs *flag.FlagSet, p *string, value, usage string, names ...string) {
	for i, name := range names {
		u := usage
		if i > 0 {
			u = usage + " (alias)"
		}
		fs.StringVar(p, name, value, u)
	}
}

func boolFlag(fs *flag.FlagSet, p *bool, usage string, names ...string) {
	for i, name := range names {
		u := usage
		if i > 0 {
			u = usage + " (alias)"
		}
		fs.BoolVar(p, name, false, u)
	}
}

// PatternWarnings describes body and header patterns that do not compile.
// Such a run still proceeds; every candidate is dropped by the analyzer.
func (c *Config) PatternWarnings() []string {
	var warnings []string
	for _, p := range []struct{ flag, pattern string }{
		{"body-regex", c.BodyRegex},
		{"header-regex", c.HeaderRegex},
	} {
		if err := regexcache.Validate(p.pattern); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s does not compile, no candidate will match: %v", p.flag, err))
		}
	}
	return warnings
}
