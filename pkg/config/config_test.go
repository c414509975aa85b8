package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func parse(t *testing.T, args ...string) (*Config, []string) {
	t.Helper()
	cfg, warnings, err := Parse(args, io.Discard)
	if err != nil {
		t.Fatalf("Parse(%v) failed: %v", args, err)
	}
	return cfg, warnings
}

// TestConfigDefaults verifies default values are set correctly
func TestConfigDefaults(t *testing.T) {
	cfg, warnings := parse(t)

	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if cfg.RateLimit != 1000 {
		t.Errorf("RateLimit default: got %d, want 1000", cfg.RateLimit)
	}
	if cfg.Concurrency != 100 {
		t.Errorf("Concurrency default: got %d, want 100", cfg.Concurrency)
	}
	if cfg.Timeout != 3*time.Second {
		t.Errorf("Timeout default: got %v, want 3s", cfg.Timeout)
	}
	if cfg.Workers != 1 {
		t.Errorf("Workers default: got %d, want 1", cfg.Workers)
	}
	if cfg.Ports != "80,443" {
		t.Errorf("Ports default: got %q, want '80,443'", cfg.Ports)
	}
	if cfg.Path != "" || cfg.BodyRegex != "" || cfg.HeaderRegex != "" {
		t.Errorf("path and patterns should default to empty: %+v", cfg)
	}
	if cfg.FollowRedirects || cfg.Title || cfg.Tech || cfg.StatusCode || cfg.Silent {
		t.Errorf("boolean toggles should default to off: %+v", cfg)
	}
}

// TestConfigShortAliases verifies the single-letter flags
func TestConfigShortAliases(t *testing.T) {
	cfg, _ := parse(t,
		"-r", "50", "-c", "20", "-t", "7", "-w", "4",
		"-p", "8080,8443", "-x", "/admin", "-b", "ver(\\d+)", "-H", "Server:nginx",
		"-i", "-d", "-l", "-q",
	)

	if cfg.RateLimit != 50 || cfg.Concurrency != 20 || cfg.Workers != 4 {
		t.Errorf("numeric aliases not applied: %+v", cfg)
	}
	if cfg.Timeout != 7*time.Second {
		t.Errorf("Timeout: got %v, want 7s", cfg.Timeout)
	}
	if cfg.Ports != "8080,8443" || cfg.Path != "/admin" {
		t.Errorf("ports/path: got %q %q", cfg.Ports, cfg.Path)
	}
	if cfg.BodyRegex != `ver(\d+)` || cfg.HeaderRegex != "Server:nginx" {
		t.Errorf("patterns: got %q %q", cfg.BodyRegex, cfg.HeaderRegex)
	}
	if !cfg.Title || !cfg.Tech || !cfg.FollowRedirects || !cfg.Silent {
		t.Errorf("boolean aliases not applied: %+v", cfg)
	}
}

// TestConfigInvalidNumbersFallBack verifies unparsable numbers use defaults
func TestConfigInvalidNumbersFallBack(t *testing.T) {
	cfg, warnings := parse(t, "-rate", "fast", "-concurrency", "0", "-timeout", "-1", "-workers", "x")

	if cfg.RateLimit != 1000 || cfg.Concurrency != 100 || cfg.Workers != 1 {
		t.Errorf("defaults not substituted: %+v", cfg)
	}
	if cfg.Timeout != 3*time.Second {
		t.Errorf("Timeout: got %v, want 3s", cfg.Timeout)
	}

	want := []string{
		"could not parse rate, using default of 1000",
		"could not parse concurrency, using default of 100",
		"could not parse timeout, using default of 3",
		"could not parse workers, using default of 1",
	}
	if len(warnings) != len(want) {
		t.Fatalf("warnings: got %v, want %v", warnings, want)
	}
	for i := range want {
		if warnings[i] != want[i] {
			t.Errorf("warning %d: got %q, want %q", i, warnings[i], want[i])
		}
	}
}

// TestConfigPortsNotTrimmed verifies the port list is kept verbatim
func TestConfigPortsNotTrimmed(t *testing.T) {
	cfg, _ := parse(t, "-ports", "80, 443")
	if cfg.Ports != "80, 443" {
		t.Errorf("Ports: got %q, want '80, 443'", cfg.Ports)
	}
}

// TestConfigUnknownFlag verifies unknown flags are rejected
func TestConfigUnknownFlag(t *testing.T) {
	_, _, err := Parse([]string{"-nope"}, io.Discard)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

// TestConfigHelp verifies -help is reported distinctly
func TestConfigHelp(t *testing.T) {
	_, _, err := Parse([]string{"-help"}, io.Discard)
	if !errors.Is(err, ErrHelp) {
		t.Errorf("expected ErrHelp, got %v", err)
	}
}

// TestConfigJobOptions verifies the per-job snapshot
func TestConfigJobOptions(t *testing.T) {
	cfg, _ := parse(t, "-x", "/login", "-sc", "-cl", "-ct", "-server", "-title")
	opts := cfg.JobOptions()

	if opts.Path != "/login" || opts.Ports != "80,443" {
		t.Errorf("JobOptions: %+v", opts)
	}
	if !opts.StatusCode || !opts.ContentLength || !opts.ContentType || !opts.Server || !opts.Title {
		t.Errorf("display flags missing: %+v", opts)
	}
	if opts.Tech {
		t.Error("Tech should be off")
	}
}

// TestConfigValidate verifies malformed proxies are caught and malformed
// patterns are not fatal
func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		args []string
		ok   bool
	}{
		{"defaults", nil, true},
		{"good patterns", []string{"-b", "<h1>(.*)</h1>", "-H", "Server:.*"}, true},
		{"bad body regex", []string{"-b", "("}, true},
		{"bad header regex", []string{"-H", "[a-"}, true},
		{"socks proxy", []string{"-proxy", "socks5://127.0.0.1:1080"}, true},
		{"bad proxy", []string{"-proxy", "ftp://127.0.0.1"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, _ := parse(t, tt.args...)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hrekt.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestConfigFileOverlay verifies file values fill options not set by flags
func TestConfigFileOverlay(t *testing.T) {
	path := writeFile(t, `
rate: 250
concurrency: 10
ports: "8080"
title: true
header-regex: "Server:nginx"
metrics-addr: "127.0.0.1:9102"
`)
	cfg, warnings := parse(t, "-config", path, "-c", "30")

	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if cfg.RateLimit != 250 {
		t.Errorf("RateLimit: got %d, want 250 from file", cfg.RateLimit)
	}
	if cfg.Concurrency != 30 {
		t.Errorf("Concurrency: got %d, want 30 from flag", cfg.Concurrency)
	}
	if cfg.Ports != "8080" || !cfg.Title || cfg.HeaderRegex != "Server:nginx" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.MetricsAddr != "127.0.0.1:9102" {
		t.Errorf("MetricsAddr: got %q", cfg.MetricsAddr)
	}
	if cfg.Timeout != 3*time.Second {
		t.Errorf("Timeout: got %v, want default 3s", cfg.Timeout)
	}
}

// TestConfigFileInvalidNumber verifies file numbers share the flag fallback
func TestConfigFileInvalidNumber(t *testing.T) {
	path := writeFile(t, "rate: 0\n")
	cfg, warnings := parse(t, "-config", path)

	if cfg.RateLimit != 1000 {
		t.Errorf("RateLimit: got %d, want 1000", cfg.RateLimit)
	}
	if len(warnings) != 1 {
		t.Errorf("expected one warning, got %v", warnings)
	}
}

// TestConfigFileErrors verifies unreadable and malformed files
func TestConfigFileErrors(t *testing.T) {
	_, _, err := Parse([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")}, io.Discard)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("missing file: expected ErrInvalidConfig, got %v", err)
	}

	path := writeFile(t, "rate: [1, 2\n")
	_, _, err = Parse([]string{"-config", path}, io.Discard)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("malformed file: expected ErrInvalidConfig, got %v", err)
	}
}

func TestConfigPatternWarnings(t *testing.T) {
	cfg, _ := parse(t, "-b", "<h1>(.*)</h1>")
	if w := cfg.PatternWarnings(); len(w) != 0 {
		t.Errorf("unexpected warnings: %v", w)
	}

	cfg, _ = parse(t, "-b", "(", "-H", "[a-")
	w := cfg.PatternWarnings()
	if len(w) != 2 {
		t.Fatalf("expected 2 warnings, got %v", w)
	}
	if !strings.HasPrefix(w[0], "body-regex") || !strings.HasPrefix(w[1], "header-regex") {
		t.Errorf("unexpected warnings: %v", w)
	}
}
