package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// File is the YAML form of the configuration. Every field is optional and
// only fills options that were not given on the command line.
//
//	rate: 500
//	ports: "80,443,8080"
//	title: true
//	header-regex: "Server:nginx"
type File struct {
	Rate        *int `yaml:"rate"`
	Concurrency *int `yaml:"concurrency"`
	Timeout     *int `yaml:"timeout"`
	Workers     *int `yaml:"workers"`
	MaxBody     *int `yaml:"max-body"`

	Ports           *string `yaml:"ports"`
	Path            *string `yaml:"path"`
	BodyRegex       *string `yaml:"body-regex"`
	HeaderRegex     *string `yaml:"header-regex"`
	FollowRedirects *bool   `yaml:"follow-redirects"`

	Title         *bool `yaml:"title"`
	Tech          *bool `yaml:"tech-detect"`
	StatusCode    *bool `yaml:"status-code"`
	ContentLength *bool `yaml:"content-length"`
	ContentType   *bool `yaml:"content-type"`
	Server        *bool `yaml:"server"`

	Silent    *bool `yaml:"silent"`
	JSONLines *bool `yaml:"jsonl"`
	NoColor   *bool `yaml:"no-color"`
	Debug     *bool `yaml:"debug"`

	Proxy        *string `yaml:"proxy"`
	MetricsAddr  *string `yaml:"metrics-addr"`
	Fingerprints *string `yaml:"fingerprints"`
	ChromePath   *string `yaml:"chrome-path"`
}

// LoadFile reads and decodes a YAML configuration file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidConfig, path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
	}
	return &f, nil
}

// apply copies every field present in f whose flag was not set.
func (f *File) apply(cfg *Config, num *numericFlags, set map[string]bool) {
	intOpt(f.Rate, "rate", &num.rate, set)
	intOpt(f.Concurrency, "concurrency", &num.concurrency, set)
	intOpt(f.Timeout, "timeout", &num.timeout, set)
	intOpt(f.Workers, "workers", &num.workers, set)
	intOpt(f.MaxBody, "max-body", &num.maxBody, set)

	opt(f.Ports, "ports", &cfg.Ports, set)
	opt(f.Path, "path", &cfg.Path, set)
	opt(f.BodyRegex, "body-regex", &cfg.BodyRegex, set)
	opt(f.HeaderRegex, "header-regex", &cfg.HeaderRegex, set)
	opt(f.FollowRedirects, "follow-redirects", &cfg.FollowRedirects, set)

	opt(f.Title, "title", &cfg.Title, set)
	opt(f.Tech, "tech-detect", &cfg.Tech, set)
	opt(f.StatusCode, "status-code", &cfg.StatusCode, set)
	opt(f.ContentLength, "content-length", &cfg.ContentLength, set)
	opt(f.ContentType, "content-type", &cfg.ContentType, set)
	opt(f.Server, "server", &cfg.Server, set)

	opt(f.Silent, "silent", &cfg.Silent, set)
	opt(f.JSONLines, "jsonl", &cfg.JSONLines, set)
	opt(f.NoColor, "no-color", &cfg.NoColor, set)
	opt(f.Debug, "debug", &cfg.Debug, set)

	opt(f.Proxy, "proxy", &cfg.Proxy, set)
	opt(f.MetricsAddr, "metrics-addr", &cfg.MetricsAddr, set)
	opt(f.Fingerprints, "fingerprints", &cfg.Fingerprints, set)
	opt(f.ChromePath, "chrome-path", &cfg.ChromePath, set)
}

func opt[T any](v *T, name string, dst *T, set map[string]bool) {
	if v != nil && !set[name] {
		*dst = *v
	}
}

// intOpt stores file integers as flag text so both go through the same
// positive-int check.
func intOpt(v *int, name string, dst *string, set map[string]bool) {
	if v != nil && !set[name] {
		*dst = strconv.Itoa(*v)
	}
}
