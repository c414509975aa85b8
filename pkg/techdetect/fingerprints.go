package techdetect

import (
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// CustomFingerprint is a user-defined signature. Map values are regular
// expressions; an empty value only requires the key to be present.
//
//	# fingerprints.yaml
//	- name: Acme CMS
//	  categories: [CMS]
//	  headers: {X-Acme-Version: ""}
//	  meta: {generator: "(?i)acme"}
//	  js: {AcmeApp.version: ""}
//	  implies: [PHP]
type CustomFingerprint struct {
	Name       string            `yaml:"name"`
	Categories []string          `yaml:"categories,omitempty"`
	Headers    map[string]string `yaml:"headers,omitempty"`
	Cookies    []string          `yaml:"cookies,omitempty"`
	Meta       map[string]string `yaml:"meta,omitempty"`
	Scripts    []string          `yaml:"scripts,omitempty"`
	HTML       []string          `yaml:"html,omitempty"`
	JS         map[string]string `yaml:"js,omitempty"`
	Implies    []string          `yaml:"implies,omitempty"`
}

// LoadFingerprints reads a YAML list of fingerprints from path.
func LoadFingerprints(path string) ([]CustomFingerprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fingerprint file: %w", err)
	}
	return ParseFingerprints(data)
}

// ParseFingerprints decodes a YAML list of fingerprints.
func ParseFingerprints(data []byte) ([]CustomFingerprint, error) {
	var fps []CustomFingerprint
	if err := yaml.Unmarshal(data, &fps); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFingerprint, err)
	}
	return fps, nil
}

// Add compiles fp and adds it to the detector, replacing any signature
// with the same name. Every pattern must compile.
func (d *Detector) Add(fp CustomFingerprint) error {
	if strings.TrimSpace(fp.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidFingerprint)
	}

	s := signature{
		name:       fp.Name,
		categories: fp.Categories,
		cookies:    fp.Cookies,
		implies:    fp.Implies,
	}

	var err error
	if s.headers, err = compileMap(fp.Name, fp.Headers, http.CanonicalHeaderKey); err != nil {
		return err
	}
	if s.meta, err = compileMap(fp.Name, fp.Meta, strings.ToLower); err != nil {
		return err
	}
	if s.js, err = compileMap(fp.Name, fp.JS, nil); err != nil {
		return err
	}
	if s.scripts, err = compileList(fp.Name, fp.Scripts); err != nil {
		return err
	}
	if s.html, err = compileList(fp.Name, fp.HTML); err != nil {
		return err
	}

	d.add(s)
	return nil
}

// AddAll adds every fingerprint, stopping at the first invalid one.
func (d *Detector) AddAll(fps []CustomFingerprint) error {
	for _, fp := range fps {
		if err := d.Add(fp); err != nil {
			return err
		}
	}
	return nil
}

func compileMap(name string, in map[string]string, key func(string) string) (map[string]*regexp.Regexp, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[string]*regexp.Regexp, len(in))
	for k, v := range in {
		if key != nil {
			k = key(k)
		}
		if v == "" {
			out[k] = nil
			continue
		}
		r, err := regexp.Compile(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %s: %v", ErrInvalidFingerprint, name, k, err)
		}
		out[k] = r
	}
	return out, nil
}

func compileList(name string, in []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(in))
	for _, p := range in {
		r, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFingerprint, name, err)
		}
		out = append(out, r)
	}
	return out, nil
}
