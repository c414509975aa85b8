package techdetect

import (
	"net/http"
	"regexp"
	"slices"
	"strings"
)

// Page is what a scanner observed for one URL.
type Page struct {
	URL     string
	Status  int
	Headers http.Header
	Cookies []string          // cookie names
	HTML    string            // final DOM or raw body
	Scripts []string          // script src URLs; extracted from HTML when empty
	Meta    map[string]string // lowercase name/property -> content; extracted from HTML when nil
	JS      map[string]string // defined globals -> stringified value
}

var (
	scriptSrcRe = regexp.MustCompile(`(?i)<script[^>]+src\s*=\s*["']?([^"'\s>]+)`)
	metaTagRe   = regexp.MustCompile(`(?is)<meta\s[^>]*>`)
	metaKeyRe   = regexp.MustCompile(`(?is)\b(?:name|property)\s*=\s*["']?([^"'\s>]+)`)
	metaValRe   = regexp.MustCompile(`(?is)\bcontent\s*=\s*(?:"([^"]*)"|'([^']*)')`)
)

// Detector matches pages against a signature set. It is safe for concurrent
// use once all fingerprints have been added.
type Detector struct {
	signatures []signature
	byName     map[string]int
}

// NewDetector returns a detector loaded with the built-in signatures.
func NewDetector() *Detector {
	d := &Detector{byName: make(map[string]int)}
	for _, s := range builtinSignatures() {
		d.add(s)
	}
	return d
}

func (d *Detector) add(s signature) {
	if i, ok := d.byName[s.name]; ok {
		d.signatures[i] = s
		return
	}
	d.byName[s.name] = len(d.signatures)
	d.signatures = append(d.signatures, s)
}

// Len returns the number of signatures.
func (d *Detector) Len() int {
	return len(d.signatures)
}

// JSGlobals returns every global path some signature probes, sorted.
func (d *Detector) JSGlobals() []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range d.signatures {
		for k := range s.js {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	slices.Sort(out)
	return out
}

// Detect returns the technologies matched on p, implied ones included,
// sorted by name.
func (d *Detector) Detect(p Page) []Technology {
	scripts := p.Scripts
	if len(scripts) == 0 {
		scripts = extractScripts(p.HTML)
	}
	meta := p.Meta
	if meta == nil {
		meta = extractMeta(p.HTML)
	}

	found := make(map[string]*Technology)
	for i := range d.signatures {
		s := &d.signatures[i]
		if c := s.score(p, scripts, meta); c > 0 {
			found[s.name] = &Technology{
				Name:       s.name,
				Categories: s.categories,
				Confidence: min(c, 100),
			}
		}
	}

	d.resolveImplies(found)

	out := make([]Technology, 0, len(found))
	for _, t := range found {
		out = append(out, *t)
	}
	slices.SortFunc(out, func(a, b Technology) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

func (s *signature) score(p Page, scripts []string, meta map[string]string) int {
	confidence := 0

	for name, pattern := range s.headers {
		for _, v := range p.Headers.Values(name) {
			if pattern == nil || pattern.MatchString(v) {
				confidence += weightHeader
				break
			}
		}
	}

	for _, want := range s.cookies {
		for _, have := range p.Cookies {
			if strings.EqualFold(want, have) {
				confidence += weightCookie
				break
			}
		}
	}

	for _, pattern := range s.html {
		if pattern.MatchString(p.HTML) {
			confidence += weightHTML
		}
	}

	for _, pattern := range s.scripts {
		for _, src := range scripts {
			if pattern.MatchString(src) {
				confidence += weightScript
				break
			}
		}
	}

	for name, pattern := range s.meta {
		if v, ok := meta[name]; ok && (pattern == nil || pattern.MatchString(v)) {
			confidence += weightMeta
		}
	}

	for name, pattern := range s.js {
		if v, ok := p.JS[name]; ok && (pattern == nil || pattern.MatchString(v)) {
			confidence += weightJS
		}
	}

	return confidence
}

// resolveImplies adds implied technologies until the set stops growing.
// An implied technology inherits the confidence of whatever implied it.
func (d *Detector) resolveImplies(found map[string]*Technology) {
	queue := make([]string, 0, len(found))
	for name := range found {
		queue = append(queue, name)
	}
	slices.Sort(queue)

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]

		i, ok := d.byName[name]
		if !ok {
			continue
		}
		parent := found[name]
		for _, implied := range d.signatures[i].implies {
			if _, ok := found[implied]; ok {
				continue
			}
			t := &Technology{Name: implied, Confidence: parent.Confidence}
			if j, ok := d.byName[implied]; ok {
				t.Categories = d.signatures[j].categories
			}
			found[implied] = t
			queue = append(queue, implied)
		}
	}
}

func extractScripts(html string) []string {
	var out []string
	for _, m := range scriptSrcRe.FindAllStringSubmatch(html, -1) {
		out = append(out, m[1])
	}
	return out
}

func extractMeta(html string) map[string]string {
	meta := make(map[string]string)
	for _, tag := range metaTagRe.FindAllString(html, -1) {
		k := metaKeyRe.FindStringSubmatch(tag)
		v := metaValRe.FindStringSubmatch(tag)
		if k == nil || v == nil {
			continue
		}
		key := strings.ToLower(k[1])
		if _, dup := meta[key]; dup {
			continue
		}
		meta[key] = v[1] + v[2]
	}
	return meta
}
