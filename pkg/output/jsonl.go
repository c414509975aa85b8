package output

import (
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hrekt/hrekt/pkg/analyzer"
	"github.com/hrekt/hrekt/pkg/jsonutil"
	"github.com/hrekt/hrekt/pkg/techdetect"
)

// Record is the JSON form of a match. Status, URL and body hash are always
// present; the remaining fields follow the display flags.
type Record struct {
	RunID         string    `json:"run_id"`
	Timestamp     time.Time `json:"timestamp,omitzero"`
	Host          string    `json:"host"`
	URL           string    `json:"url"`
	StatusCode    int       `json:"status_code"`
	StatusClass   string    `json:"status_class"`
	Title         string    `json:"title,omitempty"`
	Technologies  []string  `json:"technologies,omitempty"`
	ContentType   string    `json:"content_type,omitempty"`
	ContentLength *int64    `json:"content_length,omitempty"`
	Server        string    `json:"server,omitempty"`
	BodyMatch     string    `json:"body_match,omitempty"`
	BodyHash      string    `json:"body_hash"`
}

// JSONLEmitter writes one Record per line.
type JSONLEmitter struct {
	mu    sync.Mutex
	enc   *jsonutil.LineEncoder
	runID string
	now   func() time.Time
}

// JSONLOption configures a JSONLEmitter.
type JSONLOption func(*JSONLEmitter)

// WithRunID overrides the generated run id.
func WithRunID(id string) JSONLOption {
	return func(e *JSONLEmitter) {
		e.runID = id
	}
}

// WithClock overrides the timestamp source. A clock returning the zero time
// omits timestamps.
func WithClock(now func() time.Time) JSONLOption {
	return func(e *JSONLEmitter) {
		e.now = now
	}
}

// NewJSONLEmitter creates an emitter writing to w with a fresh run id.
func NewJSONLEmitter(w io.Writer, opts ...JSONLOption) *JSONLEmitter {
	e := &JSONLEmitter{
		enc:   jsonutil.NewLineEncoder(w),
		runID: uuid.NewString(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunID returns the id stamped on every record.
func (e *JSONLEmitter) RunID() string {
	return e.runID
}

// Emit writes r as one JSON line.
func (e *JSONLEmitter) Emit(r *analyzer.MatchResult) error {
	rec := e.Record(r)

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enc.Encode(rec)
}

// Record converts r to its JSON form.
func (e *JSONLEmitter) Record(r *analyzer.MatchResult) Record {
	rec := Record{
		RunID:       e.runID,
		Timestamp:   e.now().UTC(),
		Host:        r.Host,
		URL:         r.URL,
		StatusCode:  r.StatusCode,
		StatusClass: Classify(r.StatusCode).String(),
		Title:       r.Title,
		ContentType: r.ContentType,
		Server:      r.Server,
		BodyMatch:   r.BodyMatch,
		BodyHash:    r.BodyHash,
	}
	if len(r.Technologies) > 0 {
		rec.Technologies = techdetect.Names(r.Technologies)
	}
	if r.Options.ContentLength && r.ContentLength >= 0 {
		n := r.ContentLength
		rec.ContentLength = &n
	}
	return rec
}
