// Package jsonutil wraps github.com/go-json-experiment/json with the
// options used across the module: deterministic map ordering and one value
// per line for streamed records.
//
// Usage:
//
//	enc := jsonutil.NewLineEncoder(os.Stdout)
//	err := enc.Encode(record)
package jsonutil

import (
	"io"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// Marshal returns the deterministic JSON encoding of v.
func Marshal(v any) ([]byte, error) {
	return json.Marshal(v, json.Deterministic(true))
}

// Unmarshal parses the JSON-encoded data and stores the result in v.
func Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// Valid reports whether data is a valid JSON encoding.
func Valid(data []byte) bool {
	return jsontext.Value(data).IsValid()
}

// LineEncoder writes one JSON value per line. Each value and its newline
// reach the writer in a single Write call.
type LineEncoder struct {
	w io.Writer
}

// NewLineEncoder creates an encoder that writes to w.
func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

// Encode writes v followed by a newline.
func (e *LineEncoder) Encode(v any) error {
	data, err := Marshal(v)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = e.w.Write(data)
	return err
}
