// Package iohelper provides helper functions for reading HTTP response bodies
// with limits and decoding them to text.
package iohelper

import (
	"io"
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/hrekt/hrekt/pkg/bufpool"
	"github.com/hrekt/hrekt/pkg/defaults"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
)

// DrainAndClose reads any remaining data from r and closes it if it's a ReadCloser.
// This ensures the connection can be reused for HTTP keep-alive.
// Always returns nil error to allow use in defer.
func DrainAndClose(r io.Reader) error {
	if r == nil {
		return nil
	}

	_, _ = io.Copy(io.Discard, io.LimitReader(r, defaults.BufferLarge))

	if rc, ok := r.(io.ReadCloser); ok {
		rc.Close()
	}
	return nil
}

// ReadText reads at most maxSize bytes from r and decodes them using the
// charset named in contentType. Unknown or missing charsets decode as UTF-8
// with invalid sequences replaced by U+FFFD.
func ReadText(r io.Reader, contentType string, maxSize int64) (string, error) {
	if r == nil {
		return "", nil
	}
	if maxSize <= 0 {
		maxSize = defaults.BufferMax
	}

	buf := bufpool.Get()
	defer bufpool.Put(buf)
	if _, err := buf.ReadFrom(io.LimitReader(r, maxSize)); err != nil {
		return "", err
	}
	// DecodeText copies, so the pooled bytes are not retained.
	return DecodeText(buf.Bytes(), contentType), nil
}

// DecodeText converts raw to a string per the charset parameter of contentType.
func DecodeText(raw []byte, contentType string) string {
	enc := EncodingFor(contentType)
	if enc != nil {
		if out, err := enc.NewDecoder().Bytes(raw); err == nil {
			return string(out)
		}
	}
	if utf8.Valid(raw) {
		return string(raw)
	}
	return strings.ToValidUTF8(string(raw), "\uFFFD")
}

// EncodingFor returns the decoder for the charset in contentType, or nil
// when the body should be treated as UTF-8.
func EncodingFor(contentType string) encoding.Encoding {
	if contentType == "" {
		return nil
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil
	}
	label := params["charset"]
	if label == "" {
		return nil
	}
	enc, name := charset.Lookup(label)
	if enc == nil || name == "utf-8" {
		return nil
	}
	return enc
}
