package ui

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func resetUI(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		SetSilent(false)
		uiMu.Lock()
		noColorMode = false
		uiMu.Unlock()
	})
}

func TestPrintBanner_Silent(t *testing.T) {
	resetUI(t)
	SetSilent(true)

	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Empty(t, buf.String())
}

func TestPrintBanner_Disclaimer(t *testing.T) {
	resetUI(t)
	SetNoColor(true)

	var buf bytes.Buffer
	PrintBanner(&buf)
	out := buf.String()
	for _, line := range Disclaimer {
		assert.Contains(t, out, "[WRN] "+line)
	}
}

func TestStatusCodeStyle(t *testing.T) {
	tests := []struct {
		code int
		want any
	}{
		{101, Status1xx},
		{201, Status2xx},
		{302, Status3xx},
		{404, Status4xx},
		{503, Status5xx},
		{700, Muted},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusCodeStyle(tt.code).GetForeground(), "code %d", tt.code)
	}
}

func TestColorEnabled(t *testing.T) {
	resetUI(t)

	assert.False(t, ColorEnabled(nil))

	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	assert.False(t, IsTerminal(f), "regular file is not a terminal")
	assert.False(t, ColorEnabled(f))

	SetNoColor(true)
	assert.True(t, IsNoColor())
	assert.False(t, ColorEnabled(os.Stdout))
}
