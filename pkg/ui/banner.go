package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/hrekt/hrekt/pkg/defaults"
)

// Global UI state
var (
	silentMode  bool
	noColorMode bool
	uiMu        sync.RWMutex
)

// SetSilent enables or disables silent mode (suppresses the banner)
func SetSilent(silent bool) {
	uiMu.Lock()
	defer uiMu.Unlock()
	silentMode = silent
}

// IsSilent returns whether silent mode is enabled
func IsSilent() bool {
	uiMu.RLock()
	defer uiMu.RUnlock()
	return silentMode
}

// SetNoColor disables colored output
func SetNoColor(noColor bool) {
	uiMu.Lock()
	defer uiMu.Unlock()
	noColorMode = noColor
	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// IsNoColor returns whether color is disabled
func IsNoColor() bool {
	uiMu.RLock()
	defer uiMu.RUnlock()
	return noColorMode
}

const bannerArt = `
   __             __    __
  / /  _______ __/ /__ / /_
 / _ \/ __/ -_)  '_/ __/ __/
/_//_/_/  \__/_/\_\\__/\__/
`

// Disclaimer lines printed under the banner.
var Disclaimer = []string{
	"Use with caution. You are responsible for your actions",
	"Developers assume no liability and are not responsible for any misuse or damage.",
	"By using hrekt, you also agree to the terms of the APIs used.",
}

// PrintBanner writes the banner, version and disclaimer to w unless silent
// mode is on.
func PrintBanner(w io.Writer) {
	if IsSilent() {
		return
	}
	for _, line := range strings.Split(bannerArt, "\n") {
		if line != "" {
			fmt.Fprintln(w, BannerStyle.Render(line))
		}
	}
	fmt.Fprintf(w, "                    v%s\n\n", VersionStyle.Render(defaults.Version))
	for _, line := range Disclaimer {
		PrintWarning(w, line)
	}
	fmt.Fprintln(w)
}

// PrintWarning writes a "[WRN] message" line to w.
func PrintWarning(w io.Writer, message string) {
	fmt.Fprintf(w, "%s%s%s %s\n",
		BracketStyle.Render("["),
		WarningLabelStyle.Render("WRN"),
		BracketStyle.Render("]"),
		NoticeStyle.Render(message))
}
