package ui

import "github.com/charmbracelet/lipgloss"

// Palette shared by the banner and the console emitter.
var (
	Primary   = lipgloss.Color("#7D56F4")
	Secondary = lipgloss.Color("#00D4AA")
	Warning   = lipgloss.Color("#FFB800")
	Muted     = lipgloss.Color("#6B7280")
	Text      = lipgloss.Color("#FAFAFA")

	// One colour per status class.
	Status1xx = lipgloss.Color("#A78BFA")
	Status2xx = lipgloss.Color("#00D26A")
	Status3xx = lipgloss.Color("#4D96FF")
	Status4xx = lipgloss.Color("#FFD93D")
	Status5xx = lipgloss.Color("#FF3838")
)

var (
	BannerStyle       = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	VersionStyle      = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	BracketStyle      = lipgloss.NewStyle().Foreground(Text).Bold(true)
	WarningLabelStyle = lipgloss.NewStyle().Foreground(Warning).Bold(true)
	NoticeStyle       = lipgloss.NewStyle().Foreground(Text)
)

// StatusColor maps a status code to its class colour; codes outside
// 100-599 get Muted.
func StatusColor(code int) lipgloss.Color {
	switch code / 100 {
	case 1:
		return Status1xx
	case 2:
		return Status2xx
	case 3:
		return Status3xx
	case 4:
		return Status4xx
	case 5:
		return Status5xx
	}
	return Muted
}

// StatusCodeStyle is a bold style in the code's class colour.
func StatusCodeStyle(code int) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(StatusColor(code))
}
