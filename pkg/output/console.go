package output

import (
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/hrekt/hrekt/pkg/analyzer"
	"github.com/hrekt/hrekt/pkg/techdetect"
	"github.com/hrekt/hrekt/pkg/ui"
)

// ConsoleEmitter writes one human-readable line per match:
//
//	URL [title] [status] [tech] [ctype] [clen] [server] [match]
//
// A bracketed field is present only when its flag is on; the match field is
// present when a body regex is configured.
type ConsoleEmitter struct {
	mu     sync.Mutex
	w      io.Writer
	styles consoleStyles
}

type consoleStyles struct {
	url     lipgloss.Style
	bracket lipgloss.Style
	value   lipgloss.Style
	status  map[StatusClass]lipgloss.Style
}

// ConsoleOption configures a ConsoleEmitter.
type ConsoleOption func(*consoleConfig)

type consoleConfig struct {
	noColor bool
}

// WithNoColor disables ANSI styling regardless of the terminal.
func WithNoColor(noColor bool) ConsoleOption {
	return func(c *consoleConfig) {
		c.noColor = noColor
	}
}

// NewConsoleEmitter creates a console emitter writing to w. The colour
// profile is detected from w unless WithNoColor is set.
func NewConsoleEmitter(w io.Writer, opts ...ConsoleOption) *ConsoleEmitter {
	var cfg consoleConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	r := lipgloss.NewRenderer(w)
	if cfg.noColor {
		r.SetColorProfile(termenv.Ascii)
	}
	return &ConsoleEmitter{w: w, styles: newConsoleStyles(r)}
}

func newConsoleStyles(r *lipgloss.Renderer) consoleStyles {
	status := func(c lipgloss.Color) lipgloss.Style {
		return r.NewStyle().Foreground(c).Bold(true)
	}
	return consoleStyles{
		url:     r.NewStyle().Bold(true),
		bracket: r.NewStyle().Foreground(ui.Muted),
		value:   r.NewStyle().Foreground(ui.Secondary),
		status: map[StatusClass]lipgloss.Style{
			Class1xx:     status(ui.Status1xx),
			Class2xx:     status(ui.Status2xx),
			Class3xx:     status(ui.Status3xx),
			Class4xx:     status(ui.Status4xx),
			Class5xx:     status(ui.Status5xx),
			ClassUnknown: status(ui.Muted),
		},
	}
}

// Emit writes r as a single line.
func (e *ConsoleEmitter) Emit(r *analyzer.MatchResult) error {
	line := e.Format(r) + "\n"

	e.mu.Lock()
	defer e.mu.Unlock()
	_, err := io.WriteString(e.w, line)
	return err
}

// Format renders r without the trailing newline.
func (e *ConsoleEmitter) Format(r *analyzer.MatchResult) string {
	s := e.styles
	opts := r.Options

	var b strings.Builder
	b.WriteString(s.url.Render(r.URL))

	field := func(v string, style lipgloss.Style) {
		b.WriteByte(' ')
		b.WriteString(s.bracket.Render("["))
		if v != "" {
			b.WriteString(style.Render(v))
		}
		b.WriteString(s.bracket.Render("]"))
	}

	if opts.Title {
		field(r.Title, s.value)
	}
	if opts.StatusCode {
		field(strconv.Itoa(r.StatusCode), s.status[Classify(r.StatusCode)])
	}
	if opts.Tech {
		field(techdetect.Join(r.Technologies), s.value)
	}
	if opts.ContentType {
		field(r.ContentType, s.value)
	}
	if opts.ContentLength {
		clen := ""
		if r.ContentLength >= 0 {
			clen = strconv.FormatInt(r.ContentLength, 10)
		}
		field(clen, s.value)
	}
	if opts.Server {
		field(r.Server, s.value)
	}
	if opts.BodyRegex != "" {
		field(r.BodyMatch, s.value)
	}
	return b.String()
}
