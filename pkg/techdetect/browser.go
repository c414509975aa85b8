package techdetect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/hrekt/hrekt/pkg/defaults"
	"github.com/hrekt/hrekt/pkg/duration"
	"github.com/hrekt/hrekt/pkg/jsonutil"
)

const (
	scriptsJS = `Array.from(document.scripts, s => s.src).filter(Boolean)`

	metaJS = `(() => {
  const out = {};
  for (const m of document.querySelectorAll('meta')) {
    const k = (m.getAttribute('name') || m.getAttribute('property') || '').toLowerCase();
    if (k && !(k in out)) out[k] = m.getAttribute('content') || '';
  }
  return out;
})()`

	// %s is a JSON array of dotted global paths
	globalsJS = `(() => {
  const out = {};
  for (const path of %s) {
    try {
      let v = window;
      for (const p of path.split('.')) {
        if (v === undefined || v === null) break;
        v = v[p];
      }
      if (v !== undefined && v !== null) {
        out[path] = (typeof v === 'string' || typeof v === 'number') ? String(v) : '';
      }
    } catch (e) {}
  }
  return out;
})()`
)

// BrowserConfig configures one headless Chrome instance.
type BrowserConfig struct {
	// ExecPath overrides the Chrome binary lookup
	ExecPath string

	// Proxy is passed to Chrome as --proxy-server
	Proxy string

	// UserAgent defaults to defaults.UABrowser
	UserAgent string

	// PageTimeout bounds a single Scan (default: duration.BrowserPage)
	PageTimeout time.Duration

	// Settle is the wait after load for late scripts (default: duration.BrowserSettle)
	Settle time.Duration

	// Detector defaults to NewDetector()
	Detector *Detector

	Logger *slog.Logger
}

// Browser is a headless Chrome owned by a single worker. It is not safe
// for concurrent use; each Scan opens and closes its own tab.
type Browser struct {
	cfg       BrowserConfig
	port      int
	ctx       context.Context
	cancel    func()
	globals   string
	closeOnce sync.Once
	detector  *Detector
	logger    *slog.Logger
}

// FreePort reserves and releases a loopback TCP port for the browser's
// debugging endpoint.
func FreePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNoFreePort, err)
	}
	defer l.Close()

	addr, ok := l.Addr().(*net.TCPAddr)
	if !ok {
		return 0, fmt.Errorf("%w: unexpected address %s", ErrNoFreePort, l.Addr())
	}
	return addr.Port, nil
}

// NewBrowser launches Chrome and waits until it answers. The browser lives
// until Close is called or ctx is cancelled.
func NewBrowser(ctx context.Context, cfg BrowserConfig) (*Browser, error) {
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaults.UABrowser
	}
	if cfg.PageTimeout <= 0 {
		cfg.PageTimeout = duration.BrowserPage
	}
	if cfg.Settle < 0 {
		cfg.Settle = 0
	} else if cfg.Settle == 0 {
		cfg.Settle = duration.BrowserSettle
	}
	if cfg.Detector == nil {
		cfg.Detector = NewDetector()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	port, err := FreePort()
	if err != nil {
		return nil, err
	}

	globals, err := jsonutil.Marshal(cfg.Detector.JSGlobals())
	if err != nil {
		return nil, fmt.Errorf("encode js globals: %w", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("remote-debugging-port", strconv.Itoa(port)),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("ignore-certificate-errors", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.UserAgent(cfg.UserAgent),
	)
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	if cfg.Proxy != "" {
		opts = append(opts, chromedp.ProxyServer(cfg.Proxy))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	b := &Browser{
		cfg:      cfg,
		port:     port,
		ctx:      browserCtx,
		globals:  fmt.Sprintf(globalsJS, globals),
		detector: cfg.Detector,
		logger:   cfg.Logger,
	}
	b.cancel = func() {
		browserCancel()
		allocCancel()
	}

	// The first Run allocates the browser and binds its lifetime to the
	// context it receives, so it must get browserCtx itself rather than a
	// timeout child.
	started := make(chan error, 1)
	go func() { started <- chromedp.Run(browserCtx) }()

	select {
	case err = <-started:
	case <-time.After(duration.BrowserStart):
		err = fmt.Errorf("no response after %s", duration.BrowserStart)
	}
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("%w: %v", ErrBrowserUnavailable, err)
	}

	b.logger.Debug("browser started", slog.Int("port", port))
	return b, nil
}

// Port returns the debugging port the browser was started on.
func (b *Browser) Port() int {
	return b.port
}

// Scan loads url in a fresh tab and fingerprints what it sees.
func (b *Browser) Scan(ctx context.Context, url string) ([]Technology, error) {
	page, err := b.Observe(ctx, url)
	if err != nil {
		return nil, err
	}
	return b.detector.Detect(page), nil
}

// Observe loads url in a fresh tab and returns the raw observations.
func (b *Browser) Observe(ctx context.Context, url string) (Page, error) {
	tabCtx, cancelTab := chromedp.NewContext(b.ctx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, b.cfg.PageTimeout)
	defer cancelTimeout()
	stop := context.AfterFunc(ctx, cancelTimeout)
	defer stop()

	page := Page{URL: url, Headers: make(http.Header)}

	var mu sync.Mutex
	gotDocument := false
	chromedp.ListenTarget(tabCtx, func(ev any) {
		e, ok := ev.(*network.EventResponseReceived)
		if !ok || e.Type != network.ResourceTypeDocument || e.Response == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		// first document response is the main frame; iframes follow
		if gotDocument {
			return
		}
		gotDocument = true
		page.Status = int(e.Response.Status)
		for k, v := range e.Response.Headers {
			for _, line := range strings.Split(fmt.Sprint(v), "\n") {
				page.Headers.Add(k, line)
			}
		}
	})

	var (
		html    string
		scripts []string
		meta    map[string]string
		globals map[string]string
		cookies []string
	)
	err := chromedp.Run(tabCtx,
		network.Enable(),
		chromedp.Navigate(url),
		chromedp.Sleep(b.cfg.Settle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.Evaluate(scriptsJS, &scripts),
		chromedp.Evaluate(metaJS, &meta),
		chromedp.Evaluate(b.globals, &globals),
		chromedp.ActionFunc(func(ctx context.Context) error {
			cs, err := network.GetCookies().WithURLs([]string{url}).Do(ctx)
			if err != nil {
				return err
			}
			for _, c := range cs {
				cookies = append(cookies, c.Name)
			}
			return nil
		}),
	)
	if err != nil {
		if ctx.Err() != nil {
			return Page{}, ctx.Err()
		}
		return Page{}, fmt.Errorf("%w: %s: %v", ErrNavigation, url, err)
	}

	mu.Lock()
	defer mu.Unlock()
	page.HTML = html
	page.Scripts = scripts
	page.Meta = meta
	page.JS = globals
	page.Cookies = cookies
	if page.Meta == nil {
		page.Meta = map[string]string{}
	}
	return page, nil
}

// Close shuts the browser down. If graceful shutdown stalls the Chrome
// process is killed.
func (b *Browser) Close() {
	b.closeOnce.Do(func() {
		var proc *os.Process
		if c := chromedp.FromContext(b.ctx); c != nil && c.Browser != nil {
			proc = c.Browser.Process()
		}

		done := make(chan struct{})
		go func() {
			b.cancel()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(duration.BrowserShutdown):
			if proc != nil {
				_ = proc.Kill()
			}
			b.logger.Warn("browser shutdown timed out, killed chrome", slog.Int("port", b.port))
		}
	})
}

// IsUnavailable reports whether err means Chrome could not be started.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrBrowserUnavailable) || errors.Is(err, ErrNoFreePort)
}
