package printing

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	defaultChromeTimeout = 60 * time.Second
	// A4 in inches, the unit Chrome's print API uses
	a4WidthInches  = 210 / 25.4
	a4HeightInches = 297 / 25.4
	marginInches   = 10 / 25.4
)

// chromeBinaries are probed on PATH when no remote browser is configured
var chromeBinaries = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"headless-shell",
	"chrome",
}

// ChromedpConfig contains configuration for the chromedp engine
type ChromedpConfig struct {
	// Disabled removes the engine from the chain
	Disabled bool
	// RemoteURL is the websocket URL of a running Chrome (optional).
	// If empty, chromedp launches a local headless browser.
	RemoteURL string
	// NoSandbox runs Chrome without sandbox (required for Docker/root)
	NoSandbox bool
	// Timeout bounds one render
	Timeout time.Duration
	Logger  *zap.Logger
}

// ChromedpEngine renders HTML to PDF through the Chrome DevTools Protocol
type ChromedpEngine struct {
	config      ChromedpConfig
	fs          afero.Fs
	logger      *zap.Logger
	available   bool
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpEngine creates the engine and probes for a browser once.
// The PDF is written through fs.
func NewChromedpEngine(config ChromedpConfig, fs afero.Fs) *ChromedpEngine {
	if config.Timeout == 0 {
		config.Timeout = defaultChromeTimeout
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &ChromedpEngine{config: config, fs: fs, logger: logger}
	e.available = !config.Disabled && (config.RemoteURL != "" || findChrome() != "")
	if e.available {
		e.initAllocator()
	}
	return e
}

func findChrome() string {
	for _, name := range chromeBinaries {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

func (e *ChromedpEngine) initAllocator() {
	if e.config.RemoteURL != "" {
		e.allocCtx, e.allocCancel = chromedp.NewRemoteAllocator(context.Background(), e.config.RemoteURL)
		return
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("allow-file-access-from-files", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if e.config.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	e.allocCtx, e.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
}

// Name returns "chromedp"
func (e *ChromedpEngine) Name() string { return EngineChromedp }

// Available reports whether a browser was found at construction
func (e *ChromedpEngine) Available() bool { return e.available }

// Render loads html from a temporary file so file:// assets resolve, prints
// it to A4 and writes the PDF to outPath.
func (e *ChromedpEngine) Render(ctx context.Context, html, outPath string) error {
	if !e.available {
		return fmt.Errorf("chromedp engine is not available")
	}

	src, err := os.CreateTemp("", "docgen-*.html")
	if err != nil {
		return fmt.Errorf("failed to create temp HTML file: %w", err)
	}
	srcPath := src.Name()
	defer os.Remove(srcPath)
	if _, err := src.WriteString(html); err != nil {
		src.Close()
		return fmt.Errorf("failed to write temp HTML file: %w", err)
	}
	src.Close()

	ctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()
	browserCtx, browserCancel := chromedp.NewContext(e.allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			e.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()
	// tie the browser tab to the caller's deadline
	stop := context.AfterFunc(ctx, browserCancel)
	defer stop()

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate(fileURL(srcPath)),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4WidthInches).
				WithPaperHeight(a4HeightInches).
				WithMarginTop(marginInches).
				WithMarginBottom(marginInches).
				WithMarginLeft(marginInches).
				WithMarginRight(marginInches).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("chromedp render timed out after %v: %w", e.config.Timeout, err)
		}
		return fmt.Errorf("chromedp execution failed: %w", err)
	}
	if len(pdf) == 0 {
		return fmt.Errorf("chromedp produced an empty PDF")
	}
	if err := afero.WriteFile(e.fs, outPath, pdf, 0o644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	e.logger.Debug("pdf rendered", zap.String("engine", EngineChromedp), zap.Int("bytes", len(pdf)))
	return nil
}

// Close releases the browser allocator
func (e *ChromedpEngine) Close() error {
	if e.allocCancel != nil {
		e.allocCancel()
	}
	return nil
}

func fileURL(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}

// Ensure ChromedpEngine implements Engine
var _ Engine = (*ChromedpEngine)(nil)
