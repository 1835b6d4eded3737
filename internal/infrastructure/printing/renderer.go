package printing

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/logiport/backend/internal/domain/printing"
	"github.com/logiport/backend/internal/infrastructure/telemetry"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Engine names
const (
	EngineChromedp    = "chromedp"
	EngineWkhtmltopdf = "wkhtmltopdf"
)

// engineAliases maps legacy engine names onto registered engines
var engineAliases = map[string]string{
	"playwright": EngineChromedp,
	"chrome":     EngineChromedp,
}

// Engine converts an HTML document to a PDF file
type Engine interface {
	// Name identifies the engine in attempt history
	Name() string
	// Available reports whether the engine can run in this environment.
	// The answer is computed once when the engine is constructed.
	Available() bool
	// Render writes the PDF for html to outPath, overwriting any existing file
	Render(ctx context.Context, html, outPath string) error
}

// RenderOutcome is the result of one chain run
type RenderOutcome struct {
	Success  bool
	Engine   string
	OutPath  string
	Attempts []printing.RenderAttempt
	Duration time.Duration
}

// Err aggregates the errors of every failed attempt, nil when nothing failed
func (o *RenderOutcome) Err() error {
	var result *multierror.Error
	for _, a := range o.Attempts {
		if a.Err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", a.Engine, a.Err))
		}
	}
	return result.ErrorOrNil()
}

// EngineChain tries engines in order until one produces the PDF
type EngineChain struct {
	engines []Engine
	fs      afero.Fs
	logger  *zap.Logger
}

// NewEngineChain creates a chain. Engine order is the fallback order after
// the preferred engine.
func NewEngineChain(fs afero.Fs, logger *zap.Logger, engines ...Engine) *EngineChain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EngineChain{engines: engines, fs: fs, logger: logger}
}

// Engines returns the registered engine names and their availability
func (c *EngineChain) Engines() map[string]bool {
	out := make(map[string]bool, len(c.engines))
	for _, e := range c.engines {
		out[e.Name()] = e.Available()
	}
	return out
}

// Render converts html to a PDF at outPath. It never fails: a chain where
// every engine failed, or none is available, returns Success=false with the
// attempts that were actually made. Unavailable engines are skipped and do
// not appear in Attempts.
func (c *EngineChain) Render(ctx context.Context, preferred, html, outPath, baseURL string) RenderOutcome {
	start := time.Now()
	outcome := RenderOutcome{OutPath: outPath}

	if err := c.fs.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		c.logger.Warn("failed to create output directory", zap.String("path", outPath), zap.Error(err))
		outcome.Duration = time.Since(start)
		return outcome
	}
	doc := InjectBaseHref(html, baseURL)

	for _, engine := range c.order(preferred) {
		if !engine.Available() {
			continue
		}
		if err := ctx.Err(); err != nil {
			outcome.Attempts = append(outcome.Attempts, printing.RenderAttempt{Engine: engine.Name(), Err: err})
			break
		}
		err := c.attempt(ctx, engine, doc, outPath)
		outcome.Attempts = append(outcome.Attempts, printing.RenderAttempt{
			Engine:  engine.Name(),
			Success: err == nil,
			Err:     err,
		})
		if err == nil {
			outcome.Success = true
			outcome.Engine = engine.Name()
			break
		}
		c.logger.Warn("pdf engine failed",
			zap.String("engine", engine.Name()),
			zap.String("out", outPath),
			zap.Error(err),
		)
	}

	outcome.Duration = time.Since(start)
	if !outcome.Success {
		c.logger.Warn("no pdf engine succeeded",
			zap.Int("attempts", len(outcome.Attempts)),
			zap.Error(outcome.Err()),
		)
	}
	return outcome
}

func (c *EngineChain) attempt(ctx context.Context, engine Engine, html, outPath string) error {
	ctx, span := telemetry.StartSpan(ctx, "pdf."+engine.Name(),
		telemetry.WithAttribute(telemetry.SpanAttrEngine, engine.Name()))
	defer span.End()

	err := engine.Render(ctx, html, outPath)
	telemetry.RecordError(span, err)
	return err
}

// order returns [preferred, others...] keeping registration order for the rest
func (c *EngineChain) order(preferred string) []Engine {
	name := strings.ToLower(strings.TrimSpace(preferred))
	if alias, ok := engineAliases[name]; ok {
		name = alias
	}
	ordered := make([]Engine, 0, len(c.engines))
	for _, e := range c.engines {
		if e.Name() == name {
			ordered = append(ordered, e)
		}
	}
	for _, e := range c.engines {
		if e.Name() != name {
			ordered = append(ordered, e)
		}
	}
	return ordered
}
