package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBinaryPath     = "wkhtmltopdf"
	defaultWkhtmlTimeout  = 60 * time.Second
	defaultWkhtmlEncoding = "UTF-8"
)

// WkhtmltopdfConfig contains configuration for the wkhtmltopdf engine
type WkhtmltopdfConfig struct {
	// Disabled removes the engine from the chain
	Disabled bool
	// BinaryPath is the path to the wkhtmltopdf binary.
	// If not absolute, it is searched in PATH.
	BinaryPath string
	// Timeout bounds one render
	Timeout time.Duration
	Logger  *zap.Logger
}

// WkhtmltopdfEngine renders HTML to PDF using the wkhtmltopdf command-line tool.
// It writes straight to the OS filesystem.
type WkhtmltopdfEngine struct {
	config     WkhtmltopdfConfig
	logger     *zap.Logger
	binaryPath string
}

// NewWkhtmltopdfEngine creates the engine and resolves the binary once
func NewWkhtmltopdfEngine(config WkhtmltopdfConfig) *WkhtmltopdfEngine {
	if config.BinaryPath == "" {
		config.BinaryPath = defaultBinaryPath
	}
	if config.Timeout == 0 {
		config.Timeout = defaultWkhtmlTimeout
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &WkhtmltopdfEngine{config: config, logger: logger}
	if !config.Disabled {
		if path, err := resolveBinaryPath(config.BinaryPath); err == nil {
			e.binaryPath = path
		} else {
			logger.Debug("wkhtmltopdf binary not found", zap.String("binary", config.BinaryPath), zap.Error(err))
		}
	}
	return e
}

// resolveBinaryPath finds the full path to the binary
func resolveBinaryPath(path string) (string, error) {
	if filepath.IsAbs(path) {
		if _, err := os.Stat(path); err != nil {
			return "", err
		}
		return path, nil
	}
	return exec.LookPath(path)
}

// Name returns "wkhtmltopdf"
func (e *WkhtmltopdfEngine) Name() string { return EngineWkhtmltopdf }

// Available reports whether the binary was found at construction
func (e *WkhtmltopdfEngine) Available() bool { return e.binaryPath != "" }

// Render writes html to a temporary file and converts it to outPath
func (e *WkhtmltopdfEngine) Render(ctx context.Context, html, outPath string) error {
	if !e.Available() {
		return fmt.Errorf("wkhtmltopdf binary not available")
	}

	ctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

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

	args := e.buildArgs(srcPath, outPath)
	e.logger.Debug("executing wkhtmltopdf", zap.String("binary", e.binaryPath), zap.Strings("args", args))

	cmd := exec.CommandContext(ctx, e.binaryPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("wkhtmltopdf timed out after %v: %w", e.config.Timeout, err)
		}
		return fmt.Errorf("wkhtmltopdf execution failed: %s: %w", bytes.TrimSpace(stderr.Bytes()), err)
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return fmt.Errorf("wkhtmltopdf produced no output: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("wkhtmltopdf produced an empty PDF")
	}
	return nil
}

// buildArgs constructs the command-line arguments for wkhtmltopdf
func (e *WkhtmltopdfEngine) buildArgs(srcPath, outPath string) []string {
	return []string{
		"--quiet",
		"--encoding", defaultWkhtmlEncoding,
		"--page-size", "A4",
		"--margin-top", "10mm",
		"--margin-right", "10mm",
		"--margin-bottom", "10mm",
		"--margin-left", "10mm",
		"--enable-local-file-access",
		"--disable-javascript",
		srcPath,
		outPath,
	}
}

// Ensure WkhtmltopdfEngine implements Engine
var _ Engine = (*WkhtmltopdfEngine)(nil)
