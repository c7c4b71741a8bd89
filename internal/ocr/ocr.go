// Package ocr recovers page text from image-only PDFs by rasterising each
// page with pdftoppm and recognising it with tesseract.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ErrUnavailable is returned when the OCR binaries cannot be found.
var ErrUnavailable = errors.New("ocr: tesseract or pdftoppm not found")

// Engine turns PDF bytes into one text per page, in page order.
type Engine interface {
	Available() bool
	RecognizePages(ctx context.Context, pdf []byte) ([]string, error)
}

// Config holds the external tool settings.
type Config struct {
	Tesseract string
	Pdftoppm  string
	Lang      string
	DPI       int
	// PSM is the tesseract page segmentation mode; 0 leaves the default.
	PSM int
	// MaxPages caps how many rendered pages are recognised; 0 means all.
	MaxPages int
}

// DefaultConfig returns settings that work with stock installs.
func DefaultConfig() Config {
	return Config{
		Tesseract: "tesseract",
		Pdftoppm:  "pdftoppm",
		Lang:      "eng",
		DPI:       300,
	}
}

// Tesseract is the pdftoppm + tesseract Engine.
type Tesseract struct {
	cfg      Config
	runner   Runner
	lookPath func(string) (string, error)
	logger   *slog.Logger
}

// Option customises a Tesseract engine.
type Option func(*Tesseract)

// WithRunner replaces the command runner.
func WithRunner(r Runner) Option {
	return func(t *Tesseract) { t.runner = r }
}

// WithLookPath replaces binary discovery.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(t *Tesseract) { t.lookPath = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tesseract) { t.logger = l }
}

// NewTesseract creates an engine. Zero config values take their defaults.
func NewTesseract(cfg Config, opts ...Option) *Tesseract {
	def := DefaultConfig()
	if cfg.Tesseract == "" {
		cfg.Tesseract = def.Tesseract
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = def.Pdftoppm
	}
	if cfg.Lang == "" {
		cfg.Lang = def.Lang
	}
	if cfg.DPI <= 0 {
		cfg.DPI = def.DPI
	}

	t := &Tesseract{
		cfg:      cfg,
		lookPath: exec.LookPath,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.runner == nil {
		t.runner = ExecRunner{Logger: t.logger}
	}
	return t
}

// Available reports whether both binaries resolve.
func (t *Tesseract) Available() bool {
	for _, bin := range []string{t.cfg.Tesseract, t.cfg.Pdftoppm} {
		if _, err := t.lookPath(bin); err != nil {
			t.logger.Debug("ocr binary missing", "binary", bin, "error", err)
			return false
		}
	}
	return true
}

// RecognizePages rasterises every page and OCRs it. A page tesseract fails
// on yields "" so indexes keep matching page numbers.
func (t *Tesseract) RecognizePages(ctx context.Context, pdf []byte) ([]string, error) {
	if !t.Available() {
		return nil, ErrUnavailable
	}

	tmpDir, err := os.MkdirTemp("", "pdf-renamer-ocr-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			t.logger.Warn("failed to remove temp dir", "dir", tmpDir, "error", err)
		}
	}()

	in := filepath.Join(tmpDir, "in.pdf")
	if err := os.WriteFile(in, pdf, 0o600); err != nil {
		return nil, fmt.Errorf("write temp pdf: %w", err)
	}

	prefix := filepath.Join(tmpDir, "page")
	if _, errb, err := t.runner.Run(ctx, t.cfg.Pdftoppm, "-r", strconv.Itoa(t.cfg.DPI), "-png", in, prefix); err != nil {
		return nil, fmt.Errorf("pdftoppm: %w: %s", err, strings.TrimSpace(string(errb)))
	}

	// pdftoppm zero-pads page numbers, so lexical order is page order.
	images, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(images)
	if t.cfg.MaxPages > 0 && len(images) > t.cfg.MaxPages {
		images = images[:t.cfg.MaxPages]
	}
	if len(images) == 0 {
		return nil, errors.New("pdftoppm produced no images")
	}

	pages := make([]string, len(images))
	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		txt, err := t.recognize(ctx, img)
		if err != nil {
			t.logger.Warn("tesseract failed", "page", i+1, "error", err)
			continue
		}
		pages[i] = txt
	}

	return pages, nil
}

func (t *Tesseract) recognize(ctx context.Context, img string) (string, error) {
	args := []string{img, "stdout", "-l", t.cfg.Lang}
	if t.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(t.cfg.PSM))
	}

	out, errb, err := t.runner.Run(ctx, t.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("%w: %s", err, strings.TrimSpace(string(errb)))
	}
	return string(out), nil
}
