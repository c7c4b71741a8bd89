// Package extraction produces per-page plain text from PDF bytes, falling
// back to OCR when the document carries no usable embedded text.
package extraction

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"

	"github.com/a3tai/mcp-pdf-renamer/internal/ocr"
	"github.com/a3tai/mcp-pdf-renamer/internal/pdf/errors"
)

// Method records how page text was obtained.
type Method string

const (
	MethodText Method = "text"
	MethodOCR  Method = "ocr"
	MethodNone Method = "none"
)

// Result is the extracted text of one document. Pages is indexed by
// zero-based page number and is never empty.
type Result struct {
	Pages    []string `json:"pages"`
	Method   Method   `json:"method"`
	Warnings []string `json:"warnings,omitempty"`
}

// HasText reports whether any page holds non-whitespace text.
func (r Result) HasText() bool {
	return hasText(r.Pages)
}

// Config controls when the OCR fallback fires. The two triggers are
// independent.
type Config struct {
	// FallbackOnError runs OCR when the embedded text cannot be read.
	FallbackOnError bool
	// FallbackOnBlank runs OCR when every page is blank.
	FallbackOnBlank bool
	// MaxFileSize skips parsing of larger inputs; 0 disables the check.
	MaxFileSize int64
}

// DefaultConfig enables both fallback triggers.
func DefaultConfig() Config {
	return Config{FallbackOnError: true, FallbackOnBlank: true}
}

// Extractor reads embedded text with ledongthuc/pdf and delegates to an OCR
// engine when a fallback trigger fires.
type Extractor struct {
	cfg    Config
	ocr    ocr.Engine
	logger *slog.Logger
}

// NewExtractor creates an Extractor. engine may be nil, which disables OCR.
func NewExtractor(cfg Config, engine ocr.Engine, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{cfg: cfg, ocr: engine, logger: logger}
}

// OCRAvailable reports whether the fallback engine can run.
func (e *Extractor) OCRAvailable() bool {
	return e.ocr != nil && e.ocr.Available()
}

// Extract never fails. When no text can be recovered the result holds a
// single empty page, or the blank pages of a readable document.
func (e *Extractor) Extract(ctx context.Context, data []byte, allowOCR bool) Result {
	pages, warnings, err := e.readEmbedded(data)
	if err == nil && hasText(pages) {
		return Result{Pages: pages, Method: MethodText, Warnings: warnings}
	}
	if err != nil {
		e.logger.Debug("embedded text unreadable", "error", err)
		warnings = append(warnings, err.Error())
	}

	trigger := (err != nil && e.cfg.FallbackOnError) || (err == nil && e.cfg.FallbackOnBlank)
	switch {
	case !trigger:
	case !allowOCR:
		warnings = append(warnings, "OCR fallback disabled")
	case !e.OCRAvailable():
		warnings = append(warnings, errors.NewPDFError(errors.ErrorTypeOCRUnavailable, "OCR fallback unavailable").Error())
	default:
		ocrPages, oerr := e.ocr.RecognizePages(ctx, data)
		if oerr == nil && len(ocrPages) > 0 {
			for i := range ocrPages {
				ocrPages[i] = normalize(ocrPages[i])
			}
			e.logger.Debug("recovered text with OCR", "pages", len(ocrPages))
			return Result{Pages: ocrPages, Method: MethodOCR, Warnings: warnings}
		}
		if oerr != nil {
			e.logger.Warn("OCR fallback failed", "error", oerr)
			warnings = append(warnings, fmt.Sprintf("OCR failed: %v", oerr))
		}
	}

	if err != nil || len(pages) == 0 {
		pages = []string{""}
	}
	return Result{Pages: pages, Method: MethodNone, Warnings: warnings}
}

// readEmbedded returns the normalised text of every page. A page that fails
// to decode yields "" and a warning; a document that fails to open is an
// error.
func (e *Extractor) readEmbedded(data []byte) (pages []string, warnings []string, err error) {
	if e.cfg.MaxFileSize > 0 && int64(len(data)) > e.cfg.MaxFileSize {
		return nil, nil, errors.NewPDFError(errors.ErrorTypeFileTooLarge, "document exceeds size limit").
			WithContext(fmt.Sprintf("%d bytes (max: %d bytes)", len(data), e.cfg.MaxFileSize))
	}
	if !HasHeader(data) {
		return nil, nil, errors.NewPDFError(errors.ErrorTypeInvalidHeader, "missing %PDF- header")
	}

	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, errors.NewPDFError(errors.ErrorTypeCorruptedData, "pdf parser panic").
				WithContext(fmt.Sprint(r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, errors.WrapError(errors.ErrorTypeCorruptedData, "failed to open PDF", err)
	}

	n := reader.NumPage()
	if n == 0 {
		return nil, nil, errors.NewPDFError(errors.ErrorTypeCorruptedData, "document has no pages")
	}

	pages = make([]string, n)
	for i := 1; i <= n; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, perr := page.GetPlainText(nil)
		if perr != nil {
			warnings = append(warnings, errors.WrapError(errors.ErrorTypeCorruptedData, "page text unreadable", perr).WithPage(i).Error())
			continue
		}
		pages[i-1] = normalize(text)
	}

	return pages, warnings, nil
}

// HasHeader reports whether the %PDF- marker appears in the first kilobyte,
// where readers are required to look for it.
func HasHeader(data []byte) bool {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	return bytes.Contains(head, []byte("%PDF-"))
}

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// normalize folds compatibility characters (ligatures, non-breaking spaces,
// full-width forms) and line endings into one canonical form.
func normalize(s string) string {
	return newlines.Replace(norm.NFKC.String(s))
}

func hasText(pages []string) bool {
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			return true
		}
	}
	return false
}
