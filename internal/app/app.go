// Package app wires configuration into the services both binaries run.
package app

import (
	"log/slog"

	"github.com/a3tai/mcp-pdf-renamer/internal/config"
	"github.com/a3tai/mcp-pdf-renamer/internal/ocr"
	"github.com/a3tai/mcp-pdf-renamer/internal/pdf"
	"github.com/a3tai/mcp-pdf-renamer/internal/pdf/extraction"
	"github.com/a3tai/mcp-pdf-renamer/internal/pdf/pagerange"
)

// NewService builds the PDF service for cfg. The OCR engine is always
// constructed; whether it can run is decided per call from the binaries on
// PATH.
func NewService(cfg *config.Config, logger *slog.Logger) (*pdf.Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	engine := ocr.NewTesseract(cfg.OCRConfig(), ocr.WithLogger(logger.With("component", "ocr")))
	extractor := extraction.NewExtractor(cfg.ExtractionConfig(), engine, logger.With("component", "extraction"))

	return pdf.NewService(pdf.ServiceConfig{
		MaxFileSize:     cfg.MaxFileSize,
		InputDirectory:  cfg.PDFDirectory,
		OutputDirectory: cfg.OutputDirectory,
		Extractor:       extractor,
		Exporter:        pagerange.NewExporter(),
		Defaults:        cfg.RenameOptions(),
		Logger:          logger,
	})
}
