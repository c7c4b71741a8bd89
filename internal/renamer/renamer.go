// Package renamer runs the order-slip pipeline: extract page text, split the
// document into records, detect each record's fields, name it, and cut its
// pages into a standalone PDF.
package renamer

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/a3tai/mcp-pdf-renamer/internal/detect"
	"github.com/a3tai/mcp-pdf-renamer/internal/naming"
	"github.com/a3tai/mcp-pdf-renamer/internal/pdf/errors"
	"github.com/a3tai/mcp-pdf-renamer/internal/pdf/extraction"
	"github.com/a3tai/mcp-pdf-renamer/internal/splitter"
)

// TextExtractor yields per-page text for a document.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, allowOCR bool) extraction.Result
}

// PageExporter counts and cuts pages.
type PageExporter interface {
	PageCount(data []byte) (int, error)
	Export(data []byte, from, to int) ([]byte, error)
}

// Document is one input file.
type Document struct {
	Name string
	Data []byte
}

// Record is one detected record of a document.
type Record struct {
	StartPage int           `json:"start_page"`
	EndPage   int           `json:"end_page"`
	Filename  string        `json:"filename"`
	Fields    detect.Fields `json:"fields"`
}

// Analysis describes a document without producing output files.
type Analysis struct {
	Document  string            `json:"document"`
	Method    extraction.Method `json:"method"`
	PageCount int               `json:"page_count"`
	Records   []Record          `json:"records"`
	Warnings  []string          `json:"warnings,omitempty"`
}

// Artifact is one output file.
type Artifact struct {
	Record
	Bytes []byte `json:"-"`
}

// Result holds the outputs of one document.
type Result struct {
	*Analysis
	Artifacts []Artifact `json:"artifacts"`
}

// Pipeline processes documents. It holds no per-document state and can be
// shared.
type Pipeline struct {
	extractor TextExtractor
	exporter  PageExporter
	logger    *slog.Logger
}

// New creates a Pipeline.
func New(extractor TextExtractor, exporter PageExporter, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{extractor: extractor, exporter: exporter, logger: logger}
}

// Analyze extracts, splits, and detects fields, and names every record.
func (p *Pipeline) Analyze(ctx context.Context, doc Document, opts Options) (*Analysis, error) {
	return p.analyze(ctx, doc, opts, p.logger.With("document", doc.Name))
}

func (p *Pipeline) analyze(ctx context.Context, doc Document, opts Options, logger *slog.Logger) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	count, err := p.exporter.PageCount(doc.Data)
	if err != nil {
		return nil, wrapDocument(doc.Name, err)
	}
	if count == 0 {
		return nil, wrapDocument(doc.Name, errors.NewPDFError(errors.ErrorTypeCorruptedData, "document has no pages"))
	}

	text := p.extractor.Extract(ctx, doc.Data, opts.AllowOCR)
	pages := fitPages(text.Pages, count)
	logger.Debug("extracted text", "method", text.Method, "pages", count, "warnings", len(text.Warnings))

	segments := []splitter.Segment{wholeDocument(pages)}
	if opts.Split {
		segments = splitter.Split(pages, opts.anchor())
	}

	records := make([]Record, len(segments))
	codes := make([]string, len(segments))
	for i, seg := range segments {
		records[i] = Record{
			StartPage: seg.StartPage,
			EndPage:   seg.EndPage,
			Fields:    detect.Detect(seg.Text, opts.detectOptions()),
		}
		codes[i] = records[i].Fields.SiteCode
	}

	if majority := detect.MajorityCode(codes); majority != "" {
		for i := range records {
			records[i].Fields.SiteCode = majority
		}
	}

	names := make([]string, len(records))
	tmpl := opts.template()
	for i := range records {
		names[i] = naming.Build(records[i].Fields, tmpl)
	}
	for i, name := range naming.Dedupe(names) {
		records[i].Filename = name
	}

	logger.Info("analyzed document", "records", len(records), "method", text.Method)

	return &Analysis{
		Document:  doc.Name,
		Method:    text.Method,
		PageCount: count,
		Records:   records,
		Warnings:  text.Warnings,
	}, nil
}

// Process analyses doc and exports one artifact per record.
func (p *Pipeline) Process(ctx context.Context, doc Document, opts Options) (*Result, error) {
	return p.process(ctx, doc, opts, p.logger.With("document", doc.Name))
}

func (p *Pipeline) process(ctx context.Context, doc Document, opts Options, logger *slog.Logger) (*Result, error) {
	analysis, err := p.analyze(ctx, doc, opts, logger)
	if err != nil {
		return nil, err
	}

	res := &Result{Analysis: analysis, Artifacts: make([]Artifact, 0, len(analysis.Records))}
	for _, rec := range analysis.Records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := p.exporter.Export(doc.Data, rec.StartPage, rec.EndPage)
		if err != nil {
			return nil, wrapDocument(doc.Name, err)
		}
		logger.Debug("exported record", "filename", rec.Filename, "start_page", rec.StartPage+1, "end_page", rec.EndPage+1)
		res.Artifacts = append(res.Artifacts, Artifact{Record: rec, Bytes: data})
	}

	return res, nil
}

// NewRunID returns an identifier for correlating the log lines of one batch.
func NewRunID() string {
	return uuid.NewString()
}

// fitPages aligns extracted text with the real page count. Degraded
// extraction yields fewer entries than pages; the missing pages are blank.
func fitPages(pages []string, count int) []string {
	out := make([]string, count)
	copy(out, pages)
	return out
}

func wholeDocument(pages []string) splitter.Segment {
	return splitter.Split(pages, "")[0]
}

func wrapDocument(name string, err error) error {
	var pe *errors.PDFError
	if stderrors.As(err, &pe) && pe.FilePath == "" {
		pe.WithFile(name)
	}
	return fmt.Errorf("%s: %w", name, err)
}
