package pdf

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/a3tai/mcp-pdf-renamer/internal/dates"
	"github.com/a3tai/mcp-pdf-renamer/internal/pdf/extraction"
	"github.com/a3tai/mcp-pdf-renamer/internal/pdf/security"
	"github.com/a3tai/mcp-pdf-renamer/internal/renamer"
)

// ServiceConfig holds the collaborators and limits of a Service.
type ServiceConfig struct {
	MaxFileSize     int64
	InputDirectory  string
	OutputDirectory string
	Extractor       *extraction.Extractor
	Exporter        renamer.PageExporter
	Defaults        renamer.Options
	Logger          *slog.Logger
}

// Service handles PDF file operations by orchestrating validation, search,
// the rename pipeline, and output writing. Reads stay inside the input
// directory; writes go to the output directory only.
type Service struct {
	maxFileSize   int64
	validator     *Validator
	search        *Search
	pathValidator *security.PathValidator
	extractor     *extraction.Extractor
	pipeline      *renamer.Pipeline
	output        *Output
	defaults      renamer.Options
	logger        *slog.Logger
}

// NewService creates a new PDF service with all components. An empty output
// directory defaults to "renamed" under the input directory.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Extractor == nil || cfg.Exporter == nil {
		return nil, fmt.Errorf("extractor and exporter are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	pathValidator, err := security.NewPathValidator(cfg.InputDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	outDir := cfg.OutputDirectory
	if outDir == "" {
		outDir = filepath.Join(pathValidator.GetConfiguredDirectory(), "renamed")
	}
	output, err := NewOutput(outDir)
	if err != nil {
		return nil, err
	}

	return &Service{
		maxFileSize:   cfg.MaxFileSize,
		validator:     NewValidator(cfg.MaxFileSize),
		search:        NewSearch(cfg.MaxFileSize),
		pathValidator: pathValidator,
		extractor:     cfg.Extractor,
		pipeline:      renamer.New(cfg.Extractor, cfg.Exporter, logger),
		output:        output,
		defaults:      cfg.Defaults,
		logger:        logger,
	}, nil
}

// Defaults returns the rename options used when a request sets none.
func (s *Service) Defaults() renamer.Options {
	return s.defaults
}

// PDFValidateFile performs validation on a PDF file
func (s *Service) PDFValidateFile(req PDFValidateFileRequest) (*PDFValidateFileResult, error) {
	path, err := s.pathValidator.Resolve(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	req.Path = path
	return s.validator.ValidateFile(req)
}

// PDFSearchDirectory searches for PDF files in a directory
func (s *Service) PDFSearchDirectory(req PDFSearchDirectoryRequest) (*PDFSearchDirectoryResult, error) {
	dir, err := s.resolveDirectory(req.Directory)
	if err != nil {
		return nil, err
	}
	req.Directory = dir
	return s.search.SearchDirectory(req)
}

// PDFDetectFields reports the records and fields of one PDF without writing
// anything.
func (s *Service) PDFDetectFields(ctx context.Context, req PDFDetectFieldsRequest) (*PDFDetectFieldsResult, error) {
	path, err := s.pathValidator.Resolve(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	doc, err := s.readDocument(path)
	if err != nil {
		return nil, err
	}

	analysis, err := s.pipeline.Analyze(ctx, doc, req.Options)
	if err != nil {
		return nil, err
	}

	return &PDFDetectFieldsResult{Path: path, Analysis: analysis}, nil
}

// PDFRenameFile renames (and splits) one PDF into the output directory.
func (s *Service) PDFRenameFile(ctx context.Context, req PDFRenameFileRequest) (*PDFRenameResult, error) {
	path, err := s.pathValidator.Resolve(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	doc, err := s.readDocument(path)
	if err != nil {
		return nil, err
	}

	batch := s.pipeline.ProcessBatch(ctx, []renamer.Document{doc}, req.Options)
	if len(batch.Results) == 0 && len(batch.Failures) > 0 {
		return nil, batch.Failures[0].Err
	}

	return s.deliver(batch, nil, req.DryRun)
}

// PDFRenameDirectory renames every PDF found in a directory. Unreadable or
// unprocessable files are reported as failures and never stop the others.
func (s *Service) PDFRenameDirectory(ctx context.Context, req PDFRenameDirectoryRequest) (*PDFRenameResult, error) {
	found, err := s.PDFSearchDirectory(PDFSearchDirectoryRequest{Directory: req.Directory, Query: req.Query})
	if err != nil {
		return nil, err
	}

	paths := make([]string, len(found.Files))
	for i, f := range found.Files {
		paths[i] = f.Path
	}
	if len(s.skipOutputs(paths)) == 0 {
		return nil, fmt.Errorf("no PDF files found in %s", found.Directory)
	}

	return s.renameAll(ctx, paths, req.Options, req.DryRun)
}

// PDFRenamePaths renames files, and the PDFs under directories, as one
// batch. Paths that fail validation are reported as failures.
func (s *Service) PDFRenamePaths(ctx context.Context, req PDFRenamePathsRequest) (*PDFRenameResult, error) {
	if len(req.Paths) == 0 {
		return nil, fmt.Errorf("no input paths given")
	}

	var (
		paths    []string
		failures []FailedFile
	)
	for _, p := range req.Paths {
		resolved, err := s.pathValidator.Resolve(p)
		if err != nil {
			failures = append(failures, FailedFile{Source: p, Error: fmt.Sprintf("security validation failed: %v", err)})
			continue
		}

		info, err := os.Stat(resolved)
		if err != nil || !info.IsDir() {
			paths = append(paths, resolved)
			continue
		}

		found, err := s.search.SearchDirectory(PDFSearchDirectoryRequest{Directory: resolved})
		if err != nil {
			failures = append(failures, FailedFile{Source: p, Error: err.Error()})
			continue
		}
		for _, f := range found.Files {
			paths = append(paths, f.Path)
		}
	}

	result, err := s.renameAll(ctx, paths, req.Options, req.DryRun)
	if err != nil {
		return nil, err
	}
	result.Failures = append(failures, result.Failures...)
	return result, nil
}

// renameAll reads paths, runs them as one batch, and delivers the outputs.
func (s *Service) renameAll(ctx context.Context, paths []string, opts renamer.Options, dryRun bool) (*PDFRenameResult, error) {
	var (
		docs     []renamer.Document
		failures []FailedFile
	)
	for _, path := range s.skipOutputs(paths) {
		doc, err := s.readDocument(path)
		if err != nil {
			failures = append(failures, FailedFile{Source: s.displayName(path), Error: err.Error()})
			continue
		}
		docs = append(docs, doc)
	}

	batch := s.pipeline.ProcessBatch(ctx, docs, opts)
	return s.deliver(batch, failures, dryRun)
}

// skipOutputs drops paths inside the output directory so earlier results
// are never processed again.
func (s *Service) skipOutputs(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !within(p, s.output.Directory()) {
			out = append(out, p)
		}
	}
	return out
}

// GetServerInfo returns server configuration and the available tools
func (s *Service) GetServerInfo(serverName, version string, tools []ToolInfo) *PDFServerInfoResult {
	files := []FileInfo{}
	if found, err := s.search.SearchDirectory(PDFSearchDirectoryRequest{
		Directory: s.pathValidator.GetConfiguredDirectory(),
	}); err == nil {
		files = found.Files
	}

	d := s.defaults
	return &PDFServerInfoResult{
		ServerName:      serverName,
		Version:         version,
		InputDirectory:  s.pathValidator.GetConfiguredDirectory(),
		OutputDirectory: s.output.Directory(),
		MaxFileSize:     s.maxFileSize,
		OCRAvailable:    s.extractor.OCRAvailable(),
		Defaults: Defaults{
			OCR:        d.AllowOCR,
			DateFormat: d.DatePolicy.String(),
			NamePolicy: d.NamePolicy.String(),
			Template:   d.Template.String(),
			Anchor:     d.Anchor,
			Split:      d.Split,
			Archive:    d.Archive,
		},
		DateFormats:      dates.Policies(),
		AvailableTools:   tools,
		DirectoryContent: files,
	}
}

// deliver writes the batch outputs. An archive, when present, replaces the
// individual files. A failed write is reported against its source and the
// remaining outputs are still written.
func (s *Service) deliver(batch *renamer.BatchResult, failures []FailedFile, dryRun bool) (*PDFRenameResult, error) {
	result := &PDFRenameResult{
		RunID:           batch.RunID,
		OutputDirectory: s.output.Directory(),
		DryRun:          dryRun,
		Files:           []RenamedFile{},
		Failures:        failures,
	}
	for _, f := range batch.Failures {
		result.Failures = append(result.Failures, FailedFile{Source: f.Document, Error: f.Message})
	}

	writeFiles := !dryRun && batch.Archive == nil
	for _, res := range batch.Results {
		for _, a := range res.Artifacts {
			file := RenamedFile{
				Source:    res.Document,
				Filename:  a.Filename,
				StartPage: a.StartPage + 1,
				EndPage:   a.EndPage + 1,
				Size:      int64(len(a.Bytes)),
				Method:    res.Method,
				Fields:    a.Fields,
			}
			if writeFiles {
				path, err := s.output.Write(a.Filename, a.Bytes)
				if err != nil {
					s.logger.Warn("output write failed", "source", res.Document, "filename", a.Filename, "error", err)
					result.Failures = append(result.Failures, FailedFile{Source: res.Document, Error: err.Error()})
					continue
				}
				file.Path = path
				file.Filename = filepath.Base(path)
			}
			result.Files = append(result.Files, file)
		}
	}

	if a := batch.Archive; a != nil {
		info := &ArchiveInfo{Filename: a.Filename, Entries: a.Entries, Size: int64(len(a.Bytes))}
		if !dryRun {
			path, err := s.output.Write(a.Filename, a.Bytes)
			if err != nil {
				s.logger.Warn("archive write failed", "filename", a.Filename, "error", err)
				result.Failures = append(result.Failures, FailedFile{Source: a.Filename, Error: err.Error()})
				info = nil
			} else {
				info.Path = path
				info.Filename = filepath.Base(path)
			}
		}
		result.Archive = info
	}

	s.logger.Info("delivered outputs",
		"run_id", batch.RunID,
		"files", len(result.Files),
		"failures", len(result.Failures),
		"archive", result.Archive != nil,
		"dry_run", dryRun,
	)

	return result, nil
}

func (s *Service) resolveDirectory(dir string) (string, error) {
	if dir == "" {
		return s.pathValidator.GetConfiguredDirectory(), nil
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(s.pathValidator.GetConfiguredDirectory(), dir)
	}
	if err := s.pathValidator.ValidateDirectory(dir); err != nil {
		return "", fmt.Errorf("security validation failed: %w", err)
	}
	return filepath.Clean(dir), nil
}

// readDocument loads a validated PDF. The document is named by its path
// relative to the input directory.
func (s *Service) readDocument(path string) (renamer.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return renamer.Document{}, fmt.Errorf("cannot access file: %w", err)
	}
	if err := s.validator.ValidateFileInfo(path, info); err != nil {
		return renamer.Document{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return renamer.Document{}, fmt.Errorf("failed to read file: %w", err)
	}
	if err := s.validator.ValidateContent(path, data); err != nil {
		return renamer.Document{}, err
	}

	return renamer.Document{Name: s.displayName(path), Data: data}, nil
}

func (s *Service) displayName(path string) string {
	if rel, err := filepath.Rel(s.pathValidator.GetConfiguredDirectory(), path); err == nil {
		return rel
	}
	return filepath.Base(path)
}

func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !filepath.IsAbs(rel) && !startsWithParent(rel)
}

func startsWithParent(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}
