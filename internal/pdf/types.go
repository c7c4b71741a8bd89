package pdf

import (
	"github.com/a3tai/mcp-pdf-renamer/internal/detect"
	"github.com/a3tai/mcp-pdf-renamer/internal/pdf/extraction"
	"github.com/a3tai/mcp-pdf-renamer/internal/renamer"
)

// FileInfo represents information about a PDF file
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Request Types

// PDFValidateFileRequest represents a request to validate a PDF file
type PDFValidateFileRequest struct {
	Path string `json:"path"`
}

// PDFSearchDirectoryRequest represents a request to search for PDF files in a directory
type PDFSearchDirectoryRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query"`
}

// PDFRenameFileRequest represents a request to rename (and split) one PDF
type PDFRenameFileRequest struct {
	Path    string          `json:"path"`
	Options renamer.Options `json:"-"`
	DryRun  bool            `json:"dry_run"`
}

// PDFRenameDirectoryRequest represents a request to rename every PDF in a directory
type PDFRenameDirectoryRequest struct {
	Directory string          `json:"directory"`
	Query     string          `json:"query"`
	Options   renamer.Options `json:"-"`
	DryRun    bool            `json:"dry_run"`
}

// PDFRenamePathsRequest represents a batch over explicit files and directories
type PDFRenamePathsRequest struct {
	Paths   []string        `json:"paths"`
	Options renamer.Options `json:"-"`
	DryRun  bool            `json:"dry_run"`
}

// PDFDetectFieldsRequest represents a request to inspect a PDF without writing outputs
type PDFDetectFieldsRequest struct {
	Path    string          `json:"path"`
	Options renamer.Options `json:"-"`
}

// Response Types

// PDFValidateFileResult represents the result of a PDF validation operation
type PDFValidateFileResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Message string `json:"message,omitempty"`
}

// PDFSearchDirectoryResult represents the result of a directory search
type PDFSearchDirectoryResult struct {
	Files       []FileInfo `json:"files"`
	TotalCount  int        `json:"total_count"`
	Directory   string     `json:"directory"`
	SearchQuery string     `json:"search_query,omitempty"`
}

// RenamedFile is one output of a rename run. Pages are one-based.
type RenamedFile struct {
	Source    string            `json:"source"`
	Filename  string            `json:"filename"`
	Path      string            `json:"path,omitempty"`
	StartPage int               `json:"start_page"`
	EndPage   int               `json:"end_page"`
	Size      int64             `json:"size"`
	Method    extraction.Method `json:"method"`
	Fields    detect.Fields     `json:"fields"`
}

// FailedFile is an input that produced no outputs.
type FailedFile struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// ArchiveInfo describes a written (or planned) ZIP bundle.
type ArchiveInfo struct {
	Filename string   `json:"filename"`
	Path     string   `json:"path,omitempty"`
	Entries  []string `json:"entries"`
	Size     int64    `json:"size"`
}

// PDFRenameResult represents the result of a rename run
type PDFRenameResult struct {
	RunID           string        `json:"run_id"`
	OutputDirectory string        `json:"output_directory"`
	DryRun          bool          `json:"dry_run"`
	Files           []RenamedFile `json:"files"`
	Failures        []FailedFile  `json:"failures,omitempty"`
	Archive         *ArchiveInfo  `json:"archive,omitempty"`
}

// PDFDetectFieldsResult represents detected records of one PDF
type PDFDetectFieldsResult struct {
	Path string `json:"path"`
	*renamer.Analysis
}

// PDFServerInfoResult represents server configuration and capabilities
type PDFServerInfoResult struct {
	ServerName       string     `json:"server_name"`
	Version          string     `json:"version"`
	InputDirectory   string     `json:"input_directory"`
	OutputDirectory  string     `json:"output_directory"`
	MaxFileSize      int64      `json:"max_file_size"`
	OCRAvailable     bool       `json:"ocr_available"`
	Defaults         Defaults   `json:"defaults"`
	DateFormats      []string   `json:"date_formats"`
	AvailableTools   []ToolInfo `json:"available_tools"`
	DirectoryContent []FileInfo `json:"directory_contents"`
}

// Defaults are the rename options applied when a request leaves them out.
type Defaults struct {
	OCR        bool   `json:"ocr"`
	DateFormat string `json:"date_format"`
	NamePolicy string `json:"name_policy"`
	Template   string `json:"template"`
	Anchor     string `json:"anchor"`
	Split      bool   `json:"split"`
	Archive    bool   `json:"archive"`
}

// ToolInfo represents information about an available tool
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
