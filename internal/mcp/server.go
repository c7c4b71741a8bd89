package mcp

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/mcp-pdf-renamer/internal/config"
	"github.com/a3tai/mcp-pdf-renamer/internal/dates"
	"github.com/a3tai/mcp-pdf-renamer/internal/descriptions"
	"github.com/a3tai/mcp-pdf-renamer/internal/detect"
	"github.com/a3tai/mcp-pdf-renamer/internal/logger"
	"github.com/a3tai/mcp-pdf-renamer/internal/naming"
	"github.com/a3tai/mcp-pdf-renamer/internal/pdf"
	"github.com/a3tai/mcp-pdf-renamer/internal/renamer"
)

// EndpointPath is where the streamable HTTP transport is mounted.
const EndpointPath = "/mcp"

const shutdownTimeout = 5 * time.Second

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	mcpServer  *server.MCPServer
	logger     *slog.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service, log *slog.Logger) (*Server, error) {
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
		server.WithRecovery(),
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		mcpServer:  mcpServer,
		logger:     log,
	}

	s.registerTools()

	return s, nil
}

// MCPServer exposes the underlying server, e.g. for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func renameOptionFlags() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithBoolean("ocr",
			mcp.Description("Allow the OCR fallback for scanned pages (server default applies when omitted)"),
		),
		mcp.WithString("date_format",
			mcp.Description("How printed dates are read"),
			mcp.Enum(dates.Policies()...),
		),
		mcp.WithString("name_policy",
			mcp.Description("Which name wins when several are found"),
			mcp.Enum("first", "longest", "most-tokens"),
		),
		mcp.WithString("template",
			mcp.Description("Filename template built from Name, Order, Site, DateRange, Start, End, e.g. Order_Name_DateRange"),
		),
		mcp.WithString("anchor",
			mcp.Description("Phrase whose page starts a new record (default \"Start Date\")"),
		),
		mcp.WithBoolean("split",
			mcp.Description("Split merged documents into one file per record"),
		),
		mcp.WithBoolean("archive",
			mcp.Description("Bundle more than one output into a single ZIP"),
		),
		mcp.WithBoolean("dry_run",
			mcp.Description("Report the names without writing files"),
			mcp.DefaultBool(false),
		),
	}
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	renameFileOpts := append([]mcp.ToolOption{
		mcp.WithDescription(descriptions.GetToolDescription("pdf_rename_file")),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file, absolute or relative to the input directory"),
		),
	}, renameOptionFlags()...)
	s.addTool(mcp.NewTool("pdf_rename_file", renameFileOpts...), s.handlePDFRenameFile)

	renameDirOpts := append([]mcp.ToolOption{
		mcp.WithDescription(descriptions.GetToolDescription("pdf_rename_directory")),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("directory",
			mcp.Description("Directory to process (uses the input directory if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Optional filename filter"),
		),
	}, renameOptionFlags()...)
	s.addTool(mcp.NewTool("pdf_rename_directory", renameDirOpts...), s.handlePDFRenameDirectory)

	s.addTool(mcp.NewTool(
		"pdf_detect_fields",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_detect_fields")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file, absolute or relative to the input directory"),
		),
		mcp.WithBoolean("ocr", mcp.Description("Allow the OCR fallback for scanned pages")),
		mcp.WithString("date_format", mcp.Description("How printed dates are read"), mcp.Enum(dates.Policies()...)),
		mcp.WithString("name_policy", mcp.Description("Which name wins when several are found"),
			mcp.Enum("first", "longest", "most-tokens")),
		mcp.WithString("template", mcp.Description("Filename template used for the proposed names")),
		mcp.WithString("anchor", mcp.Description("Phrase whose page starts a new record")),
		mcp.WithBoolean("split", mcp.Description("Split merged documents into records")),
	), s.handlePDFDetectFields)

	s.addTool(mcp.NewTool(
		"pdf_validate_file",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_validate_file")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file"),
		),
	), s.handlePDFValidateFile)

	s.addTool(mcp.NewTool(
		"pdf_search_directory",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_search_directory")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("directory",
			mcp.Description("Directory path to search (uses default if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Optional search query for fuzzy matching"),
		),
	), s.handlePDFSearchDirectory)

	s.addTool(mcp.NewTool(
		"pdf_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_server_info")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handlePDFServerInfo)
}

// addTool registers a handler whose context carries the tool name for logging.
func (s *Server) addTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	name := tool.Name
	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx = logger.WithTool(ctx, name)
		start := time.Now()
		result, err := handler(ctx, request)
		logger.FromContext(ctx, s.logger).Debug("tool call finished",
			"duration", time.Since(start),
			"is_error", result != nil && result.IsError,
		)
		return result, err
	})
}

// renameOptions applies the request arguments over the service defaults.
func (s *Server) renameOptions(request mcp.CallToolRequest) (renamer.Options, error) {
	opts := s.pdfService.Defaults()

	opts.AllowOCR = request.GetBool("ocr", opts.AllowOCR)
	opts.Split = request.GetBool("split", opts.Split)
	opts.Archive = request.GetBool("archive", opts.Archive)

	if v := request.GetString("date_format", ""); v != "" {
		p, err := dates.ParsePolicy(v)
		if err != nil {
			return opts, err
		}
		opts.DatePolicy = p
	}
	if v := request.GetString("name_policy", ""); v != "" {
		p, err := detect.ParseNamePolicy(v)
		if err != nil {
			return opts, err
		}
		opts.NamePolicy = p
	}
	if v := request.GetString("template", ""); v != "" {
		t, err := naming.ParseTemplate(v)
		if err != nil {
			return opts, err
		}
		opts.Template = t
	}
	if v := strings.TrimSpace(request.GetString("anchor", "")); v != "" {
		opts.Anchor = v
	}

	return opts, nil
}

// Handler functions
func (s *Server) handlePDFRenameFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts, err := s.renameOptions(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.PDFRenameFile(ctx, pdf.PDFRenameFileRequest{
		Path:    path,
		Options: opts,
		DryRun:  request.GetBool("dry_run", false),
	})
	if err != nil {
		logger.FromContext(ctx, s.logger).Warn("rename failed", "path", path, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatPDFRenameResult(result)), nil
}

func (s *Server) handlePDFRenameDirectory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts, err := s.renameOptions(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.PDFRenameDirectory(ctx, pdf.PDFRenameDirectoryRequest{
		Directory: request.GetString("directory", ""),
		Query:     request.GetString("query", ""),
		Options:   opts,
		DryRun:    request.GetBool("dry_run", false),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatPDFRenameResult(result)), nil
}

func (s *Server) handlePDFDetectFields(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts, err := s.renameOptions(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.PDFDetectFields(ctx, pdf.PDFDetectFieldsRequest{Path: path, Options: opts})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatPDFDetectFieldsResult(result)), nil
}

func (s *Server) handlePDFValidateFile(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.PDFValidateFile(pdf.PDFValidateFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable", result.Path)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePDFSearchDirectory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := pdf.PDFSearchDirectoryRequest{
		Directory: request.GetString("directory", ""),
		Query:     request.GetString("query", ""),
	}

	result, err := s.pdfService.PDFSearchDirectory(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatPDFSearchDirectoryResult(result)), nil
}

func (s *Server) handlePDFServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names := descriptions.GetAllToolNames()
	tools := make([]pdf.ToolInfo, len(names))
	for i, name := range names {
		tools[i] = pdf.ToolInfo{Name: name, Description: firstLine(descriptions.GetToolDescription(name))}
	}

	result := s.pdfService.GetServerInfo(s.config.ServerName, s.config.Version, tools)
	return mcp.NewToolResultText(s.formatPDFServerInfoResult(result)), nil
}

// Run starts the MCP server in the configured mode and returns when ctx is
// cancelled or the transport fails.
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve speaks MCP over the given streams.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Info("starting MCP server", "transport", "stdio", "directory", s.config.PDFDirectory)

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))

	err := stdio.Listen(ctx, in, out)
	if err != nil && !stderrors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves the streamable HTTP transport until ctx is done
func (s *Server) runServerMode(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle(EndpointPath, server.NewStreamableHTTPServer(s.mcpServer))

	httpServer := &http.Server{
		Addr:              s.config.Address(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting MCP server", "transport", "http", "address", httpServer.Addr, "endpoint", EndpointPath)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	s.logger.Info("MCP server stopped")
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
