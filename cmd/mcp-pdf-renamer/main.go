package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/a3tai/mcp-pdf-renamer/internal/app"
	"github.com/a3tai/mcp-pdf-renamer/internal/config"
	"github.com/a3tai/mcp-pdf-renamer/internal/logger"
	"github.com/a3tai/mcp-pdf-renamer/internal/mcp"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

func main() {
	cfg, err := config.LoadFromFlags()
	if stderrors.Is(err, config.ErrVersionRequested) {
		printVersion(os.Stdout)
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(2)
	}

	// Logs always go to stderr; in stdio mode stdout carries the protocol.
	log := logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr})

	if version != "dev" {
		cfg.Version = version
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

// run serves until ctx is cancelled or the transport ends.
func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	log.Debug("starting with configuration", "config", cfg.String())

	pdfService, err := app.NewService(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create PDF service: %w", err)
	}

	server, err := mcp.NewServer(cfg, pdfService, log)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	return server.Run(ctx)
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "MCP PDF Renamer\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
