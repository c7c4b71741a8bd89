// Command pdf-rename names and splits order-slip PDFs from the command line.
//
//	pdf-rename [flags] <file-or-directory>...
//
// Paths are resolved against --dir (default: the working directory) and must
// stay inside it. Outputs go to --out (default: <dir>/renamed).
package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/a3tai/mcp-pdf-renamer/internal/app"
	"github.com/a3tai/mcp-pdf-renamer/internal/config"
	"github.com/a3tai/mcp-pdf-renamer/internal/logger"
	"github.com/a3tai/mcp-pdf-renamer/internal/pdf"
)

var version = "dev" // This will be set by build flags

// Exit codes
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[0], os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one batch and returns the process exit code. The batch fails
// only when no document produced an output.
func run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(name, args)
	if stderrors.Is(err, config.ErrVersionRequested) {
		fmt.Fprintf(stdout, "pdf-rename %s\n", version)
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "pdf-rename: %v\n", err)
		return exitUsage
	}
	if len(cfg.Args) == 0 {
		fmt.Fprintf(stderr, "usage: %s [flags] <file-or-directory>...\n", name)
		return exitUsage
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: stderr})

	svc, err := app.NewService(cfg, log)
	if err != nil {
		fmt.Fprintf(stderr, "pdf-rename: %v\n", err)
		return exitFailed
	}

	result, err := svc.PDFRenamePaths(ctx, pdf.PDFRenamePathsRequest{
		Paths:   cfg.Args,
		Options: cfg.RenameOptions(),
		DryRun:  cfg.DryRun,
	})
	if err != nil {
		fmt.Fprintf(stderr, "pdf-rename: %v\n", err)
		return exitFailed
	}

	if cfg.JSONOutput {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fmt.Fprintf(stderr, "pdf-rename: %v\n", err)
			return exitFailed
		}
	} else {
		printText(stdout, result)
	}

	if len(result.Files) == 0 && len(result.Failures) > 0 {
		return exitFailed
	}
	return exitOK
}

func printText(w io.Writer, result *pdf.PDFRenameResult) {
	for _, f := range result.Files {
		pages := fmt.Sprintf("%d", f.StartPage)
		if f.EndPage != f.StartPage {
			pages = fmt.Sprintf("%d-%d", f.StartPage, f.EndPage)
		}
		target := f.Filename
		if f.Path != "" {
			target = f.Path
		}
		fmt.Fprintf(w, "%s [pages %s] -> %s\n", f.Source, pages, target)
	}

	if a := result.Archive; a != nil {
		target := a.Filename
		if a.Path != "" {
			target = a.Path
		}
		fmt.Fprintf(w, "archive -> %s (%d entries)\n", target, len(a.Entries))
	}

	for _, f := range result.Failures {
		fmt.Fprintf(w, "FAILED %s: %s\n", f.Source, f.Error)
	}

	if result.DryRun {
		fmt.Fprintln(w, "dry run: nothing written")
	}
}
