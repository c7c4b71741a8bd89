package mcp

import (
	"fmt"
	"strings"

	"github.com/a3tai/mcp-pdf-renamer/internal/detect"
	"github.com/a3tai/mcp-pdf-renamer/internal/pdf"
)

// maxListedFiles limits directory listings in server info.
const maxListedFiles = 10

func (s *Server) formatPDFRenameResult(result *pdf.PDFRenameResult) string {
	var b strings.Builder

	verb := "Renamed"
	if result.DryRun {
		verb = "Would rename"
	}
	fmt.Fprintf(&b, "%s into %d file(s)\n", verb, len(result.Files))
	fmt.Fprintf(&b, "Output directory: %s\n", result.OutputDirectory)
	fmt.Fprintf(&b, "Run ID: %s\n", result.RunID)

	if len(result.Files) > 0 {
		b.WriteString("\nFiles:\n")
	}
	for i, f := range result.Files {
		fmt.Fprintf(&b, "%d. %s\n", i+1, f.Filename)
		fmt.Fprintf(&b, "   Source: %s (pages %s, text: %s)\n", f.Source, pageSpan(f.StartPage, f.EndPage), f.Method)
		writeFields(&b, "   ", f.Fields)
	}

	if a := result.Archive; a != nil {
		fmt.Fprintf(&b, "\nArchive: %s (%d entries, %d bytes)\n", a.Filename, len(a.Entries), a.Size)
		if a.Path != "" {
			fmt.Fprintf(&b, "   Path: %s\n", a.Path)
		}
	}

	if len(result.Failures) > 0 {
		fmt.Fprintf(&b, "\nFailed (%d):\n", len(result.Failures))
		for _, f := range result.Failures {
			fmt.Fprintf(&b, "- %s: %s\n", f.Source, f.Error)
		}
	}

	return b.String()
}

func (s *Server) formatPDFDetectFieldsResult(result *pdf.PDFDetectFieldsResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Detected %d record(s) in %s\n", len(result.Records), result.Path)
	fmt.Fprintf(&b, "Pages: %d\n", result.PageCount)
	fmt.Fprintf(&b, "Text extraction: %s\n", result.Method)

	for i, r := range result.Records {
		fmt.Fprintf(&b, "\nRecord %d (pages %s)\n", i+1, pageSpan(r.StartPage+1, r.EndPage+1))
		fmt.Fprintf(&b, "   Filename: %s\n", r.Filename)
		writeFields(&b, "   ", r.Fields)
	}

	if len(result.Warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return b.String()
}

func writeFields(b *strings.Builder, indent string, f detect.Fields) {
	field := func(label, value string) {
		if value == "" {
			value = "(not found)"
		}
		fmt.Fprintf(b, "%s%s: %s\n", indent, label, value)
	}

	field("Name", f.Name)
	field("Order code", f.OrderCode)
	field("Site code", f.SiteCode)
	field("Start date", dateLine(f.StartDateRaw, f.StartDate != nil))
	field("End date", dateLine(f.EndDateRaw, f.EndDate != nil))
}

func dateLine(raw string, parsed bool) string {
	switch {
	case raw == "":
		return ""
	case parsed:
		return raw
	default:
		return raw + " (unparsed)"
	}
}

func pageSpan(start, end int) string {
	if start == end {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d-%d", start, end)
}

func (s *Server) formatPDFSearchDirectoryResult(result *pdf.PDFSearchDirectoryResult) string {
	text := fmt.Sprintf("Found %d PDF file(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.SearchQuery != "" {
		text += fmt.Sprintf("Search query: %s\n", result.SearchQuery)
	}
	if len(result.Files) == 0 {
		return text
	}
	text += "\nFiles:\n"

	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
	}

	return text
}

func (s *Server) formatPDFServerInfoResult(result *pdf.PDFServerInfoResult) string {
	text := fmt.Sprintf("%s v%s - Server Information\n", result.ServerName, result.Version)
	text += fmt.Sprintf("Input Directory: %s\n", result.InputDirectory)
	text += fmt.Sprintf("Output Directory: %s\n", result.OutputDirectory)
	text += fmt.Sprintf("Max File Size: %d MB\n", result.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("OCR Available: %t\n\n", result.OCRAvailable)

	d := result.Defaults
	text += "Defaults:\n"
	text += fmt.Sprintf("  Template: %s\n", d.Template)
	text += fmt.Sprintf("  Date format: %s (supported: %s)\n", d.DateFormat, strings.Join(result.DateFormats, ", "))
	text += fmt.Sprintf("  Name policy: %s\n", d.NamePolicy)
	text += fmt.Sprintf("  Anchor: %q\n", d.Anchor)
	text += fmt.Sprintf("  OCR: %t, Split: %t, Archive: %t\n\n", d.OCR, d.Split, d.Archive)

	if len(result.DirectoryContent) > 0 {
		text += fmt.Sprintf("Directory Contents (%d PDF files found):\n", len(result.DirectoryContent))
		for i, file := range result.DirectoryContent {
			if i >= maxListedFiles {
				text += fmt.Sprintf("   ... and %d more files\n", len(result.DirectoryContent)-maxListedFiles)
				break
			}
			text += fmt.Sprintf("   %d. %s (%d bytes)\n", i+1, file.Name, file.Size)
		}
		text += "\n"
	} else {
		text += "Directory Contents: No PDF files found in input directory\n\n"
	}

	text += "Available Tools:\n"
	for _, tool := range result.AvailableTools {
		text += fmt.Sprintf("- %s: %s\n", tool.Name, tool.Description)
	}

	return text
}
