package descriptions

import "sort"

// Tool descriptions shown to MCP clients, with examples and workflows.

const (
	PDFRenameFileDescription = `Rename an order-slip PDF after the person, order code and dates printed on it, splitting merged slips into one file per record.

**When to use:** A PDF holds one or more order slips and needs a meaningful filename such as "John_Smith_2025.10.05-10.09.pdf".

**How it works:** Page text is read from the PDF (OCR is used for scanned pages when enabled). Every page containing the anchor phrase (default "Start Date") starts a new record. Each record's name, order code, site code and start/end dates are detected and combined through the filename template. Outputs are written to the configured output directory.

**Examples:**
• Rename a single slip: "Rename slips/october.pdf"
• Put the order code first: template "Order_Name_DateRange"
• Keep a merged file whole: split=false
• Preview names without writing files: dry_run=true

**Best practices:** Run pdf_detect_fields first on unfamiliar layouts to check what is detected. Missing fields are not errors; they are left out of the name or replaced by "UnknownDate".`

	PDFRenameDirectoryDescription = `Rename every order-slip PDF in a directory in one batch.

**When to use:** A folder of slips (single or merged) needs per-record renamed outputs, optionally bundled into a ZIP archive.

**How it works:** Each PDF is processed independently; a document that cannot be read is reported as a failure without stopping the others. With archive=true and more than one output, a ZIP named after the overall date range (for example "OrderSlips_2025.10.01-10.31.zip") is written instead of individual files.

**Examples:**
• Rename the whole inbox: directory "inbox"
• Only October scans: query "oct"
• One archive for the batch: archive=true

**Best practices:** Use dry_run=true on large batches to review names first.`

	PDFDetectFieldsDescription = `Show the records and fields detected in an order-slip PDF without writing anything.

**When to use:** Checking how a document will be split and named, or debugging a layout the renamer gets wrong.

**Returned per record:** page range, person name, order code, site code, raw and parsed start/end dates, and the filename that would be used. The text extraction method (text, ocr or none) and any warnings are also reported.`

	PDFValidateFileDescription = `Verify a PDF file is readable before renaming it.

**When to use:** Before processing uploaded or unknown files.

**Checks:** the path is inside the configured directory, the file has a .pdf extension, is not empty, is within the size limit, and opens as a PDF.`

	PDFSearchDirectoryDescription = `Find PDF files in the configured input directory or a subdirectory of it.

**When to use:** Discovering which slips are available before renaming them. An optional query filters by filename (case-insensitive substring).`

	PDFServerInfoDescription = `Report the renamer's configuration: input and output directories, size limit, OCR availability, default date format, filename template, name policy, anchor phrase, and the available tools.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"pdf_rename_file":      PDFRenameFileDescription,
	"pdf_rename_directory": PDFRenameDirectoryDescription,
	"pdf_detect_fields":    PDFDetectFieldsDescription,
	"pdf_validate_file":    PDFValidateFileDescription,
	"pdf_search_directory": PDFSearchDirectoryDescription,
	"pdf_server_info":      PDFServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the sorted tool names
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
