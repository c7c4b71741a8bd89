package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/a3tai/mcp-pdf-renamer/internal/pdf/errors"
	"github.com/a3tai/mcp-pdf-renamer/internal/pdf/extraction"
)

// Validator handles PDF file validation operations
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new PDF validator with the specified constraints
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// ValidateFile performs comprehensive validation on a PDF file
func (v *Validator) ValidateFile(req PDFValidateFileRequest) (*PDFValidateFileResult, error) {
	result := &PDFValidateFileResult{
		Path:  req.Path,
		Valid: false,
	}

	if err := v.validatePDFFile(req.Path); err != nil {
		result.Message = err.Error()
		return result, nil //nolint:nilerr // Return result with validation error, not a processing error
	}

	result.Valid = true
	return result, nil
}

func (v *Validator) validatePDFFile(filePath string) error {
	if filePath == "" {
		return fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", filePath)
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}

	if err := v.ValidateFileInfo(filePath, fileInfo); err != nil {
		return err
	}

	f, _, err := pdf.Open(filePath)
	if err != nil {
		return errors.WrapError(errors.ErrorTypeCorruptedData, "invalid PDF file", err).WithFile(filePath)
	}
	defer f.Close()

	return nil
}

// IsValidPDF performs a quick check to see if a file is a valid PDF
func (v *Validator) IsValidPDF(filePath string) bool {
	return v.validatePDFFile(filePath) == nil
}

// ValidateFileInfo performs basic validation on file info without opening the PDF
func (v *Validator) ValidateFileInfo(filePath string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	if !isPDFName(filePath) {
		return fmt.Errorf("file is not a PDF: %s", filePath)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", filePath)
	}

	if fileInfo.Size() > v.maxFileSize {
		return errors.NewPDFError(errors.ErrorTypeFileTooLarge, "file too large").
			WithContext(fmt.Sprintf("%d bytes (max: %d bytes)", fileInfo.Size(), v.maxFileSize)).
			WithFile(filePath)
	}

	return nil
}

// ValidateContent checks bytes already read from filePath.
func (v *Validator) ValidateContent(filePath string, data []byte) error {
	if int64(len(data)) > v.maxFileSize {
		return errors.NewPDFError(errors.ErrorTypeFileTooLarge, "file too large").
			WithContext(fmt.Sprintf("%d bytes (max: %d bytes)", len(data), v.maxFileSize)).
			WithFile(filePath)
	}
	if !extraction.HasHeader(data) {
		return errors.NewPDFError(errors.ErrorTypeInvalidHeader, "missing %PDF- header").WithFile(filePath)
	}
	return nil
}

func isPDFName(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}
