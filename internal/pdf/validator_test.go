package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/a3tai/mcp-pdf-renamer/internal/pdf/errors"
	"github.com/a3tai/mcp-pdf-renamer/internal/pdf/pdftest"
)

func TestValidator_ValidateFile(t *testing.T) {
	validator := NewValidator(1024 * 1024) // 1MB limit
	tempDir := t.TempDir()

	files := map[string][]byte{
		"slip.pdf":    pdftest.Pages("Employee Name: John Smith"),
		"garbage.pdf": []byte("this is not a pdf at all"),
		"empty.pdf":   {},
		"notes.txt":   []byte("plain text"),
		"large.pdf":   make([]byte, 2*1024*1024),
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(tempDir, name), content, 0o644); err != nil {
			t.Fatalf("failed to create test file %s: %v", name, err)
		}
	}

	tests := []struct {
		name        string
		path        string
		expectValid bool
	}{
		{name: "empty path", path: "", expectValid: false},
		{name: "non-existent file", path: filepath.Join(tempDir, "missing.pdf"), expectValid: false},
		{name: "directory", path: tempDir, expectValid: false},
		{name: "valid pdf", path: filepath.Join(tempDir, "slip.pdf"), expectValid: true},
		{name: "not parseable", path: filepath.Join(tempDir, "garbage.pdf"), expectValid: false},
		{name: "empty file", path: filepath.Join(tempDir, "empty.pdf"), expectValid: false},
		{name: "wrong extension", path: filepath.Join(tempDir, "notes.txt"), expectValid: false},
		{name: "too large", path: filepath.Join(tempDir, "large.pdf"), expectValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := validator.ValidateFile(PDFValidateFileRequest{Path: tt.path})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if result.Valid != tt.expectValid {
				t.Errorf("expected Valid=%v but got %v (%s)", tt.expectValid, result.Valid, result.Message)
			}
			if result.Path != tt.path {
				t.Errorf("expected Path=%s but got %s", tt.path, result.Path)
			}
			if !tt.expectValid && result.Message == "" {
				t.Errorf("expected validation message for invalid file")
			}
		})
	}
}

func TestValidator_ValidateContent(t *testing.T) {
	validator := NewValidator(64)

	tests := []struct {
		name     string
		data     []byte
		wantType errors.ErrorType
		wantOK   bool
	}{
		{name: "header present", data: []byte("%PDF-1.4\n"), wantOK: true},
		{name: "header missing", data: []byte("hello"), wantType: errors.ErrorTypeInvalidHeader},
		{name: "too large", data: make([]byte, 65), wantType: errors.ErrorTypeFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateContent("x.pdf", tt.data)
			if tt.wantOK {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if got := errors.TypeOf(err); got != tt.wantType {
				t.Errorf("expected error type %v but got %v (%v)", tt.wantType, got, err)
			}
		})
	}
}

func TestValidator_IsValidPDF(t *testing.T) {
	validator := NewValidator(1024 * 1024)
	path := filepath.Join(t.TempDir(), "slip.pdf")
	if err := os.WriteFile(path, pdftest.Pages("page"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	if !validator.IsValidPDF(path) {
		t.Errorf("expected %s to be valid", path)
	}
	if validator.IsValidPDF(path + ".missing") {
		t.Errorf("expected missing file to be invalid")
	}
}
