package security

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewPathValidator(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		name      string
		dir       string
		wantError bool
	}{
		{name: "valid directory", dir: tempDir},
		{name: "empty directory", dir: "", wantError: true},
		{name: "non-existent directory", dir: filepath.Join(tempDir, "later")},
		{name: "relative directory", dir: "slips"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator, err := NewPathValidator(tt.dir)
			if tt.wantError {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !filepath.IsAbs(validator.GetConfiguredDirectory()) {
				t.Errorf("Expected absolute directory, got %s", validator.GetConfiguredDirectory())
			}
		})
	}
}

func TestPathValidator_ValidatePath(t *testing.T) {
	tempDir := t.TempDir()
	validator, err := NewPathValidator(tempDir)
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}

	tests := []struct {
		name      string
		path      string
		wantError bool
	}{
		{name: "file inside", path: filepath.Join(tempDir, "slip.pdf")},
		{name: "nested file", path: filepath.Join(tempDir, "a", "b", "slip.pdf")},
		{name: "directory itself", path: tempDir},
		{name: "traversal", path: filepath.Join(tempDir, "..", "other.pdf"), wantError: true},
		{name: "sibling with shared prefix", path: tempDir + "-other/slip.pdf", wantError: true},
		{name: "outside", path: "/etc/passwd", wantError: true},
		{name: "empty", path: "", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidatePath(tt.path)
			if tt.wantError && err == nil {
				t.Errorf("Expected error for %s", tt.path)
			}
			if !tt.wantError && err != nil {
				t.Errorf("Unexpected error for %s: %v", tt.path, err)
			}
		})
	}
}

func TestPathValidator_SymlinkEscape(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()

	target := filepath.Join(outside, "secret.pdf")
	if err := os.WriteFile(target, []byte("%PDF-1.4"), 0o600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	link := filepath.Join(root, "link.pdf")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	validator, err := NewPathValidator(root)
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}

	if err := validator.ValidatePath(link); err == nil {
		t.Error("Expected symlink pointing outside the directory to be rejected")
	}
}

func TestPathValidator_Resolve(t *testing.T) {
	tempDir := t.TempDir()
	validator, err := NewPathValidator(tempDir)
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}
	root := validator.GetConfiguredDirectory()

	tests := []struct {
		name      string
		path      string
		want      string
		wantError bool
	}{
		{name: "relative", path: "inbox/slip.pdf", want: filepath.Join(root, "inbox", "slip.pdf")},
		{name: "absolute inside", path: filepath.Join(root, "slip.pdf"), want: filepath.Join(root, "slip.pdf")},
		{name: "null bytes stripped", path: "sl\x00ip.pdf", want: filepath.Join(root, "slip.pdf")},
		{name: "relative traversal", path: "../escape.pdf", wantError: true},
		{name: "empty", path: "", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validator.Resolve(tt.path)
			if tt.wantError {
				if err == nil {
					t.Errorf("Expected error, got %s", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %s, want %s", tt.path, got, tt.want)
			}
		})
	}
}

func TestPathValidator_ValidateDirectory(t *testing.T) {
	tempDir := t.TempDir()
	validator, err := NewPathValidator(tempDir)
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}

	file := filepath.Join(tempDir, "slip.pdf")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if err := validator.ValidateDirectory(tempDir); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if err := validator.ValidateDirectory(filepath.Join(tempDir, "missing")); err != nil {
		t.Errorf("Missing directory should be accepted: %v", err)
	}
	if err := validator.ValidateDirectory(file); err == nil {
		t.Error("Expected error for a file")
	}
	if err := validator.ValidateDirectory(filepath.Dir(tempDir)); err == nil {
		t.Error("Expected error for parent directory")
	}
}
