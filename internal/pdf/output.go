package pdf

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/a3tai/mcp-pdf-renamer/internal/naming"
	"github.com/a3tai/mcp-pdf-renamer/internal/pdf/errors"
)

// maxCollisionSuffix bounds the search for a free filename.
const maxCollisionSuffix = 1000

// Output writes artifacts into a single directory without overwriting.
type Output struct {
	dir string
}

// NewOutput returns an Output rooted at dir, creating it if needed.
func NewOutput(dir string) (*Output, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, errors.WrapError(errors.ErrorTypeWriteFailed, "cannot create output directory", err).WithFile(abs)
	}
	return &Output{dir: abs}, nil
}

// Directory returns the absolute output directory.
func (o *Output) Directory() string {
	return o.dir
}

// Write stores data under name. When name is taken the file is written as
// name_2, name_3, ... and the path actually used is returned.
func (o *Output) Write(name string, data []byte) (string, error) {
	if !naming.IsSafe(name) {
		return "", errors.NewPDFError(errors.ErrorTypeWriteFailed, "unsafe output filename").WithContext(name)
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	candidate := name
	for n := 2; n <= maxCollisionSuffix; n++ {
		path := filepath.Join(o.dir, candidate)
		err := writeExclusive(path, data)
		if err == nil {
			return path, nil
		}
		if !stderrors.Is(err, os.ErrExist) {
			return "", errors.WrapError(errors.ErrorTypeWriteFailed, "cannot write output", err).WithFile(path)
		}
		candidate = fmt.Sprintf("%s_%d%s", base, n, ext)
	}

	return "", errors.NewPDFError(errors.ErrorTypeWriteFailed, "no free output filename").WithContext(name)
}

func writeExclusive(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
