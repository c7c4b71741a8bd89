package renamer

import (
	"archive/zip"
	"bytes"
	"fmt"
	"time"
)

// Archive is a ZIP bundle of batch artifacts.
type Archive struct {
	Filename string   `json:"filename"`
	Entries  []string `json:"entries"`
	Bytes    []byte   `json:"-"`
}

// BuildArchive deflates artifacts into a ZIP named name. Entry names are the
// artifact filenames, which must already be unique.
func BuildArchive(name string, artifacts []Artifact) (*Archive, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	now := time.Now()

	entries := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     a.Filename,
			Method:   zip.Deflate,
			Modified: now,
		})
		if err != nil {
			return nil, fmt.Errorf("create archive entry %s: %w", a.Filename, err)
		}
		if _, err := w.Write(a.Bytes); err != nil {
			return nil, fmt.Errorf("write archive entry %s: %w", a.Filename, err)
		}
		entries = append(entries, a.Filename)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}

	return &Archive{Filename: name, Entries: entries, Bytes: buf.Bytes()}, nil
}
