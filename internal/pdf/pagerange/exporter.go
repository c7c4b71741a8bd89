// Package pagerange cuts page ranges out of a PDF into standalone documents.
package pagerange

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/a3tai/mcp-pdf-renamer/internal/pdf/errors"
)

// PageRange is an inclusive, zero-based page range.
type PageRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Pages returns the number of pages in the range.
func (r PageRange) Pages() int {
	return r.End - r.Start + 1
}

// Selection renders the range as a one-based pdfcpu page selection.
func (r PageRange) Selection() string {
	if r.Start == r.End {
		return fmt.Sprintf("%d", r.Start+1)
	}
	return fmt.Sprintf("%d-%d", r.Start+1, r.End+1)
}

var disableConfigDir sync.Once

// Exporter materialises page ranges with pdfcpu. The source bytes are only
// ever read.
type Exporter struct{}

// NewExporter creates an Exporter. pdfcpu's on-disk configuration directory
// is disabled so the process never writes outside its own files.
func NewExporter() *Exporter {
	disableConfigDir.Do(api.DisableConfigDir)
	return &Exporter{}
}

func newConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	// Classic xref tables keep the output readable by simpler parsers.
	conf.WriteObjectStream = false
	conf.WriteXRefStream = false
	return conf
}

// PageCount returns the number of pages in data.
func (e *Exporter) PageCount(data []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(data), newConfiguration())
	if err != nil {
		return 0, errors.WrapError(errors.ErrorTypeCorruptedData, "failed to count pages", err)
	}
	return n, nil
}

// Export returns a new PDF holding pages from..to (zero-based, inclusive).
func (e *Exporter) Export(data []byte, from, to int) ([]byte, error) {
	count, err := e.PageCount(data)
	if err != nil {
		return nil, err
	}

	r := PageRange{Start: from, End: to}
	if from < 0 || to < from || to >= count {
		return nil, errors.NewPDFError(errors.ErrorTypeInvalidPageRange, "page range out of bounds").
			WithContext(fmt.Sprintf("range %d-%d of %d pages", from, to, count))
	}

	var out bytes.Buffer
	if err := api.Trim(bytes.NewReader(data), &out, []string{r.Selection()}, newConfiguration()); err != nil {
		return nil, errors.WrapError(errors.ErrorTypeExportFailed, "failed to export pages", err).
			WithContext("pages " + r.Selection())
	}

	return out.Bytes(), nil
}
