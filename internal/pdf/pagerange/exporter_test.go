package pagerange

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-pdf-renamer/internal/pdf/errors"
	"github.com/a3tai/mcp-pdf-renamer/internal/pdf/pdftest"
)

func tenPagePDF() []byte {
	texts := make([]string, 10)
	for i := range texts {
		texts[i] = fmt.Sprintf("marker page %d", i)
	}
	return pdftest.Pages(texts...)
}

func pageTexts(t *testing.T, data []byte) []string {
	t.Helper()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	out := make([]string, r.NumPage())
	for i := range out {
		txt, err := r.Page(i + 1).GetPlainText(nil)
		require.NoError(t, err)
		out[i] = strings.TrimSpace(txt)
	}
	return out
}

func TestPageCount(t *testing.T) {
	n, err := NewExporter().PageCount(tenPagePDF())
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}

func TestExportRange(t *testing.T) {
	src := tenPagePDF()
	orig := append([]byte(nil), src...)
	e := NewExporter()

	out, err := e.Export(src, 2, 5)
	require.NoError(t, err)

	n, err := e.PageCount(out)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []string{"marker page 2", "marker page 3", "marker page 4", "marker page 5"}, pageTexts(t, out))
	assert.Equal(t, orig, src, "source must not be modified")
}

func TestExportSinglePageAndWhole(t *testing.T) {
	src := tenPagePDF()
	e := NewExporter()

	one, err := e.Export(src, 9, 9)
	require.NoError(t, err)
	assert.Equal(t, []string{"marker page 9"}, pageTexts(t, one))

	all, err := e.Export(src, 0, 9)
	require.NoError(t, err)
	assert.Len(t, pageTexts(t, all), 10)
}

func TestExportInvalidRange(t *testing.T) {
	src := tenPagePDF()
	e := NewExporter()

	for _, r := range []PageRange{{-1, 2}, {5, 4}, {3, 10}} {
		_, err := e.Export(src, r.Start, r.End)
		require.Error(t, err, "%v", r)
		assert.Equal(t, errors.ErrorTypeInvalidPageRange, errors.TypeOf(err))
	}
}

func TestExportCorruptInput(t *testing.T) {
	_, err := NewExporter().Export([]byte("not a pdf"), 0, 0)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeCorruptedData, errors.TypeOf(err))
}

func TestPageRangeSelection(t *testing.T) {
	assert.Equal(t, "3-6", PageRange{Start: 2, End: 5}.Selection())
	assert.Equal(t, "1", PageRange{Start: 0, End: 0}.Selection())
	assert.Equal(t, 4, PageRange{Start: 2, End: 5}.Pages())
}
