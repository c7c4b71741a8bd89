package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-pdf-renamer/internal/pdf/pdftest"
)

type fakeEngine struct {
	available bool
	pages     []string
	err       error
	calls     int
}

func (f *fakeEngine) Available() bool { return f.available }

func (f *fakeEngine) RecognizePages(context.Context, []byte) ([]string, error) {
	f.calls++
	return f.pages, f.err
}

func TestExtractEmbeddedText(t *testing.T) {
	data := pdftest.Build(
		[]string{"ORDER SLIP", "Employee Name: Maria Garcia"},
		nil,
		[]string{"Start Date : 05-Oct-2025"},
	)
	engine := &fakeEngine{available: true}

	res := NewExtractor(DefaultConfig(), engine, nil).Extract(context.Background(), data, true)

	assert.Equal(t, MethodText, res.Method)
	require.Len(t, res.Pages, 3)
	assert.Contains(t, res.Pages[0], "ORDER SLIP\nEmployee Name: Maria Garcia")
	assert.Equal(t, "", strings.TrimSpace(res.Pages[1]))
	assert.Contains(t, res.Pages[2], "Start Date : 05-Oct-2025")
	assert.Zero(t, engine.calls, "OCR must not run when text exists")
}

func TestExtractFallbacks(t *testing.T) {
	blank := pdftest.Build(nil, nil)
	corrupt := []byte("%PDF-1.4\ngarbage without xref")

	tests := []struct {
		name       string
		data       []byte
		cfg        Config
		allowOCR   bool
		engine     *fakeEngine
		wantMethod Method
		wantPages  []string
		wantCalls  int
	}{
		{
			name:       "blank pages use OCR",
			data:       blank,
			cfg:        DefaultConfig(),
			allowOCR:   true,
			engine:     &fakeEngine{available: true, pages: []string{"Name: Ann Lee", "p2"}},
			wantMethod: MethodOCR,
			wantPages:  []string{"Name: Ann Lee", "p2"},
			wantCalls:  1,
		},
		{
			name:       "corrupt document uses OCR",
			data:       corrupt,
			cfg:        DefaultConfig(),
			allowOCR:   true,
			engine:     &fakeEngine{available: true, pages: []string{"scan"}},
			wantMethod: MethodOCR,
			wantPages:  []string{"scan"},
			wantCalls:  1,
		},
		{
			name:       "OCR disabled by caller",
			data:       corrupt,
			cfg:        DefaultConfig(),
			allowOCR:   false,
			engine:     &fakeEngine{available: true},
			wantMethod: MethodNone,
			wantPages:  []string{""},
		},
		{
			name:       "OCR unavailable",
			data:       corrupt,
			cfg:        DefaultConfig(),
			allowOCR:   true,
			engine:     &fakeEngine{available: false},
			wantMethod: MethodNone,
			wantPages:  []string{""},
		},
		{
			name:       "blank trigger off keeps blank pages",
			data:       blank,
			cfg:        Config{FallbackOnError: true},
			allowOCR:   true,
			engine:     &fakeEngine{available: true, pages: []string{"x"}},
			wantMethod: MethodNone,
			wantPages:  []string{"", ""},
		},
		{
			name:       "error trigger off",
			data:       corrupt,
			cfg:        Config{FallbackOnBlank: true},
			allowOCR:   true,
			engine:     &fakeEngine{available: true, pages: []string{"x"}},
			wantMethod: MethodNone,
			wantPages:  []string{""},
		},
		{
			name:       "OCR failure degrades",
			data:       corrupt,
			cfg:        DefaultConfig(),
			allowOCR:   true,
			engine:     &fakeEngine{available: true, err: errors.New("tesseract crashed")},
			wantMethod: MethodNone,
			wantPages:  []string{""},
			wantCalls:  1,
		},
		{
			name:       "oversized input",
			data:       pdftest.Pages("Name: Ann Lee"),
			cfg:        Config{MaxFileSize: 10},
			allowOCR:   false,
			engine:     &fakeEngine{},
			wantMethod: MethodNone,
			wantPages:  []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewExtractor(tt.cfg, tt.engine, nil).Extract(context.Background(), tt.data, tt.allowOCR)

			assert.Equal(t, tt.wantMethod, res.Method)
			assert.Equal(t, tt.wantPages, trimAll(res.Pages))
			assert.Equal(t, tt.wantCalls, tt.engine.calls)
		})
	}
}

func TestExtractWithoutEngine(t *testing.T) {
	res := NewExtractor(DefaultConfig(), nil, nil).Extract(context.Background(), []byte("plain text"), true)

	assert.Equal(t, MethodNone, res.Method)
	assert.Equal(t, []string{""}, res.Pages)
	assert.False(t, res.HasText())
	assert.NotEmpty(t, res.Warnings)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "office\nA B\n12", normalize("o\ufb03ce\r\nA\u00a0B\r\uff11\uff12"))
}

func TestHasHeader(t *testing.T) {
	assert.True(t, HasHeader([]byte("%PDF-1.7\n")))
	assert.True(t, HasHeader(append([]byte("junk\n"), []byte("%PDF-1.4")...)))
	assert.False(t, HasHeader([]byte("hello")))
	assert.False(t, HasHeader(append(make([]byte, 2000), []byte("%PDF-1.4")...)))
}

func trimAll(pages []string) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = strings.TrimSpace(p)
	}
	return out
}
