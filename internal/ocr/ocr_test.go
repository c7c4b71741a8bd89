package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner renders `pages` images on pdftoppm and echoes the image name
// on tesseract.
type fakeRunner struct {
	pages     int
	failOn    string
	rasterErr error
	calls     []string
	tmpDir    string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, name+" "+strings.Join(args, " "))

	switch name {
	case "pdftoppm":
		if f.rasterErr != nil {
			return nil, []byte("bad pdf"), f.rasterErr
		}
		prefix := args[len(args)-1]
		f.tmpDir = filepath.Dir(prefix)
		for i := f.pages; i >= 1; i-- {
			img := fmt.Sprintf("%s-%02d.png", prefix, i)
			if err := os.WriteFile(img, []byte("png"), 0o600); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	case "tesseract":
		base := filepath.Base(args[0])
		if base == f.failOn {
			return nil, []byte("boom"), errors.New("exit status 1")
		}
		return []byte("text " + base), nil, nil
	}
	return nil, nil, fmt.Errorf("unexpected command %s", name)
}

func found(string) (string, error)   { return "/usr/bin/x", nil }
func missing(string) (string, error) { return "", errors.New("not found") }

func TestRecognizePages(t *testing.T) {
	r := &fakeRunner{pages: 3}
	engine := NewTesseract(Config{DPI: 150, PSM: 6}, WithRunner(r), WithLookPath(found))

	pages, err := engine.RecognizePages(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, []string{"text page-01.png", "text page-02.png", "text page-03.png"}, pages)

	require.Len(t, r.calls, 4)
	assert.Contains(t, r.calls[0], "pdftoppm -r 150 -png ")
	assert.Contains(t, r.calls[1], "stdout -l eng --psm 6")

	_, statErr := os.Stat(r.tmpDir)
	assert.True(t, os.IsNotExist(statErr), "temp dir should be removed")
}

func TestRecognizePagesKeepsIndexesOnPageFailure(t *testing.T) {
	r := &fakeRunner{pages: 3, failOn: "page-02.png"}
	engine := NewTesseract(Config{}, WithRunner(r), WithLookPath(found))

	pages, err := engine.RecognizePages(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, []string{"text page-01.png", "", "text page-03.png"}, pages)
}

func TestRecognizePagesMaxPages(t *testing.T) {
	r := &fakeRunner{pages: 5}
	engine := NewTesseract(Config{MaxPages: 2}, WithRunner(r), WithLookPath(found))

	pages, err := engine.RecognizePages(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Len(t, pages, 2)
}

func TestRecognizePagesErrors(t *testing.T) {
	t.Run("unavailable", func(t *testing.T) {
		engine := NewTesseract(Config{}, WithRunner(&fakeRunner{}), WithLookPath(missing))
		assert.False(t, engine.Available())

		_, err := engine.RecognizePages(context.Background(), nil)
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("rasterise failure", func(t *testing.T) {
		r := &fakeRunner{rasterErr: errors.New("exit status 99")}
		engine := NewTesseract(Config{}, WithRunner(r), WithLookPath(found))

		_, err := engine.RecognizePages(context.Background(), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad pdf")
	})

	t.Run("no images", func(t *testing.T) {
		engine := NewTesseract(Config{}, WithRunner(&fakeRunner{pages: 0}), WithLookPath(found))

		_, err := engine.RecognizePages(context.Background(), nil)
		assert.Error(t, err)
	})
}

func TestNewTesseractDefaults(t *testing.T) {
	engine := NewTesseract(Config{})
	assert.Equal(t, DefaultConfig(), engine.cfg)
	assert.IsType(t, ExecRunner{}, engine.runner)
}
