package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-pdf-renamer/internal/config"
)

func TestNewService(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")

	cfg := config.DefaultConfig()
	cfg.PDFDirectory = dir
	cfg.OutputDirectory = out
	cfg.TesseractPath = "definitely-not-installed-tesseract"
	cfg.Template = "Order_Name_DateRange"

	svc, err := NewService(cfg, nil)
	require.NoError(t, err)

	info := svc.GetServerInfo(cfg.ServerName, cfg.Version, nil)
	assert.Equal(t, dir, info.InputDirectory)
	assert.Equal(t, out, info.OutputDirectory)
	assert.False(t, info.OCRAvailable)
	assert.Equal(t, "Order_Name_DateRange", info.Defaults.Template)

	st, err := os.Stat(out)
	require.NoError(t, err)
	assert.True(t, st.IsDir())
}
