package mcp

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_Serve_Stdio(t *testing.T) {
	s, _ := newTestServer(t)

	in := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"pdf_detect_fields","arguments":{"path":"merged.pdf"}}}`,
	}, "\n") + "\n"

	var out bytes.Buffer
	err := s.Serve(context.Background(), strings.NewReader(in), &out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3, out.String())
	assert.Contains(t, lines[0], "mcp-pdf-renamer")
	for _, tool := range []string{"pdf_rename_file", "pdf_rename_directory", "pdf_detect_fields",
		"pdf_validate_file", "pdf_search_directory", "pdf_server_info"} {
		assert.Contains(t, lines[1], `"name":"`+tool+`"`)
	}
	assert.Contains(t, lines[2], "Detected 2 record(s)")
}

func TestServer_Serve_CanceledContext(t *testing.T) {
	s, _ := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A canceled context is a clean shutdown.
	err := s.Serve(ctx, strings.NewReader(""), &bytes.Buffer{})
	assert.NoError(t, err)
}

func TestServer_Run_ServerMode(t *testing.T) {
	s, _ := newTestServer(t)
	s.config.Mode = "server"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop after cancellation")
	}
}
