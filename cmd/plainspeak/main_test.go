package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_ProcessesFile(t *testing.T) {
	path := writeTemp(t, "notes.txt", "Configure the widget carefully before use.")
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{path}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var out map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	assert.Equal(t, "Configure the widget carefully before use.", out["content"])
	meta := out["metadata"].(map[string]any)
	assert.Equal(t, "notes.txt", meta["fileName"])
	assert.NotContains(t, out, "chunks")
}

func TestRun_Chunks(t *testing.T) {
	path := writeTemp(t, "guide.md", "# Setup\n\nInstall the tool.\n\n# Usage\n\nRun the tool.")
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"--chunks", path}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var out map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	assert.NotEmpty(t, out["chunks"])
}

func TestRun_MultipleFilesOneFails(t *testing.T) {
	good := writeTemp(t, "a.txt", "hello there")
	bad := writeTemp(t, "b.exe", "MZ")
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{good, bad}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Equal(t, 1, strings.Count(strings.TrimSpace(stdout.String()), "\n")+1)
	assert.Contains(t, stderr.String(), "unsupported format")
}

func TestRun_MissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{filepath.Join(t.TempDir(), "nope.txt")}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
}

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(context.Background(), nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "usage: plainspeak")

	stderr.Reset()
	assert.Equal(t, 0, run(context.Background(), []string{"--help"}, &stdout, &stderr))
}

func TestRun_ListFormats(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run(context.Background(), []string{"--formats"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "docx\n")
}

func TestRun_MIMEOverride(t *testing.T) {
	path := writeTemp(t, "upload.bin", "<p>Hello <b>web</b></p>")
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"--mime", "text/html", path}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	var out map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	assert.Equal(t, "html", out["metadata"].(map[string]any)["format"])
}
