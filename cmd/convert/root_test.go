package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunConvertTextToMarkdown(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(src, []byte("first line\nsecond line"), 0o644))

	out := filepath.Join(dir, "out")
	err := runConvert(context.Background(), src, convertOptions{to: "md", outDir: out, timeout: time.Minute})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, "notes.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "first line")
}

func TestRunConvertRejectsUnknownFormat(t *testing.T) {
	err := runConvert(context.Background(), "missing.txt", convertOptions{to: "exe", outDir: t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}

func TestFormatsCommandListsWriters(t *testing.T) {
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"formats"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "docx")
	assert.Contains(t, buf.String(), "pdf")
}
