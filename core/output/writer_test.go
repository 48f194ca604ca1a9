package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	w, err := New(dir)
	require.NoError(t, err)

	path, err := w.Write("combined-output", []byte("hello"), ".docx")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "combined-output.docx"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	// Overwrites in place and leaves no temp files.
	_, err = w.Write("combined-output", []byte("again"), ".docx")
	require.NoError(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "combined-output.docx", entries[0].Name())
}

func TestWrite_MissingDirectory(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	_, err = w.Write("book", []byte("x"), ".md")
	assert.Error(t, err)
}

func TestNew_DefaultsToWorkingDirectory(t *testing.T) {
	w, err := New("")
	require.NoError(t, err)
	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, wd, w.OutputDir)
}

func TestFileName(t *testing.T) {
	tests := map[string]string{
		"combined-output":  "combined-output",
		"":                 DefaultName,
		"   ":              DefaultName,
		"../../etc/passwd": "passwd",
		`C:\books\out`:     "out",
		"صحيح البخاري":     "صحيح البخاري",
		"a:b?c":            "a_b_c",
		".hidden":          "hidden",
		"..":               DefaultName,
	}
	for in, want := range tests {
		assert.Equal(t, want, FileName(in), "input %q", in)
	}
}
