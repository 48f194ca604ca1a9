// Package output handles file naming and writing for rendered books.
// Files land in a single output directory and are written atomically, so a
// failed run never leaves a partial document behind.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultName is the base file name used when none is given.
const DefaultName = "combined-output"

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	// Ensure the output directory exists.
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// Write stores data as name+ext in the output directory and returns the
// final path. The data goes to a temp file first and is renamed into place.
func (w *Writer) Write(name string, data []byte, ext string) (string, error) {
	path := filepath.Join(w.OutputDir, FileName(name)+ext)

	tmp, err := os.CreateTemp(w.OutputDir, ".tmp-*"+ext)
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing file %s: %w", path, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return "", fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("renaming into %s: %w", path, err)
	}
	return path, nil
}

// FileName reduces a user-supplied base name to a safe file name without
// directories. Arabic and other letters are kept.
func FileName(name string) string {
	name = strings.TrimSpace(filepath.Base(strings.ReplaceAll(name, "\\", "/")))
	name = strings.TrimLeft(sanitize(name), "._")
	if name == "" {
		return DefaultName
	}
	return name
}

// sanitize replaces characters that are unsafe in file names with underscores.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		switch {
		case ch < 0x20, strings.ContainsRune(`<>:"/\|?*`, ch):
			b.WriteRune('_')
		default:
			b.WriteRune(ch)
		}
	}
	return b.String()
}
