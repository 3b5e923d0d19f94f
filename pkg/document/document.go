// Package document turns an uploaded artifact into ordered text lines.
//
// Responsibilities: discovering the single input file of a job directory,
// converting office formats to PDF through an external tool, and reading
// the PDF text layer page by page.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Wangkaiwei233/word-fetcher/internal/apperrors"
)

// Line is one non-empty trimmed text line. Page and Number are 1-based;
// Number restarts at 1 on each page.
type Line struct {
	Page   int    `json:"page"`
	Number int    `json:"line"`
	Text   string `json:"text"`
}

// inputPattern matches recognized upload extensions, case-insensitively
// via lowercased names.
const inputPattern = "*.{pdf,doc,docx,ppt,pptx}"

// metadata files and scratch dirs living alongside the input in a job dir.
var reservedNames = map[string]struct{}{
	"status.json": {},
	"result.json": {},
	"marks.json":  {},
}

// IsConvertible reports whether name has a recognized non-PDF extension.
func IsConvertible(name string) bool {
	return strings.ToLower(filepath.Ext(name)) != ".pdf" && IsSupported(name)
}

// IsSupported reports whether name has a recognized upload extension.
func IsSupported(name string) bool {
	ok, err := doublestar.Match(inputPattern, strings.ToLower(filepath.Base(name)))
	return err == nil && ok
}

// FindInput locates the single input file of a job directory.
//
// Exactly one non-metadata file with a recognized extension must exist.
// Zero files is a missing input; an unrecognized extension or more than
// one candidate is unsupported input. No extraction is attempted in
// either case.
func FindInput(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read job dir: %w", err)
	}

	var files []string
	var candidates []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if _, reserved := reservedNames[name]; reserved {
			continue
		}
		files = append(files, name)
		if IsSupported(name) {
			candidates = append(candidates, name)
		}
	}

	switch {
	case len(files) == 0:
		return "", apperrors.NotFound("input file missing")
	case len(candidates) == 0:
		return "", apperrors.UnsupportedInput("unsupported file type (only pdf/doc/docx/ppt/pptx)")
	case len(candidates) > 1:
		return "", apperrors.UnsupportedInput("ambiguous input: %d candidate files", len(candidates))
	}
	return filepath.Join(dir, candidates[0]), nil
}

// SafeFileName scrubs path separators from an uploaded filename so it can
// be placed directly in the job directory.
func SafeFileName(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return "upload"
	}
	return name
}
