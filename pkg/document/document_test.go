package document

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wangkaiwei233/word-fetcher/internal/apperrors"
)

func TestIsSupported(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"report.pdf", true},
		{"report.PDF", true},
		{"slides.pptx", true},
		{"slides.ppt", true},
		{"paper.docx", true},
		{"paper.doc", true},
		{"notes.txt", false},
		{"archive.zip", false},
		{"pdf", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSupported(tt.name))
		})
	}
}

func TestIsConvertible(t *testing.T) {
	assert.False(t, IsConvertible("report.pdf"))
	assert.False(t, IsConvertible("report.PDF"))
	assert.True(t, IsConvertible("paper.docx"))
	assert.True(t, IsConvertible("slides.ppt"))
	assert.False(t, IsConvertible("notes.txt"), "unsupported is not convertible")
}

func TestSafeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"../report.pdf", ".._report.pdf"},
		{`dir\report.pdf`, "dir_report.pdf"},
		{"  report.pdf  ", "report.pdf"},
		{"", "upload"},
		{".", "upload"},
		{"..", "upload"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SafeFileName(tt.in), "input %q", tt.in)
	}
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
}

func TestFindInput(t *testing.T) {
	t.Run("single candidate", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, "report.pdf", "status.json", "result.json", "marks.json")
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "converted"), 0755))

		got, err := FindInput(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "report.pdf"), got)
	})

	t.Run("empty dir", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, "status.json")

		_, err := FindInput(dir)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	})

	t.Run("unsupported extension", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, "notes.txt", "status.json")

		_, err := FindInput(dir)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrUnsupportedInput))
	})

	t.Run("ambiguous", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, "a.pdf", "b.docx")

		_, err := FindInput(dir)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrUnsupportedInput))
	})

	t.Run("missing dir", func(t *testing.T) {
		_, err := FindInput(filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})
}
