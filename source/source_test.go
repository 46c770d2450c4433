package source

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/poiesic/qagen/catalog"
	"github.com/poiesic/qagen/core"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0644))
	}
	return fs
}

func TestLocator_ExactMatch(t *testing.T) {
	fs := newTestFs(t, map[string]string{
		"/base/pkg/a.txt":   "exact",
		"/base/other/a.txt": "other",
	})
	l := NewLocator(fs, "/base")

	path, err := l.Locate("pkg/a.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/base", "pkg", "a.txt"), path)
}

func TestLocator_BasenameFallback(t *testing.T) {
	fs := newTestFs(t, map[string]string{
		"/base/deep/nested/b.txt": "nested",
	})
	l := NewLocator(fs, "/base")

	path, err := l.Locate("wrong/dir/b.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/base", "deep", "nested", "b.txt"), path)
}

func TestLocator_FallbackIsLexical(t *testing.T) {
	fs := newTestFs(t, map[string]string{
		"/base/zeta/c.txt":  "z",
		"/base/alpha/c.txt": "a",
	})
	l := NewLocator(fs, "/base")

	path, err := l.Locate("c.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/base", "alpha", "c.txt"), path)
}

func TestLocator_DirectoryIsNotAFile(t *testing.T) {
	fs := newTestFs(t, map[string]string{
		"/base/docs/readme.md": "r",
	})
	l := NewLocator(fs, "/base")

	_, err := l.Locate("docs")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrFileNotFound)
}

func TestLocator_NotFound(t *testing.T) {
	fs := newTestFs(t, map[string]string{"/base/a.txt": "a"})
	l := NewLocator(fs, "/base")

	_, err := l.Locate("missing.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrFileNotFound)
}

func TestAssembler_BuildContent(t *testing.T) {
	fs := newTestFs(t, map[string]string{
		"/base/a.txt": "alpha",
		"/base/b.txt": "beta",
	})
	a := NewAssembler(fs, NewLocator(fs, "/base"), nil)
	header := catalog.Template{Name: "h", Text: "File: {file_name}"}

	content, err := a.BuildContent([]string{"a.txt", "b.txt"}, header)
	require.NoError(t, err)
	assert.Equal(t, "File: a.txt\nalpha\n\nFile: b.txt\nbeta\n\n", content)
}

func TestAssembler_MissingFileTolerance(t *testing.T) {
	fs := newTestFs(t, map[string]string{
		"/base/a.txt": "alpha",
	})
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	a := NewAssembler(fs, NewLocator(fs, "/base"), logger)

	content, err := a.BuildContent([]string{"a.txt", "ghost.txt"}, catalog.Template{Name: "h", Text: "# {file_name}"})
	require.NoError(t, err)
	assert.Equal(t, "# a.txt\nalpha\n\n", content)
	assert.NotContains(t, content, "ghost.txt")
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "ghost.txt")
}

func TestAssembler_NoFilesResolve(t *testing.T) {
	fs := newTestFs(t, map[string]string{"/base/a.txt": "alpha"})
	a := NewAssembler(fs, NewLocator(fs, "/base"), nil)

	content, err := a.BuildContent([]string{"x.txt", "y.txt"}, catalog.Template{})
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestAssembler_EmptyHeader(t *testing.T) {
	fs := newTestFs(t, map[string]string{"/base/a.txt": "alpha"})
	a := NewAssembler(fs, NewLocator(fs, "/base"), nil)

	content, err := a.BuildContent([]string{"a.txt"}, catalog.Template{})
	require.NoError(t, err)
	assert.Equal(t, "\nalpha\n\n", content)
}

func TestAssembler_BadHeader(t *testing.T) {
	fs := newTestFs(t, map[string]string{"/base/a.txt": "alpha"})
	a := NewAssembler(fs, NewLocator(fs, "/base"), nil)

	_, err := a.BuildContent([]string{"a.txt"}, catalog.Template{Name: "h", Text: "{nope}"})
	assert.ErrorIs(t, err, catalog.ErrRender)
}
