package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/poiesic/qagen/core"
	"github.com/spf13/afero"
)

var errFound = errors.New("found")

// Locator resolves relative file references under a base directory.
// It never modifies the filesystem and is safe for concurrent use.
type Locator struct {
	fs      afero.Fs
	baseDir string
}

// NewLocator creates a locator rooted at baseDir on fs.
func NewLocator(fs afero.Fs, baseDir string) *Locator {
	return &Locator{fs: fs, baseDir: baseDir}
}

// BaseDir returns the directory references are resolved against.
func (l *Locator) BaseDir() string {
	return l.baseDir
}

// Locate returns the path of rel under the base directory.
// It tries the exact relative path first, then searches the tree for the
// first regular file whose name matches the basename of rel, in lexical walk
// order. Returns an error wrapping core.ErrFileNotFound on a miss.
func (l *Locator) Locate(rel string) (string, error) {
	exact := filepath.Join(l.baseDir, rel)
	if info, err := l.fs.Stat(exact); err == nil && info.Mode().IsRegular() {
		return exact, nil
	}

	target := filepath.Base(rel)
	var match string
	err := afero.Walk(l.fs, l.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal
			return nil
		}
		if info.Mode().IsRegular() && info.Name() == target {
			match = path
			return errFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, errFound) {
		return "", fmt.Errorf("searching %s for %s: %w", l.baseDir, rel, err)
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s not found in %s or its subdirectories", core.ErrFileNotFound, rel, l.baseDir)
	}
	return match, nil
}
