// Package files implements cache.Store on a filesystem.
//
// Layout, relative to the filesystem root:
//
//	questions/questions_{job}_seed{s}_instr{i}.txt
//	answers/answer_{job}_seed{s}_instr{i}_q{n}_{h8}.txt   (+ .meta hash sidecar)
//	debug/...                                              (exact prompts)
//
// Every file is written to a temporary sibling and renamed into place, so a
// concurrent reader never observes a partial artifact.
package files

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"github.com/poiesic/qagen/cache"
	"github.com/poiesic/qagen/core"
	"github.com/spf13/afero"
)

// Store is a filesystem cache.Store.
type Store struct {
	fs     afero.Fs
	logger *slog.Logger
}

// NewStore creates a store rooted at fs and creates the output directories.
// Use afero.NewBasePathFs to root an OS filesystem at the output directory.
func NewStore(fsys afero.Fs) (cache.Store, error) {
	for _, dir := range []string{core.QuestionsDir, core.AnswersDir, core.DebugDir} {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return &Store{
		fs:     fsys,
		logger: slog.Default().With("component", "file-cache"),
	}, nil
}

// ReadIfFresh applies the hash policy.
func (s *Store) ReadIfFresh(ctx context.Context, paths core.ArtifactPaths, hash string) (cache.Result, error) {
	if err := ctx.Err(); err != nil {
		return cache.Result{}, err
	}
	text, ok, err := s.read(paths.Artifact)
	if err != nil || !ok {
		return cache.Result{Status: cache.StatusMissing}, err
	}

	stored, ok, err := s.read(paths.Meta)
	if err != nil {
		return cache.Result{}, err
	}
	if !ok {
		if err := s.writeAtomic(paths.Meta, hash); err != nil {
			return cache.Result{}, err
		}
		s.logger.Debug("seeded legacy artifact", "artifact", paths.Artifact)
		return cache.Result{Status: cache.StatusFresh, Text: text, Seeded: true}, nil
	}

	if strings.TrimSpace(stored) != hash {
		return cache.Result{Status: cache.StatusStale}, nil
	}
	return cache.Result{Status: cache.StatusFresh, Text: text}, nil
}

// ReadIfExists applies the existence policy.
func (s *Store) ReadIfExists(ctx context.Context, paths core.ArtifactPaths) (cache.Result, error) {
	if err := ctx.Err(); err != nil {
		return cache.Result{}, err
	}
	text, ok, err := s.read(paths.Artifact)
	if err != nil || !ok {
		return cache.Result{Status: cache.StatusMissing}, err
	}
	return cache.Result{Status: cache.StatusFresh, Text: text}, nil
}

// Write stores the artifact, its debug prompt and its hash.
func (s *Store) Write(ctx context.Context, paths core.ArtifactPaths, entry core.CacheEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.writeAtomic(paths.Artifact, entry.Text); err != nil {
		return err
	}
	if paths.Debug != "" {
		if err := s.writeAtomic(paths.Debug, entry.Prompt); err != nil {
			return err
		}
	}
	if entry.Hash != "" && paths.Meta != "" {
		if err := s.writeAtomic(paths.Meta, entry.Hash); err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

func (s *Store) read(name string) (string, bool, error) {
	data, err := afero.ReadFile(s.fs, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading %s: %w", name, err)
	}
	return string(data), true, nil
}

func (s *Store) writeAtomic(name, content string) error {
	dir := path.Dir(name)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(s.fs, dir, "."+path.Base(name)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", name, err)
	}
	if err := s.fs.Rename(tmpName, name); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("renaming %s: %w", name, err)
	}
	return nil
}
