// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/qagen/cache"
	"github.com/poiesic/qagen/core"
)

// Store implements cache.Store and cache.Walker on BadgerDB.
// Each artifact is one key holding its encoded paths and core.CacheEntry, so
// the artifact text, debug prompt and hash are written in a single
// transaction. Walk feeds cache.Export, which writes the on-disk layout.
type Store struct {
	backend *Backend
	now     func() time.Time
}

// NewStore opens a badger cache at path.
func NewStore(path string) (cache.Store, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return newStore(backend), nil
}

// NewMemoryStore opens an in-memory badger cache.
func NewMemoryStore() (cache.Store, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}
	return newStore(backend), nil
}

func newStore(backend *Backend) *Store {
	return &Store{backend: backend, now: time.Now}
}

// ReadIfFresh applies the hash policy. An entry stored without a hash is a
// legacy entry: the current hash is stored and the entry is fresh.
func (s *Store) ReadIfFresh(ctx context.Context, paths core.ArtifactPaths, hash string) (cache.Result, error) {
	if err := s.check(ctx); err != nil {
		return cache.Result{}, err
	}

	var result cache.Result
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		entry, err := getEntry(tx, paths.Artifact)
		if err != nil || entry == nil {
			result.Status = cache.StatusMissing
			return err
		}

		switch entry.Hash {
		case "":
			entry.Hash = hash
			entry.UpdatedAt = s.now()
			if err := putEntry(tx, paths, entry); err != nil {
				return err
			}
			s.backend.logger.Debug("seeded legacy artifact", "artifact", paths.Artifact)
			result = cache.Result{Status: cache.StatusFresh, Text: entry.Text, Seeded: true}
			return tx.Commit()
		case hash:
			result = cache.Result{Status: cache.StatusFresh, Text: entry.Text}
		default:
			result = cache.Result{Status: cache.StatusStale}
		}
		return nil
	}, true)
	if err != nil {
		return cache.Result{}, err
	}
	return result, nil
}

// ReadIfExists applies the existence policy.
func (s *Store) ReadIfExists(ctx context.Context, paths core.ArtifactPaths) (cache.Result, error) {
	if err := s.check(ctx); err != nil {
		return cache.Result{}, err
	}

	result := cache.Result{Status: cache.StatusMissing}
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		entry, err := getEntry(tx, paths.Artifact)
		if err != nil || entry == nil {
			return err
		}
		result = cache.Result{Status: cache.StatusFresh, Text: entry.Text}
		return nil
	}, false)
	if err != nil {
		return cache.Result{}, err
	}
	return result, nil
}

// Write stores entry under the artifact path. UpdatedAt is set when zero.
func (s *Store) Write(ctx context.Context, paths core.ArtifactPaths, entry core.CacheEntry) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = s.now()
	}
	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := putEntry(tx, paths, &entry); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Walk calls fn for every stored artifact in key order.
func (s *Store) Walk(ctx context.Context, fn func(paths core.ArtifactPaths, entry core.CacheEntry) error) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	return s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entryPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var (
				paths core.ArtifactPaths
				entry *core.CacheEntry
			)
			err := iter.Item().Value(func(val []byte) error {
				var err error
				paths, entry, err = cache.UnmarshalRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if err := fn(paths, *entry); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.backend.IsClosed() {
		return nil
	}
	return s.backend.Close()
}

func (s *Store) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.backend.IsClosed() {
		return cache.ErrStoreClosed
	}
	return nil
}

var _ cache.Walker = (*Store)(nil)

// getEntry returns nil without error when no entry exists.
func getEntry(tx *badger.Txn, artifact string) (*core.CacheEntry, error) {
	item, err := tx.Get(makeEntryKey(artifact))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entry *core.CacheEntry
	err = item.Value(func(val []byte) error {
		var err error
		_, entry, err = cache.UnmarshalRecord(val)
		return err
	})
	return entry, err
}

func putEntry(tx *badger.Txn, paths core.ArtifactPaths, entry *core.CacheEntry) error {
	return tx.Set(makeEntryKey(paths.Artifact), cache.MarshalRecord(paths, entry))
}
