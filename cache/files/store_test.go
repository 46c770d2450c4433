package files

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/poiesic/qagen/cache"
	"github.com/poiesic/qagen/core"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (cache.Store, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	store, err := NewStore(fs)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, fs
}

func answerPaths() core.ArtifactPaths {
	return core.AnswerTask{Job: "README_1", Seed: 1, Instruction: 1, Question: 1, InstructionHash: "abcd1234"}.Paths()
}

func readFile(t *testing.T, fs afero.Fs, name string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, name)
	require.NoError(t, err)
	return string(data)
}

func TestNewStore_CreatesLayout(t *testing.T) {
	_, fs := newTestStore(t)
	for _, dir := range []string{core.QuestionsDir, core.AnswersDir, core.DebugDir} {
		ok, err := afero.DirExists(fs, dir)
		require.NoError(t, err)
		assert.True(t, ok, dir)
	}
}

func TestStore_ReadIfFresh(t *testing.T) {
	ctx := context.Background()
	hash := core.ContentHash("prompt v1")

	t.Run("missing", func(t *testing.T) {
		store, _ := newTestStore(t)
		res, err := store.ReadIfFresh(ctx, answerPaths(), hash)
		require.NoError(t, err)
		assert.Equal(t, cache.StatusMissing, res.Status)
	})

	t.Run("fresh after write", func(t *testing.T) {
		store, fs := newTestStore(t)
		paths := answerPaths()
		require.NoError(t, store.Write(ctx, paths, core.CacheEntry{Text: "answer", Hash: hash, Prompt: "prompt v1"}))

		assert.Equal(t, "answer", readFile(t, fs, paths.Artifact))
		assert.Equal(t, hash, readFile(t, fs, paths.Meta))
		assert.Equal(t, "prompt v1", readFile(t, fs, paths.Debug))

		res, err := store.ReadIfFresh(ctx, paths, hash)
		require.NoError(t, err)
		assert.Equal(t, cache.StatusFresh, res.Status)
		assert.Equal(t, "answer", res.Text)
		assert.False(t, res.Seeded)
	})

	t.Run("stale on hash change", func(t *testing.T) {
		store, _ := newTestStore(t)
		paths := answerPaths()
		require.NoError(t, store.Write(ctx, paths, core.CacheEntry{Text: "answer", Hash: hash}))

		res, err := store.ReadIfFresh(ctx, paths, core.ContentHash("prompt v2"))
		require.NoError(t, err)
		assert.Equal(t, cache.StatusStale, res.Status)
		assert.Empty(t, res.Text)
	})

	t.Run("stored hash tolerates surrounding whitespace", func(t *testing.T) {
		store, fs := newTestStore(t)
		paths := answerPaths()
		require.NoError(t, afero.WriteFile(fs, paths.Artifact, []byte("answer"), 0o644))
		require.NoError(t, afero.WriteFile(fs, paths.Meta, []byte(hash+"\n"), 0o644))

		res, err := store.ReadIfFresh(ctx, paths, hash)
		require.NoError(t, err)
		assert.Equal(t, cache.StatusFresh, res.Status)
	})

	t.Run("legacy artifact is seeded", func(t *testing.T) {
		store, fs := newTestStore(t)
		paths := answerPaths()
		require.NoError(t, afero.WriteFile(fs, paths.Artifact, []byte("hand written"), 0o644))

		res, err := store.ReadIfFresh(ctx, paths, hash)
		require.NoError(t, err)
		assert.Equal(t, cache.StatusFresh, res.Status)
		assert.True(t, res.Seeded)
		assert.Equal(t, "hand written", res.Text)
		assert.Equal(t, hash, readFile(t, fs, paths.Meta))

		res, err = store.ReadIfFresh(ctx, paths, hash)
		require.NoError(t, err)
		assert.Equal(t, cache.StatusFresh, res.Status)
		assert.False(t, res.Seeded)
	})
}

func TestStore_ReadIfExists(t *testing.T) {
	ctx := context.Background()
	store, fs := newTestStore(t)
	paths := core.QuestionTask{Job: "README_1", Seed: 1, Instruction: 2}.Paths()

	res, err := store.ReadIfExists(ctx, paths)
	require.NoError(t, err)
	assert.Equal(t, cache.StatusMissing, res.Status)

	require.NoError(t, store.Write(ctx, paths, core.CacheEntry{Text: "1. Q?", Prompt: "p"}))
	exists, err := afero.Exists(fs, paths.Meta)
	require.NoError(t, err)
	assert.False(t, exists, "empty hash writes no meta sidecar")

	res, err = store.ReadIfExists(ctx, paths)
	require.NoError(t, err)
	assert.Equal(t, cache.StatusFresh, res.Status)
	assert.Equal(t, "1. Q?", res.Text)
}

func TestStore_WriteLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	store, fs := newTestStore(t)
	paths := answerPaths()
	require.NoError(t, store.Write(ctx, paths, core.CacheEntry{Text: "a", Hash: "h", Prompt: "p"}))
	require.NoError(t, store.Write(ctx, paths, core.CacheEntry{Text: "b", Hash: "h2", Prompt: "p2"}))

	entries, err := afero.ReadDir(fs, core.AnswersDir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"answer_README_1_seed1_instr1_q1_abcd1234.txt", "answer_README_1_seed1_instr1_q1_abcd1234.meta"}, names)
	assert.Equal(t, "b", readFile(t, fs, paths.Artifact))
}

func TestStore_ConcurrentDistinctWrites(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(q int) {
			defer wg.Done()
			paths := core.AnswerTask{Job: "G_1", Seed: 1, Instruction: 1, Question: q, InstructionHash: "00000000"}.Paths()
			text := fmt.Sprintf("answer %d", q)
			assert.NoError(t, store.Write(ctx, paths, core.CacheEntry{Text: text, Hash: "h", Prompt: "p"}))
		}(i)
	}
	wg.Wait()

	for i := 1; i <= 20; i++ {
		paths := core.AnswerTask{Job: "G_1", Seed: 1, Instruction: 1, Question: i, InstructionHash: "00000000"}.Paths()
		res, err := store.ReadIfFresh(ctx, paths, "h")
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("answer %d", i), res.Text)
	}
}

func TestStore_CancelledContext(t *testing.T) {
	store, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.ReadIfFresh(ctx, answerPaths(), "h")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.Write(ctx, answerPaths(), core.CacheEntry{Text: "x"}), context.Canceled)
}
