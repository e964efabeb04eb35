package repository

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atinyakov/shortlink/internal/storage"
)

func newTestSQLite(t *testing.T) *SQLiteRepository {
	repo, err := NewSQLiteRepository(context.Background(), filepath.Join(t.TempDir(), "links.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	return repo
}

func TestSQLite_CreateGetIncrement(t *testing.T) {
	repo := newTestSQLite(t)
	ctx := context.Background()

	record := storage.LinkRecord{
		ID:          "id-1",
		ShortCode:   "docs",
		OriginalURL: "https://example.com/a",
		IsCustom:    true,
		CreatedAt:   time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}

	ok, err := repo.CreateIfAbsent(ctx, record)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.CreateIfAbsent(ctx, storage.LinkRecord{ID: "id-2", ShortCode: "docs", OriginalURL: "https://other.com", CreatedAt: time.Now()})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.IncrementClicks(ctx, "docs")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IncrementClicks(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, ok)

	found, err := repo.Get(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a", found.OriginalURL)
	assert.True(t, found.IsCustom)
	assert.Equal(t, int64(1), found.TotalClicks)
	assert.True(t, record.CreatedAt.Equal(found.CreatedAt))

	_, err = repo.Get(ctx, "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSQLite_ConcurrentIncrements(t *testing.T) {
	repo := newTestSQLite(t)
	ctx := context.Background()

	_, err := repo.CreateIfAbsent(ctx, storage.LinkRecord{ID: "id-1", ShortCode: "hot", OriginalURL: "https://a.com", CreatedAt: time.Now()})
	require.NoError(t, err)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.IncrementClicks(ctx, "hot")
		}()
	}
	wg.Wait()

	found, err := repo.Get(ctx, "hot")
	require.NoError(t, err)
	assert.Equal(t, int64(n), found.TotalClicks)

	stats, err := repo.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, storage.Stats{Links: 1, Clicks: n}, stats)
}

func TestSQLite_Ping(t *testing.T) {
	repo := newTestSQLite(t)
	assert.NoError(t, repo.PingContext(context.Background()))
}
