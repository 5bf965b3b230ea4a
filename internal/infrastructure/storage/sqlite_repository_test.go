package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VideoSummarizer/internal/domain"
)

func newRepository(t *testing.T) *SQLiteRepository {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "runs.db"), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewSQLiteRepository(db)
	require.NoError(t, repo.Migrate(context.Background()))
	return repo
}

func TestSaveAndListRuns(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	score := 92.5

	require.NoError(t, repo.SaveRun(ctx, domain.RunRecord{
		ID:              "older",
		URL:             "https://youtu.be/aaaaaaaaaaa",
		Title:           "First",
		Success:         true,
		Elapsed:         12300 * time.Millisecond,
		IterationCount:  1,
		ChunksProcessed: 3,
		QualityScore:    &score,
		ChapterCount:    4,
		CreatedAt:       base,
	}))
	require.NoError(t, repo.SaveRun(ctx, domain.RunRecord{
		ID:           "newer",
		URL:          "https://youtu.be/bbbbbbbbbbb",
		Success:      false,
		ErrorType:    domain.ErrorServer,
		ErrorMessage: "boom",
		CreatedAt:    base.Add(time.Minute),
	}))

	runs, err := repo.RecentRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "newer", runs[0].ID)
	assert.False(t, runs[0].Success)
	assert.Equal(t, domain.ErrorServer, runs[0].ErrorType)
	assert.Nil(t, runs[0].QualityScore)

	assert.Equal(t, "older", runs[1].ID)
	assert.True(t, runs[1].Success)
	assert.Equal(t, 12300*time.Millisecond, runs[1].Elapsed)
	require.NotNil(t, runs[1].QualityScore)
	assert.InDelta(t, 92.5, *runs[1].QualityScore, 0.001)
	assert.Equal(t, 4, runs[1].ChapterCount)
	assert.True(t, base.Equal(runs[1].CreatedAt))

	limited, err := repo.RecentRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "newer", limited[0].ID)
}

func TestSaveRunUpserts(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()

	rec := domain.RunRecord{ID: "run-1", URL: "u", CreatedAt: time.Now()}
	require.NoError(t, repo.SaveRun(ctx, rec))

	rec.Success = true
	rec.Title = "Updated"
	rec.ChunksProcessed = 7
	require.NoError(t, repo.SaveRun(ctx, rec))

	runs, err := repo.RecentRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "Updated", runs[0].Title)
	assert.True(t, runs[0].Success)
	assert.Equal(t, 7, runs[0].ChunksProcessed)
}

func TestNilDatabaseIsNoop(t *testing.T) {
	repo := NewSQLiteRepository(nil)
	ctx := context.Background()

	assert.NoError(t, repo.Migrate(ctx))
	assert.NoError(t, repo.SaveRun(ctx, domain.RunRecord{ID: "x"}))
	runs, err := repo.RecentRuns(ctx, 5)
	assert.NoError(t, err)
	assert.Empty(t, runs)
}
