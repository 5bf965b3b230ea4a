package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VideoSummarizer/internal/catalog"
	"VideoSummarizer/internal/domain"
)

func TestBatchKeepsInputOrder(t *testing.T) {
	f := newProcessorFixture(t)
	p := f.processor(func(d *ProcessorDeps) {
		d.Notifier = nil
		d.NewRunID = nil
	})

	urls := []string{
		demoURL,
		"not a url",
		"https://youtu.be/abcdefghijk",
	}

	var mu sync.Mutex
	seen := map[int]string{}
	results := NewBatch(p).Run(context.Background(), urls, BatchOptions{
		Concurrency: 2,
		Options:     catalog.Options{FastMode: true},
		ObserverFor: func(i int, url string) Observer {
			mu.Lock()
			seen[i] = url
			mu.Unlock()
			return Observer{}
		},
	})

	require.Len(t, results, 3)
	for i, url := range urls {
		assert.Equal(t, url, results[i].URL)
		assert.Equal(t, url, seen[i])
	}
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.Equal(t, domain.MsgInvalidURL, results[1].Error.Message)
	assert.True(t, results[2].Success)
	assert.NotEqual(t, results[0].RunID, results[2].RunID)

	ok, failed := Summary(results)
	assert.Equal(t, 2, ok)
	assert.Equal(t, 1, failed)

	assert.Equal(t, 2, f.backend.streamCalls)
	for _, req := range f.backend.requests {
		assert.True(t, req.FastMode)
	}
	assert.Len(t, f.repository.records, 3)
}

func TestBatchCancelledContextAbortsPendingRuns(t *testing.T) {
	f := newProcessorFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := NewBatch(f.processor(nil)).Run(ctx, []string{demoURL, demoURL}, BatchOptions{RatePerMinute: 30})

	require.Len(t, results, 2)
	for _, r := range results {
		assert.False(t, r.Success)
		require.NotNil(t, r.Error)
		assert.Equal(t, domain.MsgAborted, r.Error.Message)
		assert.Equal(t, demoURL, r.URL)
	}
	assert.Zero(t, f.backend.scrapCalls)
}

func TestBatchInvalidURLsSkipPacing(t *testing.T) {
	f := newProcessorFixture(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	results := NewBatch(f.processor(nil)).Run(ctx, []string{demoURL, "bad-url", "also bad"}, BatchOptions{
		Concurrency:   1,
		RatePerMinute: 1,
	})

	require.Len(t, results, 3)
	assert.True(t, results[0].Success)
	for _, r := range results[1:] {
		require.NotNil(t, r.Error)
		assert.Equal(t, domain.MsgInvalidURL, r.Error.Message)
	}
	assert.Less(t, time.Since(start), time.Second)
}

func TestBatchEmpty(t *testing.T) {
	f := newProcessorFixture(t)
	assert.Empty(t, NewBatch(f.processor(nil)).Run(context.Background(), nil, BatchOptions{}))
}
