package usecase

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"VideoSummarizer/internal/catalog"
	"VideoSummarizer/internal/domain"
	"VideoSummarizer/internal/videourl"
)

// BatchOptions bounds a multi-video run.
type BatchOptions struct {
	Concurrency   int
	RatePerMinute int
	Options       catalog.Options
	// ObserverFor builds the observer of the i-th URL. It may be nil.
	ObserverFor func(i int, url string) Observer
}

// Batch processes several URLs with bounded concurrency and paced starts.
type Batch struct {
	processor *Processor
}

// NewBatch wraps a processor.
func NewBatch(processor *Processor) *Batch {
	return &Batch{processor: processor}
}

// Run returns one result per URL, in input order. Cancellation of ctx turns
// runs that have not started yet into aborted failures.
func (b *Batch) Run(ctx context.Context, urls []string, opts BatchOptions) []domain.Result {
	results := make([]domain.Result, len(urls))

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	limit := rate.Inf
	if opts.RatePerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(opts.RatePerMinute))
	}
	limiter := rate.NewLimiter(limit, 1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, url := range urls {
		g.Go(func() error {
			// Rejected URLs never reach the backend, so they skip pacing.
			if videourl.IsValid(strings.TrimSpace(url)) {
				if err := limiter.Wait(gctx); err != nil {
					results[i] = aborted(url, err)
					return nil
				}
			}

			var observer Observer
			if opts.ObserverFor != nil {
				observer = opts.ObserverFor(i, url)
			}
			results[i] = b.processor.Process(gctx, url, opts.Options, observer)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func aborted(url string, err error) domain.Result {
	apiErr := domain.AsAPIError(err)
	return domain.Result{
		URL:       url,
		Error:     apiErr,
		TotalTime: "0.0s",
		Logs:      []string{},
	}
}

// Summary counts successes and failures of a batch.
func Summary(results []domain.Result) (succeeded, failed int) {
	for _, r := range results {
		if r.Success {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}
