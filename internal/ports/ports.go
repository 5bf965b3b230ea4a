package ports

import (
	"context"
	"io"
	"time"

	"VideoSummarizer/internal/domain"
)

// Backend is the remote summarization service.
type Backend interface {
	Scrap(ctx context.Context, videoURL string) (domain.ScrapResult, error)
	StreamSummarize(ctx context.Context, req domain.AnalysisRequest) (io.ReadCloser, error)
	Configuration(ctx context.Context) (domain.BackendConfig, error)
	Health(ctx context.Context) (domain.HealthStatus, error)
}

// PageProbe reads public metadata straight from the video page.
type PageProbe interface {
	Probe(ctx context.Context, videoURL string) (domain.VideoInfo, error)
}

// RunRepository persists finished runs for history.
type RunRepository interface {
	SaveRun(ctx context.Context, record domain.RunRecord) error
	RecentRuns(ctx context.Context, limit int) ([]domain.RunRecord, error)
}

// Notifier publishes digests of finished runs to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// RunRecorder collects operational metrics for runs.
type RunRecorder interface {
	ObserveChunk(kind domain.ChunkKind)
	ObserveMalformedChunk(completionHint bool)
	ObserveRun(result domain.Result)
}

// Clock is the wall-clock source used for timestamps and elapsed times.
type Clock func() time.Time
