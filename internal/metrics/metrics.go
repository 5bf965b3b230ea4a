// Package metrics exposes run and stream metrics to Prometheus.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"VideoSummarizer/internal/domain"
	"VideoSummarizer/internal/ports"
)

var (
	chunksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "videosummarizer_stream_chunks_total",
		Help: "Parsed stream chunks by derived kind",
	}, []string{"kind"})

	malformedChunksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "videosummarizer_stream_malformed_chunks_total",
		Help: "Stream lines that failed to parse",
	}, []string{"completion_hint"})

	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "videosummarizer_runs_total",
		Help: "Finished runs by outcome and error type",
	}, []string{"outcome", "error_type"})

	runDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "videosummarizer_run_duration_seconds",
		Help:    "Wall-clock duration of finished runs",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	}, []string{"outcome"})

	runIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "videosummarizer_run_iterations",
		Help:    "Refinement iterations reported by the backend per run",
		Buckets: []float64{0, 1, 2, 3, 5, 8},
	})

	qualityScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "videosummarizer_quality_score_percent",
		Help:    "Final quality score of successful runs",
		Buckets: []float64{50, 60, 70, 80, 90, 95, 100},
	})
)

// Recorder implements ports.RunRecorder on the default registry.
type Recorder struct{}

var _ ports.RunRecorder = Recorder{}

// ObserveChunk counts a parsed chunk.
func (Recorder) ObserveChunk(kind domain.ChunkKind) {
	chunksTotal.WithLabelValues(kind.String()).Inc()
}

// ObserveMalformedChunk counts an unparseable line.
func (Recorder) ObserveMalformedChunk(completionHint bool) {
	malformedChunksTotal.WithLabelValues(fmt.Sprint(completionHint)).Inc()
}

// ObserveRun records the terminal outcome of a run.
func (Recorder) ObserveRun(result domain.Result) {
	outcome := "success"
	errorType := ""
	if !result.Success {
		outcome = "failure"
		if result.Error != nil {
			errorType = string(result.Error.Type)
		}
	}

	runsTotal.WithLabelValues(outcome, errorType).Inc()
	runDuration.WithLabelValues(outcome).Observe(result.Elapsed.Seconds())
	runIterations.Observe(float64(result.IterationCount))
	if result.Success && result.Quality != nil && result.Quality.PercentageScore != nil {
		qualityScore.Observe(*result.Quality.PercentageScore)
	}
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if logger != nil {
		logger.Info("metrics server listening", "addr", addr)
	}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve metrics: %w", err)
	}
	return nil
}
