package usecase

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"VideoSummarizer/internal/domain"
	"VideoSummarizer/internal/ports"
	"VideoSummarizer/internal/stream"
)

const (
	completionDetected = "Analysis completed (completion detected)"
	malformedSkipped   = "Malformed chunk skipped"
)

var chunkTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// StreamOutcome is what the analysis phase accumulated.
type StreamOutcome struct {
	Analysis        *domain.AnalysisData
	Quality         *domain.QualityData
	IterationCount  int
	ChunksProcessed int
	Err             *domain.APIError
}

// Aggregator consumes the analysis stream of one run, derives progress events
// and keeps the latest analysis and quality seen.
type Aggregator struct {
	tracker  *Tracker
	policy   Policy
	clock    ports.Clock
	recorder ports.RunRecorder
	started  time.Time

	analysisStart time.Time
	qualityStart  time.Time

	analysis        *domain.AnalysisData
	quality         *domain.QualityData
	iterationCount  int
	chunksProcessed int
	failure         *domain.APIError
}

// NewAggregator binds an aggregator to a run. started is the run start time.
func NewAggregator(tracker *Tracker, policy Policy, clock ports.Clock, recorder ports.RunRecorder, started time.Time) *Aggregator {
	if clock == nil {
		clock = time.Now
	}
	return &Aggregator{
		tracker:  tracker,
		policy:   policy,
		clock:    clock,
		recorder: recorder,
		started:  started,
	}
}

// Consume reads body to the end. It never returns an error: read failures and
// error chunks end up in StreamOutcome.Err with the partial state kept.
func (a *Aggregator) Consume(body io.Reader) StreamOutcome {
	a.analysisStart = a.clock()
	a.tracker.Note("🚀 Starting AI analysis...")

	if err := stream.Consume(body, a.Handle); err != nil {
		apiErr := domain.AsAPIError(err)
		if apiErr.Type == domain.ErrorUnknown {
			apiErr = &domain.APIError{
				Message: domain.MsgProcessing,
				Type:    domain.ErrorProcessing,
				Details: err.Error(),
			}
		}
		a.failure = apiErr
	}

	if a.failure == nil {
		a.emitSummary()
	}
	return a.Outcome()
}

// Handle processes one decoded frame. It returns false once the stream
// reported a fatal error.
func (a *Aggregator) Handle(frame stream.Frame) bool {
	if frame.Kind == stream.FrameMalformed {
		a.handleMalformed(frame)
		return true
	}

	chunk := frame.Chunk
	a.chunksProcessed++
	if chunk.Analysis != nil {
		a.analysis = chunk.Analysis
	}
	if chunk.Quality != nil {
		a.quality = chunk.Quality
	}
	if chunk.IterationCount != nil {
		a.iterationCount = *chunk.IterationCount
	}

	kind := stream.Classify(chunk)
	if a.recorder != nil {
		a.recorder.ObserveChunk(kind)
	}

	at := a.chunkTime(chunk)
	switch kind {
	case domain.ChunkError:
		a.failure = errorFromChunk(chunk, frame.Line)
		return false
	case domain.ChunkCompletion:
		a.tracker.EmitAt(at, a.completionEvent(chunk))
	case domain.ChunkQuality:
		a.tracker.EmitAt(at, a.qualityEvent(chunk))
	case domain.ChunkInitialAnalysis:
		a.tracker.EmitAt(at, a.initialAnalysisEvent(chunk))
		a.qualityStart = a.clock()
	case domain.ChunkStatus:
		a.tracker.NoteAt(at, chunk.Message)
	}
	return true
}

// Outcome returns copies of the accumulated state.
func (a *Aggregator) Outcome() StreamOutcome {
	out := StreamOutcome{
		Analysis:        a.analysis.Clone(),
		Quality:         a.quality.Clone(),
		IterationCount:  a.iterationCount,
		ChunksProcessed: a.chunksProcessed,
	}
	if a.failure != nil {
		apiErr := *a.failure
		out.Err = &apiErr
	}
	return out
}

func (a *Aggregator) handleMalformed(frame stream.Frame) {
	if a.recorder != nil {
		a.recorder.ObserveMalformedChunk(frame.CompletionHint)
	}
	if !frame.CompletionHint {
		a.tracker.Note(malformedSkipped)
		return
	}
	a.tracker.Emit(domain.ProgressEvent{
		Step:     domain.StepComplete,
		StepName: "Analysis Complete",
		Status:   domain.StatusCompleted,
		Message:  completionDetected,
	})
}

func (a *Aggregator) completionEvent(chunk domain.StreamingChunk) domain.ProgressEvent {
	chapters := chunk.Analysis.ChapterCount()
	score := chunk.Quality.PercentageScore

	msg := fmt.Sprintf("✅ Analysis completed successfully! Generated %d chapters", chapters)
	if score != nil {
		msg = fmt.Sprintf("%s with %s%% quality score", msg, formatScore(*score))
	}

	count := a.chunksProcessed
	return domain.ProgressEvent{
		Step:           domain.StepComplete,
		StepName:       "Analysis Complete",
		Status:         domain.StatusCompleted,
		Message:        msg,
		IterationCount: displayIteration(chunk),
		QualityScore:   copyFloat(score),
		ChunkCount:     &count,
		ProcessingTime: formatSeconds(a.clock().Sub(a.started)),
	}
}

func (a *Aggregator) qualityEvent(chunk domain.StreamingChunk) domain.ProgressEvent {
	score := *chunk.Quality.PercentageScore

	event := domain.ProgressEvent{
		IterationCount: displayIteration(chunk),
		QualityScore:   &score,
	}
	if !a.qualityStart.IsZero() {
		event.ProcessingTime = formatSeconds(a.clock().Sub(a.qualityStart))
	}

	if a.policy.Acceptable(chunk.Quality) {
		event.Step = domain.StepQualityCheck
		event.StepName = "Quality Assessment"
		event.Status = domain.StatusCompleted
		event.Message = fmt.Sprintf("🎯 Quality check passed with %s%% score", formatScore(score))
		return event
	}

	event.Step = domain.StepRefinement
	event.StepName = "Analysis Refinement"
	event.Status = domain.StatusProcessing
	event.Message = fmt.Sprintf("🔄 Quality check: %s%% score (needs improvement)", formatScore(score))
	return event
}

func (a *Aggregator) initialAnalysisEvent(chunk domain.StreamingChunk) domain.ProgressEvent {
	chapters := chunk.Analysis.ChapterCount()
	duration := formatSeconds(a.clock().Sub(a.analysisStart))

	return domain.ProgressEvent{
		Step:           domain.StepAnalysisGeneration,
		StepName:       "Analysis Generation",
		Status:         domain.StatusCompleted,
		Message:        fmt.Sprintf("📝 Initial analysis generated with %d chapters (%s)", chapters, duration),
		IterationCount: displayIteration(chunk),
		ProcessingTime: duration,
	}
}

// emitSummary runs once, after the read loop, and only if a chunk was parsed.
func (a *Aggregator) emitSummary() {
	if a.chunksProcessed == 0 {
		return
	}

	lines := []string{
		"🏁 Workflow completed successfully in " + formatSeconds(a.clock().Sub(a.started)),
		fmt.Sprintf("Summary: %d iterations processed", a.iterationCount),
	}
	if n := a.analysis.ChapterCount(); n > 0 {
		lines = append(lines, fmt.Sprintf("📚 Generated %d video chapters", n))
	}
	if a.quality != nil && a.quality.PercentageScore != nil {
		score := *a.quality.PercentageScore
		lines = append(lines, fmt.Sprintf("%s Final quality score: %s%%", a.policy.Emoji(score), formatScore(score)))
	}
	a.tracker.NoteBatch(lines...)
}

func (a *Aggregator) chunkTime(chunk domain.StreamingChunk) time.Time {
	if chunk.Timestamp != "" {
		for _, layout := range chunkTimeLayouts {
			if ts, err := time.ParseInLocation(layout, chunk.Timestamp, time.Local); err == nil {
				return ts.Local()
			}
		}
	}
	return a.clock()
}

func errorFromChunk(chunk domain.StreamingChunk, line string) *domain.APIError {
	msg := chunk.Message
	if msg == "" {
		msg = domain.MsgProcessing
	}
	return &domain.APIError{
		Message: domain.NormalizeMessage(msg),
		Type:    domain.ErrorProcessing,
		Details: line,
	}
}

func displayIteration(chunk domain.StreamingChunk) *int {
	n := 1
	if chunk.IterationCount != nil {
		n = *chunk.IterationCount + 1
	}
	return &n
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
