package usecase

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"VideoSummarizer/internal/domain"
	"VideoSummarizer/internal/progress"
)

var baseTime = time.Date(2026, time.January, 2, 10, 30, 0, 0, time.UTC)

// fakeClock returns a fixed instant that tests move explicitly.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{now: baseTime} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type trackingBody struct {
	io.Reader
	closed bool
}

func (b *trackingBody) Close() error {
	b.closed = true
	return nil
}

type fakeBackend struct {
	mu sync.Mutex

	scrap     func(ctx context.Context, url string) (domain.ScrapResult, error)
	stream    string
	streamErr error

	scrapCalls  int
	streamCalls int
	requests    []domain.AnalysisRequest
	bodies      []*trackingBody
}

func (f *fakeBackend) Scrap(ctx context.Context, url string) (domain.ScrapResult, error) {
	f.mu.Lock()
	f.scrapCalls++
	fn := f.scrap
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, url)
	}
	return domain.ScrapResult{
		VideoInfo:      domain.VideoInfo{Title: "Demo Video", Author: "Channel", Thumbnail: "t.jpg"},
		Transcript:     "hello transcript",
		ProcessingTime: "1.0s",
	}, nil
}

func (f *fakeBackend) StreamSummarize(_ context.Context, req domain.AnalysisRequest) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.streamCalls++
	f.requests = append(f.requests, req)
	if f.streamErr != nil {
		return nil, f.streamErr
	}
	body := &trackingBody{Reader: strings.NewReader(f.stream)}
	f.bodies = append(f.bodies, body)
	return body, nil
}

func (f *fakeBackend) Configuration(context.Context) (domain.BackendConfig, error) {
	return domain.BackendConfig{}, nil
}

func (f *fakeBackend) Health(context.Context) (domain.HealthStatus, error) {
	return domain.HealthStatus{Status: "healthy"}, nil
}

type fakeRepository struct {
	mu      sync.Mutex
	records []domain.RunRecord
}

func (r *fakeRepository) SaveRun(_ context.Context, rec domain.RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

func (r *fakeRepository) RecentRuns(context.Context, int) ([]domain.RunRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.RunRecord(nil), r.records...), nil
}

type fakeNotifier struct {
	digests []string
}

func (n *fakeNotifier) PublishDigest(_ context.Context, digest string) error {
	n.digests = append(n.digests, digest)
	return nil
}

type fakeRecorder struct {
	mu        sync.Mutex
	kinds     []domain.ChunkKind
	malformed []bool
	runs      []domain.Result
}

func (r *fakeRecorder) ObserveChunk(kind domain.ChunkKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds = append(r.kinds, kind)
}

func (r *fakeRecorder) ObserveMalformedChunk(hint bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.malformed = append(r.malformed, hint)
}

func (r *fakeRecorder) ObserveRun(result domain.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, result)
}

type fakeProbe struct {
	info  domain.VideoInfo
	err   error
	calls int
}

func (p *fakeProbe) Probe(context.Context, string) (domain.VideoInfo, error) {
	p.calls++
	return p.info, p.err
}

// observed collects observer callbacks.
type observed struct {
	events    []domain.ProgressEvent
	snapshots []progress.Snapshot
	logs      [][]string
}

func (o *observed) observer() Observer {
	return Observer{
		OnProgress: func(ev domain.ProgressEvent, view progress.Snapshot) {
			o.events = append(o.events, ev)
			o.snapshots = append(o.snapshots, view)
		},
		OnLogs: func(lines []string) {
			o.logs = append(o.logs, lines)
		},
	}
}

func chunkLine(t *testing.T, chunk domain.StreamingChunk) string {
	t.Helper()
	raw, err := json.Marshal(chunk)
	if err != nil {
		t.Fatalf("marshal chunk: %v", err)
	}
	return "data: " + string(raw) + "\n\n"
}

func analysisWithChapters(n int) *domain.AnalysisData {
	a := &domain.AnalysisData{Title: "Demo", Summary: "A short summary.", Takeaways: []string{"one", "two"}}
	for i := 0; i < n; i++ {
		a.Chapters = append(a.Chapters, domain.AnalysisChapter{Header: "Chapter", Summary: "s"})
	}
	return a
}

func quality(score float64, acceptable *bool) *domain.QualityData {
	return &domain.QualityData{PercentageScore: &score, IsAcceptable: acceptable}
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

// threeChunkStream is initial analysis, passing quality check, completion.
func threeChunkStream(t *testing.T) string {
	t.Helper()
	return chunkLine(t, domain.StreamingChunk{
		Type:           domain.ChunkTypeAnalysis,
		Analysis:       analysisWithChapters(3),
		IterationCount: intPtr(1),
	}) + chunkLine(t, domain.StreamingChunk{
		Type:           domain.ChunkTypeQuality,
		Quality:        quality(100, boolPtr(true)),
		IterationCount: intPtr(1),
	}) + chunkLine(t, domain.StreamingChunk{
		Type:           domain.ChunkTypeComplete,
		IsComplete:     true,
		Analysis:       analysisWithChapters(10),
		Quality:        quality(100, boolPtr(true)),
		IterationCount: intPtr(1),
	})
}

// messages strips the "[15:04:05] " stamp from log lines.
func messages(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if idx := strings.Index(line, "] "); idx >= 0 {
			out[i] = line[idx+2:]
		} else {
			out[i] = line
		}
	}
	return out
}
