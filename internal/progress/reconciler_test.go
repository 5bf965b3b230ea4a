package progress

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VideoSummarizer/internal/domain"
)

func event(step domain.PipelineStep, status domain.StepStatus, msg string) domain.ProgressEvent {
	return domain.ProgressEvent{Step: step, Status: status, Message: msg}
}

func steps(entries []domain.ProgressEvent) []domain.PipelineStep {
	out := make([]domain.PipelineStep, len(entries))
	for i, e := range entries {
		out[i] = e.Step
	}
	return out
}

func TestNormalizeAndIndex(t *testing.T) {
	t.Parallel()

	assert.Equal(t, domain.StepAnalysisGeneration, Normalize(domain.StepAnalyzing))
	assert.Equal(t, domain.PipelineStep("transcribing"), Normalize("transcribing"))

	assert.Equal(t, 0, IndexOf(domain.StepScraping))
	assert.Equal(t, 1, IndexOf(domain.StepAnalyzing))
	assert.Equal(t, 4, IndexOf(domain.StepComplete))
	assert.Equal(t, -1, IndexOf("transcribing"))

	assert.Equal(t, UnknownRank, Rank("transcribing"))
	assert.Equal(t, "Quality Assessment", DisplayName(domain.StepQualityCheck))
	assert.Equal(t, "transcribing", DisplayName("transcribing"))
}

func TestReconcilerKeepsCanonicalOrder(t *testing.T) {
	t.Parallel()

	r := NewReconciler()
	r.Ingest(event(domain.StepComplete, domain.StatusCompleted, "done"))
	r.Ingest(event(domain.StepQualityCheck, domain.StatusCompleted, "quality"))
	r.Ingest(event(domain.StepScraping, domain.StatusCompleted, "scraped"))
	r.Ingest(event(domain.StepAnalysisGeneration, domain.StatusCompleted, "analysed"))

	want := []domain.PipelineStep{
		domain.StepScraping,
		domain.StepAnalysisGeneration,
		domain.StepQualityCheck,
		domain.StepComplete,
	}
	if diff := cmp.Diff(want, steps(r.Snapshot().Entries)); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestReconcilerOrderIsArrivalIndependent(t *testing.T) {
	t.Parallel()

	all := []domain.ProgressEvent{
		event(domain.StepScraping, domain.StatusProcessing, "s1"),
		event(domain.StepScraping, domain.StatusCompleted, "s2"),
		event(domain.StepAnalyzing, domain.StatusProcessing, "a1"),
		event(domain.StepAnalysisGeneration, domain.StatusCompleted, "a2"),
		event(domain.StepQualityCheck, domain.StatusCompleted, "q"),
		event(domain.StepRefinement, domain.StatusProcessing, "r"),
		event(domain.StepComplete, domain.StatusCompleted, "c"),
		event("transcribing", domain.StatusProcessing, "x"),
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		shuffled := append([]domain.ProgressEvent(nil), all...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		r := NewReconciler()
		for _, ev := range shuffled {
			r.Ingest(ev)
		}

		got := steps(r.Snapshot().Entries)
		require.Len(t, got, 6)
		seen := map[domain.PipelineStep]bool{}
		for j, s := range got {
			require.False(t, seen[s], "duplicate step %s", s)
			seen[s] = true
			if j > 0 {
				require.LessOrEqual(t, Rank(got[j-1]), Rank(s))
			}
		}
		assert.Equal(t, domain.PipelineStep("transcribing"), got[len(got)-1])
	}
}

func TestReconcilerIdempotent(t *testing.T) {
	t.Parallel()

	ev := event(domain.StepQualityCheck, domain.StatusCompleted, "🎯 Quality check passed")

	once := NewReconciler()
	once.Ingest(ev)

	twice := NewReconciler()
	twice.Ingest(ev)
	twice.Ingest(ev)

	assert.Equal(t, once.Len(), twice.Len())
	assert.Equal(t, once.Snapshot(), twice.Snapshot())
}

func TestReconcilerCollapsesAlias(t *testing.T) {
	t.Parallel()

	r := NewReconciler()
	r.Ingest(event(domain.StepAnalyzing, domain.StatusProcessing, "Generating AI summary..."))
	r.Ingest(event(domain.StepAnalysisGeneration, domain.StatusCompleted, "📝 Initial analysis"))

	snap := r.Snapshot()
	require.Len(t, snap.Entries, 1)
	assert.Equal(t, domain.StepAnalysisGeneration, snap.Entries[0].Step)
	assert.Equal(t, domain.StatusCompleted, snap.Entries[0].Status)
	assert.Equal(t, "Analysis Generation", snap.Entries[0].StepName)
}

func TestReconcilerReplacesInPlace(t *testing.T) {
	t.Parallel()

	r := NewReconciler()
	r.Ingest(event(domain.StepScraping, domain.StatusProcessing, "scraping"))
	r.Ingest(event(domain.StepAnalyzing, domain.StatusProcessing, "analysing"))
	r.Ingest(event(domain.StepScraping, domain.StatusCompleted, "scraped"))

	snap := r.Snapshot()
	require.Len(t, snap.Entries, 2)
	assert.Equal(t, domain.StatusCompleted, snap.Entries[0].Status)
	assert.Equal(t, "scraped", snap.Entries[0].Message)
}

func TestReconcilerUnknownStepsStableAndPointerUntouched(t *testing.T) {
	t.Parallel()

	r := NewReconciler()
	r.Ingest(event("zeta", domain.StatusProcessing, "z"))
	assert.Equal(t, -1, r.Pointer(), "unknown steps never move the pointer")

	r.Ingest(event(domain.StepQualityCheck, domain.StatusProcessing, "q"))
	r.Ingest(event("alpha", domain.StatusProcessing, "a"))
	assert.Equal(t, 2, r.Pointer())
	assert.Equal(t, "a", r.Message())

	want := []domain.PipelineStep{domain.StepQualityCheck, "zeta", "alpha"}
	assert.Equal(t, want, steps(r.Snapshot().Entries))
}

// The pointer follows the latest recognised step rather than the furthest one.
func TestReconcilerPointerRegressesOnLateEarlierStep(t *testing.T) {
	t.Parallel()

	r := NewReconciler()
	r.Ingest(event(domain.StepQualityCheck, domain.StatusCompleted, "quality"))
	require.Equal(t, 2, r.Pointer())

	r.Ingest(event(domain.StepScraping, domain.StatusCompleted, "late scraping diagnostic"))
	assert.Equal(t, 0, r.Pointer())
	assert.Equal(t, "late scraping diagnostic", r.Message())
	assert.Equal(t, 1, Anchor(r.Pointer()))
}

func TestReconcilerKeepsScrapedDataAfterOverwrite(t *testing.T) {
	t.Parallel()

	transcript := "hello world"
	r := NewReconciler()
	r.Ingest(domain.ProgressEvent{
		Step:    domain.StepScraping,
		Status:  domain.StatusCompleted,
		Message: "Video scraped: Go",
		Data: &domain.ProgressData{
			VideoInfo:  &domain.VideoInfo{Title: "Go"},
			Transcript: &transcript,
		},
	})
	r.Ingest(event(domain.StepScraping, domain.StatusError, "retry failed"))

	snap := r.Snapshot()
	require.NotNil(t, snap.VideoInfo)
	assert.Equal(t, "Go", snap.VideoInfo.Title)
	require.NotNil(t, snap.Transcript)
	assert.Equal(t, transcript, *snap.Transcript)
	assert.Nil(t, snap.Entries[0].Data)
}

func TestReconcilerTerminalStates(t *testing.T) {
	t.Parallel()

	done := NewReconciler()
	assert.False(t, done.Terminal())
	done.Ingest(event(domain.StepComplete, domain.StatusCompleted, "done"))
	assert.True(t, done.Finished())
	assert.True(t, done.Terminal())

	failed := NewReconciler()
	failed.Ingest(domain.ProgressEvent{
		Step:    domain.StepAnalyzing,
		Status:  domain.StatusError,
		Message: "boom",
		Error:   &domain.APIError{Message: "boom", Type: domain.ErrorServer},
	})
	assert.True(t, failed.Failed())
	assert.True(t, failed.Snapshot().Terminal())
	assert.Equal(t, domain.ErrorServer, failed.Snapshot().Error.Type)

	// Events after a terminal state are still accepted.
	failed.Ingest(event(domain.StepComplete, domain.StatusCompleted, "late"))
	assert.Equal(t, 2, failed.Len())
}

func TestSnapshotIsolation(t *testing.T) {
	t.Parallel()

	score := 90.0
	r := NewReconciler()
	r.Ingest(domain.ProgressEvent{Step: domain.StepQualityCheck, Status: domain.StatusCompleted, QualityScore: &score})

	snap := r.Snapshot()
	*snap.Entries[0].QualityScore = 1
	snap.Entries[0].Message = "mutated"

	entry, ok := r.Entry(domain.StepQualityCheck)
	require.True(t, ok)
	assert.Equal(t, 90.0, *entry.QualityScore)
	assert.Empty(t, entry.Message)

	score = 5
	entry, _ = r.Entry(domain.StepQualityCheck)
	assert.Equal(t, 90.0, *entry.QualityScore, "ingest copies caller pointers")
}
