package usecase

import (
	"time"

	"VideoSummarizer/internal/domain"
	"VideoSummarizer/internal/ports"
	"VideoSummarizer/internal/progress"
)

// Observer receives run updates synchronously, in wire order. Both callbacks
// get copies and may keep them.
type Observer struct {
	OnProgress func(event domain.ProgressEvent, view progress.Snapshot)
	OnLogs     func(lines []string)
}

// Tracker fans each derived event out to the reconciler, the observer and the journal.
type Tracker struct {
	clock      ports.Clock
	reconciler *progress.Reconciler
	journal    *Journal
	observer   Observer
}

// NewTracker builds the per-run progress state.
func NewTracker(clock ports.Clock, observer Observer) *Tracker {
	if clock == nil {
		clock = time.Now
	}
	return &Tracker{
		clock:      clock,
		reconciler: progress.NewReconciler(),
		journal:    NewJournal(clock, observer.OnLogs),
		observer:   observer,
	}
}

// Emit delivers an event stamped now and logs its message.
func (t *Tracker) Emit(event domain.ProgressEvent) {
	t.EmitAt(t.clock(), event)
}

// EmitAt delivers an event and logs its message with the given timestamp.
func (t *Tracker) EmitAt(at time.Time, event domain.ProgressEvent) {
	t.deliver(event)
	if event.Message != "" {
		t.journal.AppendAt(at, event.Message)
	}
}

func (t *Tracker) deliver(event domain.ProgressEvent) {
	t.reconciler.Ingest(event)
	if t.observer.OnProgress != nil {
		t.observer.OnProgress(event.Clone(), t.reconciler.Snapshot())
	}
}

// Note appends a log line that has no progress event.
func (t *Tracker) Note(line string) {
	t.journal.Append(line)
}

// NoteAt appends a log line with the given timestamp.
func (t *Tracker) NoteAt(at time.Time, line string) {
	t.journal.AppendAt(at, line)
}

// NoteBatch appends several lines at once.
func (t *Tracker) NoteBatch(lines ...string) {
	t.journal.AppendBatch(lines...)
}

// Snapshot returns the reconciled view.
func (t *Tracker) Snapshot() progress.Snapshot {
	return t.reconciler.Snapshot()
}

// Logs returns a copy of the journal.
func (t *Tracker) Logs() []string {
	return t.journal.Lines()
}
