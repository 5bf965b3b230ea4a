package progress

import (
	"sort"

	"VideoSummarizer/internal/domain"
)

// Reconciler merges progress events into at most one entry per step, kept in
// canonical order. It is owned by a single run and is not safe for concurrent use.
type Reconciler struct {
	entries    []domain.ProgressEvent
	pointer    int
	message    string
	videoInfo  *domain.VideoInfo
	transcript *string
	failure    *domain.APIError
	failed     bool
}

// NewReconciler returns an empty reconciler with the pointer unset.
func NewReconciler() *Reconciler {
	return &Reconciler{pointer: -1}
}

// Ingest merges one event.
//
// The pointer is set, not maxed: a late event for an earlier step moves it back.
func (r *Reconciler) Ingest(event domain.ProgressEvent) {
	event = event.Clone()
	event.Step = Normalize(event.Step)
	if event.StepName == "" {
		event.StepName = DisplayName(event.Step)
	}

	if idx := IndexOf(event.Step); idx >= 0 {
		r.pointer = idx
	}

	r.message = event.Message

	r.upsert(event)

	if event.Data != nil {
		if event.Data.VideoInfo != nil {
			info := *event.Data.VideoInfo
			r.videoInfo = &info
		}
		if event.Data.Transcript != nil {
			tr := *event.Data.Transcript
			r.transcript = &tr
		}
	}

	if event.Status == domain.StatusError {
		r.failed = true
		if event.Error != nil && r.failure == nil {
			apiErr := *event.Error
			r.failure = &apiErr
		}
	}
}

func (r *Reconciler) upsert(event domain.ProgressEvent) {
	for i := range r.entries {
		if r.entries[i].Step == event.Step {
			r.entries[i] = event
			return
		}
	}

	r.entries = append(r.entries, event)
	sort.SliceStable(r.entries, func(i, j int) bool {
		return Rank(r.entries[i].Step) < Rank(r.entries[j].Step)
	})
}

// Len returns the number of retained entries.
func (r *Reconciler) Len() int {
	return len(r.entries)
}

// Pointer returns the index of the most recently reported known step, or -1.
func (r *Reconciler) Pointer() int {
	return r.pointer
}

// Message returns the text of the latest event.
func (r *Reconciler) Message() string {
	return r.message
}

// Finished reports whether a complete entry has been recorded.
func (r *Reconciler) Finished() bool {
	for _, e := range r.entries {
		if e.Step == domain.StepComplete {
			return true
		}
	}
	return false
}

// Failed reports whether an error event has been recorded.
func (r *Reconciler) Failed() bool {
	return r.failed
}

// Terminal reports whether further events are irrelevant for display.
func (r *Reconciler) Terminal() bool {
	return r.failed || r.Finished()
}

// Entry returns the retained event for step, if any.
func (r *Reconciler) Entry(step domain.PipelineStep) (domain.ProgressEvent, bool) {
	step = Normalize(step)
	for _, e := range r.entries {
		if e.Step == step {
			return e.Clone(), true
		}
	}
	return domain.ProgressEvent{}, false
}

// Snapshot is a point-in-time copy of the reconciled view.
type Snapshot struct {
	Entries    []domain.ProgressEvent
	Pointer    int
	Message    string
	VideoInfo  *domain.VideoInfo
	Transcript *string
	Error      *domain.APIError
	Finished   bool
	Failed     bool
}

// Terminal reports whether the run reached completion or failed.
func (s Snapshot) Terminal() bool {
	return s.Finished || s.Failed
}

// Snapshot returns a deep copy that callers may keep and modify freely.
func (r *Reconciler) Snapshot() Snapshot {
	snap := Snapshot{
		Entries:  make([]domain.ProgressEvent, len(r.entries)),
		Pointer:  r.pointer,
		Message:  r.message,
		Finished: r.Finished(),
		Failed:   r.failed,
	}
	for i, e := range r.entries {
		snap.Entries[i] = e.Clone()
	}
	if r.videoInfo != nil {
		info := *r.videoInfo
		snap.VideoInfo = &info
	}
	if r.transcript != nil {
		tr := *r.transcript
		snap.Transcript = &tr
	}
	if r.failure != nil {
		apiErr := *r.failure
		snap.Error = &apiErr
	}
	return snap
}
