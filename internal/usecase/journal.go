package usecase

import (
	"fmt"
	"time"

	"VideoSummarizer/internal/ports"
)

const logTimeLayout = "15:04:05"

// Journal is the append-only, human-readable log of a run.
type Journal struct {
	clock  ports.Clock
	lines  []string
	notify func([]string)
}

// NewJournal builds a journal; notify receives the full log after every append.
func NewJournal(clock ports.Clock, notify func([]string)) *Journal {
	if clock == nil {
		clock = time.Now
	}
	return &Journal{clock: clock, notify: notify}
}

// Append records a line stamped with the current wall-clock time.
func (j *Journal) Append(message string) {
	j.AppendAt(j.clock(), message)
}

// AppendAt records a line stamped with at.
func (j *Journal) AppendAt(at time.Time, message string) {
	j.lines = append(j.lines, fmt.Sprintf("[%s] %s", at.Format(logTimeLayout), message))
	j.publish()
}

// AppendBatch records several lines with one timestamp and a single notification.
func (j *Journal) AppendBatch(messages ...string) {
	if len(messages) == 0 {
		return
	}
	stamp := j.clock().Format(logTimeLayout)
	for _, msg := range messages {
		j.lines = append(j.lines, fmt.Sprintf("[%s] %s", stamp, msg))
	}
	j.publish()
}

// Lines returns a copy of the log.
func (j *Journal) Lines() []string {
	return append([]string(nil), j.lines...)
}

// Len returns the number of lines.
func (j *Journal) Len() int {
	return len(j.lines)
}

func (j *Journal) publish() {
	if j.notify != nil {
		j.notify(j.Lines())
	}
}
