// Package stream turns the raw analysis response body into decoded chunks.
package stream

import (
	"bytes"
	"encoding/json"
	"strings"

	"VideoSummarizer/internal/domain"
)

const dataPrefix = "data: "

// FrameKind tells a decoded chunk apart from an unparsable line.
type FrameKind int

const (
	FrameChunk FrameKind = iota
	FrameMalformed
)

// Frame is one meaningful `data:` line.
type Frame struct {
	Kind  FrameKind
	Chunk domain.StreamingChunk
	// Line is the raw text, kept for malformed frames.
	Line string
	// CompletionHint is set on malformed frames that look like the final chunk.
	CompletionHint bool
}

// Decoder splits network fragments into lines and parses `data:` payloads.
// A line cut between two fragments is carried over to the next Feed call.
type Decoder struct {
	pending []byte
}

// NewDecoder returns an empty decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed consumes one fragment and returns the frames of every completed line.
func (d *Decoder) Feed(fragment []byte) []Frame {
	d.pending = append(d.pending, fragment...)

	var frames []Frame
	for {
		idx := bytes.IndexByte(d.pending, '\n')
		if idx < 0 {
			break
		}
		line := string(d.pending[:idx])
		d.pending = d.pending[idx+1:]
		if frame, ok := decodeLine(line); ok {
			frames = append(frames, frame)
		}
	}

	if len(d.pending) == 0 {
		d.pending = nil
	}
	return frames
}

// Flush decodes a trailing line that never received its newline.
func (d *Decoder) Flush() []Frame {
	if len(d.pending) == 0 {
		return nil
	}
	line := string(d.pending)
	d.pending = nil
	if frame, ok := decodeLine(line); ok {
		return []Frame{frame}
	}
	return nil
}

// Pending reports how many bytes of a partial line are buffered.
func (d *Decoder) Pending() int {
	return len(d.pending)
}

func decodeLine(line string) (Frame, bool) {
	if !strings.HasPrefix(line, dataPrefix) {
		return Frame{}, false
	}

	payload := strings.TrimSpace(line[len(dataPrefix):])
	if payload == "" || payload == "{}" {
		return Frame{}, false
	}

	var chunk domain.StreamingChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		return Frame{
			Kind:           FrameMalformed,
			Line:           line,
			CompletionHint: looksComplete(line),
		}, true
	}

	if chunk.Type == domain.ChunkTypeComplete {
		chunk.IsComplete = true
	}
	return Frame{Kind: FrameChunk, Chunk: chunk, Line: line}, true
}

// looksComplete keeps an unparsable final chunk from leaving the run hanging.
func looksComplete(line string) bool {
	return strings.Contains(line, `"type": "complete"`) ||
		strings.Contains(line, `"is_complete": true`)
}
