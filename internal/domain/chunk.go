package domain

// ChunkType is the optional wire discriminator on a streaming chunk.
type ChunkType string

const (
	ChunkTypeStatus   ChunkType = "status"
	ChunkTypeAnalysis ChunkType = "analysis"
	ChunkTypeQuality  ChunkType = "quality"
	ChunkTypeComplete ChunkType = "complete"
	ChunkTypeError    ChunkType = "error"
)

// StreamingChunk is one JSON payload decoded from a `data:` line.
type StreamingChunk struct {
	TranscriptOrURL string        `json:"transcript_or_url,omitempty"`
	Analysis        *AnalysisData `json:"analysis,omitempty"`
	Quality         *QualityData  `json:"quality,omitempty"`
	IterationCount  *int          `json:"iteration_count,omitempty"`
	IsComplete      bool          `json:"is_complete,omitempty"`
	Timestamp       string        `json:"timestamp,omitempty"`
	ChunkNumber     *int          `json:"chunk_number,omitempty"`
	Type            ChunkType     `json:"type,omitempty"`
	Message         string        `json:"message,omitempty"`
	ProcessingTime  string        `json:"processing_time,omitempty"`
	TotalChunks     *int          `json:"total_chunks,omitempty"`
}

// SignalsCompletion reports whether the chunk marks the end of the workflow.
func (c StreamingChunk) SignalsCompletion() bool {
	return c.IsComplete || c.Type == ChunkTypeComplete
}

// ChunkKind is the explicit classification of a chunk's meaning.
type ChunkKind int

const (
	ChunkOther ChunkKind = iota
	ChunkError
	ChunkCompletion
	ChunkQuality
	ChunkInitialAnalysis
	ChunkStatus
)

func (k ChunkKind) String() string {
	switch k {
	case ChunkError:
		return "error"
	case ChunkCompletion:
		return "completion"
	case ChunkQuality:
		return "quality"
	case ChunkInitialAnalysis:
		return "initial_analysis"
	case ChunkStatus:
		return "status"
	default:
		return "other"
	}
}
