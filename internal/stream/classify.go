package stream

import "VideoSummarizer/internal/domain"

// Classify decides what a chunk means. Rules are checked in order and the
// first match wins:
//
//  1. type "error"
//  2. completion signal carrying both analysis and quality
//  3. quality with a percentage score
//  4. analysis of the first iteration without quality
//  5. status message
func Classify(chunk domain.StreamingChunk) domain.ChunkKind {
	switch {
	case chunk.Type == domain.ChunkTypeError:
		return domain.ChunkError
	case chunk.SignalsCompletion() && chunk.Analysis != nil && chunk.Quality != nil:
		return domain.ChunkCompletion
	case chunk.Quality != nil && chunk.Quality.PercentageScore != nil:
		return domain.ChunkQuality
	case chunk.Analysis != nil && chunk.Quality == nil &&
		chunk.IterationCount != nil && *chunk.IterationCount == 1:
		return domain.ChunkInitialAnalysis
	case chunk.Type == domain.ChunkTypeStatus && chunk.Message != "":
		return domain.ChunkStatus
	default:
		return domain.ChunkOther
	}
}
