// Package progress reconciles progress events into an ordered per-step view.
package progress

import (
	"math"

	"VideoSummarizer/internal/domain"
)

// Order is the canonical pipeline sequence.
var Order = []domain.PipelineStep{
	domain.StepScraping,
	domain.StepAnalysisGeneration,
	domain.StepQualityCheck,
	domain.StepRefinement,
	domain.StepComplete,
}

// UnknownRank is the sort rank of steps outside Order.
const UnknownRank = math.MaxInt

var stepNames = map[domain.PipelineStep]string{
	domain.StepScraping:           "Scraping Video",
	domain.StepAnalysisGeneration: "Analysis Generation",
	domain.StepQualityCheck:       "Quality Assessment",
	domain.StepRefinement:         "Analysis Refinement",
	domain.StepComplete:           "Analysis Complete",
}

// Normalize maps the legacy alias onto its canonical step. Unknown steps are
// returned unchanged.
func Normalize(step domain.PipelineStep) domain.PipelineStep {
	if step == domain.StepAnalyzing {
		return domain.StepAnalysisGeneration
	}
	return step
}

// IndexOf returns the canonical position of step, or -1 when unknown.
func IndexOf(step domain.PipelineStep) int {
	normalized := Normalize(step)
	for i, s := range Order {
		if s == normalized {
			return i
		}
	}
	return -1
}

// Rank is IndexOf with unknown steps pushed after every known one.
func Rank(step domain.PipelineStep) int {
	if idx := IndexOf(step); idx >= 0 {
		return idx
	}
	return UnknownRank
}

// DisplayName returns a human label for step.
func DisplayName(step domain.PipelineStep) string {
	if name, ok := stepNames[Normalize(step)]; ok {
		return name
	}
	return string(step)
}
