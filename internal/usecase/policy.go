package usecase

import "VideoSummarizer/internal/domain"

// Policy holds the score thresholds used when the backend leaves a verdict out.
type Policy struct {
	// AcceptableScore applies only when quality.is_acceptable is missing.
	AcceptableScore float64
	ExcellentScore  float64
	GoodScore       float64
}

// DefaultPolicy mirrors the backend's MIN_QUALITY_SCORE.
func DefaultPolicy() Policy {
	return Policy{
		AcceptableScore: 90,
		ExcellentScore:  80,
		GoodScore:       60,
	}
}

// Acceptable prefers the backend verdict and falls back to the score threshold.
func (p Policy) Acceptable(q *domain.QualityData) bool {
	if q == nil {
		return false
	}
	if q.IsAcceptable != nil {
		return *q.IsAcceptable
	}
	return q.PercentageScore != nil && *q.PercentageScore >= p.AcceptableScore
}

// Emoji grades a final quality score.
func (p Policy) Emoji(score float64) string {
	switch {
	case score >= p.ExcellentScore:
		return "🌟"
	case score >= p.GoodScore:
		return "⭐"
	default:
		return "🔄"
	}
}
