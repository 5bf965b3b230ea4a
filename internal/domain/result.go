package domain

import "time"

// ScrapResult is the outcome of a successful scraping request.
type ScrapResult struct {
	VideoInfo      VideoInfo
	Transcript     string
	ProcessingTime string
	Message        string
}

// ContentType tells the backend what the analysis content holds.
type ContentType string

const (
	ContentURL        ContentType = "url"
	ContentTranscript ContentType = "transcript"
)

// AnalysisRequest is the input of the streaming analysis phase.
type AnalysisRequest struct {
	Content        string
	ContentType    ContentType
	AnalysisModel  string
	QualityModel   string
	TargetLanguage string // empty means auto-detect
	FastMode       bool
}

// BackendConfig is the model/language configuration advertised by the backend.
type BackendConfig struct {
	AvailableModels       map[string]string
	SupportedLanguages    map[string]string
	DefaultAnalysisModel  string
	DefaultQualityModel   string
	DefaultTargetLanguage string
}

// HealthStatus is the backend liveness report.
type HealthStatus struct {
	Status                   string
	Message                  string
	Version                  string
	Timestamp                string
	GeminiConfigured         bool
	ScrapeCreatorsConfigured bool
}

// Result is the terminal snapshot of one processing run.
type Result struct {
	RunID           string          `json:"runId"`
	URL             string          `json:"url"`
	Success         bool            `json:"success"`
	VideoInfo       *VideoInfo      `json:"videoInfo,omitempty"`
	Transcript      *string         `json:"transcript,omitempty"`
	Analysis        *AnalysisData   `json:"analysis,omitempty"`
	Quality         *QualityData    `json:"quality,omitempty"`
	TotalTime       string          `json:"totalTime"`
	Elapsed         time.Duration   `json:"-"`
	IterationCount  int             `json:"iterationCount"`
	ChunksProcessed int             `json:"chunksProcessed"`
	Logs            []string        `json:"logs"`
	Timeline        []ProgressEvent `json:"timeline,omitempty"`
	Error           *APIError       `json:"error,omitempty"`
	FinishedAt      time.Time       `json:"finishedAt"`
}

// RunRecord is the persisted summary of a finished run.
type RunRecord struct {
	ID              string
	URL             string
	Title           string
	Success         bool
	ErrorType       ErrorType
	ErrorMessage    string
	Elapsed         time.Duration
	IterationCount  int
	ChunksProcessed int
	QualityScore    *float64
	ChapterCount    int
	CreatedAt       time.Time
}

// Record flattens a result for storage.
func (r Result) Record() RunRecord {
	rec := RunRecord{
		ID:              r.RunID,
		URL:             r.URL,
		Success:         r.Success,
		Elapsed:         r.Elapsed,
		IterationCount:  r.IterationCount,
		ChunksProcessed: r.ChunksProcessed,
		ChapterCount:    r.Analysis.ChapterCount(),
		CreatedAt:       r.FinishedAt,
	}
	if r.VideoInfo != nil {
		rec.Title = r.VideoInfo.Title
	}
	if rec.Title == "" && r.Analysis != nil {
		rec.Title = r.Analysis.Title
	}
	if r.Quality != nil && r.Quality.PercentageScore != nil {
		score := *r.Quality.PercentageScore
		rec.QualityScore = &score
	}
	if r.Error != nil {
		rec.ErrorType = r.Error.Type
		rec.ErrorMessage = r.Error.Message
	}
	return rec
}
