package domain

// PipelineStep identifies a stage of the backend pipeline.
type PipelineStep string

const (
	StepScraping           PipelineStep = "scraping"
	StepAnalysisGeneration PipelineStep = "analysis_generation"
	StepQualityCheck       PipelineStep = "quality_check"
	StepRefinement         PipelineStep = "refinement"
	StepComplete           PipelineStep = "complete"

	// StepAnalyzing is the legacy name of StepAnalysisGeneration.
	StepAnalyzing PipelineStep = "analyzing"
)

// StepStatus is the state of a single pipeline step.
type StepStatus string

const (
	StatusPending    StepStatus = "pending"
	StatusProcessing StepStatus = "processing"
	StatusCompleted  StepStatus = "completed"
	StatusError      StepStatus = "error"
)

// ProgressData carries scraping output on the scraping-completed event.
type ProgressData struct {
	VideoInfo  *VideoInfo `json:"videoInfo,omitempty"`
	Transcript *string    `json:"transcript,omitempty"`
}

// ProgressEvent is one step-tagged status update.
type ProgressEvent struct {
	Step           PipelineStep  `json:"step"`
	StepName       string        `json:"stepName"`
	Status         StepStatus    `json:"status"`
	Message        string        `json:"message"`
	Data           *ProgressData `json:"data,omitempty"`
	Error          *APIError     `json:"error,omitempty"`
	ProcessingTime string        `json:"processingTime,omitempty"`
	IterationCount *int          `json:"iterationCount,omitempty"`
	QualityScore   *float64      `json:"qualityScore,omitempty"`
	ChunkCount     *int          `json:"chunkCount,omitempty"`
}

// Clone returns a deep copy of the event.
func (e ProgressEvent) Clone() ProgressEvent {
	out := e
	if e.Data != nil {
		data := ProgressData{}
		if e.Data.VideoInfo != nil {
			info := *e.Data.VideoInfo
			data.VideoInfo = &info
		}
		if e.Data.Transcript != nil {
			tr := *e.Data.Transcript
			data.Transcript = &tr
		}
		out.Data = &data
	}
	if e.Error != nil {
		apiErr := *e.Error
		out.Error = &apiErr
	}
	if e.IterationCount != nil {
		v := *e.IterationCount
		out.IterationCount = &v
	}
	if e.QualityScore != nil {
		v := *e.QualityScore
		out.QualityScore = &v
	}
	if e.ChunkCount != nil {
		v := *e.ChunkCount
		out.ChunkCount = &v
	}
	return out
}
