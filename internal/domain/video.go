package domain

// VideoInfo is the metadata returned by the scraping phase.
type VideoInfo struct {
	URL        string `json:"url,omitempty"`
	Title      string `json:"title,omitempty"`
	Thumbnail  string `json:"thumbnail,omitempty"`
	Author     string `json:"author,omitempty"`
	Duration   string `json:"duration,omitempty"`
	UploadDate string `json:"upload_date,omitempty"`
	ViewCount  int64  `json:"view_count,omitempty"`
	LikeCount  int64  `json:"like_count,omitempty"`
}

// AnalysisChapter is a single chapter of the generated analysis.
type AnalysisChapter struct {
	Header    string   `json:"header"`
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
}

// AnalysisData is the structured summary produced by the backend.
type AnalysisData struct {
	Title          string            `json:"title"`
	Summary        string            `json:"summary"`
	Takeaways      []string          `json:"takeaways"`
	KeyFacts       []string          `json:"key_facts,omitempty"`
	Chapters       []AnalysisChapter `json:"chapters"`
	Keywords       []string          `json:"keywords"`
	TargetLanguage *string           `json:"target_language,omitempty"`
}

// ChapterCount tolerates a nil receiver.
func (a *AnalysisData) ChapterCount() int {
	if a == nil {
		return 0
	}
	return len(a.Chapters)
}

// Clone returns a deep copy so observers cannot mutate aggregator state.
func (a *AnalysisData) Clone() *AnalysisData {
	if a == nil {
		return nil
	}
	out := *a
	out.Takeaways = append([]string(nil), a.Takeaways...)
	out.KeyFacts = append([]string(nil), a.KeyFacts...)
	out.Keywords = append([]string(nil), a.Keywords...)
	if a.Chapters != nil {
		out.Chapters = make([]AnalysisChapter, len(a.Chapters))
		for i, ch := range a.Chapters {
			ch.KeyPoints = append([]string(nil), ch.KeyPoints...)
			out.Chapters[i] = ch
		}
	}
	if a.TargetLanguage != nil {
		lang := *a.TargetLanguage
		out.TargetLanguage = &lang
	}
	return &out
}

// Rate is the verdict of a single quality rubric dimension.
type Rate string

const (
	RateFail   Rate = "Fail"
	RateRefine Rate = "Refine"
	RatePass   Rate = "Pass"
)

// QualityRate pairs a verdict with the grader's reasoning.
type QualityRate struct {
	Rate   Rate   `json:"rate"`
	Reason string `json:"reason"`
}

// QualityData is the rubric evaluation of an analysis iteration.
type QualityData struct {
	Completeness          *QualityRate `json:"completeness,omitempty"`
	Structure             *QualityRate `json:"structure,omitempty"`
	Grammar               *QualityRate `json:"grammar,omitempty"`
	NoGarbage             *QualityRate `json:"no_garbage,omitempty"`
	MetaLanguageAvoidance *QualityRate `json:"meta_language_avoidance,omitempty"`
	UsefulKeywords        *QualityRate `json:"useful_keywords,omitempty"`
	CorrectLanguage       *QualityRate `json:"correct_language,omitempty"`
	TotalScore            *float64     `json:"total_score,omitempty"`
	MaxPossibleScore      *float64     `json:"max_possible_score,omitempty"`
	PercentageScore       *float64     `json:"percentage_score,omitempty"`
	IsAcceptable          *bool        `json:"is_acceptable,omitempty"`
}

// QualityDimension is a named rubric entry.
type QualityDimension struct {
	Name string
	QualityRate
}

// Dimensions lists the rubric entries present, in a fixed order.
func (q *QualityData) Dimensions() []QualityDimension {
	if q == nil {
		return nil
	}
	all := []struct {
		name string
		rate *QualityRate
	}{
		{"completeness", q.Completeness},
		{"structure", q.Structure},
		{"grammar", q.Grammar},
		{"no_garbage", q.NoGarbage},
		{"meta_language_avoidance", q.MetaLanguageAvoidance},
		{"useful_keywords", q.UsefulKeywords},
		{"correct_language", q.CorrectLanguage},
	}
	dims := make([]QualityDimension, 0, len(all))
	for _, d := range all {
		if d.rate == nil {
			continue
		}
		dims = append(dims, QualityDimension{Name: d.name, QualityRate: *d.rate})
	}
	return dims
}

// Clone returns a deep copy.
func (q *QualityData) Clone() *QualityData {
	if q == nil {
		return nil
	}
	out := *q
	cloneRate := func(r *QualityRate) *QualityRate {
		if r == nil {
			return nil
		}
		c := *r
		return &c
	}
	cloneFloat := func(f *float64) *float64 {
		if f == nil {
			return nil
		}
		c := *f
		return &c
	}
	out.Completeness = cloneRate(q.Completeness)
	out.Structure = cloneRate(q.Structure)
	out.Grammar = cloneRate(q.Grammar)
	out.NoGarbage = cloneRate(q.NoGarbage)
	out.MetaLanguageAvoidance = cloneRate(q.MetaLanguageAvoidance)
	out.UsefulKeywords = cloneRate(q.UsefulKeywords)
	out.CorrectLanguage = cloneRate(q.CorrectLanguage)
	out.TotalScore = cloneFloat(q.TotalScore)
	out.MaxPossibleScore = cloneFloat(q.MaxPossibleScore)
	out.PercentageScore = cloneFloat(q.PercentageScore)
	if q.IsAcceptable != nil {
		v := *q.IsAcceptable
		out.IsAcceptable = &v
	}
	return &out
}
