// Package catalog holds the model and language tables offered to a run.
package catalog

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/language"

	"VideoSummarizer/internal/domain"
)

// AutoLanguage asks the backend to detect the output language.
const AutoLanguage = "auto"

// Options selects models and language for one run.
type Options struct {
	AnalysisModel  string
	QualityModel   string
	TargetLanguage string
	FastMode       bool
}

// Catalog is immutable once built; WithBackend returns a new value.
type Catalog struct {
	models                map[string]string
	languages             map[string]string
	defaultAnalysisModel  string
	defaultQualityModel   string
	defaultTargetLanguage string
}

// Defaults returns the built-in tables used when the backend is unreachable.
func Defaults() Catalog {
	return Catalog{
		models: map[string]string{
			"google/gemini-2.5-pro":     "Gemini 2.5 Pro",
			"google/gemini-2.5-flash":   "Gemini 2.5 Flash",
			"openai/gpt-5":              "GPT-5",
			"openai/gpt-5-mini":         "GPT-5 Mini",
			"anthropic/claude-sonnet-4": "Claude Sonnet 4",
			"x-ai/grok-4":               "Grok 4",
			"x-ai/grok-code-fast-1":     "Grok Code Fast 1",
		},
		languages: map[string]string{
			AutoLanguage: "Auto-detect",
			"en":         "English",
			"zh-TW":      "繁體中文",
			"ja":         "日本語",
			"ko":         "한국어",
			"de":         "Deutsch",
		},
		defaultAnalysisModel:  "google/gemini-2.5-pro",
		defaultQualityModel:   "google/gemini-2.5-flash",
		defaultTargetLanguage: AutoLanguage,
	}
}

// New builds a catalog from explicit tables. Empty defaults fall back to Defaults.
func New(models, languages map[string]string, analysisModel, qualityModel, targetLanguage string) Catalog {
	base := Defaults()
	return base.merge(models, languages, analysisModel, qualityModel, targetLanguage)
}

// WithBackend returns a copy where the backend's advertised tables and defaults
// take precedence over the receiver's.
func (c Catalog) WithBackend(cfg domain.BackendConfig) Catalog {
	return c.merge(cfg.AvailableModels, cfg.SupportedLanguages,
		cfg.DefaultAnalysisModel, cfg.DefaultQualityModel, cfg.DefaultTargetLanguage)
}

// WithDefaults overrides only the default selections.
func (c Catalog) WithDefaults(analysisModel, qualityModel, targetLanguage string) Catalog {
	return c.merge(nil, nil, analysisModel, qualityModel, targetLanguage)
}

func (c Catalog) merge(models, languages map[string]string, analysisModel, qualityModel, targetLanguage string) Catalog {
	out := Catalog{
		models:                maps.Clone(c.models),
		languages:             maps.Clone(c.languages),
		defaultAnalysisModel:  c.defaultAnalysisModel,
		defaultQualityModel:   c.defaultQualityModel,
		defaultTargetLanguage: c.defaultTargetLanguage,
	}
	if len(models) > 0 {
		out.models = maps.Clone(models)
	}
	if len(languages) > 0 {
		out.languages = maps.Clone(languages)
		if _, ok := out.languages[AutoLanguage]; !ok {
			out.languages[AutoLanguage] = "Auto-detect"
		}
	}
	if analysisModel != "" {
		out.defaultAnalysisModel = analysisModel
	}
	if qualityModel != "" {
		out.defaultQualityModel = qualityModel
	}
	if targetLanguage != "" {
		out.defaultTargetLanguage = targetLanguage
	}
	return out
}

// Models returns a copy of the model id to label table.
func (c Catalog) Models() map[string]string { return maps.Clone(c.models) }

// Languages returns a copy of the language code to label table.
func (c Catalog) Languages() map[string]string { return maps.Clone(c.languages) }

// ModelIDs lists model ids sorted.
func (c Catalog) ModelIDs() []string {
	return slices.Sorted(maps.Keys(c.models))
}

// LanguageCodes lists language codes sorted, auto first.
func (c Catalog) LanguageCodes() []string {
	codes := slices.Sorted(maps.Keys(c.languages))
	if i := slices.Index(codes, AutoLanguage); i > 0 {
		codes = append([]string{AutoLanguage}, slices.Delete(codes, i, i+1)...)
	}
	return codes
}

func (c Catalog) DefaultAnalysisModel() string  { return c.defaultAnalysisModel }
func (c Catalog) DefaultQualityModel() string   { return c.defaultQualityModel }
func (c Catalog) DefaultTargetLanguage() string { return c.defaultTargetLanguage }

// ModelLabel returns the display label of id, or id itself.
func (c Catalog) ModelLabel(id string) string {
	if label, ok := c.models[id]; ok {
		return label
	}
	return id
}

// ResolveOptions fills blanks from the catalog defaults and validates the result.
func (c Catalog) ResolveOptions(opts Options) (Options, error) {
	opts.AnalysisModel = strings.TrimSpace(opts.AnalysisModel)
	opts.QualityModel = strings.TrimSpace(opts.QualityModel)
	opts.TargetLanguage = strings.TrimSpace(opts.TargetLanguage)

	if opts.AnalysisModel == "" {
		opts.AnalysisModel = c.defaultAnalysisModel
	}
	if opts.QualityModel == "" {
		opts.QualityModel = c.defaultQualityModel
	}
	if opts.TargetLanguage == "" {
		opts.TargetLanguage = c.defaultTargetLanguage
	}

	if _, ok := c.models[opts.AnalysisModel]; !ok {
		return opts, fmt.Errorf("unknown analysis model %q", opts.AnalysisModel)
	}
	if _, ok := c.models[opts.QualityModel]; !ok {
		return opts, fmt.Errorf("unknown quality model %q", opts.QualityModel)
	}

	lang, err := CanonicalLanguage(opts.TargetLanguage)
	if err != nil {
		return opts, err
	}
	opts.TargetLanguage = lang
	return opts, nil
}

// CanonicalLanguage validates code as a BCP-47 tag. "auto" and the empty
// string both mean auto-detect.
func CanonicalLanguage(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" || strings.EqualFold(code, AutoLanguage) {
		return AutoLanguage, nil
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("parse target language %q: %w", code, err)
	}
	return tag.String(), nil
}
