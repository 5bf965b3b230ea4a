package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "VIDEOSUMMARIZER_CONFIG"
	baseURLEnv        = "SUMMARIZER_API_BASE_URL"
	analysisModelEnv  = "SUMMARIZER_ANALYSIS_MODEL"
	qualityModelEnv   = "SUMMARIZER_QUALITY_MODEL"
	targetLanguageEnv = "SUMMARIZER_TARGET_LANGUAGE"
	dbPathEnv         = "SUMMARIZER_DB_PATH"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
	logLevelEnv       = "LOG_LEVEL"
)

// dotenvFiles are loaded in order; later files win.
var dotenvFiles = []string{".env", ".env.local"}

// Config holds high-level settings required across the application.
type Config struct {
	Backend       BackendConfig      `yaml:"backend"`
	Analysis      AnalysisConfig     `yaml:"analysis"`
	Quality       QualityConfig      `yaml:"quality"`
	Storage       StorageConfig      `yaml:"storage"`
	Metrics       MetricsConfig      `yaml:"metrics"`
	Batch         BatchConfig        `yaml:"batch"`
	Probe         ProbeConfig        `yaml:"probe"`
	Notifications NotificationConfig `yaml:"notifications"`
	Logging       LoggingConfig      `yaml:"logging"`
}

// BackendConfig describes how to reach the summarizer API.
type BackendConfig struct {
	BaseURL          string        `yaml:"baseUrl"`
	UserAgentVersion string        `yaml:"userAgentVersion"`
	ScrapTimeout     time.Duration `yaml:"scrapTimeout"`
	RequestTimeout   time.Duration `yaml:"requestTimeout"`
}

// AnalysisConfig holds the default analysis options.
type AnalysisConfig struct {
	AnalysisModel  string `yaml:"analysisModel"`
	QualityModel   string `yaml:"qualityModel"`
	TargetLanguage string `yaml:"targetLanguage"`
	FastMode       bool   `yaml:"fastMode"`
}

// QualityConfig sets the score thresholds, in percent.
type QualityConfig struct {
	AcceptableScore float64 `yaml:"acceptableScore"`
	ExcellentScore  float64 `yaml:"excellentScore"`
	GoodScore       float64 `yaml:"goodScore"`
}

// StorageConfig points at the run history database. An empty path disables it.
type StorageConfig struct {
	Path        string        `yaml:"path"`
	BusyTimeout time.Duration `yaml:"busyTimeout"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// BatchConfig bounds multi-video runs.
type BatchConfig struct {
	Concurrency   int `yaml:"concurrency"`
	RatePerMinute int `yaml:"ratePerMinute"`
}

// ProbeConfig controls the watch-page metadata fallback. Enabled defaults to true.
type ProbeConfig struct {
	Enabled *bool         `yaml:"enabled"`
	Timeout time.Duration `yaml:"timeout"`
}

// IsEnabled reports whether the probe should run.
func (p ProbeConfig) IsEnabled() bool {
	return p.Enabled == nil || *p.Enabled
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// LoggingConfig selects level and handler format (text or json).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads dotenv files, YAML configuration (if present) and applies
// environment overrides.
func Load() Config {
	loadDotenv()

	cfg := Default()

	if path := os.Getenv(configPathEnv); path != "" {
		fileCfg, err := ReadFile(path)
		if err != nil {
			log.Printf("config: %v (falling back to defaults)", err)
		} else {
			cfg = mergeConfig(cfg, fileCfg)
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

// ReadFile parses a YAML config file without merging defaults.
func ReadFile(path string) (Config, error) {
	var fileCfg Config
	raw, err := os.ReadFile(path)
	if err != nil {
		return fileCfg, err
	}
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		return fileCfg, &parseError{path: path, err: err}
	}
	return fileCfg, nil
}

type parseError struct {
	path string
	err  error
}

func (e *parseError) Error() string { return "cannot parse " + e.path + ": " + e.err.Error() }
func (e *parseError) Unwrap() error { return e.err }

func loadDotenv() {
	for _, name := range dotenvFiles {
		if err := godotenv.Overload(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Printf("config: cannot load %s: %v", name, err)
		}
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(baseURLEnv); v != "" {
		c.Backend.BaseURL = v
	}

	if v := os.Getenv(analysisModelEnv); v != "" {
		c.Analysis.AnalysisModel = v
	}
	if v := os.Getenv(qualityModelEnv); v != "" {
		c.Analysis.QualityModel = v
	}
	if v := os.Getenv(targetLanguageEnv); v != "" {
		c.Analysis.TargetLanguage = v
	}

	if v := os.Getenv(dbPathEnv); v != "" {
		c.Storage.Path = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Backend.BaseURL != "" {
		base.Backend.BaseURL = override.Backend.BaseURL
	}
	if override.Backend.UserAgentVersion != "" {
		base.Backend.UserAgentVersion = override.Backend.UserAgentVersion
	}
	if override.Backend.ScrapTimeout > 0 {
		base.Backend.ScrapTimeout = override.Backend.ScrapTimeout
	}
	if override.Backend.RequestTimeout > 0 {
		base.Backend.RequestTimeout = override.Backend.RequestTimeout
	}

	if override.Analysis.AnalysisModel != "" {
		base.Analysis.AnalysisModel = override.Analysis.AnalysisModel
	}
	if override.Analysis.QualityModel != "" {
		base.Analysis.QualityModel = override.Analysis.QualityModel
	}
	if override.Analysis.TargetLanguage != "" {
		base.Analysis.TargetLanguage = override.Analysis.TargetLanguage
	}
	if override.Analysis.FastMode {
		base.Analysis.FastMode = true
	}

	if override.Quality.AcceptableScore > 0 {
		base.Quality.AcceptableScore = override.Quality.AcceptableScore
	}
	if override.Quality.ExcellentScore > 0 {
		base.Quality.ExcellentScore = override.Quality.ExcellentScore
	}
	if override.Quality.GoodScore > 0 {
		base.Quality.GoodScore = override.Quality.GoodScore
	}

	if override.Storage.Path != "" {
		base.Storage.Path = override.Storage.Path
	}
	if override.Storage.BusyTimeout > 0 {
		base.Storage.BusyTimeout = override.Storage.BusyTimeout
	}

	if override.Metrics.Addr != "" {
		base.Metrics.Addr = override.Metrics.Addr
	}

	if override.Batch.Concurrency > 0 {
		base.Batch.Concurrency = override.Batch.Concurrency
	}
	if override.Batch.RatePerMinute > 0 {
		base.Batch.RatePerMinute = override.Batch.RatePerMinute
	}

	if override.Probe.Enabled != nil {
		enabled := *override.Probe.Enabled
		base.Probe.Enabled = &enabled
	}
	if override.Probe.Timeout > 0 {
		base.Probe.Timeout = override.Probe.Timeout
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	return base
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Backend: BackendConfig{
			BaseURL:          "http://localhost:8000",
			UserAgentVersion: "3.0.0",
			ScrapTimeout:     2 * time.Minute,
			RequestTimeout:   60 * time.Second,
		},
		Analysis: AnalysisConfig{
			AnalysisModel:  "google/gemini-2.5-pro",
			QualityModel:   "google/gemini-2.5-flash",
			TargetLanguage: "auto",
		},
		Quality: QualityConfig{
			AcceptableScore: 90,
			ExcellentScore:  80,
			GoodScore:       60,
		},
		Storage: StorageConfig{
			Path:        "videosummarizer.db",
			BusyTimeout: 5 * time.Second,
		},
		Batch: BatchConfig{
			Concurrency:   2,
			RatePerMinute: 10,
		},
		Probe: ProbeConfig{
			Timeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
