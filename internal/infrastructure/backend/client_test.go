package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VideoSummarizer/internal/domain"
)

func TestScrapSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/scrap" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ua := r.Header.Get("User-Agent"); ua != "VideoSummarizer/9.9.9" {
			t.Errorf("unexpected user agent %q", ua)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["url"] != "https://youtu.be/dQw4w9WgXcQ" {
			t.Errorf("unexpected url %q", body["url"])
		}
		_, _ = io.WriteString(w, `{"status":"success","message":"ok","transcript":"hello","processing_time":"1.2s",
			"url":"https://youtu.be/dQw4w9WgXcQ","title":"Never","author":null,"view_count":42}`)
	}))
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL + "/", Version: "9.9.9"})
	got, err := client.Scrap(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "Never", got.VideoInfo.Title)
	assert.Empty(t, got.VideoInfo.Author)
	assert.EqualValues(t, 42, got.VideoInfo.ViewCount)
	assert.Equal(t, "hello", got.Transcript)
	assert.Equal(t, "1.2s", got.ProcessingTime)
}

func TestScrapNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"failed","message":"No transcript"}`)
	}))
	defer server.Close()

	_, err := NewClient(Options{BaseURL: server.URL}).Scrap(context.Background(), "u")
	apiErr := domain.AsAPIError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, domain.ErrorProcessing, apiErr.Type)
	assert.Equal(t, "No transcript", apiErr.Message)
}

func TestErrorBodies(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantType domain.ErrorType
		wantMsg  string
	}{
		{"detail string", 400, `{"detail":"Invalid YouTube URL: foo"}`, domain.ErrorValidation, domain.MsgInvalidURL},
		{"detail object", 422, `{"detail":{"error":"bad thing"}}`, domain.ErrorValidation, "bad thing"},
		{"detail object message", 422, `{"detail":{"message":"other thing"}}`, domain.ErrorValidation, "other thing"},
		{"message", 500, `{"message":"boom"}`, domain.ErrorServer, "boom"},
		{"error", 503, `{"error":"daily quota reached"}`, domain.ErrorServer, domain.MsgQuotaExceeded},
		{"not json", 502, `<html>bad gateway</html>`, domain.ErrorServer, "Request failed with status 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			_, err := NewClient(Options{BaseURL: server.URL}).Scrap(context.Background(), "u")
			var apiErr *domain.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantType, apiErr.Type)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.Equal(t, tt.status, apiErr.Status)
		})
	}
}

func TestStreamSummarizeRequestShape(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stream-summarize" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, "data: {\"type\":\"status\",\"message\":\"hi\"}\n\n")
	}))
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL})
	body, err := client.StreamSummarize(context.Background(), domain.AnalysisRequest{
		Content:        "transcript text",
		ContentType:    domain.ContentTranscript,
		AnalysisModel:  "google/gemini-2.5-pro",
		QualityModel:   "google/gemini-2.5-flash",
		TargetLanguage: "auto",
	})
	require.NoError(t, err)
	defer body.Close()

	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "data: "))

	assert.Equal(t, "transcript text", captured["content"])
	assert.Equal(t, "transcript", captured["content_type"])
	assert.Contains(t, captured, "target_language")
	assert.Nil(t, captured["target_language"], "auto is sent as null")
	assert.Equal(t, false, captured["fast_mode"])
}

func TestStreamSummarizeLanguageAndRejection(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["target_language"] != "ja" {
			t.Errorf("unexpected target_language %v", body["target_language"])
		}
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"detail":"model overloaded"}`)
	}))
	defer server.Close()

	_, err := NewClient(Options{BaseURL: server.URL}).StreamSummarize(context.Background(), domain.AnalysisRequest{
		Content:        "https://youtu.be/x",
		ContentType:    domain.ContentURL,
		TargetLanguage: "ja",
	})
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, domain.ErrorServer, apiErr.Type)
	assert.Equal(t, "model overloaded", apiErr.Message)
	assert.Equal(t, 1, calls)
}

func TestConfigurationAndHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/config":
			_, _ = io.WriteString(w, `{"status":"success","available_models":{"a/b":"AB"},
				"supported_languages":{"en":"English"},"default_analysis_model":"a/b",
				"default_quality_model":"a/b","default_target_language":"en"}`)
		case "/health":
			_, _ = io.WriteString(w, `{"status":"healthy","message":"ok","version":"3.0.0",
				"environment":{"gemini_configured":true,"scrapecreators_configured":false}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL})

	cfg, err := client.Configuration(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a/b": "AB"}, cfg.AvailableModels)
	assert.Equal(t, "en", cfg.DefaultTargetLanguage)

	health, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)
	assert.True(t, health.GeminiConfigured)
	assert.False(t, health.ScrapeCreatorsConfigured)
}

func TestUnreachableBackendIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClient(Options{BaseURL: url}).Health(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.ErrorNetwork, domain.AsAPIError(err).Type)
}
