// Package backend talks to the remote summarization service over HTTP.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"VideoSummarizer/internal/domain"
	"VideoSummarizer/internal/ports"
)

const defaultRequestTimeout = 60 * time.Second

// Options configures a Client.
type Options struct {
	BaseURL        string
	Version        string
	RequestTimeout time.Duration
	// Transport overrides the base round tripper, mainly for tests.
	Transport http.RoundTripper
}

// Client implements ports.Backend.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	// stream has no overall timeout: scraping and analysis may run for
	// minutes and are bounded only by the caller's context.
	stream *http.Client
}

var _ ports.Backend = (*Client)(nil)

// NewClient creates a reusable client. Both HTTP clients share one traced transport.
func NewClient(opts Options) *Client {
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	transport := otelhttp.NewTransport(base)

	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	version := opts.Version
	if version == "" {
		version = "3.0.0"
	}

	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: "VideoSummarizer/" + version,
		http:      &http.Client{Timeout: timeout, Transport: transport},
		stream:    &http.Client{Transport: transport},
	}
}

type scrapRequest struct {
	URL string `json:"url"`
}

type scrapResponse struct {
	Status         string  `json:"status"`
	Message        string  `json:"message"`
	Timestamp      string  `json:"timestamp"`
	Transcript     *string `json:"transcript"`
	ProcessingTime string  `json:"processing_time"`
	URL            *string `json:"url"`
	Title          *string `json:"title"`
	Thumbnail      *string `json:"thumbnail"`
	Author         *string `json:"author"`
	Duration       *string `json:"duration"`
	UploadDate     *string `json:"upload_date"`
	ViewCount      *int64  `json:"view_count"`
	LikeCount      *int64  `json:"like_count"`
}

type summarizeRequest struct {
	Content        string             `json:"content"`
	ContentType    domain.ContentType `json:"content_type"`
	AnalysisModel  string             `json:"analysis_model,omitempty"`
	QualityModel   string             `json:"quality_model,omitempty"`
	TargetLanguage *string            `json:"target_language"`
	FastMode       bool               `json:"fast_mode"`
}

type configResponse struct {
	Status                string            `json:"status"`
	Message               string            `json:"message"`
	AvailableModels       map[string]string `json:"available_models"`
	SupportedLanguages    map[string]string `json:"supported_languages"`
	DefaultAnalysisModel  string            `json:"default_analysis_model"`
	DefaultQualityModel   string            `json:"default_quality_model"`
	DefaultTargetLanguage string            `json:"default_target_language"`
}

type healthResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	Timestamp   string `json:"timestamp"`
	Version     string `json:"version"`
	Environment struct {
		GeminiConfigured         bool `json:"gemini_configured"`
		ScrapeCreatorsConfigured bool `json:"scrapecreators_configured"`
	} `json:"environment"`
}

// Scrap fetches video metadata and transcript.
func (c *Client) Scrap(ctx context.Context, videoURL string) (domain.ScrapResult, error) {
	var resp scrapResponse
	if err := c.doWith(ctx, c.stream, http.MethodPost, "/scrap", scrapRequest{URL: videoURL}, &resp); err != nil {
		return domain.ScrapResult{}, err
	}

	if resp.Status != "success" {
		msg := resp.Message
		if msg == "" {
			msg = "Failed to scrape video"
		}
		return domain.ScrapResult{}, &domain.APIError{
			Message: domain.NormalizeMessage(msg),
			Type:    domain.ErrorProcessing,
			Details: "scrap status " + resp.Status,
		}
	}

	return domain.ScrapResult{
		VideoInfo: domain.VideoInfo{
			URL:        deref(resp.URL),
			Title:      deref(resp.Title),
			Thumbnail:  deref(resp.Thumbnail),
			Author:     deref(resp.Author),
			Duration:   deref(resp.Duration),
			UploadDate: deref(resp.UploadDate),
			ViewCount:  derefInt(resp.ViewCount),
			LikeCount:  derefInt(resp.LikeCount),
		},
		Transcript:     deref(resp.Transcript),
		ProcessingTime: resp.ProcessingTime,
		Message:        resp.Message,
	}, nil
}

// StreamSummarize opens the analysis stream. The caller must close the body.
func (c *Client) StreamSummarize(ctx context.Context, req domain.AnalysisRequest) (io.ReadCloser, error) {
	payload := summarizeRequest{
		Content:       req.Content,
		ContentType:   req.ContentType,
		AnalysisModel: req.AnalysisModel,
		QualityModel:  req.QualityModel,
		FastMode:      req.FastMode,
	}
	if lang := req.TargetLanguage; lang != "" && lang != "auto" {
		payload.TargetLanguage = &lang
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, "/stream-summarize", payload)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.stream.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, errorFromResponse(resp)
	}
	if resp.Body == nil {
		return nil, &domain.APIError{Message: "No response body received", Type: domain.ErrorNetwork}
	}
	return resp.Body, nil
}

// Configuration returns the backend's model and language tables.
func (c *Client) Configuration(ctx context.Context) (domain.BackendConfig, error) {
	var resp configResponse
	if err := c.do(ctx, http.MethodGet, "/config", nil, &resp); err != nil {
		return domain.BackendConfig{}, err
	}
	return domain.BackendConfig{
		AvailableModels:       resp.AvailableModels,
		SupportedLanguages:    resp.SupportedLanguages,
		DefaultAnalysisModel:  resp.DefaultAnalysisModel,
		DefaultQualityModel:   resp.DefaultQualityModel,
		DefaultTargetLanguage: resp.DefaultTargetLanguage,
	}, nil
}

// Health reports backend liveness.
func (c *Client) Health(ctx context.Context) (domain.HealthStatus, error) {
	var resp healthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return domain.HealthStatus{}, err
	}
	return domain.HealthStatus{
		Status:                   resp.Status,
		Message:                  resp.Message,
		Version:                  resp.Version,
		Timestamp:                resp.Timestamp,
		GeminiConfigured:         resp.Environment.GeminiConfigured,
		ScrapeCreatorsConfigured: resp.Environment.ScrapeCreatorsConfigured,
	}, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any, v any) error {
	return c.doWith(ctx, c.http, method, path, payload, v)
}

func (c *Client) doWith(ctx context.Context, hc *http.Client, method, path string, payload any, v any) error {
	req, err := c.newRequest(ctx, method, path, payload)
	if err != nil {
		return err
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp)
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorFromResponse reads a failed response body into a typed error. The
// message comes from detail (string or {error|message}), then message, then error.
func errorFromResponse(resp *http.Response) *domain.APIError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	msg := fmt.Sprintf("Request failed with status %d", resp.StatusCode)
	details := strings.TrimSpace(string(raw))

	var body struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		details = fmt.Sprintf(`{"message":"HTTP %d: %s"}`, resp.StatusCode, http.StatusText(resp.StatusCode))
	} else {
		switch {
		case len(body.Detail) > 0 && string(body.Detail) != "null":
			if detail := detailMessage(body.Detail); detail != "" {
				msg = detail
			}
		case body.Message != "":
			msg = body.Message
		case body.Error != "":
			msg = body.Error
		}
	}

	return &domain.APIError{
		Message: domain.NormalizeMessage(msg),
		Status:  resp.StatusCode,
		Type:    domain.CategorizeStatus(resp.StatusCode),
		Details: details,
	}
}

func detailMessage(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Error != "" {
			return obj.Error
		}
		return obj.Message
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int64) int64 {
	if n == nil {
		return 0
	}
	return *n
}
