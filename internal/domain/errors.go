package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ErrorType classifies failures surfaced to the user.
type ErrorType string

const (
	ErrorNetwork    ErrorType = "network"
	ErrorValidation ErrorType = "validation"
	ErrorServer     ErrorType = "server"
	ErrorProcessing ErrorType = "processing"
	ErrorUnknown    ErrorType = "unknown"
)

// User-facing messages.
const (
	MsgNetwork        = "Unable to connect to the server. Please check your internet connection."
	MsgTimeout        = "Request timeout. The server took too long to respond."
	MsgValidation     = "Invalid request. Please check your input."
	MsgServer         = "Server error. Please try again later."
	MsgUnknown        = "An unexpected error occurred. Please try again."
	MsgAborted        = "Request was cancelled."
	MsgProcessing     = "Error during video processing. Please try again."
	MsgInvalidURL     = "Invalid YouTube URL. Please provide a valid YouTube video URL."
	MsgNoTranscript   = "No transcript available for this video."
	MsgAPIKeyMissing  = "API configuration error. Please contact the administrator."
	MsgEmptyURL       = "URL is required"
	MsgConfigMissing  = "Required API key missing"
	MsgQuotaExceeded  = "API quota exceeded"
	MsgBackendOffline = "Unable to connect to the YouTube Summarizer backend. Please ensure the server is running."
)

// APIError is the typed failure carried by results and error events.
type APIError struct {
	Message string    `json:"message"`
	Status  int       `json:"status,omitempty"`
	Type    ErrorType `json:"type,omitempty"`
	Details string    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%s, status %d)", e.Message, e.Type, e.Status)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Type)
}

// CategorizeStatus maps an HTTP status code to an error type.
func CategorizeStatus(status int) ErrorType {
	switch {
	case status >= 400 && status < 500:
		return ErrorValidation
	case status >= 500:
		return ErrorServer
	default:
		return ErrorUnknown
	}
}

// NormalizeMessage replaces known backend phrases with stable user messages.
func NormalizeMessage(message string) string {
	switch {
	case strings.Contains(message, "Invalid YouTube URL"):
		return MsgInvalidURL
	case strings.Contains(message, "URL is required"):
		return MsgEmptyURL
	case strings.Contains(message, "Required API key missing"):
		return MsgConfigMissing
	case strings.Contains(message, "quota"):
		return MsgQuotaExceeded
	default:
		return message
	}
}

// AsAPIError converts any error into an *APIError.
func AsAPIError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &APIError{
			Message: MsgTimeout,
			Type:    ErrorProcessing,
			Details: err.Error(),
		}
	}
	if errors.Is(err, context.Canceled) {
		return &APIError{
			Message: MsgAborted,
			Type:    ErrorNetwork,
			Details: "Request was aborted",
		}
	}

	var netErr net.Error
	var urlErr *url.Error
	if errors.As(err, &netErr) || errors.As(err, &urlErr) {
		return &APIError{
			Message: MsgBackendOffline,
			Type:    ErrorNetwork,
			Details: err.Error(),
		}
	}

	msg := err.Error()
	if msg == "" {
		msg = MsgUnknown
	}
	return &APIError{
		Message: msg,
		Type:    ErrorUnknown,
		Details: fmt.Sprintf("%T", err),
	}
}

// IsNetwork reports connectivity failures.
func (e *APIError) IsNetwork() bool {
	return e.Type == ErrorNetwork ||
		strings.Contains(e.Message, "network") ||
		strings.Contains(e.Message, "connection")
}

// IsValidation reports client-side request problems.
func (e *APIError) IsValidation() bool {
	return e.Type == ErrorValidation || (e.Status >= 400 && e.Status < 500)
}

// IsServer reports backend failures.
func (e *APIError) IsServer() bool {
	return e.Type == ErrorServer || e.Status >= 500
}

// IsProcessing reports failures during scraping or analysis.
func (e *APIError) IsProcessing() bool {
	return e.Type == ErrorProcessing ||
		strings.Contains(e.Message, "processing") ||
		strings.Contains(e.Message, "transcript") ||
		strings.Contains(e.Message, "analysis")
}

// Severity ranks an error for display.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Severity follows network > validation > server > processing precedence.
func (e *APIError) Severity() Severity {
	switch {
	case e.IsNetwork():
		return SeverityMedium
	case e.IsValidation():
		return SeverityLow
	case e.IsServer():
		return SeverityHigh
	default:
		return SeverityMedium
	}
}

// FriendlyMessage returns the message to show an end user.
func (e *APIError) FriendlyMessage() string {
	switch e.Type {
	case ErrorNetwork:
		return MsgNetwork
	case ErrorValidation:
		return MsgValidation
	case ErrorServer:
		return MsgServer
	case ErrorProcessing:
		return MsgProcessing
	}

	switch {
	case strings.Contains(e.Message, "YouTube URL"):
		return MsgInvalidURL
	case strings.Contains(e.Message, "transcript"):
		return MsgNoTranscript
	case strings.Contains(e.Message, "API key"), strings.Contains(e.Message, "API_KEY"):
		return MsgAPIKeyMissing
	case e.Message != "":
		return e.Message
	default:
		return MsgUnknown
	}
}
