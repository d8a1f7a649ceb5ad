package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Provider constants for completion provider selection.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

const (
	defaultAnthropicModel = "claude-3-5-sonnet-20241022"
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultMaxTokens      = 500
	defaultAPIVersion     = "2023-06-01"
)

// Config holds completion client configuration.
type Config struct {
	Provider   string        // "anthropic" or "openai"
	APIKey     string        // Required: API key for the provider
	BaseURL    string        // Optional: custom API endpoint
	Model      string        // Model name sent with every request
	MaxTokens  int           // Output cap sent with every request
	APIVersion string        // anthropic-version header (Anthropic only)
	Timeout    time.Duration // Optional: per-request timeout enforced by the SDK
}

// ErrMissingAPIKey is returned by constructors when no credential is configured.
var ErrMissingAPIKey = errors.New("API key is required")

// Completer sends a single prompt to a hosted model and returns its answer.
// Implementations never retry.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	Model() string
}

type CompletionRequest struct {
	Prompt    string
	MaxTokens int // 0 uses the client's configured cap
}

type CompletionResponse struct {
	Text         string // first content element, empty when the model returned none
	StopReason   string
	InputTokens  int
	OutputTokens int
}

// Error carries the provider HTTP status of a failed completion, if any.
// StatusCode is 0 for failures that never got a response (timeouts, DNS, ...).
type Error struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s completion: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s completion (status %d): %v", e.Provider, e.StatusCode, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// FailureKind buckets completion failures for diagnostics.
type FailureKind string

const (
	FailureAuth        FailureKind = "authentication"
	FailureRateLimited FailureKind = "rate_limited"
	FailureServer      FailureKind = "server_error"
	FailureTimeout     FailureKind = "timeout"
	FailureRequest     FailureKind = "request_error"
	FailureNetwork     FailureKind = "network_error"
)

// Classify maps a completion error onto a FailureKind.
func Classify(err error) FailureKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}

	var llmErr *Error
	if !errors.As(err, &llmErr) || llmErr.StatusCode == 0 {
		return FailureNetwork
	}

	switch {
	case llmErr.StatusCode == http.StatusUnauthorized || llmErr.StatusCode == http.StatusForbidden:
		return FailureAuth
	case llmErr.StatusCode == http.StatusTooManyRequests:
		return FailureRateLimited
	case llmErr.StatusCode >= 500:
		return FailureServer
	default:
		return FailureRequest
	}
}

// StatusCode returns the provider HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.StatusCode
	}
	return 0
}

// NewCompleter creates a Completer for cfg.Provider.
// Defaults to Anthropic if no provider is specified.
func NewCompleter(cfg Config) (Completer, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	provider := cfg.Provider
	if provider == "" {
		provider = ProviderAnthropic
	}

	switch provider {
	case ProviderAnthropic:
		return NewAnthropicCompleter(cfg)
	case ProviderOpenAI:
		return newOpenAICompleter(cfg)
	default:
		return nil, fmt.Errorf("unsupported completion provider: %s", provider)
	}
}

func maxTokensFor(req CompletionRequest, configured int) int64 {
	if req.MaxTokens > 0 {
		return int64(req.MaxTokens)
	}
	if configured > 0 {
		return int64(configured)
	}
	return defaultMaxTokens
}
