// Package llm is the boundary to the hosted language models.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Client completes a prompt. Output is untrusted text.
type Client interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// Prompt is one completion request
type Prompt struct {
	System      string
	User        string
	Temperature *float64
	TopP        *float64
	// JSON asks the provider for a JSON response where supported
	JSON bool
}

// Settings selects and configures a provider
type Settings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

const (
	ProviderGemini   = "gemini"
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
	ProviderMock     = "mock"

	deepSeekBaseURL = "https://api.deepseek.com/v1"
)

var (
	// ErrUnavailable means the provider could not produce any output
	ErrUnavailable = errors.New("llm unavailable")
	// ErrEmptyResponse is returned by clients when the provider answered with no text
	ErrEmptyResponse = errors.New("llm returned empty response")
)

// NewClient builds the client for the configured provider
func NewClient(ctx context.Context, s Settings) (Client, error) {
	switch strings.ToLower(s.Provider) {
	case ProviderGemini, "":
		return NewGeminiClient(ctx, s)
	case ProviderOpenAI:
		return NewOpenAIClient(s)
	case ProviderDeepSeek:
		if s.BaseURL == "" {
			s.BaseURL = deepSeekBaseURL
		}
		if s.Model == "" {
			s.Model = "deepseek-chat"
		}
		return NewOpenAIClient(s)
	case ProviderMock:
		return &MockClient{}, nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", s.Provider)
	}
}

// Float is a convenience for optional sampling parameters
func Float(v float64) *float64 {
	return &v
}
