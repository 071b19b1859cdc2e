package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiClient implements Client with the Gemini SDK
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, s Settings) (*GeminiClient, error) {
	if s.APIKey == "" {
		return nil, errors.New("gemini api key missing; set GEMINI_API_KEY")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(s.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	model := s.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiClient{client: client, model: model}, nil
}

// Complete sends the prompt and concatenates the text parts of the first candidate
func (g *GeminiClient) Complete(ctx context.Context, prompt Prompt) (string, error) {
	model := g.client.GenerativeModel(g.model)
	if prompt.System != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(prompt.System)},
		}
	}
	if prompt.Temperature != nil {
		model.SetTemperature(float32(*prompt.Temperature))
	}
	if prompt.TopP != nil {
		model.SetTopP(float32(*prompt.TopP))
	}
	if prompt.JSON {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt.User))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

// Close releases the underlying connection
func (g *GeminiClient) Close() error {
	return g.client.Close()
}
