// Package digest produces an AI-written summary of the fetched note
// collection.
package digest

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Summarizer turns a prompt into a short text summary.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// GeminiClient implements Summarizer using the Gemini API.
type GeminiClient struct {
	genaiClient *genai.Client
	model       *genai.GenerativeModel
}

var _ Summarizer = (*GeminiClient)(nil)

// NewGeminiClient creates a Gemini-backed summarizer.
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{
		genaiClient: client,
		model:       client.GenerativeModel("gemini-pro"),
	}, nil
}

// Close closes the underlying client.
func (c *GeminiClient) Close() error {
	return c.genaiClient.Close()
}

// Summarize sends the prompt and concatenates the text parts of the first
// candidate.
func (c *GeminiClient) Summarize(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}
