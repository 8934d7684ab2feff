// Package gemini wraps the Google GenAI SDK behind the one call the
// capabilities need: prompt in, text out.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	// DefaultModel matches the hosted default; override via config.
	DefaultModel = "gemini-2.0-flash"

	// DefaultTemperature is used by every capability unless tuned.
	DefaultTemperature float32 = 0.7

	maxOutputTokens int32 = 2048
)

// Client talks to the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// New creates a Client. The API key is required; the model falls back to
// DefaultModel when empty.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &Client{client: c, model: model}, nil
}

// Generate produces text for prompt at the given sampling temperature.
// Returns an error on transport or model failure; callers decide how to
// degrade.
func (c *Client) Generate(ctx context.Context, prompt string, temperature float32) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(temperature),
		MaxOutputTokens: maxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("model returned empty response")
	}
	return text, nil
}
