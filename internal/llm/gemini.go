package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-flash-lite-latest"

// GeminiOptions configures a GeminiClient. The API key is passed in
// explicitly; callers resolve it from configuration, never from ambient
// state at call depth.
type GeminiOptions struct {
	APIKey string
	Model  string
}

// GeminiClient is a gateway backed by the hosted Gemini API, for machines
// without a local llama.cpp server.
type GeminiClient struct {
	modelName string
	gClient   *genai.Client
}

// NewGeminiClient creates a Gemini-backed gateway.
func NewGeminiClient(ctx context.Context, opts GeminiOptions) (*GeminiClient, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required: set GEMINI_API_KEY or ai.gemini.api_key in config")
	}
	if opts.Model == "" {
		opts.Model = DefaultGeminiModel
	}

	gClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{modelName: opts.Model, gClient: gClient}, nil
}

// Generate produces the narrative through the Gemini API.
func (c *GeminiClient) Generate(ctx context.Context, content, date string) (string, error) {
	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: SystemPrompt + "\n\n" + buildPrompt(content, date)}},
		Role:  "user",
	}}

	resp, err := c.gClient.Models.GenerateContent(ctx, c.modelName, contents, nil)
	if err != nil {
		return "", &GatewayError{Cause: "gemini generation failed", Err: err}
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", &GatewayError{Cause: "received empty completion from model"}
	}
	return text, nil
}

// CheckHealth verifies the client is usable. The hosted API has no cheap
// reachability probe, so this only confirms the client was constructed
// with credentials; an unreachable service surfaces on Generate.
func (c *GeminiClient) CheckHealth(ctx context.Context) error {
	if c.gClient == nil {
		return &GatewayError{Cause: "gemini client not initialized"}
	}
	return nil
}
