package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultServerURL is where a locally running llama.cpp server listens.
	DefaultServerURL = "http://localhost:8080/v1"
	// DefaultLocalModel is the identifier llama.cpp answers to; it serves
	// one model at a time regardless of the name.
	DefaultLocalModel = "local-model"

	defaultTemperature = 0.6
	defaultMaxTokens   = 1200
	// defaultTimeout bounds one generation round trip. Large contexts on
	// local hardware can take minutes; past this the call fails rather
	// than blocking indefinitely.
	defaultTimeout = 180 * time.Second

	healthTimeout = 3 * time.Second
)

// LocalOptions configures a LocalClient. Zero values fall back to the
// defaults above.
type LocalOptions struct {
	ServerURL   string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// LocalClient talks to a llama.cpp server through its OpenAI-compatible
// chat-completions API.
type LocalClient struct {
	serverURL   string
	model       string
	temperature float64
	maxTokens   int
	client      *http.Client
}

// NewLocalClient creates a gateway backed by a local llama.cpp server.
func NewLocalClient(opts LocalOptions) *LocalClient {
	if opts.ServerURL == "" {
		opts.ServerURL = DefaultServerURL
	}
	if opts.Model == "" {
		opts.Model = DefaultLocalModel
	}
	if opts.Temperature == 0 {
		opts.Temperature = defaultTemperature
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	if opts.Timeout == 0 {
		opts.Timeout = defaultTimeout
	}
	return &LocalClient{
		serverURL:   strings.TrimRight(opts.ServerURL, "/"),
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		client:      &http.Client{Timeout: opts.Timeout},
	}
}

// OpenAI-compatible chat completion request/response types.

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *apiError    `json:"error,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type apiError struct {
	Message string `json:"message"`
}

// Generate sends the digest prompt to the chat-completions endpoint and
// returns the model's narrative.
func (c *LocalClient) Generate(ctx context.Context, content, date string) (string, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: buildPrompt(content, date)},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Stream:      false,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &GatewayError{Cause: "failed to encode request", Err: err}
	}

	endpoint := c.serverURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &GatewayError{Cause: "failed to build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", &GatewayError{Cause: fmt.Sprintf("request to %s timed out", c.serverURL), Err: err}
		}
		return "", &GatewayError{
			Cause: fmt.Sprintf("connection failed to %s, is the llama.cpp server running", c.serverURL),
			Err:   err,
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &GatewayError{Cause: "failed to read response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		detail := apiErrorDetail(raw)
		return "", &GatewayError{Cause: fmt.Sprintf("API error %d: %s", resp.StatusCode, detail)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &GatewayError{Cause: "invalid JSON response from API", Err: err}
	}
	if len(parsed.Choices) == 0 {
		return "", &GatewayError{Cause: "unexpected API response format: missing choices"}
	}

	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return "", &GatewayError{Cause: "received empty completion from model"}
	}
	return text, nil
}

// CheckHealth probes the llama.cpp /health endpoint, falling back to the
// OpenAI-compatible /v1/models listing for servers that lack it.
func (c *LocalClient) CheckHealth(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	healthURL := strings.TrimSuffix(c.serverURL, "/v1") + "/health"
	if err := c.probe(ctx, healthURL); err == nil {
		return nil
	}

	if err := c.probe(ctx, c.serverURL+"/models"); err != nil {
		return &GatewayError{
			Cause: fmt.Sprintf("server at %s is not reachable", c.serverURL),
			Err:   err,
		}
	}
	return nil
}

func (c *LocalClient) probe(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return nil
}

// apiErrorDetail extracts a short human-readable message from an error
// response body, falling back to the raw body.
func apiErrorDetail(raw []byte) string {
	var wrapped struct {
		Error apiError `json:"error"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Error.Message != "" {
		return truncateDetail(wrapped.Error.Message)
	}
	return truncateDetail(string(raw))
}

func truncateDetail(s string) string {
	if len(s) > 200 {
		return s[:200]
	}
	return s
}
