package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func completionResponse(text string) string {
	resp := chatResponse{Choices: []chatChoice{{Message: chatMessage{Role: "assistant", Content: text}}}}
	raw, _ := json.Marshal(resp)
	return string(raw)
}

func TestLocalClient_Generate(t *testing.T) {
	var gotPath string
	var gotBody chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		_, _ = w.Write([]byte(completionResponse("  Your digest.  ")))
	}))
	defer server.Close()

	client := NewLocalClient(LocalOptions{ServerURL: server.URL + "/v1"})
	text, err := client.Generate(context.Background(), "CONTENT BLOB", "2025-01-19")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if text != "Your digest." {
		t.Errorf("Expected trimmed completion, got %q", text)
	}
	if gotPath != "/v1/chat/completions" {
		t.Errorf("Expected chat completions endpoint, got %q", gotPath)
	}
	if gotBody.Stream {
		t.Error("Streaming must be disabled")
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" {
		t.Fatalf("Expected system+user messages, got %+v", gotBody.Messages)
	}
	user := gotBody.Messages[1].Content
	if !strings.Contains(user, "2025-01-19") || !strings.Contains(user, "CONTENT BLOB") {
		t.Error("User prompt should embed the date and the budgeted content")
	}
}

func TestLocalClient_EmptyCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(completionResponse("   ")))
	}))
	defer server.Close()

	client := NewLocalClient(LocalOptions{ServerURL: server.URL + "/v1"})
	_, err := client.Generate(context.Background(), "content", "date")

	var gatewayErr *GatewayError
	if !errors.As(err, &gatewayErr) {
		t.Fatalf("Expected GatewayError, got %v", err)
	}
	if !strings.Contains(gatewayErr.Cause, "empty completion") {
		t.Errorf("Expected empty-completion cause, got %q", gatewayErr.Cause)
	}
}

func TestLocalClient_MissingChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	client := NewLocalClient(LocalOptions{ServerURL: server.URL + "/v1"})
	_, err := client.Generate(context.Background(), "content", "date")
	if err == nil || !strings.Contains(err.Error(), "missing choices") {
		t.Errorf("Expected missing-choices error, got %v", err)
	}
}

func TestLocalClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "model exploded"}}`))
	}))
	defer server.Close()

	client := NewLocalClient(LocalOptions{ServerURL: server.URL + "/v1"})
	_, err := client.Generate(context.Background(), "content", "date")

	var gatewayErr *GatewayError
	if !errors.As(err, &gatewayErr) {
		t.Fatalf("Expected GatewayError, got %v", err)
	}
	if !strings.Contains(gatewayErr.Cause, "API error 500") || !strings.Contains(gatewayErr.Cause, "model exploded") {
		t.Errorf("Expected status and detail in cause, got %q", gatewayErr.Cause)
	}
}

func TestLocalClient_ConnectionRefused(t *testing.T) {
	// A server that is immediately closed leaves a port nothing listens on.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewLocalClient(LocalOptions{ServerURL: url + "/v1"})
	_, err := client.Generate(context.Background(), "content", "date")

	var gatewayErr *GatewayError
	if !errors.As(err, &gatewayErr) {
		t.Fatalf("Expected GatewayError, got %v", err)
	}
	if !strings.Contains(gatewayErr.Cause, "connection failed") {
		t.Errorf("Expected connection-failure cause, got %q", gatewayErr.Cause)
	}
}

func TestLocalClient_CheckHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewLocalClient(LocalOptions{ServerURL: server.URL + "/v1"})
	if err := client.CheckHealth(context.Background()); err != nil {
		t.Errorf("Expected healthy server, got %v", err)
	}
}

func TestLocalClient_CheckHealth_ModelsFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.WriteHeader(http.StatusNotFound)
		case "/v1/models":
			_, _ = w.Write([]byte(`{"data": []}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewLocalClient(LocalOptions{ServerURL: server.URL + "/v1"})
	if err := client.CheckHealth(context.Background()); err != nil {
		t.Errorf("Expected models fallback to succeed, got %v", err)
	}
}

func TestLocalClient_CheckHealth_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewLocalClient(LocalOptions{ServerURL: url + "/v1"})
	err := client.CheckHealth(context.Background())

	var gatewayErr *GatewayError
	if !errors.As(err, &gatewayErr) {
		t.Fatalf("Expected GatewayError, got %v", err)
	}
	if !strings.Contains(gatewayErr.Cause, "not reachable") {
		t.Errorf("Expected unreachable cause, got %q", gatewayErr.Cause)
	}
}

func TestNewLocalClient_Defaults(t *testing.T) {
	client := NewLocalClient(LocalOptions{})
	if client.serverURL != DefaultServerURL {
		t.Errorf("Expected default server URL, got %q", client.serverURL)
	}
	if client.model != DefaultLocalModel {
		t.Errorf("Expected default model, got %q", client.model)
	}
	if client.maxTokens != defaultMaxTokens {
		t.Errorf("Expected default max tokens, got %d", client.maxTokens)
	}
}
