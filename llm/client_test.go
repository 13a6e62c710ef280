package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nijaru/ytsum/services/summary"
)

func TestComplete(t *testing.T) {
	var got struct {
		Model     string `json:"model"`
		MaxTokens int    `json:"max_tokens"`
		Messages  []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("unexpected auth header '%s'", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Short. Summary"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "sk-test", BaseURL: server.URL + "/"})
	resp, err := client.Complete(context.Background(), summary.CompletionRequest{
		Model:     "gpt-3.5-turbo",
		System:    "sys",
		User:      "user text",
		MaxTokens: 500,
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp != "Short. Summary" {
		t.Errorf("expected 'Short. Summary', got '%s'", resp)
	}
	if got.Model != "gpt-3.5-turbo" || got.MaxTokens != 500 {
		t.Errorf("unexpected request %+v", got)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "user text" {
		t.Errorf("unexpected messages %+v", got.Messages)
	}
}

func TestCompleteErrorIsNotRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit"}}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "sk", BaseURL: server.URL}, WithHTTPClient(server.Client()))
	if _, err := client.Complete(context.Background(), summary.CompletionRequest{Model: "m"}); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected exactly one request, got %d", calls)
	}
}

func TestCompleteNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","choices":[]}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "sk", BaseURL: server.URL})
	if _, err := client.Complete(context.Background(), summary.CompletionRequest{Model: "m"}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}
