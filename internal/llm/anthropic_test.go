package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAnthropicComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %s, want /v1/messages", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("x-api-key = %q", got)
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Error("missing anthropic-version header")
		}
		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		resp := anthropicResponse{Model: req.Model}
		resp.Content = []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}{{Type: "text", Text: "refined output"}}
		resp.Usage.InputTokens = 7
		resp.Usage.OutputTokens = 3
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	p, err := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: srv.URL, Model: "claude-3-5-haiku-latest"})
	if err != nil {
		t.Fatalf("NewAnthropicProvider() error = %v", err)
	}
	resp, err := p.Complete(context.Background(), Request{Prompt: "hi"})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Text != "refined output" {
		t.Errorf("Text = %q", resp.Text)
	}
	if resp.TokensUsed != 10 {
		t.Errorf("TokensUsed = %d, want 10", resp.TokensUsed)
	}
}

func TestAnthropicCompleteAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		var e anthropicError
		e.Error.Message = "invalid api key"
		_ = json.NewEncoder(w).Encode(e)
	}))
	defer srv.Close()

	p, _ := NewAnthropicProvider(Config{APIKey: "bad", BaseURL: srv.URL})
	if _, err := p.Complete(context.Background(), Request{Prompt: "hi"}); err == nil {
		t.Fatal("expected API error to surface")
	}
}

func TestAnthropicRequiresKey(t *testing.T) {
	if _, err := NewAnthropicProvider(Config{}); err == nil {
		t.Fatal("expected error without API key")
	}
}
