package llm

import (
	"testing"
	"time"

	"github.com/NikhilGogu/sustainability-signals/internal/model"
)

func TestNewProviderDisabled(t *testing.T) {
	p, err := NewProvider(Config{Provider: ""})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	if p != nil {
		t.Error("empty provider name must disable LLM features")
	}
}

func TestNewProviderUnknown(t *testing.T) {
	_, err := NewProvider(Config{Provider: "cohere"})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewProviderOpenAIRequiresKey(t *testing.T) {
	_, err := NewProvider(Config{Provider: "openai"})
	if err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestNewProviderOllamaDefaults(t *testing.T) {
	p, err := NewProvider(Config{Provider: "ollama"})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	if p.Name() != "ollama" {
		t.Errorf("Name() = %q, want ollama", p.Name())
	}
}

func TestNewProviderClaudeAlias(t *testing.T) {
	p, err := NewProvider(Config{Provider: "claude", APIKey: "k"})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	if p.Name() != "anthropic" {
		t.Errorf("Name() = %q, want anthropic", p.Name())
	}
}

func TestConfigFromModel(t *testing.T) {
	cfg := ConfigFromModel(model.LLMConfig{
		Provider:  "openai",
		Model:     "gpt-4o-mini",
		APIKey:    "sk-test",
		Timeout:   90 * time.Second,
		MaxTokens: 800,
	})
	if cfg.Timeout != 90 {
		t.Errorf("Timeout = %d, want 90", cfg.Timeout)
	}
	if cfg.MaxTokens != 800 {
		t.Errorf("MaxTokens = %d, want 800", cfg.MaxTokens)
	}

	defaults := ConfigFromModel(model.LLMConfig{})
	if defaults.Timeout != 60 || defaults.MaxTokens != 2000 {
		t.Errorf("zero config must keep defaults, got timeout=%d maxTokens=%d", defaults.Timeout, defaults.MaxTokens)
	}
}
