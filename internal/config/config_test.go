package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != "anthropic" {
		t.Errorf("Backend = %q, want anthropic", cfg.Backend)
	}
	if cfg.MaxAttempts != 2 {
		t.Errorf("MaxAttempts = %d, want 2", cfg.MaxAttempts)
	}
	if cfg.MinQuality != 70 {
		t.Errorf("MinQuality = %d, want 70", cfg.MinQuality)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("THREADSMITH_BACKEND", "bard")
	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "unknown backend") {
		t.Fatalf("err = %v, want unknown backend", err)
	}
}

func TestLoadRejectsZeroAttempts(t *testing.T) {
	t.Setenv("THREADSMITH_MAX_ATTEMPTS", "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero max attempts")
	}
}

func TestKeyFollowsBackend(t *testing.T) {
	cfg := &Config{Backend: "openai", OpenAIAPIKey: "ok", AnthropicAPIKey: "ak"}
	if cfg.Key() != "ok" {
		t.Errorf("Key() = %q, want the openai key", cfg.Key())
	}
	cfg.Backend = "anthropic"
	if cfg.Key() != "ak" {
		t.Errorf("Key() = %q, want the anthropic key", cfg.Key())
	}
}

func TestRequireKey(t *testing.T) {
	cfg := &Config{Backend: "anthropic", AnthropicAPIKey: "ak"}
	if err := cfg.RequireKey(); err != nil {
		t.Errorf("RequireKey with key set: %v", err)
	}

	cfg = &Config{Backend: "openai"}
	err := cfg.RequireKey()
	if err == nil || !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Fatalf("err = %v, want the missing variable named", err)
	}

	cfg = &Config{Backend: "anthropic"}
	err = cfg.RequireKey()
	if err == nil || !strings.Contains(err.Error(), "ANTHROPIC_API_KEY") {
		t.Fatalf("err = %v, want the missing variable named", err)
	}
}
