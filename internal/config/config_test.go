package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Fatalf("unexpected addr: %q", cfg.Addr)
	}

	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Fatalf("unexpected model: %q", cfg.OpenAIModel)
	}

	if cfg.ExtractionMode != ExtractionModeSimulated {
		t.Fatalf("unexpected extraction mode: %q", cfg.ExtractionMode)
	}

	if cfg.JournalRetention != 720*time.Hour {
		t.Fatalf("unexpected journal retention: %s", cfg.JournalRetention)
	}
}

func TestLoadReadsEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ADDR", ":9090")
	t.Setenv("EXTRACTION_MODE", ExtractionModeNative)
	t.Setenv("JOURNAL_PATH", "journal.sqlite")
	t.Setenv("JOURNAL_RETENTION", "24h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.OpenAIAPIKey != "sk-test" {
		t.Fatalf("unexpected API key: %q", cfg.OpenAIAPIKey)
	}

	if cfg.Addr != ":9090" {
		t.Fatalf("unexpected addr: %q", cfg.Addr)
	}

	if cfg.ExtractionMode != ExtractionModeNative {
		t.Fatalf("unexpected extraction mode: %q", cfg.ExtractionMode)
	}

	if cfg.JournalPath != "journal.sqlite" || cfg.JournalRetention != 24*time.Hour {
		t.Fatalf("unexpected journal config: %q %s", cfg.JournalPath, cfg.JournalRetention)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown extraction mode", key: "EXTRACTION_MODE", value: "magic"},
		{name: "zero retention", key: "JOURNAL_RETENTION", value: "0s"},
		{name: "unparsable retention", key: "JOURNAL_RETENTION", value: "forever"},
		{name: "unknown mode", key: "MODE", value: "production"},
		{name: "negative rate limit", key: "RATE_LIMIT_INTERVAL", value: "-1s"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Setenv(test.key, test.value)

			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", test.key, test.value)
			}
		})
	}
}
