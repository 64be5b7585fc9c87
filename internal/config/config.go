package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	ExtractionModeSimulated = "simulated"
	ExtractionModeNative    = "native"

	ModeDebug   = "debug"
	ModeRelease = "release"
	ModeTest    = "test"
)

type Config struct {
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	OpenAIModel   string `env:"OPENAI_MODEL"    envDefault:"gpt-4o-mini"`

	Addr   string `env:"ADDR"    envDefault:":8080"`
	APIKey string `env:"API_KEY"`
	Mode   string `env:"MODE"    envDefault:"debug"`

	RateLimitInterval time.Duration `env:"RATE_LIMIT_INTERVAL" envDefault:"0s"`

	ExtractionMode string `env:"EXTRACTION_MODE" envDefault:"simulated"`
	TesseractPath  string `env:"TESSERACT_PATH"  envDefault:"tesseract"`

	JournalPath      string        `env:"JOURNAL_PATH"`
	JournalRetention time.Duration `env:"JOURNAL_RETENTION" envDefault:"720h"`

	SummarizeURL  string        `env:"SUMMARIZE_URL"  envDefault:"http://localhost:8080/api/summarize"`
	ClientTimeout time.Duration `env:"CLIENT_TIMEOUT" envDefault:"0s"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.ExtractionMode {
	case ExtractionModeSimulated, ExtractionModeNative:
	default:
		return Config{}, fmt.Errorf("unsupported extraction mode: %q", cfg.ExtractionMode)
	}

	switch cfg.Mode {
	case ModeDebug, ModeRelease, ModeTest:
	default:
		return Config{}, fmt.Errorf("unsupported mode: %q", cfg.Mode)
	}

	if cfg.RateLimitInterval < 0 {
		return Config{}, fmt.Errorf("rate limit interval must not be negative: %s", cfg.RateLimitInterval)
	}

	if cfg.JournalRetention <= 0 {
		return Config{}, fmt.Errorf("journal retention must be positive: %s", cfg.JournalRetention)
	}

	return cfg, nil
}
