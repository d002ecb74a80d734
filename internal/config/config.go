package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/docqa/internal/docqa"
	"github.com/dgallion1/docqa/internal/llm"
	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// CORS
	AllowedOrigins []string

	// Generation provider
	LLMProvider      string
	GroqAPIKey       string
	GroqModel        string
	GroqBaseURL      string
	AnthropicAPIKey  string
	AnthropicModel   string
	AnthropicBaseURL string

	// Prompt bounds
	TruncationBudget int
	PreviewChars     int
	Temperature      float64
	MaxTokens        int

	// Timeouts on the external capabilities
	LLMTimeout     time.Duration
	ExtractTimeout time.Duration

	// Upload limits
	MaxUploadBytes int64

	// PDF
	PDFFallbackPdftotext bool

	StatsWindow time.Duration
}

// LoadDotEnv reads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "5001"),

		AllowedOrigins: envList("ALLOWED_ORIGIN", []string{"http://localhost:5173"}),

		LLMProvider:      strings.ToLower(envOr("LLM_PROVIDER", llm.ProviderGroq)),
		GroqAPIKey:       os.Getenv("GROQ_API_KEY"),
		GroqModel:        envOr("GROQ_MODEL", llm.DefaultGroqModel),
		GroqBaseURL:      envOr("GROQ_BASE_URL", llm.DefaultGroqBaseURL),
		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:   envOr("ANTHROPIC_MODEL", llm.DefaultAnthropicModel),
		AnthropicBaseURL: envOr("ANTHROPIC_BASE_URL", llm.DefaultAnthropicBaseURL),

		TruncationBudget: envInt("TRUNCATION_BUDGET", 4000),
		PreviewChars:     envInt("PREVIEW_CHARS", 1500),
		Temperature:      envFloat("LLM_TEMPERATURE", 0.3),
		MaxTokens:        envInt("LLM_MAX_TOKENS", 1024),

		LLMTimeout:     envDuration("LLM_TIMEOUT", 30*time.Second),
		ExtractTimeout: envDuration("EXTRACT_TIMEOUT", 30*time.Second),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 20971520), // 20MB

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),
	}

	if cfg.TruncationBudget <= 0 {
		cfg.TruncationBudget = 4000
	}
	if cfg.PreviewChars <= 0 {
		cfg.PreviewChars = 1500
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = 30 * time.Second
	}
	if cfg.ExtractTimeout <= 0 {
		cfg.ExtractTimeout = 30 * time.Second
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 20971520
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	switch c.LLMProvider {
	case llm.ProviderGroq:
		if c.GroqAPIKey == "" {
			return fmt.Errorf("GROQ_API_KEY is required")
		}
	case llm.ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required")
		}
	default:
		return fmt.Errorf("LLM_PROVIDER must be %q or %q, got %q", llm.ProviderGroq, llm.ProviderAnthropic, c.LLMProvider)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("LLM_TEMPERATURE must be between 0 and 2, got %v", c.Temperature)
	}
	return nil
}

// LLMOptions selects the provider credentials for llm.New.
func (c Config) LLMOptions(stats *llm.Stats) llm.Options {
	opts := llm.Options{Provider: c.LLMProvider, Stats: stats}
	switch c.LLMProvider {
	case llm.ProviderAnthropic:
		opts.APIKey, opts.Model, opts.BaseURL = c.AnthropicAPIKey, c.AnthropicModel, c.AnthropicBaseURL
	default:
		opts.APIKey, opts.Model, opts.BaseURL = c.GroqAPIKey, c.GroqModel, c.GroqBaseURL
	}
	return opts
}

// ModelName is the model of the selected provider.
func (c Config) ModelName() string {
	if c.LLMProvider == llm.ProviderAnthropic {
		return c.AnthropicModel
	}
	return c.GroqModel
}

// Pipeline returns the question-answering pipeline settings.
func (c Config) Pipeline() docqa.Config {
	return docqa.Config{
		TruncationBudget: c.TruncationBudget,
		PreviewChars:     c.PreviewChars,
		Temperature:      c.Temperature,
		MaxTokens:        c.MaxTokens,
		MaxUploadBytes:   c.MaxUploadBytes,
		GenerateTimeout:  c.LLMTimeout,
		ExtractTimeout:   c.ExtractTimeout,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
