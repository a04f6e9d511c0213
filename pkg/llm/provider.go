package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rishuramani/RC/pkg/config"
)

const (
	defaultMaxTokens   = 4096
	defaultTemperature = 0.7
)

// Request describes a single text-completion call.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int     // defaults to 4096 when <= 0
	Temperature float64 // defaults to 0.7 when <= 0
}

// Provider is a text-completion backend.
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// UsageStats reports cumulative token consumption across calls.
type UsageStats struct {
	TotalCalls   int
	InputTokens  int
	OutputTokens int
}

// TotalTokens returns the combined input and output token count.
func (u UsageStats) TotalTokens() int {
	return u.InputTokens + u.OutputTokens
}

type Config struct {
	Provider  string
	Model     string
	APIKey    string
	APIURL    string
	MaxTokens int
}

func LoadConfig() Config {
	return Config{
		Provider:  config.GetEnv("LLM_PROVIDER", "anthropic"),
		Model:     config.GetEnv("LLM_MODEL", ""),
		APIKey:    config.GetEnv("LLM_API_KEY", ""),
		APIURL:    config.GetEnv("LLM_API_URL", ""),
		MaxTokens: config.GetEnvInt("LLM_MAX_TOKENS", defaultMaxTokens),
	}
}

func NewProvider(cfg Config) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "anthropic", "":
		return NewAnthropicProvider(cfg), nil
	case "openai":
		return NewOpenAIProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}

func (r *Request) applyDefaults() {
	if r.MaxTokens <= 0 {
		r.MaxTokens = defaultMaxTokens
	}
	if r.Temperature <= 0 {
		r.Temperature = defaultTemperature
	}
}
