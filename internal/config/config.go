package config

import (
	"strings"
	"time"

	"github.com/rishuramani/RC/pkg/config"
)

// Config stores environment configuration for Curator.
type Config struct {
	Port        string
	DatabaseURL string

	LLMProvider  string
	LLMModel     string
	LLMAPIKey    string
	LLMAPIURL    string
	LLMMaxTokens int

	TwitterBearerToken string

	LinkedInAccessToken string
	LinkedInAuthorURN   string

	// MockMode makes both platform clients return canned results
	// without network access.
	MockMode bool

	ScanQueries         []string
	ScanAccounts        []string
	ScanLinkedInQueries []string
	ScanMaxResults      int
	ScanInterval        time.Duration

	DefaultPrincipal string
	DefaultMarket    string
}

// TwitterConfigured reports whether the Twitter client can serve requests.
func (c Config) TwitterConfigured() bool {
	return c.MockMode || c.TwitterBearerToken != ""
}

// LinkedInConfigured reports whether the LinkedIn client can serve requests.
func (c Config) LinkedInConfigured() bool {
	return c.MockMode || (c.LinkedInAccessToken != "" && c.LinkedInAuthorURN != "")
}

// LoadConfig loads the Curator configuration from environment variables.
func LoadConfig() Config {
	return Config{
		Port:        config.GetEnv("PORT", "18030"),
		DatabaseURL: config.RequireEnv("DATABASE_URL"),

		LLMProvider:  config.GetEnv("LLM_PROVIDER", "anthropic"),
		LLMModel:     config.GetEnv("LLM_MODEL", ""),
		LLMAPIKey:    config.GetEnv("LLM_API_KEY", config.GetEnv("ANTHROPIC_API_KEY", "")),
		LLMAPIURL:    config.GetEnv("LLM_API_URL", ""),
		LLMMaxTokens: config.GetEnvInt("LLM_MAX_TOKENS", 4096),

		TwitterBearerToken: config.GetEnv("TWITTER_BEARER_TOKEN", ""),

		LinkedInAccessToken: config.GetEnv("LINKEDIN_ACCESS_TOKEN", ""),
		LinkedInAuthorURN:   config.GetEnv("LINKEDIN_AUTHOR_URN", ""),

		MockMode: config.GetEnvBool("MOCK_MODE", false),

		ScanQueries:         parseList(config.GetEnv("SCAN_QUERIES", "")),
		ScanAccounts:        parseList(config.GetEnv("SCAN_ACCOUNTS", "")),
		ScanLinkedInQueries: parseList(config.GetEnv("SCAN_LINKEDIN_QUERIES", "")),
		ScanMaxResults:      config.GetEnvInt("SCAN_MAX_RESULTS", 25),
		ScanInterval:        config.GetEnvDuration("SCAN_INTERVAL", 6*time.Hour),

		DefaultPrincipal: config.GetEnv("DEFAULT_PRINCIPAL", "company"),
		DefaultMarket:    config.GetEnv("DEFAULT_MARKET", "houston"),
	}
}

func parseList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var result []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
