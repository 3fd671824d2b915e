package config

import (
	"os"
	"strings"
	"time"
)

// AIConfig holds question-generation configuration for the Gemini API.
// Generation walks APIVersions x Models in order, short-circuiting on the
// first success; 404s skip to the next candidate and a 429 aborts the
// whole chain.
type AIConfig struct {
	APIKey      string        `json:"-"` // Never serialize
	BaseURL     string        `json:"baseUrl"`
	APIVersions []string      `json:"apiVersions"`
	Models      []string      `json:"models"`
	Timeout     time.Duration `json:"timeout"`
}

// DefaultAIConfig returns the default AI configuration.
func DefaultAIConfig() *AIConfig {
	models := []string{
		// Fast models without thinking tokens first
		"gemini-1.5-flash",
		"gemini-1.5-pro",
		"gemini-1.5-flash-latest",
		"gemini-1.5-pro-latest",
		"gemini-pro",
		// Newer models use thinking tokens which eat the output budget
		"gemini-2.5-flash",
		"gemini-2.5-pro",
	}
	if v := os.Getenv("GEMINI_MODELS"); v != "" {
		models = splitList(v)
	}

	return &AIConfig{
		APIKey:      os.Getenv("GEMINI_API_KEY"),
		BaseURL:     getEnvOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		APIVersions: []string{"v1beta", "v1"},
		Models:      models,
		Timeout:     15 * time.Second,
	}
}

// IsEnabled returns true if the AI API is configured.
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the generateContent endpoint for a model under a
// given API version.
func (c *AIConfig) ModelEndpoint(apiVersion, model string) string {
	return c.BaseURL + "/" + apiVersion + "/models/" + model + ":generateContent"
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
