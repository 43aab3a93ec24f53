// Package llm provides the provider clients and the gateway used to turn an
// analysis prompt into a parsed JSON mapping.
package llm

import "strings"

// Provider represents an LLM provider
type Provider string

const (
	// ProviderGemini is the Gemini API, authenticated with an API key
	ProviderGemini Provider = "gemini"
	// ProviderVertex is Gemini on Vertex AI, authenticated with application default credentials
	ProviderVertex Provider = "vertex"
	// ProviderOpenAI is the OpenAI chat completions API
	ProviderOpenAI Provider = "openai"
)

// PlaceholderAPIKey is the value shipped in sample .env files. It counts as missing.
const PlaceholderAPIKey = "YOUR_API_KEY_HERE"

const (
	DefaultModel           = "gemini-1.5-flash"
	DefaultOpenAIModel     = "gpt-4o-mini"
	DefaultTemperature     = float32(0.2)
	DefaultMaxOutputTokens = int32(2048)
	DefaultVertexLocation  = "us-central1"
)

// Config holds the provider settings for the application
type Config struct {
	Provider        Provider
	Model           string
	Temperature     *float32 // nil means DefaultTemperature; 0 is a valid setting
	MaxOutputTokens int32

	// APIKey authenticates ProviderGemini and ProviderOpenAI.
	APIKey string
	// Project and Location select the Vertex AI endpoint.
	Project  string
	Location string
}

// DefaultConfig returns the Gemini configuration used when nothing is set
func DefaultConfig() *Config {
	return &Config{
		Provider:        ProviderGemini,
		Model:           DefaultModel,
		Temperature:     Float32(DefaultTemperature),
		MaxOutputTokens: DefaultMaxOutputTokens,
		Location:        DefaultVertexLocation,
	}
}

// Known reports whether the provider has a client implementation.
func (p Provider) Known() bool {
	switch p {
	case ProviderGemini, ProviderVertex, ProviderOpenAI:
		return true
	}
	return false
}

// ParseProvider normalizes a provider name. An empty name means ProviderGemini.
func ParseProvider(name string) Provider {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ProviderGemini
	}
	return Provider(name)
}

// Credential returns the value that must be present for the provider to be usable.
func (c *Config) Credential() string {
	if c.Provider == ProviderVertex {
		return strings.TrimSpace(c.Project)
	}
	return strings.TrimSpace(c.APIKey)
}

// HasCredential reports whether a real credential is configured.
func (c *Config) HasCredential() bool {
	cred := c.Credential()
	return cred != "" && cred != PlaceholderAPIKey
}

// ModelName returns the configured model, or the provider default.
func (c *Config) ModelName() string {
	if c.Model != "" {
		return c.Model
	}
	if c.Provider == ProviderOpenAI {
		return DefaultOpenAIModel
	}
	return DefaultModel
}

// Float32 returns a pointer to v, for setting Config.Temperature.
func Float32(v float32) *float32 {
	return &v
}

func (c *Config) temperature() float32 {
	if c.Temperature == nil || *c.Temperature < 0 {
		return DefaultTemperature
	}
	return *c.Temperature
}

func (c *Config) maxOutputTokens() int32 {
	if c.MaxOutputTokens <= 0 {
		return DefaultMaxOutputTokens
	}
	return c.MaxOutputTokens
}
