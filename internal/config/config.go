// Package config loads service configuration from the environment and an
// optional JSON or YAML file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/llm"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort           = 8000
	DefaultMaxUploadBytes = int64(10 << 20)
	DefaultLogLevel       = "debug"
	DefaultLogFormat      = "text"
)

// Config represents the service configuration.
// All fields are optional; missing values use defaults.
type Config struct {
	// LLM
	Provider        string   `json:"provider,omitempty" yaml:"provider,omitempty"`                   // gemini, vertex or openai
	Model           string   `json:"model,omitempty" yaml:"model,omitempty"`                         // Provider model name
	Temperature     *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`             // Sampling temperature (unset means default; 0 is kept)
	MaxOutputTokens int      `json:"max_output_tokens,omitempty" yaml:"max_output_tokens,omitempty"` // Reply token cap (0 means default)
	APIKey          string   `json:"api_key,omitempty" yaml:"api_key,omitempty"`                     // Gemini API key
	OpenAIAPIKey    string   `json:"openai_api_key,omitempty" yaml:"openai_api_key,omitempty"`       // OpenAI API key
	Project         string   `json:"project,omitempty" yaml:"project,omitempty"`                     // Vertex AI project
	Location        string   `json:"location,omitempty" yaml:"location,omitempty"`                   // Vertex AI location

	// Server
	Port           int    `json:"port,omitempty" yaml:"port,omitempty"`
	MaxUploadBytes int64  `json:"max_upload_bytes,omitempty" yaml:"max_upload_bytes,omitempty"`
	UploadDir      string `json:"upload_dir,omitempty" yaml:"upload_dir,omitempty"` // Temporary upload directory (OS default when empty)

	// Logging
	LogLevel  string `json:"log_level,omitempty" yaml:"log_level,omitempty"`   // debug, info, warn, error
	LogFormat string `json:"log_format,omitempty" yaml:"log_format,omitempty"` // text or json
}

// FromEnv reads the configuration from environment variables.
// Unparseable numbers are kept as zero (temperature as unset) and later
// replaced by defaults.
func FromEnv() *Config {
	return &Config{
		Provider:        os.Getenv("LLM_PROVIDER"),
		Model:           os.Getenv("LLM_MODEL"),
		Temperature:     envFloat("LLM_TEMPERATURE"),
		MaxOutputTokens: int(envInt("LLM_MAX_OUTPUT_TOKENS")),
		APIKey:          os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		Project:         os.Getenv("GOOGLE_CLOUD_PROJECT"),
		Location:        os.Getenv("GOOGLE_CLOUD_LOCATION"),
		Port:            int(envInt("PORT")),
		MaxUploadBytes:  envInt("MAX_UPLOAD_BYTES"),
		UploadDir:       os.Getenv("UPLOAD_DIR"),
		LogLevel:        os.Getenv("LOG_LEVEL"),
		LogFormat:       os.Getenv("LOG_FORMAT"),
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Load builds the effective configuration. Values from the file at path
// override the environment; defaults fill whatever is left. An empty path
// skips the file.
func Load(path string) (*Config, error) {
	cfg := FromEnv()
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		merged := fileCfg.MergeWithDefaults(*cfg)
		cfg = &merged
	}

	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Provider:        string(llm.ProviderGemini),
		Temperature:     Float64(float64(llm.DefaultTemperature)),
		MaxOutputTokens: int(llm.DefaultMaxOutputTokens),
		Location:        llm.DefaultVertexLocation,
		Port:            DefaultPort,
		MaxUploadBytes:  DefaultMaxUploadBytes,
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.MaxUploadBytes < 0 {
		return fmt.Errorf("config error: 'max_upload_bytes' must be non-negative")
	}
	if c.MaxOutputTokens < 0 {
		return fmt.Errorf("config error: 'max_output_tokens' must be non-negative")
	}
	if t := c.Temperature; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("config error: 'temperature' must be between 0 and 2")
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("config error: 'log_format' must be text or json, got %q", c.LogFormat)
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	mergeString(&result.Provider, defaults.Provider)
	mergeString(&result.Model, defaults.Model)
	mergeString(&result.APIKey, defaults.APIKey)
	mergeString(&result.OpenAIAPIKey, defaults.OpenAIAPIKey)
	mergeString(&result.Project, defaults.Project)
	mergeString(&result.Location, defaults.Location)
	mergeString(&result.UploadDir, defaults.UploadDir)
	mergeString(&result.LogLevel, defaults.LogLevel)
	mergeString(&result.LogFormat, defaults.LogFormat)

	// Numeric fields: use default if zero (temperature: if unset)
	if result.Temperature == nil && defaults.Temperature != nil {
		t := *defaults.Temperature
		result.Temperature = &t
	}
	if result.MaxOutputTokens == 0 {
		result.MaxOutputTokens = defaults.MaxOutputTokens
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = defaults.MaxUploadBytes
	}

	return result
}

// LLMConfig converts the configuration into gateway settings.
func (c *Config) LLMConfig() *llm.Config {
	provider := llm.ParseProvider(c.Provider)
	apiKey := c.APIKey
	if provider == llm.ProviderOpenAI {
		apiKey = c.OpenAIAPIKey
	}
	var temperature *float32
	if c.Temperature != nil {
		temperature = llm.Float32(float32(*c.Temperature))
	}
	return &llm.Config{
		Provider:        provider,
		Model:           c.Model,
		Temperature:     temperature,
		MaxOutputTokens: int32(c.MaxOutputTokens),
		APIKey:          apiKey,
		Project:         c.Project,
		Location:        c.Location,
	}
}

func mergeString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

func envInt(key string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(os.Getenv(key)), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func envFloat(key string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64)
	if err != nil {
		return nil
	}
	return &v
}

// Float64 returns a pointer to v, for setting Config.Temperature.
func Float64(v float64) *float64 {
	return &v
}
