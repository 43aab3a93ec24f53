package llm

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/jonathan/resume-analyzer/internal/logging"
)

// Keys of the marker mappings returned by Gateway.Complete instead of an analysis.
const (
	MarkerError        = "error"
	MarkerRawTextError = "raw_text_error"
	MockModeValue      = "mock_mode"
)

// Status describes whether the gateway can reach a provider.
type Status string

const (
	StatusOK                  Status = "ok"
	StatusMissingKey          Status = "mock mode: API key missing"
	StatusProviderUnavailable Status = "mock mode: SDK missing"
	StatusInitFailed          Status = "mock mode: client failed to initialize"
)

// MockMode reports whether calls are answered locally without a provider.
func (s Status) MockMode() bool {
	return s != StatusOK
}

// Health renders the status for the health endpoint.
func (s Status) Health() string {
	if s == StatusOK {
		return "ok"
	}
	return "degraded (" + string(s) + ")"
}

// Gateway turns a prompt into a parsed JSON mapping using at most one provider call.
// It is safe for concurrent use once constructed.
type Gateway struct {
	client   Client
	status   Status
	provider Provider
}

// newClient is replaced in tests.
var newClient = NewClient

// NewGateway builds the provider client described by config. It never fails:
// problems put the gateway in mock mode and are logged.
func NewGateway(ctx context.Context, config *Config) *Gateway {
	if config == nil {
		config = DefaultConfig()
	}
	logger := slog.Default().With("provider", string(config.Provider))
	g := &Gateway{provider: config.Provider}

	switch {
	case !config.HasCredential():
		g.status = StatusMissingKey
		logger.Warn("LLM credentials not configured, gateway will run in mock mode")
	case !config.Provider.Known():
		g.status = StatusProviderUnavailable
		logger.Warn("LLM provider not supported, gateway will run in mock mode")
	default:
		client, err := newClient(ctx, config)
		if err != nil {
			g.status = StatusInitFailed
			logger.Error("failed to initialize LLM client", "error", err)
			break
		}
		g.client = client
		g.status = StatusOK
		logger.Debug("initialized LLM client", "model", client.Model())
	}

	return g
}

// NewGatewayWithClient wraps an existing client. A nil client means mock mode.
func NewGatewayWithClient(client Client) *Gateway {
	if client == nil {
		return &Gateway{status: StatusMissingKey}
	}
	return &Gateway{client: client, status: StatusOK}
}

// Status returns the gateway status
func (g *Gateway) Status() Status {
	return g.status
}

// Complete sends prompt to the provider and parses the reply as a JSON object.
//
// In mock mode it returns {"error": "mock_mode"} without any network I/O.
// A reply that is not a JSON object comes back as {"raw_text_error": text}.
// Provider failures are returned as *UpstreamError.
func (g *Gateway) Complete(ctx context.Context, prompt string) (map[string]any, error) {
	logger := logging.FromContext(ctx)
	logger.Debug("generating analysis", "prompt_length", len(prompt))

	if g.client == nil {
		logger.Warn("LLM client not available, returning mock response", "status", string(g.status))
		return map[string]any{MarkerError: MockModeValue}, nil
	}

	text, err := g.client.GenerateJSON(ctx, prompt)
	if err != nil {
		logger.Error("LLM provider call failed", "model", g.client.Model(), "error", err)
		return nil, &UpstreamError{Provider: g.provider, Err: err}
	}
	logger.Debug("LLM raw response", "text", truncate(text, 500))

	cleaned := CleanJSONBlock(text)
	var parsed map[string]any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil || parsed == nil {
		logger.Error("failed to parse JSON from LLM response", "error", err, "text", cleaned)
		return map[string]any{MarkerRawTextError: cleaned}, nil
	}

	return parsed, nil
}

// Close releases the underlying client, if any.
func (g *Gateway) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// IsMarker reports whether m is one of the marker mappings produced by Complete.
func IsMarker(m map[string]any) bool {
	if _, ok := m[MarkerRawTextError]; ok {
		return true
	}
	v, ok := m[MarkerError]
	return ok && v == MockModeValue
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
