package llm

import (
	"context"
	"fmt"
	"strings"

	vertex "cloud.google.com/go/vertexai/genai"
)

// VertexClient implements Client for Gemini models served by Vertex AI
type VertexClient struct {
	client   *vertex.Client
	model    *vertex.GenerativeModel
	name     string
	project  string
	location string
}

// NewVertexClient creates a Vertex AI client using application default credentials
func NewVertexClient(ctx context.Context, config *Config) (*VertexClient, error) {
	if config.Project == "" {
		return nil, fmt.Errorf("project is required for Vertex AI")
	}
	location := config.Location
	if location == "" {
		location = DefaultVertexLocation
	}

	client, err := vertex.NewClient(ctx, config.Project, location)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}

	name := config.ModelName()
	model := client.GenerativeModel(name)
	model.SetTemperature(config.temperature())
	model.SetMaxOutputTokens(config.maxOutputTokens())
	model.ResponseMIMEType = "application/json"

	return &VertexClient{
		client:   client,
		model:    model,
		name:     name,
		project:  config.Project,
		location: location,
	}, nil
}

// GenerateJSON generates JSON content for the prompt
func (v *VertexClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	resp, err := v.model.GenerateContent(ctx, vertex.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates returned")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(vertex.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return sb.String(), nil
}

// Model returns the model name
func (v *VertexClient) Model() string {
	return v.name
}

// Close closes the Vertex AI client
func (v *VertexClient) Close() error {
	return v.client.Close()
}
