package llm

import "fmt"

// UpstreamError reports a failed provider call. The server maps it to 502.
type UpstreamError struct {
	Provider Provider
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("LLM service error: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
