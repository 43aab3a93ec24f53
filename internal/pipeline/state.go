package pipeline

import (
	"context"

	"github.com/jonathan/resume-analyzer/internal/logging"
)

// State is a step of one analysis run.
type State string

const (
	StateReceived    State = "received"
	StateExtracted   State = "extracted"
	StatePromptBuilt State = "prompt_built"
	StateLLMCalled   State = "llm_called"
	StateValidated   State = "validated"
	StateResponded   State = "responded"
	StateFailed      State = "failed"
)

// ProgressEvent represents a state transition during an analysis run
type ProgressEvent struct {
	Source  string `json:"source"`
	State   State  `json:"state"`
	Message string `json:"message,omitempty"`
}

// ProgressCallback is called on every state transition
type ProgressCallback func(event ProgressEvent)

// LogResponded records the final transition once the transport has written the result.
func LogResponded(ctx context.Context, source string) {
	logging.FromContext(ctx).Debug("analysis state", "source", source, "state", string(StateResponded))
}
