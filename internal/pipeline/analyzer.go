// Package pipeline orchestrates one resume analysis: extract text, build the
// prompt, call the LLM gateway and validate the reply.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/jonathan/resume-analyzer/internal/logging"
	"github.com/jonathan/resume-analyzer/internal/prompts"
)

// TextExtractor turns a stored upload into text. It never fails; empty text means nothing usable.
type TextExtractor interface {
	Extract(ctx context.Context, path, originalFilename string) string
}

// Completer sends a prompt to the LLM and returns the parsed mapping.
type Completer interface {
	Complete(ctx context.Context, prompt string) (map[string]any, error)
}

// Analyzer runs analyses. It holds no per-request state and is safe for concurrent use.
type Analyzer struct {
	extractor  TextExtractor
	gateway    Completer
	onProgress ProgressCallback
}

// NewAnalyzer creates an Analyzer from its collaborators
func NewAnalyzer(extractor TextExtractor, gateway Completer) *Analyzer {
	return &Analyzer{extractor: extractor, gateway: gateway}
}

// WithProgress returns a copy of the Analyzer that reports state transitions to cb.
func (a *Analyzer) WithProgress(cb ProgressCallback) *Analyzer {
	next := *a
	next.onProgress = cb
	return &next
}

// AnalyzeFile extracts text from the file at path and analyzes it.
// originalFilename selects the extraction method.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path, originalFilename string) (*analysis.ResumeAnalysis, error) {
	source := originalFilename
	if source == "" {
		source = path
	}
	r := a.newRun(ctx, source)
	r.transition(StateReceived, "file received")

	text, err := r.guard(func() (string, error) {
		return a.extractor.Extract(ctx, path, originalFilename), nil
	})
	if err != nil {
		return nil, r.fail(err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, r.fail(&NoTextError{Source: source, Message: noTextFromFileMessage})
	}
	r.transition(StateExtracted, fmt.Sprintf("extracted %d characters", len(text)))

	return a.analyze(r, text)
}

// AnalyzeText analyzes pasted resume text.
func (a *Analyzer) AnalyzeText(ctx context.Context, text string) (*analysis.ResumeAnalysis, error) {
	r := a.newRun(ctx, "text")
	r.transition(StateReceived, "text received")

	if strings.TrimSpace(text) == "" {
		return nil, r.fail(&NoTextError{Source: "text", Message: emptyTextMessage})
	}
	r.transition(StateExtracted, fmt.Sprintf("received %d characters", len(text)))

	return a.analyze(r, text)
}

func (a *Analyzer) analyze(r *run, text string) (result *analysis.ResumeAnalysis, err error) {
	defer func() {
		if p := recover(); p != nil {
			result = nil
			err = r.fail(fmt.Errorf("analysis panicked: %v", p))
		}
	}()

	prompt := prompts.BuildAnalysisPrompt(text)
	r.transition(StatePromptBuilt, fmt.Sprintf("prompt length %d", len(prompt)))

	parsed, err := a.gateway.Complete(r.ctx, prompt)
	if err != nil {
		return nil, r.fail(err)
	}
	r.transition(StateLLMCalled, "LLM replied")

	if len(parsed) == 0 || llm.IsMarker(parsed) || parsed["scores"] == nil {
		return nil, r.fail(&MalformedOutputError{Reason: malformedOutputReason})
	}

	result, err = analysis.Validate(parsed)
	if err != nil {
		return nil, r.fail(&MalformedOutputError{Err: err})
	}
	r.transition(StateValidated, "analysis validated")

	return result, nil
}

// run tracks the state of one analysis.
type run struct {
	ctx        context.Context
	source     string
	state      State
	logger     *slog.Logger
	onProgress ProgressCallback
}

func (a *Analyzer) newRun(ctx context.Context, source string) *run {
	return &run{
		ctx:        ctx,
		source:     source,
		logger:     logging.FromContext(ctx).With("source", source),
		onProgress: a.onProgress,
	}
}

func (r *run) transition(state State, message string) {
	r.state = state
	r.logger.Debug("analysis state", "state", string(state), "detail", message)
	if r.onProgress != nil {
		r.onProgress(ProgressEvent{Source: r.source, State: state, Message: message})
	}
}

func (r *run) fail(err error) error {
	r.logger.Error("analysis failed", "state", string(r.state), "error", err)
	r.state = StateFailed
	if r.onProgress != nil {
		r.onProgress(ProgressEvent{Source: r.source, State: StateFailed, Message: err.Error()})
	}
	return err
}

func (r *run) guard(fn func() (string, error)) (text string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("extraction panicked: %v", p)
		}
	}()
	return fn()
}
