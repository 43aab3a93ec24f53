package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-analyzer/internal/analysis"
)

// Input is one item of a batch: a file on disk, or pasted text when Path is empty.
type Input struct {
	Source string
	Path   string
	Text   string
}

// Outcome is the result of one batch item. Exactly one of Analysis and Err is set.
type Outcome struct {
	Source   string
	Analysis *analysis.ResumeAnalysis
	Err      error
}

// RunBatch analyzes inputs with at most concurrency analyses in flight.
// Outcomes keep input order. A failed item does not stop the others; only
// cancellation of ctx does.
func (a *Analyzer) RunBatch(ctx context.Context, inputs []Input, concurrency int) ([]Outcome, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	outcomes := make([]Outcome, len(inputs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, in := range inputs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				outcomes[i] = Outcome{Source: in.Source, Err: err}
				return err
			}

			var result *analysis.ResumeAnalysis
			var err error
			if in.Path != "" {
				result, err = a.AnalyzeFile(gCtx, in.Path, in.Source)
			} else {
				result, err = a.AnalyzeText(gCtx, in.Text)
			}
			outcomes[i] = Outcome{Source: in.Source, Analysis: result, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, ctx.Err()
}
