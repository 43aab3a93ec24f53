package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/jonathan/resume-analyzer/internal/export"
	"github.com/jonathan/resume-analyzer/internal/extraction"
	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/jonathan/resume-analyzer/internal/pipeline"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [FILE...]",
	Short: "Analyze resume files or pasted text from the command line",
	Long: `Analyze one or more resumes without starting the server.

Examples:
  # Analyze a PDF
  resume_analyzer analyze resume.pdf

  # Analyze several files, two at a time, and export a spreadsheet
  resume_analyzer analyze a.pdf b.docx c.txt --concurrency 2 --xlsx report.xlsx

  # Analyze pasted text and print YAML
  resume_analyzer analyze --text "$(cat resume.txt)" -o yaml`,
	RunE: runAnalyze,
}

var (
	analyzeText        string
	analyzeOutput      string
	analyzeXLSX        string
	analyzeConcurrency int
	analyzeVerbose     bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeText, "text", "", "Resume text to analyze instead of files")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", observability.FormatHuman, "Output format (human, json, yaml)")
	analyzeCmd.Flags().StringVar(&analyzeXLSX, "xlsx", "", "Also write results to this Excel file")
	analyzeCmd.Flags().IntVar(&analyzeConcurrency, "concurrency", 2, "Maximum analyses in flight")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print every pipeline state transition")

	rootCmd.AddCommand(analyzeCmd)
}

// analyzeOptions holds everything analyze needs apart from the inputs.
type analyzeOptions struct {
	Format      string
	XLSXPath    string
	Concurrency int
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	inputs, err := buildInputs(args, analyzeText)
	if err != nil {
		return err
	}
	if err := checkFormat(analyzeOutput); err != nil {
		return err
	}

	gateway := llm.NewGateway(cmd.Context(), appConfig.LLMConfig())
	defer gateway.Close()
	if status := gateway.Status(); status.MockMode() {
		fmt.Fprintf(os.Stderr, "%s LLM unavailable (%s), results will fail\n", color.YellowString("!"), status)
	}

	out := cmd.OutOrStdout()
	analyzer := pipeline.NewAnalyzer(extraction.New(), gateway)
	if analyzeVerbose {
		printer := observability.NewPrinter(os.Stderr)
		analyzer = analyzer.WithProgress(printer.PrintProgress)
	}

	var s *spinner.Spinner
	if !color.NoColor && !analyzeVerbose {
		s = spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
		s.Suffix = fmt.Sprintf(" Analyzing %d resume(s) with %s...", len(inputs), gateway.Status().Health())
		s.Start()
	}

	err = analyzeInputs(cmd.Context(), out, analyzer, inputs, analyzeOptions{
		Format:      analyzeOutput,
		XLSXPath:    analyzeXLSX,
		Concurrency: analyzeConcurrency,
	}, func() {
		if s != nil {
			s.Stop()
		}
	})
	return err
}

// buildInputs turns file arguments and --text into batch inputs.
func buildInputs(files []string, text string) ([]pipeline.Input, error) {
	if len(files) == 0 && strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("provide at least one resume file or --text")
	}

	inputs := make([]pipeline.Input, 0, len(files)+1)
	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("resume file not found: %s", path)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("resume path is a directory: %s", path)
		}
		inputs = append(inputs, pipeline.Input{Source: filepath.Base(path), Path: path})
	}
	if text != "" {
		inputs = append(inputs, pipeline.Input{Source: "text", Text: text})
	}
	return inputs, nil
}

func checkFormat(format string) error {
	switch format {
	case observability.FormatHuman, observability.FormatJSON, observability.FormatYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want human, json or yaml)", format)
	}
}

// analyzeInputs runs the batch, prints every outcome and writes the optional
// workbook. done is called once the analyses have finished. It returns an
// error when any input failed.
func analyzeInputs(ctx context.Context, out io.Writer, analyzer *pipeline.Analyzer, inputs []pipeline.Input, opts analyzeOptions, done func()) error {
	outcomes, batchErr := analyzer.RunBatch(ctx, inputs, opts.Concurrency)
	if done != nil {
		done()
	}

	printer := observability.NewPrinter(out)
	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			printer.PrintFailure(o.Source, o.Err)
			continue
		}
		if err := printer.Display(o.Source, o.Analysis, opts.Format); err != nil {
			return err
		}
	}

	if opts.XLSXPath != "" {
		if err := export.WriteWorkbook(opts.XLSXPath, outcomes); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s Wrote %s\n", color.GreenString("✓"), opts.XLSXPath)
	}

	if batchErr != nil {
		return fmt.Errorf("analysis interrupted: %w", batchErr)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d analyses failed", failed, len(outcomes))
	}
	return nil
}
