// Package observability provides formatted output for the CLI.
package observability

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/pipeline"
	"gopkg.in/yaml.v3"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Output formats accepted by Display.
const (
	FormatHuman = "human"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Printer handles formatted output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Display writes result in the requested format. Unknown formats fall back to human.
func (p *Printer) Display(source string, result *analysis.ResumeAnalysis, format string) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode analysis as JSON: %w", err)
		}
		_, err = fmt.Fprintln(p.out, string(data))
		return err
	case FormatYAML:
		data, err := toYAML(result)
		if err != nil {
			return err
		}
		_, err = p.out.Write(data)
		return err
	default:
		p.PrintAnalysis(source, result)
		return nil
	}
}

// toYAML goes through JSON so YAML keys match the API field names.
func toYAML(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis: %w", err)
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("failed to decode analysis: %w", err)
	}
	out, err := yaml.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis as YAML: %w", err)
	}
	return out, nil
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncateRunes(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncateRunes shortens s to at most n runes, ending in "..." when cut.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintAnalysis outputs a human-readable summary of one analysis.
func (p *Printer) PrintAnalysis(source string, result *analysis.ResumeAnalysis) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(result.Headline + "\n\n")

	s := result.Scores
	sb.WriteString(fmt.Sprintf("Overall:              %.1f / 10\n", s.Overall))
	sb.WriteString(fmt.Sprintf("ATS friendliness:     %d / 100\n", s.ATSFriendliness))
	sb.WriteString(fmt.Sprintf("Layout & formatting:  %d / 100\n", s.LayoutAndFormatting))
	sb.WriteString(fmt.Sprintf("Impact & metrics:     %d / 100\n", s.ImpactAndQuantification))

	length := result.Analytics.ResumeLength
	sb.WriteString(fmt.Sprintf("\nLength: %d page(s), %d words (%s)\n", length.Pages, length.Words, length.Sentiment))
	sb.WriteString(fmt.Sprintf("Action verbs: %d (%d unique)\n",
		result.Analytics.ActionVerbs.Count, result.Analytics.ActionVerbs.UniqueCount))

	if skills := result.Keywords.TopTechnicalSkills; len(skills) > 0 {
		sb.WriteString("\nTop skills:\n")
		writeList(&sb, skills)
	}

	p.printBox("RESUME ANALYSIS: "+source, strings.TrimSuffix(sb.String(), "\n"))
	p.PrintSuggestions(result.ImprovementSuggestions)
}

func writeList(sb *strings.Builder, items []string) {
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

// PrintSuggestions lists improvement suggestions colored by severity.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSuggestions(suggestions []analysis.ImprovementSuggestion) {
	if len(suggestions) == 0 {
		return
	}

	fmt.Fprintln(p.out, "\nSuggestions:")
	for _, s := range suggestions {
		c := severityColor(s.Severity)
		fmt.Fprintf(p.out, "  %s %s: %s\n", c.Sprintf("[%s]", s.Severity), s.Section, s.Suggestion)
	}
}

func severityColor(severity analysis.Severity) *color.Color {
	switch severity {
	case analysis.SeverityHigh:
		return color.New(color.FgRed, color.Bold)
	case analysis.SeverityMedium:
		return color.New(color.FgYellow)
	case analysis.SeverityLow:
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgWhite)
	}
}

// PrintFailure reports an analysis that did not complete.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintFailure(source string, err error) {
	red := color.New(color.FgRed, color.Bold)
	fmt.Fprintf(p.out, "%s %s: %v\n", red.Sprint("✗"), source, err)
}

// PrintProgress outputs a single pipeline state transition.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintProgress(event pipeline.ProgressEvent) {
	marker := color.New(color.FgCyan).Sprint("→")
	if event.State == pipeline.StateFailed {
		marker = color.New(color.FgRed).Sprint("✗")
	}
	fmt.Fprintf(p.out, "%s [%s] %s", marker, event.Source, event.State)
	if event.Message != "" {
		fmt.Fprintf(p.out, ": %s", event.Message)
	}
	fmt.Fprintln(p.out)
}
