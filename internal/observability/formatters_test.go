package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func init() {
	color.NoColor = true
}

func sampleAnalysis() *analysis.ResumeAnalysis {
	return &analysis.ResumeAnalysis{
		Headline: "Solid senior engineer",
		Scores: analysis.Scores{
			Overall:                 7.5,
			ATSFriendliness:         80,
			LayoutAndFormatting:     70,
			ImpactAndQuantification: 60,
		},
		Keywords: analysis.KeywordAnalysis{
			TopTechnicalSkills: []string{"Go", "SQL", "Kubernetes", "gRPC", "Kafka", "Terraform", "AWS"},
			TopSoftSkills:      []string{},
			KeywordsBySection:  map[string][]string{},
		},
		Analytics: analysis.Analytics{
			ActionVerbs:  analysis.ActionVerbAnalysis{Count: 12, UniqueCount: 9, UsageFrequency: []analysis.VerbUsage{}},
			ResumeLength: analysis.LengthAnalysis{Pages: 1, Words: 500, Sentiment: analysis.SentimentIdeal},
		},
		CareerTimeline: []analysis.CareerEvent{},
		ImprovementSuggestions: []analysis.ImprovementSuggestion{
			{Section: "Summary", Suggestion: "Lead with impact", Severity: analysis.SeverityHigh},
		},
		BeforeAndAfterExamples: []analysis.BeforeAfterExample{},
	}
}

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAnalysis("resume.pdf", sampleAnalysis())
	out := buf.String()

	assert.Contains(t, out, "RESUME ANALYSIS: resume.pdf")
	assert.Contains(t, out, "Solid senior engineer")
	assert.Contains(t, out, "7.5 / 10")
	assert.Contains(t, out, "80 / 100")
	assert.Contains(t, out, "(Ideal)")
	assert.Contains(t, out, "• Go")
	assert.Contains(t, out, "... and 2 more")
	assert.NotContains(t, out, "Terraform")
	assert.Contains(t, out, "[High] Summary: Lead with impact")
}

func TestPrintAnalysis_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintAnalysis("x", nil)
	assert.Empty(t, buf.String())
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("é", 100))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
	assert.Contains(t, buf.String(), "...")
}

func TestDisplay_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf).Display("r", sampleAnalysis(), FormatJSON))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "Solid senior engineer", decoded["headline"])
}

func TestDisplay_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf).Display("r", sampleAnalysis(), FormatYAML))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "Solid senior engineer", decoded["headline"])
	scores, ok := decoded["scores"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 80, scores["ats_friendliness"])
}

func TestDisplay_UnknownFormatIsHuman(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf).Display("r", sampleAnalysis(), "table"))
	assert.Contains(t, buf.String(), "RESUME ANALYSIS")
}

func TestPrintProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintProgress(pipeline.ProgressEvent{Source: "a.pdf", State: pipeline.StateExtracted, Message: "extracted 10 characters"})
	p.PrintProgress(pipeline.ProgressEvent{Source: "a.pdf", State: pipeline.StateFailed})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "→ [a.pdf] extracted: extracted 10 characters", lines[0])
	assert.Equal(t, "✗ [a.pdf] failed", lines[1])
}

func TestPrintFailure(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintFailure("b.docx", errors.New("LLM service error: quota"))
	assert.Equal(t, "✗ b.docx: LLM service error: quota\n", buf.String())
}
