package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("analysis.json", "resume-analysis")
	require.NoError(t, err)
	assert.Contains(t, prompt, "You are an expert resume analyzer AI")
	assert.Contains(t, prompt, "{{.ResumeText}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("analysis.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestFormat(t *testing.T) {
	template := "Hello {{.Name}}, welcome to {{.Company}}!"
	data := map[string]string{
		"Name":    "Alice",
		"Company": "Acme Corp",
	}

	result := Format(template, data)
	assert.Equal(t, "Hello Alice, welcome to Acme Corp!", result)
}

func TestFormat_NoPlaceholders(t *testing.T) {
	template := "No placeholders here"

	result := Format(template, map[string]string{"Key": "Value"})
	assert.Equal(t, template, result)
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"

	result := Format(template, map[string]string{})
	assert.Equal(t, template, result)
}

func TestFormat_ValuesNotRescanned(t *testing.T) {
	result := Format("{{.A}} and {{.B}}", map[string]string{
		"A": "{{.B}}",
		"B": "bee",
	})
	assert.Equal(t, "{{.B}} and bee", result)
}

func TestBuildAnalysisPrompt(t *testing.T) {
	resume := "Jane Doe\nSenior Engineer at Acme {braces} \"quotes\""

	prompt := BuildAnalysisPrompt(resume)

	assert.Equal(t, 1, strings.Count(prompt, resume))
	assert.NotContains(t, prompt, "{{.ResumeText}}")
	assert.Contains(t, prompt, "**Input Resume:** "+resume)
	assert.Contains(t, prompt, "Return ONLY the JSON object")
	assert.Contains(t, prompt, "'Too Short', 'Ideal', or 'Too Long'")
	assert.Contains(t, prompt, "'High', 'Medium', or 'Low'")
	assert.Contains(t, prompt, "omit it from the `keywords_by_section` object")
	assert.Contains(t, prompt, "\"scores\": {")
}

func TestBuildAnalysisPrompt_EmptyText(t *testing.T) {
	prompt := BuildAnalysisPrompt("")
	assert.Contains(t, prompt, "**Input Resume:** \n")
}
