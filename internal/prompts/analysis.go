package prompts

const (
	analysisFile = "analysis.json"
	analysisKey  = "resume-analysis"
)

// BuildAnalysisPrompt embeds resumeText into the resume analysis template.
// The text is inserted exactly once and without escaping.
func BuildAnalysisPrompt(resumeText string) string {
	return Format(MustGet(analysisFile, analysisKey), map[string]string{
		"ResumeText": resumeText,
	})
}
