// Package schemas holds the JSON Schema documents shipped with the service.
package schemas

import _ "embed"

// ResumeAnalysisFile is the file name of the resume analysis schema.
const ResumeAnalysisFile = "resume_analysis.schema.json"

//go:embed resume_analysis.schema.json
var resumeAnalysis string

// ResumeAnalysis returns the resume analysis schema document.
func ResumeAnalysis() string {
	return resumeAnalysis
}
