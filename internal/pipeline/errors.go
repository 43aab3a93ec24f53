package pipeline

import "fmt"

const (
	noTextFromFileMessage = "Could not extract text from the uploaded file. Ensure it is a valid PDF, DOCX, or TXT file."
	emptyTextMessage      = "resume_text cannot be empty"
	malformedOutputReason = "LLM returned malformed or incomplete JSON data."
)

// NoTextError means there was no usable resume text to analyze. It maps to 400.
type NoTextError struct {
	Source  string
	Message string
}

func (e *NoTextError) Error() string {
	return e.Message
}

// MalformedOutputError means the LLM reply could not become a ResumeAnalysis. It maps to 500.
type MalformedOutputError struct {
	Reason string
	Err    error
}

func (e *MalformedOutputError) Error() string {
	reason := e.Reason
	if reason == "" && e.Err != nil {
		reason = e.Err.Error()
	}
	return fmt.Sprintf("Error creating analysis response: %s", reason)
}

func (e *MalformedOutputError) Unwrap() error {
	return e.Err
}
