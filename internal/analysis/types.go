// Package analysis defines the structured resume analysis returned to clients
// and validates raw LLM output against it.
package analysis

// Sentiment is the LLM's verdict on resume length.
type Sentiment string

const (
	SentimentTooShort Sentiment = "Too Short"
	SentimentIdeal    Sentiment = "Ideal"
	SentimentTooLong  Sentiment = "Too Long"
)

// Severity ranks an improvement suggestion.
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// Scores holds the headline numbers. Overall is documented as 0-10 and the
// others as 0-100; neither range is enforced.
type Scores struct {
	Overall                 float64 `json:"overall"`
	ATSFriendliness         int     `json:"ats_friendliness"`
	LayoutAndFormatting     int     `json:"layout_and_formatting"`
	ImpactAndQuantification int     `json:"impact_and_quantification"`
}

// KeywordAnalysis lists skills found in the resume.
type KeywordAnalysis struct {
	TopTechnicalSkills []string            `json:"top_technical_skills"`
	TopSoftSkills      []string            `json:"top_soft_skills"`
	KeywordsBySection  map[string][]string `json:"keywords_by_section"`
}

// VerbUsage is one entry of the action verb frequency table.
type VerbUsage struct {
	Verb  string `json:"verb"`
	Count int    `json:"count"`
}

// ActionVerbAnalysis summarizes action verb usage.
type ActionVerbAnalysis struct {
	Count          int         `json:"count"`
	UniqueCount    int         `json:"unique_count"`
	UsageFrequency []VerbUsage `json:"usage_frequency"`
}

type ReadabilityAnalysis struct {
	GradeLevel       string `json:"grade_level"`
	ScoreExplanation string `json:"score_explanation"`
}

type LengthAnalysis struct {
	Pages     int       `json:"pages"`
	Words     int       `json:"words"`
	Sentiment Sentiment `json:"sentiment" validate:"oneof='Too Short' Ideal 'Too Long'"`
}

type Analytics struct {
	ActionVerbs  ActionVerbAnalysis  `json:"action_verbs"`
	Readability  ReadabilityAnalysis `json:"readability"`
	ResumeLength LengthAnalysis      `json:"resume_length"`
}

// CareerEvent is one position on the career timeline. Every field is optional.
type CareerEvent struct {
	Company        *string  `json:"company"`
	Role           *string  `json:"role"`
	StartDate      *string  `json:"start_date"`
	EndDate        *string  `json:"end_date"`
	DurationMonths *float64 `json:"duration_months"`
	Achievements   []string `json:"achievements"`
}

type ImprovementSuggestion struct {
	Section    string   `json:"section"`
	Suggestion string   `json:"suggestion"`
	Severity   Severity `json:"severity" validate:"oneof=High Medium Low"`
}

type BeforeAfterExample struct {
	Section  string `json:"section"`
	Original string `json:"original"`
	Improved string `json:"improved"`
	Reason   string `json:"reason"`
}

// ResumeAnalysis is the validated result of one analysis request.
type ResumeAnalysis struct {
	Headline               string                  `json:"headline"`
	Scores                 Scores                  `json:"scores"`
	Keywords               KeywordAnalysis         `json:"keywords"`
	Analytics              Analytics               `json:"analytics"`
	CareerTimeline         []CareerEvent           `json:"career_timeline"`
	ImprovementSuggestions []ImprovementSuggestion `json:"improvement_suggestions" validate:"dive"`
	BeforeAndAfterExamples []BeforeAfterExample    `json:"before_and_after_examples"`

	// RawLLM carries {"raw_parsed": <mapping>} for diagnostics.
	RawLLM map[string]any `json:"raw_llm,omitempty"`
}
