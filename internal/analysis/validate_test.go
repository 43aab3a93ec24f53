package analysis

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minimalMapping() map[string]any {
	return map[string]any{
		"headline": "Experienced backend engineer",
		"scores": map[string]any{
			"overall":                   7.5,
			"ats_friendliness":          80.0,
			"layout_and_formatting":     70.0,
			"impact_and_quantification": 65.0,
		},
		"keywords": map[string]any{},
		"analytics": map[string]any{
			"action_verbs": map[string]any{"count": 12.0, "unique_count": 8.0},
			"readability":  map[string]any{"grade_level": "College", "score_explanation": "Dense but clear"},
			"resume_length": map[string]any{
				"pages":     1.0,
				"words":     480.0,
				"sentiment": "Ideal",
			},
		},
	}
}

func fullMapping(t *testing.T) map[string]any {
	t.Helper()
	doc := `{
		"headline": "Strong candidate",
		"scores": {"overall": 8.2, "ats_friendliness": 85, "layout_and_formatting": 78, "impact_and_quantification": 72},
		"keywords": {
			"top_technical_skills": ["Go", "PostgreSQL"],
			"top_soft_skills": ["Mentoring"],
			"keywords_by_section": {"experience": ["Kubernetes"], "skills": ["Go"]}
		},
		"analytics": {
			"action_verbs": {"count": 20, "unique_count": 11, "usage_frequency": [{"verb": "Led", "count": 4}]},
			"readability": {"grade_level": "Graduate", "score_explanation": "Technical"},
			"resume_length": {"pages": 2, "words": 900, "sentiment": "Too Long"}
		},
		"career_timeline": [
			{"company": "Acme", "role": "Engineer", "start_date": "2019-01", "end_date": null, "duration_months": 60, "achievements": ["Shipped billing"]},
			{"company": null, "role": null}
		],
		"improvement_suggestions": [{"section": "Summary", "suggestion": "Shorten it", "severity": "Medium"}],
		"before_and_after_examples": [{"section": "Experience", "original": "Did stuff", "improved": "Cut latency 40%", "reason": "Quantified"}],
		"confidence": "extra keys are ignored"
	}`
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(doc), &m))
	return m
}

func TestValidate_MinimalMapping(t *testing.T) {
	raw := minimalMapping()

	result, err := Validate(raw)
	require.NoError(t, err)

	assert.Equal(t, "Experienced backend engineer", result.Headline)
	assert.Equal(t, 7.5, result.Scores.Overall)
	assert.Equal(t, 80, result.Scores.ATSFriendliness)
	assert.Equal(t, SentimentIdeal, result.Analytics.ResumeLength.Sentiment)

	assert.NotNil(t, result.CareerTimeline)
	assert.Empty(t, result.CareerTimeline)
	assert.NotNil(t, result.ImprovementSuggestions)
	assert.Empty(t, result.ImprovementSuggestions)
	assert.NotNil(t, result.BeforeAndAfterExamples)
	assert.NotNil(t, result.Keywords.TopTechnicalSkills)
	assert.NotNil(t, result.Keywords.KeywordsBySection)
	assert.NotNil(t, result.Analytics.ActionVerbs.UsageFrequency)

	assert.Equal(t, map[string]any{"raw_parsed": raw}, result.RawLLM)
}

func TestValidate_EmptyListsSerializeAsArrays(t *testing.T) {
	result, err := Validate(minimalMapping())
	require.NoError(t, err)

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, []any{}, m["career_timeline"])
	assert.Equal(t, []any{}, m["improvement_suggestions"])
	assert.Equal(t, []any{}, m["before_and_after_examples"])
}

func TestValidate_FullMapping(t *testing.T) {
	result, err := Validate(fullMapping(t))
	require.NoError(t, err)

	require.Len(t, result.CareerTimeline, 2)
	first := result.CareerTimeline[0]
	require.NotNil(t, first.Company)
	assert.Equal(t, "Acme", *first.Company)
	assert.Nil(t, first.EndDate)
	require.NotNil(t, first.DurationMonths)
	assert.Equal(t, 60.0, *first.DurationMonths)
	assert.Equal(t, []string{}, result.CareerTimeline[1].Achievements)

	assert.Equal(t, []VerbUsage{{Verb: "Led", Count: 4}}, result.Analytics.ActionVerbs.UsageFrequency)
	assert.Equal(t, SeverityMedium, result.ImprovementSuggestions[0].Severity)
	assert.Equal(t, SentimentTooLong, result.Analytics.ResumeLength.Sentiment)
}

func TestValidate_RoundTripExcludingRawLLM(t *testing.T) {
	result, err := Validate(fullMapping(t))
	require.NoError(t, err)
	result.RawLLM = nil

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded ResumeAnalysis
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *result, decoded)
}

func TestValidate_ScoresPassThroughUnclamped(t *testing.T) {
	raw := minimalMapping()
	raw["scores"].(map[string]any)["overall"] = 42.0
	raw["scores"].(map[string]any)["ats_friendliness"] = 250.0
	raw["analytics"].(map[string]any)["action_verbs"] = map[string]any{"count": 2.0, "unique_count": 9.0}

	result, err := Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, 42.0, result.Scores.Overall)
	assert.Equal(t, 250, result.Scores.ATSFriendliness)
	assert.Equal(t, 9, result.Analytics.ActionVerbs.UniqueCount)
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m map[string]any)
	}{
		{
			name:   "missing scores",
			mutate: func(m map[string]any) { delete(m, "scores") },
		},
		{
			name:   "missing headline",
			mutate: func(m map[string]any) { delete(m, "headline") },
		},
		{
			name: "missing score field",
			mutate: func(m map[string]any) {
				delete(m["scores"].(map[string]any), "layout_and_formatting")
			},
		},
		{
			name: "unknown sentiment",
			mutate: func(m map[string]any) {
				m["analytics"].(map[string]any)["resume_length"].(map[string]any)["sentiment"] = "Perfect"
			},
		},
		{
			name: "unknown severity",
			mutate: func(m map[string]any) {
				m["improvement_suggestions"] = []any{
					map[string]any{"section": "a", "suggestion": "b", "severity": "Critical"},
				}
			},
		},
		{
			name: "fractional integer score",
			mutate: func(m map[string]any) {
				m["scores"].(map[string]any)["ats_friendliness"] = 80.5
			},
		},
		{
			name:   "scores wrong shape",
			mutate: func(m map[string]any) { m["scores"] = "high" },
		},
		{
			name:   "timeline not a list",
			mutate: func(m map[string]any) { m["career_timeline"] = map[string]any{} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := minimalMapping()
			tt.mutate(raw)

			result, err := Validate(raw)
			assert.Nil(t, result)

			var schemaErr *SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.NotEmpty(t, schemaErr.Errors)
			assert.Contains(t, err.Error(), "analysis schema validation failed")
		})
	}
}

func TestValidate_NilMapping(t *testing.T) {
	_, err := Validate(nil)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
}

func TestValidate_RejectsValuesOutsideEnum(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(m map[string]any)
		wantField string
	}{
		{
			name: "sentiment",
			mutate: func(m map[string]any) {
				m["analytics"].(map[string]any)["resume_length"].(map[string]any)["sentiment"] = "Short"
			},
			wantField: "analytics.resume_length.sentiment",
		},
		{
			name: "empty sentiment",
			mutate: func(m map[string]any) {
				m["analytics"].(map[string]any)["resume_length"].(map[string]any)["sentiment"] = ""
			},
			wantField: "analytics.resume_length.sentiment",
		},
		{
			name: "severity in second suggestion",
			mutate: func(m map[string]any) {
				m["improvement_suggestions"] = []any{
					map[string]any{"section": "a", "suggestion": "b", "severity": "Low"},
					map[string]any{"section": "c", "suggestion": "d", "severity": "Critical"},
				}
			},
			wantField: "improvement_suggestions[1].severity",
		},
		{
			name: "lowercase severity",
			mutate: func(m map[string]any) {
				m["improvement_suggestions"] = []any{
					map[string]any{"section": "a", "suggestion": "b", "severity": "high"},
				}
			},
			wantField: "improvement_suggestions[0].severity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := minimalMapping()
			tt.mutate(raw)

			result, err := Validate(raw)
			assert.Nil(t, result)

			var schemaErr *SchemaError
			require.ErrorAs(t, err, &schemaErr)
			require.Len(t, schemaErr.Errors, 1)
			assert.Equal(t, tt.wantField, schemaErr.Errors[0].Field)
			assert.Contains(t, schemaErr.Errors[0].Message, "oneof")

			var verrs validator.ValidationErrors
			assert.ErrorAs(t, err, &verrs, "enum violations come from the struct check")
		})
	}
}

func TestValidate_AcceptsEveryEnumValue(t *testing.T) {
	for _, sentiment := range []Sentiment{SentimentTooShort, SentimentIdeal, SentimentTooLong} {
		for _, severity := range []Severity{SeverityHigh, SeverityMedium, SeverityLow} {
			raw := minimalMapping()
			raw["analytics"].(map[string]any)["resume_length"].(map[string]any)["sentiment"] = string(sentiment)
			raw["improvement_suggestions"] = []any{
				map[string]any{"section": "a", "suggestion": "b", "severity": string(severity)},
			}

			result, err := Validate(raw)
			require.NoError(t, err, "%s/%s", sentiment, severity)
			assert.Equal(t, sentiment, result.Analytics.ResumeLength.Sentiment)
			assert.Equal(t, severity, result.ImprovementSuggestions[0].Severity)
		}
	}
}
