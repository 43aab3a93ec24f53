package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-analyzer/internal/schemas"
	rootschemas "github.com/jonathan/resume-analyzer/schemas"
)

// SchemaError reports why an LLM mapping does not satisfy the analysis shape.
type SchemaError struct {
	Errors []schemas.FieldError
	Cause  error
}

func (e *SchemaError) Error() string {
	if len(e.Errors) == 0 {
		if e.Cause != nil {
			return fmt.Sprintf("analysis schema validation failed: %v", e.Cause)
		}
		return "analysis schema validation failed"
	}
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "analysis schema validation failed: " + strings.Join(parts, "; ")
}

func (e *SchemaError) Unwrap() error {
	return e.Cause
}

var (
	schemaOnce      sync.Once
	schemaValidator *schemas.Validator
	schemaErr       error

	structValidator = newStructValidator()
)

func newStructValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func loadSchema() (*schemas.Validator, error) {
	schemaOnce.Do(func() {
		schemaValidator, schemaErr = schemas.NewValidator(rootschemas.ResumeAnalysisFile, rootschemas.ResumeAnalysis())
	})
	return schemaValidator, schemaErr
}

// Validate checks raw against the resume analysis schema and converts it to a
// ResumeAnalysis. Unknown keys are dropped, absent optional lists become empty,
// and raw is kept under RawLLM["raw_parsed"]. Values are never corrected.
func Validate(raw map[string]any) (*ResumeAnalysis, error) {
	if raw == nil {
		return nil, &SchemaError{Errors: []schemas.FieldError{{Field: "(root)", Message: "no mapping to validate"}}}
	}

	sv, err := loadSchema()
	if err != nil {
		return nil, err
	}
	if err := sv.Validate(raw); err != nil {
		var ve *schemas.ValidationError
		if errors.As(err, &ve) {
			return nil, &SchemaError{Errors: ve.Errors, Cause: err}
		}
		return nil, &SchemaError{Cause: err}
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, &SchemaError{Cause: fmt.Errorf("failed to re-encode mapping: %w", err)}
	}
	var result ResumeAnalysis
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, &SchemaError{Errors: decodeErrors(err), Cause: err}
	}

	if err := structValidator.Struct(&result); err != nil {
		return nil, &SchemaError{Errors: structErrors(err), Cause: err}
	}

	result.fillDefaults()
	result.RawLLM = map[string]any{"raw_parsed": raw}
	return &result, nil
}

func (r *ResumeAnalysis) fillDefaults() {
	if r.Keywords.TopTechnicalSkills == nil {
		r.Keywords.TopTechnicalSkills = []string{}
	}
	if r.Keywords.TopSoftSkills == nil {
		r.Keywords.TopSoftSkills = []string{}
	}
	if r.Keywords.KeywordsBySection == nil {
		r.Keywords.KeywordsBySection = map[string][]string{}
	}
	for section, words := range r.Keywords.KeywordsBySection {
		if words == nil {
			r.Keywords.KeywordsBySection[section] = []string{}
		}
	}
	if r.Analytics.ActionVerbs.UsageFrequency == nil {
		r.Analytics.ActionVerbs.UsageFrequency = []VerbUsage{}
	}
	if r.CareerTimeline == nil {
		r.CareerTimeline = []CareerEvent{}
	}
	for i := range r.CareerTimeline {
		if r.CareerTimeline[i].Achievements == nil {
			r.CareerTimeline[i].Achievements = []string{}
		}
	}
	if r.ImprovementSuggestions == nil {
		r.ImprovementSuggestions = []ImprovementSuggestion{}
	}
	if r.BeforeAndAfterExamples == nil {
		r.BeforeAndAfterExamples = []BeforeAfterExample{}
	}
}

func decodeErrors(err error) []schemas.FieldError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []schemas.FieldError{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("cannot use %s as %s", typeErr.Value, typeErr.Type),
		}}
	}
	return []schemas.FieldError{{Field: "(root)", Message: err.Error()}}
}

func structErrors(err error) []schemas.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []schemas.FieldError{{Field: "(root)", Message: err.Error()}}
	}
	out := make([]schemas.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		out = append(out, schemas.FieldError{
			Field:   field,
			Message: fmt.Sprintf("value %v fails %s=%s", fe.Value(), fe.Tag(), fe.Param()),
		})
	}
	return out
}
