// Package server provides the HTTP API for resume analysis.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/jonathan/resume-analyzer/internal/pipeline"
)

// ErrFileTooLarge indicates an upload over the size limit
type ErrFileTooLarge struct {
	Limit int64
}

func (e *ErrFileTooLarge) Error() string {
	return "File too large"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		tooLarge   *ErrFileTooLarge
		validation *ErrValidation
		noText     *pipeline.NoTextError
		upstream   *llm.UpstreamError
		malformed  *pipeline.MalformedOutputError
	)
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &validation), errors.As(err, &noText):
		return http.StatusBadRequest
	case errors.As(err, &upstream):
		return http.StatusBadGateway
	case errors.As(err, &malformed):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// errorDetail renders err for the response body. Errors with no known type
// get fallbackPrefix in front of their message.
func errorDetail(err error, fallbackPrefix string) string {
	var (
		tooLarge   *ErrFileTooLarge
		validation *ErrValidation
		noText     *pipeline.NoTextError
		upstream   *llm.UpstreamError
		malformed  *pipeline.MalformedOutputError
	)
	switch {
	case errors.As(err, &tooLarge):
		return tooLarge.Error()
	case errors.As(err, &validation):
		return validation.Message
	case errors.As(err, &noText):
		return noText.Message
	case errors.As(err, &upstream):
		return upstream.Error()
	case errors.As(err, &malformed):
		return malformed.Error()
	default:
		return fallbackPrefix + err.Error()
	}
}
