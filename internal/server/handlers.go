package server

import (
	"errors"
	"mime"
	"net/http"

	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/logging"
	"github.com/jonathan/resume-analyzer/internal/pipeline"
)

const (
	uploadErrorPrefix = "An unexpected processing error occurred: "
	textErrorPrefix   = "Processing error: "
)

// HealthResponse represents the response for /health
type HealthResponse struct {
	Status string `json:"status"`
}

// InfoResponse represents the response for /
type InfoResponse struct {
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
}

// handleUploadResume analyzes an uploaded resume file
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)
	bodyLimit := s.maxUploadBytes + multipartOverhead

	if r.ContentLength > bodyLimit {
		s.errorResponse(w, r, &ErrFileTooLarge{Limit: s.maxUploadBytes}, uploadErrorPrefix)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.errorResponse(w, r, &ErrFileTooLarge{Limit: s.maxUploadBytes}, uploadErrorPrefix)
			return
		}
		s.errorResponse(w, r, &ErrValidation{Field: "file", Message: "Invalid multipart form: " + err.Error()}, uploadErrorPrefix)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logger.Warn("failed to remove multipart temp files", "error", err)
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, r, &ErrValidation{Field: "file", Message: "file is required"}, uploadErrorPrefix)
		return
	}
	defer file.Close()

	if header.Size > s.maxUploadBytes {
		s.errorResponse(w, r, &ErrFileTooLarge{Limit: s.maxUploadBytes}, uploadErrorPrefix)
		return
	}

	// job_title is accepted for forward compatibility and does not change the analysis.
	if jobTitle := r.FormValue("job_title"); jobTitle != "" {
		logger.Debug("job title supplied", "job_title", jobTitle)
	}

	upload, err := s.uploads.Save(header.Filename, file)
	if err != nil {
		if errors.Is(err, ingestion.ErrTooLarge) {
			err = &ErrFileTooLarge{Limit: s.maxUploadBytes}
		}
		s.errorResponse(w, r, err, uploadErrorPrefix)
		return
	}
	defer func() {
		if err := upload.Remove(); err != nil {
			logger.Warn("failed to remove temporary upload", "path", upload.Path, "error", err)
		}
	}()
	logger.Info("upload stored",
		"filename", upload.Metadata.Filename,
		"size", upload.Metadata.Size,
		"sha256", upload.Metadata.Hash,
	)

	result, err := s.analyzer.AnalyzeFile(ctx, upload.Path, header.Filename)
	if err != nil {
		s.errorResponse(w, r, err, uploadErrorPrefix)
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
	pipeline.LogResponded(ctx, header.Filename)
}

// handleAnalyzeText analyzes pasted resume text
func (s *Server) handleAnalyzeText(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+multipartOverhead)

	if err := parseForm(r); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.errorResponse(w, r, &ErrFileTooLarge{Limit: s.maxUploadBytes}, textErrorPrefix)
			return
		}
		s.errorResponse(w, r, &ErrValidation{Field: "resume_text", Message: "Invalid form body: " + err.Error()}, textErrorPrefix)
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	result, err := s.analyzer.AnalyzeText(ctx, r.FormValue("resume_text"))
	if err != nil {
		s.errorResponse(w, r, err, textErrorPrefix)
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
	pipeline.LogResponded(ctx, "text")
}

// parseForm parses urlencoded and multipart bodies alike.
func parseForm(r *http.Request) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return r.ParseMultipartForm(multipartMemory)
	}
	return r.ParseForm()
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, HealthResponse{Status: s.health.Status().Health()})
}

// handleRoot describes the service
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, InfoResponse{
		Name:    "resume-analyzer",
		Version: s.version,
		Endpoints: []string{
			"POST /upload-resume",
			"POST /analyze-text",
			"GET /health",
		},
	})
}
