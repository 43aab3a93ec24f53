// Package extraction turns uploaded resume files into plain text.
//
// Extraction never fails from the caller's point of view: every problem is
// logged and collapses to empty text, and the caller decides what an empty
// result means.
package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/logging"
)

// Method extracts text from the file at path.
type Method func(ctx context.Context, path string) (string, error)

// Methods holds the extraction method used for each document family.
type Methods struct {
	PDF   Method
	DOCX  Method
	Text  Method
	Image Method
	HTML  Method
}

// DefaultMethods returns the library-backed methods. OCR shells out to the
// tesseract binary found on PATH.
func DefaultMethods() Methods {
	return Methods{
		PDF:   ExtractPDF,
		DOCX:  ExtractDOCX,
		Text:  ExtractPlainText,
		Image: NewOCR("tesseract").Extract,
		HTML:  ExtractHTML,
	}
}

// Extractor dispatches on file extension. It is safe for concurrent use.
type Extractor struct {
	methods Methods
}

// New creates an Extractor with DefaultMethods.
func New() *Extractor {
	return NewWithMethods(DefaultMethods())
}

// NewWithMethods creates an Extractor with custom methods. Nil methods are
// treated as always failing.
func NewWithMethods(methods Methods) *Extractor {
	return &Extractor{methods: methods}
}

// Extract returns the text of the file at path. The extension is taken from
// originalFilename, or from path when originalFilename is empty. Unknown
// extensions and whitespace-only results from non-PDF methods fall back to
// PDF extraction once.
func (e *Extractor) Extract(ctx context.Context, path, originalFilename string) string {
	name := originalFilename
	if name == "" {
		name = path
	}
	ext := strings.ToLower(filepath.Ext(name))
	logger := logging.FromContext(ctx).With("path", path, "extension", ext)
	logger.Debug("extracting text from file")

	var text string
	switch ext {
	case ".pdf":
		text = e.run(ctx, logger, "pdf", e.methods.PDF, path)
	case ".docx", ".doc":
		text = e.run(ctx, logger, "docx", e.methods.DOCX, path)
	case ".txt":
		text = e.run(ctx, logger, "txt", e.methods.Text, path)
	case ".png", ".jpg", ".jpeg", ".tiff", ".tif":
		text = e.run(ctx, logger, "ocr", e.methods.Image, path)
	case ".html", ".htm":
		text = e.run(ctx, logger, "html", e.methods.HTML, path)
	}

	if strings.TrimSpace(text) == "" && ext != ".pdf" {
		logger.Debug("attempting fallback PDF extraction")
		text = e.run(ctx, logger, "pdf", e.methods.PDF, path)
	}

	if strings.TrimSpace(text) == "" {
		logger.Warn("all extraction methods failed")
	}

	return text
}

func (e *Extractor) run(ctx context.Context, logger *slog.Logger, name string, method Method, path string) (text string) {
	if method == nil {
		logger.Warn("extraction method not available", "method", name)
		return ""
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Warn("extraction method panicked", "method", name, "panic", fmt.Sprint(r))
			text = ""
		}
	}()

	text, err := method(ctx, path)
	if err != nil {
		logger.Warn("extraction method failed", "method", name, "error", err)
		return ""
	}
	logger.Debug("extraction method finished", "method", name, "chars", len(text))
	return text
}
