package extraction

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"os/exec"
	"strings"

	_ "golang.org/x/image/tiff"
)

// OCR recognizes text in images with the tesseract command line tool.
type OCR struct {
	command string
}

// NewOCR returns an OCR that runs command (normally "tesseract").
func NewOCR(command string) *OCR {
	return &OCR{command: command}
}

// Extract decodes the image at path, re-encodes it as PNG and pipes it
// through the OCR command.
func (o *OCR) Extract(ctx context.Context, path string) (string, error) {
	bin, err := exec.LookPath(o.command)
	if err != nil {
		return "", fmt.Errorf("OCR requires %q on PATH: %w", o.command, err)
	}

	pngData, err := imageFileToPNG(path)
	if err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, bin, "stdin", "stdout")
	cmd.Stdin = bytes.NewReader(pngData)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s failed: %w: %s", o.command, err, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}

func imageFileToPNG(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image as png: %w", err)
	}
	return buf.Bytes(), nil
}
