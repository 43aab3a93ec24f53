// Package ingestion stores uploaded resume files on disk for the duration of
// one analysis request.
package ingestion

import (
	"encoding/json"
	"fmt"
	"time"
)

// Metadata describes one stored upload
type Metadata struct {
	Filename  string `json:"filename"`
	Extension string `json:"extension,omitempty"`
	Size      int64  `json:"size"`
	Timestamp string `json:"timestamp"` // RFC3339 format
	Hash      string `json:"hash"`      // SHA256 hex digest of the content
}

func newMetadata(filename, ext string, size int64, hash string) Metadata {
	return Metadata{
		Filename:  filename,
		Extension: ext,
		Size:      size,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      hash,
	}
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
