package extraction

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// ExtractPlainText reads a text file as UTF-8, dropping invalid byte sequences.
func ExtractPlainText(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read text file: %w", err)
	}
	return strings.ToValidUTF8(string(data), ""), nil
}
