package extractor

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

func extractPlaintext(path string, maxBytes int64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open source file: %w", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, maxBytes))
	if err != nil {
		return "", fmt.Errorf("read source file: %w", err)
	}

	if !utf8.Valid(raw) {
		return "", nil
	}
	return strings.TrimSpace(string(raw)), nil
}
