// Package extractor provides best-effort plain text extraction from source
// files. Extraction quality is out of scope: unsupported formats yield an
// empty string, not an error, so classification can still proceed on path
// and filename hints alone.
package extractor

import (
	"context"
	"path/filepath"
	"strings"
)

// Extractor dispatches on file extension.
type Extractor struct {
	maxBytes int64
}

const defaultMaxBytes = 1 << 20 // cap raw reads at 1 MiB

func New() *Extractor {
	return &Extractor{maxBytes: defaultMaxBytes}
}

func NewWithLimit(maxBytes int64) *Extractor {
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	return &Extractor{maxBytes: maxBytes}
}

func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".csv", ".log", ".json", ".yaml", ".yml", ".html", ".htm":
		return extractPlaintext(path, e.maxBytes)
	case ".pdf":
		return extractPDF(path)
	case ".xlsx", ".xlsm":
		return extractSpreadsheet(path)
	default:
		return "", nil
	}
}
