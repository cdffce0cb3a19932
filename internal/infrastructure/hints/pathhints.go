// Package hints derives classification hints from file locations and
// extracted text. Everything here is a pure function of its string inputs;
// the file itself is never touched.
package hints

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/kirillkom/file-organizer/internal/core/domain"
)

var (
	yearPattern        = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	punctuationPattern = regexp.MustCompile(`[^\w\s]`)
)

// ExtractPathHints derives keyword and year hints from a file's original
// directory path and filename.
func ExtractPathHints(originalPath, originalFilename string) domain.PathHints {
	hints := domain.PathHints{Keywords: map[string]struct{}{}}
	if originalPath == "" {
		return hints
	}

	dir := filepath.ToSlash(filepath.Dir(originalPath))
	var parts []string
	for _, part := range strings.Split(dir, "/") {
		if part != "" && part != "." {
			parts = append(parts, part)
		}
	}

	years := map[string]struct{}{}
	for _, part := range parts {
		addKeywords(hints.Keywords, part)
		for _, y := range yearPattern.FindAllString(part, -1) {
			if _, seen := years[y]; !seen {
				years[y] = struct{}{}
				hints.Years = append(hints.Years, y)
			}
		}
	}

	stem := strings.TrimSuffix(originalFilename, filepath.Ext(originalFilename))
	addKeywords(hints.Keywords, stem)
	for _, y := range yearPattern.FindAllString(stem, -1) {
		if _, seen := years[y]; !seen {
			years[y] = struct{}{}
			hints.Years = append(hints.Years, y)
		}
	}

	hints.Context = strings.ToLower(strings.Join(append(parts, stem), " "))
	return hints
}

func addKeywords(into map[string]struct{}, component string) {
	clean := strings.ToLower(punctuationPattern.ReplaceAllString(component, " "))
	for _, word := range strings.Fields(clean) {
		into[word] = struct{}{}
	}
}
