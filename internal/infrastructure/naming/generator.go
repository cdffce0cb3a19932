// Package naming resolves per-workspace naming templates into concrete,
// sanitized destination filenames.
package naming

import (
	"regexp"
	"strings"

	"github.com/kirillkom/file-organizer/internal/core/domain"
)

const unknownValue = "Unknown"

var (
	tokenPattern       = regexp.MustCompile(`\{(\w+)\}`)
	stripPunctPattern  = regexp.MustCompile(`[^\w\s]`)
	illegalCharPattern = regexp.MustCompile(`[^\w\-]`)
	underscoreRuns     = regexp.MustCompile(`_+`)
	hyphenRuns         = regexp.MustCompile(`-+`)
)

// Free-text component roles: document-type-like tokens and entity-like
// tokens both consume words from the suggested name pool, in declared order.
var freeTextComponents = map[string]struct{}{
	"doc_type": {}, "type": {}, "matter": {}, "topic": {},
	"jurisdiction": {}, "institution": {}, "provider": {}, "employer": {},
	"lender": {}, "service": {}, "account": {}, "property_nickname": {},
	"vehicle_name": {}, "entity_name": {}, "person": {}, "ticker_or_topic": {},
}

var dateComponents = map[string]struct{}{
	"year": {}, "date": {}, "period": {},
}

// Generate resolves a workspace naming template against extracted metadata
// and the model's suggested name. Deterministic: identical inputs always
// yield the identical filename.
func Generate(workspace domain.Workspace, meta domain.Metadata, suggestedName string) string {
	tmpl := workspace.Naming
	prefix := tmpl.Prefix
	if prefix == "" {
		prefix = "DOC"
	}
	format := tmpl.Format
	if format == "" {
		format = "{prefix}-{doc_type}"
	}

	words := suggestedWords(suggestedName)

	values := map[string]string{"prefix": prefix}
	year := unknownValue
	if y := meta.MostRecentYear(); y != "" {
		year = y
	}

	wordIndex := 0
	nextWord := func() string {
		if wordIndex < len(words) {
			w := words[wordIndex]
			wordIndex++
			return w
		}
		if len(words) > 0 {
			return words[0]
		}
		return unknownValue
	}

	for _, comp := range tmpl.Components {
		if _, resolved := values[comp]; resolved {
			continue
		}
		switch {
		case hasKey(dateComponents, comp):
			values[comp] = year
		case hasKey(freeTextComponents, comp):
			values[comp] = nextWord()
		default:
			values[comp] = unknownValue
		}
	}

	filename := tokenPattern.ReplaceAllStringFunc(format, func(token string) string {
		name := token[1 : len(token)-1]
		if v, ok := values[name]; ok {
			return v
		}
		return token
	})
	if tokenPattern.MatchString(filename) {
		// A referenced token was never resolved; fall back to the simple form.
		filename = prefix + "-" + fallbackName(words)
	}

	return Sanitize(filename)
}

// Sanitize replaces every character outside word characters and hyphens with
// an underscore and collapses repeated underscores and hyphens. Idempotent.
func Sanitize(filename string) string {
	out := illegalCharPattern.ReplaceAllString(filename, "_")
	out = underscoreRuns.ReplaceAllString(out, "_")
	out = hyphenRuns.ReplaceAllString(out, "-")
	return out
}

func suggestedWords(suggestedName string) []string {
	clean := stripPunctPattern.ReplaceAllString(suggestedName, "")
	fields := strings.Fields(clean)
	if len(fields) > 3 {
		fields = fields[:3]
	}
	return fields
}

func fallbackName(words []string) string {
	if len(words) == 0 {
		return "Document"
	}
	return strings.Join(words, "_")
}

func hasKey(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}
