package domain

// PathHints are keyword and year hints derived from the file's original
// location. Derived, never persisted.
type PathHints struct {
	Keywords map[string]struct{}
	Years    []string
	Context  string
}

func (h PathHints) HasKeyword(words ...string) bool {
	for _, w := range words {
		if _, ok := h.Keywords[w]; ok {
			return true
		}
	}
	return false
}

// Metadata is derived from extracted text. Years are ordered most-recent-last
// and capped at three; Amounts at five.
type Metadata struct {
	Years     []string
	Amounts   []string
	FormTypes []string
}

// MostRecentYear returns the last extracted year, or "" if none were found.
func (m Metadata) MostRecentYear() string {
	if len(m.Years) == 0 {
		return ""
	}
	return m.Years[len(m.Years)-1]
}

// HeuristicCandidate is a keyword-rule-derived classification used to bias
// the model and as its first fallback.
type HeuristicCandidate struct {
	WorkspaceID     string
	ConfidenceBoost int
	Reason          string
}

// ClassificationResult is the fixed-shape outcome of classifying one file.
// WorkspaceID always resolves against the taxonomy (Misc counts as known)
// and Confidence is always within [0,5].
type ClassificationResult struct {
	WorkspaceID   string `json:"workspace"`
	Subpath       string `json:"subpath"`
	Filename      string `json:"filename"`
	Confidence    int    `json:"confidence"`
	Description   string `json:"description"`
	SuggestedName string `json:"suggested_name,omitempty"`
}

// ClampConfidence truncates into the closed interval [0,5].
func ClampConfidence(v int) int {
	if v < 0 {
		return 0
	}
	if v > 5 {
		return 5
	}
	return v
}
