package ollama

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/kirillkom/file-organizer/internal/core/domain"
	"github.com/kirillkom/file-organizer/internal/core/ports"
)

const (
	unknownWorkspacePenalty = 2
	fallbackConfidence      = 3
	miscConfidence          = 1
)

// Classifier turns extracted content into a taxonomy assignment using the
// completion backend, reconciled with the heuristic candidate. Classify
// never fails: on any backend or parsing problem it falls through the
// heuristic candidate to the reserved Misc workspace.
type Classifier struct {
	backend  ports.CompletionBackend
	registry ports.TaxonomyRegistry
}

func NewClassifier(backend ports.CompletionBackend, registry ports.TaxonomyRegistry) *Classifier {
	return &Classifier{backend: backend, registry: registry}
}

type modelReply struct {
	Workspace     string  `json:"workspace"`
	Subpath       string  `json:"subpath"`
	Description   string  `json:"description"`
	Confidence    float64 `json:"confidence"`
	SuggestedName string  `json:"suggested_name"`
}

func (c *Classifier) Classify(
	ctx context.Context,
	text, filename string,
	meta domain.Metadata,
	pathHints domain.PathHints,
	candidate *domain.HeuristicCandidate,
) domain.ClassificationResult {
	prompt := buildClassificationPrompt(c.registry.All(), filename, meta, pathHints, candidate, text)

	raw, err := c.backend.Complete(ctx, prompt)
	if err != nil {
		slog.Warn("llm_classification_failed", "filename", filename, "error", err)
		return c.fallback(candidate, "Classification failed")
	}

	var reply modelReply
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &reply); err != nil || reply.Workspace == "" {
		slog.Warn("llm_response_unparseable", "filename", filename, "error", err)
		return c.fallback(candidate, "Classification uncertain")
	}

	confidence := reply.Confidence
	workspaceID := reply.Workspace
	if _, resolveErr := c.registry.Resolve(workspaceID); resolveErr != nil {
		workspaceID = c.registry.MiscWorkspace().ID
		confidence -= unknownWorkspacePenalty
		if confidence < 0 {
			confidence = 0
		}
	}

	// Boost applies only when the model agrees with the heuristic candidate.
	if candidate != nil && workspaceID == candidate.WorkspaceID {
		confidence += float64(candidate.ConfidenceBoost)
		if confidence > 5 {
			confidence = 5
		}
	}

	return domain.ClassificationResult{
		WorkspaceID:   workspaceID,
		Subpath:       reply.Subpath,
		Confidence:    domain.ClampConfidence(int(confidence)),
		Description:   reply.Description,
		SuggestedName: reply.SuggestedName,
	}
}

func (c *Classifier) fallback(candidate *domain.HeuristicCandidate, miscDescription string) domain.ClassificationResult {
	if candidate != nil {
		if _, err := c.registry.Resolve(candidate.WorkspaceID); err == nil {
			return domain.ClassificationResult{
				WorkspaceID: candidate.WorkspaceID,
				Confidence:  fallbackConfidence,
				Description: candidate.Reason,
			}
		}
	}
	return domain.ClassificationResult{
		WorkspaceID: c.registry.MiscWorkspace().ID,
		Confidence:  miscConfidence,
		Description: miscDescription,
	}
}

// extractJSONObject returns the first JSON-object-shaped substring of a
// model reply: everything from the first opening brace through the last
// closing one.
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
