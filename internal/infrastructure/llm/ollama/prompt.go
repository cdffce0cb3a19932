package ollama

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/file-organizer/internal/core/domain"
)

const maxPromptExcerpt = 4000

func buildClassificationPrompt(
	workspaces []domain.Workspace,
	filename string,
	meta domain.Metadata,
	pathHints domain.PathHints,
	candidate *domain.HeuristicCandidate,
	text string,
) string {
	// Cut on a rune boundary so the prompt never carries invalid UTF-8.
	snippet := text
	if len(snippet) > maxPromptExcerpt {
		cut := maxPromptExcerpt
		for cut > 0 && !utf8.RuneStart(snippet[cut]) {
			cut--
		}
		snippet = snippet[:cut]
	}

	var taxonomy strings.Builder
	for _, ws := range workspaces {
		fmt.Fprintf(&taxonomy, "- %s: %s\n", ws.ID, ws.Description)
	}

	var metaStr strings.Builder
	if len(meta.Years) > 0 {
		fmt.Fprintf(&metaStr, "\nYears mentioned: %s", strings.Join(meta.Years, ", "))
	}
	if len(meta.FormTypes) > 0 {
		forms := meta.FormTypes
		if len(forms) > 3 {
			forms = forms[:3]
		}
		fmt.Fprintf(&metaStr, "\nForms detected: %s", strings.Join(forms, ", "))
	}

	var pathStr strings.Builder
	if pathHints.Context != "" {
		fmt.Fprintf(&pathStr, "\nOriginal location: %s", pathHints.Context)
		if len(pathHints.Years) > 0 {
			fmt.Fprintf(&pathStr, "\nYears in path: %s", strings.Join(pathHints.Years, ", "))
		}
	}

	hintStr := ""
	if candidate != nil {
		hintStr = fmt.Sprintf("\n\nHeuristic hint: %s suggests %s", candidate.Reason, candidate.WorkspaceID)
	}

	return fmt.Sprintf(`You are a document classifier for personal financial and legal documents.

Your task: Classify this document into exactly ONE workspace from the taxonomy below.

TAXONOMY (choose one):
%s
DOCUMENT INFO:
Filename: %s%s
%s%s

DOCUMENT EXCERPT:
"""
%s
"""

Based on the document content, choose the MOST APPROPRIATE workspace.

Also provide:
1. A suggested subfolder path (if applicable, e.g., "Federal/2024" for taxes, or leave empty)
2. A brief 1-sentence description of what this document is
3. A confidence score from 0-5 (0=no confidence, 5=very high confidence)

Respond as JSON (ONLY JSON, no other text):
{
  "workspace": "KB.Domain.Scope",
  "subpath": "optional/subfolder/path",
  "description": "Brief description",
  "confidence": 4,
  "suggested_name": "brief descriptive name without prefix"
}`, taxonomy.String(), filename, pathStr.String(), metaStr.String(), hintStr, snippet)
}
