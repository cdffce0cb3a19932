package naming

import (
	"testing"

	"github.com/kirillkom/file-organizer/internal/core/domain"
)

func taxWorkspace() domain.Workspace {
	return domain.Workspace{
		ID: "KB.Finance.Taxes",
		Naming: domain.NamingTemplate{
			Prefix:     "TAX",
			Components: []string{"year", "doc_type"},
			Format:     "{prefix}-{year}-{doc_type}",
		},
	}
}

func TestGenerateYearAndDocType(t *testing.T) {
	meta := domain.Metadata{Years: []string{"2023", "2024"}}

	got := Generate(taxWorkspace(), meta, "federal return draft")
	if got != "TAX-2024-federal" {
		t.Fatalf("Generate() = %q, want TAX-2024-federal", got)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	meta := domain.Metadata{Years: []string{"2021"}}
	first := Generate(taxWorkspace(), meta, "state return")
	for i := 0; i < 5; i++ {
		if got := Generate(taxWorkspace(), meta, "state return"); got != first {
			t.Fatalf("run %d produced %q, want %q", i, got, first)
		}
	}
}

func TestGenerateMissingYearFallsBackToUnknown(t *testing.T) {
	got := Generate(taxWorkspace(), domain.Metadata{}, "federal return")
	if got != "TAX-Unknown-federal" {
		t.Fatalf("Generate() = %q", got)
	}
}

func TestGenerateConsumesWordsInOrder(t *testing.T) {
	ws := domain.Workspace{
		Naming: domain.NamingTemplate{
			Prefix:     "BANK",
			Components: []string{"institution", "account", "year"},
			Format:     "{prefix}-{institution}-{account}-{year}",
		},
	}
	meta := domain.Metadata{Years: []string{"2022"}}

	got := Generate(ws, meta, "chase checking statement")
	if got != "BANK-chase-checking-2022" {
		t.Fatalf("Generate() = %q", got)
	}
}

func TestGenerateExhaustedPoolReusesFirstWord(t *testing.T) {
	ws := domain.Workspace{
		Naming: domain.NamingTemplate{
			Prefix:     "DOC",
			Components: []string{"doc_type", "topic", "matter"},
			Format:     "{prefix}-{doc_type}-{topic}-{matter}",
		},
	}

	got := Generate(ws, domain.Metadata{}, "lease renewal")
	if got != "DOC-lease-renewal-lease" {
		t.Fatalf("Generate() = %q", got)
	}
}

func TestGenerateNoSuggestedWords(t *testing.T) {
	got := Generate(taxWorkspace(), domain.Metadata{Years: []string{"2024"}}, "")
	if got != "TAX-2024-Unknown" {
		t.Fatalf("Generate() = %q", got)
	}
}

func TestGenerateUnrecognizedComponentIsUnknown(t *testing.T) {
	ws := domain.Workspace{
		Naming: domain.NamingTemplate{
			Prefix:     "DOC",
			Components: []string{"moon_phase"},
			Format:     "{prefix}-{moon_phase}",
		},
	}
	if got := Generate(ws, domain.Metadata{}, "anything"); got != "DOC-Unknown" {
		t.Fatalf("Generate() = %q", got)
	}
}

func TestGenerateUnresolvedTokenFallsBack(t *testing.T) {
	ws := domain.Workspace{
		Naming: domain.NamingTemplate{
			Prefix:     "TAX",
			Components: []string{"year"},
			// References a token absent from components; validation would
			// normally reject this, the generator still degrades safely.
			Format: "{prefix}-{year}-{doc_type}",
		},
	}

	got := Generate(ws, domain.Metadata{Years: []string{"2024"}}, "federal return draft")
	if got != "TAX-federal_return_draft" {
		t.Fatalf("Generate() = %q", got)
	}
}

func TestSanitizeReplacesAndCollapses(t *testing.T) {
	got := Sanitize("TAX-2024 //  federal??return")
	if got != "TAX-2024_federal_return" {
		t.Fatalf("Sanitize() = %q", got)
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	once := Sanitize("a  b--c__d$$e")
	twice := Sanitize(once)
	if once != twice {
		t.Fatalf("sanitize not idempotent: %q vs %q", once, twice)
	}
}
