// Package heuristics implements the ordered keyword rule table that produces
// a candidate workspace before the language model is consulted.
package heuristics

import (
	"strings"

	"github.com/kirillkom/file-organizer/internal/core/domain"
)

// Rule maps a set of trigger terms to a target workspace. PathConfirm lists
// path keywords that raise the boost by one when present.
type Rule struct {
	Triggers    []string
	WorkspaceID string
	Reason      string
	BaseBoost   int
	PathConfirm []string
}

// Matcher evaluates rules in declared order; the first match wins. Rule order
// is part of the classification contract: more specific categories are listed
// before general ones that share trigger terms.
type Matcher struct {
	rules []Rule
}

func NewMatcher() *Matcher {
	return &Matcher{rules: defaultRules}
}

func NewMatcherWithRules(rules []Rule) *Matcher {
	return &Matcher{rules: rules}
}

// Match tests every rule against the lowercased concatenation of text,
// filename and path context. Returns nil when no rule matches.
func (m *Matcher) Match(text, filename string, pathHints domain.PathHints) *domain.HeuristicCandidate {
	combined := strings.ToLower(text) + " " + strings.ToLower(filename)
	if pathHints.Context != "" {
		combined += " " + pathHints.Context
	}

	for _, rule := range m.rules {
		if !containsAny(combined, rule.Triggers) {
			continue
		}
		candidate := &domain.HeuristicCandidate{
			WorkspaceID:     rule.WorkspaceID,
			ConfidenceBoost: rule.BaseBoost,
			Reason:          rule.Reason,
		}
		if len(rule.PathConfirm) > 0 && pathHints.HasKeyword(rule.PathConfirm...) {
			candidate.ConfidenceBoost++
			candidate.Reason += " (path confirms)"
		}
		return candidate
	}
	return nil
}

func containsAny(haystack string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}

var defaultRules = []Rule{
	{
		Triggers:    []string{"1040", "w-2", "w2", "1099", "w-9", "w9", "tax return", "irs", "federal", "state tax"},
		WorkspaceID: "KB.Finance.Taxes",
		Reason:      "Tax form detected",
		BaseBoost:   2,
		PathConfirm: []string{"tax", "taxes", "irs", "federal", "state", "return"},
	},
	{
		Triggers:    []string{"deed", "closing disclosure", "hud-1", "hud1", "mortgage", "property tax", "escrow"},
		WorkspaceID: "KB.Assets.RealEstate",
		Reason:      "Real estate document detected",
		BaseBoost:   2,
		PathConfirm: []string{"real", "estate", "property", "house", "home", "mortgage", "deed"},
	},
	{
		Triggers:    []string{"policy", "insurance", "life insurance", "term life", "disability", "coverage"},
		WorkspaceID: "KB.Finance.Insurance",
		Reason:      "Insurance document detected",
		BaseBoost:   1,
		PathConfirm: []string{"insurance", "policy", "coverage", "life", "health"},
	},
	{
		Triggers:    []string{"birth certificate", "passport", "ssn", "social security", "driver", "license", "drivers license"},
		WorkspaceID: "KB.Personal.Identity",
		Reason:      "Identity document detected",
		BaseBoost:   2,
		PathConfirm: []string{"identity", "id", "personal", "passport", "license", "ssn"},
	},
	{
		Triggers:    []string{"will", "trust", "power of attorney", "poa", "estate plan", "living will", "testament"},
		WorkspaceID: "KB.Personal.Estate",
		Reason:      "Estate planning document detected",
		BaseBoost:   2,
		PathConfirm: []string{"estate", "will", "trust", "legal", "attorney"},
	},
	{
		Triggers:    []string{"employment agreement", "offer letter", "employment contract", "rsu", "espp", "w-2", "w2"},
		WorkspaceID: "KB.Work.Employment",
		Reason:      "Employment document detected",
		BaseBoost:   1,
		PathConfirm: []string{"work", "employment", "job", "career", "company", "employer"},
	},
	{
		Triggers:    []string{"bank statement", "checking", "savings", "account statement", "routing"},
		WorkspaceID: "KB.Finance.Banking",
		Reason:      "Banking document detected",
		BaseBoost:   1,
		PathConfirm: []string{"bank", "banking", "checking", "savings", "account", "chase", "wells", "bofa"},
	},
	{
		Triggers:    []string{"brokerage", "401k", "ira", "investment", "portfolio", "k-1", "k1", "fidelity", "vanguard"},
		WorkspaceID: "KB.Finance.Investments",
		Reason:      "Investment document detected",
		BaseBoost:   1,
		PathConfirm: []string{"investment", "brokerage", "portfolio", "stocks", "retirement", "401k", "ira"},
	},
	{
		Triggers:    []string{"medical", "health", "vaccination", "doctor", "hospital", "prescription", "eob"},
		WorkspaceID: "KB.Personal.Health",
		Reason:      "Health document detected",
		BaseBoost:   1,
		PathConfirm: []string{"health", "medical", "doctor", "hospital", "healthcare"},
	},
	{
		Triggers:    []string{"vehicle", "auto", "car", "registration", "title", "dmv"},
		WorkspaceID: "KB.Assets.Vehicles",
		Reason:      "Vehicle document detected",
		BaseBoost:   1,
		PathConfirm: []string{"vehicle", "auto", "car", "dmv", "registration", "title"},
	},
}
