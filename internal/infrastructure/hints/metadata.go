package hints

import (
	"regexp"
	"sort"

	"github.com/kirillkom/file-organizer/internal/core/domain"
)

const (
	maxYears      = 3
	maxAmounts    = 5
	amountScanLen = 2000
)

var (
	amountPattern = regexp.MustCompile(`\$[\d,]+(?:\.\d{2})?`)

	// Ordered: matches are concatenated in discovery order per pattern.
	formPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Form\s+(\d+\w*)`),
		regexp.MustCompile(`(?i)\b(W-?\d+)\b`),
		regexp.MustCompile(`(?i)\b(1099[-\w]*)\b`),
	}
)

// ExtractMetadata derives years, dollar amounts and form-type tokens from
// extracted text.
func ExtractMetadata(text string) domain.Metadata {
	var meta domain.Metadata

	seen := map[string]struct{}{}
	var years []string
	for _, y := range yearPattern.FindAllString(text, -1) {
		if _, dup := seen[y]; dup {
			continue
		}
		seen[y] = struct{}{}
		years = append(years, y)
	}
	if len(years) > maxYears {
		years = years[len(years)-maxYears:]
	}
	meta.Years = years

	head := text
	if len(head) > amountScanLen {
		head = head[:amountScanLen]
	}
	amounts := amountPattern.FindAllString(head, -1)
	if len(amounts) > maxAmounts {
		amounts = amounts[:maxAmounts]
	}
	meta.Amounts = amounts

	for _, pattern := range formPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			meta.FormTypes = append(meta.FormTypes, match[1])
		}
	}

	return meta
}

// MergeYears folds path-derived years into the content years and returns the
// union sorted ascending, so MostRecentYear still points at the newest year
// when an older year only appears in the path.
func MergeYears(meta domain.Metadata, pathYears []string) domain.Metadata {
	seen := map[string]struct{}{}
	for _, y := range meta.Years {
		seen[y] = struct{}{}
	}
	for _, y := range pathYears {
		if _, dup := seen[y]; !dup {
			seen[y] = struct{}{}
			meta.Years = append(meta.Years, y)
		}
	}
	sort.Strings(meta.Years)
	return meta
}
