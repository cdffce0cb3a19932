package hints

import "github.com/kirillkom/file-organizer/internal/core/domain"

// Extractor bundles the hint functions behind a single injectable value.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (Extractor) PathHints(originalPath, originalFilename string) domain.PathHints {
	return ExtractPathHints(originalPath, originalFilename)
}

func (Extractor) Metadata(text string) domain.Metadata {
	return ExtractMetadata(text)
}

func (Extractor) MergeYears(meta domain.Metadata, pathYears []string) domain.Metadata {
	return MergeYears(meta, pathYears)
}
