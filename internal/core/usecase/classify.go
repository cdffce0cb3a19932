package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/kirillkom/file-organizer/internal/core/domain"
	"github.com/kirillkom/file-organizer/internal/core/ports"
)

// storedExcerptLimit caps the extracted text kept on the item record. The
// full text only feeds classification; review needs a preview.
const storedExcerptLimit = 1000

type ClassifyFileUseCase struct {
	repo       ports.ItemRepository
	extractor  ports.TextExtractor
	hasher     ports.ContentHasher
	hints      ports.HintExtractor
	matcher    ports.HeuristicMatcher
	classifier ports.Classifier
	namer      ports.FilenameGenerator
	registry   ports.TaxonomyRegistry
}

func NewClassifyFileUseCase(
	repo ports.ItemRepository,
	extractor ports.TextExtractor,
	hasher ports.ContentHasher,
	hints ports.HintExtractor,
	matcher ports.HeuristicMatcher,
	classifier ports.Classifier,
	namer ports.FilenameGenerator,
	registry ports.TaxonomyRegistry,
) *ClassifyFileUseCase {
	return &ClassifyFileUseCase{
		repo:       repo,
		extractor:  extractor,
		hasher:     hasher,
		hints:      hints,
		matcher:    matcher,
		classifier: classifier,
		namer:      namer,
		registry:   registry,
	}
}

// ClassifyFile runs the full per-file pipeline and persists a pending item.
// Extraction failures degrade to filename-only classification instead of
// failing the file.
func (uc *ClassifyFileUseCase) ClassifyFile(ctx context.Context, req ports.ClassifyFileRequest) (*domain.DocumentItem, error) {
	info, err := os.Stat(req.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("stat source file: %w", err)
	}
	filename := filepath.Base(req.SourcePath)
	extension := strings.ToLower(filepath.Ext(filename))

	hash, err := uc.hasher.Hash(req.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("hash source file: %w", err)
	}

	text, err := uc.extractor.Extract(ctx, req.SourcePath)
	if err != nil {
		text = ""
	}

	pathHints := uc.hints.PathHints(req.SourcePath, filename)
	meta := uc.hints.Metadata(text)
	meta = uc.hints.MergeYears(meta, pathHints.Years)

	candidate := uc.matcher.Match(text, filename, pathHints)
	result := uc.classifier.Classify(ctx, text, filename, meta, pathHints, candidate)

	workspace, err := uc.registry.Resolve(result.WorkspaceID)
	if err != nil {
		workspace = uc.registry.MiscWorkspace()
		result.WorkspaceID = workspace.ID
	}

	proposedName := uc.namer.Generate(workspace, meta, result.SuggestedName)
	now := time.Now().UTC()

	item := &domain.DocumentItem{
		ID:                uuid.NewString(),
		SourcePath:        req.SourcePath,
		OriginalFilename:  filename,
		ExtractedText:     excerpt(text),
		ProposedWorkspace: result.WorkspaceID,
		ProposedSubpath:   result.Subpath,
		ProposedFilename:  proposedName + extension,
		Confidence:        result.Confidence,
		Status:            domain.StatusPending,
		Description:       result.Description,
		FileSize:          info.Size(),
		FileExtension:     extension,
		FileHash:          hash,
		BatchID:           req.BatchID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("persist item: %w", err)
	}
	return item, nil
}

// excerpt truncates to storedExcerptLimit bytes, backing up to a rune
// boundary so the stored text stays valid UTF-8.
func excerpt(text string) string {
	if len(text) <= storedExcerptLimit {
		return text
	}
	cut := storedExcerptLimit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
