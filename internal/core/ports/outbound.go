package ports

import (
	"context"

	"github.com/kirillkom/file-organizer/internal/core/domain"
)

// ItemRepository persists and reads document item proposals.
type ItemRepository interface {
	Create(ctx context.Context, item *domain.DocumentItem) error
	GetByID(ctx context.Context, id string) (*domain.DocumentItem, error)
	List(ctx context.Context, filter domain.ItemFilter) ([]domain.DocumentItem, error)
	Update(ctx context.Context, id string, update domain.ItemUpdate) (*domain.DocumentItem, error)
	BulkUpdateStatus(ctx context.Context, ids []string, status domain.ItemStatus) (int, error)
	MarkMigrated(ctx context.Context, id string, migratedPath string) error
	Count(ctx context.Context, filter domain.ItemFilter) (int, error)
	ClearAll(ctx context.Context) error
}

// TaxonomyRegistry resolves workspace definitions. Read-only after load.
type TaxonomyRegistry interface {
	Resolve(id string) (domain.Workspace, error)
	All() []domain.Workspace
	MiscWorkspace() domain.Workspace
}

// TextExtractor returns best-effort plain text for a file path. An empty
// string without an error means the format is unsupported or empty.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// CompletionBackend is the untrusted text-in/text-out language model oracle.
type CompletionBackend interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Classifier turns file content and location into a taxonomy assignment.
type Classifier interface {
	Classify(ctx context.Context, text, filename string, meta domain.Metadata, hints domain.PathHints, candidate *domain.HeuristicCandidate) domain.ClassificationResult
}

// HintExtractor derives classification hints from file location and content.
type HintExtractor interface {
	PathHints(originalPath, originalFilename string) domain.PathHints
	Metadata(text string) domain.Metadata
	MergeYears(meta domain.Metadata, pathYears []string) domain.Metadata
}

// HeuristicMatcher runs the ordered keyword rules ahead of the model call.
// A nil candidate means no rule fired.
type HeuristicMatcher interface {
	Match(text, filename string, pathHints domain.PathHints) *domain.HeuristicCandidate
}

// FilenameGenerator renders a workspace naming template into a filesystem
// safe filename, without extension.
type FilenameGenerator interface {
	Generate(workspace domain.Workspace, meta domain.Metadata, suggestedName string) string
	Sanitize(filename string) string
}

// FileMover performs the filesystem placement primitives. Copy preserves file
// metadata; Move relocates. Both fail on a missing source.
type FileMover interface {
	Copy(src, dst string) error
	Move(src, dst string) error
	EnsureDir(path string) error
	Exists(path string) bool
}

// ContentHasher computes a content hash for a file, cached by modification
// time.
type ContentHasher interface {
	Hash(path string) (string, error)
}

// MessageQueue carries per-file classification requests to the worker.
type MessageQueue interface {
	PublishClassifyFile(ctx context.Context, req ClassifyFileRequest) error
	SubscribeClassifyFile(ctx context.Context, handler func(context.Context, ClassifyFileRequest) error) error
}

// ClassifyFileRequest is the queue payload for one file.
type ClassifyFileRequest struct {
	BatchID    string `json:"batch_id"`
	SourcePath string `json:"source_path"`
	EnqueuedAt int64  `json:"enqueued_at,omitempty"`
}
