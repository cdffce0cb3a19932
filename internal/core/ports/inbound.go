package ports

import (
	"context"

	"github.com/kirillkom/file-organizer/internal/core/domain"
)

// BatchScanner starts and inspects classification sessions.
type BatchScanner interface {
	Scan(ctx context.Context, inputPath, outputPath string) (*ScanSummary, error)
	StartClassification(ctx context.Context) (int, error)
	Progress(ctx context.Context) (BatchProgress, error)
	ClearSession(ctx context.Context) error
}

// FileClassifier is the inbound contract for classifying a single scanned
// file into a pending item.
type FileClassifier interface {
	ClassifyFile(ctx context.Context, req ClassifyFileRequest) (*domain.DocumentItem, error)
}

// ItemReviewer exposes the human review lifecycle.
type ItemReviewer interface {
	GetItem(ctx context.Context, id string) (*domain.DocumentItem, error)
	ListItems(ctx context.Context, filter domain.ItemFilter) ([]domain.DocumentItem, error)
	UpdateItem(ctx context.Context, id string, update domain.ItemUpdate) (*domain.DocumentItem, error)
	BulkTransition(ctx context.Context, ids []string, target domain.ItemStatus) (int, error)
	BulkSetWorkspace(ctx context.Context, ids []string, workspaceID string) (int, error)
	RejectAndMove(ctx context.Context, id string) (*domain.DocumentItem, error)
}

// Migrator copies approved files into the organized tree.
type Migrator interface {
	Migrate(ctx context.Context, outputRoot string) (*MigrationOutcome, error)
}

// ScanSummary describes a freshly scanned directory.
type ScanSummary struct {
	InputPath  string   `json:"input_path"`
	OutputPath string   `json:"output_path"`
	BatchID    string   `json:"batch_id"`
	FileCount  int      `json:"file_count"`
	Files      []string `json:"files"`
}

// BatchProgress is the advisory progress counter for a running batch.
type BatchProgress struct {
	BatchID   string `json:"batch_id"`
	Total     int    `json:"total"`
	Processed int    `json:"processed"`
	Running   bool   `json:"running"`
}

// MigrationOutcome is the result of one migration batch.
type MigrationOutcome struct {
	Migrated int               `json:"migrated"`
	Failed   int               `json:"failed"`
	Report   string            `json:"report"`
	Rows     []MigrationReport `json:"rows"`
}

// MigrationReport is one row of the migration report.
type MigrationReport struct {
	OriginalFilename string `json:"original_filename"`
	Destination      string `json:"destination"`
	Status           string `json:"status"`
	Error            string `json:"error,omitempty"`
}
