package usecase

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/file-organizer/internal/core/domain"
	"github.com/kirillkom/file-organizer/internal/core/ports"
)

// ScanBatchUseCase owns the review session: one scanned input directory at a
// time, one batch of classification requests in flight.
type ScanBatchUseCase struct {
	repo  ports.ItemRepository
	queue ports.MessageQueue

	mu         sync.Mutex
	batchID    string
	inputPath  string
	outputPath string
	files      []string
	started    bool
}

func NewScanBatchUseCase(repo ports.ItemRepository, queue ports.MessageQueue) *ScanBatchUseCase {
	return &ScanBatchUseCase{
		repo:  repo,
		queue: queue,
	}
}

// Scan enumerates regular files under inputPath and opens a new session,
// discarding any items left from the previous batch. Hidden files and
// directories are skipped; nothing is classified yet.
func (uc *ScanBatchUseCase) Scan(ctx context.Context, inputPath, outputPath string) (*ports.ScanSummary, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "scan input", err)
	}
	if !info.IsDir() {
		return nil, domain.WrapError(domain.ErrInvalidInput, "scan input", fmt.Errorf("%s is not a directory", inputPath))
	}

	var files []string
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() && path != inputPath {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk input directory: %w", err)
	}
	sort.Strings(files)

	if err := uc.repo.ClearAll(ctx); err != nil {
		return nil, fmt.Errorf("clear previous batch: %w", err)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.batchID = uuid.NewString()
	uc.inputPath = inputPath
	uc.outputPath = outputPath
	uc.files = files
	uc.started = false

	return &ports.ScanSummary{
		InputPath:  inputPath,
		OutputPath: outputPath,
		BatchID:    uc.batchID,
		FileCount:  len(files),
		Files:      files,
	}, nil
}

// StartClassification enqueues one classification request per scanned file
// and returns how many were enqueued.
func (uc *ScanBatchUseCase) StartClassification(ctx context.Context) (int, error) {
	uc.mu.Lock()
	if uc.batchID == "" {
		uc.mu.Unlock()
		return 0, domain.WrapError(domain.ErrInvalidInput, "start classification", fmt.Errorf("no scanned session"))
	}
	batchID := uc.batchID
	files := append([]string(nil), uc.files...)
	uc.started = true
	uc.mu.Unlock()

	enqueued := 0
	for _, path := range files {
		req := ports.ClassifyFileRequest{
			BatchID:    batchID,
			SourcePath: path,
			EnqueuedAt: time.Now().Unix(),
		}
		if err := uc.queue.PublishClassifyFile(ctx, req); err != nil {
			return enqueued, fmt.Errorf("enqueue %s: %w", path, err)
		}
		enqueued++
	}
	return enqueued, nil
}

// Progress reports items persisted so far against the scanned total. The
// worker writes items as it finishes them, so the repository count is the
// source of truth.
func (uc *ScanBatchUseCase) Progress(ctx context.Context) (ports.BatchProgress, error) {
	uc.mu.Lock()
	batchID := uc.batchID
	total := len(uc.files)
	started := uc.started
	uc.mu.Unlock()

	if batchID == "" {
		return ports.BatchProgress{}, nil
	}

	processed, err := uc.repo.Count(ctx, domain.ItemFilter{})
	if err != nil {
		return ports.BatchProgress{}, fmt.Errorf("count processed items: %w", err)
	}
	return ports.BatchProgress{
		BatchID:   batchID,
		Total:     total,
		Processed: processed,
		Running:   started && processed < total,
	}, nil
}

// ClearSession wipes all items and forgets the current scan. Source files are
// untouched.
func (uc *ScanBatchUseCase) ClearSession(ctx context.Context) error {
	if err := uc.repo.ClearAll(ctx); err != nil {
		return fmt.Errorf("clear items: %w", err)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.batchID = ""
	uc.inputPath = ""
	uc.outputPath = ""
	uc.files = nil
	uc.started = false
	return nil
}
