package usecase

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kirillkom/file-organizer/internal/core/domain"
)

func TestScanEnumeratesRegularFiles(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "a.pdf"))
	mustWrite(t, filepath.Join(dir, "sub", "b.txt"))
	mustWrite(t, filepath.Join(dir, ".hidden"))
	mustWrite(t, filepath.Join(dir, ".git", "config"))

	uc := NewScanBatchUseCase(newFakeItemRepo(), &fakeQueue{})
	summary, err := uc.Scan(context.Background(), dir, "/out")
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if summary.FileCount != 2 {
		t.Fatalf("FileCount = %d, files = %v", summary.FileCount, summary.Files)
	}
	if summary.BatchID == "" {
		t.Fatal("expected a batch id")
	}
	if summary.OutputPath != "/out" {
		t.Fatalf("OutputPath = %s", summary.OutputPath)
	}
}

func TestScanRejectsNonDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	mustWrite(t, file)

	uc := NewScanBatchUseCase(newFakeItemRepo(), &fakeQueue{})
	if _, err := uc.Scan(context.Background(), file, "/out"); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestStartClassificationEnqueuesEachFile(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "a.pdf"))
	mustWrite(t, filepath.Join(dir, "b.txt"))

	queue := &fakeQueue{}
	uc := NewScanBatchUseCase(newFakeItemRepo(), queue)
	summary, err := uc.Scan(context.Background(), dir, "/out")
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	enqueued, err := uc.StartClassification(context.Background())
	if err != nil {
		t.Fatalf("StartClassification() error = %v", err)
	}
	if enqueued != 2 || len(queue.published) != 2 {
		t.Fatalf("enqueued = %d, published = %d", enqueued, len(queue.published))
	}
	for _, req := range queue.published {
		if req.BatchID != summary.BatchID {
			t.Fatalf("request batch = %s, want %s", req.BatchID, summary.BatchID)
		}
	}
}

func TestScanDiscardsPreviousBatch(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "a.pdf"))

	repo := newFakeItemRepo()
	repo.put(domain.DocumentItem{ID: "stale", Status: domain.StatusPending})

	uc := NewScanBatchUseCase(repo, &fakeQueue{})
	if _, err := uc.Scan(context.Background(), dir, "/out"); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	count, _ := repo.Count(context.Background(), domain.ItemFilter{})
	if count != 0 {
		t.Fatalf("previous batch not cleared, %d items remain", count)
	}
}

func TestStartClassificationWithoutScan(t *testing.T) {
	uc := NewScanBatchUseCase(newFakeItemRepo(), &fakeQueue{})
	if _, err := uc.StartClassification(context.Background()); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestProgressTracksPersistedItems(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "a.pdf"))
	mustWrite(t, filepath.Join(dir, "b.txt"))
	mustWrite(t, filepath.Join(dir, "c.txt"))

	repo := newFakeItemRepo()
	uc := NewScanBatchUseCase(repo, &fakeQueue{})
	if _, err := uc.Scan(context.Background(), dir, "/out"); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if _, err := uc.StartClassification(context.Background()); err != nil {
		t.Fatalf("StartClassification() error = %v", err)
	}

	repo.put(domain.DocumentItem{ID: "a", Status: domain.StatusPending})

	progress, err := uc.Progress(context.Background())
	if err != nil {
		t.Fatalf("Progress() error = %v", err)
	}
	if progress.Total != 3 || progress.Processed != 1 || !progress.Running {
		t.Fatalf("progress = %+v", progress)
	}
}

func TestClearSessionWipesItemsAndState(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "a.pdf"))

	repo := newFakeItemRepo()
	uc := NewScanBatchUseCase(repo, &fakeQueue{})
	if _, err := uc.Scan(context.Background(), dir, "/out"); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	repo.put(domain.DocumentItem{ID: "a", Status: domain.StatusPending})

	if err := uc.ClearSession(context.Background()); err != nil {
		t.Fatalf("ClearSession() error = %v", err)
	}

	count, _ := repo.Count(context.Background(), domain.ItemFilter{})
	if count != 0 {
		t.Fatalf("items remaining = %d", count)
	}
	progress, err := uc.Progress(context.Background())
	if err != nil {
		t.Fatalf("Progress() error = %v", err)
	}
	if progress.BatchID != "" {
		t.Fatalf("expected empty progress after clear, got %+v", progress)
	}
}

func mustWrite(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
