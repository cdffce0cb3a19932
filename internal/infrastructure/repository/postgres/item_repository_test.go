package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kirillkom/file-organizer/internal/core/domain"
)

func newMockRepo(t *testing.T) (*ItemRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewItemRepository(db), mock
}

func itemRows(items ...domain.DocumentItem) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "source_path", "original_filename", "extracted_text",
		"proposed_workspace", "proposed_subpath", "proposed_filename",
		"confidence", "status", "description",
		"file_size", "file_extension", "file_hash", "batch_id",
		"migrated_path", "migrated_at", "created_at", "updated_at",
	})
	for _, it := range items {
		rows.AddRow(
			it.ID, it.SourcePath, it.OriginalFilename, it.ExtractedText,
			it.ProposedWorkspace, it.ProposedSubpath, it.ProposedFilename,
			it.Confidence, string(it.Status), it.Description,
			it.FileSize, it.FileExtension, it.FileHash, it.BatchID,
			it.MigratedPath, it.MigratedAt, it.CreatedAt, it.UpdatedAt,
		)
	}
	return rows
}

func sampleItem(id string, status domain.ItemStatus) domain.DocumentItem {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	return domain.DocumentItem{
		ID:                id,
		SourcePath:        "/inbox/" + id + ".pdf",
		OriginalFilename:  id + ".pdf",
		ProposedWorkspace: "KB.Finance.Taxes",
		ProposedFilename:  "TAX-2024-" + id,
		Confidence:        4,
		Status:            status,
		FileExtension:     ".pdf",
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func TestCreateInsertsAllColumns(t *testing.T) {
	repo, mock := newMockRepo(t)
	item := sampleItem("a1", domain.StatusPending)

	mock.ExpectExec(`INSERT INTO document_items`).
		WithArgs(
			item.ID, item.SourcePath, item.OriginalFilename, item.ExtractedText,
			item.ProposedWorkspace, item.ProposedSubpath, item.ProposedFilename,
			item.Confidence, string(item.Status), item.Description,
			item.FileSize, item.FileExtension, item.FileHash, item.BatchID,
			item.MigratedPath, item.MigratedAt, item.CreatedAt, item.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), &item); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM document_items`).
		WithArgs("missing").
		WillReturnRows(itemRows())

	_, err := repo.GetByID(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGetByIDFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	item := sampleItem("a1", domain.StatusApproved)

	mock.ExpectQuery(`SELECT .+ FROM document_items`).
		WithArgs("a1").
		WillReturnRows(itemRows(item))

	got, err := repo.GetByID(context.Background(), "a1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.ProposedWorkspace != "KB.Finance.Taxes" || got.Status != domain.StatusApproved {
		t.Fatalf("unexpected item: %+v", got)
	}
}

func TestListAppliesFiltersAndOrder(t *testing.T) {
	repo, mock := newMockRepo(t)
	minConf := 2

	mock.ExpectQuery(`SELECT .+ FROM document_items WHERE 1=1 AND status = \$1 AND confidence >= \$2 ORDER BY confidence ASC, created_at ASC LIMIT \$3 OFFSET \$4`).
		WithArgs("pending", minConf, 10, 0).
		WillReturnRows(itemRows(sampleItem("a1", domain.StatusPending), sampleItem("a2", domain.StatusPending)))

	items, err := repo.List(context.Background(), domain.ItemFilter{
		Status:        domain.StatusPending,
		MinConfidence: &minConf,
		Limit:         10,
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("List() returned %d items", len(items))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateSetsOnlyProvidedFields(t *testing.T) {
	repo, mock := newMockRepo(t)
	workspace := "KB.Legal.Estate"
	item := sampleItem("a1", domain.StatusPending)
	item.ProposedWorkspace = workspace

	mock.ExpectExec(`UPDATE document_items SET proposed_workspace = \$1, updated_at = \$2 WHERE id = \$3`).
		WithArgs(workspace, sqlmock.AnyArg(), "a1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .+ FROM document_items`).
		WithArgs("a1").
		WillReturnRows(itemRows(item))

	got, err := repo.Update(context.Background(), "a1", domain.ItemUpdate{ProposedWorkspace: &workspace})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.ProposedWorkspace != workspace {
		t.Fatalf("workspace = %s", got.ProposedWorkspace)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateUnknownItem(t *testing.T) {
	repo, mock := newMockRepo(t)
	status := domain.StatusApproved

	mock.ExpectExec(`UPDATE document_items SET status = \$1, updated_at = \$2 WHERE id = \$3`).
		WithArgs("approved", sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Update(context.Background(), "missing", domain.ItemUpdate{Status: &status})
	if !domain.IsKind(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestBulkUpdateStatusGuardsTransitions(t *testing.T) {
	repo, mock := newMockRepo(t)

	// Approving: only pending items are eligible sources.
	mock.ExpectExec(`UPDATE document_items\s+SET status = \$1, updated_at = \$2\s+WHERE id IN \(\$3,\$4,\$5\) AND status IN \(\$6\)`).
		WithArgs("approved", sqlmock.AnyArg(), "a1", "a2", "a3", "pending").
		WillReturnResult(sqlmock.NewResult(0, 2))

	count, err := repo.BulkUpdateStatus(context.Background(), []string{"a1", "a2", "a3"}, domain.StatusApproved)
	if err != nil {
		t.Fatalf("BulkUpdateStatus() error = %v", err)
	}
	if count != 2 {
		t.Fatalf("affected = %d, want 2", count)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestBulkUpdateStatusEmptyIDs(t *testing.T) {
	repo, _ := newMockRepo(t)
	count, err := repo.BulkUpdateStatus(context.Background(), nil, domain.StatusApproved)
	if err != nil || count != 0 {
		t.Fatalf("count = %d, err = %v", count, err)
	}
}

func TestMarkMigratedRequiresApproved(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE document_items`).
		WithArgs("a1", "migrated", "/out/KB.Finance.Taxes/TAX-2024-a1.pdf", sqlmock.AnyArg(), "approved").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkMigrated(context.Background(), "a1", "/out/KB.Finance.Taxes/TAX-2024-a1.pdf")
	if !domain.IsKind(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestMarkMigratedSuccess(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE document_items`).
		WithArgs("a1", "migrated", "/out/dst.pdf", sqlmock.AnyArg(), "approved").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkMigrated(context.Background(), "a1", "/out/dst.pdf"); err != nil {
		t.Fatalf("MarkMigrated() error = %v", err)
	}
}

func TestCountWithStatusFilter(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM document_items WHERE 1=1 AND status = \$1`).
		WithArgs("pending").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.Count(context.Background(), domain.ItemFilter{Status: domain.StatusPending})
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 7 {
		t.Fatalf("count = %d", count)
	}
}

func TestClearAll(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM document_items`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := repo.ClearAll(context.Background()); err != nil {
		t.Fatalf("ClearAll() error = %v", err)
	}
}
