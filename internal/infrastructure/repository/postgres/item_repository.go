package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kirillkom/file-organizer/internal/core/domain"
)

type ItemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *ItemRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082401)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS document_items (
	id TEXT PRIMARY KEY,
	source_path TEXT NOT NULL,
	original_filename TEXT NOT NULL,
	extracted_text TEXT NOT NULL DEFAULT '',
	proposed_workspace TEXT NOT NULL,
	proposed_subpath TEXT NOT NULL DEFAULT '',
	proposed_filename TEXT NOT NULL,
	confidence INTEGER NOT NULL,
	status TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	file_size BIGINT NOT NULL DEFAULT 0,
	file_extension TEXT NOT NULL DEFAULT '',
	file_hash TEXT NOT NULL DEFAULT '',
	batch_id TEXT NOT NULL DEFAULT '',
	migrated_path TEXT NOT NULL DEFAULT '',
	migrated_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_document_items_status ON document_items(status);
CREATE INDEX IF NOT EXISTS idx_document_items_workspace ON document_items(proposed_workspace);
CREATE INDEX IF NOT EXISTS idx_document_items_confidence ON document_items(confidence ASC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

const itemColumns = `id, source_path, original_filename, extracted_text, proposed_workspace, proposed_subpath, proposed_filename, confidence, status, description, file_size, file_extension, file_hash, batch_id, migrated_path, migrated_at, created_at, updated_at`

func (r *ItemRepository) Create(ctx context.Context, item *domain.DocumentItem) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO document_items (`+itemColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
`,
		item.ID, item.SourcePath, item.OriginalFilename, item.ExtractedText,
		item.ProposedWorkspace, item.ProposedSubpath, item.ProposedFilename,
		item.Confidence, string(item.Status), item.Description,
		item.FileSize, item.FileExtension, item.FileHash, item.BatchID,
		item.MigratedPath, item.MigratedAt, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (r *ItemRepository) GetByID(ctx context.Context, id string) (*domain.DocumentItem, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM document_items WHERE id = $1`, id)

	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrItemNotFound, "get item", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan item: %w", err)
	}
	return item, nil
}

// List returns items ordered by ascending confidence, so the least certain
// proposals surface first for review.
func (r *ItemRepository) List(ctx context.Context, filter domain.ItemFilter) ([]domain.DocumentItem, error) {
	query := `SELECT ` + itemColumns + ` FROM document_items WHERE 1=1`
	var args []any

	appendCond := func(cond string, value any) {
		args = append(args, value)
		query += fmt.Sprintf(" AND %s $%d", cond, len(args))
	}

	if filter.Status != "" {
		appendCond("status =", string(filter.Status))
	}
	if filter.Workspace != "" {
		appendCond("proposed_workspace =", filter.Workspace)
	}
	if filter.MinConfidence != nil {
		appendCond("confidence >=", *filter.MinConfidence)
	}
	if filter.MaxConfidence != nil {
		appendCond("confidence <=", *filter.MaxConfidence)
	}

	query += " ORDER BY confidence ASC, created_at ASC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []domain.DocumentItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item row: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

func (r *ItemRepository) Update(ctx context.Context, id string, update domain.ItemUpdate) (*domain.DocumentItem, error) {
	var clauses []string
	var args []any

	appendSet := func(column string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.ProposedWorkspace != nil {
		appendSet("proposed_workspace", *update.ProposedWorkspace)
	}
	if update.ProposedSubpath != nil {
		appendSet("proposed_subpath", *update.ProposedSubpath)
	}
	if update.ProposedFilename != nil {
		appendSet("proposed_filename", *update.ProposedFilename)
	}
	if update.Status != nil {
		appendSet("status", string(*update.Status))
	}
	if len(clauses) == 0 {
		return r.GetByID(ctx, id)
	}
	appendSet("updated_at", time.Now().UTC())

	args = append(args, id)
	query := fmt.Sprintf("UPDATE document_items SET %s WHERE id = $%d", strings.Join(clauses, ", "), len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, domain.WrapError(domain.ErrItemNotFound, "update item", fmt.Errorf("id %s", id))
	}
	return r.GetByID(ctx, id)
}

// BulkUpdateStatus sets status on every listed item whose current status may
// legally transition to it. Unknown ids and ineligible items are skipped; the
// returned count is rows actually updated.
func (r *ItemRepository) BulkUpdateStatus(ctx context.Context, ids []string, status domain.ItemStatus) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	sources := domain.TransitionSources(status)
	if len(sources) == 0 {
		return 0, nil
	}

	args := []any{string(status), time.Now().UTC()}
	idPlaceholders := make([]string, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
		idPlaceholders = append(idPlaceholders, fmt.Sprintf("$%d", len(args)))
	}
	srcPlaceholders := make([]string, 0, len(sources))
	for _, src := range sources {
		args = append(args, string(src))
		srcPlaceholders = append(srcPlaceholders, fmt.Sprintf("$%d", len(args)))
	}

	query := fmt.Sprintf(`
UPDATE document_items
SET status = $1, updated_at = $2
WHERE id IN (%s) AND status IN (%s)
`, strings.Join(idPlaceholders, ","), strings.Join(srcPlaceholders, ","))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("bulk update status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("bulk update rows affected: %w", err)
	}
	return int(affected), nil
}

// MarkMigrated stamps a successful migration. Only approved items are
// eligible; anything else reports not found/not eligible.
func (r *ItemRepository) MarkMigrated(ctx context.Context, id string, migratedPath string) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
UPDATE document_items
SET status = $2, migrated_path = $3, migrated_at = $4, updated_at = $4
WHERE id = $1 AND status = $5
`, id, string(domain.StatusMigrated), migratedPath, now, string(domain.StatusApproved))
	if err != nil {
		return fmt.Errorf("mark migrated: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark migrated rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrInvalidTransition, "mark migrated", fmt.Errorf("item %s is not approved", id))
	}
	return nil
}

func (r *ItemRepository) Count(ctx context.Context, filter domain.ItemFilter) (int, error) {
	query := `SELECT COUNT(*) FROM document_items WHERE 1=1`
	var args []any

	appendCond := func(cond string, value any) {
		args = append(args, value)
		query += fmt.Sprintf(" AND %s $%d", cond, len(args))
	}

	if filter.Status != "" {
		appendCond("status =", string(filter.Status))
	}
	if filter.Workspace != "" {
		appendCond("proposed_workspace =", filter.Workspace)
	}
	if filter.MinConfidence != nil {
		appendCond("confidence >=", *filter.MinConfidence)
	}
	if filter.MaxConfidence != nil {
		appendCond("confidence <=", *filter.MaxConfidence)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return count, nil
}

// ClearAll removes every item; used by session clear before a new scan.
func (r *ItemRepository) ClearAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM document_items`); err != nil {
		return fmt.Errorf("clear items: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.DocumentItem, error) {
	var item domain.DocumentItem
	var status string
	var migratedAt sql.NullTime

	err := row.Scan(
		&item.ID, &item.SourcePath, &item.OriginalFilename, &item.ExtractedText,
		&item.ProposedWorkspace, &item.ProposedSubpath, &item.ProposedFilename,
		&item.Confidence, &status, &item.Description,
		&item.FileSize, &item.FileExtension, &item.FileHash, &item.BatchID,
		&item.MigratedPath, &migratedAt, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Status = domain.ItemStatus(status)
	if migratedAt.Valid {
		t := migratedAt.Time
		item.MigratedAt = &t
	}
	return &item, nil
}
