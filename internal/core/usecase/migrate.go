package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/kirillkom/file-organizer/internal/core/domain"
	"github.com/kirillkom/file-organizer/internal/core/ports"
)

// MigrateUseCase copies approved files into the organized tree. Source files
// are never removed; a partially failed batch migrates what it can.
type MigrateUseCase struct {
	repo  ports.ItemRepository
	mover ports.FileMover
}

func NewMigrateUseCase(repo ports.ItemRepository, mover ports.FileMover) *MigrateUseCase {
	return &MigrateUseCase{
		repo:  repo,
		mover: mover,
	}
}

func (uc *MigrateUseCase) Migrate(ctx context.Context, outputRoot string) (*ports.MigrationOutcome, error) {
	if outputRoot == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "migrate", fmt.Errorf("output root is empty"))
	}

	items, err := uc.repo.List(ctx, domain.ItemFilter{Status: domain.StatusApproved})
	if err != nil {
		return nil, fmt.Errorf("list approved items: %w", err)
	}

	outcome := &ports.MigrationOutcome{}
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return outcome, err
		}

		dst := uc.destinationFor(outputRoot, &item)
		row := ports.MigrationReport{
			OriginalFilename: item.OriginalFilename,
			Destination:      dst,
		}

		if err := uc.mover.Copy(item.SourcePath, dst); err != nil {
			row.Status = "failed"
			row.Error = err.Error()
			outcome.Failed++
			outcome.Rows = append(outcome.Rows, row)
			continue
		}
		if err := uc.repo.MarkMigrated(ctx, item.ID, dst); err != nil {
			row.Status = "failed"
			row.Error = err.Error()
			outcome.Failed++
			outcome.Rows = append(outcome.Rows, row)
			continue
		}

		row.Status = "migrated"
		outcome.Migrated++
		outcome.Rows = append(outcome.Rows, row)
	}

	outcome.Report = renderReport(outcome.Rows)
	return outcome, nil
}

// destinationFor builds outputRoot/<workspace>/<subpath>/<filename>, probing
// numeric suffixes when the slot is already taken.
func (uc *MigrateUseCase) destinationFor(outputRoot string, item *domain.DocumentItem) string {
	dir := filepath.Join(outputRoot, item.ProposedWorkspace)
	if item.ProposedSubpath != "" {
		dir = filepath.Join(dir, item.ProposedSubpath)
	}

	dst := filepath.Join(dir, item.ProposedFilename)
	if !uc.mover.Exists(dst) {
		return dst
	}

	ext := filepath.Ext(item.ProposedFilename)
	stem := strings.TrimSuffix(item.ProposedFilename, ext)
	for i := 1; ; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, i, ext))
		if !uc.mover.Exists(candidate) {
			return candidate
		}
	}
}

func renderReport(rows []ports.MigrationReport) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORIGINAL\tDESTINATION\tSTATUS\tERROR")
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", row.OriginalFilename, row.Destination, row.Status, row.Error)
	}
	w.Flush()
	return sb.String()
}
