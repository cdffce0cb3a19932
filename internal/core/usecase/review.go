package usecase

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/kirillkom/file-organizer/internal/core/domain"
	"github.com/kirillkom/file-organizer/internal/core/ports"
)

// ItemReviewUseCase implements the human review lifecycle over persisted
// proposals.
type ItemReviewUseCase struct {
	repo         ports.ItemRepository
	registry     ports.TaxonomyRegistry
	mover        ports.FileMover
	namer        ports.FilenameGenerator
	rejectedPath string
}

func NewItemReviewUseCase(
	repo ports.ItemRepository,
	registry ports.TaxonomyRegistry,
	mover ports.FileMover,
	namer ports.FilenameGenerator,
	rejectedPath string,
) *ItemReviewUseCase {
	return &ItemReviewUseCase{
		repo:         repo,
		registry:     registry,
		mover:        mover,
		namer:        namer,
		rejectedPath: rejectedPath,
	}
}

func (uc *ItemReviewUseCase) GetItem(ctx context.Context, id string) (*domain.DocumentItem, error) {
	return uc.repo.GetByID(ctx, id)
}

func (uc *ItemReviewUseCase) ListItems(ctx context.Context, filter domain.ItemFilter) ([]domain.DocumentItem, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.WrapError(domain.ErrInvalidInput, "list items", fmt.Errorf("unknown status %q", filter.Status))
	}
	return uc.repo.List(ctx, filter)
}

// UpdateItem applies a partial edit. Proposal fields may only change while the
// item is still mutable; status changes must follow the transition table.
func (uc *ItemReviewUseCase) UpdateItem(ctx context.Context, id string, update domain.ItemUpdate) (*domain.DocumentItem, error) {
	if update.Empty() {
		return nil, domain.WrapError(domain.ErrInvalidInput, "update item", fmt.Errorf("no fields to update"))
	}

	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	editsProposal := update.ProposedWorkspace != nil || update.ProposedSubpath != nil || update.ProposedFilename != nil
	if editsProposal && !item.Status.Mutable() {
		return nil, domain.WrapError(domain.ErrInvalidTransition, "update item",
			fmt.Errorf("item %s is %s and no longer editable", id, item.Status))
	}

	if update.ProposedWorkspace != nil {
		if _, err := uc.registry.Resolve(*update.ProposedWorkspace); err != nil {
			return nil, err
		}
	}
	if update.ProposedFilename != nil {
		// Sanitize the stem only; the extension keeps its dot.
		ext := filepath.Ext(*update.ProposedFilename)
		stem := (*update.ProposedFilename)[:len(*update.ProposedFilename)-len(ext)]
		clean := uc.namer.Sanitize(stem) + ext
		update.ProposedFilename = &clean
	}
	if update.Status != nil {
		if !update.Status.Valid() {
			return nil, domain.WrapError(domain.ErrInvalidInput, "update item", fmt.Errorf("unknown status %q", *update.Status))
		}
		if !domain.CanTransition(item.Status, *update.Status) {
			return nil, domain.WrapError(domain.ErrInvalidTransition, "update item",
				fmt.Errorf("cannot move %s from %s to %s", id, item.Status, *update.Status))
		}
	}

	return uc.repo.Update(ctx, id, update)
}

// BulkTransition moves every eligible listed item to target and returns how
// many actually changed. Ineligible items are skipped, not failed.
func (uc *ItemReviewUseCase) BulkTransition(ctx context.Context, ids []string, target domain.ItemStatus) (int, error) {
	if !target.Valid() {
		return 0, domain.WrapError(domain.ErrInvalidInput, "bulk transition", fmt.Errorf("unknown status %q", target))
	}
	if len(ids) == 0 {
		return 0, domain.WrapError(domain.ErrInvalidInput, "bulk transition", fmt.Errorf("no item ids"))
	}
	return uc.repo.BulkUpdateStatus(ctx, ids, target)
}

// BulkSetWorkspace reassigns the proposed workspace on every listed item that
// is still mutable.
func (uc *ItemReviewUseCase) BulkSetWorkspace(ctx context.Context, ids []string, workspaceID string) (int, error) {
	if len(ids) == 0 {
		return 0, domain.WrapError(domain.ErrInvalidInput, "bulk set workspace", fmt.Errorf("no item ids"))
	}
	if _, err := uc.registry.Resolve(workspaceID); err != nil {
		return 0, err
	}

	updated := 0
	for _, id := range ids {
		item, err := uc.repo.GetByID(ctx, id)
		if err != nil {
			if domain.IsKind(err, domain.ErrItemNotFound) {
				continue
			}
			return updated, err
		}
		if !item.Status.Mutable() {
			continue
		}
		ws := workspaceID
		if _, err := uc.repo.Update(ctx, id, domain.ItemUpdate{ProposedWorkspace: &ws}); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// RejectAndMove marks the item rejected and relocates the source file into
// the rejected directory. The move happens first; a failed move leaves the
// item untouched.
func (uc *ItemReviewUseCase) RejectAndMove(ctx context.Context, id string) (*domain.DocumentItem, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(item.Status, domain.StatusRejected) {
		return nil, domain.WrapError(domain.ErrInvalidTransition, "reject item",
			fmt.Errorf("cannot reject %s from %s", id, item.Status))
	}

	dst := filepath.Join(uc.rejectedPath, item.OriginalFilename)
	if err := uc.mover.Move(item.SourcePath, dst); err != nil {
		return nil, fmt.Errorf("move rejected file: %w", err)
	}

	status := domain.StatusRejected
	return uc.repo.Update(ctx, id, domain.ItemUpdate{Status: &status})
}
