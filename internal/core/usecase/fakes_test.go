package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kirillkom/file-organizer/internal/core/domain"
	"github.com/kirillkom/file-organizer/internal/core/ports"
)

type fakeItemRepo struct {
	mu    sync.Mutex
	items map[string]*domain.DocumentItem
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: map[string]*domain.DocumentItem{}}
}

func (r *fakeItemRepo) put(item domain.DocumentItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := item
	r.items[item.ID] = &copied
}

func (r *fakeItemRepo) Create(_ context.Context, item *domain.DocumentItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeItemRepo) GetByID(_ context.Context, id string) (*domain.DocumentItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrItemNotFound, "get item", fmt.Errorf("id %s", id))
	}
	copied := *item
	return &copied, nil
}

func (r *fakeItemRepo) List(_ context.Context, filter domain.ItemFilter) ([]domain.DocumentItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.DocumentItem
	for _, item := range r.items {
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		if filter.Workspace != "" && item.ProposedWorkspace != filter.Workspace {
			continue
		}
		if filter.MinConfidence != nil && item.Confidence < *filter.MinConfidence {
			continue
		}
		if filter.MaxConfidence != nil && item.Confidence > *filter.MaxConfidence {
			continue
		}
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence < out[j].Confidence
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeItemRepo) Update(_ context.Context, id string, update domain.ItemUpdate) (*domain.DocumentItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrItemNotFound, "update item", fmt.Errorf("id %s", id))
	}
	if update.ProposedWorkspace != nil {
		item.ProposedWorkspace = *update.ProposedWorkspace
	}
	if update.ProposedSubpath != nil {
		item.ProposedSubpath = *update.ProposedSubpath
	}
	if update.ProposedFilename != nil {
		item.ProposedFilename = *update.ProposedFilename
	}
	if update.Status != nil {
		item.Status = *update.Status
	}
	item.UpdatedAt = time.Now().UTC()
	copied := *item
	return &copied, nil
}

func (r *fakeItemRepo) BulkUpdateStatus(_ context.Context, ids []string, status domain.ItemStatus) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, id := range ids {
		item, ok := r.items[id]
		if !ok || !domain.CanTransition(item.Status, status) {
			continue
		}
		item.Status = status
		count++
	}
	return count, nil
}

func (r *fakeItemRepo) MarkMigrated(_ context.Context, id string, migratedPath string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok || item.Status != domain.StatusApproved {
		return domain.WrapError(domain.ErrInvalidTransition, "mark migrated", fmt.Errorf("item %s is not approved", id))
	}
	now := time.Now().UTC()
	item.Status = domain.StatusMigrated
	item.MigratedPath = migratedPath
	item.MigratedAt = &now
	return nil
}

func (r *fakeItemRepo) Count(_ context.Context, filter domain.ItemFilter) (int, error) {
	items, _ := r.List(context.Background(), filter)
	return len(items), nil
}

func (r *fakeItemRepo) ClearAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = map[string]*domain.DocumentItem{}
	return nil
}

type fakeQueue struct {
	mu         sync.Mutex
	published  []ports.ClassifyFileRequest
	publishErr error
}

func (q *fakeQueue) PublishClassifyFile(_ context.Context, req ports.ClassifyFileRequest) error {
	if q.publishErr != nil {
		return q.publishErr
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.published = append(q.published, req)
	return nil
}

func (q *fakeQueue) SubscribeClassifyFile(context.Context, func(context.Context, ports.ClassifyFileRequest) error) error {
	return nil
}

type fakeRegistry struct {
	workspaces []domain.Workspace
}

func (r *fakeRegistry) Resolve(id string) (domain.Workspace, error) {
	for _, ws := range r.workspaces {
		if ws.ID == id {
			return ws, nil
		}
	}
	return domain.Workspace{}, domain.WrapError(domain.ErrWorkspaceNotFound, "resolve workspace", fmt.Errorf("id %s", id))
}

func (r *fakeRegistry) All() []domain.Workspace {
	return r.workspaces
}

func (r *fakeRegistry) MiscWorkspace() domain.Workspace {
	for _, ws := range r.workspaces {
		if ws.ID == domain.MiscWorkspaceID {
			return ws
		}
	}
	return domain.Workspace{
		ID: domain.MiscWorkspaceID,
		Naming: domain.NamingTemplate{
			Prefix:     "MISC",
			Components: []string{"doc_type"},
			Format:     "{prefix}-{doc_type}",
		},
	}
}

type fakeMover struct {
	mu       sync.Mutex
	existing map[string]bool
	moved    map[string]string
	copied   map[string]string
	failCopy map[string]bool
	moveErr  error
}

func newFakeMover(existing ...string) *fakeMover {
	m := &fakeMover{
		existing: map[string]bool{},
		moved:    map[string]string{},
		copied:   map[string]string{},
		failCopy: map[string]bool{},
	}
	for _, path := range existing {
		m.existing[path] = true
	}
	return m
}

func (m *fakeMover) Copy(src, dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCopy[src] {
		return fmt.Errorf("copy %s: forced failure", src)
	}
	m.existing[dst] = true
	m.copied[src] = dst
	return nil
}

func (m *fakeMover) Move(src, dst string) error {
	if m.moveErr != nil {
		return m.moveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.existing, src)
	m.existing[dst] = true
	m.moved[src] = dst
	return nil
}

func (m *fakeMover) EnsureDir(string) error {
	return nil
}

func (m *fakeMover) Exists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.existing[path]
}

type fakeClassifier struct {
	result domain.ClassificationResult
}

func (c *fakeClassifier) Classify(context.Context, string, string, domain.Metadata, domain.PathHints, *domain.HeuristicCandidate) domain.ClassificationResult {
	return c.result
}

type fakeExtractor struct {
	text string
	err  error
}

func (e *fakeExtractor) Extract(context.Context, string) (string, error) {
	return e.text, e.err
}

type fakeHasher struct{}

func (fakeHasher) Hash(path string) (string, error) {
	return fmt.Sprintf("hash-of-%s", path), nil
}
