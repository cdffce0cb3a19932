package domain

import "time"

type ItemStatus string

const (
	StatusPending  ItemStatus = "pending"
	StatusApproved ItemStatus = "approved"
	StatusIgnored  ItemStatus = "ignored"
	StatusRejected ItemStatus = "rejected"
	StatusMigrated ItemStatus = "migrated"
)

// statusTransitions is the closed transition table for the item lifecycle.
// Migrated is only reachable from approved; ignored, rejected and migrated
// are terminal.
var statusTransitions = map[ItemStatus][]ItemStatus{
	StatusPending:  {StatusApproved, StatusIgnored, StatusRejected},
	StatusApproved: {StatusMigrated, StatusPending, StatusIgnored, StatusRejected},
}

func (s ItemStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusIgnored, StatusRejected, StatusMigrated:
		return true
	}
	return false
}

// CanTransition reports whether an item may move from one status to target.
func CanTransition(from, to ItemStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// TransitionSources returns every status from which target is reachable, in
// stable order.
func TransitionSources(target ItemStatus) []ItemStatus {
	var out []ItemStatus
	for _, from := range []ItemStatus{StatusPending, StatusApproved, StatusIgnored, StatusRejected, StatusMigrated} {
		if CanTransition(from, target) {
			out = append(out, from)
		}
	}
	return out
}

// Mutable reports whether proposal fields may still be edited in this status.
// Terminal items keep their record as written.
func (s ItemStatus) Mutable() bool {
	return s == StatusPending || s == StatusApproved
}

// DocumentItem is one classified file proposal moving through review.
// SourcePath points at the original file; the physical file is owned by the
// filesystem, not by the record.
type DocumentItem struct {
	ID                string     `json:"id"`
	SourcePath        string     `json:"source_path"`
	OriginalFilename  string     `json:"original_filename"`
	ExtractedText     string     `json:"extracted_text"`
	ProposedWorkspace string     `json:"proposed_workspace"`
	ProposedSubpath   string     `json:"proposed_subpath"`
	ProposedFilename  string     `json:"proposed_filename"`
	Confidence        int        `json:"confidence"`
	Status            ItemStatus `json:"status"`
	Description       string     `json:"description"`
	FileSize          int64      `json:"file_size,omitempty"`
	FileExtension     string     `json:"file_extension,omitempty"`
	FileHash          string     `json:"file_hash,omitempty"`
	BatchID           string     `json:"batch_id,omitempty"`
	MigratedPath      string     `json:"migrated_path,omitempty"`
	MigratedAt        *time.Time `json:"migrated_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// ItemFilter narrows list queries. Nil pointer fields are ignored.
type ItemFilter struct {
	Status        ItemStatus
	Workspace     string
	MinConfidence *int
	MaxConfidence *int
	Limit         int
	Offset        int
}

// ItemUpdate is a partial update of the mutable proposal fields. Nil fields
// are left untouched.
type ItemUpdate struct {
	ProposedWorkspace *string
	ProposedSubpath   *string
	ProposedFilename  *string
	Status            *ItemStatus
}

func (u ItemUpdate) Empty() bool {
	return u.ProposedWorkspace == nil && u.ProposedSubpath == nil &&
		u.ProposedFilename == nil && u.Status == nil
}
