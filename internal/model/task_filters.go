package model

import "time"

// TaskFilters represents optional list query conditions.
// Zero values / nil pointers mean filter not applied. Search is fuzzy
// over title and description (wrapped with %% automatically,
// case-insensitive). Overdue selects tasks with a due date in the past
// that are not completed. The board-side "all" sentinel never reaches
// this struct; it is stripped at the wire edge.
type TaskFilters struct {
	Status       string
	Priority     string
	ProjectID    string
	AssignedToID string
	Search       string
	Tags         []string
	Overdue      bool
	DueFrom      *time.Time
	DueTo        *time.Time
}

// IsZero reports whether no dimension is constrained.
func (f TaskFilters) IsZero() bool {
	return f.Status == "" && f.Priority == "" && f.ProjectID == "" &&
		f.AssignedToID == "" && f.Search == "" && len(f.Tags) == 0 &&
		!f.Overdue && f.DueFrom == nil && f.DueTo == nil
}
