package model

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/praxisware/tpflow/internal/consts"
)

// Task is one unit of engagement work, optionally linked to a project,
// an assignee and a workflow step.
//
// Table schema constraints (see migrations/0001_init.sql):
// - id: CHAR(36) uuid, primary key
// - status / priority: closed enums, validated at the API boundary
// - tags: comma-joined in the DB column, []string over JSON
// - version: optimistic lock, +1 on every update
type Task struct {
	ID             string              `gorm:"primaryKey;type:char(36)" json:"id"`
	Title          string              `gorm:"type:varchar(255);not null" json:"title"`
	Description    string              `gorm:"type:text" json:"description,omitempty"`
	Status         consts.TaskStatus   `gorm:"type:varchar(32);not null;index" json:"status"`
	Priority       consts.TaskPriority `gorm:"type:varchar(32);not null;index" json:"priority"`
	DueDate        *time.Time          `gorm:"index" json:"dueDate,omitempty"`
	EstimatedHours *float64            `json:"estimatedHours,omitempty"`
	ActualHours    *float64            `json:"actualHours,omitempty"`
	Tags           []string            `gorm:"-" json:"tags,omitempty"`
	TagsRaw        string              `gorm:"column:tags;type:varchar(1024)" json:"-"`
	ProjectID      *string             `gorm:"type:char(36);index" json:"projectId,omitempty"`
	AssignedToID   *string             `gorm:"type:char(36);index" json:"assignedToId,omitempty"`
	WorkflowStepID *string             `gorm:"type:char(36)" json:"workflowStepId,omitempty"`
	CreatedByID    string              `gorm:"type:char(36)" json:"createdById,omitempty"`
	Version        int                 `gorm:"not null;default:1" json:"version"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

func (Task) TableName() string { return "tasks" }

// BeforeSave folds the tag slice into the storage column. Duplicates are
// suppressed, first occurrence order preserved.
func (t *Task) BeforeSave(*gorm.DB) error {
	t.Tags = NormalizeTags(t.Tags)
	t.TagsRaw = strings.Join(t.Tags, ",")
	return nil
}

func (t *Task) AfterFind(*gorm.DB) error {
	t.Tags = SplitTags(t.TagsRaw)
	return nil
}

// Overdue reports whether the task has a due date in the past and is not
// yet completed.
func (t *Task) Overdue(now time.Time) bool {
	if t.DueDate == nil || t.Status == consts.TaskStatusCompleted {
		return false
	}
	return t.DueDate.Before(now)
}

// NormalizeTags drops empty entries and duplicates while keeping the
// original order of first appearance.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SplitTags is the inverse of the comma-join done in BeforeSave.
func SplitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	return NormalizeTags(strings.Split(raw, ","))
}
