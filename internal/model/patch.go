package model

import (
	"time"

	"github.com/praxisware/tpflow/internal/consts"
)

// TaskPatch is a partial task update. Nil fields are left untouched.
type TaskPatch struct {
	Title          *string              `json:"title,omitempty"`
	Description    *string              `json:"description,omitempty"`
	Status         *consts.TaskStatus   `json:"status,omitempty"`
	Priority       *consts.TaskPriority `json:"priority,omitempty"`
	DueDate        *time.Time           `json:"dueDate,omitempty"`
	EstimatedHours *float64             `json:"estimatedHours,omitempty"`
	ActualHours    *float64             `json:"actualHours,omitempty"`
	Tags           []string             `json:"tags,omitempty"`
	ProjectID      *string              `json:"projectId,omitempty"`
	AssignedToID   *string              `json:"assignedToId,omitempty"`
	WorkflowStepID *string              `json:"workflowStepId,omitempty"`
}

// IsZero reports whether the patch changes nothing.
func (p TaskPatch) IsZero() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.DueDate == nil && p.EstimatedHours == nil &&
		p.ActualHours == nil && p.Tags == nil && p.ProjectID == nil &&
		p.AssignedToID == nil && p.WorkflowStepID == nil
}

// WorkflowStepPatch is a partial step update. Nil fields are left
// untouched; StepOrder is immutable and deliberately absent.
type WorkflowStepPatch struct {
	Status        *consts.StepStatus `json:"status,omitempty"`
	AssignedToID  *string            `json:"assignedToId,omitempty"`
	StartDate     *time.Time         `json:"startDate,omitempty"`
	CompletedDate *time.Time         `json:"completedDate,omitempty"`
	ActualDays    *int               `json:"actualDays,omitempty"`
	Notes         *string            `json:"notes,omitempty"`
}

func (p WorkflowStepPatch) IsZero() bool {
	return p.Status == nil && p.AssignedToID == nil && p.StartDate == nil &&
		p.CompletedDate == nil && p.ActualDays == nil && p.Notes == nil
}

// ProjectPatch is a partial project update.
type ProjectPatch struct {
	ProjectName      *string               `json:"projectName,omitempty"`
	Description      *string               `json:"description,omitempty"`
	DeliverableType  *string               `json:"deliverableType,omitempty"`
	Status           *consts.ProjectStatus `json:"status,omitempty"`
	Priority         *consts.TaskPriority  `json:"priority,omitempty"`
	StartDate        *time.Time            `json:"startDate,omitempty"`
	Deadline         *time.Time            `json:"deadline,omitempty"`
	Budget           *float64              `json:"budget,omitempty"`
	ProjectManagerID *string               `json:"projectManagerId,omitempty"`
}
