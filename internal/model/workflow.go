package model

import (
	"math"
	"sort"
	"time"

	"github.com/praxisware/tpflow/internal/consts"
)

// ProjectWorkflow is the ordered step sequence instantiated for one
// project from a named template.
type ProjectWorkflow struct {
	ID           string    `gorm:"primaryKey;type:char(36)" json:"id"`
	ProjectID    string    `gorm:"type:char(36);not null;uniqueIndex" json:"projectId"`
	TemplateName string    `gorm:"type:varchar(128);not null" json:"templateName"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (ProjectWorkflow) TableName() string { return "project_workflows" }

// WorkflowStep is one stage of a workflow. StepOrder values are unique
// within a workflow and define the only valid display and progress
// sequence; consumers must sort by StepOrder, never trust slice position.
type WorkflowStep struct {
	ID            string            `gorm:"primaryKey;type:char(36)" json:"id"`
	WorkflowID    string            `gorm:"type:char(36);not null;index" json:"workflowId"`
	Name          string            `gorm:"type:varchar(255);not null" json:"name"`
	StepOrder     int               `gorm:"column:step_order;not null" json:"order"`
	Status        consts.StepStatus `gorm:"type:varchar(32);not null" json:"status"`
	AssignedToID  *string           `gorm:"type:char(36)" json:"assignedToId,omitempty"`
	StartDate     *time.Time        `json:"startDate,omitempty"`
	CompletedDate *time.Time        `json:"completedDate,omitempty"`
	EstimatedDays int               `gorm:"not null;default:0" json:"estimatedDays"`
	ActualDays    *int              `json:"actualDays,omitempty"`
	Notes         string            `gorm:"type:text" json:"notes,omitempty"`
	Version       int               `gorm:"not null;default:1" json:"version"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

func (WorkflowStep) TableName() string { return "workflow_steps" }

// SortSteps orders steps by StepOrder, ties broken by insertion order.
func SortSteps(steps []WorkflowStep) {
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].StepOrder < steps[j].StepOrder
	})
}

// WorkflowProgress is the derived summary over one workflow's steps.
// Always recomputed from the step rows, never cached.
type WorkflowProgress struct {
	TotalSteps              int        `json:"totalSteps"`
	CompletedSteps          int        `json:"completedSteps"`
	InProgressSteps         int        `json:"inProgressSteps"`
	NotStartedSteps         int        `json:"notStartedSteps"`
	BlockedSteps            int        `json:"blockedSteps"`
	PercentComplete         int        `json:"percentComplete"`
	EstimatedCompletionDate *time.Time `json:"estimatedCompletionDate,omitempty"`
	IsOnTrack               bool       `json:"isOnTrack"`
}

// ComputeWorkflowProgress derives the progress summary at the given
// instant. On-track means no blocked step and no unfinished step whose
// estimated window (startDate + estimatedDays) has already elapsed.
func ComputeWorkflowProgress(steps []WorkflowStep, now time.Time) WorkflowProgress {
	p := WorkflowProgress{TotalSteps: len(steps), IsOnTrack: true}
	var lastEstimate *time.Time
	for i := range steps {
		step := &steps[i]
		switch step.Status {
		case consts.StepStatusCompleted:
			p.CompletedSteps++
		case consts.StepStatusInProgress:
			p.InProgressSteps++
		case consts.StepStatusBlocked:
			p.BlockedSteps++
			p.IsOnTrack = false
		default:
			p.NotStartedSteps++
		}
		if step.Status != consts.StepStatusCompleted && step.StartDate != nil && step.EstimatedDays > 0 {
			due := step.StartDate.AddDate(0, 0, step.EstimatedDays)
			if due.Before(now) {
				p.IsOnTrack = false
			}
			if lastEstimate == nil || due.After(*lastEstimate) {
				lastEstimate = &due
			}
		}
	}
	if p.TotalSteps > 0 {
		p.PercentComplete = int(math.Round(100 * float64(p.CompletedSteps) / float64(p.TotalSteps)))
	}
	p.EstimatedCompletionDate = lastEstimate
	return p
}
