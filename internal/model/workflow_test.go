package model

import (
	"testing"
	"time"

	"github.com/praxisware/tpflow/internal/consts"
)

func TestSortSteps(t *testing.T) {
	steps := []WorkflowStep{
		{ID: "c", StepOrder: 3},
		{ID: "a", StepOrder: 1},
		{ID: "b", StepOrder: 2},
	}
	SortSteps(steps)
	if steps[0].ID != "a" || steps[1].ID != "b" || steps[2].ID != "c" {
		t.Fatalf("sorted order %v %v %v", steps[0].ID, steps[1].ID, steps[2].ID)
	}
}

func TestComputeWorkflowProgress(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	p := ComputeWorkflowProgress(nil, now)
	if p.TotalSteps != 0 || p.PercentComplete != 0 || !p.IsOnTrack {
		t.Fatalf("empty workflow progress %+v", p)
	}

	steps := []WorkflowStep{
		{StepOrder: 1, Status: consts.StepStatusCompleted},
		{StepOrder: 2, Status: consts.StepStatusInProgress},
		{StepOrder: 3, Status: consts.StepStatusNotStarted},
	}
	p = ComputeWorkflowProgress(steps, now)
	if p.CompletedSteps != 1 || p.InProgressSteps != 1 || p.NotStartedSteps != 1 {
		t.Fatalf("bucket counts %+v", p)
	}
	if p.PercentComplete != 33 {
		t.Fatalf("percent %d want 33", p.PercentComplete)
	}
	if !p.IsOnTrack {
		t.Fatalf("expected on track")
	}
}

func TestProgressOffTrack(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	started := now.AddDate(0, 0, -10)

	blocked := []WorkflowStep{{StepOrder: 1, Status: consts.StepStatusBlocked}}
	if ComputeWorkflowProgress(blocked, now).IsOnTrack {
		t.Fatal("blocked step must be off track")
	}

	overdue := []WorkflowStep{{
		StepOrder:     1,
		Status:        consts.StepStatusInProgress,
		StartDate:     &started,
		EstimatedDays: 5,
	}}
	p := ComputeWorkflowProgress(overdue, now)
	if p.IsOnTrack {
		t.Fatal("overdue step must be off track")
	}
	if p.EstimatedCompletionDate == nil || !p.EstimatedCompletionDate.Equal(started.AddDate(0, 0, 5)) {
		t.Fatalf("estimated completion %v", p.EstimatedCompletionDate)
	}

	// Completed late steps do not pull the workflow off track.
	doneLate := []WorkflowStep{{
		StepOrder:     1,
		Status:        consts.StepStatusCompleted,
		StartDate:     &started,
		EstimatedDays: 5,
	}}
	if !ComputeWorkflowProgress(doneLate, now).IsOnTrack {
		t.Fatal("completed step must not flag off track")
	}
}

func TestProgressRounding(t *testing.T) {
	steps := make([]WorkflowStep, 6)
	for i := range steps {
		steps[i] = WorkflowStep{StepOrder: i + 1, Status: consts.StepStatusNotStarted}
	}
	steps[0].Status = consts.StepStatusCompleted
	p := ComputeWorkflowProgress(steps, time.Now())
	if p.PercentComplete != 17 { // round(100/6)
		t.Fatalf("percent %d want 17", p.PercentComplete)
	}
}
