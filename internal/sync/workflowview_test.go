package sync

import (
	"context"
	"testing"
	"time"

	"github.com/praxisware/tpflow/internal/consts"
	"github.com/praxisware/tpflow/internal/model"
)

func seedWorkflow(f *fakeAPI) {
	f.template = "tp_documentation"
	f.steps = []model.WorkflowStep{
		{ID: "s1", StepOrder: 1, Status: consts.StepStatusCompleted},
		{ID: "s2", StepOrder: 2, Status: consts.StepStatusInProgress},
		{ID: "s3", StepOrder: 3, Status: consts.StepStatusNotStarted},
	}
	f.progress = model.WorkflowProgress{
		TotalSteps: 3, CompletedSteps: 1, InProgressSteps: 1, NotStartedSteps: 1,
		PercentComplete: 33, IsOnTrack: true,
	}
}

func TestWorkflowLoad(t *testing.T) {
	f := newFakeAPI()
	seedWorkflow(f)
	view := NewWorkflowView(f, "p1")

	if err := view.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	snap := view.Snapshot()
	if snap.Template != "tp_documentation" || len(snap.Steps) != 3 {
		t.Fatalf("snapshot %+v", snap)
	}
	if snap.Progress == nil || snap.Progress.PercentComplete != 33 {
		t.Fatalf("progress %+v", snap.Progress)
	}
	if snap.Steps[0].ID != "s1" || snap.Steps[2].ID != "s3" {
		t.Fatal("steps not ordered")
	}
}

func TestWorkflowLoadJointFailure(t *testing.T) {
	f := newFakeAPI()
	seedWorkflow(f)
	view := NewWorkflowView(f, "p1")
	ctx := context.Background()

	_ = view.Load(ctx)

	// Either leg failing fails the whole load; previous state retained.
	f.failWfProg = true
	if err := view.Load(ctx); err == nil {
		t.Fatal("expected load error")
	}
	snap := view.Snapshot()
	if len(snap.Steps) != 3 || snap.Progress == nil {
		t.Fatalf("previous state lost: %+v", snap)
	}
	if snap.Err == "" {
		t.Fatal("error not surfaced")
	}
}

func TestUpdateStepAutoCompletedDate(t *testing.T) {
	f := newFakeAPI()
	seedWorkflow(f)
	view := NewWorkflowView(f, "p1")
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	view.now = func() time.Time { return now }
	ctx := context.Background()
	_ = view.Load(ctx)

	status := consts.StepStatusCompleted
	step, err := view.UpdateStep(ctx, "s2", model.WorkflowStepPatch{Status: &status})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if step.CompletedDate == nil || !step.CompletedDate.Equal(now) {
		t.Fatalf("completed date %v", step.CompletedDate)
	}
	if f.lastStep.CompletedDate == nil {
		t.Fatal("default date not sent to server")
	}
}

func TestUpdateStepKeepsExistingDate(t *testing.T) {
	f := newFakeAPI()
	seedWorkflow(f)
	existing := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	f.steps[1].CompletedDate = &existing
	view := NewWorkflowView(f, "p1")
	ctx := context.Background()
	_ = view.Load(ctx)

	status := consts.StepStatusCompleted
	if _, err := view.UpdateStep(ctx, "s2", model.WorkflowStepPatch{Status: &status}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if f.lastStep.CompletedDate != nil {
		t.Fatalf("existing date overwritten with %v", f.lastStep.CompletedDate)
	}
}

func TestUpdateStepRefetchesProgress(t *testing.T) {
	f := newFakeAPI()
	seedWorkflow(f)
	view := NewWorkflowView(f, "p1")
	ctx := context.Background()
	_ = view.Load(ctx)

	f.mu.Lock()
	f.progress.CompletedSteps = 2
	f.progress.PercentComplete = 67
	calls := f.wfProgCalls
	f.mu.Unlock()

	status := consts.StepStatusCompleted
	if _, err := view.UpdateStep(ctx, "s2", model.WorkflowStepPatch{Status: &status}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if f.wfProgCalls != calls+1 {
		t.Fatal("progress not re-fetched after step update")
	}
	snap := view.Snapshot()
	if snap.Progress.PercentComplete != 67 {
		t.Fatalf("progress %+v", snap.Progress)
	}
	// Patched in place, order preserved.
	if snap.Steps[1].ID != "s2" || snap.Steps[1].Status != consts.StepStatusCompleted {
		t.Fatalf("step %+v", snap.Steps[1])
	}
}

func TestUpdateStepFailureKeepsState(t *testing.T) {
	f := newFakeAPI()
	seedWorkflow(f)
	view := NewWorkflowView(f, "p1")
	ctx := context.Background()
	_ = view.Load(ctx)

	f.failWfStep = true
	status := consts.StepStatusBlocked
	if _, err := view.UpdateStep(ctx, "s3", model.WorkflowStepPatch{Status: &status}); err == nil {
		t.Fatal("expected update error")
	}
	snap := view.Snapshot()
	if snap.Steps[2].Status != consts.StepStatusNotStarted {
		t.Fatalf("local step mutated on failure: %+v", snap.Steps[2])
	}
	if snap.Err != "failed to update workflow step" {
		t.Fatalf("error %q", snap.Err)
	}
}

func TestStepConvenienceTransitions(t *testing.T) {
	f := newFakeAPI()
	seedWorkflow(f)
	view := NewWorkflowView(f, "p1")
	ctx := context.Background()
	_ = view.Load(ctx)

	step, err := view.StartStep(ctx, "s3")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if step.Status != consts.StepStatusInProgress || step.StartDate == nil {
		t.Fatalf("step %+v", step)
	}

	if _, err := view.BlockStep(ctx, "s3", "waiting on client data"); err != nil {
		t.Fatalf("block failed: %v", err)
	}
	if f.lastStep.Notes == nil || *f.lastStep.Notes != "waiting on client data" {
		t.Fatal("notes not sent")
	}

	if _, err := view.AssignStep(ctx, "s3", "user-9"); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if f.lastStep.AssignedToID == nil || *f.lastStep.AssignedToID != "user-9" {
		t.Fatal("assignee not sent")
	}
}
