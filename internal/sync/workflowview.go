package sync

import (
	"context"
	stdsync "sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/praxisware/tpflow/internal/client"
	"github.com/praxisware/tpflow/internal/consts"
	"github.com/praxisware/tpflow/internal/model"
)

// WorkflowSnapshot is the read-only view of one project's workflow state.
type WorkflowSnapshot struct {
	Template  string
	Steps     []model.WorkflowStep
	Progress  *model.WorkflowProgress
	IsLoading bool
	Err       string
}

// WorkflowView mirrors the Workflow Progress View: the ordered step list
// plus the server-computed progress summary for a single project. Steps
// and progress are fetched concurrently and treated as a joint unit, so
// the percent number can never disagree with the step list on display.
type WorkflowView struct {
	api       client.API
	projectID string

	// OnChange, when set, is invoked after every committed state change,
	// outside the lock.
	OnChange func()

	mu        stdsync.Mutex
	template  string
	steps     []model.WorkflowStep
	progress  *model.WorkflowProgress
	isLoading bool
	errMsg    string
	gen       uint64

	now func() time.Time
}

func NewWorkflowView(api client.API, projectID string) *WorkflowView {
	return &WorkflowView{
		api:       api,
		projectID: projectID,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (v *WorkflowView) notify() {
	if v.OnChange != nil {
		v.OnChange()
	}
}

// Snapshot returns a value copy of the current state.
func (v *WorkflowView) Snapshot() WorkflowSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	steps := make([]model.WorkflowStep, len(v.steps))
	copy(steps, v.steps)
	var progress *model.WorkflowProgress
	if v.progress != nil {
		p := *v.progress
		progress = &p
	}
	return WorkflowSnapshot{
		Template:  v.template,
		Steps:     steps,
		Progress:  progress,
		IsLoading: v.isLoading,
		Err:       v.errMsg,
	}
}

// Load fetches the step list and the progress summary concurrently. If
// either request fails the whole load fails and the previous state is
// retained.
func (v *WorkflowView) Load(ctx context.Context) error {
	v.mu.Lock()
	v.gen++
	g := v.gen
	v.isLoading = true
	v.mu.Unlock()
	v.notify()

	var (
		template string
		steps    []model.WorkflowStep
		progress *model.WorkflowProgress
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		template, steps, err = v.api.GetWorkflow(egCtx, v.projectID)
		return err
	})
	eg.Go(func() error {
		var err error
		progress, err = v.api.GetWorkflowProgress(egCtx, v.projectID)
		return err
	})
	err := eg.Wait()

	v.mu.Lock()
	if g != v.gen {
		v.mu.Unlock()
		return nil
	}
	v.isLoading = false
	if err != nil {
		v.errMsg = err.Error()
		v.mu.Unlock()
		v.notify()
		return err
	}
	v.errMsg = ""
	v.template = template
	v.steps = steps
	v.progress = progress
	v.mu.Unlock()
	v.notify()
	return nil
}

// UpdateStep applies schedule defaults, dispatches the patch, splices the
// returned step into the ordered list by id, and re-fetches progress from
// the server so the on-track rule stays authoritative there.
func (v *WorkflowView) UpdateStep(ctx context.Context, stepID string, patch model.WorkflowStepPatch) (*model.WorkflowStep, error) {
	v.applyScheduleDefaults(stepID, &patch)

	updated, err := v.api.UpdateWorkflowStep(ctx, v.projectID, stepID, patch)
	if err != nil {
		v.mu.Lock()
		v.errMsg = err.Error()
		v.mu.Unlock()
		v.notify()
		return nil, err
	}

	v.mu.Lock()
	for i := range v.steps {
		if v.steps[i].ID == updated.ID {
			v.steps[i] = *updated
			break
		}
	}
	model.SortSteps(v.steps)
	v.errMsg = ""
	v.mu.Unlock()
	v.notify()

	v.refreshProgress(ctx)
	return updated, nil
}

// applyScheduleDefaults fills startDate/completedDate when a status
// transition needs one and neither the local copy nor the caller already
// carries a date. An existing date is never overwritten.
func (v *WorkflowView) applyScheduleDefaults(stepID string, patch *model.WorkflowStepPatch) {
	if patch.Status == nil {
		return
	}
	v.mu.Lock()
	var local *model.WorkflowStep
	for i := range v.steps {
		if v.steps[i].ID == stepID {
			local = &v.steps[i]
			break
		}
	}
	now := v.now()
	switch *patch.Status {
	case consts.StepStatusInProgress:
		if patch.StartDate == nil && (local == nil || local.StartDate == nil) {
			patch.StartDate = &now
		}
	case consts.StepStatusCompleted:
		if patch.CompletedDate == nil && (local == nil || local.CompletedDate == nil) {
			patch.CompletedDate = &now
		}
	}
	v.mu.Unlock()
}

// refreshProgress re-fetches only the summary. A failure here marks the
// progress as stale via the error message but keeps the step list.
func (v *WorkflowView) refreshProgress(ctx context.Context) {
	progress, err := v.api.GetWorkflowProgress(ctx, v.projectID)
	v.mu.Lock()
	if err != nil {
		v.errMsg = err.Error()
		v.mu.Unlock()
		v.notify()
		return
	}
	v.progress = progress
	v.mu.Unlock()
	v.notify()
}

// Convenience transitions used by the board.

func (v *WorkflowView) StartStep(ctx context.Context, stepID string) (*model.WorkflowStep, error) {
	status := consts.StepStatusInProgress
	return v.UpdateStep(ctx, stepID, model.WorkflowStepPatch{Status: &status})
}

func (v *WorkflowView) CompleteStep(ctx context.Context, stepID string) (*model.WorkflowStep, error) {
	status := consts.StepStatusCompleted
	return v.UpdateStep(ctx, stepID, model.WorkflowStepPatch{Status: &status})
}

func (v *WorkflowView) BlockStep(ctx context.Context, stepID string, notes string) (*model.WorkflowStep, error) {
	status := consts.StepStatusBlocked
	patch := model.WorkflowStepPatch{Status: &status}
	if notes != "" {
		patch.Notes = &notes
	}
	return v.UpdateStep(ctx, stepID, patch)
}

func (v *WorkflowView) AssignStep(ctx context.Context, stepID, userID string) (*model.WorkflowStep, error) {
	return v.UpdateStep(ctx, stepID, model.WorkflowStepPatch{AssignedToID: &userID})
}
