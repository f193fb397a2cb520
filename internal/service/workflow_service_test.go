package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/praxisware/tpflow/internal/consts"
	"github.com/praxisware/tpflow/internal/core"
	"github.com/praxisware/tpflow/internal/model"
)

// stubWorkflowDao implements dao.WorkflowDao for WorkflowService tests.
type stubWorkflowDao struct {
	*core.BaseComponent
	workflows map[string]*model.ProjectWorkflow // keyed by projectID
	steps     map[string]*model.WorkflowStep    // keyed by stepID
}

func newStubWorkflowDao() *stubWorkflowDao {
	return &stubWorkflowDao{
		BaseComponent: core.NewBaseComponent("workflow_dao"),
		workflows:     map[string]*model.ProjectWorkflow{},
		steps:         map[string]*model.WorkflowStep{},
	}
}

func (s *stubWorkflowDao) CreateWorkflow(ctx context.Context, wf *model.ProjectWorkflow, steps []model.WorkflowStep) error {
	if wf.ID == "" {
		wf.ID = "wf-" + wf.ProjectID
	}
	s.workflows[wf.ProjectID] = wf
	for i := range steps {
		step := &steps[i]
		step.WorkflowID = wf.ID
		if step.ID == "" {
			step.ID = fmt.Sprintf("%s-step-%d", wf.ID, i+1)
		}
		cp := *step
		s.steps[step.ID] = &cp
	}
	return nil
}

func (s *stubWorkflowDao) GetByProject(ctx context.Context, projectID string) (*model.ProjectWorkflow, []model.WorkflowStep, error) {
	wf, ok := s.workflows[projectID]
	if !ok {
		return nil, nil, fmt.Errorf("workflow for project %s not found", projectID)
	}
	var steps []model.WorkflowStep
	for _, st := range s.steps {
		if st.WorkflowID == wf.ID {
			steps = append(steps, *st)
		}
	}
	model.SortSteps(steps)
	return wf, steps, nil
}

func (s *stubWorkflowDao) GetStep(ctx context.Context, stepID string) (*model.WorkflowStep, error) {
	st, ok := s.steps[stepID]
	if !ok {
		return nil, fmt.Errorf("step %s not found", stepID)
	}
	cp := *st
	return &cp, nil
}

func (s *stubWorkflowDao) UpdateStep(ctx context.Context, stepID string, patch model.WorkflowStepPatch) (*model.WorkflowStep, error) {
	st, ok := s.steps[stepID]
	if !ok {
		return nil, fmt.Errorf("step %s not found", stepID)
	}
	if patch.Status != nil {
		st.Status = *patch.Status
	}
	if patch.StartDate != nil {
		st.StartDate = patch.StartDate
	}
	if patch.CompletedDate != nil {
		st.CompletedDate = patch.CompletedDate
	}
	if patch.AssignedToID != nil {
		st.AssignedToID = patch.AssignedToID
	}
	st.Version++
	cp := *st
	return &cp, nil
}

func (s *stubWorkflowDao) DeleteByProject(ctx context.Context, projectID string) error {
	wf, ok := s.workflows[projectID]
	if !ok {
		return fmt.Errorf("workflow for project %s not found", projectID)
	}
	for id, st := range s.steps {
		if st.WorkflowID == wf.ID {
			delete(s.steps, id)
		}
	}
	delete(s.workflows, projectID)
	return nil
}

func newTestWorkflowService(da *stubWorkflowDao, now time.Time) *WorkflowService {
	ws := NewWorkflowService()
	ws.WorkflowDao = da
	ws.now = func() time.Time { return now }
	return ws
}

func TestCreateFromTemplate(t *testing.T) {
	da := newStubWorkflowDao()
	ws := newTestWorkflowService(da, time.Now())
	ctx := context.Background()

	wf, steps, err := ws.CreateFromTemplate(ctx, "p1", "")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if wf.TemplateName != DefaultWorkflowTemplate {
		t.Fatalf("template %s", wf.TemplateName)
	}
	if len(steps) != len(workflowTemplates[DefaultWorkflowTemplate]) {
		t.Fatalf("steps %d", len(steps))
	}
	for i, st := range steps {
		if st.StepOrder != i+1 || st.Status != consts.StepStatusNotStarted {
			t.Fatalf("step %d: order %d status %s", i, st.StepOrder, st.Status)
		}
	}

	if _, _, err := ws.CreateFromTemplate(ctx, "p2", "no_such_template"); err == nil {
		t.Fatal("unknown template must fail")
	}
}

func TestUpdateStepAutoDates(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	da := newStubWorkflowDao()
	ws := newTestWorkflowService(da, now)
	ctx := context.Background()

	_, steps, err := ws.CreateFromTemplate(ctx, "p1", "benchmarking_only")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	stepID := steps[0].ID

	inProgress := consts.StepStatusInProgress
	st, err := ws.UpdateStep(ctx, "p1", stepID, model.WorkflowStepPatch{Status: &inProgress})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if st.StartDate == nil || !st.StartDate.Equal(now) {
		t.Fatalf("start date %v want %v", st.StartDate, now)
	}

	// A recorded start date is never overwritten by a later transition.
	later := now.Add(24 * time.Hour)
	ws.now = func() time.Time { return later }
	st, err = ws.UpdateStep(ctx, "p1", stepID, model.WorkflowStepPatch{Status: &inProgress})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !st.StartDate.Equal(now) {
		t.Fatalf("start date overwritten: %v", st.StartDate)
	}

	completed := consts.StepStatusCompleted
	st, err = ws.UpdateStep(ctx, "p1", stepID, model.WorkflowStepPatch{Status: &completed})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if st.CompletedDate == nil || !st.CompletedDate.Equal(later) {
		t.Fatalf("completed date %v want %v", st.CompletedDate, later)
	}

	// Caller-supplied dates win over the derived default.
	supplied := now.Add(-48 * time.Hour)
	other := steps[1].ID
	st, err = ws.UpdateStep(ctx, "p1", other, model.WorkflowStepPatch{Status: &completed, CompletedDate: &supplied})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !st.CompletedDate.Equal(supplied) {
		t.Fatalf("completed date %v want %v", st.CompletedDate, supplied)
	}
}

func TestUpdateStepWrongProject(t *testing.T) {
	da := newStubWorkflowDao()
	ws := newTestWorkflowService(da, time.Now())
	ctx := context.Background()

	_, steps, _ := ws.CreateFromTemplate(ctx, "p1", "benchmarking_only")
	if _, _, err := ws.CreateFromTemplate(ctx, "p2", "benchmarking_only"); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	blocked := consts.StepStatusBlocked
	if _, err := ws.UpdateStep(ctx, "p2", steps[0].ID, model.WorkflowStepPatch{Status: &blocked}); err == nil {
		t.Fatal("cross-project step update must fail")
	}
}

func TestWorkflowProgress(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	da := newStubWorkflowDao()
	ws := newTestWorkflowService(da, now)
	ctx := context.Background()

	_, steps, _ := ws.CreateFromTemplate(ctx, "p1", "benchmarking_only")
	completed := consts.StepStatusCompleted
	if _, err := ws.UpdateStep(ctx, "p1", steps[0].ID, model.WorkflowStepPatch{Status: &completed}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	p, err := ws.Progress(ctx, "p1")
	if err != nil {
		t.Fatalf("progress failed: %v", err)
	}
	if p.TotalSteps != 4 || p.CompletedSteps != 1 || p.PercentComplete != 25 {
		t.Fatalf("progress %+v", p)
	}
	if !p.IsOnTrack {
		t.Fatal("expected on track")
	}
}
