package service

import (
	"context"
	"fmt"
	"time"

	"github.com/praxisware/tpflow/internal/consts"
	"github.com/praxisware/tpflow/internal/core"
	"github.com/praxisware/tpflow/internal/dao"
	"github.com/praxisware/tpflow/internal/model"
)

// stepTemplate seeds one workflow step when a template is instantiated.
type stepTemplate struct {
	Name          string
	EstimatedDays int
}

// workflowTemplates holds the deliverable playbooks a project workflow can
// be instantiated from. Step order follows slice position.
var workflowTemplates = map[string][]stepTemplate{
	"tp_documentation": {
		{Name: "Engagement kickoff", EstimatedDays: 2},
		{Name: "Data collection", EstimatedDays: 10},
		{Name: "Functional analysis", EstimatedDays: 7},
		{Name: "Benchmarking study", EstimatedDays: 10},
		{Name: "Draft report", EstimatedDays: 7},
		{Name: "Internal review", EstimatedDays: 3},
		{Name: "Final deliverable", EstimatedDays: 2},
	},
	"benchmarking_only": {
		{Name: "Scoping call", EstimatedDays: 1},
		{Name: "Comparable search", EstimatedDays: 7},
		{Name: "Financial screening", EstimatedDays: 5},
		{Name: "Benchmark memo", EstimatedDays: 3},
	},
}

// DefaultWorkflowTemplate is used when a create request names no template.
const DefaultWorkflowTemplate = "tp_documentation"

// WorkflowService owns step transitions and the derived progress summary.
// Progress is recomputed from the step rows on every call, never cached.
type WorkflowService struct {
	*core.BaseComponent
	WorkflowDao dao.WorkflowDao `infra:"dep:workflow_dao"`

	now func() time.Time
}

func NewWorkflowService() *WorkflowService {
	return &WorkflowService{
		BaseComponent: core.NewBaseComponent(consts.COMP_SVC_WORKFLOW, consts.COMP_DAO_WORKFLOW),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// CreateFromTemplate instantiates the named template for a project.
func (s *WorkflowService) CreateFromTemplate(ctx context.Context, projectID, templateName string) (*model.ProjectWorkflow, []model.WorkflowStep, error) {
	if templateName == "" {
		templateName = DefaultWorkflowTemplate
	}
	tmpl, ok := workflowTemplates[templateName]
	if !ok {
		return nil, nil, fmt.Errorf("unknown workflow template %q", templateName)
	}
	wf := &model.ProjectWorkflow{ProjectID: projectID, TemplateName: templateName}
	steps := make([]model.WorkflowStep, len(tmpl))
	for i, st := range tmpl {
		steps[i] = model.WorkflowStep{
			Name:          st.Name,
			StepOrder:     i + 1,
			Status:        consts.StepStatusNotStarted,
			EstimatedDays: st.EstimatedDays,
		}
	}
	if err := s.WorkflowDao.CreateWorkflow(ctx, wf, steps); err != nil {
		return nil, nil, err
	}
	return wf, steps, nil
}

// GetWorkflow returns the workflow and its steps in step_order sequence.
func (s *WorkflowService) GetWorkflow(ctx context.Context, projectID string) (*model.ProjectWorkflow, []model.WorkflowStep, error) {
	wf, steps, err := s.WorkflowDao.GetByProject(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	model.SortSteps(steps)
	return wf, steps, nil
}

// Progress derives the summary from the current step rows.
func (s *WorkflowService) Progress(ctx context.Context, projectID string) (*model.WorkflowProgress, error) {
	_, steps, err := s.WorkflowDao.GetByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	p := model.ComputeWorkflowProgress(steps, s.now())
	return &p, nil
}

// UpdateStep patches one step of the project's workflow. Status
// transitions fill schedule defaults: entering in_progress records a
// start date, entering completed records a completed date. An existing
// date is never overwritten.
func (s *WorkflowService) UpdateStep(ctx context.Context, projectID, stepID string, patch model.WorkflowStepPatch) (*model.WorkflowStep, error) {
	step, err := s.WorkflowDao.GetStep(ctx, stepID)
	if err != nil {
		return nil, err
	}
	wf, _, err := s.WorkflowDao.GetByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if step.WorkflowID != wf.ID {
		return nil, fmt.Errorf("step %s does not belong to project %s", stepID, projectID)
	}

	if patch.Status != nil {
		now := s.now()
		switch *patch.Status {
		case consts.StepStatusInProgress:
			if step.StartDate == nil && patch.StartDate == nil {
				patch.StartDate = &now
			}
		case consts.StepStatusCompleted:
			if step.CompletedDate == nil && patch.CompletedDate == nil {
				patch.CompletedDate = &now
			}
		}
	}
	return s.WorkflowDao.UpdateStep(ctx, stepID, patch)
}
