package api

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"github.com/praxisware/tpflow/internal/consts"
	"github.com/praxisware/tpflow/internal/core"
	"github.com/praxisware/tpflow/internal/model"
	"github.com/praxisware/tpflow/internal/service"
)

type WorkflowController struct {
	*core.BaseComponent
	Svc *service.WorkflowService `infra:"dep:workflow_service"`
}

func NewWorkflowController() *WorkflowController {
	return &WorkflowController{BaseComponent: core.NewBaseComponent(consts.COMP_CTRL_WORKFLOW, consts.COMP_SVC_WORKFLOW)}
}

// workflowPayload is the GET response: the template name plus the steps
// in step_order sequence.
type workflowPayload struct {
	Template string               `json:"template"`
	Steps    []model.WorkflowStep `json:"steps"`
}

// GET /api/v1/projects/{id}/workflow
func (c *WorkflowController) Get(w http.ResponseWriter, r *http.Request, projectID string) {
	wf, steps, err := c.Svc.GetWorkflow(r.Context(), projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeErr(w, http.StatusNotFound, "workflow not found")
			return
		}
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	if steps == nil {
		steps = []model.WorkflowStep{}
	}
	writeData(w, http.StatusOK, workflowPayload{Template: wf.TemplateName, Steps: steps})
}

// POST /api/v1/projects/{id}/workflow
func (c *WorkflowController) Create(w http.ResponseWriter, r *http.Request, projectID string) {
	var req struct {
		TemplateName string `json:"templateName"`
	}
	if !decodeJSON(r, &req) {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	wf, steps, err := c.Svc.CreateFromTemplate(r.Context(), projectID, req.TemplateName)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	writeData(w, http.StatusCreated, workflowPayload{Template: wf.TemplateName, Steps: steps})
}

// GET /api/v1/projects/{id}/workflow/progress
func (c *WorkflowController) Progress(w http.ResponseWriter, r *http.Request, projectID string) {
	p, err := c.Svc.Progress(r.Context(), projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeErr(w, http.StatusNotFound, "workflow not found")
			return
		}
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, p)
}

// PUT /api/v1/projects/{id}/workflow/{stepId}
func (c *WorkflowController) UpdateStep(w http.ResponseWriter, r *http.Request, projectID, stepID string) {
	var patch model.WorkflowStepPatch
	if !decodeJSON(r, &patch) {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if patch.Status != nil && !patch.Status.Valid() {
		writeErr(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", *patch.Status))
		return
	}
	step, err := c.Svc.UpdateStep(r.Context(), projectID, stepID, patch)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeErr(w, http.StatusNotFound, "workflow step not found")
			return
		}
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, step)
}
