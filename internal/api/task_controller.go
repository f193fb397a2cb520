package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/praxisware/tpflow/internal/consts"
	"github.com/praxisware/tpflow/internal/core"
	"github.com/praxisware/tpflow/internal/model"
	"github.com/praxisware/tpflow/internal/service"
)

type TaskController struct {
	*core.BaseComponent
	Svc *service.TaskService `infra:"dep:task_service"`
}

func NewTaskController() *TaskController {
	return &TaskController{BaseComponent: core.NewBaseComponent(consts.COMP_CTRL_TASK, consts.COMP_SVC_TASK)}
}

func taskFiltersFromQuery(r *http.Request) (*model.TaskFilters, error) {
	f := &model.TaskFilters{
		Status:       filterParam(r, "status"),
		Priority:     filterParam(r, "priority"),
		ProjectID:    filterParam(r, "projectId"),
		AssignedToID: filterParam(r, "assignedTo"),
		Search:       strings.TrimSpace(r.URL.Query().Get("search")),
		Tags:         parseTagsParam(r.URL.Query().Get("tags")),
		Overdue:      r.URL.Query().Get("overdue") == "true",
		DueFrom:      parseTimeParam(r, "dueFrom"),
		DueTo:        parseTimeParam(r, "dueTo"),
	}
	if f.Status != "" && !consts.TaskStatus(f.Status).Valid() {
		return nil, fmt.Errorf("unknown status %q", f.Status)
	}
	if f.Priority != "" && !consts.TaskPriority(f.Priority).Valid() {
		return nil, fmt.Errorf("unknown priority %q", f.Priority)
	}
	return f, nil
}

// GET /api/v1/tasks
func (c *TaskController) List(w http.ResponseWriter, r *http.Request) {
	f, err := taskFiltersFromQuery(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	page, limit := parsePageLimit(r)
	list, p, err := c.Svc.List(r.Context(), f, page, limit)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	if list == nil {
		list = []*model.Task{}
	}
	writeList(w, list, p)
}

// GET /api/v1/tasks/stats
func (c *TaskController) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.Svc.Stats(r.Context(), filterParam(r, "projectId"))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, stats)
}

// POST /api/v1/tasks
func (c *TaskController) Create(w http.ResponseWriter, r *http.Request) {
	var req model.Task
	if !decodeJSON(r, &req) {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeErr(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Status != "" && !req.Status.Valid() {
		writeErr(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", req.Status))
		return
	}
	if req.Priority != "" && !req.Priority.Valid() {
		writeErr(w, http.StatusBadRequest, fmt.Sprintf("unknown priority %q", req.Priority))
		return
	}
	if err := c.Svc.Create(r.Context(), &req); err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusCreated, &req)
}

// GET /api/v1/tasks/{id}
func (c *TaskController) Get(w http.ResponseWriter, r *http.Request, id string) {
	t, err := c.Svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeErr(w, http.StatusNotFound, "task not found")
			return
		}
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, t)
}

// PUT/PATCH /api/v1/tasks/{id}
func (c *TaskController) Update(w http.ResponseWriter, r *http.Request, id string) {
	var patch model.TaskPatch
	if !decodeJSON(r, &patch) {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if patch.Status != nil && !patch.Status.Valid() {
		writeErr(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", *patch.Status))
		return
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		writeErr(w, http.StatusBadRequest, fmt.Sprintf("unknown priority %q", *patch.Priority))
		return
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		writeErr(w, http.StatusBadRequest, "title cannot be empty")
		return
	}
	t, err := c.Svc.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeErr(w, http.StatusNotFound, "task not found")
			return
		}
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, t)
}

// PATCH /api/v1/tasks/{id}/status
func (c *TaskController) UpdateStatus(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		Status consts.TaskStatus `json:"status"`
	}
	if !decodeJSON(r, &req) {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if !req.Status.Valid() {
		writeErr(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", req.Status))
		return
	}
	t, err := c.Svc.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeErr(w, http.StatusNotFound, "task not found")
			return
		}
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, t)
}

// DELETE /api/v1/tasks/{id}
func (c *TaskController) Delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := c.Svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeErr(w, http.StatusNotFound, "task not found")
			return
		}
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, "ok")
}
