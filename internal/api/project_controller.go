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

type ProjectController struct {
	*core.BaseComponent
	Svc *service.ProjectService `infra:"dep:project_service"`
}

func NewProjectController() *ProjectController {
	return &ProjectController{BaseComponent: core.NewBaseComponent(consts.COMP_CTRL_PROJECT, consts.COMP_SVC_PROJECT)}
}

// GET /api/v1/projects
func (c *ProjectController) List(w http.ResponseWriter, r *http.Request) {
	f := &model.ProjectFilters{
		Status:   filterParam(r, "status"),
		ClientID: filterParam(r, "clientId"),
		Search:   strings.TrimSpace(r.URL.Query().Get("search")),
	}
	if f.Status != "" && !consts.ProjectStatus(f.Status).Valid() {
		writeErr(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", f.Status))
		return
	}
	page, limit := parsePageLimit(r)
	list, p, err := c.Svc.List(r.Context(), f, page, limit)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	if list == nil {
		list = []*model.Project{}
	}
	writeList(w, list, p)
}

// POST /api/v1/projects
func (c *ProjectController) Create(w http.ResponseWriter, r *http.Request) {
	var req model.Project
	if !decodeJSON(r, &req) {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.ProjectName) == "" {
		writeErr(w, http.StatusBadRequest, "projectName is required")
		return
	}
	if req.Status != "" && !req.Status.Valid() {
		writeErr(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", req.Status))
		return
	}
	if err := c.Svc.Create(r.Context(), &req); err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusCreated, &req)
}

// GET /api/v1/projects/{id}
func (c *ProjectController) Get(w http.ResponseWriter, r *http.Request, id string) {
	p, err := c.Svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeErr(w, http.StatusNotFound, "project not found")
			return
		}
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, p)
}

// PUT /api/v1/projects/{id}
func (c *ProjectController) Update(w http.ResponseWriter, r *http.Request, id string) {
	var patch model.ProjectPatch
	if !decodeJSON(r, &patch) {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if patch.Status != nil && !patch.Status.Valid() {
		writeErr(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", *patch.Status))
		return
	}
	p, err := c.Svc.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeErr(w, http.StatusNotFound, "project not found")
			return
		}
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, p)
}

// POST /api/v1/projects/{id}/status
func (c *ProjectController) UpdateStatus(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		Status consts.ProjectStatus `json:"status"`
	}
	if !decodeJSON(r, &req) {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if !req.Status.Valid() {
		writeErr(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", req.Status))
		return
	}
	p, err := c.Svc.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeErr(w, http.StatusNotFound, "project not found")
			return
		}
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, p)
}

// DELETE /api/v1/projects/{id}
func (c *ProjectController) Delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := c.Svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeErr(w, http.StatusNotFound, "project not found")
			return
		}
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, "ok")
}
