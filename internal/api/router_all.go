package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/praxisware/tpflow/internal/components/httpserver"
	"github.com/praxisware/tpflow/internal/consts"
	"github.com/praxisware/tpflow/internal/core"
)

// Unified route registration. Controllers are resolved from the container
// when the HTTP server starts, after all components are built.
func init() {
	httpserver.RegisterRoutes(func(r chi.Router, c *core.Container) error {
		taskComp, err := c.Resolve(consts.COMP_CTRL_TASK)
		if err != nil {
			return err
		}
		taskCtrl := taskComp.(*TaskController)

		r.Route("/api/v1/tasks", func(r chi.Router) {
			r.Get("/", taskCtrl.List)
			r.Post("/", taskCtrl.Create)
			r.Get("/stats", taskCtrl.Stats)

			r.Get("/{id}", func(w http.ResponseWriter, req *http.Request) {
				taskCtrl.Get(w, req, chi.URLParam(req, "id"))
			})
			r.Put("/{id}", func(w http.ResponseWriter, req *http.Request) {
				taskCtrl.Update(w, req, chi.URLParam(req, "id"))
			})
			r.Patch("/{id}", func(w http.ResponseWriter, req *http.Request) {
				taskCtrl.Update(w, req, chi.URLParam(req, "id"))
			})
			r.Patch("/{id}/status", func(w http.ResponseWriter, req *http.Request) {
				taskCtrl.UpdateStatus(w, req, chi.URLParam(req, "id"))
			})
			r.Delete("/{id}", func(w http.ResponseWriter, req *http.Request) {
				taskCtrl.Delete(w, req, chi.URLParam(req, "id"))
			})
		})

		projectComp, err := c.Resolve(consts.COMP_CTRL_PROJECT)
		if err != nil {
			return err
		}
		projectCtrl := projectComp.(*ProjectController)

		workflowComp, err := c.Resolve(consts.COMP_CTRL_WORKFLOW)
		if err != nil {
			return err
		}
		workflowCtrl := workflowComp.(*WorkflowController)

		r.Route("/api/v1/projects", func(r chi.Router) {
			r.Get("/", projectCtrl.List)
			r.Post("/", projectCtrl.Create)

			r.Get("/{id}", func(w http.ResponseWriter, req *http.Request) {
				projectCtrl.Get(w, req, chi.URLParam(req, "id"))
			})
			r.Put("/{id}", func(w http.ResponseWriter, req *http.Request) {
				projectCtrl.Update(w, req, chi.URLParam(req, "id"))
			})
			r.Post("/{id}/status", func(w http.ResponseWriter, req *http.Request) {
				projectCtrl.UpdateStatus(w, req, chi.URLParam(req, "id"))
			})
			r.Delete("/{id}", func(w http.ResponseWriter, req *http.Request) {
				projectCtrl.Delete(w, req, chi.URLParam(req, "id"))
			})

			r.Get("/{id}/workflow", func(w http.ResponseWriter, req *http.Request) {
				workflowCtrl.Get(w, req, chi.URLParam(req, "id"))
			})
			r.Post("/{id}/workflow", func(w http.ResponseWriter, req *http.Request) {
				workflowCtrl.Create(w, req, chi.URLParam(req, "id"))
			})
			r.Get("/{id}/workflow/progress", func(w http.ResponseWriter, req *http.Request) {
				workflowCtrl.Progress(w, req, chi.URLParam(req, "id"))
			})
			r.Put("/{id}/workflow/{stepId}", func(w http.ResponseWriter, req *http.Request) {
				workflowCtrl.UpdateStep(w, req, chi.URLParam(req, "id"), chi.URLParam(req, "stepId"))
			})
		})

		return nil
	})
}
