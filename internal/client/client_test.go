package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/praxisware/tpflow/internal/components/httpclient"
	"github.com/praxisware/tpflow/internal/consts"
	"github.com/praxisware/tpflow/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	hc := &httpclient.InstrumentedClient{
		Name:    "tpflow_api",
		BaseURL: srv.URL,
		Client:  srv.Client(),
	}
	return New(hc, NewSession("test-token")), srv
}

func TestListTasksQueryEncoding(t *testing.T) {
	var gotQuery map[string][]string
	var gotAuth string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success":    true,
			"data":       []model.Task{{ID: "t1", Title: "a", Status: consts.TaskStatusTodo}},
			"pagination": model.Pagination{Page: 1, Limit: 50, Total: 1, TotalPages: 1},
		})
	})

	f := model.TaskFilters{Status: "todo", Search: "bug", Tags: []string{"oecd", "oecd"}}
	tasks, p, err := c.ListTasks(context.Background(), f, 1, 50)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tasks) != 1 || p.Total != 1 {
		t.Fatalf("tasks %d pagination %+v", len(tasks), p)
	}
	if got := gotQuery["status"]; len(got) != 1 || got[0] != "todo" {
		t.Fatalf("status param %v", got)
	}
	if got := gotQuery["tags"]; len(got) != 1 || got[0] != "oecd" {
		t.Fatalf("tags param %v", got)
	}
	// Unconstrained dimensions are absent, not "all".
	if _, present := gotQuery["priority"]; present {
		t.Fatal("priority param sent for unconstrained filter")
	}
	if gotAuth != "Bearer test-token" {
		t.Fatalf("auth header %q", gotAuth)
	}
}

func TestServerMessagePreferred(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "title is required"})
	})

	_, err := c.CreateTask(context.Background(), model.Task{})
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type %T", err)
	}
	if apiErr.Message != "title is required" || apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("error %+v", apiErr)
	}
}

func TestFallbackMessageOnOpaqueFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>gateway error</html>"))
	})

	_, err := c.GetTaskStats(context.Background(), "")
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "failed to load task stats" {
		t.Fatalf("message %q", err.Error())
	}
}

func TestUnauthorizedHook(t *testing.T) {
	fired := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "session expired"})
	})
	c.session.OnUnauthorized = func() { fired++ }

	if err := c.DeleteTask(context.Background(), "t1"); err == nil {
		t.Fatal("expected error")
	}
	if fired != 1 {
		t.Fatalf("hook fired %d times", fired)
	}
}

func TestStatsBucketsFilled(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// Sparse payload: producer omitted empty buckets.
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"total": 2, "byStatus": map[string]int{"todo": 2}},
		})
	})

	stats, err := c.GetTaskStats(context.Background(), "p1")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.ByStatus[consts.TaskStatusTodo] != 2 {
		t.Fatalf("todo bucket %d", stats.ByStatus[consts.TaskStatusTodo])
	}
	if _, ok := stats.ByStatus[consts.TaskStatusReview]; !ok {
		t.Fatal("missing zero bucket")
	}
	if len(stats.ByPriority) != len(consts.AllTaskPriorities) {
		t.Fatalf("priority buckets %d", len(stats.ByPriority))
	}
}

func TestWorkflowStepsSorted(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"template": "tp_documentation",
				"steps": []map[string]any{
					{"id": "s3", "order": 3, "status": "not_started"},
					{"id": "s1", "order": 1, "status": "completed"},
					{"id": "s2", "order": 2, "status": "in_progress"},
				},
			},
		})
	})

	tmpl, steps, err := c.GetWorkflow(context.Background(), "p1")
	if err != nil {
		t.Fatalf("get workflow failed: %v", err)
	}
	if tmpl != "tp_documentation" || len(steps) != 3 {
		t.Fatalf("template %q steps %d", tmpl, len(steps))
	}
	if steps[0].ID != "s1" || steps[2].ID != "s3" {
		t.Fatalf("steps not ordered: %v %v %v", steps[0].ID, steps[1].ID, steps[2].ID)
	}
}
