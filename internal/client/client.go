package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/praxisware/tpflow/internal/components/httpclient"
	"github.com/praxisware/tpflow/internal/consts"
	"github.com/praxisware/tpflow/internal/model"
)

// API is the remote task/workflow boundary the sync layer consumes. All
// methods return an *APIError on failure.
type API interface {
	ListTasks(ctx context.Context, f model.TaskFilters, page, limit int) ([]model.Task, model.Pagination, error)
	GetTaskStats(ctx context.Context, projectID string) (*model.TaskStats, error)
	CreateTask(ctx context.Context, t model.Task) (*model.Task, error)
	UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error)
	UpdateTaskStatus(ctx context.Context, id string, status consts.TaskStatus) (*model.Task, error)
	DeleteTask(ctx context.Context, id string) error

	GetWorkflow(ctx context.Context, projectID string) (string, []model.WorkflowStep, error)
	GetWorkflowProgress(ctx context.Context, projectID string) (*model.WorkflowProgress, error)
	UpdateWorkflowStep(ctx context.Context, projectID, stepID string, patch model.WorkflowStepPatch) (*model.WorkflowStep, error)
}

// Client implements API over the instrumented HTTP client.
type Client struct {
	http    *httpclient.InstrumentedClient
	session *Session
}

func New(hc *httpclient.InstrumentedClient, session *Session) *Client {
	return &Client{http: hc, session: session}
}

// envelope mirrors the server's response shape.
type envelope struct {
	Success    bool              `json:"success"`
	Data       json.RawMessage   `json:"data"`
	Pagination *model.Pagination `json:"pagination"`
	Message    string            `json:"message"`
}

func (c *Client) headers() map[string]string {
	if tok := c.session.Token(); tok != "" {
		return map[string]string{"Authorization": "Bearer " + tok}
	}
	return nil
}

func decodeData(env *envelope, out any) error {
	if len(env.Data) == 0 {
		return fmt.Errorf("empty data payload")
	}
	return json.Unmarshal(env.Data, out)
}

// encodeTaskFilters maps filters onto query parameters. Unconstrained
// dimensions are omitted entirely; no "all" sentinel is ever sent.
func encodeTaskFilters(f model.TaskFilters, page, limit int) map[string]string {
	q := map[string]string{
		"page":  strconv.Itoa(page),
		"limit": strconv.Itoa(limit),
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.Priority != "" {
		q["priority"] = f.Priority
	}
	if f.ProjectID != "" {
		q["projectId"] = f.ProjectID
	}
	if f.AssignedToID != "" {
		q["assignedTo"] = f.AssignedToID
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		q["search"] = s
	}
	if tags := model.NormalizeTags(f.Tags); len(tags) > 0 {
		q["tags"] = strings.Join(tags, ",")
	}
	if f.Overdue {
		q["overdue"] = "true"
	}
	if f.DueFrom != nil {
		q["dueFrom"] = f.DueFrom.Format(time.RFC3339)
	}
	if f.DueTo != nil {
		q["dueTo"] = f.DueTo.Format(time.RFC3339)
	}
	return q
}

func (c *Client) ListTasks(ctx context.Context, f model.TaskFilters, page, limit int) ([]model.Task, model.Pagination, error) {
	var env envelope
	_, err := c.http.Get(ctx, "/api/v1/tasks", encodeTaskFilters(f, page, limit), c.headers(), &env)
	if err != nil {
		return nil, model.Pagination{}, normalizeError("list_tasks", "failed to load tasks", c.session, err)
	}
	var tasks []model.Task
	if err := decodeData(&env, &tasks); err != nil {
		return nil, model.Pagination{}, &APIError{Op: "list_tasks", Message: "failed to load tasks"}
	}
	p := model.Pagination{Page: page, Limit: limit, Total: int64(len(tasks)), TotalPages: 1}
	if env.Pagination != nil {
		p = *env.Pagination
	}
	return tasks, p, nil
}

func (c *Client) GetTaskStats(ctx context.Context, projectID string) (*model.TaskStats, error) {
	query := map[string]string{}
	if projectID != "" {
		query["projectId"] = projectID
	}
	var env envelope
	_, err := c.http.Get(ctx, "/api/v1/tasks/stats", query, c.headers(), &env)
	if err != nil {
		return nil, normalizeError("task_stats", "failed to load task stats", c.session, err)
	}
	var stats model.TaskStats
	if err := decodeData(&env, &stats); err != nil {
		return nil, &APIError{Op: "task_stats", Message: "failed to load task stats"}
	}
	stats.FillBuckets()
	return &stats, nil
}

func (c *Client) CreateTask(ctx context.Context, t model.Task) (*model.Task, error) {
	var env envelope
	_, err := c.http.Post(ctx, "/api/v1/tasks", &t, c.headers(), &env)
	if err != nil {
		return nil, normalizeError("create_task", "failed to create task", c.session, err)
	}
	var created model.Task
	if err := decodeData(&env, &created); err != nil {
		return nil, &APIError{Op: "create_task", Message: "failed to create task"}
	}
	return &created, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
	var env envelope
	_, err := c.http.Put(ctx, "/api/v1/tasks/"+id, &patch, c.headers(), &env)
	if err != nil {
		return nil, normalizeError("update_task", "failed to update task", c.session, err)
	}
	var updated model.Task
	if err := decodeData(&env, &updated); err != nil {
		return nil, &APIError{Op: "update_task", Message: "failed to update task"}
	}
	return &updated, nil
}

func (c *Client) UpdateTaskStatus(ctx context.Context, id string, status consts.TaskStatus) (*model.Task, error) {
	body := struct {
		Status consts.TaskStatus `json:"status"`
	}{Status: status}
	var env envelope
	_, err := c.http.Do(ctx, "PATCH", "/api/v1/tasks/"+id+"/status", nil, c.headers(), &body, &env)
	if err != nil {
		return nil, normalizeError("update_task_status", "failed to update task status", c.session, err)
	}
	var updated model.Task
	if err := decodeData(&env, &updated); err != nil {
		return nil, &APIError{Op: "update_task_status", Message: "failed to update task status"}
	}
	return &updated, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	var env envelope
	_, err := c.http.Delete(ctx, "/api/v1/tasks/"+id, c.headers(), &env)
	if err != nil {
		return normalizeError("delete_task", "failed to delete task", c.session, err)
	}
	return nil
}

func (c *Client) GetWorkflow(ctx context.Context, projectID string) (string, []model.WorkflowStep, error) {
	var env envelope
	_, err := c.http.Get(ctx, "/api/v1/projects/"+projectID+"/workflow", nil, c.headers(), &env)
	if err != nil {
		return "", nil, normalizeError("get_workflow", "failed to load workflow", c.session, err)
	}
	var payload struct {
		Template string               `json:"template"`
		Steps    []model.WorkflowStep `json:"steps"`
	}
	if err := decodeData(&env, &payload); err != nil {
		return "", nil, &APIError{Op: "get_workflow", Message: "failed to load workflow"}
	}
	model.SortSteps(payload.Steps)
	return payload.Template, payload.Steps, nil
}

func (c *Client) GetWorkflowProgress(ctx context.Context, projectID string) (*model.WorkflowProgress, error) {
	var env envelope
	_, err := c.http.Get(ctx, "/api/v1/projects/"+projectID+"/workflow/progress", nil, c.headers(), &env)
	if err != nil {
		return nil, normalizeError("workflow_progress", "failed to load workflow progress", c.session, err)
	}
	var progress model.WorkflowProgress
	if err := decodeData(&env, &progress); err != nil {
		return nil, &APIError{Op: "workflow_progress", Message: "failed to load workflow progress"}
	}
	return &progress, nil
}

func (c *Client) UpdateWorkflowStep(ctx context.Context, projectID, stepID string, patch model.WorkflowStepPatch) (*model.WorkflowStep, error) {
	var env envelope
	_, err := c.http.Put(ctx, "/api/v1/projects/"+projectID+"/workflow/"+stepID, &patch, c.headers(), &env)
	if err != nil {
		return nil, normalizeError("update_workflow_step", "failed to update workflow step", c.session, err)
	}
	var step model.WorkflowStep
	if err := decodeData(&env, &step); err != nil {
		return nil, &APIError{Op: "update_workflow_step", Message: "failed to update workflow step"}
	}
	return &step, nil
}
