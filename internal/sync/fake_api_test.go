package sync

import (
	"context"
	stdsync "sync"
	"time"

	"github.com/praxisware/tpflow/internal/client"
	"github.com/praxisware/tpflow/internal/consts"
	"github.com/praxisware/tpflow/internal/model"
)

// fakeAPI is a scriptable client.API. Per-op failure toggles return an
// *client.APIError the way the real client does; listHook lets a test
// block or reorder individual list responses.
type fakeAPI struct {
	mu stdsync.Mutex

	tasks    []model.Task
	stats    model.TaskStats
	template string
	steps    []model.WorkflowStep
	progress model.WorkflowProgress

	failList    bool
	failStats   bool
	failCreate  bool
	failUpdate  bool
	failDelete  bool
	failWf      bool
	failWfProg  bool
	failWfStep  bool
	listCalls   int
	statsCalls  int
	createCalls int
	updateCalls int
	deleteCalls int
	wfProgCalls int

	lastFilters model.TaskFilters
	lastPage    int
	lastLimit   int
	lastPatch   model.TaskPatch
	lastStep    model.WorkflowStepPatch

	// listHook, when set, runs outside the lock before a list response
	// is returned. Receives the 1-based call index.
	listHook func(call int)
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{stats: *model.NewTaskStats()}
}

func apiErr(op, msg string) error {
	return &client.APIError{Op: op, Message: msg}
}

func (f *fakeAPI) ListTasks(ctx context.Context, filters model.TaskFilters, page, limit int) ([]model.Task, model.Pagination, error) {
	f.mu.Lock()
	f.listCalls++
	call := f.listCalls
	f.lastFilters = filters
	f.lastPage = page
	f.lastLimit = limit
	fail := f.failList
	tasks := make([]model.Task, len(f.tasks))
	copy(tasks, f.tasks)
	hook := f.listHook
	f.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	if fail {
		return nil, model.Pagination{}, apiErr("list_tasks", "failed to load tasks")
	}
	return tasks, model.NewPagination(page, limit, int64(len(tasks))), nil
}

func (f *fakeAPI) GetTaskStats(ctx context.Context, projectID string) (*model.TaskStats, error) {
	f.mu.Lock()
	f.statsCalls++
	fail := f.failStats
	stats := *f.stats.Clone()
	f.mu.Unlock()
	if fail {
		return nil, apiErr("task_stats", "failed to load task stats")
	}
	return &stats, nil
}

func (f *fakeAPI) CreateTask(ctx context.Context, t model.Task) (*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.failCreate {
		return nil, apiErr("create_task", "failed to create task")
	}
	if t.ID == "" {
		t.ID = "created"
	}
	f.tasks = append([]model.Task{t}, f.tasks...)
	return &t, nil
}

func (f *fakeAPI) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	f.lastPatch = patch
	if f.failUpdate {
		return nil, apiErr("update_task", "failed to update task")
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			if patch.Status != nil {
				f.tasks[i].Status = *patch.Status
			}
			if patch.Priority != nil {
				f.tasks[i].Priority = *patch.Priority
			}
			if patch.Title != nil {
				f.tasks[i].Title = *patch.Title
			}
			if patch.AssignedToID != nil {
				id := *patch.AssignedToID
				f.tasks[i].AssignedToID = &id
			}
			cp := f.tasks[i]
			return &cp, nil
		}
	}
	// Not on the current page server-side copy; synthesize.
	t := model.Task{ID: id}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	return &t, nil
}

func (f *fakeAPI) UpdateTaskStatus(ctx context.Context, id string, status consts.TaskStatus) (*model.Task, error) {
	return f.UpdateTask(ctx, id, model.TaskPatch{Status: &status})
}

func (f *fakeAPI) DeleteTask(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.failDelete {
		return apiErr("delete_task", "failed to delete task")
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeAPI) GetWorkflow(ctx context.Context, projectID string) (string, []model.WorkflowStep, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWf {
		return "", nil, apiErr("get_workflow", "failed to load workflow")
	}
	steps := make([]model.WorkflowStep, len(f.steps))
	copy(steps, f.steps)
	model.SortSteps(steps)
	return f.template, steps, nil
}

func (f *fakeAPI) GetWorkflowProgress(ctx context.Context, projectID string) (*model.WorkflowProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wfProgCalls++
	if f.failWfProg {
		return nil, apiErr("workflow_progress", "failed to load workflow progress")
	}
	p := f.progress
	return &p, nil
}

func (f *fakeAPI) UpdateWorkflowStep(ctx context.Context, projectID, stepID string, patch model.WorkflowStepPatch) (*model.WorkflowStep, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastStep = patch
	if f.failWfStep {
		return nil, apiErr("update_workflow_step", "failed to update workflow step")
	}
	for i := range f.steps {
		if f.steps[i].ID == stepID {
			if patch.Status != nil {
				f.steps[i].Status = *patch.Status
			}
			if patch.StartDate != nil {
				f.steps[i].StartDate = patch.StartDate
			}
			if patch.CompletedDate != nil {
				f.steps[i].CompletedDate = patch.CompletedDate
			}
			cp := f.steps[i]
			return &cp, nil
		}
	}
	return nil, apiErr("update_workflow_step", "failed to update workflow step")
}

func seedTasks(n int) []model.Task {
	out := make([]model.Task, n)
	for i := range out {
		out[i] = model.Task{
			ID:       taskID(i),
			Title:    "task " + taskID(i),
			Status:   consts.TaskStatusTodo,
			Priority: consts.TaskPriorityMedium,
		}
	}
	return out
}

func taskID(i int) string {
	return string(rune('a'+i)) + "-task"
}

// waitFor polls until cond returns true or the deadline passes.
func waitFor(cond func() bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}
