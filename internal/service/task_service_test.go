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

// stubTaskDao implements dao.TaskDao for TaskService tests.
type stubTaskDao struct {
	*core.BaseComponent
	tasks      map[string]*model.Task
	statsCalls int
}

func newStubTaskDao() *stubTaskDao {
	return &stubTaskDao{
		BaseComponent: core.NewBaseComponent("task_dao"),
		tasks:         map[string]*model.Task{},
	}
}

func (s *stubTaskDao) Create(ctx context.Context, t *model.Task) error {
	if t.ID == "" {
		t.ID = fmt.Sprintf("task-%d", len(s.tasks)+1)
	}
	s.tasks[t.ID] = t
	return nil
}

func (s *stubTaskDao) Get(ctx context.Context, id string) (*model.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s not found", id)
	}
	cp := *t
	return &cp, nil
}

func (s *stubTaskDao) ListFiltered(ctx context.Context, f *model.TaskFilters, limit, offset int) ([]*model.Task, error) {
	var out []*model.Task
	for _, t := range s.tasks {
		out = append(out, t)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubTaskDao) CountFiltered(ctx context.Context, f *model.TaskFilters) (int64, error) {
	return int64(len(s.tasks)), nil
}

func (s *stubTaskDao) Update(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s not found", id)
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	t.Version++
	cp := *t
	return &cp, nil
}

func (s *stubTaskDao) Delete(ctx context.Context, id string) error {
	if _, ok := s.tasks[id]; !ok {
		return fmt.Errorf("task %s not found", id)
	}
	delete(s.tasks, id)
	return nil
}

func (s *stubTaskDao) Stats(ctx context.Context, projectID string, now time.Time) (*model.TaskStats, error) {
	s.statsCalls++
	stats := model.NewTaskStats()
	for _, t := range s.tasks {
		stats.Total++
		stats.ByStatus[t.Status]++
		stats.ByPriority[t.Priority]++
	}
	return stats, nil
}

func newTestTaskService(da *stubTaskDao) *TaskService {
	ts := NewTaskService()
	ts.TaskDao = da
	return ts
}

func TestTaskServiceListPagination(t *testing.T) {
	da := newStubTaskDao()
	for i := 0; i < 120; i++ {
		da.tasks[fmt.Sprintf("t%03d", i)] = &model.Task{
			ID:       fmt.Sprintf("t%03d", i),
			Status:   consts.TaskStatusTodo,
			Priority: consts.TaskPriorityMedium,
		}
	}
	ts := newTestTaskService(da)

	list, p, err := ts.List(context.Background(), nil, 1, 50)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 50 || p.Total != 120 || p.TotalPages != 3 {
		t.Fatalf("page 1: len %d total %d pages %d", len(list), p.Total, p.TotalPages)
	}

	// Out-of-range page clamps to the last page.
	list, p, err = ts.List(context.Background(), nil, 9, 50)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if p.Page != 3 || len(list) != 20 {
		t.Fatalf("clamped page: page %d len %d", p.Page, len(list))
	}
}

func TestTaskServiceMutations(t *testing.T) {
	da := newStubTaskDao()
	ts := newTestTaskService(da)
	ctx := context.Background()

	task := &model.Task{Title: "Draft local file", Status: consts.TaskStatusTodo, Priority: consts.TaskPriorityMedium}
	if err := ts.Create(ctx, task); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if task.ID == "" {
		t.Fatal("create must assign an id")
	}

	updated, err := ts.UpdateStatus(ctx, task.ID, consts.TaskStatusInProgress)
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if updated.Status != consts.TaskStatusInProgress {
		t.Fatalf("status %s", updated.Status)
	}

	if err := ts.Delete(ctx, task.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := ts.Get(ctx, task.ID); err == nil {
		t.Fatal("deleted task still readable")
	}
}

func TestTaskServiceStatsWithoutRedis(t *testing.T) {
	da := newStubTaskDao()
	da.tasks["a"] = &model.Task{ID: "a", Status: consts.TaskStatusTodo, Priority: consts.TaskPriorityHigh}
	ts := newTestTaskService(da)

	stats, err := ts.Stats(context.Background(), "")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.Total != 1 || stats.ByStatus[consts.TaskStatusTodo] != 1 {
		t.Fatalf("stats %+v", stats)
	}
	// Every bucket present even when zero.
	if _, ok := stats.ByStatus[consts.TaskStatusBlocked]; !ok {
		t.Fatal("missing zero bucket")
	}
	if da.statsCalls != 1 {
		t.Fatalf("stats calls %d", da.statsCalls)
	}
}
