package board

import (
	"context"
	"strings"
	stdsync "sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/praxisware/tpflow/internal/consts"
	"github.com/praxisware/tpflow/internal/model"
	"github.com/praxisware/tpflow/internal/sync"
)

// stubAPI is an in-memory client.API serving a fixed task page.
type stubAPI struct {
	mu    stdsync.Mutex
	tasks []model.Task
	steps []model.WorkflowStep

	lastStatus  consts.TaskStatus
	lastCreated *model.Task
	lastFilters model.TaskFilters
	lastStep    *model.WorkflowStepPatch
	deleted     []string
	listCalls   int
}

func (s *stubAPI) ListTasks(ctx context.Context, f model.TaskFilters, page, limit int) ([]model.Task, model.Pagination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	s.lastFilters = f
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out, model.NewPagination(page, limit, int64(len(s.tasks))), nil
}

func (s *stubAPI) GetTaskStats(ctx context.Context, projectID string) (*model.TaskStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := model.NewTaskStats()
	st.Total = int64(len(s.tasks))
	return st, nil
}

func (s *stubAPI) CreateTask(ctx context.Context, t model.Task) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = "created-1"
	s.lastCreated = &t
	return &t, nil
}

func (s *stubAPI) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == id {
			if patch.Priority != nil {
				t.Priority = *patch.Priority
			}
			return &t, nil
		}
	}
	return nil, nil
}

func (s *stubAPI) UpdateTaskStatus(ctx context.Context, id string, status consts.TaskStatus) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastStatus = status
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks[i].Status = status
			cp := s.tasks[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *stubAPI) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubAPI) GetWorkflow(ctx context.Context, projectID string) (string, []model.WorkflowStep, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.WorkflowStep, len(s.steps))
	copy(out, s.steps)
	return "tp_documentation", out, nil
}

func (s *stubAPI) GetWorkflowProgress(ctx context.Context, projectID string) (*model.WorkflowProgress, error) {
	return &model.WorkflowProgress{TotalSteps: len(s.steps), PercentComplete: 0, IsOnTrack: true}, nil
}

func (s *stubAPI) UpdateWorkflowStep(ctx context.Context, projectID, stepID string, patch model.WorkflowStepPatch) (*model.WorkflowStep, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastStep = &patch
	for i, st := range s.steps {
		if st.ID == stepID {
			if patch.Status != nil {
				s.steps[i].Status = *patch.Status
			}
			cp := s.steps[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func seededStub() *stubAPI {
	return &stubAPI{
		tasks: []model.Task{
			{ID: "t1", Title: "Collect intercompany agreements", Status: consts.TaskStatusTodo, Priority: consts.TaskPriorityHigh},
			{ID: "t2", Title: "Draft functional analysis", Status: consts.TaskStatusTodo, Priority: consts.TaskPriorityMedium},
			{ID: "t3", Title: "Run comparables search", Status: consts.TaskStatusInProgress, Priority: consts.TaskPriorityUrgent},
			{ID: "t4", Title: "Partner review of report", Status: consts.TaskStatusReview, Priority: consts.TaskPriorityLow},
		},
		steps: []model.WorkflowStep{
			{ID: "s1", Name: "Engagement kickoff", StepOrder: 1, Status: consts.StepStatusCompleted},
			{ID: "s2", Name: "Data collection", StepOrder: 2, Status: consts.StepStatusInProgress},
			{ID: "s3", Name: "Benchmarking study", StepOrder: 3, Status: consts.StepStatusNotStarted},
		},
	}
}

func newTestModel(t *testing.T, api *stubAPI) *Model {
	t.Helper()
	store := sync.NewTaskStore(api, model.TaskFilters{})
	store.SetSearchDebounce(5 * time.Millisecond)
	wf := sync.NewWorkflowView(api, "proj-1")
	m := New(context.Background(), store, wf, "proj-1")
	if err := store.Load(context.Background(), true); err != nil {
		t.Fatalf("load: %v", err)
	}
	return m
}

func keyRunes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func runCmd(cmd tea.Cmd) {
	if cmd != nil {
		cmd()
	}
}

func TestColumnsGroupByStatus(t *testing.T) {
	m := newTestModel(t, seededStub())
	cols := m.columns()

	want := []int{2, 1, 1, 0, 0}
	for i, n := range want {
		if len(cols[i]) != n {
			t.Errorf("column %s: got %d tasks, want %d", columnOrder[i], len(cols[i]), n)
		}
	}
	if cols[0][0].Title != "Collect intercompany agreements" {
		t.Errorf("unexpected first card: %q", cols[0][0].Title)
	}
}

func TestNavigationClamps(t *testing.T) {
	m := newTestModel(t, seededStub())

	m.Update(keyRunes('h'))
	if m.activeCol != 0 {
		t.Fatalf("activeCol went negative: %d", m.activeCol)
	}

	for i := 0; i < 10; i++ {
		m.Update(keyRunes('l'))
	}
	if m.activeCol != len(columnOrder)-1 {
		t.Fatalf("activeCol = %d, want %d", m.activeCol, len(columnOrder)-1)
	}

	m.activeCol = 0
	m.Update(keyRunes('j'))
	if m.cursors[0] != 1 {
		t.Fatalf("cursor = %d after j, want 1", m.cursors[0])
	}
	m.Update(keyRunes('j'))
	if m.cursors[0] != 1 {
		t.Fatalf("cursor moved past last card: %d", m.cursors[0])
	}
	m.Update(keyRunes('k'))
	if m.cursors[0] != 0 {
		t.Fatalf("cursor = %d after k, want 0", m.cursors[0])
	}
}

func TestMoveTaskRight(t *testing.T) {
	api := seededStub()
	m := newTestModel(t, api)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'L'}})
	runCmd(cmd)

	if api.lastStatus != consts.TaskStatusInProgress {
		t.Fatalf("status = %q, want in_progress", api.lastStatus)
	}
}

func TestNewTaskFlow(t *testing.T) {
	api := seededStub()
	m := newTestModel(t, api)

	m.Update(keyRunes('n'))
	if m.mode != modeNewTask {
		t.Fatalf("mode = %d, want modeNewTask", m.mode)
	}

	for _, r := range "Review TNMM margins" {
		m.Update(keyRunes(r))
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	runCmd(cmd)

	if api.lastCreated == nil {
		t.Fatal("no create call reached the API")
	}
	if api.lastCreated.Title != "Review TNMM margins" {
		t.Errorf("title = %q", api.lastCreated.Title)
	}
	if api.lastCreated.Status != consts.TaskStatusTodo {
		t.Errorf("status = %q, want active column status", api.lastCreated.Status)
	}
	if api.lastCreated.ProjectID == nil || *api.lastCreated.ProjectID != "proj-1" {
		t.Errorf("projectId not carried from board scope: %v", api.lastCreated.ProjectID)
	}
}

func TestNewTaskEmptyTitleIsDropped(t *testing.T) {
	api := seededStub()
	m := newTestModel(t, api)

	m.Update(keyRunes('n'))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	runCmd(cmd)

	if api.lastCreated != nil {
		t.Fatalf("blank title reached the API: %+v", api.lastCreated)
	}
	if m.mode != modeBoard {
		t.Fatalf("mode = %d, want modeBoard", m.mode)
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	api := seededStub()
	m := newTestModel(t, api)

	m.Update(keyRunes('d'))
	if m.mode != modeConfirmDelete {
		t.Fatalf("mode = %d, want modeConfirmDelete", m.mode)
	}
	m.Update(keyRunes('x'))
	if len(api.deleted) != 0 {
		t.Fatalf("delete fired without confirmation: %v", api.deleted)
	}

	m.Update(keyRunes('d'))
	_, cmd := m.Update(keyRunes('y'))
	runCmd(cmd)
	if len(api.deleted) != 1 || api.deleted[0] != "t1" {
		t.Fatalf("deleted = %v, want [t1]", api.deleted)
	}
}

func TestSearchReachesFilters(t *testing.T) {
	api := seededStub()
	m := newTestModel(t, api)

	m.Update(keyRunes('/'))
	if m.mode != modeSearch {
		t.Fatalf("mode = %d, want modeSearch", m.mode)
	}
	for _, r := range "margin" {
		m.Update(keyRunes(r))
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		api.mu.Lock()
		got := api.lastFilters.Search
		api.mu.Unlock()
		if got == "margin" {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("search %q never reached the API", "margin")
}

func TestViewShowsColumnsAndCards(t *testing.T) {
	m := newTestModel(t, seededStub())
	m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})

	out := m.View()
	for _, want := range []string{"To Do", "In Progress", "Review", "Completed", "Blocked"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing column %q", want)
		}
	}
	if !strings.Contains(out, "Run comparables search") {
		t.Error("view missing task card")
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, seededStub())
	_, cmd := m.Update(keyRunes('q'))
	if cmd == nil {
		t.Fatal("no quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q did not produce tea.QuitMsg")
	}
}

func TestWorkflowPanel(t *testing.T) {
	api := seededStub()
	m := newTestModel(t, api)

	_, cmd := m.Update(keyRunes('w'))
	runCmd(cmd)
	if m.mode != modeWorkflow {
		t.Fatalf("mode = %d, want modeWorkflow", m.mode)
	}

	out := m.View()
	for _, want := range []string{"Engagement kickoff", "Data collection", "Benchmarking study"} {
		if !strings.Contains(out, want) {
			t.Errorf("workflow view missing step %q", want)
		}
	}

	// Complete the second step.
	m.Update(keyRunes('j'))
	_, cmd = m.Update(keyRunes('c'))
	runCmd(cmd)

	if api.lastStep == nil || api.lastStep.Status == nil {
		t.Fatal("no step update reached the API")
	}
	if *api.lastStep.Status != consts.StepStatusCompleted {
		t.Errorf("step status = %q, want completed", *api.lastStep.Status)
	}
	if api.lastStep.CompletedDate == nil {
		t.Error("completed date was not defaulted")
	}
}
