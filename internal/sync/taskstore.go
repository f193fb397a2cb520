// Package sync keeps board-side task and workflow state consistent with
// the remote tpflow service: the current filtered page of tasks, the
// aggregate stats, and the reconciliation rules every mutation applies to
// the local cache.
package sync

import (
	"context"
	"errors"
	"strings"
	stdsync "sync"
	"time"

	"github.com/praxisware/tpflow/internal/client"
	"github.com/praxisware/tpflow/internal/consts"
	"github.com/praxisware/tpflow/internal/model"
)

const (
	// DefaultSearchDebounce is the quiescence window applied to free-text
	// search changes before a reload fires.
	DefaultSearchDebounce = 300 * time.Millisecond
)

// ErrTitleRequired is returned by Create before any network call when the
// title is empty.
var ErrTitleRequired = errors.New("title is required")

// FilterPatch is a shallow merge applied to the current filters. Nil
// fields are left untouched; a pointer to a zero value clears that
// dimension. The "all" sentinel is accepted and treated as a clear.
type FilterPatch struct {
	Status       *string
	Priority     *string
	ProjectID    *string
	AssignedToID *string
	Search       *string
	Tags         *[]string
	Overdue      *bool
	DueFrom      *time.Time
	DueTo        *time.Time
}

// Snapshot is the read-only view handed to presentational collaborators.
// Slices and maps are copies; mutating a snapshot never touches the store.
type Snapshot struct {
	Tasks      []model.Task
	Stats      *model.TaskStats
	StatsErr   string
	Filters    model.TaskFilters
	Pagination model.Pagination
	IsLoading  bool
	Err        string
}

// TaskStore owns the cached page of tasks. All writes to the cache happen
// in its own success handlers; loads are generation-counted so a stale
// response never overwrites the result of a newer request.
type TaskStore struct {
	api client.API

	// OnChange, when set, is invoked after every committed state change,
	// outside the store lock.
	OnChange func()

	mu             stdsync.Mutex
	filters        model.TaskFilters
	initialFilters model.TaskFilters
	page           int
	limit          int
	tasks          []model.Task
	pagination     model.Pagination
	stats          *model.TaskStats
	statsErr       string
	isLoading      bool
	errMsg         string
	gen            uint64

	debounce    time.Duration
	searchTimer *time.Timer
}

func NewTaskStore(api client.API, initial model.TaskFilters) *TaskStore {
	return &TaskStore{
		api:            api,
		filters:        initial,
		initialFilters: initial,
		page:           1,
		limit:          model.DefaultPageLimit,
		pagination:     model.Pagination{Page: 1, Limit: model.DefaultPageLimit, TotalPages: 1},
		debounce:       DefaultSearchDebounce,
	}
}

// SetLimit overrides the page size for subsequent loads.
func (s *TaskStore) SetLimit(limit int) {
	s.mu.Lock()
	s.limit = model.ClampLimit(limit)
	s.mu.Unlock()
}

// SetSearchDebounce overrides the search quiescence window.
func (s *TaskStore) SetSearchDebounce(d time.Duration) {
	s.mu.Lock()
	s.debounce = d
	s.mu.Unlock()
}

// Snapshot returns a value copy of the current state.
func (s *TaskStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks := make([]model.Task, len(s.tasks))
	copy(tasks, s.tasks)
	return Snapshot{
		Tasks:      tasks,
		Stats:      s.stats.Clone(),
		StatsErr:   s.statsErr,
		Filters:    s.filters,
		Pagination: s.pagination,
		IsLoading:  s.isLoading,
		Err:        s.errMsg,
	}
}

func (s *TaskStore) notify() {
	if s.OnChange != nil {
		s.OnChange()
	}
}

// Load fetches the current filters+page. With resetPage the cursor moves
// back to page 1 first. A failure keeps the previous task list and
// records a retryable error message.
func (s *TaskStore) Load(ctx context.Context, resetPage bool) error {
	s.mu.Lock()
	if resetPage {
		s.page = 1
	}
	s.gen++
	g := s.gen
	f := s.filters
	page, limit := s.page, s.limit
	s.isLoading = true
	s.mu.Unlock()
	s.notify()

	tasks, p, err := s.api.ListTasks(ctx, f, page, limit)

	s.mu.Lock()
	if g != s.gen {
		// Superseded by a newer request; drop this response.
		s.mu.Unlock()
		return nil
	}
	s.isLoading = false
	if err != nil {
		s.errMsg = err.Error()
		s.mu.Unlock()
		s.notify()
		return err
	}
	s.errMsg = ""
	s.tasks = tasks
	s.pagination = p
	s.page = p.Page
	s.mu.Unlock()
	s.notify()
	return nil
}

// UpdateFilters merges the patch into the current filters. Any change
// besides pure search text reloads immediately from page 1; a search-only
// change waits for the debounce window so typing does not fire one
// request per keystroke.
func (s *TaskStore) UpdateFilters(ctx context.Context, patch FilterPatch) {
	s.mu.Lock()
	searchChanged, otherChanged := s.applyPatchLocked(patch)
	if !searchChanged && !otherChanged {
		s.mu.Unlock()
		return
	}
	if otherChanged {
		s.stopSearchTimerLocked()
		s.mu.Unlock()
		_ = s.Load(ctx, true)
		return
	}
	// Search only: debounce.
	d := s.debounce
	s.stopSearchTimerLocked()
	s.searchTimer = time.AfterFunc(d, func() {
		_ = s.Load(ctx, true)
	})
	s.mu.Unlock()
}

// ResetFilters restores the initial filters and reloads from page 1.
func (s *TaskStore) ResetFilters(ctx context.Context) {
	s.mu.Lock()
	s.stopSearchTimerLocked()
	s.filters = s.initialFilters
	s.mu.Unlock()
	_ = s.Load(ctx, true)
}

func (s *TaskStore) stopSearchTimerLocked() {
	if s.searchTimer != nil {
		s.searchTimer.Stop()
		s.searchTimer = nil
	}
}

func normalizeSentinel(v string) string {
	if v == consts.FilterAll {
		return ""
	}
	return v
}

func (s *TaskStore) applyPatchLocked(p FilterPatch) (searchChanged, otherChanged bool) {
	set := func(dst *string, src *string) {
		if src == nil {
			return
		}
		v := normalizeSentinel(*src)
		if *dst != v {
			*dst = v
			otherChanged = true
		}
	}
	set(&s.filters.Status, p.Status)
	set(&s.filters.Priority, p.Priority)
	set(&s.filters.ProjectID, p.ProjectID)
	set(&s.filters.AssignedToID, p.AssignedToID)
	if p.Tags != nil {
		s.filters.Tags = model.NormalizeTags(*p.Tags)
		otherChanged = true
	}
	if p.Overdue != nil && s.filters.Overdue != *p.Overdue {
		s.filters.Overdue = *p.Overdue
		otherChanged = true
	}
	if p.DueFrom != nil {
		if p.DueFrom.IsZero() {
			s.filters.DueFrom = nil
		} else {
			t := *p.DueFrom
			s.filters.DueFrom = &t
		}
		otherChanged = true
	}
	if p.DueTo != nil {
		if p.DueTo.IsZero() {
			s.filters.DueTo = nil
		} else {
			t := *p.DueTo
			s.filters.DueTo = &t
		}
		otherChanged = true
	}
	if p.Search != nil && s.filters.Search != *p.Search {
		s.filters.Search = *p.Search
		searchChanged = true
	}
	return
}

// NextPage, PrevPage and GoToPage are no-ops outside [1, totalPages].
func (s *TaskStore) NextPage(ctx context.Context) { s.goToPage(ctx, s.currentPage()+1) }
func (s *TaskStore) PrevPage(ctx context.Context) { s.goToPage(ctx, s.currentPage()-1) }
func (s *TaskStore) GoToPage(ctx context.Context, n int) {
	s.goToPage(ctx, n)
}

func (s *TaskStore) currentPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

func (s *TaskStore) goToPage(ctx context.Context, n int) {
	s.mu.Lock()
	if n < 1 || n > s.pagination.TotalPages || n == s.page {
		s.mu.Unlock()
		return
	}
	s.page = n
	s.mu.Unlock()
	_ = s.Load(ctx, false)
}

// LoadStats refreshes the aggregate counts for the currently filtered
// project. A failure never invalidates the task list; it only marks the
// stats as unavailable.
func (s *TaskStore) LoadStats(ctx context.Context) {
	s.mu.Lock()
	projectID := s.filters.ProjectID
	s.mu.Unlock()

	stats, err := s.api.GetTaskStats(ctx, projectID)

	s.mu.Lock()
	if err != nil {
		s.statsErr = err.Error()
		s.mu.Unlock()
		s.notify()
		return
	}
	s.statsErr = ""
	s.stats = stats
	s.mu.Unlock()
	s.notify()
}

// Create validates the title, dispatches, then reloads page 1 and the
// stats. Page 1 is the only correct placement for a new record whose sort
// position under the current filters is unknown.
func (s *TaskStore) Create(ctx context.Context, t model.Task) (*model.Task, error) {
	if strings.TrimSpace(t.Title) == "" {
		return nil, ErrTitleRequired
	}
	created, err := s.api.CreateTask(ctx, t)
	if err != nil {
		s.recordError(err)
		return nil, err
	}
	_ = s.Load(ctx, true)
	s.LoadStats(ctx)
	return created, nil
}

// Update patches the record remotely, then in place within the cached
// page by id match, without reordering. A record that scrolled off-page
// is a list no-op; stats still refresh.
func (s *TaskStore) Update(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
	updated, err := s.api.UpdateTask(ctx, id, patch)
	if err != nil {
		s.recordError(err)
		return nil, err
	}
	s.patchLocal(*updated)
	s.LoadStats(ctx)
	return updated, nil
}

// Delete removes the record remotely and locally. The pagination total is
// left as-is until the next explicit reload; a network round trip for a
// simple removal is not worth it.
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteTask(ctx, id); err != nil {
		s.recordError(err)
		return err
	}
	s.mu.Lock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			break
		}
	}
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()
	s.LoadStats(ctx)
	return nil
}

// Single-field convenience wrappers over Update.

func (s *TaskStore) UpdateStatus(ctx context.Context, id string, status consts.TaskStatus) (*model.Task, error) {
	return s.Update(ctx, id, model.TaskPatch{Status: &status})
}

func (s *TaskStore) UpdatePriority(ctx context.Context, id string, priority consts.TaskPriority) (*model.Task, error) {
	return s.Update(ctx, id, model.TaskPatch{Priority: &priority})
}

func (s *TaskStore) AssignTask(ctx context.Context, id, userID string) (*model.Task, error) {
	return s.Update(ctx, id, model.TaskPatch{AssignedToID: &userID})
}

// MoveStatus is the kanban drag transition. Dropping a card on its own
// column is a no-op with no network call. The move is applied
// optimistically and rolled back if the server rejects it.
func (s *TaskStore) MoveStatus(ctx context.Context, id string, status consts.TaskStatus) error {
	s.mu.Lock()
	idx := -1
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			idx = i
			break
		}
	}
	if idx >= 0 && s.tasks[idx].Status == status {
		s.mu.Unlock()
		return nil
	}
	var prior model.Task
	if idx >= 0 {
		prior = s.tasks[idx]
		s.tasks[idx].Status = status
	}
	s.mu.Unlock()
	if idx >= 0 {
		s.notify()
	}

	updated, err := s.api.UpdateTaskStatus(ctx, id, status)
	if err != nil {
		if idx >= 0 {
			s.mu.Lock()
			// Roll the card back to its prior column.
			for i := range s.tasks {
				if s.tasks[i].ID == id {
					s.tasks[i] = prior
					break
				}
			}
			s.mu.Unlock()
		}
		s.recordError(err)
		return err
	}
	s.patchLocal(*updated)
	s.LoadStats(ctx)
	return nil
}

func (s *TaskStore) patchLocal(updated model.Task) {
	s.mu.Lock()
	for i := range s.tasks {
		if s.tasks[i].ID == updated.ID {
			s.tasks[i] = updated
			break
		}
	}
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()
}

func (s *TaskStore) recordError(err error) {
	s.mu.Lock()
	s.errMsg = err.Error()
	s.mu.Unlock()
	s.notify()
}
