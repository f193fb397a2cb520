package sync

import (
	"context"
	"testing"
	"time"

	"github.com/praxisware/tpflow/internal/consts"
	"github.com/praxisware/tpflow/internal/model"
)

func TestLoadAndPagination(t *testing.T) {
	f := newFakeAPI()
	f.tasks = seedTasks(3)
	store := NewTaskStore(f, model.TaskFilters{})
	ctx := context.Background()

	if err := store.Load(ctx, false); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	snap := store.Snapshot()
	if len(snap.Tasks) != 3 || snap.Pagination.TotalPages != 1 || snap.Pagination.Total != 3 {
		t.Fatalf("snapshot %+v", snap.Pagination)
	}

	// Out-of-range page requests are no-ops: no extra network call.
	calls := f.listCalls
	store.GoToPage(ctx, 0)
	store.GoToPage(ctx, 2)
	store.NextPage(ctx)
	store.PrevPage(ctx)
	if f.listCalls != calls {
		t.Fatalf("no-op paging issued %d calls", f.listCalls-calls)
	}
}

func TestFilterChangeResetsPage(t *testing.T) {
	f := newFakeAPI()
	f.tasks = seedTasks(5)
	store := NewTaskStore(f, model.TaskFilters{})
	store.SetLimit(2)
	ctx := context.Background()

	_ = store.Load(ctx, false)
	store.GoToPage(ctx, 3)
	if store.Snapshot().Pagination.Page != 3 {
		t.Fatalf("page %d", store.Snapshot().Pagination.Page)
	}

	status := "in_progress"
	store.UpdateFilters(ctx, FilterPatch{Status: &status})
	if f.lastPage != 1 {
		t.Fatalf("filter change loaded page %d", f.lastPage)
	}
	if f.lastFilters.Status != "in_progress" {
		t.Fatalf("filters %+v", f.lastFilters)
	}
}

func TestAllSentinelCleared(t *testing.T) {
	f := newFakeAPI()
	store := NewTaskStore(f, model.TaskFilters{Status: "todo"})
	ctx := context.Background()

	all := consts.FilterAll
	store.UpdateFilters(ctx, FilterPatch{Status: &all})
	if f.lastFilters.Status != "" {
		t.Fatalf("sentinel reached the wire: %q", f.lastFilters.Status)
	}
}

func TestSearchDebounce(t *testing.T) {
	f := newFakeAPI()
	store := NewTaskStore(f, model.TaskFilters{})
	store.SetSearchDebounce(20 * time.Millisecond)
	ctx := context.Background()

	for _, s := range []string{"b", "bu", "bug"} {
		s := s
		store.UpdateFilters(ctx, FilterPatch{Search: &s})
		time.Sleep(2 * time.Millisecond)
	}
	if f.listCalls != 0 {
		t.Fatalf("reload fired before quiescence: %d calls", f.listCalls)
	}
	if !waitFor(func() bool { return f.listCalls == 1 }, time.Second) {
		t.Fatalf("expected exactly one debounced reload, got %d", f.listCalls)
	}
	if f.lastFilters.Search != "bug" {
		t.Fatalf("debounced search %q", f.lastFilters.Search)
	}
	if f.lastPage != 1 {
		t.Fatalf("debounced reload page %d", f.lastPage)
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	f := newFakeAPI()
	f.tasks = []model.Task{{ID: "old", Title: "old"}}
	store := NewTaskStore(f, model.TaskFilters{})
	ctx := context.Background()

	release := make(chan struct{})
	started := make(chan struct{})
	f.listHook = func(call int) {
		if call == 1 {
			close(started)
			<-release
			// Swap in the state the stale response will carry.
		}
	}

	done := make(chan struct{})
	go func() {
		_ = store.Load(ctx, false)
		close(done)
	}()
	<-started

	// A newer request completes while the first is still in flight.
	f.mu.Lock()
	f.listHook = nil
	f.tasks = []model.Task{{ID: "new", Title: "new"}}
	f.mu.Unlock()
	if err := store.Load(ctx, false); err != nil {
		t.Fatalf("second load failed: %v", err)
	}

	close(release)
	<-done

	snap := store.Snapshot()
	if len(snap.Tasks) != 1 || snap.Tasks[0].ID != "new" {
		t.Fatalf("stale response won: %+v", snap.Tasks)
	}
}

func TestLoadFailureRetainsPreviousData(t *testing.T) {
	f := newFakeAPI()
	f.tasks = seedTasks(2)
	store := NewTaskStore(f, model.TaskFilters{})
	ctx := context.Background()

	_ = store.Load(ctx, false)

	f.failList = true
	if err := store.Load(ctx, false); err == nil {
		t.Fatal("expected load error")
	}
	snap := store.Snapshot()
	if len(snap.Tasks) != 2 {
		t.Fatalf("previous data lost: %d tasks", len(snap.Tasks))
	}
	if snap.Err != "failed to load tasks" {
		t.Fatalf("error %q", snap.Err)
	}

	// Retry without remounting.
	f.failList = false
	if err := store.Load(ctx, false); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if store.Snapshot().Err != "" {
		t.Fatal("error not cleared after retry")
	}
}

func TestCreateValidatesBeforeDispatch(t *testing.T) {
	f := newFakeAPI()
	store := NewTaskStore(f, model.TaskFilters{})

	if _, err := store.Create(context.Background(), model.Task{Title: "   "}); err != ErrTitleRequired {
		t.Fatalf("error %v", err)
	}
	if f.createCalls != 0 {
		t.Fatal("network call fired for invalid create")
	}
}

func TestCreateReloadsPageOneAndStats(t *testing.T) {
	f := newFakeAPI()
	f.tasks = seedTasks(5)
	store := NewTaskStore(f, model.TaskFilters{})
	store.SetLimit(2)
	ctx := context.Background()

	_ = store.Load(ctx, false)
	store.GoToPage(ctx, 2)
	statsBefore := f.statsCalls

	created, err := store.Create(ctx, model.Task{Title: "Draft local file"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("no created record returned")
	}
	if f.lastPage != 1 {
		t.Fatalf("post-create reload page %d", f.lastPage)
	}
	if f.statsCalls != statsBefore+1 {
		t.Fatalf("stats calls %d", f.statsCalls-statsBefore)
	}
	if store.Snapshot().Pagination.Page != 1 {
		t.Fatalf("page %d", store.Snapshot().Pagination.Page)
	}
}

func TestUpdatePatchesInPlaceWithoutReorder(t *testing.T) {
	f := newFakeAPI()
	f.tasks = seedTasks(3)
	store := NewTaskStore(f, model.TaskFilters{})
	ctx := context.Background()
	_ = store.Load(ctx, false)

	id := f.tasks[1].ID
	listCalls := f.listCalls
	if _, err := store.UpdateStatus(ctx, id, consts.TaskStatusReview); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	snap := store.Snapshot()
	if snap.Tasks[1].ID != id || snap.Tasks[1].Status != consts.TaskStatusReview {
		t.Fatalf("patch not in place: %+v", snap.Tasks[1])
	}
	if snap.Tasks[0].Status != consts.TaskStatusTodo {
		t.Fatal("neighbor mutated")
	}
	if f.listCalls != listCalls {
		t.Fatal("update triggered a list reload")
	}
}

func TestUpdateOffPageIsListNoop(t *testing.T) {
	f := newFakeAPI()
	f.tasks = seedTasks(2)
	store := NewTaskStore(f, model.TaskFilters{})
	ctx := context.Background()
	_ = store.Load(ctx, false)
	statsBefore := f.statsCalls

	if _, err := store.UpdateStatus(ctx, "scrolled-off", consts.TaskStatusCompleted); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	snap := store.Snapshot()
	for _, task := range snap.Tasks {
		if task.ID == "scrolled-off" {
			t.Fatal("off-page record appeared in list")
		}
	}
	if f.statsCalls != statsBefore+1 {
		t.Fatal("stats not refreshed for off-page update")
	}
}

func TestDeleteRemovesLocallyWithoutReload(t *testing.T) {
	f := newFakeAPI()
	f.tasks = seedTasks(3)
	store := NewTaskStore(f, model.TaskFilters{})
	ctx := context.Background()
	_ = store.Load(ctx, false)

	id := f.tasks[0].ID
	listCalls := f.listCalls
	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	snap := store.Snapshot()
	if len(snap.Tasks) != 2 {
		t.Fatalf("tasks %d", len(snap.Tasks))
	}
	for _, task := range snap.Tasks {
		if task.ID == id {
			t.Fatal("deleted task still cached")
		}
	}
	if f.listCalls != listCalls {
		t.Fatal("delete triggered a list reload")
	}
	// Pagination total staleness until next reload is accepted.
	if snap.Pagination.Total != 3 {
		t.Fatalf("pagination eagerly recomputed: %+v", snap.Pagination)
	}
}

func TestMoveStatusSameColumnIsNoop(t *testing.T) {
	f := newFakeAPI()
	f.tasks = seedTasks(2)
	store := NewTaskStore(f, model.TaskFilters{})
	ctx := context.Background()
	_ = store.Load(ctx, false)

	if err := store.MoveStatus(ctx, f.tasks[0].ID, consts.TaskStatusTodo); err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if f.updateCalls != 0 {
		t.Fatal("same-column drop fired a network call")
	}
}

func TestMoveStatusRollbackOnFailure(t *testing.T) {
	f := newFakeAPI()
	f.tasks = seedTasks(2)
	store := NewTaskStore(f, model.TaskFilters{})
	ctx := context.Background()
	_ = store.Load(ctx, false)

	id := f.tasks[0].ID
	f.failUpdate = true
	if err := store.MoveStatus(ctx, id, consts.TaskStatusCompleted); err == nil {
		t.Fatal("expected move error")
	}
	snap := store.Snapshot()
	if snap.Tasks[0].ID != id || snap.Tasks[0].Status != consts.TaskStatusTodo {
		t.Fatalf("card not rolled back: %+v", snap.Tasks[0])
	}
	if snap.Err == "" {
		t.Fatal("error not surfaced")
	}

	f.failUpdate = false
	if err := store.MoveStatus(ctx, id, consts.TaskStatusCompleted); err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if store.Snapshot().Tasks[0].Status != consts.TaskStatusCompleted {
		t.Fatal("move not applied")
	}
}

func TestStatsFailureIsIsolated(t *testing.T) {
	f := newFakeAPI()
	f.tasks = seedTasks(2)
	f.failStats = true
	store := NewTaskStore(f, model.TaskFilters{})
	ctx := context.Background()

	_ = store.Load(ctx, false)
	store.LoadStats(ctx)

	snap := store.Snapshot()
	if len(snap.Tasks) != 2 || snap.Err != "" {
		t.Fatalf("stats failure leaked into list state: %+v", snap)
	}
	if snap.StatsErr == "" || snap.Stats != nil {
		t.Fatalf("stats state %q %+v", snap.StatsErr, snap.Stats)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	f := newFakeAPI()
	f.tasks = seedTasks(2)
	f.stats.Total = 2
	store := NewTaskStore(f, model.TaskFilters{})
	ctx := context.Background()
	_ = store.Load(ctx, false)
	store.LoadStats(ctx)

	snap := store.Snapshot()
	snap.Tasks[0].Title = "mutated"
	snap.Stats.ByStatus[consts.TaskStatusTodo] = 99

	again := store.Snapshot()
	if again.Tasks[0].Title == "mutated" {
		t.Fatal("snapshot shares task storage with store")
	}
	if again.Stats.ByStatus[consts.TaskStatusTodo] == 99 {
		t.Fatal("snapshot shares stats storage with store")
	}
}

func TestResetFilters(t *testing.T) {
	f := newFakeAPI()
	initial := model.TaskFilters{ProjectID: "p1"}
	store := NewTaskStore(f, initial)
	ctx := context.Background()

	status := "blocked"
	search := "x"
	store.UpdateFilters(ctx, FilterPatch{Status: &status, Search: &search})
	store.ResetFilters(ctx)

	snap := store.Snapshot()
	if snap.Filters.Status != "" || snap.Filters.Search != "" || snap.Filters.ProjectID != "p1" {
		t.Fatalf("filters %+v", snap.Filters)
	}
	if f.lastFilters.Status != "" || f.lastFilters.ProjectID != "p1" {
		t.Fatalf("wire filters %+v", f.lastFilters)
	}
}
