package model

import (
	"testing"
	"time"

	"github.com/praxisware/tpflow/internal/consts"
)

func TestNormalizeTags(t *testing.T) {
	cases := []struct {
		in   []string
		want []string
	}{
		{nil, nil},
		{[]string{"oecd", "oecd"}, []string{"oecd"}},
		{[]string{" benchmark ", "", "oecd", "benchmark"}, []string{"benchmark", "oecd"}},
		{[]string{"", "  "}, nil},
	}
	for _, c := range cases {
		got := NormalizeTags(c.in)
		if len(got) != len(c.want) {
			t.Fatalf("normalize %v => %v want %v", c.in, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("normalize %v => %v want %v", c.in, got, c.want)
			}
		}
	}
}

func TestSplitTagsRoundTrip(t *testing.T) {
	tk := &Task{Tags: []string{"doc", "review", "doc"}}
	if err := tk.BeforeSave(nil); err != nil {
		t.Fatalf("before save: %v", err)
	}
	if tk.TagsRaw != "doc,review" {
		t.Fatalf("raw tags %q", tk.TagsRaw)
	}
	tk.Tags = nil
	if err := tk.AfterFind(nil); err != nil {
		t.Fatalf("after find: %v", err)
	}
	if len(tk.Tags) != 2 || tk.Tags[0] != "doc" || tk.Tags[1] != "review" {
		t.Fatalf("split tags %v", tk.Tags)
	}
}

func TestTaskOverdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -2)
	future := now.AddDate(0, 0, 2)

	if (&Task{Status: consts.TaskStatusTodo}).Overdue(now) {
		t.Fatal("no due date must not be overdue")
	}
	if !(&Task{Status: consts.TaskStatusTodo, DueDate: &past}).Overdue(now) {
		t.Fatal("past due date must be overdue")
	}
	if (&Task{Status: consts.TaskStatusCompleted, DueDate: &past}).Overdue(now) {
		t.Fatal("completed task must not be overdue")
	}
	if (&Task{Status: consts.TaskStatusTodo, DueDate: &future}).Overdue(now) {
		t.Fatal("future due date must not be overdue")
	}
}

func TestNewPagination(t *testing.T) {
	cases := []struct {
		page, limit    int
		total          int64
		wantPage, want int
	}{
		{1, 50, 0, 1, 1},
		{1, 50, 50, 1, 1},
		{1, 50, 51, 1, 2},
		{9, 50, 120, 3, 3}, // clamped to last page
		{0, 0, 120, 1, 3},  // defaults applied
	}
	for _, c := range cases {
		p := NewPagination(c.page, c.limit, c.total)
		if p.TotalPages != c.want || p.Page != c.wantPage {
			t.Fatalf("pagination(%d,%d,%d) => page %d pages %d, want page %d pages %d",
				c.page, c.limit, c.total, p.Page, p.TotalPages, c.wantPage, c.want)
		}
	}
	if ClampLimit(500) != MaxPageLimit {
		t.Fatalf("limit not capped")
	}
}

func TestFillBuckets(t *testing.T) {
	s := &TaskStats{Total: 3, ByStatus: map[consts.TaskStatus]int64{consts.TaskStatusTodo: 3}}
	s.FillBuckets()
	if len(s.ByStatus) != len(consts.AllTaskStatuses) {
		t.Fatalf("status buckets %d", len(s.ByStatus))
	}
	if len(s.ByPriority) != len(consts.AllTaskPriorities) {
		t.Fatalf("priority buckets %d", len(s.ByPriority))
	}
	if s.ByStatus[consts.TaskStatusBlocked] != 0 || s.ByStatus[consts.TaskStatusTodo] != 3 {
		t.Fatalf("bucket values %v", s.ByStatus)
	}
}
