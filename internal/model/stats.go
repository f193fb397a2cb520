package model

import "github.com/praxisware/tpflow/internal/consts"

// TaskStats holds aggregate counts computed over the full task set, never
// over the currently paged slice. Every enum bucket is always present in
// the maps, zero when empty, so consumers can index without existence
// checks.
type TaskStats struct {
	Total       int64                         `json:"total"`
	ByStatus    map[consts.TaskStatus]int64   `json:"byStatus"`
	ByPriority  map[consts.TaskPriority]int64 `json:"byPriority"`
	Overdue     int64                         `json:"overdue"`
	DueToday    int64                         `json:"dueToday"`
	DueThisWeek int64                         `json:"dueThisWeek"`
}

// NewTaskStats returns stats with all buckets present and zeroed.
func NewTaskStats() *TaskStats {
	s := &TaskStats{
		ByStatus:   make(map[consts.TaskStatus]int64, len(consts.AllTaskStatuses)),
		ByPriority: make(map[consts.TaskPriority]int64, len(consts.AllTaskPriorities)),
	}
	s.FillBuckets()
	return s
}

// FillBuckets adds any missing enum bucket with a zero count. Used after
// decoding a payload whose producer omitted empty buckets.
func (s *TaskStats) FillBuckets() {
	if s.ByStatus == nil {
		s.ByStatus = make(map[consts.TaskStatus]int64, len(consts.AllTaskStatuses))
	}
	if s.ByPriority == nil {
		s.ByPriority = make(map[consts.TaskPriority]int64, len(consts.AllTaskPriorities))
	}
	for _, st := range consts.AllTaskStatuses {
		if _, ok := s.ByStatus[st]; !ok {
			s.ByStatus[st] = 0
		}
	}
	for _, pr := range consts.AllTaskPriorities {
		if _, ok := s.ByPriority[pr]; !ok {
			s.ByPriority[pr] = 0
		}
	}
}

// Clone returns a deep copy so cached stats can be handed out without
// sharing map storage.
func (s *TaskStats) Clone() *TaskStats {
	if s == nil {
		return nil
	}
	out := &TaskStats{
		Total:       s.Total,
		Overdue:     s.Overdue,
		DueToday:    s.DueToday,
		DueThisWeek: s.DueThisWeek,
		ByStatus:    make(map[consts.TaskStatus]int64, len(s.ByStatus)),
		ByPriority:  make(map[consts.TaskPriority]int64, len(s.ByPriority)),
	}
	for k, v := range s.ByStatus {
		out.ByStatus[k] = v
	}
	for k, v := range s.ByPriority {
		out.ByPriority[k] = v
	}
	return out
}
