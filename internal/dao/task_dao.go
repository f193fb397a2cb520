package dao

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	mg "github.com/praxisware/tpflow/internal/components/mysqlgorm"
	"github.com/praxisware/tpflow/internal/consts"
	"github.com/praxisware/tpflow/internal/core"
	"github.com/praxisware/tpflow/internal/model"
)

type TaskDao interface {
	// Embed component so registry builders can return it where core.Component is required.
	core.Component

	Create(ctx context.Context, t *model.Task) error
	Get(ctx context.Context, id string) (*model.Task, error)
	ListFiltered(ctx context.Context, f *model.TaskFilters, limit, offset int) ([]*model.Task, error)
	CountFiltered(ctx context.Context, f *model.TaskFilters) (int64, error)
	// Update applies the patch under an optimistic version check and
	// returns the refreshed row.
	Update(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error)
	Delete(ctx context.Context, id string) error
	// Stats aggregates counts over the full task set of one project, or
	// over all tasks when projectID is empty.
	Stats(ctx context.Context, projectID string, now time.Time) (*model.TaskStats, error)
}

type taskDaoImpl struct {
	*core.BaseComponent
	GormComp *mg.GormComponent `infra:"dep:mysql_gorm"`
	db       *gorm.DB
	dsName   string
}

func NewTaskDao(dsName string) TaskDao {
	return &taskDaoImpl{
		BaseComponent: core.NewBaseComponent(consts.COMP_DAO_TASK, consts.COMPONENT_LOGGING),
		dsName:        dsName,
	}
}

func (d *taskDaoImpl) Start(ctx context.Context) error {
	if err := d.BaseComponent.Start(ctx); err != nil {
		return err
	}
	db, err := d.GormComp.GetDB(d.dsName)
	if err != nil {
		return fmt.Errorf("get gorm db %s failed: %w", d.dsName, err)
	}
	d.db = db
	return nil
}

func (d *taskDaoImpl) Create(ctx context.Context, t *model.Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("create requires title")
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = consts.TaskStatusTodo
	}
	if t.Priority == "" {
		t.Priority = consts.TaskPriorityMedium
	}
	if !t.Status.Valid() {
		return fmt.Errorf("invalid status %q", t.Status)
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("invalid priority %q", t.Priority)
	}
	t.Version = 1
	return d.db.WithContext(ctx).Create(t).Error
}

func (d *taskDaoImpl) Get(ctx context.Context, id string) (*model.Task, error) {
	var t model.Task
	if err := d.db.WithContext(ctx).Where("id=?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (d *taskDaoImpl) ListFiltered(ctx context.Context, f *model.TaskFilters, limit, offset int) ([]*model.Task, error) {
	var list []*model.Task
	q := d.db.WithContext(ctx).Model(&model.Task{}).Order("created_at DESC, id DESC")
	q = applyTaskFilters(q, f, time.Now().UTC())
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (d *taskDaoImpl) CountFiltered(ctx context.Context, f *model.TaskFilters) (int64, error) {
	q := d.db.WithContext(ctx).Model(&model.Task{})
	q = applyTaskFilters(q, f, time.Now().UTC())
	var cnt int64
	if err := q.Count(&cnt).Error; err != nil {
		return 0, err
	}
	return cnt, nil
}

func (d *taskDaoImpl) Update(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
	if patch.IsZero() {
		return d.Get(ctx, id)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, fmt.Errorf("invalid status %q", *patch.Status)
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return nil, fmt.Errorf("invalid priority %q", *patch.Priority)
	}
	cur, err := d.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := taskPatchUpdates(patch)
	// optimistic lock with version
	res := d.db.WithContext(ctx).Model(&model.Task{}).
		Where("id=? AND version=?", id, cur.Version).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("task %s modified concurrently, retry", id)
	}
	return d.Get(ctx, id)
}

func taskPatchUpdates(patch model.TaskPatch) map[string]any {
	updates := map[string]any{
		"version": gorm.Expr("version + 1"),
	}
	if patch.Title != nil {
		updates["title"] = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.Priority != nil {
		updates["priority"] = *patch.Priority
	}
	if patch.DueDate != nil {
		updates["due_date"] = *patch.DueDate
	}
	if patch.EstimatedHours != nil {
		updates["estimated_hours"] = *patch.EstimatedHours
	}
	if patch.ActualHours != nil {
		updates["actual_hours"] = *patch.ActualHours
	}
	if patch.Tags != nil {
		updates["tags"] = strings.Join(model.NormalizeTags(patch.Tags), ",")
	}
	if patch.ProjectID != nil {
		updates["project_id"] = nullableID(*patch.ProjectID)
	}
	if patch.AssignedToID != nil {
		updates["assigned_to_id"] = nullableID(*patch.AssignedToID)
	}
	if patch.WorkflowStepID != nil {
		updates["workflow_step_id"] = nullableID(*patch.WorkflowStepID)
	}
	return updates
}

// nullableID maps an empty string to NULL so a patch can clear a foreign key.
func nullableID(id string) any {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	return id
}

func (d *taskDaoImpl) Delete(ctx context.Context, id string) error {
	res := d.db.WithContext(ctx).Where("id=?", id).Delete(&model.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type bucketCount struct {
	Bucket string
	Cnt    int64
}

func (d *taskDaoImpl) Stats(ctx context.Context, projectID string, now time.Time) (*model.TaskStats, error) {
	stats := model.NewTaskStats()
	scope := func() *gorm.DB {
		q := d.db.WithContext(ctx).Model(&model.Task{})
		if projectID != "" {
			q = q.Where("project_id=?", projectID)
		}
		return q
	}

	if err := scope().Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	var byStatus []bucketCount
	if err := scope().Select("status AS bucket, COUNT(*) AS cnt").Group("status").Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, row := range byStatus {
		stats.ByStatus[consts.TaskStatus(row.Bucket)] = row.Cnt
	}

	var byPriority []bucketCount
	if err := scope().Select("priority AS bucket, COUNT(*) AS cnt").Group("priority").Scan(&byPriority).Error; err != nil {
		return nil, err
	}
	for _, row := range byPriority {
		stats.ByPriority[consts.TaskPriority(row.Bucket)] = row.Cnt
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	weekEnd := dayStart.AddDate(0, 0, 7)

	open := func() *gorm.DB {
		return scope().Where("status <> ?", consts.TaskStatusCompleted)
	}
	if err := open().Where("due_date < ?", now).Count(&stats.Overdue).Error; err != nil {
		return nil, err
	}
	if err := open().Where("due_date >= ? AND due_date < ?", dayStart, dayEnd).Count(&stats.DueToday).Error; err != nil {
		return nil, err
	}
	if err := open().Where("due_date >= ? AND due_date < ?", dayStart, weekEnd).Count(&stats.DueThisWeek).Error; err != nil {
		return nil, err
	}

	stats.FillBuckets()
	return stats, nil
}

// applyTaskFilters applies common list/count filters. Search is a
// case-insensitive LIKE over title and description. Tags match when every
// requested tag is present in the comma-joined column.
func applyTaskFilters(q *gorm.DB, f *model.TaskFilters, now time.Time) *gorm.DB {
	if f == nil {
		return q
	}
	if f.Status != "" {
		q = q.Where("status=?", f.Status)
	}
	if f.Priority != "" {
		q = q.Where("priority=?", f.Priority)
	}
	if f.ProjectID != "" {
		q = q.Where("project_id=?", f.ProjectID)
	}
	if f.AssignedToID != "" {
		q = q.Where("assigned_to_id=?", f.AssignedToID)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		needle := "%" + strings.ToLower(s) + "%"
		q = q.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", needle, needle)
	}
	for _, tag := range model.NormalizeTags(f.Tags) {
		q = q.Where("FIND_IN_SET(?, tags) > 0", tag)
	}
	if f.Overdue {
		q = q.Where("due_date < ? AND status <> ?", now, consts.TaskStatusCompleted)
	}
	if f.DueFrom != nil {
		q = q.Where("due_date >= ?", *f.DueFrom)
	}
	if f.DueTo != nil {
		q = q.Where("due_date <= ?", *f.DueTo)
	}
	return q
}
