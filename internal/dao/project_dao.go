package dao

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	mg "github.com/praxisware/tpflow/internal/components/mysqlgorm"
	"github.com/praxisware/tpflow/internal/consts"
	"github.com/praxisware/tpflow/internal/core"
	"github.com/praxisware/tpflow/internal/model"
)

type ProjectDao interface {
	core.Component

	Create(ctx context.Context, p *model.Project) error
	Get(ctx context.Context, id string) (*model.Project, error)
	ListFiltered(ctx context.Context, f *model.ProjectFilters, limit, offset int) ([]*model.Project, error)
	CountFiltered(ctx context.Context, f *model.ProjectFilters) (int64, error)
	Update(ctx context.Context, id string, patch model.ProjectPatch) (*model.Project, error)
	Delete(ctx context.Context, id string) error
}

type projectDaoImpl struct {
	*core.BaseComponent
	GormComp *mg.GormComponent `infra:"dep:mysql_gorm"`
	db       *gorm.DB
	dsName   string
}

func NewProjectDao(dsName string) ProjectDao {
	return &projectDaoImpl{
		BaseComponent: core.NewBaseComponent(consts.COMP_DAO_PROJECT, consts.COMPONENT_LOGGING),
		dsName:        dsName,
	}
}

func (d *projectDaoImpl) Start(ctx context.Context) error {
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

func (d *projectDaoImpl) Create(ctx context.Context, p *model.Project) error {
	if strings.TrimSpace(p.ProjectName) == "" {
		return fmt.Errorf("create requires projectName")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = consts.ProjectStatusActive
	}
	if p.Priority == "" {
		p.Priority = consts.TaskPriorityMedium
	}
	if !p.Status.Valid() {
		return fmt.Errorf("invalid status %q", p.Status)
	}
	p.Version = 1
	return d.db.WithContext(ctx).Create(p).Error
}

func (d *projectDaoImpl) Get(ctx context.Context, id string) (*model.Project, error) {
	var p model.Project
	if err := d.db.WithContext(ctx).Where("id=?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (d *projectDaoImpl) ListFiltered(ctx context.Context, f *model.ProjectFilters, limit, offset int) ([]*model.Project, error) {
	var list []*model.Project
	q := d.db.WithContext(ctx).Model(&model.Project{}).Order("created_at DESC, id DESC")
	q = applyProjectFilters(q, f)
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

func (d *projectDaoImpl) CountFiltered(ctx context.Context, f *model.ProjectFilters) (int64, error) {
	q := d.db.WithContext(ctx).Model(&model.Project{})
	q = applyProjectFilters(q, f)
	var cnt int64
	if err := q.Count(&cnt).Error; err != nil {
		return 0, err
	}
	return cnt, nil
}

func (d *projectDaoImpl) Update(ctx context.Context, id string, patch model.ProjectPatch) (*model.Project, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, fmt.Errorf("invalid status %q", *patch.Status)
	}
	cur, err := d.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"version": gorm.Expr("version + 1"),
	}
	if patch.ProjectName != nil {
		updates["project_name"] = strings.TrimSpace(*patch.ProjectName)
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.DeliverableType != nil {
		updates["deliverable_type"] = *patch.DeliverableType
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.Priority != nil {
		updates["priority"] = *patch.Priority
	}
	if patch.StartDate != nil {
		updates["start_date"] = *patch.StartDate
	}
	if patch.Deadline != nil {
		updates["deadline"] = *patch.Deadline
	}
	if patch.Budget != nil {
		updates["budget"] = *patch.Budget
	}
	if patch.ProjectManagerID != nil {
		updates["project_manager_id"] = nullableID(*patch.ProjectManagerID)
	}

	res := d.db.WithContext(ctx).Model(&model.Project{}).
		Where("id=? AND version=?", id, cur.Version).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("project %s modified concurrently, retry", id)
	}
	return d.Get(ctx, id)
}

func (d *projectDaoImpl) Delete(ctx context.Context, id string) error {
	res := d.db.WithContext(ctx).Where("id=?", id).Delete(&model.Project{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func applyProjectFilters(q *gorm.DB, f *model.ProjectFilters) *gorm.DB {
	if f == nil {
		return q
	}
	if f.Status != "" {
		q = q.Where("status=?", f.Status)
	}
	if f.ClientID != "" {
		q = q.Where("client_id=?", f.ClientID)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		needle := "%" + strings.ToLower(s) + "%"
		q = q.Where("(LOWER(project_name) LIKE ? OR LOWER(description) LIKE ?)", needle, needle)
	}
	return q
}
