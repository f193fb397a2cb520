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

type WorkflowDao interface {
	core.Component

	// CreateWorkflow inserts the workflow and its steps in one
	// transaction. Step ids and order are assigned here.
	CreateWorkflow(ctx context.Context, wf *model.ProjectWorkflow, steps []model.WorkflowStep) error
	// GetByProject returns the workflow plus its steps sorted by step_order.
	GetByProject(ctx context.Context, projectID string) (*model.ProjectWorkflow, []model.WorkflowStep, error)
	GetStep(ctx context.Context, stepID string) (*model.WorkflowStep, error)
	UpdateStep(ctx context.Context, stepID string, patch model.WorkflowStepPatch) (*model.WorkflowStep, error)
	DeleteByProject(ctx context.Context, projectID string) error
}

type workflowDaoImpl struct {
	*core.BaseComponent
	GormComp *mg.GormComponent `infra:"dep:mysql_gorm"`
	db       *gorm.DB
	dsName   string
}

func NewWorkflowDao(dsName string) WorkflowDao {
	return &workflowDaoImpl{
		BaseComponent: core.NewBaseComponent(consts.COMP_DAO_WORKFLOW, consts.COMPONENT_LOGGING),
		dsName:        dsName,
	}
}

func (d *workflowDaoImpl) Start(ctx context.Context) error {
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

func (d *workflowDaoImpl) CreateWorkflow(ctx context.Context, wf *model.ProjectWorkflow, steps []model.WorkflowStep) error {
	if strings.TrimSpace(wf.ProjectID) == "" {
		return fmt.Errorf("create requires projectId")
	}
	if wf.ID == "" {
		wf.ID = uuid.NewString()
	}
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(wf).Error; err != nil {
			return err
		}
		for i := range steps {
			step := &steps[i]
			step.WorkflowID = wf.ID
			if step.ID == "" {
				step.ID = uuid.NewString()
			}
			if step.StepOrder == 0 {
				step.StepOrder = i + 1
			}
			if step.Status == "" {
				step.Status = consts.StepStatusNotStarted
			}
			step.Version = 1
		}
		if len(steps) == 0 {
			return nil
		}
		return tx.Create(&steps).Error
	})
}

func (d *workflowDaoImpl) GetByProject(ctx context.Context, projectID string) (*model.ProjectWorkflow, []model.WorkflowStep, error) {
	var wf model.ProjectWorkflow
	if err := d.db.WithContext(ctx).Where("project_id=?", projectID).First(&wf).Error; err != nil {
		return nil, nil, err
	}
	var steps []model.WorkflowStep
	err := d.db.WithContext(ctx).
		Where("workflow_id=?", wf.ID).
		Order("step_order ASC").
		Find(&steps).Error
	if err != nil {
		return nil, nil, err
	}
	return &wf, steps, nil
}

func (d *workflowDaoImpl) GetStep(ctx context.Context, stepID string) (*model.WorkflowStep, error) {
	var step model.WorkflowStep
	if err := d.db.WithContext(ctx).Where("id=?", stepID).First(&step).Error; err != nil {
		return nil, err
	}
	return &step, nil
}

func (d *workflowDaoImpl) UpdateStep(ctx context.Context, stepID string, patch model.WorkflowStepPatch) (*model.WorkflowStep, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, fmt.Errorf("invalid status %q", *patch.Status)
	}
	cur, err := d.GetStep(ctx, stepID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"version": gorm.Expr("version + 1"),
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.AssignedToID != nil {
		updates["assigned_to_id"] = nullableID(*patch.AssignedToID)
	}
	if patch.StartDate != nil {
		updates["start_date"] = *patch.StartDate
	}
	if patch.CompletedDate != nil {
		updates["completed_date"] = *patch.CompletedDate
	}
	if patch.ActualDays != nil {
		updates["actual_days"] = *patch.ActualDays
	}
	if patch.Notes != nil {
		updates["notes"] = *patch.Notes
	}

	res := d.db.WithContext(ctx).Model(&model.WorkflowStep{}).
		Where("id=? AND version=?", stepID, cur.Version).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("workflow step %s modified concurrently, retry", stepID)
	}
	return d.GetStep(ctx, stepID)
}

func (d *workflowDaoImpl) DeleteByProject(ctx context.Context, projectID string) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var wf model.ProjectWorkflow
		if err := tx.Where("project_id=?", projectID).First(&wf).Error; err != nil {
			return err
		}
		if err := tx.Where("workflow_id=?", wf.ID).Delete(&model.WorkflowStep{}).Error; err != nil {
			return err
		}
		return tx.Delete(&wf).Error
	})
}
