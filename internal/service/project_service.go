package service

import (
	"context"

	"github.com/praxisware/tpflow/internal/consts"
	"github.com/praxisware/tpflow/internal/core"
	"github.com/praxisware/tpflow/internal/dao"
	"github.com/praxisware/tpflow/internal/model"
)

// ProjectService is a thin layer delegating to ProjectDao.
type ProjectService struct {
	*core.BaseComponent
	ProjectDao dao.ProjectDao `infra:"dep:project_dao"`
}

func NewProjectService() *ProjectService {
	return &ProjectService{
		BaseComponent: core.NewBaseComponent(consts.COMP_SVC_PROJECT, consts.COMP_DAO_PROJECT),
	}
}

func (s *ProjectService) List(ctx context.Context, f *model.ProjectFilters, page, limit int) ([]*model.Project, model.Pagination, error) {
	total, err := s.ProjectDao.CountFiltered(ctx, f)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	p := model.NewPagination(page, limit, total)
	list, err := s.ProjectDao.ListFiltered(ctx, f, p.Limit, p.Offset())
	if err != nil {
		return nil, model.Pagination{}, err
	}
	return list, p, nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (*model.Project, error) {
	return s.ProjectDao.Get(ctx, id)
}

func (s *ProjectService) Create(ctx context.Context, p *model.Project) error {
	return s.ProjectDao.Create(ctx, p)
}

func (s *ProjectService) Update(ctx context.Context, id string, patch model.ProjectPatch) (*model.Project, error) {
	return s.ProjectDao.Update(ctx, id, patch)
}

// UpdateStatus is the single-field transition used by the board header.
func (s *ProjectService) UpdateStatus(ctx context.Context, id string, status consts.ProjectStatus) (*model.Project, error) {
	return s.ProjectDao.Update(ctx, id, model.ProjectPatch{Status: &status})
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	return s.ProjectDao.Delete(ctx, id)
}
