package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/praxisware/tpflow/internal/components/logging"
	promcomp "github.com/praxisware/tpflow/internal/components/prometheus"
	rediscomp "github.com/praxisware/tpflow/internal/components/redis"
	"github.com/praxisware/tpflow/internal/consts"
	"github.com/praxisware/tpflow/internal/core"
	"github.com/praxisware/tpflow/internal/dao"
	"github.com/praxisware/tpflow/internal/model"
)

const (
	statsCacheTTL       = 30 * time.Second
	statsCacheKeyPrefix = "tpflow:stats:"
	statsCacheAllKey    = statsCacheKeyPrefix + "_all"
)

// TaskService sits between the REST controllers and TaskDao. It owns the
// short-TTL stats cache in redis: every task mutation invalidates the
// affected project's cached stats plus the global bucket, so displayed
// counts never lag a mutation by more than one reload. Redis is optional;
// without it every Stats call goes to the DB.
type TaskService struct {
	*core.BaseComponent
	TaskDao dao.TaskDao               `infra:"dep:task_dao"`
	Redis   *rediscomp.RedisComponent `infra:"dep:redis?"`

	mutations *prometheus.CounterVec
}

func NewTaskService() *TaskService {
	return &TaskService{
		BaseComponent: core.NewBaseComponent(consts.COMP_SVC_TASK, consts.COMP_DAO_TASK),
	}
}

func (s *TaskService) Start(ctx context.Context) error {
	if s.IsActive() {
		return nil
	}
	if err := s.BaseComponent.Start(ctx); err != nil {
		return err
	}
	if p := promcomp.C(); p != nil {
		s.mutations = p.NewCounter("task_mutations_total",
			"Task mutations by operation and result.", []string{"op", "result"})
	}
	return nil
}

func (s *TaskService) countMutation(op string, err error) {
	if s.mutations == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	s.mutations.WithLabelValues(op, result).Inc()
}

// List returns one page of tasks plus pagination derived from the
// filtered total. The requested page is clamped into [1, totalPages].
func (s *TaskService) List(ctx context.Context, f *model.TaskFilters, page, limit int) ([]*model.Task, model.Pagination, error) {
	total, err := s.TaskDao.CountFiltered(ctx, f)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	p := model.NewPagination(page, limit, total)
	list, err := s.TaskDao.ListFiltered(ctx, f, p.Limit, p.Offset())
	if err != nil {
		return nil, model.Pagination{}, err
	}
	return list, p, nil
}

func (s *TaskService) Get(ctx context.Context, id string) (*model.Task, error) {
	return s.TaskDao.Get(ctx, id)
}

func (s *TaskService) Create(ctx context.Context, t *model.Task) error {
	err := s.TaskDao.Create(ctx, t)
	s.countMutation("create", err)
	if err != nil {
		return err
	}
	s.invalidateStats(ctx, t.ProjectID)
	return nil
}

func (s *TaskService) Update(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
	updated, err := s.TaskDao.Update(ctx, id, patch)
	s.countMutation("update", err)
	if err != nil {
		return nil, err
	}
	s.invalidateStats(ctx, updated.ProjectID)
	if patch.ProjectID != nil {
		// Task may have moved between projects; drop the old bucket too.
		s.invalidateStats(ctx, patch.ProjectID)
	}
	return updated, nil
}

// UpdateStatus is the single-field convenience used by the kanban drag flow.
func (s *TaskService) UpdateStatus(ctx context.Context, id string, status consts.TaskStatus) (*model.Task, error) {
	return s.Update(ctx, id, model.TaskPatch{Status: &status})
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	t, err := s.TaskDao.Get(ctx, id)
	if err != nil {
		return err
	}
	err = s.TaskDao.Delete(ctx, id)
	s.countMutation("delete", err)
	if err != nil {
		return err
	}
	s.invalidateStats(ctx, t.ProjectID)
	return nil
}

// Stats returns aggregate counts, serving from the redis cache when a
// fresh entry exists. Cache errors degrade to a direct DB aggregation.
func (s *TaskService) Stats(ctx context.Context, projectID string) (*model.TaskStats, error) {
	key := statsCacheKey(projectID)
	if c := s.redisClient(); c != nil {
		raw, err := c.Get(ctx, key).Bytes()
		if err == nil {
			var cached model.TaskStats
			if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
				cached.FillBuckets()
				return &cached, nil
			}
		}
	}

	stats, err := s.TaskDao.Stats(ctx, projectID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if c := s.redisClient(); c != nil {
		if raw, jsonErr := json.Marshal(stats); jsonErr == nil {
			if err := c.Set(ctx, key, raw, statsCacheTTL).Err(); err != nil {
				logging.Warn(ctx, fmt.Sprintf("stats cache set %s: %v", key, err))
			}
		}
	}
	return stats, nil
}

func (s *TaskService) invalidateStats(ctx context.Context, projectID *string) {
	c := s.redisClient()
	if c == nil {
		return
	}
	keys := []string{statsCacheAllKey}
	if projectID != nil && strings.TrimSpace(*projectID) != "" {
		keys = append(keys, statsCacheKey(*projectID))
	}
	if err := c.Del(ctx, keys...).Err(); err != nil {
		logging.Warn(ctx, fmt.Sprintf("stats cache invalidate %v: %v", keys, err))
	}
}

func (s *TaskService) redisClient() redis.UniversalClient {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Client()
}

func statsCacheKey(projectID string) string {
	if strings.TrimSpace(projectID) == "" {
		return statsCacheAllKey
	}
	return statsCacheKeyPrefix + projectID
}
