package registry

import (
	"github.com/praxisware/tpflow/internal/components/redis"
	"github.com/praxisware/tpflow/internal/config"
	"github.com/praxisware/tpflow/internal/consts"
	"github.com/praxisware/tpflow/internal/core"
)

func init() {
	Register(consts.COMPONENT_REDIS, func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		if cfg.Redis == nil || !cfg.Redis.Enabled {
			return false, nil, nil
		}
		comp, err := redis.NewFactory().Create(cfg.Redis)
		if err != nil {
			return true, nil, err
		}
		return true, comp, nil
	})
}
