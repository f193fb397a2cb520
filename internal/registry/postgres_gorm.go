package registry

import (
	"github.com/praxisware/tpflow/internal/components/postgresgorm"
	"github.com/praxisware/tpflow/internal/config"
	"github.com/praxisware/tpflow/internal/consts"
	"github.com/praxisware/tpflow/internal/core"
)

func init() {
	Register(consts.COMPONENT_POSTGRES_GORM, func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		if cfg.PostgresGORM == nil || !cfg.PostgresGORM.Enabled {
			return false, nil, nil
		}
		comp, err := postgresgorm.NewFactory().Create(cfg.PostgresGORM)
		if err != nil {
			return true, nil, err
		}
		return true, comp, nil
	})
}
