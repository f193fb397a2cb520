package registry

import (
	"github.com/praxisware/tpflow/internal/components/mysqlgorm"
	"github.com/praxisware/tpflow/internal/config"
	"github.com/praxisware/tpflow/internal/consts"
	"github.com/praxisware/tpflow/internal/core"
)

func init() {
	Register(consts.COMPONENT_MYSQL_GORM, func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		if cfg.MySQLGORM == nil || !cfg.MySQLGORM.Enabled {
			return false, nil, nil
		}
		comp, err := mysqlgorm.NewFactory().Create(cfg.MySQLGORM)
		if err != nil {
			return true, nil, err
		}
		return true, comp, nil
	})
}
