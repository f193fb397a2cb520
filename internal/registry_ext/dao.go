package registry_ext

import (
	"github.com/praxisware/tpflow/internal/config"
	"github.com/praxisware/tpflow/internal/core"
	"github.com/praxisware/tpflow/internal/dao"
	"github.com/praxisware/tpflow/internal/registry"
)

func init() {
	// datasource name comes from config.yaml -> mysql_gorm.data_sources
	registry.RegisterAuto(func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		return true, dao.NewTaskDao("tpflow"), nil
	})
	registry.RegisterAuto(func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		return true, dao.NewProjectDao("tpflow"), nil
	})
	registry.RegisterAuto(func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		return true, dao.NewWorkflowDao("tpflow"), nil
	})
}
