package registry_ext

import (
	"github.com/praxisware/tpflow/internal/config"
	"github.com/praxisware/tpflow/internal/core"
	"github.com/praxisware/tpflow/internal/registry"
	"github.com/praxisware/tpflow/internal/service"
)

func init() {
	registry.RegisterAuto(func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		return true, service.NewTaskService(), nil
	})
	registry.RegisterAuto(func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		return true, service.NewProjectService(), nil
	})
	registry.RegisterAuto(func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		return true, service.NewWorkflowService(), nil
	})
}
