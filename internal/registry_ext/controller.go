package registry_ext

import (
	"github.com/praxisware/tpflow/internal/api"
	"github.com/praxisware/tpflow/internal/config"
	"github.com/praxisware/tpflow/internal/consts"
	"github.com/praxisware/tpflow/internal/core"
	"github.com/praxisware/tpflow/internal/registry"
)

func init() {
	// The http_server must start after the controllers it resolves routes from.
	registry.ExtendRuntimeDependencies(consts.COMPONENT_HTTP_SERVER,
		consts.COMP_CTRL_TASK, consts.COMP_CTRL_PROJECT, consts.COMP_CTRL_WORKFLOW)

	registry.RegisterAuto(func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		return true, api.NewTaskController(), nil
	})
	registry.RegisterAuto(func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		return true, api.NewProjectController(), nil
	})
	registry.RegisterAuto(func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		return true, api.NewWorkflowController(), nil
	})
}
