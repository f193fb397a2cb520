package registry

import (
	"github.com/praxisware/tpflow/internal/components/logging"
	"github.com/praxisware/tpflow/internal/config"
	"github.com/praxisware/tpflow/internal/consts"
	"github.com/praxisware/tpflow/internal/core"
)

func init() {
	Register(consts.COMPONENT_LOGGING, func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		if cfg.Logging == nil || !cfg.Logging.Enabled {
			return false, nil, nil
		}
		comp, err := logging.NewFactory().Create(cfg.Logging)
		if err != nil {
			return true, nil, err
		}
		return true, comp, nil
	})
}
