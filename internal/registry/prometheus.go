package registry

import (
	"github.com/praxisware/tpflow/internal/components/prometheus"
	"github.com/praxisware/tpflow/internal/config"
	"github.com/praxisware/tpflow/internal/consts"
	"github.com/praxisware/tpflow/internal/core"
)

func init() {
	Register(consts.COMPONENT_PROMETHEUS, func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		if cfg.Prometheus == nil || !cfg.Prometheus.Enabled {
			return false, nil, nil
		}
		comp, err := prometheus.NewFactory().Create(cfg.Prometheus)
		if err != nil {
			return true, nil, err
		}
		return true, comp, nil
	})
}
