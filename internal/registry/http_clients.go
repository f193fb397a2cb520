package registry

import (
	"github.com/praxisware/tpflow/internal/components/httpclient"
	"github.com/praxisware/tpflow/internal/config"
	"github.com/praxisware/tpflow/internal/consts"
	"github.com/praxisware/tpflow/internal/core"
)

func init() {
	Register(consts.COMPONENT_HTTP_CLIENTS, func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		if cfg.HTTPClients == nil || !cfg.HTTPClients.Enabled {
			return false, nil, nil
		}
		comp, err := httpclient.NewFactory().Create(cfg.HTTPClients)
		if err != nil {
			return true, nil, err
		}
		return true, comp, nil
	})
}
