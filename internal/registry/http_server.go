package registry

import (
	"github.com/praxisware/tpflow/internal/components/httpserver"
	"github.com/praxisware/tpflow/internal/config"
	"github.com/praxisware/tpflow/internal/consts"
	"github.com/praxisware/tpflow/internal/core"
)

func init() {
	Register(consts.COMPONENT_HTTP_SERVER, func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		if cfg.HTTPServer == nil || !cfg.HTTPServer.Enabled {
			return false, nil, nil
		}
		if cfg.HTTPServer.ServiceName == "" && cfg.APPInfo != nil {
			cfg.HTTPServer.ServiceName = cfg.APPInfo.APPName
		}
		comp, err := httpserver.NewFactory(c).Create(cfg.HTTPServer)
		if err != nil {
			return true, nil, err
		}
		return true, comp, nil
	})
}
