package registry

import (
	"fmt"

	"github.com/praxisware/tpflow/internal/components/telemetry"
	"github.com/praxisware/tpflow/internal/config"
	"github.com/praxisware/tpflow/internal/consts"
	"github.com/praxisware/tpflow/internal/core"
)

func init() {
	Register(consts.COMPONENT_TELEMETRY, func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		if cfg.Telemetry == nil || !cfg.Telemetry.Enabled {
			return false, nil, nil
		}
		if cfg.Telemetry.ServiceName == "" && cfg.APPInfo != nil {
			cfg.Telemetry.ServiceName = cfg.APPInfo.APPName
		}
		if cfg.Telemetry.ServiceName == "" {
			return false, nil, fmt.Errorf("telemetry.service_name empty and app_info.app_name not provided")
		}
		return true, telemetry.NewTelemetryComponent(cfg.Telemetry), nil
	})
}
