package config

import (
	"github.com/praxisware/tpflow/internal/components/httpclient"
	"github.com/praxisware/tpflow/internal/components/httpserver"
	"github.com/praxisware/tpflow/internal/components/logging"
	"github.com/praxisware/tpflow/internal/components/mysqlgorm"
	"github.com/praxisware/tpflow/internal/components/postgresgorm"
	"github.com/praxisware/tpflow/internal/components/prometheus"
	"github.com/praxisware/tpflow/internal/components/redis"
	"github.com/praxisware/tpflow/internal/components/telemetry"
)

// AppConfig is the full application configuration tree. Each component owns
// its own section type; BizConfig carries the project-specific subtree and is
// re-decoded into the pointer supplied via ConfigManager.SetBizConfig.
type AppConfig struct {
	APPInfo      *APPInfo             `yaml:"app_info" json:"app_info"`
	Logging      *logging.Config      `yaml:"logging" json:"logging"`
	HTTPServer   *httpserver.Config   `yaml:"http_server" json:"http_server"`
	HTTPClients  *httpclient.Config   `yaml:"http_clients" json:"http_clients"`
	MySQLGORM    *mysqlgorm.Config    `yaml:"mysql_gorm" json:"mysql_gorm"`
	PostgresGORM *postgresgorm.Config `yaml:"postgres_gorm" json:"postgres_gorm"`
	Redis        *redis.Config        `yaml:"redis" json:"redis"`
	Prometheus   *prometheus.Config   `yaml:"prometheus" json:"prometheus"`
	Telemetry    *telemetry.Config    `yaml:"telemetry" json:"telemetry"`
	BizConfig    any                  `yaml:"biz_config" json:"biz_config"`
}

type APPInfo struct {
	APPName string `yaml:"app_name" json:"app_name"`
	ENV     string `yaml:"env" json:"env"`
}
