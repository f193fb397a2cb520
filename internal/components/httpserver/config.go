package httpserver

import "time"

type Config struct {
	Enabled         bool          `yaml:"enabled" json:"enabled"`
	Address         string        `yaml:"address" json:"address"`
	ReadTimeout     time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" json:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" json:"idle_timeout"`
	GracefulTimeout time.Duration `yaml:"graceful_timeout" json:"graceful_timeout"`
	EnableHealth    bool          `yaml:"enable_health" json:"enable_health"`
	// ServiceName is injected from APPInfo.APPName, not from YAML.
	ServiceName string `yaml:"-" json:"-"`
}
