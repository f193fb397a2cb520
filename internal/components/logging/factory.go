package logging

import (
	"fmt"

	"github.com/praxisware/tpflow/internal/core"
)

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(cfg interface{}) (core.Component, error) {
	loggingConfig, ok := cfg.(*Config)
	if !ok {
		return nil, fmt.Errorf("invalid config type for logging component, expected *logging.Config")
	}

	if !loggingConfig.Enabled {
		return nil, fmt.Errorf("logging component is disabled")
	}

	f.setDefaults(loggingConfig)

	return NewLoggerComponent(loggingConfig), nil
}

func (f *Factory) setDefaults(cfg *Config) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	if cfg.Format == "" {
		cfg.Format = "json"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
	if cfg.Output == "file" && cfg.FileConfig == nil {
		cfg.FileConfig = &FileConfig{Dir: "./logs", Filename: "app"}
	}
}
