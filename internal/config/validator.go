package config

import (
	"fmt"

	"github.com/praxisware/tpflow/internal/consts"
)

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) validateConfigFilePath(env string, configPath string) error {
	if configPath == "" {
		return fmt.Errorf("config path is empty")
	}
	if !fileExists(configPath) {
		return fmt.Errorf("config file not found: %s", configPath)
	}
	return nil
}

// ValidateAppConfig checks the fields every deployment needs. Component
// sections are optional; a missing section just means the component is
// not enabled for this process.
func (v *Validator) ValidateAppConfig(cfg *AppConfig) error {
	if cfg == nil {
		return fmt.Errorf("app config is nil")
	}
	if cfg.APPInfo == nil || cfg.APPInfo.APPName == "" {
		return fmt.Errorf("app_info.app_name is required")
	}
	switch cfg.APPInfo.ENV {
	case consts.ENV_DEVELOPMENT, consts.ENV_TEST, consts.ENV_PRODUCTION:
	case "":
		cfg.APPInfo.ENV = consts.ENV_DEVELOPMENT
	default:
		return fmt.Errorf("app_info.env is invalid: %s", cfg.APPInfo.ENV)
	}
	return nil
}
