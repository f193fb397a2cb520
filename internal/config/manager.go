package config

type ConfigManager struct {
	configLoader *Loader
	validator    *Validator
	appConfig    *AppConfig
}

func NewConfigManager(env string, configPath string) *ConfigManager {
	return &ConfigManager{
		configLoader: NewLoader(env, configPath),
		validator:    NewValidator(),
	}
}

// NewConfigManagerWithBiz is a convenience constructor that wires the
// business config pointer directly.
func NewConfigManagerWithBiz(env, configPath string, biz any) *ConfigManager {
	cm := NewConfigManager(env, configPath)
	cm.SetBizConfig(biz)
	return cm
}

// SetBizConfig must be called before LoadConfig.
func (cf *ConfigManager) SetBizConfig(b any) {
	if cf != nil && cf.configLoader != nil {
		cf.configLoader.SetBizConfig(b)
	}
}

func (cf *ConfigManager) BizConfig() any {
	if cf == nil || cf.appConfig == nil {
		return nil
	}
	return cf.appConfig.BizConfig
}

func (cf *ConfigManager) GetConfig() *AppConfig { return cf.appConfig }

func (cf *ConfigManager) LoadConfig() error {
	if err := cf.validator.validateConfigFilePath(cf.configLoader.env, cf.configLoader.configPath); err != nil {
		return err
	}

	config, err := cf.configLoader.LoadConfig()
	if err != nil {
		return err
	}

	if err = cf.validator.ValidateAppConfig(config); err != nil {
		return err
	}

	cf.appConfig = config
	return nil
}
