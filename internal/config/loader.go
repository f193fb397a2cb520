package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/praxisware/tpflow/internal/consts"
)

// Loader reads the YAML (or JSON) config file into AppConfig.
type Loader struct {
	env        string
	configPath string
	// bizConfig: caller-supplied pointer that receives the biz_config subtree.
	bizConfig any
}

func NewLoader(env string, configPath string) *Loader {
	if env == "" {
		env = consts.ENV_DEVELOPMENT
	}
	if configPath == "" {
		configPath = consts.DEFAULT_CONFIG_PATH
	}
	return &Loader{env: env, configPath: configPath}
}

// SetBizConfig injects the project config pointer (e.g. &BizConfig{}).
// Must be called before LoadConfig; a pointer is required so decoding fills
// the caller's struct in place.
func (l *Loader) SetBizConfig(b any) {
	if b == nil {
		return
	}
	if reflect.TypeOf(b).Kind() != reflect.Ptr {
		panic("SetBizConfig expects a pointer, e.g. &BizConfig{}")
	}
	l.bizConfig = b
}

// LoadConfig parses the whole AppConfig first, then re-decodes the biz_config
// subtree into the business pointer. yaml.v3 replaces interface values with
// maps, so the double decode is required to preserve typed defaults.
func (l *Loader) LoadConfig() (*AppConfig, error) {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	ext := strings.ToLower(filepath.Ext(l.configPath))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	if l.bizConfig != nil && cfg.BizConfig != nil {
		if err := l.decodeBizSection(ext, cfg.BizConfig, l.bizConfig); err != nil {
			return nil, fmt.Errorf("decode biz_config failed: %w", err)
		}
		cfg.BizConfig = l.bizConfig
	} else if l.bizConfig != nil && cfg.BizConfig == nil {
		// No biz_config in file; keep the caller's defaults.
		cfg.BizConfig = l.bizConfig
	}

	return &cfg, nil
}

// decodeBizSection round-trips the parsed subtree through the original codec
// into the business pointer, preserving unset fields' defaults.
func (l *Loader) decodeBizSection(ext string, raw any, target any) error {
	var (
		blob []byte
		err  error
	)
	switch ext {
	case ".yaml", ".yml":
		blob, err = yaml.Marshal(raw)
	case ".json":
		blob, err = json.Marshal(raw)
	default:
		return fmt.Errorf("unsupported format: %s", ext)
	}
	if err != nil {
		return fmt.Errorf("re-marshal biz_config failed: %w", err)
	}
	switch ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(blob, target)
	case ".json":
		err = json.Unmarshal(blob, target)
	}
	if err != nil {
		return fmt.Errorf("unmarshal biz_config into target failed: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
