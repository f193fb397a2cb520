package logging

import "time"

type Config struct {
	Enabled      bool          `yaml:"enabled" json:"enabled"`
	Level        string        `yaml:"level" json:"level"`
	Format       string        `yaml:"format" json:"format"`
	Output       string        `yaml:"output" json:"output"`
	FileConfig   *FileConfig   `yaml:"file_config,omitempty" json:"file_config,omitempty"`
	RotateConfig *RotateConfig `yaml:"rotate_config,omitempty" json:"rotate_config,omitempty"`
}

type FileConfig struct {
	Dir      string `yaml:"dir" json:"dir"`
	Filename string `yaml:"filename" json:"filename"`
}

type RotateConfig struct {
	Enabled   bool          `yaml:"enabled" json:"enabled"`
	MaxSizeMB int           `yaml:"max_size_mb" json:"max_size_mb"`
	MaxAge    time.Duration `yaml:"max_age" json:"max_age"`
	Compress  bool          `yaml:"compress" json:"compress"`
}
