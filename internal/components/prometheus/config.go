package prometheus

type Config struct {
	Enabled          bool   `yaml:"enabled" json:"enabled"`
	Address          string `yaml:"address" json:"address"`
	Path             string `yaml:"path" json:"path"`
	Namespace        string `yaml:"namespace" json:"namespace"`
	Subsystem        string `yaml:"subsystem" json:"subsystem"`
	CollectGoMetrics bool   `yaml:"collect_go_metrics" json:"collect_go_metrics"`
	CollectProcess   bool   `yaml:"collect_process" json:"collect_process"`
}
