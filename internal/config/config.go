package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"personmerge/internal/merge"
)

// Config holds settings loaded from personmerge.yml. Flags override it.
type Config struct {
	NamePolicy string `yaml:"name_policy,omitempty"`
	FoldCase   bool   `yaml:"fold_case,omitempty"`
	LogLevel   string `yaml:"log_level,omitempty"`
	ListenAddr string `yaml:"listen_addr,omitempty"`
	DB         string `yaml:"db,omitempty"`
}

// FileNames are the config file names Load looks for, in order.
var FileNames = []string{"personmerge.yml", "personmerge.yaml"}

// Load reads personmerge.yml or personmerge.yaml from dir. Returns a
// zero-value config (not an error) if no config file exists.
func Load(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		if _, err := merge.ParseNamePolicy(cfg.NamePolicy); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return &cfg, nil
	}
	return &Config{}, nil
}

// MergeOptions translates the config into merge options.
func (c *Config) MergeOptions() []merge.Option {
	policy, _ := merge.ParseNamePolicy(c.NamePolicy)
	opts := []merge.Option{merge.WithNamePolicy(policy)}
	if c.FoldCase {
		opts = append(opts, merge.WithEmailKey(merge.FoldEmail))
	}
	return opts
}
