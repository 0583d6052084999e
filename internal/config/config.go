// Package config loads server configuration from a YAML file, with
// sensible defaults so an empty or missing config still boots a
// working server.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/theprincepratap/AlexNet-Visualization/internal/alexnet"
)

// Config holds all server configuration.
type Config struct {
	Addr        string `yaml:"addr"`
	WeightsPath string `yaml:"weights_path"`
	LabelsPath  string `yaml:"labels_path"`
	LabelsURL   string `yaml:"labels_url"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
}

func (c *Config) defaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.WeightsPath == "" {
		c.WeightsPath = "alexnet.onnx"
	}
	if c.LabelsURL == "" {
		c.LabelsURL = alexnet.DefaultLabelsURL
	}
	if c.MaxUploadMB <= 0 {
		c.MaxUploadMB = 10
	}
}

// Load reads a YAML config file and fills in defaults. An empty path
// returns the pure defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	cfg.defaults()
	return cfg, nil
}
