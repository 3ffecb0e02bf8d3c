package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"loov.dev/evmlens/internal/solc"
)

// Config is the evmlens configuration file.
type Config struct {
	Compiler struct {
		URL        string `yaml:"url"`
		EVMVersion string `yaml:"evmVersion"`
	} `yaml:"compiler"`
	Debounce string `yaml:"debounce"` // Go duration, e.g. "300ms"
	Context  int    `yaml:"context"`
	Listen   string `yaml:"listen"`
}

func defaultConfig() Config {
	var cfg Config
	cfg.Compiler.URL = "http://localhost:8400/compile"
	cfg.Compiler.EVMVersion = solc.DefaultEVMVersion
	cfg.Debounce = "300ms"
	cfg.Context = 3
	cfg.Listen = "localhost:8401"
	return cfg
}

// loadConfig reads the YAML config at path, or returns defaults when path
// is empty.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func (cfg Config) debounce() (time.Duration, error) {
	if cfg.Debounce == "" {
		return 300 * time.Millisecond, nil
	}
	d, err := time.ParseDuration(cfg.Debounce)
	if err != nil {
		return 0, fmt.Errorf("invalid debounce %q: %w", cfg.Debounce, err)
	}
	return d, nil
}
