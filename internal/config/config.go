package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is where Load looks when no --config flag is given.
const DefaultConfigPath = "idspispopd.yaml"

// Config is the root configuration document.
type Config struct {
	Site    SiteConfig    `yaml:"site,omitempty"`
	Paths   PathsConfig   `yaml:"paths,omitempty"`
	Pages   []PageDef     `yaml:"pages,omitempty"`
	Serve   ServeConfig   `yaml:"serve,omitempty"`
	Events  EventsConfig  `yaml:"events,omitempty"`
	GitInfo GitInfoConfig `yaml:"git_info,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// Load reads the configuration from the specified file, expands ${VAR}
// references from the environment (a .env file is loaded first when
// present), applies defaults and validates. A missing file is an error.
func Load(configPath string) (*Config, error) {
	// Optional: values referenced via ${VAR} in the YAML may live in .env.
	_ = godotenv.Load()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", configPath, err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", configPath, err)
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault behaves like Load but falls back to the built-in
// configuration when the file at the default path does not exist, so the
// tool works in a bare project layout without a config file. An explicit
// non-default path must exist.
func LoadOrDefault(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if configPath != DefaultConfigPath {
			return nil, fmt.Errorf("configuration file not found: %s", configPath)
		}
		return Default()
	}
	return Load(configPath)
}

// Default returns the built-in configuration: the conventional
// content/templates/static/build layout and the standard page set.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
