package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Config{
		Site: SiteConfig{
			Title:       "My Site",
			BaseURL:     "https://example.com",
			Description: "A personal site built from Markdown",
		},
		Paths: PathsConfig{
			Content:   "content",
			Templates: "templates",
			Static:    "static",
			Output:    "build",
		},
		Pages: DefaultPages("content"),
		Serve: ServeConfig{
			Addr:       ":8080",
			DebounceMS: 300,
		},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil { // #nosec G306 -- config file, not a secret
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
