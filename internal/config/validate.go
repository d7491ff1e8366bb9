package config

import (
	"errors"
	"fmt"
	"time"
)

// Validate checks the complete configuration for contradictions a build
// would otherwise only discover halfway through.
func (c *Config) Validate() error {
	validator := newConfigurationValidator(c)
	return validator.validate()
}

// configurationValidator coordinates validation across configuration domains.
type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	if err := cv.validatePaths(); err != nil {
		return err
	}
	if err := cv.validatePages(); err != nil {
		return err
	}
	if err := cv.validateServe(); err != nil {
		return err
	}
	if err := cv.validateEvents(); err != nil {
		return err
	}
	return nil
}

// validatePaths ensures each configured path is non-empty after defaults.
func (cv *configurationValidator) validatePaths() error {
	if cv.config.Paths.Templates == "" {
		return errors.New("paths.templates cannot be empty")
	}
	if cv.config.Paths.Static == "" {
		return errors.New("paths.static cannot be empty")
	}
	if cv.config.Paths.Output == "" {
		return errors.New("paths.output cannot be empty")
	}
	return nil
}

// validatePages checks the page table: unique non-empty categories, listing
// pages with a source directory, detail pages only on listings and with a
// detail template.
func (cv *configurationValidator) validatePages() error {
	if len(cv.config.Pages) == 0 {
		return errors.New("at least one page must be configured")
	}

	categories := make(map[string]bool)

	for _, page := range cv.config.Pages {
		if page.Category == "" {
			return errors.New("page category cannot be empty")
		}
		if categories[page.Category] {
			return fmt.Errorf("duplicate page category: %s", page.Category)
		}
		categories[page.Category] = true

		if page.Template == "" {
			return fmt.Errorf("page %s: template cannot be empty", page.Category)
		}
		if page.Listing && page.SourceDir == "" {
			return fmt.Errorf("page %s: listing pages require source_dir", page.Category)
		}
		if page.DetailPages && !page.Listing {
			return fmt.Errorf("page %s: detail_pages requires listing", page.Category)
		}
		if page.DetailPages && page.DetailTemplate == "" {
			return fmt.Errorf("page %s: detail_pages requires detail_template", page.Category)
		}
	}

	return nil
}

// validateServe checks daemon tuning values.
func (cv *configurationValidator) validateServe() error {
	if cv.config.Serve.DebounceMS < 0 {
		return fmt.Errorf("serve.debounce_ms cannot be negative: %d", cv.config.Serve.DebounceMS)
	}
	if cv.config.Serve.RebuildEvery != "" {
		d, err := time.ParseDuration(cv.config.Serve.RebuildEvery)
		if err != nil {
			return fmt.Errorf("invalid serve.rebuild_every: %s: %w", cv.config.Serve.RebuildEvery, err)
		}
		if d < time.Second {
			return fmt.Errorf("serve.rebuild_every must be at least 1s, got %s", cv.config.Serve.RebuildEvery)
		}
	}
	return nil
}

// validateEvents requires URL and subject together.
func (cv *configurationValidator) validateEvents() error {
	ev := cv.config.Events
	if ev.URL == "" && ev.Subject == "" {
		return nil
	}
	if ev.URL == "" || ev.Subject == "" {
		return errors.New("events requires both url and subject")
	}
	return nil
}

// PublishingEnabled reports whether build events should be published.
func (e EventsConfig) PublishingEnabled() bool {
	return e.URL != "" && e.Subject != ""
}
