package config

import "fmt"

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// applyDefaults runs every domain applier in dependency order.
func (c *Config) applyDefaults() error {
	appliers := []DefaultApplier{
		&SiteDefaultApplier{},
		&PathsDefaultApplier{},
		&PagesDefaultApplier{},
		&ServeDefaultApplier{},
		&LoggingDefaultApplier{},
	}
	for _, applier := range appliers {
		if err := applier.ApplyDefaults(c); err != nil {
			return fmt.Errorf("applying defaults for %s: %w", applier.Domain(), err)
		}
	}
	return nil
}

// SiteDefaultApplier handles site metadata defaults.
type SiteDefaultApplier struct{}

func (s *SiteDefaultApplier) Domain() string { return "site" }

func (s *SiteDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Site.Title == "" {
		cfg.Site.Title = "My Site"
	}
	return nil
}

// PathsDefaultApplier handles input/output path defaults. The conventional
// layout keeps authored content, templates and static assets as siblings of
// the build output.
type PathsDefaultApplier struct{}

func (p *PathsDefaultApplier) Domain() string { return "paths" }

func (p *PathsDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Paths.Content == "" {
		cfg.Paths.Content = "content"
	}
	if cfg.Paths.Templates == "" {
		cfg.Paths.Templates = "templates"
	}
	if cfg.Paths.Static == "" {
		cfg.Paths.Static = "static"
	}
	if cfg.Paths.Output == "" {
		cfg.Paths.Output = "build"
	}
	return nil
}

// PagesDefaultApplier fills in the standard page set when the config
// declares none: an error page, an about page, a blog with per-post detail
// pages, and a projects listing.
type PagesDefaultApplier struct{}

func (p *PagesDefaultApplier) Domain() string { return "pages" }

func (p *PagesDefaultApplier) ApplyDefaults(cfg *Config) error {
	if len(cfg.Pages) == 0 {
		cfg.Pages = DefaultPages(cfg.Paths.Content)
	}
	for i := range cfg.Pages {
		// Template defaults to the category name.
		if cfg.Pages[i].Template == "" {
			cfg.Pages[i].Template = cfg.Pages[i].Category
		}
	}
	return nil
}

// DefaultPages returns the built-in page set rooted under contentDir.
func DefaultPages(contentDir string) []PageDef {
	return []PageDef{
		{Category: "404", Template: "404"},
		{Category: "about", Template: "about"},
		{
			Category:       "blog",
			Template:       "blog",
			Listing:        true,
			SourceDir:      contentDir + "/blog",
			DetailPages:    true,
			DetailTemplate: "post",
		},
		{
			Category:  "projects",
			Template:  "projects",
			Listing:   true,
			SourceDir: contentDir + "/projects",
		},
	}
}

// ServeDefaultApplier handles preview daemon defaults.
type ServeDefaultApplier struct{}

func (s *ServeDefaultApplier) Domain() string { return "serve" }

func (s *ServeDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Serve.Addr == "" {
		cfg.Serve.Addr = ":8080"
	}
	if cfg.Serve.DebounceMS <= 0 {
		cfg.Serve.DebounceMS = 300
	}
	if cfg.Serve.StateDir == "" {
		cfg.Serve.StateDir = ".idspispopd"
	}
	return nil
}

// LoggingDefaultApplier handles logging defaults.
type LoggingDefaultApplier struct{}

func (l *LoggingDefaultApplier) Domain() string { return "logging" }

func (l *LoggingDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = string(LogLevelInfo)
	} else if lv := NormalizeLogLevel(cfg.Logging.Level); lv != "" {
		cfg.Logging.Level = string(lv)
	} else {
		cfg.Logging.Level = string(LogLevelInfo)
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = string(LogFormatText)
	} else if f := NormalizeLogFormat(cfg.Logging.Format); f != "" {
		cfg.Logging.Format = string(f)
	} else {
		cfg.Logging.Format = string(LogFormatText)
	}
	return nil
}
