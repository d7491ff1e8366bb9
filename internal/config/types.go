package config

import "strings"

// SiteConfig holds site-wide values exposed to every template under .Site.
type SiteConfig struct {
	Title       string `yaml:"title"`
	BaseURL     string `yaml:"base_url,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// PathsConfig points at the authored input trees and the output root.
// All paths are relative to the working directory unless absolute.
type PathsConfig struct {
	Content   string `yaml:"content"`
	Templates string `yaml:"templates"`
	Static    string `yaml:"static"`
	Output    string `yaml:"output"`
}

// PageDef declares one top-level page of the site. Category doubles as the
// output directory name and the template context's category value. Template
// names are given without the .html suffix (applied at lookup).
type PageDef struct {
	Category string `yaml:"category"`
	Template string `yaml:"template"`
	// Listing pages enumerate SourceDir and render an item collection.
	Listing   bool   `yaml:"listing,omitempty"`
	SourceDir string `yaml:"source_dir,omitempty"`
	// DetailPages asks for one page per item under <category>/<slug>/.
	DetailPages    bool   `yaml:"detail_pages,omitempty"`
	DetailTemplate string `yaml:"detail_template,omitempty"`
}

// ServeConfig tunes the local preview daemon.
type ServeConfig struct {
	Addr       string `yaml:"addr,omitempty"`
	DebounceMS int    `yaml:"debounce_ms,omitempty"`
	Metrics    bool   `yaml:"metrics,omitempty"`
	// RebuildEvery, when set to a duration string, schedules periodic full
	// rebuilds so future-dated content appears without a file event.
	RebuildEvery string `yaml:"rebuild_every,omitempty"`
	// StateDir holds the build history database. Defaults to .idspispopd.
	StateDir string `yaml:"state_dir,omitempty"`
}

// EventsConfig enables publishing build lifecycle events to NATS.
// Both fields empty disables publishing entirely.
type EventsConfig struct {
	URL     string `yaml:"url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// GitInfoConfig toggles git last-modified enrichment of listing items.
type GitInfoConfig struct {
	Enabled bool `yaml:"enabled,omitempty"`
}

// LoggingConfig selects log verbosity and output format.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug|info|warn|error
	Format string `yaml:"format,omitempty"` // text|json
}

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// NormalizeLogLevel canonicalizes user input, returning empty for unknown.
func NormalizeLogLevel(raw string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(LogLevelDebug):
		return LogLevelDebug
	case string(LogLevelInfo):
		return LogLevelInfo
	case string(LogLevelWarn):
		return LogLevelWarn
	case string(LogLevelError):
		return LogLevelError
	default:
		return ""
	}
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

// NormalizeLogFormat canonicalizes user input, returning empty for unknown.
func NormalizeLogFormat(raw string) LogFormat {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(LogFormatJSON):
		return LogFormatJSON
	case string(LogFormatText):
		return LogFormatText
	default:
		return ""
	}
}
