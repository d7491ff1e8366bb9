package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyCategory   = "category"
	KeyTag        = "tag"
	KeyPage       = "page"
	KeyPath       = "path"
	KeyTemplate   = "template"
	KeySlug       = "slug"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyCount      = "count"
	KeyAddr       = "addr"
	KeySubject    = "subject"
	KeyBuildID    = "build_id"
	KeyTrigger    = "trigger"
	KeyOutcome    = "outcome"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Category(c string) slog.Attr     { return slog.String(KeyCategory, c) }
func Tag(t string) slog.Attr          { return slog.String(KeyTag, t) }
func Page(p string) slog.Attr         { return slog.String(KeyPage, p) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Template(t string) slog.Attr     { return slog.String(KeyTemplate, t) }
func Slug(s string) slog.Attr         { return slog.String(KeySlug, s) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Addr(a string) slog.Attr         { return slog.String(KeyAddr, a) }
func Subject(s string) slog.Attr      { return slog.String(KeySubject, s) }
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Trigger(t string) slog.Attr      { return slog.String(KeyTrigger, t) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
