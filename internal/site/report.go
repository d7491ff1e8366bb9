package site

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// BuildOutcome summarizes how a build ended.
type BuildOutcome string

const (
	BuildOutcomeSuccess  BuildOutcome = "success"
	BuildOutcomeWarning  BuildOutcome = "warning"
	BuildOutcomeFailed   BuildOutcome = "failed"
	BuildOutcomeCanceled BuildOutcome = "canceled"
)

const reportSchemaVersion = 1

// Report artifact names, written into the output root after each
// successful build.
const (
	ReportJSONName = "build-report.json"
	ReportTextName = "build-report.txt"
)

// BuildReport collects counters, timings and problems for one build.
type BuildReport struct {
	ID    string
	Start time.Time
	End   time.Time

	Pages         int // top-level pages, one per page definition
	Items         int // listing items loaded
	DetailPages   int
	TagPages      int
	RenderedPages int // every page written, including detail and tag pages

	StageDurations map[string]time.Duration
	Errors         []error
	Warnings       []error
	Outcome        BuildOutcome
}

func newBuildReport() *BuildReport {
	return &BuildReport{
		ID:             uuid.NewString(),
		Start:          time.Now(),
		StageDurations: make(map[string]time.Duration),
	}
}

func (r *BuildReport) finish() {
	r.End = time.Now()
}

// Duration reports elapsed build time, live until finish is called.
func (r *BuildReport) Duration() time.Duration {
	if r.End.IsZero() {
		return time.Since(r.Start)
	}
	return r.End.Sub(r.Start)
}

// deriveOutcome classifies the build from its recorded problems. A canceled
// stage dominates other errors.
func (r *BuildReport) deriveOutcome() {
	switch {
	case len(r.Errors) > 0:
		r.Outcome = BuildOutcomeFailed
		for _, err := range r.Errors {
			var stageErr *StageError
			if errors.As(err, &stageErr) && stageErr.Kind == StageErrorKindCanceled {
				r.Outcome = BuildOutcomeCanceled
				break
			}
		}
	case len(r.Warnings) > 0:
		r.Outcome = BuildOutcomeWarning
	default:
		r.Outcome = BuildOutcomeSuccess
	}
}

// Summary renders the one-line human form of the report.
func (r *BuildReport) Summary() string {
	return fmt.Sprintf("build %s: %d pages written (%d items, %d detail, %d tag) in %s, %d warnings, %d errors",
		r.Outcome, r.RenderedPages, r.Items, r.DetailPages, r.TagPages,
		r.Duration().Round(time.Millisecond), len(r.Warnings), len(r.Errors))
}

// buildReportSerializable is the persisted form: errors flattened to
// strings, durations to their string notation.
type buildReportSerializable struct {
	SchemaVersion  int               `json:"schema_version"`
	ID             string            `json:"id"`
	Outcome        BuildOutcome      `json:"outcome"`
	Start          time.Time         `json:"start"`
	End            time.Time         `json:"end"`
	DurationMS     int64             `json:"duration_ms"`
	Pages          int               `json:"pages"`
	Items          int               `json:"items"`
	DetailPages    int               `json:"detail_pages"`
	TagPages       int               `json:"tag_pages"`
	RenderedPages  int               `json:"rendered_pages"`
	StageDurations map[string]string `json:"stage_durations"`
	Errors         []string          `json:"errors,omitempty"`
	Warnings       []string          `json:"warnings,omitempty"`
}

func (r *BuildReport) serializable() buildReportSerializable {
	s := buildReportSerializable{
		SchemaVersion:  reportSchemaVersion,
		ID:             r.ID,
		Outcome:        r.Outcome,
		Start:          r.Start,
		End:            r.End,
		DurationMS:     r.Duration().Milliseconds(),
		Pages:          r.Pages,
		Items:          r.Items,
		DetailPages:    r.DetailPages,
		TagPages:       r.TagPages,
		RenderedPages:  r.RenderedPages,
		StageDurations: make(map[string]string, len(r.StageDurations)),
	}
	for name, d := range r.StageDurations {
		s.StageDurations[name] = d.String()
	}
	for _, err := range r.Errors {
		s.Errors = append(s.Errors, err.Error())
	}
	for _, err := range r.Warnings {
		s.Warnings = append(s.Warnings, err.Error())
	}
	return s
}

// Persist writes the report next to the generated pages: machine-readable
// build-report.json plus a one-line build-report.txt. Both are replaced
// atomically so a served site never exposes a half-written report.
func (r *BuildReport) Persist(dir string) error {
	data, err := json.MarshalIndent(r.serializable(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal build report: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(dir, ReportJSONName), append(data, '\n')); err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(dir, ReportTextName), []byte(r.Summary()+"\n"))
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	// #nosec G306 -- build reports are public site artifacts
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
