package site

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDeriveOutcome(t *testing.T) {
	clean := newBuildReport()
	clean.deriveOutcome()
	if clean.Outcome != BuildOutcomeSuccess {
		t.Fatalf("outcome = %s, want success", clean.Outcome)
	}

	warned := newBuildReport()
	warned.Warnings = append(warned.Warnings, errors.New("soft"))
	warned.deriveOutcome()
	if warned.Outcome != BuildOutcomeWarning {
		t.Fatalf("outcome = %s, want warning", warned.Outcome)
	}

	failed := newBuildReport()
	failed.Errors = append(failed.Errors, errors.New("hard"))
	failed.deriveOutcome()
	if failed.Outcome != BuildOutcomeFailed {
		t.Fatalf("outcome = %s, want failed", failed.Outcome)
	}

	canceled := newBuildReport()
	canceled.Errors = append(canceled.Errors, newCanceledStageError(StageRenderPages, errors.New("ctx")))
	canceled.deriveOutcome()
	if canceled.Outcome != BuildOutcomeCanceled {
		t.Fatalf("outcome = %s, want canceled", canceled.Outcome)
	}
}

func TestBuildReport_Summary(t *testing.T) {
	r := newBuildReport()
	r.RenderedPages = 9
	r.Items = 3
	r.DetailPages = 2
	r.TagPages = 3
	r.deriveOutcome()
	r.finish()

	s := r.Summary()
	if !strings.Contains(s, "build success") {
		t.Fatalf("summary missing outcome: %q", s)
	}
	if !strings.Contains(s, "9 pages written") {
		t.Fatalf("summary missing page count: %q", s)
	}
}

func TestBuildReport_PersistWritesJSONAndText(t *testing.T) {
	dir := t.TempDir()

	r := newBuildReport()
	r.Pages = 4
	r.RenderedPages = 9
	r.StageDurations[StageRenderPages] = 5e6
	r.Warnings = append(r.Warnings, errors.New("one broken link"))
	r.deriveOutcome()
	r.finish()

	if err := r.Persist(dir); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "build-report.json"))
	if err != nil {
		t.Fatalf("read report: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal report: %v", err)
	}
	if got["outcome"] != "warning" {
		t.Fatalf("outcome = %v", got["outcome"])
	}
	if got["rendered_pages"] != float64(9) {
		t.Fatalf("rendered_pages = %v", got["rendered_pages"])
	}
	if got["id"] == "" {
		t.Fatalf("report has no id")
	}
	warnings, ok := got["warnings"].([]any)
	if !ok || len(warnings) != 1 {
		t.Fatalf("warnings = %v", got["warnings"])
	}

	txt, err := os.ReadFile(filepath.Join(dir, "build-report.txt"))
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if !strings.Contains(string(txt), "build warning") {
		t.Fatalf("summary = %q", txt)
	}

	// Atomic replacement must not leave temp files behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("leftover temp file %s", e.Name())
		}
	}
}
