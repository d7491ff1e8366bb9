package serve

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
)

func getJSON(t *testing.T, handler http.Handler, path string, v any) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if v != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
			t.Fatalf("decode %s response: %v\n%s", path, err, rec.Body.String())
		}
	}
	return rec.Code
}

func TestHealthz_UnavailableBeforeFirstGoodBuild(t *testing.T) {
	d := newTestDaemon(t, daemonFixture(t))
	handler := d.newHTTPServer().Handler

	var resp healthResponse
	code := getJSON(t, handler, "/healthz", &resp)
	if code != http.StatusServiceUnavailable {
		t.Fatalf("code = %d, want 503", code)
	}
	if resp.Status != "error" {
		t.Fatalf("status = %q, want error", resp.Status)
	}
}

func TestHealthz_OKAfterBuild(t *testing.T) {
	d := newTestDaemon(t, daemonFixture(t))
	d.rebuild(context.Background(), TriggerInitial)
	handler := d.newHTTPServer().Handler

	var resp healthResponse
	code := getJSON(t, handler, "/healthz", &resp)
	if code != http.StatusOK {
		t.Fatalf("code = %d, want 200", code)
	}
	if resp.Status != "ok" || resp.LastOutcome != "success" || resp.Builds != 1 {
		t.Fatalf("response = %+v", resp)
	}
	if resp.LastBuildID == "" || resp.LastBuildAt == "" {
		t.Fatalf("build identity missing: %+v", resp)
	}
}

func TestHealthz_DegradedWhenRebuildFails(t *testing.T) {
	cfg := daemonFixture(t)
	d := newTestDaemon(t, cfg)
	ctx := context.Background()

	d.rebuild(ctx, TriggerInitial)
	writeInputFile(t, filepath.Join(cfg.Paths.Content, "blog", "first.md"),
		"---\ntitle: First Post\n---\n\nNo date.\n")
	d.rebuild(ctx, TriggerFileEvent)

	handler := d.newHTTPServer().Handler
	var resp healthResponse
	code := getJSON(t, handler, "/healthz", &resp)
	if code != http.StatusOK {
		t.Fatalf("code = %d, want 200 while old output is still served", code)
	}
	if resp.Status != "degraded" {
		t.Fatalf("status = %q, want degraded", resp.Status)
	}
	if resp.LastError == "" {
		t.Fatal("degraded response must carry the build error")
	}
}

func TestBuildsEndpoint_ReturnsHistory(t *testing.T) {
	d := newTestDaemon(t, daemonFixture(t))
	d.rebuild(context.Background(), TriggerInitial)
	handler := d.newHTTPServer().Handler

	var records []map[string]any
	code := getJSON(t, handler, "/api/builds", &records)
	if code != http.StatusOK {
		t.Fatalf("code = %d, want 200", code)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if records[0]["outcome"] != "success" {
		t.Fatalf("outcome = %v, want success", records[0]["outcome"])
	}
	if records[0]["build_id"] == "" {
		t.Fatal("build_id missing")
	}
}

func TestBuildsEndpoint_EmptyHistoryIsEmptyArray(t *testing.T) {
	d := newTestDaemon(t, daemonFixture(t))
	handler := d.newHTTPServer().Handler

	req := httptest.NewRequest(http.MethodGet, "/api/builds", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Fatalf("body = %q, want []", got)
	}
}

func TestMetricsEndpoint_OnlyWhenEnabled(t *testing.T) {
	cfg := daemonFixture(t)
	cfg.Serve.Metrics = true
	d := newTestDaemon(t, cfg)
	d.rebuild(context.Background(), TriggerInitial)
	handler := d.newHTTPServer().Handler

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "idspispopd_rebuilds_total") {
		t.Fatal("rebuild counter missing from metrics exposition")
	}

	plain := newTestDaemon(t, daemonFixture(t))
	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	plain.newHTTPServer().Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d, want 404 with metrics disabled", rec.Code)
	}
}

func TestFileServer_ServesGeneratedPages(t *testing.T) {
	d := newTestDaemon(t, daemonFixture(t))
	d.rebuild(context.Background(), TriggerInitial)
	handler := d.newHTTPServer().Handler

	req := httptest.NewRequest(http.MethodGet, "/home/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<h1>Preview</h1>") {
		t.Fatalf("unexpected page body: %s", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/style.css", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("static file code = %d, want 200", rec.Code)
	}
}
