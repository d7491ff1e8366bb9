package serve

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/eightytwo/idspispopd/internal/logfields"
	"github.com/eightytwo/idspispopd/internal/state"
)

// newHTTPServer serves the generated site plus the operational endpoints:
// /healthz, /api/builds and, when metrics are enabled, /metrics.
func (d *Daemon) newHTTPServer() *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(d.cfg.Paths.Output)))
	mux.HandleFunc("/healthz", d.handleHealthz)
	mux.HandleFunc("/api/builds", d.handleBuilds)
	if d.prom != nil {
		mux.Handle("/metrics", d.prom.Handler())
	}

	return &http.Server{
		Addr:         d.cfg.Serve.Addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// startHTTPServer binds the listener up front so an occupied address fails
// the command instead of surfacing later from a goroutine.
func (d *Daemon) startHTTPServer() (*http.Server, error) {
	srv := d.newHTTPServer()

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, err
	}

	go func() {
		if serveErr := srv.Serve(ln); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("http server error", logfields.Error(serveErr))
		}
	}()

	return srv, nil
}

type healthResponse struct {
	Status        string `json:"status"`
	LastOutcome   string `json:"last_build_outcome,omitempty"`
	LastBuildID   string `json:"last_build_id,omitempty"`
	LastBuildAt   string `json:"last_build_at,omitempty"`
	LastError     string `json:"last_error,omitempty"`
	Builds        int    `json:"builds"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// handleHealthz reports serving health. A failed rebuild degrades the
// status but keeps returning 200 while an older good output is served;
// 503 means no servable output exists at all.
func (d *Daemon) handleHealthz(w http.ResponseWriter, r *http.Request) {
	snap := d.status.snapshot()

	resp := healthResponse{
		Status:        "ok",
		LastOutcome:   snap.LastOutcome,
		LastBuildID:   snap.LastBuildID,
		Builds:        snap.Builds,
		UptimeSeconds: int64(time.Since(d.startTime).Seconds()),
	}
	if !snap.LastBuildAt.IsZero() {
		resp.LastBuildAt = snap.LastBuildAt.UTC().Format(time.RFC3339)
	}

	code := http.StatusOK
	switch {
	case !snap.HasGoodBuild:
		resp.Status = "error"
		code = http.StatusServiceUnavailable
	case snap.LastError != nil:
		resp.Status = "degraded"
	}
	if snap.LastError != nil {
		resp.LastError = snap.LastError.Error()
	}

	writeJSON(w, code, resp)
}

// handleBuilds returns recent build history, newest first.
func (d *Daemon) handleBuilds(w http.ResponseWriter, r *http.Request) {
	records, err := d.store.Recent(r.Context(), 20)
	if err != nil {
		slog.Warn("build history query failed", logfields.Error(err))
		http.Error(w, "build history unavailable", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []state.BuildRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("write response failed", logfields.Error(err))
	}
}
