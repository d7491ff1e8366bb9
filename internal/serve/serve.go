// Package serve runs the local preview daemon: it builds the site, serves
// the output tree over HTTP and watches the input trees, rebuilding when
// they change. Build history lives in a state directory so a restart with
// unchanged inputs serves the existing output without rebuilding.
package serve

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/eightytwo/idspispopd/internal/config"
	"github.com/eightytwo/idspispopd/internal/errors"
	"github.com/eightytwo/idspispopd/internal/events"
	"github.com/eightytwo/idspispopd/internal/gitinfo"
	"github.com/eightytwo/idspispopd/internal/logfields"
	"github.com/eightytwo/idspispopd/internal/metrics"
	"github.com/eightytwo/idspispopd/internal/site"
	"github.com/eightytwo/idspispopd/internal/state"
)

// Daemon owns everything the preview mode needs: the generator, the build
// history store, the optional event publisher and the serving status.
type Daemon struct {
	cfg       *config.Config
	generator *site.Generator
	rec       metrics.Recorder
	prom      *metrics.PrometheusRecorder // nil unless serve.metrics is on
	store     *state.Store
	publisher events.Publisher
	status    *buildStatus
	startTime time.Time
}

// Run builds the site, then serves and watches until ctx is canceled.
// Rebuild failures never stop the daemon; the previous output keeps being
// served and the failure shows up on /healthz.
func Run(ctx context.Context, cfg *config.Config) error {
	d, err := newDaemon(cfg)
	if err != nil {
		return err
	}
	defer d.close()

	d.rebuild(ctx, TriggerInitial)

	watcher, err := setupFileWatcher(d.watchRoots())
	if err != nil {
		return errors.Wrap(err, errors.CategoryServe, errors.SeverityFatal, "start file watcher")
	}
	defer func() { _ = watcher.Close() }()

	debounce := time.Duration(cfg.Serve.DebounceMS) * time.Millisecond
	rebuildReq, trigger := newRebuildDebouncer(debounce)
	d.startRebuildWorker(ctx, rebuildReq)

	if cfg.Serve.RebuildEvery != "" {
		stopScheduler, schedErr := d.startScheduler(trigger)
		if schedErr != nil {
			return schedErr
		}
		defer stopScheduler()
	}

	srv, err := d.startHTTPServer()
	if err != nil {
		return errors.Wrap(err, errors.CategoryServe, errors.SeverityFatal,
			fmt.Sprintf("listen on %s", cfg.Serve.Addr))
	}

	slog.Info("preview server listening",
		logfields.Addr(cfg.Serve.Addr),
		logfields.Path(cfg.Paths.Output))

	for {
		select {
		case <-ctx.Done():
			return d.shutdown(srv)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			handleFileEvent(watcher, ev, trigger)
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", logfields.Error(watchErr))
		}
	}
}

func newDaemon(cfg *config.Config) (*Daemon, error) {
	d := &Daemon{
		cfg:       cfg,
		generator: site.NewGenerator(cfg),
		rec:       metrics.NoopRecorder{},
		status:    &buildStatus{},
		startTime: time.Now(),
	}

	if cfg.Serve.Metrics {
		d.prom = metrics.NewPrometheusRecorder(nil)
		d.rec = d.prom
		d.generator.SetRecorder(d.prom)
	}

	store, err := state.Open(cfg.Serve.StateDir)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryServe, errors.SeverityFatal, "open build history")
	}
	d.store = store

	d.publisher = events.NoopPublisher{}
	if cfg.Events.PublishingEnabled() {
		pub, pubErr := events.NewNATSPublisher(cfg.Events)
		if pubErr != nil {
			slog.Warn("event publishing disabled", logfields.Error(pubErr))
		} else {
			d.publisher = pub
		}
	}

	return d, nil
}

func (d *Daemon) close() {
	if err := d.publisher.Close(); err != nil {
		slog.Warn("close event publisher", logfields.Error(err))
	}
	if err := d.store.Close(); err != nil {
		slog.Warn("close build history", logfields.Error(err))
	}
}

// watchRoots returns the input trees feeding a build. Listing source
// directories normally live under the content root but can be configured
// elsewhere, so outliers are watched separately.
func (d *Daemon) watchRoots() []string {
	roots := []string{d.cfg.Paths.Content, d.cfg.Paths.Templates, d.cfg.Paths.Static}
	for _, page := range d.cfg.Pages {
		if page.SourceDir == "" || isWithin(d.cfg.Paths.Content, page.SourceDir) {
			continue
		}
		roots = append(roots, page.SourceDir)
	}
	return roots
}

func isWithin(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// rebuild runs one full build unless the inputs still match the last good
// build. Failures are recorded on the status and in history but never
// stop the daemon.
func (d *Daemon) rebuild(ctx context.Context, trigger string) {
	hash := d.inputHash()
	if d.canSkip(ctx, hash) {
		slog.Info("inputs unchanged since last good build, skipping rebuild",
			logfields.Trigger(trigger))
		d.status.markReused()
		return
	}

	d.rec.IncRebuild(trigger)
	d.refreshGitInfo()

	slog.Info("rebuilding site", logfields.Trigger(trigger))
	report, err := d.generator.Build(ctx)
	d.status.record(report.ID, string(report.Outcome), err)
	if err != nil {
		slog.Error("build failed, keeping previous output",
			logfields.Error(err), logfields.Trigger(trigger))
	}

	if recErr := d.store.RecordBuild(ctx, state.BuildRecord{
		BuildID:     report.ID,
		Outcome:     string(report.Outcome),
		ContentHash: hash,
		Pages:       report.RenderedPages,
		DurationMS:  report.Duration().Milliseconds(),
	}); recErr != nil {
		slog.Warn("record build history", logfields.Error(recErr))
	}

	if pubErr := d.publisher.PublishBuild(ctx, &events.BuildEvent{
		BuildID:    report.ID,
		Outcome:    string(report.Outcome),
		Pages:      report.RenderedPages,
		Items:      report.Items,
		Warnings:   len(report.Warnings),
		Errors:     len(report.Errors),
		DurationMS: report.Duration().Milliseconds(),
		Trigger:    trigger,
	}); pubErr != nil {
		slog.Warn("publish build event", logfields.Error(pubErr))
	}
}

func (d *Daemon) inputHash() string {
	hash, err := state.HashTree(d.watchRoots()...)
	if err != nil {
		slog.Warn("input hashing failed, rebuild forced", logfields.Error(err))
		return ""
	}
	return hash
}

// canSkip reports whether the current inputs already produced the output
// tree on disk. Only builds that yielded a servable site count, so inputs
// that once broke the build are always retried.
func (d *Daemon) canSkip(ctx context.Context, hash string) bool {
	if hash == "" || !d.outputReady() {
		return false
	}
	last, err := d.store.LatestGoodHash(ctx)
	if err != nil {
		slog.Debug("hash lookup failed", logfields.Error(err))
		return false
	}
	return last != "" && last == hash
}

func (d *Daemon) outputReady() bool {
	info, err := os.Stat(filepath.Join(d.cfg.Paths.Output, site.ReportJSONName))
	return err == nil && info.Mode().IsRegular()
}

// refreshGitInfo swaps in a fresh lookup each build so commits made while
// the daemon runs show up in last-modified values.
func (d *Daemon) refreshGitInfo() {
	if !d.cfg.GitInfo.Enabled {
		return
	}
	lookup, err := gitinfo.Open(d.cfg.Paths.Content)
	if err != nil {
		slog.Debug("git metadata unavailable", logfields.Error(err))
		return
	}
	d.generator.SetLastModified(lookup.LastModified)
}

// startRebuildWorker drains rebuild requests one at a time. A request
// arriving mid-build waits in the channel's single slot, so any burst
// collapses into at most one follow-up build.
func (d *Daemon) startRebuildWorker(ctx context.Context, rebuildReq <-chan string) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case reason, ok := <-rebuildReq:
				if !ok {
					return
				}
				d.rebuild(ctx, reason)
			}
		}
	}()
}

// startScheduler requests periodic rebuilds so future-dated content
// appears without a file event. The interval string was already validated
// with the rest of the configuration.
func (d *Daemon) startScheduler(trigger func(string)) (func(), error) {
	every, err := time.ParseDuration(d.cfg.Serve.RebuildEvery)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryServe, errors.SeverityFatal, "parse rebuild interval")
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryServe, errors.SeverityFatal, "create scheduler")
	}

	job, err := scheduler.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() { trigger(TriggerSchedule) }),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return nil, errors.Wrap(err, errors.CategoryServe, errors.SeverityFatal, "schedule periodic rebuild")
	}

	scheduler.Start()
	slog.Info("periodic rebuilds scheduled",
		slog.String("every", every.String()),
		slog.String("job_id", job.ID().String()))

	stop := func() {
		if shutErr := scheduler.Shutdown(); shutErr != nil {
			slog.Warn("scheduler shutdown", logfields.Error(shutErr))
		}
	}
	return stop, nil
}

// shutdown drains the HTTP server with a bounded grace period. The rebuild
// worker and the watcher stop through context cancellation and the
// deferred closes in Run.
func (d *Daemon) shutdown(srv *http.Server) error {
	slog.Info("shutting down preview server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http server shutdown", logfields.Error(err))
	}
	return nil
}
