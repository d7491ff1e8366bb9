package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/eightytwo/idspispopd/internal/logfields"
	"github.com/eightytwo/idspispopd/internal/metrics"
)

// Stage names in execution order.
const (
	StagePrepareOutput = "prepare_output"
	StageCopyStatic    = "copy_static"
	StageRenderPages   = "render_pages"
	StageTagPages      = "tag_pages"
	StageVerifyLinks   = "verify_links"
)

// Stage is one step of the build pipeline.
type Stage func(ctx context.Context, bs *BuildState) error

// StageErrorKind classifies how a stage failure affects the build.
type StageErrorKind string

const (
	// StageErrorKindFatal aborts the build.
	StageErrorKindFatal StageErrorKind = "fatal"
	// StageErrorKindWarning is recorded and the build continues.
	StageErrorKindWarning StageErrorKind = "warning"
	// StageErrorKindCanceled means the context was canceled.
	StageErrorKindCanceled StageErrorKind = "canceled"
)

// StageError wraps a stage failure with its classification.
type StageError struct {
	Kind  StageErrorKind
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func newFatalStageError(stage string, err error) *StageError {
	return &StageError{Kind: StageErrorKindFatal, Stage: stage, Err: err}
}

func newWarnStageError(stage string, err error) *StageError {
	return &StageError{Kind: StageErrorKindWarning, Stage: stage, Err: err}
}

func newCanceledStageError(stage string, err error) *StageError {
	return &StageError{Kind: StageErrorKindCanceled, Stage: stage, Err: err}
}

// BuildState carries everything the stages share during one build.
type BuildState struct {
	Generator *Generator
	Report    *BuildReport
	Tags      *TagIndex
	Timings   map[string]time.Duration
}

func newBuildState(g *Generator, report *BuildReport) *BuildState {
	return &BuildState{
		Generator: g,
		Report:    report,
		Tags:      NewTagIndex(),
		Timings:   make(map[string]time.Duration),
	}
}

type stageDef struct {
	name string
	fn   Stage
}

// runStages executes the pipeline in order. Warnings are recorded and the
// run continues; fatal errors and cancellation stop it. Every stage is
// timed into the state and the build report.
func runStages(ctx context.Context, bs *BuildState, stages []stageDef) error {
	for _, st := range stages {
		select {
		case <-ctx.Done():
			cerr := newCanceledStageError(st.name, ctx.Err())
			bs.Report.Errors = append(bs.Report.Errors, cerr)
			bs.Generator.recorder.IncStageResult(st.name, metrics.ResultCanceled)
			return cerr
		default:
		}

		stageStart := time.Now()
		err := st.fn(ctx, bs)
		elapsed := time.Since(stageStart)
		bs.Timings[st.name] = elapsed
		bs.Report.StageDurations[st.name] = elapsed
		bs.Generator.recorder.ObserveStageDuration(st.name, elapsed)

		if err == nil {
			bs.Generator.recorder.IncStageResult(st.name, metrics.ResultSuccess)
			slog.Debug("stage completed",
				logfields.Stage(st.name),
				logfields.DurationMS(float64(elapsed.Milliseconds())))
			continue
		}

		var stageErr *StageError
		if !errors.As(err, &stageErr) {
			stageErr = newFatalStageError(st.name, err)
		}

		switch stageErr.Kind {
		case StageErrorKindWarning:
			bs.Report.Warnings = append(bs.Report.Warnings, stageErr)
			bs.Generator.recorder.IncStageResult(st.name, metrics.ResultWarning)
			slog.Warn("stage completed with warnings",
				logfields.Stage(st.name),
				logfields.Error(stageErr.Err))
		case StageErrorKindCanceled:
			bs.Report.Errors = append(bs.Report.Errors, stageErr)
			bs.Generator.recorder.IncStageResult(st.name, metrics.ResultCanceled)
			return stageErr
		default:
			bs.Report.Errors = append(bs.Report.Errors, stageErr)
			bs.Generator.recorder.IncStageResult(st.name, metrics.ResultFatal)
			return stageErr
		}
	}
	return nil
}
