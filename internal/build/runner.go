// Package build runs the content pipeline: fetch → load → render → indexes →
// emit, a strictly linear one-shot batch with no state carried between runs.
package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"git.home.luguber.info/inful/postbuilder/internal/config"
	"git.home.luguber.info/inful/postbuilder/internal/logfields"
)

// StageFunc is one pipeline stage. A returned error is fatal and aborts the
// run; per-document failures go into the report instead.
type StageFunc func(ctx context.Context, st *State) error

// Options carries per-invocation knobs that are not part of the config file.
type Options struct {
	RepoURL    string
	RepoBranch string
}

// Run executes the full pipeline once and returns its report. The report is
// valid even when err is non-nil, up to the stage that failed.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Report, error) {
	// The fetch stage may repoint the content dir; work on a copy so the
	// caller's config survives repeated runs (serve mode rebuilds).
	run := *cfg

	st := &State{
		Cfg:        &run,
		Report:     NewReport(),
		RepoURL:    opts.RepoURL,
		RepoBranch: opts.RepoBranch,
	}
	defer st.cleanup()

	slog.Info("Starting site build",
		logfields.BuildID(st.Report.BuildID),
		logfields.Path(cfg.Content.Dir),
		slog.String("output", cfg.Output.Dir))

	stages := []StageDef{
		{Name: StageFetch, Fn: stageFetch},
		{Name: StageLoad, Fn: stageLoad},
		{Name: StageRender, Fn: stageRender},
		{Name: StageIndexes, Fn: stageIndexes},
		{Name: StageEmit, Fn: stageEmit},
	}

	err := runStages(ctx, st, stages)
	st.Report.Finished = time.Now()

	if err != nil {
		slog.Error("Build failed",
			logfields.BuildID(st.Report.BuildID),
			logfields.Error(err))
		return st.Report, err
	}

	slog.Info("Build finished",
		logfields.BuildID(st.Report.BuildID),
		logfields.DurationMS(float64(st.Report.Duration().Milliseconds())),
		slog.Int("posts", st.Report.PostCount),
		slog.Int("issues", len(st.Report.Issues)))
	return st.Report, nil
}

// runStages executes stages in order, recording timing and stopping on the
// first fatal error. Cancellation is honored between stages; a single stage
// is short enough that mid-stage cancellation is not worth the machinery.
func runStages(ctx context.Context, st *State, stages []StageDef) error {
	for _, stage := range stages {
		select {
		case <-ctx.Done():
			return fmt.Errorf("build canceled before stage %s: %w", stage.Name, ctx.Err())
		default:
		}

		t0 := time.Now()
		err := stage.Fn(ctx, st)
		dur := time.Since(t0)
		st.Report.StageDurations[stage.Name] = dur

		slog.Debug("Stage finished",
			logfields.Stage(string(stage.Name)),
			logfields.DurationMS(float64(dur.Milliseconds())),
			logfields.Error(err))

		if err != nil {
			return fmt.Errorf("stage %s: %w", stage.Name, err)
		}
	}
	return nil
}

func (st *State) cleanup() {
	if st.workspace == "" {
		return
	}
	if err := os.RemoveAll(st.workspace); err != nil {
		slog.Warn("Failed to clean up fetch workspace",
			logfields.Path(st.workspace), logfields.Error(err))
	}
}

// ReportIssues writes every isolated failure to stderr, one line per failing
// file, and returns whether any were present.
func ReportIssues(report *Report) bool {
	for _, issue := range report.Issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %v\n", issue.Stage, issue.Path, issue.Err)
	}
	return !report.Clean()
}
