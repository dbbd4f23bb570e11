package build

import (
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/postbuilder/internal/config"
	"git.home.luguber.info/inful/postbuilder/internal/posts"
	"git.home.luguber.info/inful/postbuilder/internal/site"
)

// StageName identifies one pipeline stage.
type StageName string

const (
	StageFetch   StageName = "fetch"
	StageLoad    StageName = "load"
	StageRender  StageName = "render"
	StageIndexes StageName = "indexes"
	StageEmit    StageName = "emit"
)

// StageDef couples a stage name with its function.
type StageDef struct {
	Name StageName
	Fn   StageFunc
}

// Issue records a per-document failure that was isolated so the run could
// continue. Issues make the run exit non-zero even though output was emitted.
type Issue struct {
	Stage StageName
	Path  string
	Err   error
}

// Report accumulates the outcome of one pipeline run.
type Report struct {
	BuildID        string
	Started        time.Time
	Finished       time.Time
	StageDurations map[StageName]time.Duration
	Issues         []Issue
	PostCount      int
	PageCount      int
	TagCount       int
}

// NewReport starts a report for a fresh run.
func NewReport() *Report {
	return &Report{
		BuildID:        uuid.NewString(),
		Started:        time.Now(),
		StageDurations: make(map[StageName]time.Duration),
	}
}

// AddIssue records an isolated per-document failure.
func (r *Report) AddIssue(stage StageName, path string, err error) {
	r.Issues = append(r.Issues, Issue{Stage: stage, Path: path, Err: err})
}

// Clean reports whether the run completed without any isolated failures.
func (r *Report) Clean() bool { return len(r.Issues) == 0 }

// Duration returns the wall time of the whole run.
func (r *Report) Duration() time.Duration { return r.Finished.Sub(r.Started) }

// State is the mutable carrier threaded through the stages of one run. Each
// stage consumes what the previous stage produced; nothing is shared across
// runs.
type State struct {
	Cfg    *config.Config
	Report *Report

	// RepoURL, when set, makes the fetch stage clone the content repository
	// and point Cfg.Content.Dir into the checkout.
	RepoURL    string
	RepoBranch string
	workspace  string // temp checkout to clean up after the run

	Loaded  *posts.Result
	Pages   []site.Page
	Indexes *site.Indexes
}
