package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/postbuilder/internal/build"
)

func finishedReport() *build.Report {
	report := build.NewReport()
	report.Finished = report.Started.Add(50 * time.Millisecond)
	report.PostCount = 3
	report.StageDurations[build.StageLoad] = 10 * time.Millisecond
	return report
}

func TestObserveBuild_Success(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveBuild(finishedReport(), nil)

	require.Equal(t, float64(1), testutil.ToFloat64(m.buildsTotal.WithLabelValues("success")))
	require.Equal(t, float64(3), testutil.ToFloat64(m.postsLoaded))
}

func TestObserveBuild_PartialAndFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	report := finishedReport()
	report.AddIssue(build.StageLoad, "bad.md", errors.New("malformed"))
	m.ObserveBuild(report, nil)
	m.ObserveBuild(finishedReport(), errors.New("emit failed"))

	require.Equal(t, float64(1), testutil.ToFloat64(m.buildsTotal.WithLabelValues("partial")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.buildsTotal.WithLabelValues("failure")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.issuesTotal.WithLabelValues("load")))
}
