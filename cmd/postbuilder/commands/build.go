package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/postbuilder/internal/build"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Input  string `short:"i" name:"input" help:"Content directory (overrides config)"`
	Output string `short:"o" name:"output" help:"Output directory (overrides config)"`
	Repo   string `name:"repo" help:"Git repository URL to fetch content from before building"`
	Branch string `name:"branch" help:"Branch to check out when --repo is set"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	applyContentOverrides(cfg, b.Input, b.Output)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	report, err := build.Run(ctx, cfg, build.Options{RepoURL: b.Repo, RepoBranch: b.Branch})
	if err != nil {
		return err
	}
	if build.ReportIssues(report) {
		return fmt.Errorf("%d documents failed, remaining site emitted", len(report.Issues))
	}
	return nil
}
