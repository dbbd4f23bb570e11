package commands

import (
	"context"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/postbuilder/internal/posts"
)

// DiscoverCmd lists the posts a build would pick up, without building.
type DiscoverCmd struct {
	Input string `short:"i" name:"input" help:"Content directory (overrides config)"`
}

func (d *DiscoverCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	applyContentOverrides(cfg, d.Input, "")

	result, err := posts.NewLoader(cfg.Content).Load(context.Background())
	if err != nil {
		return err
	}

	for _, p := range result.Posts {
		status := "published"
		if !p.Published() {
			status = "draft"
		}
		fmt.Printf("%s  %s  %-9s  %s", p.Meta.Date.Format("2006-01-02"), p.RelativePath, status, p.Meta.Title)
		if len(p.Meta.Tags) > 0 {
			fmt.Printf("  [%s]", strings.Join(p.Meta.Tags, ", "))
		}
		fmt.Println()
	}
	for _, f := range result.Failures {
		fmt.Printf("%-10s  %s  malformed: %v\n", "-", f.Path, f.Err)
	}
	fmt.Printf("%d posts, %d skipped, %d malformed\n",
		len(result.Posts), result.Skipped, len(result.Failures))
	return nil
}
