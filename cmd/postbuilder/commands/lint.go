package commands

import (
	"fmt"
	"os"

	"git.home.luguber.info/inful/postbuilder/internal/linkcheck"
)

// LintCmd verifies internal links in an emitted site.
type LintCmd struct {
	Site string `short:"s" name:"site" help:"Emitted site directory (defaults to the configured output dir)"`
}

func (l *LintCmd) Run(_ *Global, root *CLI) error {
	dir := l.Site
	if dir == "" {
		cfg, err := loadConfig(root)
		if err != nil {
			return err
		}
		dir = cfg.Output.Dir
	}

	broken, err := linkcheck.Check(dir)
	if err != nil {
		return err
	}
	for _, b := range broken {
		fmt.Fprintln(os.Stderr, b.String())
	}
	if len(broken) > 0 {
		return fmt.Errorf("%d broken internal links", len(broken))
	}
	fmt.Println("no broken internal links")
	return nil
}
