package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/postbuilder/internal/server"
)

// ServeCmd runs a local preview server with rebuild-on-change.
type ServeCmd struct {
	Input           string        `short:"i" name:"input" help:"Content directory (overrides config)"`
	Output          string        `short:"o" name:"output" help:"Output directory (overrides config)"`
	Addr            string        `name:"addr" help:"Listen address (overrides config)"`
	Metrics         bool          `name:"metrics" help:"Expose Prometheus metrics on /metrics"`
	RebuildInterval time.Duration `name:"rebuild-interval" help:"Also rebuild on a fixed interval (0 disables)"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	applyContentOverrides(cfg, s.Input, s.Output)
	if s.Addr != "" {
		cfg.Serve.Addr = s.Addr
	}
	if s.Metrics {
		cfg.Serve.Metrics = true
	}
	if s.RebuildInterval > 0 {
		cfg.Serve.RebuildInterval = s.RebuildInterval
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return server.New(cfg).Run(ctx)
}
