package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/postbuilder/internal/config"
)

// Global carries state shared across subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI is the root command definition and global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"postbuilder.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Build the site from the content directory"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
	Discover DiscoverCmd `cmd:"" help:"List discovered posts without building"`
	Serve    ServeCmd    `cmd:"" help:"Serve the site locally and rebuild on content changes"`
	Lint     LintCmd     `cmd:"" help:"Verify internal links in an emitted site"`
}

// AfterApply runs after flag parsing; sets up logging once.
func (c *CLI) AfterApply() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(c.Verbose),
	}))
	slog.SetDefault(logger)
	return nil
}

// parseLogLevel resolves the log level from the verbose flag and the
// POSTBUILDER_LOG_LEVEL environment variable (flag wins).
func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(os.Getenv("POSTBUILDER_LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// defaultConfigFile is the value of the --config flag when the user did not
// set it; a missing default file falls back to built-in defaults so the CLI
// works with flags alone.
const defaultConfigFile = "postbuilder.yaml"

func loadConfig(root *CLI) (*config.Config, error) {
	if _, err := os.Stat(root.Config); err == nil {
		return config.Load(root.Config)
	}
	if root.Config != defaultConfigFile {
		return nil, fmt.Errorf("configuration file not found: %s", root.Config)
	}
	return config.Default(), nil
}

// applyContentOverrides folds CLI flags over the loaded configuration.
func applyContentOverrides(cfg *config.Config, input, output string) {
	if input != "" {
		cfg.Content.Dir = input
	}
	if output != "" {
		cfg.Output.Dir = output
	}
}
