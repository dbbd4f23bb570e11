package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the site configuration, scoped to a single pipeline invocation.
// It is built once by Load and passed read-only to every stage.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Content ContentConfig `yaml:"content"`
	Output  OutputConfig  `yaml:"output"`
	Serve   ServeConfig   `yaml:"serve,omitempty"`
}

// SiteConfig describes the rendered site.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty"`
	Author      string `yaml:"author,omitempty"`
}

// ContentConfig describes where posts come from.
type ContentConfig struct {
	Dir     string   `yaml:"dir"`
	Include []string `yaml:"include,omitempty"` // doublestar patterns, relative to Dir
	Exclude []string `yaml:"exclude,omitempty"`
}

// OutputConfig describes where the generated site goes.
type OutputConfig struct {
	Dir   string `yaml:"dir"`
	Clean bool   `yaml:"clean"` // remove stale output before emitting
}

// ServeConfig tunes the local preview server.
type ServeConfig struct {
	Addr            string        `yaml:"addr,omitempty"`
	Metrics         bool          `yaml:"metrics,omitempty"`
	RebuildInterval time.Duration `yaml:"rebuild_interval,omitempty"`
	Debounce        time.Duration `yaml:"debounce,omitempty"`
}

// Load reads the configuration file, expands environment references, applies
// defaults and validates the result.
func Load(configPath string) (*Config, error) {
	// .env values feed ${VAR} expansion below; absence is not an error.
	_ = godotenv.Load(".env", ".env.local")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s", configPath)
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", configPath, err)
	}
	return &cfg, nil
}

// Default returns a config usable without a file, for CLI-flag-only runs.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Site.Title == "" {
		c.Site.Title = "Blog"
	}
	if c.Content.Dir == "" {
		c.Content.Dir = "./posts"
	}
	if len(c.Content.Include) == 0 {
		c.Content.Include = []string{"**/*.md", "**/*.markdown"}
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "./public"
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = ":1718"
	}
	if c.Serve.Debounce <= 0 {
		c.Serve.Debounce = 300 * time.Millisecond
	}
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Config{
		Site: SiteConfig{
			Title:       "My Blog",
			Description: "Notes on code and cooking",
			BaseURL:     "https://example.com",
		},
		Content: ContentConfig{
			Dir:     "./posts",
			Include: []string{"**/*.md"},
			Exclude: []string{"drafts/**"},
		},
		Output: OutputConfig{
			Dir:   "./public",
			Clean: true,
		},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("marshal example config: %w", err)
	}
	// #nosec G306 -- configuration file is not sensitive
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
