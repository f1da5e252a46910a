package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/trombinoscope/pkg/buildinfo"
	"github.com/matzehuels/trombinoscope/pkg/cache"
	"github.com/matzehuels/trombinoscope/pkg/config"
	"github.com/matzehuels/trombinoscope/pkg/directory"
	"github.com/matzehuels/trombinoscope/pkg/pipeline"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the default config file location (--config).
	ConfigPath string

	cfg    *config.Config
	now    func() time.Time
	stdout io.Writer
}

// out returns the writer for command output.
func (c *CLI) out() io.Writer {
	if c.stdout == nil {
		return os.Stdout
	}
	return c.stdout
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		now:    time.Now,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   buildinfo.AppName,
		Short: "Trombinoscope manages an employee directory and draws its org chart",
		Long: `Trombinoscope keeps a small employee directory (name, title, photo, birth
date, manager) and lays it out as a top-down organisation chart.

The directory lives in the storage backend selected in config.toml
(a JSON file by default). Charts can be written as SVG, JSON, DOT, PNG,
PDF or HTML, or served by the built-in web server.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.ConfigPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/trombinoscope/config.toml)")

	root.AddCommand(c.seedCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.addCommand())
	root.AddCommand(c.removeCommand())
	root.AddCommand(c.clearCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.chartCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config
// =============================================================================

// loadConfig loads the configuration once per process.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return cfg, err
	}
	for _, k := range cfg.Unknown {
		c.Logger.Warn("Unknown config key", "key", k, "file", cfg.Path)
	}
	if cfg.Path != "" {
		c.Logger.Debug("Loaded config", "file", cfg.Path)
	}
	c.cfg = &cfg
	return cfg, nil
}

// =============================================================================
// Service & Runner Factories
// =============================================================================

// openService opens the configured repository. The returned function closes it.
func (c *CLI) openService(ctx context.Context) (*directory.Service, func(), error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	repo, err := directory.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s storage: %w", backendName(cfg.Storage.Backend, directory.BackendMemory), err)
	}
	c.Logger.Debug("Opened storage", "backend", backendName(cfg.Storage.Backend, directory.BackendMemory))

	closeFn := func() {
		if err := repo.Close(); err != nil {
			c.Logger.Warn("Close storage", "error", err)
		}
	}
	return directory.NewService(repo, directory.WithClock(c.now)), closeFn, nil
}

// openCache opens the configured cache, or a null cache when noCache is set.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	cc, err := cache.Open(ctx, cfg.Cache)
	if err != nil {
		c.Logger.Warn("Cache unavailable, continuing without it", "error", err)
		return cache.NewNullCache(), nil
	}
	return cc, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cc, c.keyer(), c.Logger)
	r.TTL = c.cacheTTL()
	return r, nil
}

// keyer returns the configured cache keyer.
func (c *CLI) keyer() cache.Keyer {
	cfg, err := c.loadConfig()
	if err != nil {
		return cache.NewDefaultKeyer()
	}
	return cfg.Cache.Keyer()
}

// cacheTTL returns the configured cache lifetime.
func (c *CLI) cacheTTL() time.Duration {
	cfg, err := c.loadConfig()
	if err != nil || cfg.Cache.TTL <= 0 {
		return cache.DefaultTTL
	}
	return cfg.Cache.TTL
}

// =============================================================================
// Options Helpers
// =============================================================================

// chartDefaults returns pipeline options seeded from the config file.
func (c *CLI) chartDefaults() (pipeline.Options, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Layout: cfg.Layout,
		Style:  cfg.Chart.Style,
		Logger: c.Logger,
		Now:    c.now(),
	}, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func backendName(name, fallback string) string {
	if name = strings.TrimSpace(name); name == "" {
		return fallback
	}
	return strings.ToLower(name)
}
