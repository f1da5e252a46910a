package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/trombinoscope/internal/server"
	"github.com/matzehuels/trombinoscope/pkg/buildinfo"
	"github.com/matzehuels/trombinoscope/pkg/cache"
	"github.com/matzehuels/trombinoscope/pkg/directory"
	"github.com/matzehuels/trombinoscope/pkg/pipeline"
	"github.com/matzehuels/trombinoscope/pkg/source"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		seed      bool
		noCache   bool
		layoutSet layoutFlags
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the directory pages and JSON API",
		Long: `Serve the directory over HTTP.

  /              employee cards, add form, filter
  /chart         org chart page
  /chart.{fmt}   chart file (svg, json, dot, graphviz, png, pdf)
  /api/employees JSON API (GET, POST, DELETE)

With --seed an empty directory is filled from [source] url before the
server starts. The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := c.chartDefaults()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("style") {
				opts.Style = base.Style
			}
			if err := pipeline.ValidateStyle(opts.Style); err != nil {
				return err
			}
			opts.Layout = layoutSet.apply(cmd, base.Layout)
			if err := opts.Layout.Validate(); err != nil {
				return err
			}
			opts.Logger = c.Logger
			if addr == "" {
				cfg, err := c.loadConfig()
				if err != nil {
					return err
				}
				addr = cfg.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, opts, seed, noCache)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default [server] addr, :8080)")
	cmd.Flags().BoolVar(&seed, "seed", false, "seed an empty directory from [source] url on startup")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the chart cache")
	cmd.Flags().StringVar(&opts.Style, "style", "", "chart node style")
	cmd.Flags().StringVar(&opts.Title, "title", "", "page title")
	cmd.Flags().BoolVar(&opts.LastRootWins, "last-root-wins", false, "keep the last of several top-level employees instead of failing")
	layoutSet.register(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, opts pipeline.Options, seed, noCache bool) error {
	svc, closeSvc, err := c.openService(ctx)
	if err != nil {
		return err
	}
	defer closeSvc()

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	if seed {
		if cfg.Source.URL == "" {
			c.Logger.Warn("--seed given but [source] url is empty, skipping")
		} else {
			client := source.NewClient(source.WithCache(runner.Cache, c.cacheTTL()), source.WithKeyer(runner.Keyer))
			n, err := svc.Seed(ctx, client.Loader(cfg.Source.URL))
			if err != nil {
				return fmt.Errorf("seed from %s: %w", cfg.Source.URL, err)
			}
			if n > 0 {
				c.Logger.Info("Seeded directory", "employees", n, "source", cfg.Source.URL)
			}
		}
	}

	srv := server.New(svc, runner,
		server.WithLogger(c.Logger),
		server.WithChartOptions(opts),
		server.WithClock(c.now),
	)
	fmt.Println(StyleTitle.Render(buildinfo.AppName) + " " + StyleDim.Render(buildinfo.Version))
	printKeyValue("Storage", backendName(cfg.Storage.Backend, directory.BackendMemory))
	printKeyValue("Cache", backendName(cfg.Cache.Backend, cache.BackendFile))
	printInfo("Serving on %s", StyleLink.Render(displayURL(addr)))
	return srv.ListenAndServe(withLogger(ctx, c.Logger), addr)
}

// displayURL turns a listen address into a clickable URL.
func displayURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
