package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	terrors "github.com/matzehuels/trombinoscope/pkg/errors"
	"github.com/matzehuels/trombinoscope/pkg/layout"
	"github.com/matzehuels/trombinoscope/pkg/pipeline"
	"github.com/matzehuels/trombinoscope/pkg/render/sink"
	"github.com/matzehuels/trombinoscope/pkg/render/styles"
)

// defaultChartBase is the output base name when --output is not given.
const defaultChartBase = "orgchart"

// chartCommand creates the chart command.
func (c *CLI) chartCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		layoutSet  layoutFlags
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render the org chart",
		Long: `Render the org chart of the directory.

Formats (comma-separated): svg, json, dot, graphviz, png, pdf, html.
  json      node positions and connector paths
  dot       Graphviz source of the hierarchy
  graphviz  node-link SVG laid out by Graphviz
  png, pdf  converted from SVG with rsvg-convert

Layout flags default to [layout] in config.toml. Results are cached; the
cache key includes the date because ages change.`,
		Example: `  trombinoscope chart
  trombinoscope chart -f svg,png --style card -o build/orgchart
  trombinoscope chart -f json -o - | jq '.nodes[].name'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := c.chartDefaults()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("style") {
				opts.Style = base.Style
			}
			opts.Layout = layoutSet.apply(cmd, base.Layout)
			opts.Logger, opts.Now = base.Logger, base.Now
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := pipeline.ValidateStyle(opts.Style); err != nil {
				return err
			}
			return c.runChart(cmd.Context(), opts, output)
		},
	}

	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): "+strings.Join(pipeline.ValidFormats, ", ")+" (default svg)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().StringVar(&opts.Style, "style", "", "node style: "+strings.Join(styles.Names, ", "))
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "add titles and ages to dot/graphviz labels")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 2, "PNG scale factor")
	cmd.Flags().StringVar(&opts.Title, "title", "", "HTML page title")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.LastRootWins, "last-root-wins", false, "keep the last of several top-level employees instead of failing")
	cmd.Flags().BoolVar(&opts.StrictOrphans, "strict", false, "fail when an employee's manager does not exist")
	layoutSet.register(cmd)

	return cmd
}

// runChart renders the directory and writes the requested artifacts.
func (c *CLI) runChart(ctx context.Context, opts pipeline.Options, output string) error {
	if output == "-" && len(opts.Formats) != 1 {
		return terrors.New(terrors.ErrCodeInvalidInput, "stdout output needs exactly one format, got %d", len(opts.Formats))
	}

	svc, closeSvc, err := c.openService(ctx)
	if err != nil {
		return err
	}
	defer closeSvc()

	employees, err := svc.List(ctx)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.NoCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()

	res, err := runner.Execute(ctx, employees, opts)
	if err != nil {
		if terrors.IsHierarchy(err) {
			spinner.StopWithError(sink.NoChartNotice)
			return err
		}
		spinner.StopWithError("Rendering failed")
		return fmt.Errorf("chart: %w", err)
	}
	spinner.Stop()

	if output == "-" {
		_, err := c.out().Write(res.Artifacts[opts.Formats[0]])
		return err
	}

	printStats(res.Stats.Nodes, res.Tree.Height(), res.Tree.Dropped(), res.CacheInfo.RenderHit)
	return writeArtifacts(res.Artifacts, opts.Formats, output)
}

// writeArtifacts writes one file per format. A single format goes to output
// as given; several formats share output as base name.
func writeArtifacts(artifacts map[string][]byte, formats []string, output string) error {
	if len(formats) == 1 && output != "" {
		if err := writeFile(output, artifacts[formats[0]]); err != nil {
			return err
		}
		printFile(output)
		return nil
	}

	base := basePath(output)
	for _, f := range formats {
		path := base + "." + pipeline.Extension(f)
		if err := writeFile(path, artifacts[f]); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// basePath strips a known format extension from output, or returns the
// default base name when output is empty.
func basePath(output string) string {
	if output == "" {
		return defaultChartBase
	}
	if strings.HasSuffix(output, ".graphviz.svg") {
		return strings.TrimSuffix(output, ".graphviz.svg")
	}
	ext := filepath.Ext(output)
	if slices.Contains(pipeline.ValidFormats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// =============================================================================
// Layout Flags
// =============================================================================

// layoutFlags holds the layout overrides shared by chart and serve.
type layoutFlags struct {
	nodeWidth, nodeHeight, levelSpacing, siblingSpacing, margin float64
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.nodeWidth, "node-width", 0, "node box width")
	cmd.Flags().Float64Var(&f.nodeHeight, "node-height", 0, "node box height")
	cmd.Flags().Float64Var(&f.levelSpacing, "level-spacing", 0, "vertical gap between levels")
	cmd.Flags().Float64Var(&f.siblingSpacing, "sibling-spacing", 0, "horizontal gap between siblings")
	cmd.Flags().Float64Var(&f.margin, "margin", 0, "padding added to the right and bottom of the canvas")
}

// apply overrides the fields of base whose flag was set.
func (f *layoutFlags) apply(cmd *cobra.Command, base layout.Config) layout.Config {
	set := cmd.Flags().Changed
	if set("node-width") {
		base.NodeWidth = f.nodeWidth
	}
	if set("node-height") {
		base.NodeHeight = f.nodeHeight
	}
	if set("level-spacing") {
		base.LevelSpacing = f.levelSpacing
	}
	if set("sibling-spacing") {
		base.SiblingSpacing = f.siblingSpacing
	}
	if set("margin") {
		base.Margin = f.margin
	}
	return base
}
