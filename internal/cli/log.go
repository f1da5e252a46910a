// Package cli implements the trombinoscope command-line interface.
//
// This package provides commands for managing the employee directory
// (seed, list, add, remove, clear, import, export), drawing the org chart
// (tree, chart), serving the web interface (serve) and managing the artifact
// cache. The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - seed: Fill an empty directory from the configured source
//   - list: Print employees as a table, optionally filtered with a CEL expression
//   - tree: Print the hierarchy as an indented tree
//   - chart: Write the org chart as SVG, JSON, DOT, PNG, PDF or HTML
//   - serve: Run the HTTP server (cards page, chart page, JSON API)
//   - cache: Manage the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/matzehuels/trombinoscope/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trombinoscope/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Seeded 11 employees (42ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() when
// none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// logHooks reports pipeline stages at debug level on the context logger.
type logHooks struct{}

// InstallLogHooks routes pipeline events to the context logger.
func InstallLogHooks() {
	observability.SetPipelineHooks(logHooks{})
}

func (logHooks) OnBuildStart(ctx context.Context, records int) {
	loggerFromContext(ctx).Debug("Building hierarchy", "records", records)
}

func (logHooks) OnBuildComplete(ctx context.Context, nodes, orphans int, d time.Duration, err error) {
	l := loggerFromContext(ctx)
	if err != nil {
		l.Debug("Hierarchy failed", "error", err, "took", d)
		return
	}
	l.Debug("Hierarchy built", "nodes", nodes, "orphans", orphans, "took", d)
}

func (logHooks) OnLayoutStart(ctx context.Context, nodes int) {
	loggerFromContext(ctx).Debug("Computing layout", "nodes", nodes)
}

func (logHooks) OnLayoutComplete(ctx context.Context, w, h float64, d time.Duration, err error) {
	l := loggerFromContext(ctx)
	if err != nil {
		l.Debug("Layout failed", "error", err, "took", d)
		return
	}
	l.Debug("Layout computed", "width", w, "height", h, "took", d)
}

func (logHooks) OnRenderStart(ctx context.Context, formats []string) {
	loggerFromContext(ctx).Debug("Rendering", "formats", formats)
}

func (logHooks) OnRenderComplete(ctx context.Context, formats []string, d time.Duration, err error) {
	l := loggerFromContext(ctx)
	if err != nil {
		l.Debug("Render failed", "formats", formats, "error", err, "took", d)
		return
	}
	l.Debug("Rendered", "formats", formats, "took", d)
}

var _ observability.PipelineHooks = logHooks{}
