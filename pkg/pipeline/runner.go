package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trombinoscope/pkg/cache"
	"github.com/matzehuels/trombinoscope/pkg/directory"
	"github.com/matzehuels/trombinoscope/pkg/hierarchy"
	"github.com/matzehuels/trombinoscope/pkg/layout"
	"github.com/matzehuels/trombinoscope/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use it so cache keys and hooks stay consistent.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.DefaultTTL,
	}
}

// Execute runs the complete build → layout → render pipeline.
//
// Hierarchy errors (no root, several roots, cycles, strict orphans) are
// returned unwrapped so callers can match them with errors.As and fall back
// to a "no chart" view.
func (r *Runner) Execute(ctx context.Context, employees []directory.Employee, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		RecordsHash: RecordsHash(employees),
		Artifacts:   make(map[string][]byte),
	}
	result.Stats.Records = len(employees)

	// Stage 1: Build
	buildStart := time.Now()
	tree, err := r.BuildWithHooks(ctx, employees, opts)
	if err != nil {
		return nil, err
	}
	result.Tree = tree
	result.Stats.Nodes = tree.Len()
	result.Stats.Orphans = len(tree.Orphans)
	result.Stats.Detached = len(tree.Detached)
	result.Stats.BuildTime = time.Since(buildStart)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, err := r.LayoutWithHooks(ctx, tree, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Width, result.Stats.Height = l.Width, l.Height

	r.Logger.Debug("computed layout",
		"nodes", len(l.Nodes),
		"width", l.Width,
		"height", l.Height,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, tree, l, result.RecordsHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered chart",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// BuildWithHooks assembles the hierarchy and reports the stage to the
// pipeline hooks.
func (r *Runner) BuildWithHooks(ctx context.Context, employees []directory.Employee, opts Options) (*hierarchy.Tree, error) {
	r.applyLogger(&opts)
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, len(employees))

	start := time.Now()
	tree, err := Build(employees, opts)
	if err != nil {
		hooks.OnBuildComplete(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnBuildComplete(ctx, tree.Len(), tree.Dropped(), time.Since(start), nil)

	r.Logger.Debug("built hierarchy",
		"employees", len(employees),
		"nodes", tree.Len(),
		"levels", tree.Height(),
		"dropped", tree.Dropped())
	return tree, nil
}

// LayoutWithHooks computes the layout and reports the stage to the pipeline
// hooks.
func (r *Runner) LayoutWithHooks(ctx context.Context, t *hierarchy.Tree, opts Options) (layout.Layout, error) {
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, t.Len())

	start := time.Now()
	l, err := ComputeLayout(t, opts)
	hooks.OnLayoutComplete(ctx, l.Width, l.Height, time.Since(start), err)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and reports whether
// every requested format came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, t *hierarchy.Tree, l layout.Layout, recordsHash string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	if !opts.NoCache {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(recordsHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	rendered, err := Render(ctx, t, l, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if !opts.NoCache {
		for format, data := range rendered {
			key := r.Keyer.ArtifactKey(recordsHash, opts.ArtifactKeyOpts(format))
			if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
				r.Logger.Debug("cache write failed", "format", format, "error", err)
				continue
			}
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil
}

// RecordsHash returns the content hash of a list of employees, the base of
// every artifact cache key.
func RecordsHash(employees []directory.Employee) string {
	return cache.HashJSON(employees)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
