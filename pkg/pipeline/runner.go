package pipeline

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trapmap/pkg/cache"
	"github.com/matzehuels/trapmap/pkg/errors"
	tmio "github.com/matzehuels/trapmap/pkg/io"
	"github.com/matzehuels/trapmap/pkg/observability"
	"github.com/matzehuels/trapmap/pkg/trapmap"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no map state; multiple goroutines can use the same Runner
// with different inputs.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
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
	}
}

// Execute builds the map for in and renders the requested artifacts.
//
// An incomplete map (budget exhausted) is still rendered, but its artifacts
// are not cached.
func (r *Runner) Execute(ctx context.Context, in tmio.Input, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := &Result{InputHash: in.Hash()}

	buildStart := time.Now()
	m, completed, err := r.Build(ctx, in, opts)
	if err != nil {
		return nil, err
	}
	result.Map = m
	result.Completed = completed
	result.Stats = Stats{
		Segments:  len(in.Segments),
		Inserted:  len(m.Segments()),
		Leaves:    m.LeafCount(),
		Nodes:     m.NodeCount(),
		BuildTime: time.Since(buildStart),
	}

	r.Logger.Info("built map",
		"segments", result.Stats.Inserted,
		"regions", result.Stats.Leaves,
		"nodes", result.Stats.Nodes,
		"duration", result.Stats.BuildTime)

	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, m, result.InputHash, completed, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = hit
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Build creates a map over in.Bounds and inserts in.Segments under the
// options' budget. completed is false when the budget ran out; the partial
// map is returned and remains valid.
//
// Errors carry a code from package errors: rejected input is INVALID_INPUT,
// a cancelled context TIMEOUT and a failure of the construction itself
// DEGENERATE_GEOMETRY.
func (r *Runner) Build(ctx context.Context, in tmio.Input, opts Options) (*trapmap.Map, bool, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}

	mapOpts := []trapmap.Option{trapmap.WithLogger(opts.Logger)}
	if opts.ExportEach != nil {
		mapOpts = append(mapOpts, trapmap.WithExportEach(opts.ExportEach))
	}
	m, err := trapmap.New(in.Bounds, mapOpts...)
	if err != nil {
		return nil, false, classify(err)
	}

	completed, err := m.Insert(ctx, in.Segments, opts.insertBudget())
	if err != nil {
		return nil, false, classify(err)
	}
	if !completed {
		if err := ctx.Err(); err != nil {
			return nil, false, errors.Wrap(errors.ErrCodeTimeout, err, "insertion cancelled after %d of %d segments",
				len(m.Segments()), len(in.Segments))
		}
		opts.Logger.Warn("insertion budget exhausted",
			"budget", opts.Budget,
			"inserted", len(m.Segments()),
			"segments", len(in.Segments))
	}
	return m, completed, nil
}

// RenderWithCacheInfo renders the artifacts of m, reading and writing the
// cache under inputHash when cacheable is true. The boolean reports whether
// every artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, m *trapmap.Map, inputHash string, cacheable bool, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}
	cacheable = cacheable && opts.cacheable() && inputHash != ""

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if !cacheable || opts.Refresh {
			missing = append(missing, format)
			continue
		}
		key := r.Keyer.ArtifactKey(inputHash, artifactVariant(format, opts))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, format)
			artifacts[format] = data
			continue
		} else if err != nil {
			r.Logger.Debug("cache read failed", "format", format, "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, format)
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	sub := opts
	sub.Formats = missing
	rendered, err := Render(ctx, m, sub)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		if !cacheable {
			continue
		}
		key := r.Keyer.ArtifactKey(inputHash, artifactVariant(format, opts))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Debug("cache write failed", "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, format, len(data))
	}
	return artifacts, false, nil
}

// Evict removes the cached artifacts of inputHash for opts.Formats. Missing
// entries are not an error.
func (r *Runner) Evict(ctx context.Context, inputHash string, opts Options) error {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return err
	}
	for _, format := range opts.Formats {
		if err := r.Cache.Delete(ctx, r.Keyer.ArtifactKey(inputHash, artifactVariant(format, opts))); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "evict %s", format)
		}
	}
	return nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// classify attaches an error code to an error reported by the map.
func classify(err error) error {
	switch {
	case trapmap.IsInvalidInput(err), stderrors.Is(err, trapmap.ErrInvalidBounds):
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "rejected input")
	case stderrors.Is(err, trapmap.ErrDegenerateGeometry), stderrors.Is(err, trapmap.ErrInvariant):
		return errors.Wrap(errors.ErrCodeDegenerate, err, "construction failed")
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeTimeout, err, "insertion cancelled")
	}
	return errors.Wrap(errors.ErrCodeInternal, err, "build map")
}
