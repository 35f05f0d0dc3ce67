package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/libretto/pkg/cache"
	"github.com/matzehuels/libretto/pkg/corpus"
	"github.com/matzehuels/libretto/pkg/graph"
	"github.com/matzehuels/libretto/pkg/observability"
)

// Cache lifetimes.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache key types reported to observability hooks.
const (
	KeyTypeLayout   = "layout"
	KeyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
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

// Execute computes the layout of t, serving it from the cache when the
// same corpus was laid out with the same options before.
func (r *Runner) Execute(ctx context.Context, t *corpus.Tables, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if t == nil {
		return nil, fmt.Errorf("execute: no corpus")
	}

	start := time.Now()
	result := &Result{
		RunID:      uuid.NewString(),
		CorpusHash: t.ContentHash(),
	}
	logger := r.Logger.With("run", result.RunID[:8])
	cacheKey := r.Keyer.LayoutKey(result.CorpusHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if l, ok := r.cachedLayout(ctx, cacheKey); ok {
			result.Layout = l
			result.CacheHit = true
			result.Stats = layoutStats(l)
			result.Stats.Total = time.Since(start)
			logger.Info("loaded layout from cache", "nodes", len(l.Nodes), "lines", len(l.Lines))
			return result, nil
		}
	}

	opts.Logger = logger
	recs, err := Compute(ctx, t, opts)
	if err != nil {
		return nil, err
	}
	result.Records = recs
	result.Layout = recs.Layout(opts)
	result.Layout.RunID = result.RunID
	result.Stats = layoutStats(result.Layout)
	result.Stats.Stages = recs.Stages
	result.Stats.Total = time.Since(start)

	if data, err := graph.MarshalLayout(result.Layout); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, TTLLayout); err != nil {
			logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, KeyTypeLayout, len(data))
		}
	}

	logger.Info("computed layout",
		"lines", result.Stats.Lines,
		"nodes", result.Stats.Nodes,
		"diamonds", result.Stats.Diamonds,
		"duration", result.Stats.Total)
	if n := len(recs.Diagnostics); n > 0 {
		logger.Warn("input has dangling references", "count", n, "kinds", recs.Diagnostics.Summary())
	}
	return result, nil
}

func (r *Runner) cachedLayout(ctx context.Context, key string) (graph.Layout, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, KeyTypeLayout)
		return graph.Layout{}, false
	}
	l, err := graph.UnmarshalLayout(data)
	if err != nil {
		r.Logger.Debug("discarding cached layout", "error", err)
		_ = r.Cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, KeyTypeLayout)
		return graph.Layout{}, false
	}
	observability.Cache().OnCacheHit(ctx, KeyTypeLayout)
	return l, true
}

// RenderNetwork renders the network of l in format, serving it from the
// cache when possible. It returns the artifact and whether it was cached.
func (r *Runner) RenderNetwork(ctx context.Context, l graph.Layout, format string, ro RenderOptions) ([]byte, bool, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, false, err
	}
	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	key := r.Keyer.ArtifactKey(cache.Hash(layoutData), ro.keyOpts(format))

	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, KeyTypeArtifact)
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, KeyTypeArtifact)

	data, err := Render(ctx, l, format, ro)
	if err != nil {
		return nil, false, err
	}
	if err := r.Cache.Set(ctx, key, data, TTLArtifact); err == nil {
		observability.Cache().OnCacheSet(ctx, KeyTypeArtifact, len(data))
	}
	return data, false, nil
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

func layoutStats(l graph.Layout) Stats {
	nodes := 0
	for _, n := range l.Nodes {
		if !n.Hidden {
			nodes++
		}
	}
	return Stats{
		Lines:       len(l.Lines),
		Nodes:       nodes,
		Links:       len(l.Links),
		Diamonds:    len(l.Diamonds),
		Diagnostics: len(l.Diagnostics),
	}
}

// encode writes l in a layout format.
func encode(l graph.Layout, format string) ([]byte, error) {
	var buf bytes.Buffer
	if err := graph.WriteLayout(&buf, l, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
