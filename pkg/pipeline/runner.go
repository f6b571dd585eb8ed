package pipeline

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/fieldlab/corpusgraph/pkg/build"
	"github.com/fieldlab/corpusgraph/pkg/cache"
	"github.com/fieldlab/corpusgraph/pkg/corpus"
	cgerrors "github.com/fieldlab/corpusgraph/pkg/errors"
	"github.com/fieldlab/corpusgraph/pkg/layout"
	"github.com/fieldlab/corpusgraph/pkg/layout/force"
	"github.com/fieldlab/corpusgraph/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, logger, and run counter -
// it doesn't store pipeline results. Multiple goroutines can safely use
// the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	generation atomic.Uint64
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

// cachedResult is the cache envelope for a finished run.
type cachedResult struct {
	Mode     string          `json:"mode"`
	Strategy string          `json:"strategy"`
	Graph    json.RawMessage `json:"graph"`
}

// Execute runs the complete build → layout → refine pipeline with caching.
func (r *Runner) Execute(ctx context.Context, raw *corpus.RawGraph, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, cgerrors.New(cgerrors.ErrCodeInvalidInput, "raw graph payload must not be nil")
	}

	generation := r.generation.Add(1)
	mode := opts.LayoutMode()
	strategy := layout.ForMode(mode)

	payload, err := corpus.MarshalRaw(raw)
	if err != nil {
		return nil, cgerrors.Wrap(cgerrors.ErrCodeInvalidInput, err, "encode raw payload")
	}
	payloadHash := cache.Hash(payload)
	cacheKey := r.Keyer.GraphKey(payloadHash, opts.GraphKeyOpts())

	if !opts.Refresh {
		if res, ok := r.lookup(ctx, cacheKey); ok {
			res.Generation = generation
			res.PayloadHash = payloadHash
			return res, nil
		}
	}

	result := &Result{
		Mode:        mode,
		Strategy:    strategy.Name(),
		PayloadHash: payloadHash,
		Generation:  generation,
	}

	// Stage 0: Filter (optional)
	filtered := raw
	if opts.HasFilters() {
		filtered = corpus.Filter(raw, opts.FilterOptions())
		opts.Logger.Debug("filtered raw records",
			"nodes", len(filtered.Nodes),
			"of", len(raw.Nodes))
	}

	// Stage 1: Build
	buildStart := time.Now()
	observability.Pipeline().OnBuildStart(ctx, len(filtered.Nodes), len(filtered.Edges))
	g, err := build.New(opts.Logger).Build(filtered)
	result.Timings.Build = time.Since(buildStart)
	observability.Pipeline().OnBuildComplete(ctx, graphNodeCount(g), graphEdgeCount(g), result.Timings.Build, err)
	if err != nil {
		return nil, err
	}

	opts.Logger.Info("built graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Timings.Build)

	// Empty builds collapse to the placeholder graph, which sits at the
	// origin and needs no layout or refinement. The build's rejection and
	// duplicate counters survive the swap so callers can still tell empty
	// input from input that was dropped wholesale.
	if g.NodeCount() == 0 {
		stats := g.Stats
		g = build.PlaceholderGraph()
		stats.NodeCount = g.Stats.NodeCount
		stats.Placeholder = true
		g.Stats = stats
	} else {
		// Stage 2: Layout
		layoutStart := time.Now()
		observability.Pipeline().OnLayoutStart(ctx, string(mode), g.NodeCount())
		strategy.Place(g)
		result.Timings.Layout = time.Since(layoutStart)

		// Stage 3: Refine
		var refineErr error
		if !opts.SkipRefine {
			refineStart := time.Now()
			force.NewSimulation(force.PresetFor(mode), opts.Logger).Refine(g)
			result.Timings.Refine = time.Since(refineStart)
		}
		observability.Pipeline().OnLayoutComplete(ctx, string(mode),
			result.Timings.Layout+result.Timings.Refine, refineErr)

		opts.Logger.Info("computed layout",
			"mode", mode,
			"strategy", strategy.Name(),
			"duration", result.Timings.Layout+result.Timings.Refine)
	}

	result.Graph = g
	result.Stats = g.Stats

	if !opts.Refresh {
		r.save(ctx, cacheKey, result)
	}
	return result, nil
}

// Filters derives the filter surface of a raw payload, with caching.
func (r *Runner) Filters(ctx context.Context, raw *corpus.RawGraph) (*FilterMeta, error) {
	if raw == nil {
		return nil, cgerrors.New(cgerrors.ErrCodeInvalidInput, "raw graph payload must not be nil")
	}

	payload, err := corpus.MarshalRaw(raw)
	if err != nil {
		return nil, cgerrors.Wrap(cgerrors.ErrCodeInvalidInput, err, "encode raw payload")
	}
	cacheKey := r.Keyer.FilterKey(cache.Hash(payload))

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		var meta FilterMeta
		if json.Unmarshal(data, &meta) == nil {
			observability.Cache().OnCacheHit(ctx, "filters")
			return &meta, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "filters")

	meta := &FilterMeta{
		Categories: presentCategories(raw),
		Languages:  corpus.Languages(raw),
		MinLimit:   corpus.MinFilterLimit,
		MaxLimit:   corpus.MaxFilterLimit,
		Default:    corpus.DefaultFilterLimit,
	}

	if data, err := json.Marshal(meta); err == nil {
		if r.Cache.Set(ctx, cacheKey, data, cache.FilterTTL) == nil {
			observability.Cache().OnCacheSet(ctx, "filters", len(data))
		}
	}
	return meta, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// lookup tries the cache and decodes a stored result.
// Decode failures are treated as misses.
func (r *Runner) lookup(ctx context.Context, key string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "graph")
		return nil, false
	}

	var env cachedResult
	if err := json.Unmarshal(data, &env); err != nil {
		observability.Cache().OnCacheMiss(ctx, "graph")
		return nil, false
	}
	g, err := corpus.UnmarshalGraph(env.Graph)
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, "graph")
		return nil, false
	}

	observability.Cache().OnCacheHit(ctx, "graph")
	return &Result{
		Graph:    g,
		Mode:     layout.Mode(env.Mode),
		Strategy: env.Strategy,
		Stats:    g.Stats,
		CacheHit: true,
	}, true
}

// save stores a finished result. Cache failures are logged, never fatal.
func (r *Runner) save(ctx context.Context, key string, result *Result) {
	graphData, err := corpus.MarshalGraph(result.Graph)
	if err != nil {
		r.Logger.Warn("skipping result cache", "err", err)
		return
	}
	data, err := json.Marshal(cachedResult{
		Mode:     string(result.Mode),
		Strategy: result.Strategy,
		Graph:    graphData,
	})
	if err != nil {
		r.Logger.Warn("skipping result cache", "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.GraphTTL); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "graph", len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// presentCategories lists the distinct categories occurring in raw record
// order.
func presentCategories(raw *corpus.RawGraph) []string {
	seen := make(map[corpus.Category]bool)
	var out []string
	for _, n := range raw.Nodes {
		cat := corpus.ParseCategory(n.Type)
		if !seen[cat] {
			seen[cat] = true
			out = append(out, string(cat))
		}
	}
	return out
}

func graphNodeCount(g *corpus.Graph) int {
	if g == nil {
		return 0
	}
	return g.NodeCount()
}

func graphEdgeCount(g *corpus.Graph) int {
	if g == nil {
		return 0
	}
	return g.EdgeCount()
}
