// Package pipeline provides the core graph pipeline for corpusgraph.
//
// This package implements the complete build → layout → refine pipeline
// that can be used by CLI and API components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: validate raw relationship records into a corpus graph
//     (dedup, section labeling, style resolution)
//  2. Layout: compute deterministic initial positions per the layout mode
//  3. Refine: run the force-directed simulation over the initial positions
//
// A filter step may run before the build to narrow the raw records by
// category, language, or per-category limit.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Mode: "overview",
//	}
//	result, err := runner.Execute(ctx, raw, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	positioned := result.Graph
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/fieldlab/corpusgraph/pkg/cache"
	"github.com/fieldlab/corpusgraph/pkg/corpus"
	"github.com/fieldlab/corpusgraph/pkg/layout"
)

// Options contains all configuration for the graph pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Mode selects the layout: "focused" or "overview".
	// Empty selects layout.DefaultMode.
	Mode string `json:"mode,omitempty"`

	// Filter options, applied to the raw records before building.
	Categories []string `json:"categories,omitempty"`
	Language   string   `json:"language,omitempty"`
	Limit      int      `json:"limit,omitempty"`

	// SkipRefine stops after initial placement; positions stay exactly on
	// the banded or radial geometry. Used by layout tests and debug output.
	SkipRefine bool `json:"skip_refine,omitempty"`

	// Refresh bypasses the cache for this run.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// mode is the parsed Mode, set by ValidateAndSetDefaults.
	mode layout.Mode

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	mode, err := layout.ParseMode(o.Mode)
	if err != nil {
		return err
	}
	o.mode = mode

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// LayoutMode returns the parsed layout mode.
// Only valid after ValidateAndSetDefaults.
func (o *Options) LayoutMode() layout.Mode {
	return o.mode
}

// HasFilters reports whether any pre-build filter is active.
func (o *Options) HasFilters() bool {
	return len(o.Categories) > 0 || o.Language != "" || o.Limit != 0
}

// FilterOptions returns the corpus filter settings for this run.
func (o *Options) FilterOptions() corpus.FilterOptions {
	return corpus.FilterOptions{
		Categories: o.Categories,
		Language:   o.Language,
		Limit:      o.Limit,
	}
}

// GraphKeyOpts returns the cache key options for this run.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		Mode:       string(o.mode),
		Categories: o.Categories,
		Language:   o.Language,
		Limit:      o.FilterOptions().ClampLimit(),
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the built, positioned corpus graph.
	Graph *corpus.Graph

	// Mode is the layout mode that ran.
	Mode layout.Mode

	// Strategy names the initial placement algorithm used.
	Strategy string

	// PayloadHash is the content hash of the raw payload, usable as a
	// cache-key component by callers.
	PayloadHash string

	// Generation is a monotonically increasing run counter from the
	// Runner. Callers holding results from concurrent runs keep the one
	// with the highest generation and discard the rest.
	Generation uint64

	// Stats mirrors Graph.Stats for convenience.
	Stats corpus.Stats

	// Timings records per-stage durations.
	Timings Timings

	// CacheHit reports whether the result came from cache.
	CacheHit bool
}

// Timings contains pipeline execution durations.
type Timings struct {
	Build  time.Duration
	Layout time.Duration
	Refine time.Duration
}

// FilterMeta describes the filter surface of a raw payload: which
// categories and languages occur in it.
type FilterMeta struct {
	Categories []string `json:"categories"`
	Languages  []string `json:"languages"`
	MinLimit   int      `json:"min_limit"`
	MaxLimit   int      `json:"max_limit"`
	Default    int      `json:"default_limit"`
}
