// Package pkg provides the core libraries for corpusgraph, a graph
// construction and layout engine for interlinearized linguistic corpora.
//
// # Overview
//
// corpusgraph turns raw relationship records (texts, sections, phrases,
// words, morphemes, glosses, and the directed links between them) into a
// validated, styled, and positioned graph ready for rendering. The pkg
// directory is organized by pipeline stage:
//
//  1. [corpus] - Domain model (records, categories, filtering, serialization)
//  2. [build] - Validation and styling (dedup, section labels, sizes, colors)
//  3. [layout] - Deterministic initial placement (banded, radial)
//  4. [layout/force] - Force-directed refinement
//  5. [pipeline] - Orchestration with caching (filter → build → layout → refine)
//  6. [export] - Output formats (JSON, DOT, SVG)
//
// # Architecture
//
// The typical data flow:
//
//	Raw relationship records (JSON)
//	         ↓
//	    [corpus] package (decode, optional filter)
//	         ↓
//	    [build] package (validate, dedup, label, style)
//	         ↓
//	    [layout] package (banded or radial initial positions)
//	         ↓
//	    [layout/force] package (force-directed refinement)
//	         ↓
//	    JSON/DOT/SVG output
//
// # Quick Start
//
// Run the complete pipeline over a raw payload:
//
//	import (
//	    "context"
//	    "github.com/fieldlab/corpusgraph/pkg/corpus"
//	    "github.com/fieldlab/corpusgraph/pkg/pipeline"
//	)
//
//	raw, _ := corpus.ReadRawFile("records.json")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Execute(context.Background(), raw, pipeline.Options{
//	    Mode: "overview",
//	})
//	positioned := result.Graph
//
// # Main Packages
//
// [corpus] - Domain model: raw records, the validated graph, node
// categories with their size floors and level ordering, pre-build
// filtering by category, language, and per-category limit.
//
// [build] - Record validation with first-wins deduplication, sequential
// section labeling, and visual style resolution (category size floors,
// dense-graph edge thinning, the edge alpha convention).
//
// [layout] - Deterministic initial placement: horizontal category bands
// for focused views, concentric rings for corpus overviews. Pure
// functions of the node set, no randomness.
//
// [layout/force] - Grid-accelerated force simulation that declutters the
// initial placement while preserving its global structure. Deterministic:
// identical input yields identical positions.
//
// [pipeline] - The shared filter → build → layout → refine runner used by
// both CLI and API, with result caching keyed on payload hash and build
// options.
//
// [export] - Serialization of positioned graphs: JSON for the rendering
// frontend, DOT with pinned positions, and SVG via Graphviz neato.
//
// ## Infrastructure
//
// [cache] - Pluggable result cache: file backend for the CLI, Redis for
// server deployments, a null backend for tests, plus key derivation and
// per-corpus key scoping.
//
// [store] - Corpus persistence: raw payloads in MongoDB or in memory.
// Built graphs are derived data and are never stored.
//
// [errors] - Structured errors with machine-readable codes shared by the
// CLI and the HTTP API.
//
// [observability] - Hook interfaces for metrics and tracing with no-op
// defaults, registered by main at startup.
//
// [buildinfo] - Version and build metadata embedded at link time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/layout/...    # Specific package
//	go test -run Example        # Examples only
//
// [corpus]: https://pkg.go.dev/github.com/fieldlab/corpusgraph/pkg/corpus
// [build]: https://pkg.go.dev/github.com/fieldlab/corpusgraph/pkg/build
// [layout]: https://pkg.go.dev/github.com/fieldlab/corpusgraph/pkg/layout
// [layout/force]: https://pkg.go.dev/github.com/fieldlab/corpusgraph/pkg/layout/force
// [pipeline]: https://pkg.go.dev/github.com/fieldlab/corpusgraph/pkg/pipeline
// [export]: https://pkg.go.dev/github.com/fieldlab/corpusgraph/pkg/export
// [cache]: https://pkg.go.dev/github.com/fieldlab/corpusgraph/pkg/cache
// [store]: https://pkg.go.dev/github.com/fieldlab/corpusgraph/pkg/store
// [errors]: https://pkg.go.dev/github.com/fieldlab/corpusgraph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/fieldlab/corpusgraph/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/fieldlab/corpusgraph/pkg/buildinfo
package pkg
