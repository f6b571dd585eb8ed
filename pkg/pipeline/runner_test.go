package pipeline

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/fieldlab/corpusgraph/pkg/build"
	"github.com/fieldlab/corpusgraph/pkg/cache"
	"github.com/fieldlab/corpusgraph/pkg/corpus"
	cgerrors "github.com/fieldlab/corpusgraph/pkg/errors"
	"github.com/fieldlab/corpusgraph/pkg/layout"
)

func testRunner(t *testing.T, c cache.Cache) *Runner {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	r := NewRunner(c, nil, logger)
	t.Cleanup(func() { r.Close() })
	return r
}

func sampleRaw() *corpus.RawGraph {
	return &corpus.RawGraph{
		Nodes: []corpus.RawNode{
			{ID: "t1", Type: "Text", Label: "Myth"},
			{ID: "w1", Type: "Word", Properties: map[string]any{"language": "lkt"}},
			{ID: "w2", Type: "Word", Properties: map[string]any{"language": "dak"}},
		},
		Edges: []corpus.RawEdge{
			{Source: "t1", Target: "w1"},
			{Source: "t1", Target: "w2"},
		},
	}
}

func TestExecute(t *testing.T) {
	r := testRunner(t, nil)

	res, err := r.Execute(context.Background(), sampleRaw(), Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Mode != layout.DefaultMode {
		t.Errorf("Mode = %v, want %v", res.Mode, layout.DefaultMode)
	}
	if res.Strategy != "radial" {
		t.Errorf("Strategy = %q, want radial", res.Strategy)
	}
	if res.Graph.NodeCount() != 3 || res.Graph.EdgeCount() != 2 {
		t.Errorf("graph = %d/%d, want 3/2", res.Graph.NodeCount(), res.Graph.EdgeCount())
	}
	if res.PayloadHash == "" {
		t.Error("PayloadHash empty")
	}
	if res.Generation != 1 {
		t.Errorf("Generation = %d, want 1", res.Generation)
	}
	if res.CacheHit {
		t.Error("first run reported a cache hit")
	}
	if res.Stats.NodeCount != 3 {
		t.Errorf("Stats.NodeCount = %d, want 3", res.Stats.NodeCount)
	}
}

func TestExecuteNilPayload(t *testing.T) {
	r := testRunner(t, nil)
	_, err := r.Execute(context.Background(), nil, Options{})
	if !cgerrors.Is(err, cgerrors.ErrCodeInvalidInput) {
		t.Fatalf("err = %v, want INVALID_INPUT", err)
	}
}

func TestExecuteInvalidMode(t *testing.T) {
	r := testRunner(t, nil)
	_, err := r.Execute(context.Background(), sampleRaw(), Options{Mode: "tree"})
	if !cgerrors.Is(err, cgerrors.ErrCodeInvalidMode) {
		t.Fatalf("err = %v, want INVALID_MODE", err)
	}
}

func TestExecutePlaceholder(t *testing.T) {
	r := testRunner(t, nil)

	res, err := r.Execute(context.Background(), &corpus.RawGraph{}, Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Graph.NodeCount() != 1 {
		t.Fatalf("nodes = %d, want 1 placeholder", res.Graph.NodeCount())
	}
	n := res.Graph.Nodes()[0]
	if n.ID != build.PlaceholderID {
		t.Errorf("node id = %s, want %s", n.ID, build.PlaceholderID)
	}
	if n.X != 0 || n.Y != 0 {
		t.Errorf("placeholder at (%v,%v), want origin", n.X, n.Y)
	}
	if !res.Stats.Placeholder {
		t.Error("Stats.Placeholder not set")
	}
}

func TestExecutePlaceholderKeepsDiagnostics(t *testing.T) {
	r := testRunner(t, nil)

	// Every record is malformed, so the build collapses to the placeholder.
	raw := &corpus.RawGraph{
		Nodes: []corpus.RawNode{{ID: "  "}, {ID: ""}},
		Edges: []corpus.RawEdge{{Source: "a", Target: "b"}},
	}
	res, err := r.Execute(context.Background(), raw, Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Graph.NodeCount() != 1 {
		t.Fatalf("nodes = %d, want 1 placeholder", res.Graph.NodeCount())
	}
	if !res.Stats.Placeholder {
		t.Error("Stats.Placeholder not set")
	}
	if res.Stats.NodeCount != 1 {
		t.Errorf("Stats.NodeCount = %d, want 1", res.Stats.NodeCount)
	}
	// The drops that produced the empty build stay visible in the summary.
	if res.Stats.NodesRejected != 2 {
		t.Errorf("NodesRejected = %d, want 2", res.Stats.NodesRejected)
	}
	if res.Stats.DanglingEdges != 1 {
		t.Errorf("DanglingEdges = %d, want 1", res.Stats.DanglingEdges)
	}
}

func TestExecuteCaching(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := testRunner(t, fc)
	ctx := context.Background()

	first, err := r.Execute(ctx, sampleRaw(), Options{})
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheHit {
		t.Fatal("first run hit the cache")
	}

	second, err := r.Execute(ctx, sampleRaw(), Options{})
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheHit {
		t.Fatal("second run missed the cache")
	}
	if second.Generation != 2 {
		t.Errorf("Generation = %d, want 2", second.Generation)
	}
	if second.PayloadHash != first.PayloadHash {
		t.Error("payload hash changed between runs")
	}

	// Cached positions match the original run exactly.
	for _, n := range first.Graph.Nodes() {
		m, ok := second.Graph.Node(n.ID)
		if !ok {
			t.Fatalf("node %s missing from cached graph", n.ID)
		}
		if n.X != m.X || n.Y != m.Y {
			t.Errorf("%s cached at (%v,%v), want (%v,%v)", n.ID, m.X, m.Y, n.X, n.Y)
		}
	}

	// Refresh bypasses the cache.
	third, err := r.Execute(ctx, sampleRaw(), Options{Refresh: true})
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if third.CacheHit {
		t.Error("refresh run hit the cache")
	}
}

func TestExecuteDistinctOptionsDistinctKeys(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := testRunner(t, fc)
	ctx := context.Background()

	if _, err := r.Execute(ctx, sampleRaw(), Options{Mode: "overview"}); err != nil {
		t.Fatalf("overview Execute: %v", err)
	}
	res, err := r.Execute(ctx, sampleRaw(), Options{Mode: "focused"})
	if err != nil {
		t.Fatalf("focused Execute: %v", err)
	}
	if res.CacheHit {
		t.Error("different mode reused the overview cache entry")
	}
	if res.Strategy != "banded" {
		t.Errorf("Strategy = %q, want banded", res.Strategy)
	}
}

func TestExecuteFilters(t *testing.T) {
	r := testRunner(t, nil)

	res, err := r.Execute(context.Background(), sampleRaw(), Options{
		Categories: []string{"Word"},
		Language:   "lkt",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Graph.NodeCount() != 1 {
		t.Fatalf("nodes = %d, want 1", res.Graph.NodeCount())
	}
	if _, ok := res.Graph.Node("w1"); !ok {
		t.Error("w1 missing after filter")
	}
	// Edges into filtered-out nodes become dangling and are dropped.
	if res.Graph.EdgeCount() != 0 {
		t.Errorf("edges = %d, want 0", res.Graph.EdgeCount())
	}
}

func TestExecuteSkipRefine(t *testing.T) {
	r := testRunner(t, nil)

	res, err := r.Execute(context.Background(), sampleRaw(), Options{
		Mode:       "focused",
		SkipRefine: true,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// Positions sit exactly on the banded geometry.
	n, _ := res.Graph.Node("t1")
	if n.X != 0 || n.Y != 0 {
		t.Errorf("t1 at (%v,%v), want (0,0)", n.X, n.Y)
	}
	if res.Timings.Refine != 0 {
		t.Errorf("Refine timing = %v, want 0", res.Timings.Refine)
	}
}

func TestFilters(t *testing.T) {
	r := testRunner(t, nil)

	meta, err := r.Filters(context.Background(), sampleRaw())
	if err != nil {
		t.Fatalf("Filters: %v", err)
	}

	if len(meta.Categories) != 2 || meta.Categories[0] != "Text" || meta.Categories[1] != "Word" {
		t.Errorf("Categories = %v, want [Text Word]", meta.Categories)
	}
	if len(meta.Languages) != 2 || meta.Languages[0] != "lkt" || meta.Languages[1] != "dak" {
		t.Errorf("Languages = %v, want [lkt dak]", meta.Languages)
	}
	if meta.MinLimit != corpus.MinFilterLimit || meta.MaxLimit != corpus.MaxFilterLimit || meta.Default != corpus.DefaultFilterLimit {
		t.Errorf("limits = %d/%d/%d", meta.MinLimit, meta.MaxLimit, meta.Default)
	}
}

func TestOptionsValidateIdempotent(t *testing.T) {
	opts := Options{Mode: "focused"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("first validate: %v", err)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second validate: %v", err)
	}
	if opts.LayoutMode() != layout.ModeFocused {
		t.Errorf("LayoutMode = %v, want focused", opts.LayoutMode())
	}
	if opts.Logger == nil {
		t.Error("Logger not defaulted")
	}
}

func TestOptionsGraphKeyOpts(t *testing.T) {
	opts := Options{Mode: "overview", Categories: []string{"Word"}, Limit: 5}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	key := opts.GraphKeyOpts()
	if key.Mode != "overview" {
		t.Errorf("Mode = %q, want overview", key.Mode)
	}
	// The key carries the clamped limit so equivalent requests share entries.
	if key.Limit != corpus.MinFilterLimit {
		t.Errorf("Limit = %d, want %d", key.Limit, corpus.MinFilterLimit)
	}
}
