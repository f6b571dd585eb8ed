package build

import (
	"fmt"
	"testing"

	"github.com/fieldlab/corpusgraph/pkg/corpus"
	cgerrors "github.com/fieldlab/corpusgraph/pkg/errors"
)

func TestBuildNilPayload(t *testing.T) {
	_, err := New(nil).Build(nil)
	if !cgerrors.Is(err, cgerrors.ErrCodeInvalidInput) {
		t.Fatalf("err = %v, want INVALID_INPUT", err)
	}
}

func TestBuildDeduplication(t *testing.T) {
	raw := &corpus.RawGraph{
		Nodes: []corpus.RawNode{
			{ID: "w1", Type: "Word", Label: "kept", Size: 9},
			{ID: "w1", Type: "Word", Label: "dropped", Size: 99},
			{ID: "w2", Type: "Word"},
			{ID: "  ", Type: "Word"},
		},
		Edges: []corpus.RawEdge{
			{Source: "w1", Target: "w2"},
			{Source: "w1", Target: "w2"}, // duplicate pair
			{Source: "w2", Target: "w1"}, // reversed pair is distinct
			{Source: "w1", Target: "zzz"},
			{Source: "", Target: "w2"},
		},
	}

	g, err := New(nil).Build(raw)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if g.NodeCount() != 2 {
		t.Errorf("nodes = %d, want 2", g.NodeCount())
	}
	if g.EdgeCount() != 2 {
		t.Errorf("edges = %d, want 2", g.EdgeCount())
	}

	// First occurrence wins all attributes.
	n, _ := g.Node("w1")
	if n.Label != "kept" || n.Size != 9 {
		t.Errorf("retained w1 = %q/%v, want kept/9", n.Label, n.Size)
	}

	stats := g.Stats
	if stats.DuplicateNodes != 1 {
		t.Errorf("DuplicateNodes = %d, want 1", stats.DuplicateNodes)
	}
	if stats.NodesRejected != 1 {
		t.Errorf("NodesRejected = %d, want 1", stats.NodesRejected)
	}
	if stats.DuplicateEdges != 1 {
		t.Errorf("DuplicateEdges = %d, want 1", stats.DuplicateEdges)
	}
	if stats.DanglingEdges != 1 {
		t.Errorf("DanglingEdges = %d, want 1", stats.DanglingEdges)
	}
	if stats.EdgesRejected != 1 {
		t.Errorf("EdgesRejected = %d, want 1", stats.EdgesRejected)
	}
}

func TestBuildSectionLabels(t *testing.T) {
	// Ordinals follow first-appearance order, not record IDs.
	raw := &corpus.RawGraph{
		Nodes: []corpus.RawNode{
			{ID: "s3", Type: "Section", Label: "ignored"},
			{ID: "s1", Type: "Section"},
			{ID: "s3", Type: "Section"}, // duplicate: no ordinal consumed
			{ID: "s2", Type: "Section"},
		},
	}

	g, err := New(nil).Build(raw)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := map[string]string{"s3": "1", "s1": "2", "s2": "3"}
	for id, label := range want {
		n, ok := g.Node(id)
		if !ok {
			t.Fatalf("node %s missing", id)
		}
		if n.Label != label {
			t.Errorf("label(%s) = %q, want %q", id, n.Label, label)
		}
	}
}

func TestBuildStyling(t *testing.T) {
	raw := &corpus.RawGraph{
		Nodes: []corpus.RawNode{
			{ID: "t1", Type: "Text"},
			{ID: "w1", Type: "Word", Color: "#123456", Size: 30},
		},
		Edges: []corpus.RawEdge{
			{Source: "t1", Target: "w1", Type: "CONTAINS"},
		},
	}

	g, err := New(nil).Build(raw)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	text, _ := g.Node("t1")
	if text.Size != 25 {
		t.Errorf("text size = %v, want floor 25", text.Size)
	}
	if text.Color != DefaultNodeColor {
		t.Errorf("text color = %q, want %q", text.Color, DefaultNodeColor)
	}
	if text.Label != "t1" {
		t.Errorf("text label = %q, want id fallback", text.Label)
	}

	word, _ := g.Node("w1")
	if word.Size != 30 || word.Color != "#123456" {
		t.Errorf("word = %v/%q, want 30/#123456", word.Size, word.Color)
	}

	e := g.Edges()[0]
	if e.Size != DefaultEdgeSize {
		t.Errorf("edge size = %v, want %v", e.Size, DefaultEdgeSize)
	}
	if e.Color != DefaultEdgeColor+EdgeAlphaSuffix {
		t.Errorf("edge color = %q, want %q", e.Color, DefaultEdgeColor+EdgeAlphaSuffix)
	}
	if e.DisplayType != corpus.EdgeDisplayType {
		t.Errorf("display type = %q, want %q", e.DisplayType, corpus.EdgeDisplayType)
	}
	if e.ID == "" {
		t.Error("edge id not synthesized")
	}
}

func TestBuildDenseEdgeScaling(t *testing.T) {
	raw := &corpus.RawGraph{}
	for i := 0; i < 201; i++ {
		raw.Nodes = append(raw.Nodes, corpus.RawNode{ID: fmt.Sprintf("w%d", i), Type: "Word"})
	}
	raw.Edges = append(raw.Edges, corpus.RawEdge{Source: "w0", Target: "w1"})

	g, err := New(nil).Build(raw)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if got := g.Edges()[0].Size; got != DefaultEdgeSize*DenseEdgeScale {
		t.Errorf("dense edge size = %v, want %v", got, DefaultEdgeSize*DenseEdgeScale)
	}
}

func TestBuildEmpty(t *testing.T) {
	g, err := New(nil).Build(&corpus.RawGraph{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.NodeCount() != 0 {
		t.Fatalf("nodes = %d, want 0", g.NodeCount())
	}
}

func TestPlaceholderGraph(t *testing.T) {
	g := PlaceholderGraph()
	if g.NodeCount() != 1 {
		t.Fatalf("nodes = %d, want 1", g.NodeCount())
	}
	n := g.Nodes()[0]
	if n.ID != PlaceholderID || n.Label != PlaceholderLabel {
		t.Errorf("placeholder = %s/%q, want %s/%q", n.ID, n.Label, PlaceholderID, PlaceholderLabel)
	}
	if n.Category != corpus.CategoryEmpty {
		t.Errorf("category = %v, want Empty", n.Category)
	}
	if n.X != 0 || n.Y != 0 {
		t.Errorf("position = (%v,%v), want origin", n.X, n.Y)
	}
	if !g.Stats.Placeholder {
		t.Error("Stats.Placeholder not set")
	}
}

func TestBuildEdgeIDSynthesis(t *testing.T) {
	raw := &corpus.RawGraph{
		Nodes: []corpus.RawNode{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Edges: []corpus.RawEdge{
			{ID: "named", Source: "a", Target: "b"},
			{Source: "b", Target: "c"},
		},
	}

	g, err := New(nil).Build(raw)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	edges := g.Edges()
	if edges[0].ID != "named" {
		t.Errorf("edge 0 id = %q, want named", edges[0].ID)
	}
	if edges[1].ID != "b-c-1" {
		t.Errorf("edge 1 id = %q, want b-c-1", edges[1].ID)
	}
}
