package force

import (
	"fmt"
	"math"
	"testing"

	"github.com/fieldlab/corpusgraph/pkg/corpus"
	"github.com/fieldlab/corpusgraph/pkg/layout"
)

func TestPresets(t *testing.T) {
	f := FocusedPreset()
	if f.Iterations != 20 || f.Gravity != 0.02 || f.ScalingRatio != 2 || f.SlowDown != 10 {
		t.Errorf("focused preset = %+v", f)
	}
	if f.EdgeWeightInfluence != 0 || f.LogAttraction || f.AvoidOverlap {
		t.Errorf("focused preset attraction settings = %+v", f)
	}

	o := OverviewPreset()
	if o.Iterations != 50 || o.Gravity != 0.05 || o.ScalingRatio != 10 || o.SlowDown != 5 {
		t.Errorf("overview preset = %+v", o)
	}
	if o.EdgeWeightInfluence != 1 || !o.LogAttraction || !o.AvoidOverlap {
		t.Errorf("overview preset attraction settings = %+v", o)
	}
}

func TestPresetFor(t *testing.T) {
	if got := PresetFor(layout.ModeFocused); got.Iterations != FocusedPreset().Iterations {
		t.Errorf("focused preset iterations = %d", got.Iterations)
	}
	if got := PresetFor(layout.ModeOverview); !got.LogAttraction {
		t.Error("overview preset missing log attraction")
	}
}

func TestRefineSmallGraphsUntouched(t *testing.T) {
	g := corpus.NewGraph()
	g.AddNode(corpus.Node{ID: "only", X: 42, Y: -7})

	NewSimulation(OverviewPreset(), nil).Refine(g)

	n, _ := g.Node("only")
	if n.X != 42 || n.Y != -7 {
		t.Errorf("single node moved to (%v,%v)", n.X, n.Y)
	}
}

func TestRefineMovesNodes(t *testing.T) {
	g := placedGraph()
	before := snapshot(g)

	NewSimulation(OverviewPreset(), nil).Refine(g)

	moved := false
	for _, n := range g.Nodes() {
		p := before[n.ID]
		if n.X != p[0] || n.Y != p[1] {
			moved = true
		}
		if math.IsNaN(n.X) || math.IsNaN(n.Y) || math.IsInf(n.X, 0) || math.IsInf(n.Y, 0) {
			t.Fatalf("node %s at non-finite position (%v,%v)", n.ID, n.X, n.Y)
		}
	}
	if !moved {
		t.Error("refinement left every node in place")
	}
}

func TestRefineDeterministic(t *testing.T) {
	for _, cfg := range []Config{FocusedPreset(), OverviewPreset()} {
		a, b := placedGraph(), placedGraph()
		NewSimulation(cfg, nil).Refine(a)
		NewSimulation(cfg, nil).Refine(b)

		for _, n := range a.Nodes() {
			m, _ := b.Node(n.ID)
			if n.X != m.X || n.Y != m.Y {
				t.Errorf("iters=%d: %s diverged: (%v,%v) vs (%v,%v)",
					cfg.Iterations, n.ID, n.X, n.Y, m.X, m.Y)
			}
		}
	}
}

func TestRefineCoincidentNodes(t *testing.T) {
	// All nodes start at the origin; the deterministic separation direction
	// must still pull them apart without producing NaN.
	g := corpus.NewGraph()
	for i := 0; i < 5; i++ {
		g.AddNode(corpus.Node{ID: fmt.Sprintf("n%d", i), Size: 10})
	}

	NewSimulation(OverviewPreset(), nil).Refine(g)

	distinct := make(map[[2]float64]bool)
	for _, n := range g.Nodes() {
		if math.IsNaN(n.X) || math.IsNaN(n.Y) {
			t.Fatalf("node %s at NaN", n.ID)
		}
		distinct[[2]float64{n.X, n.Y}] = true
	}
	if len(distinct) < 2 {
		t.Error("coincident nodes were never separated")
	}
}

func TestRefineZeroIterations(t *testing.T) {
	g := placedGraph()
	before := snapshot(g)

	NewSimulation(Config{}, nil).Refine(g)

	for _, n := range g.Nodes() {
		p := before[n.ID]
		if n.X != p[0] || n.Y != p[1] {
			t.Errorf("node %s moved with zero iterations", n.ID)
		}
	}
}

func placedGraph() *corpus.Graph {
	g := corpus.NewGraph()
	g.AddNode(corpus.Node{ID: "t1", Category: corpus.CategoryText, Size: 25})
	for i := 0; i < 6; i++ {
		id := fmt.Sprintf("w%d", i)
		g.AddNode(corpus.Node{ID: id, Category: corpus.CategoryWord, Size: 8})
		g.AddEdge(corpus.Edge{ID: "e" + id, Source: "t1", Target: id, Size: 2})
	}
	layout.Radial{}.Place(g)
	return g
}

func snapshot(g *corpus.Graph) map[string][2]float64 {
	out := make(map[string][2]float64)
	for _, n := range g.Nodes() {
		out[n.ID] = [2]float64{n.X, n.Y}
	}
	return out
}
