package layout

import (
	"math"
	"testing"

	"github.com/fieldlab/corpusgraph/pkg/corpus"
	cgerrors "github.com/fieldlab/corpusgraph/pkg/errors"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"focused", ModeFocused, false},
		{"overview", ModeOverview, false},
		{"", DefaultMode, false},
		{"Focused", "", true}, // case sensitive
		{"tree", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				if !cgerrors.Is(err, cgerrors.ErrCodeInvalidMode) {
					t.Fatalf("err = %v, want INVALID_MODE", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMode(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestForMode(t *testing.T) {
	if got := ForMode(ModeFocused).Name(); got != "banded" {
		t.Errorf("focused strategy = %q, want banded", got)
	}
	if got := ForMode(ModeOverview).Name(); got != "radial" {
		t.Errorf("overview strategy = %q, want radial", got)
	}
}

func TestBandedPlace(t *testing.T) {
	g := corpus.NewGraph()
	g.AddNode(corpus.Node{ID: "t1", Category: corpus.CategoryText})
	g.AddNode(corpus.Node{ID: "w1", Category: corpus.CategoryWord})
	g.AddNode(corpus.Node{ID: "w2", Category: corpus.CategoryWord})
	g.AddNode(corpus.Node{ID: "w3", Category: corpus.CategoryWord})

	Banded{}.Place(g)

	// Single-node level sits centered at x=0.
	assertPos(t, g, "t1", 0, 0)
	// Three nodes centered: -150, 0, 150. Word is the second present level
	// because Section and Phrase are absent.
	assertPos(t, g, "w1", -150, 100)
	assertPos(t, g, "w2", 0, 100)
	assertPos(t, g, "w3", 150, 100)
}

func TestBandedAbsentCategoriesReserveNoLevel(t *testing.T) {
	g := corpus.NewGraph()
	g.AddNode(corpus.Node{ID: "s1", Category: corpus.CategorySection})
	g.AddNode(corpus.Node{ID: "m1", Category: corpus.CategoryMorpheme})

	Banded{}.Place(g)

	assertPos(t, g, "s1", 0, 0)
	assertPos(t, g, "m1", 0, 100)
}

func TestBandedOtherTrailing(t *testing.T) {
	g := corpus.NewGraph()
	g.AddNode(corpus.Node{ID: "x1", Category: corpus.CategoryOther})
	g.AddNode(corpus.Node{ID: "w1", Category: corpus.CategoryWord})

	Banded{}.Place(g)

	// The hierarchy level comes first even though x1 was inserted first.
	assertPos(t, g, "w1", 0, 0)
	assertPos(t, g, "x1", 0, 100)
}

func TestRadialPlace(t *testing.T) {
	g := corpus.NewGraph()
	g.AddNode(corpus.Node{ID: "t1", Category: corpus.CategoryText})
	g.AddNode(corpus.Node{ID: "w1", Category: corpus.CategoryWord})
	g.AddNode(corpus.Node{ID: "w2", Category: corpus.CategoryWord})
	g.AddNode(corpus.Node{ID: "w3", Category: corpus.CategoryWord})
	g.AddNode(corpus.Node{ID: "w4", Category: corpus.CategoryWord})

	Radial{}.Place(g)

	// Ring 0 has radius 0.
	assertPos(t, g, "t1", 0, 0)
	// Ring 1, four nodes at quarter turns on radius 200.
	assertPos(t, g, "w1", 200, 0)
	assertPos(t, g, "w2", 0, 200)
	assertPos(t, g, "w3", -200, 0)
	assertPos(t, g, "w4", 0, -200)
}

func TestPlaceDeterministic(t *testing.T) {
	build := func() *corpus.Graph {
		g := corpus.NewGraph()
		g.AddNode(corpus.Node{ID: "t1", Category: corpus.CategoryText})
		g.AddNode(corpus.Node{ID: "p1", Category: corpus.CategoryPhrase})
		g.AddNode(corpus.Node{ID: "p2", Category: corpus.CategoryPhrase})
		g.AddNode(corpus.Node{ID: "g1", Category: corpus.CategoryGloss})
		return g
	}

	for _, s := range []Strategy{Banded{}, Radial{}} {
		a, b := build(), build()
		s.Place(a)
		s.Place(b)
		for _, n := range a.Nodes() {
			m, _ := b.Node(n.ID)
			if n.X != m.X || n.Y != m.Y {
				t.Errorf("%s: %s placed at (%v,%v) then (%v,%v)", s.Name(), n.ID, n.X, n.Y, m.X, m.Y)
			}
		}
	}
}

func assertPos(t *testing.T, g *corpus.Graph, id string, x, y float64) {
	t.Helper()
	n, ok := g.Node(id)
	if !ok {
		t.Fatalf("node %s missing", id)
	}
	const eps = 1e-9
	if math.Abs(n.X-x) > eps || math.Abs(n.Y-y) > eps {
		t.Errorf("%s at (%v,%v), want (%v,%v)", id, n.X, n.Y, x, y)
	}
}
