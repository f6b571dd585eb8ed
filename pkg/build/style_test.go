package build

import (
	"testing"

	"github.com/fieldlab/corpusgraph/pkg/corpus"
)

func TestIsDense(t *testing.T) {
	tests := []struct {
		name  string
		nodes int
		edges int
		want  bool
	}{
		{"Small", 10, 10, false},
		{"AtNodeThreshold", 200, 0, false},
		{"OverNodeThreshold", 201, 0, true},
		{"AtEdgeThreshold", 0, 500, false},
		{"OverEdgeThreshold", 0, 501, true},
		{"BothOver", 300, 600, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDense(tt.nodes, tt.edges); got != tt.want {
				t.Errorf("IsDense(%d, %d) = %v, want %v", tt.nodes, tt.edges, got, tt.want)
			}
		})
	}
}

func TestResolveNodeSize(t *testing.T) {
	tests := []struct {
		name     string
		cat      corpus.Category
		explicit float64
		want     float64
	}{
		{"DefaultOther", corpus.CategoryOther, 0, 10},
		{"DefaultBelowTextFloor", corpus.CategoryText, 0, 25},
		{"ExplicitAboveFloor", corpus.CategoryWord, 40, 40},
		{"ExplicitBelowFloor", corpus.CategoryWord, 3, 8},
		{"NegativeTreatedAsMissing", corpus.CategoryMorpheme, -1, 10},
		{"DefaultAboveGlossFloor", corpus.CategoryGloss, 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveNodeSize(tt.cat, tt.explicit); got != tt.want {
				t.Errorf("ResolveNodeSize(%v, %v) = %v, want %v", tt.cat, tt.explicit, got, tt.want)
			}
		})
	}
}

func TestResolveNodeColor(t *testing.T) {
	if got := ResolveNodeColor(""); got != DefaultNodeColor {
		t.Errorf("default color = %q, want %q", got, DefaultNodeColor)
	}
	if got := ResolveNodeColor("#112233"); got != "#112233" {
		t.Errorf("explicit color = %q, want #112233", got)
	}
}

func TestResolveEdgeSize(t *testing.T) {
	tests := []struct {
		name     string
		explicit float64
		dense    bool
		want     float64
	}{
		{"Default", 0, false, 2},
		{"DefaultDense", 0, true, 1.6},
		{"Explicit", 4, false, 4},
		{"ExplicitDense", 4, true, 3.2},
		{"DenseFloor", 1.6, true, 1.5}, // 1.6*0.8 = 1.28, floored
		{"SparseFloor", 1, false, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveEdgeSize(tt.explicit, tt.dense); got != tt.want {
				t.Errorf("ResolveEdgeSize(%v, %v) = %v, want %v", tt.explicit, tt.dense, got, tt.want)
			}
		})
	}
}

func TestResolveEdgeColor(t *testing.T) {
	if got := ResolveEdgeColor(""); got != DefaultEdgeColor+EdgeAlphaSuffix {
		t.Errorf("default = %q, want %q", got, DefaultEdgeColor+EdgeAlphaSuffix)
	}
	// Explicit colors get the alpha suffix too.
	if got := ResolveEdgeColor("#112233"); got != "#11223399" {
		t.Errorf("explicit = %q, want #11223399", got)
	}
}
