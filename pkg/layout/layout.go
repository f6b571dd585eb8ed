// Package layout provides deterministic initial placement for corpus
// graphs. Two strategies exist: a banded arrangement for focused
// single-item views and a concentric radial arrangement for corpus-wide
// overviews. Both are pure functions of the node set — no randomness, no
// physics — so repeated builds of the same input place every node at the
// same coordinates. The force package refines these positions afterwards.
package layout

import (
	"math"

	"github.com/fieldlab/corpusgraph/pkg/corpus"
	cgerrors "github.com/fieldlab/corpusgraph/pkg/errors"
)

// Mode selects the visualization intent.
type Mode string

// Supported layout modes.
const (
	// ModeFocused arranges categories as horizontal bands; used for
	// single-item views (one word or morpheme and its context).
	ModeFocused Mode = "focused"

	// ModeOverview arranges categories as concentric rings; used for
	// whole-corpus views.
	ModeOverview Mode = "overview"
)

// DefaultMode applies when a caller supplies no mode.
const DefaultMode = ModeOverview

// ParseMode validates a mode string. Empty input yields DefaultMode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFocused, ModeOverview:
		return Mode(s), nil
	case "":
		return DefaultMode, nil
	default:
		return "", cgerrors.New(cgerrors.ErrCodeInvalidMode, "invalid mode: %q (must be focused or overview)", s)
	}
}

// Strategy is a deterministic initial placement algorithm.
// Place assigns every node's X and Y in place and touches nothing else.
type Strategy interface {
	Name() string
	Place(g *corpus.Graph)
}

// ForMode returns the built-in strategy for a mode.
func ForMode(mode Mode) Strategy {
	if mode == ModeFocused {
		return Banded{}
	}
	return Radial{}
}

// Spacing constants for the built-in strategies.
const (
	// VerticalSpacing separates category bands in the banded layout.
	VerticalSpacing = 100.0

	// HorizontalSpacing separates nodes within a band.
	HorizontalSpacing = 150.0

	// RadiusStep separates category rings in the radial layout.
	// Ring 0 (the Text level) has radius zero.
	RadiusStep = 200.0
)

// Banded places each category on a horizontal band at
// y = level*VerticalSpacing, nodes spaced HorizontalSpacing apart with the
// band centered on x = 0.
type Banded struct{}

// Name implements Strategy.
func (Banded) Name() string { return "banded" }

// Place implements Strategy.
func (Banded) Place(g *corpus.Graph) {
	for level, nodes := range levels(g) {
		y := float64(level) * VerticalSpacing
		start := -float64(len(nodes)-1) * HorizontalSpacing / 2
		for i, n := range nodes {
			n.X = start + float64(i)*HorizontalSpacing
			n.Y = y
		}
	}
}

// Radial places each category on a concentric ring of radius
// level*RadiusStep, with the ring's N nodes at angles 2πi/N.
type Radial struct{}

// Name implements Strategy.
func (Radial) Name() string { return "radial" }

// Place implements Strategy.
func (Radial) Place(g *corpus.Graph) {
	for level, nodes := range levels(g) {
		radius := float64(level) * RadiusStep
		for i, n := range nodes {
			angle := 2 * math.Pi * float64(i) / float64(len(nodes))
			n.X = radius * math.Cos(angle)
			n.Y = radius * math.Sin(angle)
		}
	}
}

// levels groups nodes by category in the fixed hierarchy order, preserving
// insertion order within each group. Absent categories contribute no level
// (no gap is reserved); nodes outside the hierarchy (Other, Empty) form a
// single trailing level.
func levels(g *corpus.Graph) [][]*corpus.Node {
	byCategory := make(map[corpus.Category][]*corpus.Node)
	var rest []*corpus.Node

	known := make(map[corpus.Category]bool, len(corpus.LevelOrder))
	for _, c := range corpus.LevelOrder {
		known[c] = true
	}

	for _, n := range g.Nodes() {
		if known[n.Category] {
			byCategory[n.Category] = append(byCategory[n.Category], n)
		} else {
			rest = append(rest, n)
		}
	}

	var out [][]*corpus.Node
	for _, c := range corpus.LevelOrder {
		if nodes := byCategory[c]; len(nodes) > 0 {
			out = append(out, nodes)
		}
	}
	if len(rest) > 0 {
		out = append(out, rest)
	}
	return out
}
