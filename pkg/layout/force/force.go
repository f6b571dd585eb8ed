// Package force implements force-directed refinement of an initial corpus
// graph layout. The simulation applies edge-induced attraction, pairwise
// node repulsion approximated through a uniform spatial grid, and a weak
// centering gravity, then integrates damped displacements in place.
//
// The refinement is seeded entirely by the deterministic initial layout:
// there is no random jitter, and nodes, edges, and grid cells are always
// traversed in index order, so repeated runs over identical input produce
// identical positions.
package force

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/fieldlab/corpusgraph/pkg/corpus"
	"github.com/fieldlab/corpusgraph/pkg/layout"
)

// Config holds the simulation parameters. The two presets cover the layout
// modes; the individual fields are exported for tests and tuning.
type Config struct {
	// Iterations is the number of simulation steps.
	Iterations int

	// Gravity pulls nodes toward the origin, proportional to mass.
	// Kept low so the initial layout's global structure survives.
	Gravity float64

	// ScalingRatio scales repulsion; larger values spread the graph wider.
	ScalingRatio float64

	// SlowDown divides every displacement; larger values damp motion more.
	SlowDown float64

	// EdgeWeightInfluence is the exponent applied to edge sizes when
	// computing attraction. Zero ignores weights entirely.
	EdgeWeightInfluence float64

	// LogAttraction switches edge attraction from linear to logarithmic
	// distance scaling, which reduces crossing at corpus scale.
	LogAttraction bool

	// AvoidOverlap enables size-aware collision handling: node pairs closer
	// than the sum of their sizes repel much harder.
	AvoidOverlap bool
}

// FocusedPreset tunes the simulation to resolve local overlaps while
// preserving the banded structure: few iterations, minimal gravity and
// spread, heavy damping, no edge-weight influence.
func FocusedPreset() Config {
	return Config{
		Iterations:          20,
		Gravity:             0.02,
		ScalingRatio:        2,
		SlowDown:            10,
		EdgeWeightInfluence: 0,
	}
}

// OverviewPreset tunes the simulation for corpus-wide decluttering: more
// iterations, wider spread, log-scaled attraction, size-aware collision
// avoidance, moderate edge-weight influence.
func OverviewPreset() Config {
	return Config{
		Iterations:          50,
		Gravity:             0.05,
		ScalingRatio:        10,
		SlowDown:            5,
		EdgeWeightInfluence: 1,
		LogAttraction:       true,
		AvoidOverlap:        true,
	}
}

// PresetFor returns the preset matching a layout mode.
func PresetFor(mode layout.Mode) Config {
	if mode == layout.ModeFocused {
		return FocusedPreset()
	}
	return OverviewPreset()
}

// Refiner adjusts node positions in place after initial layout.
type Refiner interface {
	Refine(g *corpus.Graph)
}

// Simulation is the built-in force-directed Refiner.
type Simulation struct {
	cfg    Config
	logger *log.Logger
}

// NewSimulation creates a refiner with the given config.
// A nil logger discards progress output.
func NewSimulation(cfg Config, logger *log.Logger) *Simulation {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Simulation{cfg: cfg, logger: logger}
}

// maxDisplacement caps per-step node motion so a single degenerate force
// cannot fling a node out of the frame.
const maxDisplacement = 50.0

// Refine runs the simulation. Graphs with fewer than two nodes are left
// untouched.
func (s *Simulation) Refine(g *corpus.Graph) {
	nodes := g.Nodes()
	if len(nodes) < 2 || s.cfg.Iterations <= 0 {
		return
	}

	index := make(map[string]int, len(nodes))
	masses := make([]float64, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
		masses[i] = 1 + float64(g.Degree(n.ID))
	}

	fx := make([]float64, len(nodes))
	fy := make([]float64, len(nodes))

	for iter := 0; iter < s.cfg.Iterations; iter++ {
		for i := range fx {
			fx[i], fy[i] = 0, 0
		}

		s.applyRepulsion(nodes, masses, fx, fy)
		s.applyAttraction(g, nodes, index, fx, fy)
		s.applyGravity(nodes, masses, fx, fy)

		for i, n := range nodes {
			dx := fx[i] / s.cfg.SlowDown
			dy := fy[i] / s.cfg.SlowDown
			if d := math.Hypot(dx, dy); d > maxDisplacement {
				scale := maxDisplacement / d
				dx *= scale
				dy *= scale
			}
			n.X += dx
			n.Y += dy
		}
	}
	s.logger.Debug("refined layout", "nodes", len(nodes), "iterations", s.cfg.Iterations)
}

// applyRepulsion accumulates pairwise repulsion. Nodes in the same or
// adjacent grid cells interact exactly; distant cells act as a single
// point mass at their centroid.
func (s *Simulation) applyRepulsion(nodes []*corpus.Node, masses []float64, fx, fy []float64) {
	grid := buildGrid(nodes, masses)

	for i, n := range nodes {
		ci := grid.cellOf(n)
		for c := 0; c < grid.cellCount(); c++ {
			if grid.count[c] == 0 {
				continue
			}
			if grid.adjacent(ci, c) {
				for _, j := range grid.members[c] {
					if i == j {
						continue
					}
					s.repel(i, j, nodes, masses, fx, fy)
				}
			} else {
				dx := n.X - grid.centroidX[c]
				dy := n.Y - grid.centroidY[c]
				d := math.Hypot(dx, dy)
				if d < minDistance {
					continue
				}
				f := s.cfg.ScalingRatio * masses[i] * grid.mass[c] / (d * d)
				fx[i] += dx * f
				fy[i] += dy * f
			}
		}
	}
}

// minDistance guards divisions; coincident nodes get a deterministic
// index-derived separation direction instead.
const minDistance = 1e-4

func (s *Simulation) repel(i, j int, nodes []*corpus.Node, masses []float64, fx, fy []float64) {
	a, b := nodes[i], nodes[j]
	dx := a.X - b.X
	dy := a.Y - b.Y
	d := math.Hypot(dx, dy)
	if d < minDistance {
		// Deterministic direction for coincident nodes.
		angle := float64(i-j) * 0.7
		dx, dy = math.Cos(angle), math.Sin(angle)
		d = 1
	}

	f := s.cfg.ScalingRatio * masses[i] * masses[j] / (d * d)
	if s.cfg.AvoidOverlap && d < a.Size+b.Size {
		f *= overlapRepulsionBoost
	}
	fx[i] += dx * f
	fy[i] += dy * f
}

// overlapRepulsionBoost multiplies repulsion between overlapping nodes
// when collision avoidance is on.
const overlapRepulsionBoost = 100.0

// applyAttraction pulls edge endpoints together, linearly or
// logarithmically in their distance, weighted by edge size raised to the
// configured influence.
func (s *Simulation) applyAttraction(g *corpus.Graph, nodes []*corpus.Node, index map[string]int, fx, fy []float64) {
	for _, e := range g.Edges() {
		i, okS := index[e.Source]
		j, okT := index[e.Target]
		if !okS || !okT || i == j {
			continue
		}

		a, b := nodes[i], nodes[j]
		dx := b.X - a.X
		dy := b.Y - a.Y
		d := math.Hypot(dx, dy)
		if d < minDistance {
			continue
		}

		weight := 1.0
		if s.cfg.EdgeWeightInfluence > 0 {
			weight = math.Pow(e.Size, s.cfg.EdgeWeightInfluence)
		}

		strength := d
		if s.cfg.LogAttraction {
			strength = math.Log1p(d)
		}
		f := weight * strength / d

		fx[i] += dx * f
		fy[i] += dy * f
		fx[j] -= dx * f
		fy[j] -= dy * f
	}
}

// applyGravity pulls every node weakly toward the origin.
func (s *Simulation) applyGravity(nodes []*corpus.Node, masses []float64, fx, fy []float64) {
	for i, n := range nodes {
		d := math.Hypot(n.X, n.Y)
		if d < minDistance {
			continue
		}
		f := s.cfg.Gravity * masses[i] / d
		fx[i] -= n.X * f
		fy[i] -= n.Y * f
	}
}
