package force

import (
	"math"

	"github.com/fieldlab/corpusgraph/pkg/corpus"
)

// grid is a uniform spatial partition over the current node positions,
// rebuilt every iteration. Cells are stored in a flat slice indexed
// row-major, so traversal order is fixed regardless of insertion order.
type grid struct {
	minX, minY float64
	cellW      float64
	cellH      float64
	dim        int

	members   [][]int
	count     []int
	mass      []float64
	centroidX []float64
	centroidY []float64
}

// gridDim picks the grid resolution from the node count. Cube-root growth
// keeps the near-field (the nine adjacent cells) small enough that exact
// pairwise repulsion there stays cheap.
func gridDim(n int) int {
	dim := int(math.Cbrt(float64(n)))
	if dim < 1 {
		dim = 1
	}
	if dim > 32 {
		dim = 32
	}
	return dim
}

func buildGrid(nodes []*corpus.Node, masses []float64) *grid {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		minX = math.Min(minX, n.X)
		minY = math.Min(minY, n.Y)
		maxX = math.Max(maxX, n.X)
		maxY = math.Max(maxY, n.Y)
	}

	dim := gridDim(len(nodes))
	g := &grid{
		minX:      minX,
		minY:      minY,
		cellW:     (maxX - minX) / float64(dim),
		cellH:     (maxY - minY) / float64(dim),
		dim:       dim,
		members:   make([][]int, dim*dim),
		count:     make([]int, dim*dim),
		mass:      make([]float64, dim*dim),
		centroidX: make([]float64, dim*dim),
		centroidY: make([]float64, dim*dim),
	}
	if g.cellW <= 0 {
		g.cellW = 1
	}
	if g.cellH <= 0 {
		g.cellH = 1
	}

	for i, n := range nodes {
		c := g.cellOf(n)
		g.members[c] = append(g.members[c], i)
		g.count[c]++
		g.mass[c] += masses[i]
		g.centroidX[c] += n.X * masses[i]
		g.centroidY[c] += n.Y * masses[i]
	}
	for c := range g.mass {
		if g.mass[c] > 0 {
			g.centroidX[c] /= g.mass[c]
			g.centroidY[c] /= g.mass[c]
		}
	}
	return g
}

func (g *grid) cellCount() int { return g.dim * g.dim }

// cellOf maps a node position to its cell index.
func (g *grid) cellOf(n *corpus.Node) int {
	ix := int((n.X - g.minX) / g.cellW)
	iy := int((n.Y - g.minY) / g.cellH)
	if ix >= g.dim {
		ix = g.dim - 1
	}
	if iy >= g.dim {
		iy = g.dim - 1
	}
	if ix < 0 {
		ix = 0
	}
	if iy < 0 {
		iy = 0
	}
	return iy*g.dim + ix
}

// adjacent reports whether two cell indexes are the same cell or direct
// neighbors (including diagonals).
func (g *grid) adjacent(a, b int) bool {
	ax, ay := a%g.dim, a/g.dim
	bx, by := b%g.dim, b/g.dim
	dx, dy := ax-bx, ay-by
	return dx >= -1 && dx <= 1 && dy >= -1 && dy <= 1
}
