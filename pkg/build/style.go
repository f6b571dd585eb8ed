package build

import (
	"github.com/fieldlab/corpusgraph/pkg/corpus"
)

// Style defaults. Exported so layout tests and the rendering collaborator
// can rely on the exact values.
const (
	// DefaultNodeSize applies when a record carries no explicit size.
	// Category floors (corpus.Category.SizeFloor) still apply on top.
	DefaultNodeSize = 10.0

	// DefaultNodeColor is the neutral fallback for nodes without an
	// explicit color.
	DefaultNodeColor = "#64748b"

	// DefaultEdgeSize applies when an edge record carries no explicit size.
	DefaultEdgeSize = 2.0

	// MinEdgeSize floors every resolved edge size, dense or not.
	MinEdgeSize = 1.5

	// DenseEdgeScale thins edges on dense graphs.
	DenseEdgeScale = 0.8

	// DefaultEdgeColor is the fallback for edges without an explicit color.
	DefaultEdgeColor = "#94a3b8"

	// EdgeAlphaSuffix is appended to every resolved edge color, explicit or
	// default, so edges render translucent over node fills.
	EdgeAlphaSuffix = "99"
)

// Dense-graph classification thresholds.
const (
	DenseNodeThreshold = 200
	DenseEdgeThreshold = 500
)

// IsDense classifies a graph as dense when it exceeds either threshold.
// Dense graphs get thinner edges to reduce visual clutter.
func IsDense(nodeCount, edgeCount int) bool {
	return nodeCount > DenseNodeThreshold || edgeCount > DenseEdgeThreshold
}

// ResolveNodeSize computes the final node size: the explicit size when
// supplied (else the default), raised to the category floor.
func ResolveNodeSize(cat corpus.Category, explicit float64) float64 {
	size := explicit
	if size <= 0 {
		size = DefaultNodeSize
	}
	if floor := cat.SizeFloor(); size < floor {
		size = floor
	}
	return size
}

// ResolveNodeColor returns the explicit color or the neutral default.
func ResolveNodeColor(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return DefaultNodeColor
}

// ResolveEdgeSize computes the final edge size: explicit or default, scaled
// down on dense graphs, floored at MinEdgeSize in all cases.
func ResolveEdgeSize(explicit float64, dense bool) float64 {
	size := explicit
	if size <= 0 {
		size = DefaultEdgeSize
	}
	if dense {
		size *= DenseEdgeScale
	}
	if size < MinEdgeSize {
		size = MinEdgeSize
	}
	return size
}

// ResolveEdgeColor returns the explicit or default edge color with the
// fixed alpha suffix appended.
func ResolveEdgeColor(explicit string) string {
	color := explicit
	if color == "" {
		color = DefaultEdgeColor
	}
	return color + EdgeAlphaSuffix
}
