package corpus

import (
	"errors"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty after trimming. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists. The first occurrence always wins.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the source
	// does not resolve to a node in the graph.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the target
	// does not resolve to a node in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrDuplicateEdge is returned by [Graph.AddEdge] when an edge with the
	// same ordered (source, target) pair was already accepted.
	ErrDuplicateEdge = errors.New("duplicate directed edge")
)

// EdgeDisplayType is the rendering hint attached to every accepted edge.
const EdgeDisplayType = "line"

// Node is a validated, styled corpus graph node.
// Positions are zero until a layout strategy runs; the force refiner then
// mutates X and Y in place. No other stage touches position.
type Node struct {
	ID         string         `json:"id" bson:"id"`
	Category   Category       `json:"category" bson:"category"`
	Label      string         `json:"label" bson:"label"`
	Size       float64        `json:"size" bson:"size"`
	Color      string         `json:"color" bson:"color"`
	Properties map[string]any `json:"properties,omitempty" bson:"properties,omitempty"`
	X          float64        `json:"x" bson:"x"`
	Y          float64        `json:"y" bson:"y"`
}

// DisplayLabel returns the label if set, otherwise the node ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a validated directed relationship between two nodes.
type Edge struct {
	ID          string  `json:"id" bson:"id"`
	Source      string  `json:"source" bson:"source"`
	Target      string  `json:"target" bson:"target"`
	RelType     string  `json:"relationshipType" bson:"relationship_type"`
	Size        float64 `json:"size" bson:"size"`
	Color       string  `json:"color" bson:"color"`
	DisplayType string  `json:"displayType" bson:"display_type"`
}

// Stats accumulates build diagnostics. Counts are advisory: a non-zero
// rejection count never indicates a failed build.
type Stats struct {
	NodeCount      int `json:"node_count" bson:"node_count"`
	EdgeCount      int `json:"edge_count" bson:"edge_count"`
	NodesRejected  int `json:"nodes_rejected,omitempty" bson:"nodes_rejected,omitempty"`
	EdgesRejected  int `json:"edges_rejected,omitempty" bson:"edges_rejected,omitempty"`
	DuplicateNodes int `json:"duplicate_nodes,omitempty" bson:"duplicate_nodes,omitempty"`
	DuplicateEdges int `json:"duplicate_edges,omitempty" bson:"duplicate_edges,omitempty"`
	DanglingEdges  int `json:"dangling_edges,omitempty" bson:"dangling_edges,omitempty"`

	// Placeholder is true when the graph holds only the synthetic "no data"
	// node. It distinguishes empty input from input that was filtered to
	// nothing; callers may surface the two states differently.
	Placeholder bool `json:"placeholder,omitempty" bson:"placeholder,omitempty"`
}

// pairKey is the uniqueness key for directed edge deduplication.
type pairKey struct {
	source, target string
}

// Graph is a validated corpus graph. Node and edge order is insertion
// order, which the builder guarantees to be raw first-appearance order.
//
// The zero value is not usable; use NewGraph. Graph is not safe for
// concurrent mutation; builds construct one graph per invocation and never
// share it across builds.
type Graph struct {
	nodes  []*Node
	edges  []Edge
	byID   map[string]*Node
	pairs  map[pairKey]struct{}
	degree map[string]int

	// Stats is filled in by the builder and carried to the caller.
	Stats Stats
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		byID:   make(map[string]*Node),
		pairs:  make(map[pairKey]struct{}),
		degree: make(map[string]int),
	}
}

// AddNode adds a node, enforcing non-empty unique IDs.
// Returns ErrInvalidNodeID or ErrDuplicateNodeID on violation; the graph is
// unchanged in either case.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.byID[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := &n
	g.nodes = append(g.nodes, node)
	g.byID[node.ID] = node
	return nil
}

// AddEdge adds a directed edge between two existing nodes, enforcing the
// ordered-pair uniqueness invariant. Returns ErrUnknownSourceNode,
// ErrUnknownTargetNode, or ErrDuplicateEdge on violation; the node set is
// never mutated on an edge's behalf.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.byID[e.Source]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.byID[e.Target]; !ok {
		return ErrUnknownTargetNode
	}
	key := pairKey{e.Source, e.Target}
	if _, dup := g.pairs[key]; dup {
		return ErrDuplicateEdge
	}
	g.pairs[key] = struct{}{}
	g.edges = append(g.edges, e)
	g.degree[e.Source]++
	g.degree[e.Target]++
	return nil
}

// Node returns the node with the given ID and true, or nil and false.
// The pointer refers to the live node; position mutations are visible.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// Nodes returns the nodes in insertion order. The slice shares node
// pointers with the graph; layout stages mutate positions through it.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Edges returns the edges in insertion order.
func (g *Graph) Edges() []Edge { return g.edges }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Degree returns the number of edges incident to the node, counting both
// directions. Used as the mass term in force-directed refinement.
func (g *Graph) Degree(id string) int { return g.degree[id] }

// HasEdge reports whether the ordered pair (source, target) was accepted.
func (g *Graph) HasEdge(source, target string) bool {
	_, ok := g.pairs[pairKey{source, target}]
	return ok
}
