package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// graphJSON is the serialization envelope for a built graph.
// This is the shape handed to the rendering collaborator.
type graphJSON struct {
	Nodes []*Node `json:"nodes"`
	Edges []Edge  `json:"edges"`
	Stats Stats   `json:"stats"`
}

// MarshalGraph serializes a built graph to pretty-printed JSON bytes.
func MarshalGraph(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraph writes a built graph as JSON to w.
func WriteGraph(g *Graph, w io.Writer) error {
	out := graphJSON{Nodes: g.Nodes(), Edges: g.Edges(), Stats: g.Stats}
	if out.Nodes == nil {
		out.Nodes = []*Node{}
	}
	if out.Edges == nil {
		out.Edges = []Edge{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode graph: %w", err)
	}
	return nil
}

// WriteGraphFile writes a built graph to a JSON file with 0644 permissions.
func WriteGraphFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(g, f)
}

// UnmarshalGraph reconstructs a built graph from its JSON envelope.
// Positions, resolved styles, and stats are restored as serialized.
func UnmarshalGraph(data []byte) (*Graph, error) {
	return ReadGraph(bytes.NewReader(data))
}

// ReadGraph reads a built graph from its JSON envelope.
func ReadGraph(r io.Reader) (*Graph, error) {
	var in graphJSON
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}

	g := NewGraph()
	for _, n := range in.Nodes {
		if err := g.AddNode(*n); err != nil {
			return nil, fmt.Errorf("decode graph: node %s: %w", n.ID, err)
		}
	}
	for _, e := range in.Edges {
		if err := g.AddEdge(e); err != nil {
			return nil, fmt.Errorf("decode graph: edge %s: %w", e.ID, err)
		}
	}
	g.Stats = in.Stats
	return g, nil
}

// MarshalRaw serializes a raw graph to JSON bytes.
// Used for cache keys and corpus storage; node order is preserved so the
// hash of a payload is stable.
func MarshalRaw(raw *RawGraph) ([]byte, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode raw graph: %w", err)
	}
	return data, nil
}

// ReadRawFile reads a raw graph payload from a JSON file.
func ReadRawFile(path string) (*RawGraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return DecodeRaw(f)
}
