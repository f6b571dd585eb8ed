// Package build converts raw relationship records into a validated corpus
// graph. It enforces the model invariants — unique node IDs, unique
// directed edge pairs, resolvable endpoints — with first-wins semantics,
// assigns sequential display labels to sections, and resolves the visual
// size and color of every node and edge.
//
// Malformed or duplicate records never abort a build: they are skipped,
// counted in the graph's Stats, and logged at warn level. The only error a
// build returns is a contract violation such as a nil payload.
package build

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/fieldlab/corpusgraph/pkg/corpus"
	cgerrors "github.com/fieldlab/corpusgraph/pkg/errors"
)

// Placeholder node constants, materialized when a build yields no nodes.
const (
	PlaceholderID    = "empty"
	PlaceholderLabel = "No data"
)

// Builder constructs corpus graphs from raw payloads. A single Builder may
// be shared across builds; all working state (dedup sets, counters, the
// section label sequence) is local to one Build call.
type Builder struct {
	logger *log.Logger
}

// New creates a builder. A nil logger discards diagnostics.
func New(logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Builder{logger: logger}
}

// Build validates raw into a fresh graph. The input is never mutated and
// nothing is shared with previous builds.
//
// Returns an INVALID_INPUT error only for a nil payload; every
// record-level problem is skipped and counted instead.
func (b *Builder) Build(raw *corpus.RawGraph) (*corpus.Graph, error) {
	if raw == nil {
		return nil, cgerrors.New(cgerrors.ErrCodeInvalidInput, "raw graph payload must not be nil")
	}

	g := corpus.NewGraph()
	b.addNodes(g, raw.Nodes)

	accepted := b.validateEdges(g, raw.Edges)
	dense := IsDense(g.NodeCount(), len(accepted))
	for _, e := range accepted {
		e.Size = ResolveEdgeSize(e.Size, dense)
		e.Color = ResolveEdgeColor(e.Color)
		// Endpoints and pair uniqueness were checked during validation, so
		// this cannot fail.
		if err := g.AddEdge(e); err != nil {
			b.logger.Error("edge re-check failed", "edge", e.ID, "err", err)
		}
	}

	g.Stats.NodeCount = g.NodeCount()
	g.Stats.EdgeCount = g.EdgeCount()
	return g, nil
}

// addNodes validates and styles node records in order. The first occurrence
// of an ID wins; later duplicates are dropped without touching the
// retained attributes. Section nodes receive sequential ordinal labels in
// first-appearance order.
func (b *Builder) addNodes(g *corpus.Graph, records []corpus.RawNode) {
	sectionSeq := 0

	for _, rec := range records {
		id := strings.TrimSpace(rec.ID)
		cat := corpus.ParseCategory(rec.Type)

		node := corpus.Node{
			ID:         id,
			Category:   cat,
			Label:      rec.Label,
			Size:       ResolveNodeSize(cat, rec.Size),
			Color:      ResolveNodeColor(rec.Color),
			Properties: copyProperties(rec.Properties),
		}
		if node.Label == "" {
			node.Label = id
		}
		if cat == corpus.CategorySection {
			// Ordinal labels depend on acceptance, so assign after AddNode.
			node.Label = ""
		}

		switch err := g.AddNode(node); {
		case err == nil:
			if cat == corpus.CategorySection {
				sectionSeq++
				n, _ := g.Node(id)
				n.Label = strconv.Itoa(sectionSeq)
			}
		case errors.Is(err, corpus.ErrInvalidNodeID):
			g.Stats.NodesRejected++
			b.logger.Warn("dropping node with empty id")
		case errors.Is(err, corpus.ErrDuplicateNodeID):
			g.Stats.DuplicateNodes++
			b.logger.Warn("dropping duplicate node", "id", id)
		}
	}
}

// validateEdges checks edge records in original order and returns the
// accepted edges unstyled. Sizes and colors are resolved afterwards, once
// the dense classification is known.
func (b *Builder) validateEdges(g *corpus.Graph, records []corpus.RawEdge) []corpus.Edge {
	type pair struct{ source, target string }
	seen := make(map[pair]struct{}, len(records))

	var accepted []corpus.Edge
	for idx, rec := range records {
		source := strings.TrimSpace(rec.Source)
		target := strings.TrimSpace(rec.Target)
		if source == "" || target == "" {
			g.Stats.EdgesRejected++
			b.logger.Warn("dropping edge with missing endpoint", "index", idx)
			continue
		}

		key := pair{source, target}
		if _, dup := seen[key]; dup {
			g.Stats.DuplicateEdges++
			b.logger.Warn("dropping duplicate edge", "source", source, "target", target)
			continue
		}

		if _, ok := g.Node(source); !ok {
			g.Stats.DanglingEdges++
			b.logger.Warn("dropping dangling edge", "source", source, "target", target)
			continue
		}
		if _, ok := g.Node(target); !ok {
			g.Stats.DanglingEdges++
			b.logger.Warn("dropping dangling edge", "source", source, "target", target)
			continue
		}

		seen[key] = struct{}{}

		id := strings.TrimSpace(rec.ID)
		if id == "" {
			// Endpoints plus the record index keep synthesized IDs from
			// colliding with explicit ones.
			id = source + "-" + target + "-" + strconv.Itoa(idx)
		}
		accepted = append(accepted, corpus.Edge{
			ID:          id,
			Source:      source,
			Target:      target,
			RelType:     rec.Type,
			Size:        rec.Size,
			Color:       rec.Color,
			DisplayType: corpus.EdgeDisplayType,
		})
	}
	return accepted
}

// PlaceholderGraph returns the single-node fallback graph used when a build
// produces no nodes. The placeholder sits at the origin and is the sole
// caller-visible representation of "no data".
func PlaceholderGraph() *corpus.Graph {
	g := corpus.NewGraph()
	_ = g.AddNode(corpus.Node{
		ID:       PlaceholderID,
		Category: corpus.CategoryEmpty,
		Label:    PlaceholderLabel,
		Size:     DefaultNodeSize,
		Color:    DefaultNodeColor,
	})
	g.Stats.NodeCount = 1
	g.Stats.Placeholder = true
	return g
}

func copyProperties(props map[string]any) map[string]any {
	if props == nil {
		return nil
	}
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = v
	}
	return out
}
