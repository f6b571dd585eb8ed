// Package export serializes positioned corpus graphs for downstream
// consumers. JSON is the primary interchange format (the shape the
// rendering frontend consumes); DOT and SVG exist for quick inspection
// and external Graphviz tooling.
package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fieldlab/corpusgraph/pkg/corpus"
	cgerrors "github.com/fieldlab/corpusgraph/pkg/errors"
	"github.com/fieldlab/corpusgraph/pkg/observability"
)

// Supported output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// DefaultFormat applies when a caller supplies no format.
const DefaultFormat = FormatJSON

// ParseFormat validates a format string. Empty input yields DefaultFormat.
func ParseFormat(s string) (string, error) {
	switch s {
	case FormatJSON, FormatDOT, FormatSVG:
		return s, nil
	case "":
		return DefaultFormat, nil
	default:
		return "", cgerrors.New(cgerrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, dot, svg)", s)
	}
}

// Export serializes a positioned graph in the given format.
func Export(ctx context.Context, g *corpus.Graph, format string) ([]byte, error) {
	format, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Pipeline().OnExportStart(ctx, format)

	var data []byte
	switch format {
	case FormatJSON:
		data, err = corpus.MarshalGraph(g)
	case FormatDOT:
		data = []byte(ToDOT(g))
	case FormatSVG:
		data, err = RenderSVG(ctx, ToDOT(g))
	}

	observability.Pipeline().OnExportComplete(ctx, format, len(data), time.Since(start), err)
	return data, err
}

// ToDOT converts a positioned graph to Graphviz DOT. Node positions are
// pinned with pos="x,y!" so the neato engine reproduces the computed
// layout instead of running its own.
func ToDOT(g *corpus.Graph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph corpus {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, fontsize=10];\n")
	buf.WriteString("  edge [arrowsize=0.5];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := []string{
			fmt.Sprintf("label=%q", n.DisplayLabel()),
			// Graphviz positions are in points; the layout plane maps 1:1.
			fmt.Sprintf("pos=\"%.2f,%.2f!\"", n.X, n.Y),
			// Node sizes are diameters in layout units; width is in inches.
			fmt.Sprintf("width=%.2f", n.Size/36),
			fmt.Sprintf("fillcolor=%q", n.Color),
			fmt.Sprintf("tooltip=%q", string(n.Category)),
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		attrs := []string{
			fmt.Sprintf("color=%q", e.Color),
			fmt.Sprintf("penwidth=%.2f", e.Size),
		}
		if e.RelType != "" {
			attrs = append(attrs, fmt.Sprintf("label=%q", e.RelType))
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}
