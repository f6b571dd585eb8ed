package corpus

import (
	"encoding/json"
	"fmt"
	"io"
)

// RawNode is an untrusted node record from the transport collaborator.
// Only ID is required; everything else falls back to builder defaults.
type RawNode struct {
	ID         string         `json:"id" bson:"id"`
	Type       string         `json:"type,omitempty" bson:"type,omitempty"`
	Label      string         `json:"label,omitempty" bson:"label,omitempty"`
	Size       float64        `json:"size,omitempty" bson:"size,omitempty"`
	Color      string         `json:"color,omitempty" bson:"color,omitempty"`
	Properties map[string]any `json:"properties,omitempty" bson:"properties,omitempty"`
}

// RawEdge is an untrusted edge record. Source and Target are required;
// a missing ID is synthesized from source, target, and ordinal index.
type RawEdge struct {
	ID     string  `json:"id,omitempty" bson:"id,omitempty"`
	Source string  `json:"source" bson:"source"`
	Target string  `json:"target" bson:"target"`
	Type   string  `json:"type,omitempty" bson:"type,omitempty"`
	Size   float64 `json:"size,omitempty" bson:"size,omitempty"`
	Color  string  `json:"color,omitempty" bson:"color,omitempty"`
}

// RawGraph is the wire payload handed to a build.
type RawGraph struct {
	Nodes []RawNode `json:"nodes" bson:"nodes"`
	Edges []RawEdge `json:"edges" bson:"edges"`
}

// DecodeRaw reads a raw graph payload from r.
// A payload that is not a JSON object is a contract violation and returns
// an error; empty node and edge lists are valid input.
func DecodeRaw(r io.Reader) (*RawGraph, error) {
	var raw RawGraph
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode raw graph: %w", err)
	}
	return &raw, nil
}

// Label truncation limits for producer-side label resolution.
// Long glosses and phrase texts are cut to keep rendered labels legible.
const (
	maxGlossLabelRunes  = 20
	maxPhraseLabelRunes = 30
)

// ResolveLabels fills in empty raw labels from well-known properties, the
// way corpus producers conventionally do: a text is labeled by its title, a
// word or morpheme by its surface form (falling back to citation form), a
// gloss by its annotation, a phrase by its surface text. Records with an
// explicit label are left alone.
func ResolveLabels(raw *RawGraph) {
	for i := range raw.Nodes {
		n := &raw.Nodes[i]
		if n.Label != "" {
			continue
		}
		switch ParseCategory(n.Type) {
		case CategoryText:
			n.Label = stringProp(n.Properties, "title")
		case CategoryWord:
			n.Label = stringProp(n.Properties, "surface_form")
		case CategoryMorpheme:
			n.Label = stringProp(n.Properties, "surface_form")
			if n.Label == "" {
				n.Label = stringProp(n.Properties, "citation_form")
			}
		case CategoryGloss:
			n.Label = truncateRunes(stringProp(n.Properties, "annotation"), maxGlossLabelRunes)
		case CategoryPhrase:
			n.Label = truncateRunes(stringProp(n.Properties, "surface_text"), maxPhraseLabelRunes)
		}
	}
}

// ApplyPalette assigns the conventional category color to every raw node
// and edge that carries no explicit color. Nodes of unknown category keep
// an empty color so the builder's neutral default applies.
func ApplyPalette(raw *RawGraph) {
	for i := range raw.Nodes {
		n := &raw.Nodes[i]
		if n.Color != "" {
			continue
		}
		if color, ok := CategoryColor(ParseCategory(n.Type)); ok {
			n.Color = color
		}
	}
}

func stringProp(props map[string]any, key string) string {
	if props == nil {
		return ""
	}
	s, _ := props[key].(string)
	return s
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
