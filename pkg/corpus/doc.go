// Package corpus defines the graph model for linguistic corpus visualization.
//
// A corpus graph connects texts, sections, phrases, words, morphemes, and
// glosses through directed relationship edges. The package provides two
// representations:
//
//   - RawGraph: the wire format received from the transport collaborator.
//     Records may be malformed, duplicated, or dangling; nothing is trusted.
//   - Graph: the validated, deduplicated model with resolved styles and
//     mutable positions, ready for layout and rendering.
//
// Conversion from RawGraph to Graph is performed by the build package, which
// enforces the model invariants (unique node IDs, unique directed edge
// pairs, resolvable endpoints) and accumulates diagnostics for anything it
// had to drop.
//
// # Categories
//
// Every node belongs to a Category that drives its size floor and its level
// in the deterministic initial layouts. The hierarchy order is Text,
// Section, Phrase, Word, Morpheme, Gloss; nodes with unrecognized types are
// grouped under CategoryOther.
package corpus
