package corpus

// Per-category record limits for filtered views. Callers may request any
// limit; it is clamped into [MinFilterLimit, MaxFilterLimit].
const (
	MinFilterLimit     = 10
	MaxFilterLimit     = 1000
	DefaultFilterLimit = 200
)

// FilterOptions narrows a raw graph before building.
type FilterOptions struct {
	// Categories whitelists node categories by name. Empty means all.
	Categories []string

	// Language keeps only nodes whose "language" property matches, plus all
	// nodes of categories that carry no language (sections, glosses).
	Language string

	// Limit caps the number of nodes kept per category.
	// Zero means DefaultFilterLimit; out-of-range values are clamped.
	Limit int
}

// ClampLimit returns the effective per-category limit.
func (o FilterOptions) ClampLimit() int {
	limit := o.Limit
	if limit == 0 {
		limit = DefaultFilterLimit
	}
	if limit < MinFilterLimit {
		limit = MinFilterLimit
	}
	if limit > MaxFilterLimit {
		limit = MaxFilterLimit
	}
	return limit
}

// Filter returns a new raw graph containing only the records admitted by
// opts. The relative order of surviving records is preserved, so
// first-appearance semantics downstream (dedup, section labeling) are
// unaffected. Edges are kept as-is; the builder drops any that dangle
// after node filtering.
func Filter(raw *RawGraph, opts FilterOptions) *RawGraph {
	allowed := make(map[Category]bool, len(opts.Categories))
	for _, name := range opts.Categories {
		allowed[ParseCategory(name)] = true
	}

	limit := opts.ClampLimit()
	perCategory := make(map[Category]int)

	out := &RawGraph{Edges: raw.Edges}
	for _, n := range raw.Nodes {
		cat := ParseCategory(n.Type)
		if len(allowed) > 0 && !allowed[cat] {
			continue
		}
		if opts.Language != "" {
			if lang := stringProp(n.Properties, "language"); lang != "" && lang != opts.Language {
				continue
			}
		}
		if perCategory[cat] >= limit {
			continue
		}
		perCategory[cat]++
		out.Nodes = append(out.Nodes, n)
	}
	return out
}

// Languages returns the distinct non-empty "language" property values in
// raw record order, for filter surfaces.
func Languages(raw *RawGraph) []string {
	seen := make(map[string]bool)
	var langs []string
	for _, n := range raw.Nodes {
		if lang := stringProp(n.Properties, "language"); lang != "" && !seen[lang] {
			seen[lang] = true
			langs = append(langs, lang)
		}
	}
	return langs
}
