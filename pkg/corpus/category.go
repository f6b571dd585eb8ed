package corpus

// Category is the semantic kind of a corpus node.
type Category string

// Node categories, from coarsest to finest linguistic unit.
const (
	CategoryText     Category = "Text"
	CategorySection  Category = "Section"
	CategoryPhrase   Category = "Phrase"
	CategoryWord     Category = "Word"
	CategoryMorpheme Category = "Morpheme"
	CategoryGloss    Category = "Gloss"

	// CategoryOther groups nodes whose raw type is unrecognized.
	CategoryOther Category = "Other"

	// CategoryEmpty marks the placeholder node materialized when a build
	// produces no nodes at all.
	CategoryEmpty Category = "Empty"
)

// LevelOrder is the fixed category ordering used by the deterministic
// layouts: level 0 is the Text band (or the center ring), deeper levels
// move outward/downward. Categories absent from a graph contribute no
// level; Other and Empty nodes take the trailing level.
var LevelOrder = []Category{
	CategoryText,
	CategorySection,
	CategoryPhrase,
	CategoryWord,
	CategoryMorpheme,
	CategoryGloss,
}

// ParseCategory maps a raw record type to a Category.
// Unrecognized or empty types map to CategoryOther.
func ParseCategory(s string) Category {
	switch Category(s) {
	case CategoryText, CategorySection, CategoryPhrase,
		CategoryWord, CategoryMorpheme, CategoryGloss:
		return Category(s)
	default:
		return CategoryOther
	}
}

// SizeFloor returns the minimum visual size for the category.
// A zero floor means only the global default size applies.
func (c Category) SizeFloor() float64 {
	switch c {
	case CategoryText:
		return 25
	case CategorySection:
		return 18
	case CategoryPhrase:
		return 12
	case CategoryWord:
		return 8
	case CategoryGloss:
		return 6
	case CategoryMorpheme:
		return 5
	default:
		return 0
	}
}

// categoryColors is the conventional palette applied by record producers.
// The builder itself only falls back to the neutral default; these colors
// arrive as explicit values on raw records (see ApplyPalette).
var categoryColors = map[Category]string{
	CategoryText:     "#f59e0b", // amber
	CategorySection:  "#8b5cf6", // purple
	CategoryPhrase:   "#06b6d4", // cyan
	CategoryWord:     "#0ea5e9", // blue
	CategoryMorpheme: "#10b981", // green
	CategoryGloss:    "#ec4899", // pink
}

// CategoryColor returns the palette color for a category and whether the
// palette defines one.
func CategoryColor(c Category) (string, bool) {
	color, ok := categoryColors[c]
	return color, ok
}

// Categories returns the known category names in level order, for filter
// surfaces and diagnostics. Other and Empty are excluded.
func Categories() []string {
	names := make([]string, len(LevelOrder))
	for i, c := range LevelOrder {
		names[i] = string(c)
	}
	return names
}
