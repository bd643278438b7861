package valueobjects

import "strings"

// Dimension is one of the fixed life areas used to classify tags and
// imported items.
type Dimension string

const (
	DimensionCareer        Dimension = "career"
	DimensionSpiritual     Dimension = "spiritual"
	DimensionHealth        Dimension = "health"
	DimensionSocial        Dimension = "social"
	DimensionIntellectual  Dimension = "intellectual"
	DimensionEntertainment Dimension = "entertainment"
	DimensionUnassigned    Dimension = "unassigned"
)

// DefaultArchetype is returned when no dimension dominates.
const DefaultArchetype = "Explorer"

// ScorableDimensions lists every dimension that participates in
// scoring, in the fixed enumeration order used for deterministic
// tie-breaking. Unassigned is excluded.
func ScorableDimensions() []Dimension {
	return []Dimension{
		DimensionCareer,
		DimensionSpiritual,
		DimensionHealth,
		DimensionSocial,
		DimensionIntellectual,
		DimensionEntertainment,
	}
}

// dimensionInfo is the static registry entry per dimension.
type dimensionInfo struct {
	color     string
	archetype string
	keywords  []string
}

var registry = map[Dimension]dimensionInfo{
	DimensionCareer: {
		color:     "#4f8ef7",
		archetype: "Builder",
		keywords: []string{
			"work", "job", "career", "meeting", "project", "interview",
			"promotion", "business", "startup", "office", "deadline",
			"coding", "programming", "client", "resume",
		},
	},
	DimensionSpiritual: {
		color:     "#9b59b6",
		archetype: "Seeker",
		keywords: []string{
			"meditation", "prayer", "church", "mosque", "quran", "bible",
			"faith", "gratitude", "spiritual", "worship", "mindfulness",
			"journaling", "reflection",
		},
	},
	DimensionHealth: {
		color:     "#2ecc71",
		archetype: "Warrior",
		keywords: []string{
			"gym", "workout", "run", "running", "exercise", "fitness",
			"diet", "sleep", "doctor", "health", "walk", "nutrition",
			"swim", "yoga", "cycling",
		},
	},
	DimensionSocial: {
		color:     "#e67e22",
		archetype: "Connector",
		keywords: []string{
			"friends", "friend", "family", "party", "dinner", "hangout",
			"date", "wedding", "social", "coffee", "call", "visit",
			"birthday",
		},
	},
	DimensionIntellectual: {
		color:     "#f1c40f",
		archetype: "Scholar",
		keywords: []string{
			"book", "reading", "study", "learning", "course", "lecture",
			"research", "podcast", "documentary", "math", "science",
			"philosophy", "history", "tutorial",
		},
	},
	DimensionEntertainment: {
		color:     "#e74c3c",
		archetype: "Dreamer",
		keywords: []string{
			"movie", "music", "game", "gaming", "netflix", "youtube",
			"show", "series", "anime", "concert", "tv", "film", "stream",
		},
	},
	DimensionUnassigned: {
		color: "#95a5a6",
	},
}

// Valid reports whether d is a known dimension.
func (d Dimension) Valid() bool {
	_, ok := registry[d]
	return ok
}

// Color returns the display color for the dimension.
func (d Dimension) Color() string {
	return registry[d].color
}

// Archetype returns the persona name derived from the dimension, or
// the default archetype when the dimension has none.
func (d Dimension) Archetype() string {
	if info, ok := registry[d]; ok && info.archetype != "" {
		return info.archetype
	}
	return DefaultArchetype
}

// DimensionFromLabel resolves a free-form label (e.g. from the
// classification oracle) to a dimension. The match is case-insensitive.
func DimensionFromLabel(label string) (Dimension, bool) {
	d := Dimension(strings.ToLower(strings.TrimSpace(label)))
	if d.Valid() {
		return d, true
	}
	return "", false
}

// KeywordDimension is the keyword-seed fallback classifier: it returns
// the first scorable dimension whose seed list contains a word of the
// given text. The text is matched on whole lowercase fields.
func KeywordDimension(text string) (Dimension, bool) {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	if len(fields) == 0 {
		return "", false
	}
	present := make(map[string]bool, len(fields))
	for _, f := range fields {
		present[f] = true
	}
	for _, d := range ScorableDimensions() {
		for _, kw := range registry[d].keywords {
			if present[kw] {
				return d, true
			}
		}
	}
	return "", false
}
