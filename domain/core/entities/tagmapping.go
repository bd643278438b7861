package entities

import (
	"time"

	"github.com/Asadaligondal/Identity-Compass/domain/core/valueobjects"
	pkgerrors "github.com/Asadaligondal/Identity-Compass/pkg/errors"
)

// TagType describes what kind of thing a tag refers to.
type TagType string

const (
	TagTypeConcept TagType = "concept"
	TagTypeBook    TagType = "book"
	TagTypePerson  TagType = "person"
	TagTypeProject TagType = "project"
)

// TagMapping is the per-user record that pins a tag to a life
// dimension. Mappings are created lazily on first reference, updated
// by explicit user action or by the classification oracle, and never
// deleted automatically.
type TagMapping struct {
	tag       valueobjects.Tag
	dimension valueobjects.Dimension
	tagType   TagType
	category  valueobjects.Dimension
	updatedAt time.Time
}

// NewTagMapping creates a mapping for a tag. An invalid dimension
// falls back to Unassigned rather than failing: an unresolvable tag
// is a representable state, not an error.
func NewTagMapping(tag valueobjects.Tag, dimension valueobjects.Dimension, tagType TagType) (*TagMapping, error) {
	if tag.IsEmpty() {
		return nil, pkgerrors.NewValidationError("tag mapping requires a non-empty tag")
	}
	if !dimension.Valid() {
		dimension = valueobjects.DimensionUnassigned
	}
	if tagType == "" {
		tagType = TagTypeConcept
	}
	return &TagMapping{
		tag:       tag,
		dimension: dimension,
		tagType:   tagType,
		category:  dimension,
		updatedAt: time.Now(),
	}, nil
}

// ReconstructTagMapping rebuilds a mapping from repository data.
func ReconstructTagMapping(
	tag valueobjects.Tag,
	dimension valueobjects.Dimension,
	tagType TagType,
	category valueobjects.Dimension,
	updatedAt time.Time,
) (*TagMapping, error) {
	if tag.IsEmpty() {
		return nil, pkgerrors.NewValidationError("tag mapping requires a non-empty tag")
	}
	return &TagMapping{
		tag:       tag,
		dimension: dimension,
		tagType:   tagType,
		category:  category,
		updatedAt: updatedAt,
	}, nil
}

// Reassign points the mapping at a new dimension.
func (m *TagMapping) Reassign(dimension valueobjects.Dimension, tagType TagType) error {
	if !dimension.Valid() {
		return pkgerrors.NewValidationError("unknown dimension")
	}
	m.dimension = dimension
	m.category = dimension
	if tagType != "" {
		m.tagType = tagType
	}
	m.updatedAt = time.Now()
	return nil
}

// Tag returns the mapped tag key.
func (m *TagMapping) Tag() valueobjects.Tag { return m.tag }

// Dimension returns the mapped dimension.
func (m *TagMapping) Dimension() valueobjects.Dimension { return m.dimension }

// Type returns the tag's kind.
func (m *TagMapping) Type() TagType { return m.tagType }

// Category returns the display category, Unassigned when the tag has
// not been placed yet.
func (m *TagMapping) Category() valueobjects.Dimension { return m.category }

// UpdatedAt returns when the mapping last changed.
func (m *TagMapping) UpdatedAt() time.Time { return m.updatedAt }

// IsAssigned reports whether the mapping pins the tag to a scorable
// dimension.
func (m *TagMapping) IsAssigned() bool {
	return m.dimension.Valid() && m.dimension != valueobjects.DimensionUnassigned
}
