package services

import (
	"github.com/Asadaligondal/Identity-Compass/domain/core/entities"
	"github.com/Asadaligondal/Identity-Compass/domain/core/valueobjects"
)

// ResolutionTier names which lookup tier produced a dimension, so
// callers and tests can tell an explicit mapping from a fallback.
type ResolutionTier string

const (
	// TierOverride means an explicit per-user TagMapping matched.
	TierOverride ResolutionTier = "override"
	// TierKeyword means the keyword-seed fallback matched.
	TierKeyword ResolutionTier = "keyword"
	// TierCategory means the event's own classifier category was used.
	TierCategory ResolutionTier = "category"
	// TierDefault means nothing matched; the result is Unassigned.
	TierDefault ResolutionTier = "default"
)

// DimensionResolver resolves tags and events to dimensions through an
// explicit ordered chain: user override, keyword seeds, then the
// event's own classifier category. It is built once per request from
// a mapping snapshot and is read-only afterwards.
type DimensionResolver struct {
	overrides map[valueobjects.Tag]valueobjects.Dimension
}

// NewDimensionResolver builds a resolver from a mapping snapshot.
// Mappings that point at Unassigned are not overrides and are skipped.
func NewDimensionResolver(mappings []*entities.TagMapping) *DimensionResolver {
	r := &DimensionResolver{
		overrides: make(map[valueobjects.Tag]valueobjects.Dimension, len(mappings)),
	}
	for _, m := range mappings {
		if m != nil && m.IsAssigned() {
			r.overrides[m.Tag()] = m.Dimension()
		}
	}
	return r
}

// ResolveTag resolves one tag: override first, keyword seeds second,
// Unassigned otherwise.
func (r *DimensionResolver) ResolveTag(tag valueobjects.Tag) (valueobjects.Dimension, ResolutionTier) {
	if d, ok := r.overrides[tag]; ok {
		return d, TierOverride
	}
	if d, ok := valueobjects.KeywordDimension(string(tag)); ok {
		return d, TierKeyword
	}
	return valueobjects.DimensionUnassigned, TierDefault
}

// ResolveEvent resolves a whole event to one dimension. Journal
// entries try each tag through the override tier, then each tag and
// the entry text through the keyword tier. Imported items resolve
// their title the same way and then fall back to the classifier
// category stored on the item. Unresolvable events land on Unassigned
// and are excluded from scoring by the callers.
func (r *DimensionResolver) ResolveEvent(ev *entities.Event) (valueobjects.Dimension, ResolutionTier) {
	if ev == nil {
		return valueobjects.DimensionUnassigned, TierDefault
	}

	if ev.Kind() == entities.EventKindImported {
		if d, ok := r.overrides[ev.TitleTag()]; ok {
			return d, TierOverride
		}
		if d, ok := valueobjects.KeywordDimension(ev.Title()); ok {
			return d, TierKeyword
		}
		if c := ev.Category(); c.Valid() && c != valueobjects.DimensionUnassigned {
			return c, TierCategory
		}
		return valueobjects.DimensionUnassigned, TierDefault
	}

	tags := ev.Tags()
	for _, t := range tags {
		if d, ok := r.overrides[t]; ok {
			return d, TierOverride
		}
	}
	for _, t := range tags {
		if d, ok := valueobjects.KeywordDimension(string(t)); ok {
			return d, TierKeyword
		}
	}
	if d, ok := valueobjects.KeywordDimension(ev.Text()); ok {
		return d, TierKeyword
	}
	return valueobjects.DimensionUnassigned, TierDefault
}
