package valueobjects

import (
	"errors"
	"strings"
)

// Tag is a normalized journal label. A tag has no identity beyond its
// string value: two raw labels that normalize to the same key are the
// same tag forever after.
type Tag string

// NormalizeTag canonicalizes a raw label into a Tag key.
// Empty or whitespace-only input yields the empty tag, which callers
// must reject before it enters aggregation.
func NormalizeTag(raw string) Tag {
	return Tag(strings.ToLower(strings.TrimSpace(raw)))
}

// String returns the tag's key.
func (t Tag) String() string {
	return string(t)
}

// IsEmpty reports whether the tag is the empty key.
func (t Tag) IsEmpty() bool {
	return t == ""
}

// NormalizeTags canonicalizes and deduplicates a raw label list,
// dropping empties. Order of first appearance is preserved.
func NormalizeTags(raw []string) []Tag {
	seen := make(map[Tag]bool, len(raw))
	tags := make([]Tag, 0, len(raw))
	for _, r := range raw {
		t := NormalizeTag(r)
		if t.IsEmpty() || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	return tags
}

// PairKey identifies an unordered pair of distinct tags. The pair is
// stored sorted so that (A,B) and (B,A) are the same key: Source is
// always lexicographically smaller than Target.
type PairKey struct {
	Source Tag
	Target Tag
}

// NewPairKey builds the canonical key for two tags.
func NewPairKey(a, b Tag) (PairKey, error) {
	if a.IsEmpty() || b.IsEmpty() {
		return PairKey{}, errors.New("pair key requires two non-empty tags")
	}
	if a == b {
		return PairKey{}, errors.New("pair key requires two distinct tags")
	}
	if a > b {
		a, b = b, a
	}
	return PairKey{Source: a, Target: b}, nil
}

// String renders the key as "source#target".
func (k PairKey) String() string {
	return string(k.Source) + "#" + string(k.Target)
}

// Touches reports whether the pair contains the given tag.
func (k PairKey) Touches(t Tag) bool {
	return k.Source == t || k.Target == t
}

// Other returns the pair's counterpart of the given tag, or the empty
// tag when t is not part of the pair.
func (k PairKey) Other(t Tag) Tag {
	switch t {
	case k.Source:
		return k.Target
	case k.Target:
		return k.Source
	}
	return ""
}
