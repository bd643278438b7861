package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDimensionFromLabel(t *testing.T) {
	tests := []struct {
		label string
		want  Dimension
		ok    bool
	}{
		{"Health", DimensionHealth, true},
		{"  CAREER  ", DimensionCareer, true},
		{"entertainment", DimensionEntertainment, true},
		{"unassigned", DimensionUnassigned, true},
		{"gardening", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := DimensionFromLabel(tt.label)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeywordDimension(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Dimension
		ok   bool
	}{
		{"single keyword", "gym", DimensionHealth, true},
		{"first dimension in order wins on multi-match", "went to the GYM after work today", DimensionCareer, true},
		{"social keyword", "coffee with friends", DimensionSocial, true},
		{"no match", "qwertyuiop", "", false},
		{"empty", "   ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := KeywordDimension(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestArchetypes(t *testing.T) {
	assert.Equal(t, "Builder", DimensionCareer.Archetype())
	assert.Equal(t, "Seeker", DimensionSpiritual.Archetype())
	assert.Equal(t, "Warrior", DimensionHealth.Archetype())
	assert.Equal(t, "Connector", DimensionSocial.Archetype())
	assert.Equal(t, "Scholar", DimensionIntellectual.Archetype())
	assert.Equal(t, "Dreamer", DimensionEntertainment.Archetype())
	assert.Equal(t, DefaultArchetype, DimensionUnassigned.Archetype())
}

func TestScorableDimensionsExcludeUnassigned(t *testing.T) {
	for _, d := range ScorableDimensions() {
		assert.True(t, d.Valid())
		assert.NotEqual(t, DimensionUnassigned, d)
		assert.NotEmpty(t, d.Color())
	}
}
