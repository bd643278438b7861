package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Asadaligondal/Identity-Compass/domain/core/entities"
	"github.com/Asadaligondal/Identity-Compass/domain/core/valueobjects"
)

func journalEvent(t *testing.T, id string, tags []string, at time.Time) *entities.Event {
	t.Helper()
	ev, err := entities.ReconstructEvent(
		id, "user-1", entities.EventKindJournal,
		"", valueobjects.NormalizeTags(tags), "",
		valueobjects.DimensionUnassigned, at, at, at,
	)
	require.NoError(t, err)
	return ev
}

func importedEvent(t *testing.T, id, title string, category valueobjects.Dimension, at time.Time) *entities.Event {
	t.Helper()
	ev, err := entities.ReconstructEvent(
		id, "user-1", entities.EventKindImported,
		"", nil, title, category, at, at, at,
	)
	require.NoError(t, err)
	return ev
}

func mapping(t *testing.T, tag string, dim valueobjects.Dimension) *entities.TagMapping {
	t.Helper()
	m, err := entities.NewTagMapping(valueobjects.NormalizeTag(tag), dim, entities.TagTypeConcept)
	require.NoError(t, err)
	return m
}
