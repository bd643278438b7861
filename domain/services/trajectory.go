package services

import (
	"fmt"
	"math"
	"time"

	"github.com/Asadaligondal/Identity-Compass/domain/core/entities"
	"github.com/Asadaligondal/Identity-Compass/domain/core/valueobjects"
)

// DefaultTrajectoryWindowDays is the trailing window the dashboard
// scores over when the caller does not pick one.
const DefaultTrajectoryWindowDays = 30

// DimensionScore is the derived trajectory snapshot. It is computed
// fresh from the event set on every call and never stored.
type DimensionScore struct {
	WeightedScores map[valueobjects.Dimension]int `json:"weightedScores"`
	Percentages    map[valueobjects.Dimension]int `json:"percentages"`
	Dominant       valueobjects.Dimension         `json:"dominantDimension"`
	Insight        string                         `json:"insight"`
	HasData        bool                           `json:"hasData"`
	Message        string                         `json:"message,omitempty"`
}

// ScoreTrajectory scores the trailing window ending at now. Events
// outside the window or without a timestamp are ignored; events that
// resolve to Unassigned are excluded from scoring but still count as
// data. A window with zero events yields a distinct no-data result,
// not an all-zero snapshot.
func ScoreTrajectory(evs []*entities.Event, resolver *DimensionResolver, now time.Time, windowDays int) DimensionScore {
	if resolver == nil {
		resolver = NewDimensionResolver(nil)
	}
	if windowDays <= 0 {
		windowDays = DefaultTrajectoryWindowDays
	}
	cutoff := now.AddDate(0, 0, -windowDays)

	scores := make(map[valueobjects.Dimension]int)
	total := 0
	windowed := 0
	for _, ev := range evs {
		if !ev.HasTimestamp() {
			continue
		}
		at := ev.OccurredAt()
		if at.Before(cutoff) || at.After(now) {
			continue
		}
		windowed++
		dim, _ := resolver.ResolveEvent(ev)
		if dim == valueobjects.DimensionUnassigned {
			continue
		}
		scores[dim] += ev.Weight()
		total += ev.Weight()
	}

	if windowed == 0 {
		return DimensionScore{
			WeightedScores: map[valueobjects.Dimension]int{},
			Percentages:    map[valueobjects.Dimension]int{},
			Dominant:       valueobjects.DimensionUnassigned,
			HasData:        false,
			Message:        fmt.Sprintf("No activity in the last %d days yet. Log an entry to start your compass.", windowDays),
		}
	}

	percentages := make(map[valueobjects.Dimension]int, len(scores))
	if total > 0 {
		for d, s := range scores {
			percentages[d] = int(math.Round(100 * float64(s) / float64(total)))
		}
	}

	// Dominant by rounded percentage, ties broken by enumeration
	// order. With nothing scored the snapshot stays Unassigned.
	dominant := valueobjects.DimensionUnassigned
	best := -1
	for _, d := range valueobjects.ScorableDimensions() {
		if p, ok := percentages[d]; ok && p > best {
			dominant = d
			best = p
		}
	}

	return DimensionScore{
		WeightedScores: scores,
		Percentages:    percentages,
		Dominant:       dominant,
		Insight:        insightFor(dominant, best),
		HasData:        true,
	}
}

// insightFor bands the dominant share into three tiers.
func insightFor(dominant valueobjects.Dimension, pct int) string {
	switch {
	case dominant == valueobjects.DimensionUnassigned || pct < 0:
		return "Nothing mapped to a dimension yet. Assign your tags to see where your energy goes."
	case pct > 50:
		return fmt.Sprintf("You are heavily focused on %s right now. Consider balancing with other areas.", dominant)
	case pct > 30:
		return fmt.Sprintf("%s is your primary focus. You are building momentum there.", titleLabel(string(dominant)))
	default:
		return "Your energy is well-distributed across dimensions. Nicely balanced."
	}
}
