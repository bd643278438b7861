package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/Asadaligondal/Identity-Compass/domain/core/entities"
	"github.com/Asadaligondal/Identity-Compass/domain/core/valueobjects"
)

// TrendBucket is one calendar month of per-dimension activity counts.
type TrendBucket struct {
	Year   int                            `json:"year"`
	Month  time.Month                     `json:"month"`
	Label  string                         `json:"label"`
	Counts map[valueobjects.Dimension]int `json:"counts"`
}

// DimensionTotal is one slice of the composition summary.
type DimensionTotal struct {
	Dimension valueobjects.Dimension `json:"dimension"`
	Count     int                    `json:"count"`
}

// MonthlyTrends buckets events by calendar month of their activity
// time and counts one per dimension per event. Events without a
// timestamp and events resolving to Unassigned are excluded. Buckets
// come back sorted chronologically ascending.
func MonthlyTrends(evs []*entities.Event, resolver *DimensionResolver) []TrendBucket {
	if resolver == nil {
		resolver = NewDimensionResolver(nil)
	}
	buckets := make(map[string]*TrendBucket)
	for _, ev := range evs {
		if !ev.HasTimestamp() {
			continue
		}
		dim, _ := resolver.ResolveEvent(ev)
		if dim == valueobjects.DimensionUnassigned {
			continue
		}
		at := ev.OccurredAt().UTC()
		label := fmt.Sprintf("%04d-%02d", at.Year(), int(at.Month()))
		b := buckets[label]
		if b == nil {
			b = &TrendBucket{
				Year:   at.Year(),
				Month:  at.Month(),
				Label:  label,
				Counts: make(map[valueobjects.Dimension]int),
			}
			buckets[label] = b
		}
		b.Counts[dim]++
	}

	out := make([]TrendBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// DimensionTotals sums per-dimension counts over the whole event set
// for the composition view. Dimensions with a zero total are omitted.
// Output order follows the fixed dimension enumeration.
func DimensionTotals(evs []*entities.Event, resolver *DimensionResolver) []DimensionTotal {
	if resolver == nil {
		resolver = NewDimensionResolver(nil)
	}
	counts := make(map[valueobjects.Dimension]int)
	for _, ev := range evs {
		dim, _ := resolver.ResolveEvent(ev)
		if dim == valueobjects.DimensionUnassigned {
			continue
		}
		counts[dim]++
	}
	var out []DimensionTotal
	for _, d := range valueobjects.ScorableDimensions() {
		if counts[d] > 0 {
			out = append(out, DimensionTotal{Dimension: d, Count: counts[d]})
		}
	}
	return out
}

// ArchetypeFor names the persona for the highest total, breaking ties
// by enumeration order. Empty totals fall back to the default.
func ArchetypeFor(totals []DimensionTotal) string {
	best := DimensionTotal{Dimension: valueobjects.DimensionUnassigned}
	for _, t := range totals {
		if t.Count > best.Count {
			best = t
		}
	}
	if best.Count == 0 {
		return valueobjects.DefaultArchetype
	}
	return best.Dimension.Archetype()
}
