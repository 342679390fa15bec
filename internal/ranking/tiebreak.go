// Eventrank - Personalized Event Recommendation Ranking for LankaConnect
// Copyright 2026 LankaConnect
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lankaconnect/eventrank

package ranking

import (
	"math"
	"sort"
)

// sortEntries orders entries by composite score descending. Entries whose
// composites differ by no more than epsilon are tied and resolved by the
// cascade; a fully tied pair keeps its input order via the stable sort.
// distances maps event ID to kilometers from home; events missing from the
// map do not discriminate on the distance step.
func sortEntries(entries []RankedEvent, epsilon float64, cascade []TieBreaker, distances map[string]float64) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := &entries[i], &entries[j]
		if math.Abs(a.Composite-b.Composite) > epsilon {
			return a.Composite > b.Composite
		}
		for _, tb := range cascade {
			if cmp := compareTie(tb, a, b, distances); cmp != 0 {
				return cmp > 0
			}
		}
		return false
	})
}

// compareTie applies one cascade step. Positive means a ranks before b,
// negative the opposite, zero passes to the next step.
func compareTie(tb TieBreaker, a, b *RankedEvent, distances map[string]float64) int {
	switch tb {
	case TieBreakPriority:
		if a.Event.Sponsored != b.Event.Sponsored {
			if a.Event.Sponsored {
				return 1
			}
			return -1
		}
	case TieBreakDate:
		if !a.Event.StartTime.Equal(b.Event.StartTime) {
			if a.Event.StartTime.Before(b.Event.StartTime) {
				return 1
			}
			return -1
		}
	case TieBreakDistance:
		da, oka := distances[a.Event.ID]
		db, okb := distances[b.Event.ID]
		if oka && okb && da != db {
			if da < db {
				return 1
			}
			return -1
		}
	case TieBreakPopularity:
		if a.Event.Popularity != b.Event.Popularity {
			if a.Event.Popularity > b.Event.Popularity {
				return 1
			}
			return -1
		}
	}
	return 0
}
