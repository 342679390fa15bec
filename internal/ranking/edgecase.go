// Eventrank - Personalized Event Recommendation Ranking for LankaConnect
// Copyright 2026 LankaConnect
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lankaconnect/eventrank

package ranking

import (
	"context"
	"fmt"
	"strings"
)

// edgeFlags records per-event anomalies detected before scoring. Scorers
// stay total on their own; the flags exist so results can surface that an
// event was ranked under fallback assumptions, and so downstream stages can
// treat malformed time windows consistently.
type edgeFlags struct {
	// missingLocation: no coordinates, no venues, no region. Geographic
	// scoring is impossible and falls back to neutral.
	missingLocation bool

	// missingCategory: no declared category or nature. Cultural scoring
	// relies on calendar classification or falls back to neutral.
	missingCategory bool

	// malformedWindow: end precedes start. The event is treated as
	// open-ended for conflict resolution.
	malformedWindow bool

	// zeroDuration: start equals end. The event cannot overlap anything
	// and is exempt from conflict grouping.
	zeroDuration bool

	// borderLocation: the venue sits in an ambiguous border region; the
	// geography collaborator resolves it with reduced confidence.
	borderLocation bool

	notes []string
}

// any reports whether any fallback-relevant flag is set.
func (f *edgeFlags) any() bool {
	return f.missingLocation || f.missingCategory || f.malformedWindow || f.zeroDuration || f.borderLocation
}

// summary joins the flag notes for rationale text.
func (f *edgeFlags) summary() string {
	return strings.Join(f.notes, "; ")
}

// inspectCandidates runs the edge-case pre-pass over the candidate set.
// Border-location lookups go through the geography collaborator; lookup
// failures leave the flag unset rather than failing the request.
func inspectCandidates(ctx context.Context, geo Geography, candidates []CandidateEvent) []edgeFlags {
	flags := make([]edgeFlags, len(candidates))
	for i := range candidates {
		ev := &candidates[i]
		f := &flags[i]

		if ev.Coordinates == nil && len(ev.Venues) == 0 && ev.Region == "" {
			f.missingLocation = true
			f.notes = append(f.notes, "no location data")
		}
		if ev.Category == "" && ev.Nature == NatureUnknown {
			f.missingCategory = true
			f.notes = append(f.notes, "no category or nature")
		}
		if !ev.EndTime.IsZero() {
			switch {
			case ev.EndTime.Before(ev.StartTime):
				f.malformedWindow = true
				f.notes = append(f.notes, fmt.Sprintf("end %s precedes start %s",
					ev.EndTime.Format("2006-01-02 15:04"), ev.StartTime.Format("2006-01-02 15:04")))
			case ev.EndTime.Equal(ev.StartTime):
				f.zeroDuration = true
				f.notes = append(f.notes, "zero-duration window")
			}
		}
		if geo != nil && ev.Coordinates != nil {
			border, err := geo.IsBorderLocation(ctx, *ev.Coordinates)
			if err == nil && border {
				f.borderLocation = true
				f.notes = append(f.notes, "border-region venue")
			}
		}
	}
	return flags
}
