// Eventrank - Personalized Event Recommendation Ranking for LankaConnect
// Copyright 2026 LankaConnect
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lankaconnect/eventrank

// Package ranking implements the personalized event recommendation ranking
// engine. Given a candidate event set and a user context, the engine runs a
// staged pipeline with a global barrier between stages:
//
//  1. Edge-case pre-pass: per-event anomaly detection (missing location or
//     category, malformed or zero-duration time windows, border-region
//     venues) so events are ranked under explicit fallback markers instead
//     of being dropped.
//  2. Criterion scoring: seven independent scorers (cultural, geographic,
//     timeslot, family, age, language, involvement) fan out in parallel,
//     each producing a raw [0,1] score plus rationale per event.
//  3. Normalization: min-max per criterion across the candidate set; a
//     criterion with no spread collapses to the neutral midpoint.
//  4. Personalized weighting: profile base weights adjusted by a bounded
//     delta from attendance-history correlation, renormalized to sum 1.0.
//  5. Tie-breaking: composites within epsilon are resolved by a cascade
//     (priority, soonest start, distance, popularity), falling back to
//     stable input order.
//  6. Conflict resolution: transitive time-window overlap groups keep only
//     their best-placed event; the rest are excluded with a reason.
//
// Ranking is deterministic for identical inputs and complete: every
// candidate appears in the result exactly once, ranked or excluded.
// Collaborator outages never fail a request; the affected criterion
// degrades to neutral and the result is annotated as degraded.
package ranking
