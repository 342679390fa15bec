// Eventrank - Personalized Event Recommendation Ranking for LankaConnect
// Copyright 2026 LankaConnect
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lankaconnect/eventrank

package ranking

import "errors"

var (
	// ErrEmptyCandidates is returned when Rank receives no candidates.
	ErrEmptyCandidates = errors.New("ranking: empty candidate set")

	// ErrNilUser is returned when Rank receives a nil user context.
	ErrNilUser = errors.New("ranking: nil user context")

	// ErrTooManyCandidates is returned when the candidate set exceeds the
	// configured cap.
	ErrTooManyCandidates = errors.New("ranking: candidate set exceeds limit")

	// ErrUnavailable is returned by collaborators (and their circuit
	// breaker wrappers) when the backing service cannot be reached. The
	// engine degrades the affected criterion to neutral instead of
	// failing the request.
	ErrUnavailable = errors.New("ranking: collaborator unavailable")

	// ErrDuplicateScorer is returned when two registered scorers claim the
	// same criterion.
	ErrDuplicateScorer = errors.New("ranking: duplicate scorer for criterion")
)
