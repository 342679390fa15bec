// Eventrank - Personalized Event Recommendation Ranking for LankaConnect
// Copyright 2026 LankaConnect
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lankaconnect/eventrank

package ranking

// normalizeScores rescales one criterion's raw scores across the candidate
// set to [0,1] with min-max normalization, preserving order within the
// criterion. When all scores are equal the criterion carries no ranking
// signal and every event gets the neutral midpoint.
func normalizeScores(raw []float64) []float64 {
	if len(raw) == 0 {
		return nil
	}

	minScore, maxScore := raw[0], raw[0]
	for _, s := range raw[1:] {
		if s < minScore {
			minScore = s
		}
		if s > maxScore {
			maxScore = s
		}
	}

	normalized := make([]float64, len(raw))
	spread := maxScore - minScore
	if spread == 0 {
		for i := range normalized {
			normalized[i] = NeutralScore
		}
		return normalized
	}
	for i, s := range raw {
		normalized[i] = (s - minScore) / spread
	}
	return normalized
}
