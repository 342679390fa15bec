// Eventrank - Personalized Event Recommendation Ranking for LankaConnect
// Copyright 2026 LankaConnect
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lankaconnect/eventrank

package ranking

import (
	"fmt"
	"math"
)

// weightSumTolerance is the accepted deviation of a weight vector's sum
// from 1.0.
const weightSumTolerance = 0.001

// Weights is a criterion weight vector. A valid vector is non-negative and
// sums to 1.0 within tolerance.
type Weights struct {
	Cultural    float64 `json:"cultural" koanf:"cultural"`
	Geographic  float64 `json:"geographic" koanf:"geographic"`
	TimeSlot    float64 `json:"timeslot" koanf:"timeslot"`
	Family      float64 `json:"family" koanf:"family"`
	Age         float64 `json:"age" koanf:"age"`
	Language    float64 `json:"language" koanf:"language"`
	Involvement float64 `json:"involvement" koanf:"involvement"`
}

// DefaultWeights returns the default base weight vector. Cultural fit
// dominates, matching the platform's emphasis on culturally appropriate
// recommendations.
func DefaultWeights() Weights {
	return Weights{
		Cultural:    0.30,
		Geographic:  0.20,
		TimeSlot:    0.15,
		Family:      0.10,
		Age:         0.05,
		Language:    0.10,
		Involvement: 0.10,
	}
}

// ToMap returns the vector keyed by criterion.
func (w Weights) ToMap() map[Criterion]float64 {
	return map[Criterion]float64{
		CriterionCultural:    w.Cultural,
		CriterionGeographic:  w.Geographic,
		CriterionTimeSlot:    w.TimeSlot,
		CriterionFamily:      w.Family,
		CriterionAge:         w.Age,
		CriterionLanguage:    w.Language,
		CriterionInvolvement: w.Involvement,
	}
}

// WeightsFromMap builds a vector from a criterion-keyed map. Missing
// criteria get zero weight.
func WeightsFromMap(m map[Criterion]float64) Weights {
	return Weights{
		Cultural:    m[CriterionCultural],
		Geographic:  m[CriterionGeographic],
		TimeSlot:    m[CriterionTimeSlot],
		Family:      m[CriterionFamily],
		Age:         m[CriterionAge],
		Language:    m[CriterionLanguage],
		Involvement: m[CriterionInvolvement],
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Cultural + w.Geographic + w.TimeSlot + w.Family + w.Age + w.Language + w.Involvement
}

// Normalized returns the vector scaled to sum 1.0. A zero vector falls back
// to the defaults rather than dividing by zero.
func (w Weights) Normalized() Weights {
	sum := w.Sum()
	if sum <= 0 {
		return DefaultWeights()
	}
	return Weights{
		Cultural:    w.Cultural / sum,
		Geographic:  w.Geographic / sum,
		TimeSlot:    w.TimeSlot / sum,
		Family:      w.Family / sum,
		Age:         w.Age / sum,
		Language:    w.Language / sum,
		Involvement: w.Involvement / sum,
	}
}

// Validate checks that the vector is non-negative and sums to 1.0 within
// tolerance.
func (w Weights) Validate() error {
	for c, v := range w.ToMap() {
		if v < 0 {
			return fmt.Errorf("weight for %s must be non-negative, got %f", c, v)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("weights must sum to 1.0, got %f", sum)
	}
	return nil
}

// personalizeWeights adjusts base weights using attendance history. For each
// criterion it computes the mean covariance between the recorded outcome and
// the criterion score the event carried when recommended:
//
//	delta = rate * mean((outcome - 0.5) * (score - 0.5))
//
// A positive covariance means events strong on that criterion turned out
// well for this user, so its weight grows. Deltas are clamped to MaxShift,
// a weight never drops below zero or flips sign, and the result is
// renormalized to sum 1.0. Too little history returns the base unchanged.
func personalizeWeights(base Weights, history AttendanceHistory, cfg PersonalizationConfig) Weights {
	if !cfg.Enabled || len(history.Records) < cfg.MinRecords {
		return base.Normalized()
	}

	baseMap := base.ToMap()
	adjusted := make(map[Criterion]float64, len(Criteria))
	for _, c := range Criteria {
		adjusted[c] = baseMap[c] + weightDelta(c, history.Records, cfg)
		if adjusted[c] < 0 {
			adjusted[c] = 0
		}
	}
	return WeightsFromMap(adjusted).Normalized()
}

// weightDelta computes the clamped adjustment for one criterion.
func weightDelta(c Criterion, records []AttendanceRecord, cfg PersonalizationConfig) float64 {
	var cov float64
	var n int
	for _, r := range records {
		score, ok := r.Criteria[c]
		if !ok {
			continue
		}
		cov += (r.Outcome - NeutralScore) * (score - NeutralScore)
		n++
	}
	if n == 0 {
		return 0
	}
	delta := cfg.LearningRate * cov / float64(n)
	if delta > cfg.MaxShift {
		delta = cfg.MaxShift
	}
	if delta < -cfg.MaxShift {
		delta = -cfg.MaxShift
	}
	return delta
}
