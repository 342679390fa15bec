// Eventrank - Personalized Event Recommendation Ranking for LankaConnect
// Copyright 2026 LankaConnect
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lankaconnect/eventrank

package ranking

import (
	"context"
	"time"
)

// Criterion identifies one independent axis of fit between an event and a user.
type Criterion string

const (
	// CriterionCultural measures cultural appropriateness of the event for the user.
	CriterionCultural Criterion = "cultural"
	// CriterionGeographic measures geographic proximity and accessibility.
	CriterionGeographic Criterion = "geographic"
	// CriterionTimeSlot measures compatibility with the user's preferred time slots.
	CriterionTimeSlot Criterion = "timeslot"
	// CriterionFamily measures family-friendliness against the user's family profile.
	CriterionFamily Criterion = "family"
	// CriterionAge measures age-group suitability for the user.
	CriterionAge Criterion = "age"
	// CriterionLanguage measures language overlap weighted by proficiency.
	CriterionLanguage Criterion = "language"
	// CriterionInvolvement measures commitment-level fit with the user's
	// community involvement history and capacity.
	CriterionInvolvement Criterion = "involvement"
)

// Criteria lists all criteria in canonical order. Rationale lists and score
// breakdowns follow this ordering for deterministic output.
var Criteria = []Criterion{
	CriterionCultural,
	CriterionGeographic,
	CriterionTimeSlot,
	CriterionFamily,
	CriterionAge,
	CriterionLanguage,
	CriterionInvolvement,
}

// NeutralScore is the documented fallback value a scorer returns when it
// cannot evaluate an event. It is the midpoint of the score range so an
// unevaluable criterion neither rewards nor punishes an event.
const NeutralScore = 0.5

// Location is a geographic coordinate pair.
type Location struct {
	// Lat is the latitude in decimal degrees.
	Lat float64 `json:"lat"`

	// Lon is the longitude in decimal degrees.
	Lon float64 `json:"lon"`
}

// IsZero reports whether the location is the zero value.
func (l Location) IsZero() bool {
	return l.Lat == 0 && l.Lon == 0
}

// EventNature classifies the declared character of an event.
type EventNature int

const (
	// NatureUnknown indicates no declared classification.
	NatureUnknown EventNature = iota
	// NatureReligious indicates a religious observance or ceremony.
	NatureReligious
	// NatureCultural indicates a cultural celebration or performance.
	NatureCultural
	// NatureSocial indicates a social or community gathering.
	NatureSocial
	// NatureSecular indicates a secular event with no cultural framing.
	NatureSecular
	// NatureMixed indicates an event combining several natures.
	NatureMixed
)

// String returns a human-readable name for the event nature.
func (n EventNature) String() string {
	switch n {
	case NatureReligious:
		return "religious"
	case NatureCultural:
		return "cultural"
	case NatureSocial:
		return "social"
	case NatureSecular:
		return "secular"
	case NatureMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// AppropriatenessLevel is the qualitative cultural-appropriateness tier.
// It feeds rationale text only; the numeric score drives ranking.
type AppropriatenessLevel int

const (
	// LevelUnknown indicates the calendar could not classify the event.
	LevelUnknown AppropriatenessLevel = iota
	// LevelAppropriate indicates culturally suitable timing and content.
	LevelAppropriate
	// LevelCaution indicates potentially sensitive timing or content.
	LevelCaution
	// LevelAvoid indicates culturally inappropriate timing or content.
	LevelAvoid
)

// String returns a human-readable name for the level.
func (l AppropriatenessLevel) String() string {
	switch l {
	case LevelAppropriate:
		return "Appropriate"
	case LevelCaution:
		return "Caution"
	case LevelAvoid:
		return "Avoid"
	default:
		return "Unknown"
	}
}

// CulturalSensitivity is the user's stated sensitivity to cultural timing.
type CulturalSensitivity int

const (
	// SensitivityLow tolerates culturally questionable timing.
	SensitivityLow CulturalSensitivity = iota
	// SensitivityMedium is the default sensitivity.
	SensitivityMedium
	// SensitivityHigh prefers strictly appropriate events.
	SensitivityHigh
	// SensitivityVeryHigh only accepts clearly appropriate events.
	SensitivityVeryHigh
)

// String returns a human-readable name for the sensitivity level.
func (s CulturalSensitivity) String() string {
	switch s {
	case SensitivityLow:
		return "low"
	case SensitivityHigh:
		return "high"
	case SensitivityVeryHigh:
		return "very_high"
	default:
		return "medium"
	}
}

// DiasporaAdaptation is the user's stated adaptation level, from fully
// traditional to fully integrated into the host culture.
type DiasporaAdaptation int

const (
	// AdaptationTraditional prefers events mirroring home-country practice.
	AdaptationTraditional DiasporaAdaptation = iota
	// AdaptationConservative prefers mostly traditional events.
	AdaptationConservative
	// AdaptationModerate balances traditional and adapted events.
	AdaptationModerate
	// AdaptationAdaptive prefers host-adapted events.
	AdaptationAdaptive
	// AdaptationIntegrated has no preference for traditional framing.
	AdaptationIntegrated
)

// String returns a human-readable name for the adaptation level.
func (d DiasporaAdaptation) String() string {
	switch d {
	case AdaptationTraditional:
		return "traditional"
	case AdaptationConservative:
		return "conservative"
	case AdaptationAdaptive:
		return "adaptive"
	case AdaptationIntegrated:
		return "integrated"
	default:
		return "moderate"
	}
}

// InvolvementLevel grades a user's historical community involvement.
type InvolvementLevel int

const (
	// InvolvementObserver attends rarely and does not participate.
	InvolvementObserver InvolvementLevel = iota
	// InvolvementCasual attends occasionally.
	InvolvementCasual
	// InvolvementRegular attends regularly.
	InvolvementRegular
	// InvolvementActive attends and volunteers.
	InvolvementActive
	// InvolvementLeader organizes events and holds roles.
	InvolvementLeader
)

// String returns a human-readable name for the involvement level.
func (l InvolvementLevel) String() string {
	switch l {
	case InvolvementObserver:
		return "observer"
	case InvolvementCasual:
		return "casual"
	case InvolvementActive:
		return "active"
	case InvolvementLeader:
		return "leader"
	default:
		return "regular"
	}
}

// CommitmentLevel grades the effort an event expects from attendees, and the
// capacity a user has to commit.
type CommitmentLevel int

const (
	// CommitmentLow is drop-in attendance.
	CommitmentLow CommitmentLevel = iota
	// CommitmentMedium is attendance plus light participation.
	CommitmentMedium
	// CommitmentHigh is active participation or preparation.
	CommitmentHigh
	// CommitmentVeryHigh is organizing-level commitment.
	CommitmentVeryHigh
)

// String returns a human-readable name for the commitment level.
func (c CommitmentLevel) String() string {
	switch c {
	case CommitmentLow:
		return "low"
	case CommitmentHigh:
		return "high"
	case CommitmentVeryHigh:
		return "very_high"
	default:
		return "medium"
	}
}

// CandidateEvent is an immutable snapshot of an event under consideration.
// The engine never mutates it.
type CandidateEvent struct {
	// ID is the unique event identifier.
	ID string `json:"id"`

	// Title is the event title, used in rationale text.
	Title string `json:"title"`

	// StartTime is the event start instant.
	StartTime time.Time `json:"start_time"`

	// EndTime is the event end instant. Zero means open-ended.
	EndTime time.Time `json:"end_time"`

	// Coordinates is the primary venue location. Nil when unknown.
	Coordinates *Location `json:"coordinates,omitempty"`

	// Venues lists additional venue locations for multi-venue events.
	Venues []Location `json:"venues,omitempty"`

	// Region is the free-text region of the event.
	Region string `json:"region,omitempty"`

	// Category is the declared cultural category (e.g. "vesak", "kovil",
	// "new year"). Empty when undeclared.
	Category string `json:"category,omitempty"`

	// Nature is the declared event nature, NatureUnknown if undeclared.
	Nature EventNature `json:"nature"`

	// Languages lists the languages the event is conducted in.
	Languages []string `json:"languages,omitempty"`

	// FamilyFriendly indicates the event welcomes children.
	FamilyFriendly bool `json:"family_friendly"`

	// AdultsOnly indicates the event excludes children.
	AdultsOnly bool `json:"adults_only"`

	// MinAge and MaxAge bound the suitable attendee age range. Zero MaxAge
	// means unbounded.
	MinAge int `json:"min_age,omitempty"`
	MaxAge int `json:"max_age,omitempty"`

	// Commitment is the expected attendee commitment level.
	Commitment CommitmentLevel `json:"commitment"`

	// Capacity is the venue capacity. Zero when unknown.
	Capacity int `json:"capacity,omitempty"`

	// ExpectedAttendance is the organizer's attendance estimate.
	ExpectedAttendance int `json:"expected_attendance,omitempty"`

	// Popularity is a historical popularity signal in [0,1].
	Popularity float64 `json:"popularity,omitempty"`

	// Sponsored marks priority/sponsored events for tie-breaking.
	Sponsored bool `json:"sponsored,omitempty"`
}

// Duration returns the event duration, or zero for open-ended events.
func (e *CandidateEvent) Duration() time.Duration {
	if e.EndTime.IsZero() || !e.EndTime.After(e.StartTime) {
		return 0
	}
	return e.EndTime.Sub(e.StartTime)
}

// OpenEnded reports whether the event has no usable end instant.
func (e *CandidateEvent) OpenEnded() bool {
	return e.EndTime.IsZero()
}

// LanguageSkill is a spoken language with proficiency in [0,1].
type LanguageSkill struct {
	// Language is the language name, matched case-insensitively.
	Language string `json:"language"`

	// Proficiency is the fluency level in [0,1].
	Proficiency float64 `json:"proficiency"`
}

// TimeSlot is a weekly recurring window with a preference weight.
type TimeSlot struct {
	// StartHour and EndHour bound the window in local hours [0,24).
	StartHour int `json:"start_hour"`
	EndHour   int `json:"end_hour"`

	// Preference is the desirability of the window in [0,1].
	Preference float64 `json:"preference"`
}

// TimePreferences captures the user's preferred and avoided time slots.
type TimePreferences struct {
	// PreferredDays are days the user favors for events.
	PreferredDays []time.Weekday `json:"preferred_days,omitempty"`

	// AvoidedDays are days the user wants kept free.
	AvoidedDays []time.Weekday `json:"avoided_days,omitempty"`

	// PreferredSlots are favored start-time windows.
	PreferredSlots []TimeSlot `json:"preferred_slots,omitempty"`
}

// FamilyProfile describes the user's family composition and preferences.
type FamilyProfile struct {
	// HasChildren reports whether the user attends with children.
	HasChildren bool `json:"has_children"`

	// ChildrenAges lists the ages of the user's children.
	ChildrenAges []int `json:"children_ages,omitempty"`

	// FamilyEventPreference is the affinity for family events in [0,1].
	FamilyEventPreference float64 `json:"family_event_preference"`

	// AdultOnlyPreference is the affinity for adult-only events in [0,1].
	AdultOnlyPreference float64 `json:"adult_only_preference"`
}

// InvolvementProfile describes community engagement history and capacity.
type InvolvementProfile struct {
	// Level is the historical involvement level.
	Level InvolvementLevel `json:"level"`

	// VolunteerHours is lifetime volunteer hours.
	VolunteerHours int `json:"volunteer_hours,omitempty"`

	// LeadershipRoles is the number of roles held.
	LeadershipRoles int `json:"leadership_roles,omitempty"`

	// Capacity is how much commitment the user can take on now.
	Capacity CommitmentLevel `json:"capacity"`
}

// TransportPreferences captures how the user travels to events.
type TransportPreferences struct {
	// Modes lists available transport modes ("car", "transit", "walk").
	Modes []string `json:"modes,omitempty"`

	// MaxTravelKm is the farthest the user will travel. Zero means default.
	MaxTravelKm float64 `json:"max_travel_km,omitempty"`
}

// UserContext is an immutable snapshot of the requesting user. Attendance
// history is not embedded; the engine reads it from the preference store.
type UserContext struct {
	// ID is the unique user identifier.
	ID string `json:"id"`

	// Home is the user's home location. Nil when unknown.
	Home *Location `json:"home,omitempty"`

	// Region is the free-text home region.
	Region string `json:"region,omitempty"`

	// CulturalBackground is the user's stated background (e.g. "sinhala
	// buddhist", "tamil hindu").
	CulturalBackground string `json:"cultural_background,omitempty"`

	// Sensitivity is the stated cultural sensitivity level.
	Sensitivity CulturalSensitivity `json:"sensitivity"`

	// Adaptation is the stated diaspora adaptation level.
	Adaptation DiasporaAdaptation `json:"adaptation"`

	// PrefersFestivalAlignment boosts the cultural criterion base weight.
	PrefersFestivalAlignment bool `json:"prefers_festival_alignment"`

	// Age is the user's age in years. Zero when undisclosed.
	Age int `json:"age,omitempty"`

	// Languages lists spoken languages with proficiency.
	Languages []LanguageSkill `json:"languages,omitempty"`

	// Family is the family profile.
	Family FamilyProfile `json:"family"`

	// Involvement is the community involvement profile.
	Involvement InvolvementProfile `json:"involvement"`

	// Time is the time-slot preference profile.
	Time TimePreferences `json:"time"`

	// Transport is the transport preference profile.
	Transport TransportPreferences `json:"transport"`
}

// CriterionScore is one criterion's raw verdict for one event. Scores are
// recomputed per request and never persisted.
type CriterionScore struct {
	// Criterion names the axis this score belongs to.
	Criterion Criterion `json:"criterion"`

	// Value is the raw score in [0,1].
	Value float64 `json:"value"`

	// Rationale is a human-readable explanation of the value.
	Rationale string `json:"rationale"`

	// Fallback marks scores produced under fallback assumptions (missing
	// data, degraded collaborator) rather than full evaluation.
	Fallback bool `json:"fallback,omitempty"`
}

// InteractionType classifies a user's reaction to a recommended event.
type InteractionType int

const (
	// InteractionView means the user saw the recommendation.
	InteractionView InteractionType = iota
	// InteractionClick means the user opened the event page.
	InteractionClick
	// InteractionRegister means the user registered for the event.
	InteractionRegister
	// InteractionAttend means the user attended the event.
	InteractionAttend
	// InteractionRate means the user rated the event after attending.
	InteractionRate
	// InteractionSkip means the user dismissed the recommendation.
	InteractionSkip
)

// String returns a human-readable name for the interaction type.
func (t InteractionType) String() string {
	switch t {
	case InteractionView:
		return "view"
	case InteractionClick:
		return "click"
	case InteractionRegister:
		return "register"
	case InteractionAttend:
		return "attend"
	case InteractionRate:
		return "rate"
	case InteractionSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// Signal returns the positive-outcome strength of this interaction type in
// [0,1]. Higher values indicate stronger preference signals.
func (t InteractionType) Signal() float64 {
	switch t {
	case InteractionAttend, InteractionRate:
		return 1.0
	case InteractionRegister:
		return 0.8
	case InteractionClick:
		return 0.4
	case InteractionView:
		return 0.2
	case InteractionSkip:
		return 0.0
	default:
		return 0.0
	}
}

// Interaction is a user's reaction to a recommended event, consumed by the
// out-of-band preference learner.
type Interaction struct {
	// Type classifies the interaction.
	Type InteractionType `json:"type"`

	// Strength scales the signal in [0,1] (e.g. a rating mapped to [0,1]).
	Strength float64 `json:"strength"`

	// Timestamp is when the interaction occurred.
	Timestamp time.Time `json:"timestamp"`

	// Criteria is the per-criterion score snapshot from the ranking that
	// surfaced the event, carried into the attendance record so future
	// weight personalization can correlate criteria with outcomes.
	Criteria map[Criterion]float64 `json:"criteria,omitempty"`
}

// AttendanceRecord is one past recommendation outcome. Criteria holds the
// criterion scores the event carried when it was recommended, so the
// personalizer can correlate criteria with outcomes.
type AttendanceRecord struct {
	// EventID identifies the past event.
	EventID string `json:"event_id"`

	// Category is the event's declared category at recommendation time.
	Category string `json:"category,omitempty"`

	// Outcome is the observed outcome signal in [0,1]: 1.0 attended and
	// rated favorably, 0.0 ignored or skipped.
	Outcome float64 `json:"outcome"`

	// Rating is the user's rating in [0,5], zero when unrated.
	Rating float64 `json:"rating,omitempty"`

	// OccurredAt is when the outcome was observed.
	OccurredAt time.Time `json:"occurred_at"`

	// Criteria is the per-criterion score snapshot from the ranking that
	// surfaced this event.
	Criteria map[Criterion]float64 `json:"criteria,omitempty"`
}

// AttendanceHistory is a user's past recommendation outcomes.
type AttendanceHistory struct {
	// UserID identifies the user.
	UserID string `json:"user_id"`

	// Records lists outcomes, most recent last.
	Records []AttendanceRecord `json:"records"`
}

// Empty reports whether the history carries no usable records.
func (h *AttendanceHistory) Empty() bool {
	return h == nil || len(h.Records) == 0
}

// RankedEvent is the terminal per-event artifact returned to the caller.
// Every candidate appears exactly once, ranked or excluded.
type RankedEvent struct {
	// Event is the candidate this entry describes.
	Event CandidateEvent `json:"event"`

	// Composite is the weighted sum of normalized criterion scores.
	Composite float64 `json:"composite"`

	// Rank is the 1-based position among non-excluded events. Zero for
	// excluded entries.
	Rank int `json:"rank,omitempty"`

	// Scores is the ordered per-criterion breakdown for explainability.
	Scores []CriterionScore `json:"scores"`

	// Excluded marks events removed by conflict resolution.
	Excluded bool `json:"excluded,omitempty"`

	// ExclusionReason explains an exclusion, e.g.
	// "excluded: conflicts with event 42".
	ExclusionReason string `json:"exclusion_reason,omitempty"`

	// ConflictsWith is the ID of the higher-ranked event that displaced
	// this one. Empty for ranked entries.
	ConflictsWith string `json:"conflicts_with,omitempty"`

	// FallbackApplied marks events scored under edge-case fallbacks.
	FallbackApplied bool `json:"fallback_applied,omitempty"`
}

// ResultMetadata carries timing and diagnostic information for a ranking.
type ResultMetadata struct {
	// RequestID is the unique request identifier.
	RequestID string `json:"request_id"`

	// UserID is the user the ranking is for.
	UserID string `json:"user_id"`

	// CandidateCount is the number of candidates considered.
	CandidateCount int `json:"candidate_count"`

	// RankedCount is the number of non-excluded entries.
	RankedCount int `json:"ranked_count"`

	// ExcludedCount is the number of conflict-excluded entries.
	ExcludedCount int `json:"excluded_count"`

	// LatencyMS is the total ranking latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// Timestamp is when the result was produced.
	Timestamp time.Time `json:"timestamp"`
}

// Result is a complete ranking response.
type Result struct {
	// Entries is the ordered recommendation list, excluded entries
	// interleaved at their sorted positions.
	Entries []RankedEvent `json:"entries"`

	// Weights is the personalized weight vector used for this ranking.
	Weights Weights `json:"weights"`

	// Degraded reports that one or more collaborators were unavailable and
	// fallback values were used.
	Degraded bool `json:"degraded,omitempty"`

	// DegradedCriteria lists criteria scored with neutral fallbacks because
	// their collaborator was unavailable.
	DegradedCriteria []Criterion `json:"degraded_criteria,omitempty"`

	// Metadata carries timing and diagnostic information.
	Metadata ResultMetadata `json:"metadata"`
}

// TieBreaker identifies one step of the tie-break cascade.
type TieBreaker int

const (
	// TieBreakPriority prefers sponsored/priority events.
	TieBreakPriority TieBreaker = iota
	// TieBreakDate prefers the soonest start time.
	TieBreakDate
	// TieBreakDistance prefers the smallest distance from home.
	TieBreakDistance
	// TieBreakPopularity prefers the highest historical popularity.
	TieBreakPopularity
)

// String returns a human-readable name for the tie-breaker.
func (t TieBreaker) String() string {
	switch t {
	case TieBreakPriority:
		return "priority"
	case TieBreakDate:
		return "date"
	case TieBreakDistance:
		return "distance"
	case TieBreakPopularity:
		return "popularity"
	default:
		return "unknown"
	}
}

// DefaultCascade is the default tie-break cascade ordering.
func DefaultCascade() []TieBreaker {
	return []TieBreaker{TieBreakPriority, TieBreakDate, TieBreakDistance, TieBreakPopularity}
}

// Options configures a single Rank call.
type Options struct {
	// RequestID is a caller-supplied identifier for tracing. Generated
	// when empty.
	RequestID string `json:"request_id,omitempty"`

	// Cascade overrides the configured tie-break cascade when non-empty.
	Cascade []TieBreaker `json:"cascade,omitempty"`

	// SkipConflictResolution returns the full tie-broken list without
	// conflict exclusion, for "show me everything" views.
	SkipConflictResolution bool `json:"skip_conflict_resolution,omitempty"`

	// Now overrides the reference instant for date-relative scoring.
	// Zero means time.Now at call time.
	Now time.Time `json:"-"`
}

// Appropriateness is the calendar collaborator's verdict for an event.
type Appropriateness struct {
	// Score is the appropriateness value in [0,1].
	Score float64

	// Level is the qualitative tier, used for rationale text only.
	Level AppropriatenessLevel

	// Rationale explains the verdict.
	Rationale string
}

// Calendar is the cultural-calendar collaborator contract. Implementations
// own festival data and culturally sensitive timing rules.
type Calendar interface {
	// IsSignificantDate reports whether the date is culturally significant.
	IsSignificantDate(ctx context.Context, date time.Time) (bool, error)

	// Appropriateness scores an event's cultural suitability on a date for
	// a user with the given background.
	Appropriateness(ctx context.Context, event *CandidateEvent, background string) (Appropriateness, error)

	// ClassifyNature classifies an event with no declared nature.
	ClassifyNature(ctx context.Context, event *CandidateEvent) (EventNature, error)
}

// Geography is the geographic collaborator contract. Implementations own
// distance math, multi-venue aggregation, and transport accessibility.
type Geography interface {
	// ProximityScore scores the event's proximity to home in [0,1],
	// aggregating across venues for multi-venue events. maxTravelKm is
	// the user's travel limit; zero means the implementation default.
	ProximityScore(ctx context.Context, event *CandidateEvent, home Location, maxTravelKm float64) (float64, error)

	// TransportAccessibility scores how reachable the event is given the
	// user's transport preferences, in [0,1].
	TransportAccessibility(ctx context.Context, event *CandidateEvent, prefs TransportPreferences) (float64, error)

	// DistanceKm returns the distance from home to the event's nearest
	// venue, for tie-breaking.
	DistanceKm(ctx context.Context, event *CandidateEvent, home Location) (float64, error)

	// IsBorderLocation flags locations in ambiguous border regions for
	// edge-case handling.
	IsBorderLocation(ctx context.Context, loc Location) (bool, error)
}

// PreferenceStore is the user preference/history collaborator contract.
// Reads are in the ranking path; UpdatePreferenceLearning is fire-and-forget
// and must never be invoked by the engine itself.
type PreferenceStore interface {
	// ScoringWeights returns the user's base weight vector.
	ScoringWeights(ctx context.Context, userID string) (Weights, error)

	// AttendanceHistory returns the user's past recommendation outcomes.
	AttendanceHistory(ctx context.Context, userID string) (AttendanceHistory, error)

	// UpdatePreferenceLearning folds an interaction into the user's
	// learned preferences. Invoked out of band by the learning consumer.
	UpdatePreferenceLearning(ctx context.Context, userID string, event *CandidateEvent, interaction Interaction) error
}

// Scorer is one criterion's scoring strategy. Implementations must be total:
// for any non-nil event/user pair they return a score, using NeutralScore
// with a fallback rationale when they cannot evaluate. A non-nil error means
// the backing collaborator is unavailable; the engine then degrades the
// whole criterion to neutral for the candidate set.
type Scorer interface {
	// Criterion returns the criterion this scorer computes.
	Criterion() Criterion

	// Score computes the raw criterion score for one event.
	Score(ctx context.Context, event *CandidateEvent, user *UserContext, ref time.Time) (CriterionScore, error)
}

// Observer receives ranking telemetry. Implementations must be safe for
// concurrent use. The engine treats a nil Observer as a no-op.
type Observer interface {
	// ObserveRanking records one completed ranking.
	ObserveRanking(latency time.Duration, candidates, excluded int, degraded bool)

	// ObserveStage records one completed pipeline stage.
	ObserveStage(stage string, latency time.Duration)
}
