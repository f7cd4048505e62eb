// Package types defines the domain model shared across the FreezeWatch
// monitor: forecast samples, the thermal state vocabulary, threshold
// configuration, and the application error taxonomy.
package types

import "time"

// HourlySample is a single hourly forecast point.
type HourlySample struct {
	Time  time.Time `json:"time"`
	TempF float64   `json:"temp_f"`
}

// DailySample is a single daily forecast point. MinTempF drives the warm-clear
// determination; MaxTempF is carried for status reporting only.
type DailySample struct {
	Date     time.Time `json:"date"`
	MinTempF float64   `json:"min_temp_f"`
	MaxTempF float64   `json:"max_temp_f"`
}

// ForecastSnapshot holds the hourly and daily forecast sequences for one
// invocation. Either sequence may be empty (provider gap or fetch
// degradation); the evaluator treats that as valid input, not an error.
type ForecastSnapshot struct {
	Hourly []HourlySample `json:"hourly"`
	Daily  []DailySample  `json:"daily"`
}

// ThresholdConfig holds the immutable classification thresholds for one
// invocation. All comparisons are boundary-inclusive: an hour at exactly
// FreezeThresholdF counts as freezing and a day at exactly WarmThresholdF
// counts as warm. Off-by-one here changes safety behavior.
type ThresholdConfig struct {
	FreezeThresholdF float64
	HoursAhead       int
	WarmThresholdF   float64
	WarmClearDays    int
}

// EvaluationResult is the pure output of the forecast evaluator: the
// classified state plus the evidence that produced it.
type EvaluationResult struct {
	State ThermalState

	// FreezeHours lists the hours at or below the freeze threshold inside the
	// lookahead window, in chronological order. Non-empty only for COLD
	// results produced by the freeze check.
	FreezeHours []HourlySample

	// WarmDays lists the daily minimums that satisfied the warm-clear check.
	// Non-empty only for WARM results.
	WarmDays []DailySample

	// DataMissing is set when the hourly sequence was empty. The result still
	// defaults to COLD, but callers in NORMAL mode treat the gap as fatal.
	DataMissing bool

	// Reason is a short human-readable note for default classifications.
	Reason string
}

// PersistedState is the last stored classification. A nil Last models true
// first-run absence, which is distinct from any ThermalState value.
type PersistedState struct {
	Last      *ThermalState
	UpdatedAt time.Time
}

// TransitionDecision is the advisory output of the transition engine.
// NewState and AlertKind are meaningful only when Action is not ActionNone.
type TransitionDecision struct {
	Action    TransitionAction
	NewState  ThermalState
	AlertKind AlertKind
}

// TriggerEvent is the Lambda invocation payload. An empty Mode means NORMAL.
type TriggerEvent struct {
	Mode string `json:"mode"`
}

// Response is the Lambda invocation result, mirroring the statusCode/body
// shape the scheduler and operators already expect.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}
