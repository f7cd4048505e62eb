// Package evaluate implements the forecast evaluator: a pure mapping from a
// forecast snapshot and threshold configuration to a classified thermal state
// with supporting evidence.
//
// Classification is ordered and first-match-wins:
//
//  1. Freeze check over the hourly lookahead window.
//  2. Warm-clear check over the daily lookahead window.
//  3. Conservative default to COLD.
//
// The default is a deliberate business rule, not an ambiguity: a false COLD
// leaves heaters on, a false WARM risks frozen pipes.
package evaluate

import (
	"freezewatch/internal/types"
)

// Evaluate classifies the snapshot against the thresholds. It never returns
// an error: missing or ambiguous data resolves to COLD, with DataMissing set
// when the hourly sequence was empty so callers can distinguish a hard
// provider gap from a genuine cold classification.
func Evaluate(snapshot types.ForecastSnapshot, cfg types.ThresholdConfig) types.EvaluationResult {
	// Step 1: immediate freeze risk in the hourly window.
	freezeHours := FreezeHours(snapshot.Hourly, cfg)
	if len(freezeHours) > 0 {
		return types.EvaluationResult{
			State:       types.StateCold,
			FreezeHours: freezeHours,
		}
	}

	// Step 2: sustained warm conditions in the daily window.
	if warmDays, ok := warmClearDays(snapshot.Daily, cfg); ok {
		return types.EvaluationResult{
			State:    types.StateWarm,
			WarmDays: warmDays,
		}
	}

	// Step 3: conservative default.
	result := types.EvaluationResult{State: types.StateCold}
	if len(snapshot.Hourly) == 0 {
		result.DataMissing = true
		result.Reason = "no hourly forecast data"
	} else {
		result.Reason = "no freeze hours found, but warm-clear conditions could not be confirmed"
	}
	return result
}

// FreezeHours returns the hours within the first cfg.HoursAhead samples whose
// temperature is at or below the freeze threshold, in chronological order.
// The boundary is inclusive: a sample at exactly the threshold qualifies.
func FreezeHours(hourly []types.HourlySample, cfg types.ThresholdConfig) []types.HourlySample {
	window := hourly
	if cfg.HoursAhead > 0 && len(window) > cfg.HoursAhead {
		window = window[:cfg.HoursAhead]
	}

	var matched []types.HourlySample
	for _, h := range window {
		if h.TempF <= cfg.FreezeThresholdF {
			matched = append(matched, h)
		}
	}
	return matched
}

// warmClearDays checks the first cfg.WarmClearDays daily samples. The
// condition holds only when the sequence covers the whole window and every
// day's minimum is at or above the warm threshold. Fewer entries than the
// window means the condition cannot be verified: missing data is not evidence
// of safety.
func warmClearDays(daily []types.DailySample, cfg types.ThresholdConfig) ([]types.DailySample, bool) {
	if cfg.WarmClearDays <= 0 || len(daily) < cfg.WarmClearDays {
		return nil, false
	}

	window := daily[:cfg.WarmClearDays]
	for _, d := range window {
		if d.MinTempF < cfg.WarmThresholdF {
			return nil, false
		}
	}
	return window, true
}

// MinTemp returns the lowest temperature among the samples. The second return
// is false for an empty slice.
func MinTemp(hours []types.HourlySample) (float64, bool) {
	if len(hours) == 0 {
		return 0, false
	}
	min := hours[0].TempF
	for _, h := range hours[1:] {
		if h.TempF < min {
			min = h.TempF
		}
	}
	return min, true
}
