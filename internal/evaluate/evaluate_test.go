package evaluate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freezewatch/internal/types"
)

var testThresholds = types.ThresholdConfig{
	FreezeThresholdF: 32,
	HoursAhead:       12,
	WarmThresholdF:   35,
	WarmClearDays:    2,
}

func hourAt(t0 time.Time, offset int, temp float64) types.HourlySample {
	return types.HourlySample{Time: t0.Add(time.Duration(offset) * time.Hour), TempF: temp}
}

func dayAt(t0 time.Time, offset int, min, max float64) types.DailySample {
	return types.DailySample{Date: t0.AddDate(0, 0, offset), MinTempF: min, MaxTempF: max}
}

func TestEvaluate_FreezeHourWithinWindow(t *testing.T) {
	t0 := time.Date(2026, 1, 15, 6, 0, 0, 0, time.UTC)
	snap := types.ForecastSnapshot{
		Hourly: []types.HourlySample{
			hourAt(t0, 0, 40),
			hourAt(t0, 1, 30),
			hourAt(t0, 2, 28),
			hourAt(t0, 3, 36),
		},
		// Daily data is warm, but the freeze check wins regardless.
		Daily: []types.DailySample{
			dayAt(t0, 0, 40, 55),
			dayAt(t0, 1, 41, 56),
		},
	}

	result := Evaluate(snap, testThresholds)

	assert.Equal(t, types.StateCold, result.State)
	require.Len(t, result.FreezeHours, 2)
	assert.Equal(t, 30.0, result.FreezeHours[0].TempF)
	assert.Equal(t, 28.0, result.FreezeHours[1].TempF)
	assert.False(t, result.DataMissing)
}

func TestEvaluate_FreezeBoundaryIsInclusive(t *testing.T) {
	t0 := time.Date(2026, 1, 15, 6, 0, 0, 0, time.UTC)
	snap := types.ForecastSnapshot{
		Hourly: []types.HourlySample{hourAt(t0, 0, 32)},
	}

	result := Evaluate(snap, testThresholds)

	assert.Equal(t, types.StateCold, result.State)
	require.Len(t, result.FreezeHours, 1)
}

func TestEvaluate_FreezeHourOutsideWindowIgnored(t *testing.T) {
	t0 := time.Date(2026, 1, 15, 6, 0, 0, 0, time.UTC)

	var hourly []types.HourlySample
	for i := 0; i < 12; i++ {
		hourly = append(hourly, hourAt(t0, i, 45))
	}
	// Hour 13 freezes, but it is beyond the 12-hour lookahead.
	hourly = append(hourly, hourAt(t0, 12, 20))

	snap := types.ForecastSnapshot{
		Hourly: hourly,
		Daily: []types.DailySample{
			dayAt(t0, 0, 36, 50),
			dayAt(t0, 1, 37, 51),
		},
	}

	result := Evaluate(snap, testThresholds)

	assert.Equal(t, types.StateWarm, result.State)
	assert.Empty(t, result.FreezeHours)
}

func TestEvaluate_WarmClear(t *testing.T) {
	t0 := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)
	snap := types.ForecastSnapshot{
		Hourly: []types.HourlySample{
			hourAt(t0, 0, 40),
			hourAt(t0, 1, 38),
		},
		Daily: []types.DailySample{
			dayAt(t0, 0, 36, 52),
			dayAt(t0, 1, 37, 54),
		},
	}

	result := Evaluate(snap, testThresholds)

	assert.Equal(t, types.StateWarm, result.State)
	require.Len(t, result.WarmDays, 2)
	assert.Equal(t, 36.0, result.WarmDays[0].MinTempF)
}

func TestEvaluate_WarmBoundaryIsInclusive(t *testing.T) {
	t0 := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)
	snap := types.ForecastSnapshot{
		Hourly: []types.HourlySample{hourAt(t0, 0, 50)},
		Daily: []types.DailySample{
			dayAt(t0, 0, 35, 50),
			dayAt(t0, 1, 35, 51),
		},
	}

	result := Evaluate(snap, testThresholds)

	assert.Equal(t, types.StateWarm, result.State)
}

func TestEvaluate_ShortDailySequenceIsNotWarm(t *testing.T) {
	t0 := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)
	snap := types.ForecastSnapshot{
		Hourly: []types.HourlySample{hourAt(t0, 0, 50)},
		// All present days are warm, but the window needs 2 entries.
		Daily: []types.DailySample{dayAt(t0, 0, 40, 55)},
	}

	result := Evaluate(snap, testThresholds)

	assert.Equal(t, types.StateCold, result.State)
	assert.Empty(t, result.WarmDays)
	assert.False(t, result.DataMissing)
	assert.NotEmpty(t, result.Reason)
}

func TestEvaluate_OneColdDayBreaksWarmClear(t *testing.T) {
	t0 := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)
	snap := types.ForecastSnapshot{
		Hourly: []types.HourlySample{hourAt(t0, 0, 50)},
		Daily: []types.DailySample{
			dayAt(t0, 0, 40, 55),
			dayAt(t0, 1, 34.9, 50),
		},
	}

	result := Evaluate(snap, testThresholds)

	assert.Equal(t, types.StateCold, result.State)
}

func TestEvaluate_EmptySnapshotDefaultsCold(t *testing.T) {
	result := Evaluate(types.ForecastSnapshot{}, testThresholds)

	assert.Equal(t, types.StateCold, result.State)
	assert.True(t, result.DataMissing)
	assert.NotEmpty(t, result.Reason)
}

func TestEvaluate_EmptyHourlyWarmDailyStillWarm(t *testing.T) {
	// No hourly data contributes nothing to the freeze check; a complete warm
	// daily window still classifies WARM.
	t0 := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)
	snap := types.ForecastSnapshot{
		Daily: []types.DailySample{
			dayAt(t0, 0, 40, 55),
			dayAt(t0, 1, 41, 56),
		},
	}

	result := Evaluate(snap, testThresholds)

	assert.Equal(t, types.StateWarm, result.State)
}

func TestMinTemp(t *testing.T) {
	t0 := time.Date(2026, 1, 15, 6, 0, 0, 0, time.UTC)

	min, ok := MinTemp([]types.HourlySample{
		hourAt(t0, 0, 30),
		hourAt(t0, 1, 27.5),
		hourAt(t0, 2, 29),
	})
	require.True(t, ok)
	assert.Equal(t, 27.5, min)

	_, ok = MinTemp(nil)
	assert.False(t, ok)
}
