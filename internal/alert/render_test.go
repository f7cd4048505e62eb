package alert

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freezewatch/internal/types"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(RendererConfig{
		Timezone: "America/Chicago",
		Thresholds: types.ThresholdConfig{
			FreezeThresholdF: 32,
			HoursAhead:       12,
			WarmThresholdF:   35,
			WarmClearDays:    2,
		},
	})
	require.NoError(t, err)
	return r
}

func TestNewRenderer_InvalidTimezone(t *testing.T) {
	_, err := NewRenderer(RendererConfig{Timezone: "Not/AZone"})
	require.Error(t, err)
}

func TestRenderCold(t *testing.T) {
	r := newTestRenderer(t)

	// 2026-01-15 06:00 UTC is midnight Central.
	t0 := time.Date(2026, 1, 15, 6, 0, 0, 0, time.UTC)
	content, err := r.RenderCold([]types.HourlySample{
		{Time: t0, TempF: 30},
		{Time: t0.Add(time.Hour), TempF: 27.5},
		{Time: t0.Add(2 * time.Hour), TempF: 29},
	})
	require.NoError(t, err)

	assert.Equal(t, "Cold Alert: Turn ON Bathroom Heaters", content.Subject)
	assert.Contains(t, content.Body, "Turn ON bathroom heaters")
	assert.Contains(t, content.Body, "Lowest temperature: 27.5°F")
	assert.Contains(t, content.Body, "Found 3 hour(s) at or below threshold")
	assert.Contains(t, content.Body, "2026-01-15 12:00 AM CST to 2026-01-15 02:00 AM CST")
	assert.Contains(t, content.SMSText, "27.5°F")
	assert.Contains(t, content.SMSText, "Turn bathroom heaters ON")
}

func TestRenderCold_NoEvidence(t *testing.T) {
	r := newTestRenderer(t)
	_, err := r.RenderCold(nil)
	require.Error(t, err)
}

func TestRenderWarm(t *testing.T) {
	r := newTestRenderer(t)

	t0 := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)
	content, err := r.RenderWarm([]types.DailySample{
		{Date: t0, MinTempF: 36, MaxTempF: 52},
		{Date: t0.AddDate(0, 0, 1), MinTempF: 37.2, MaxTempF: 54},
	})
	require.NoError(t, err)

	assert.Equal(t, "Warm Alert: Turn OFF Bathroom Heaters", content.Subject)
	assert.Contains(t, content.Body, "Turn OFF bathroom heaters")
	assert.Contains(t, content.Body, "2026-03-10: low 36.0°F")
	assert.Contains(t, content.Body, "2026-03-11: low 37.2°F")
	assert.Contains(t, content.SMSText, "turn bathroom heaters OFF")
}

func TestRenderStatus(t *testing.T) {
	r := newTestRenderer(t)

	t0 := time.Date(2026, 1, 15, 6, 0, 0, 0, time.UTC)
	snap := types.ForecastSnapshot{
		Hourly: []types.HourlySample{
			{Time: t0, TempF: 40},
			{Time: t0.Add(time.Hour), TempF: 30},
		},
		Daily: []types.DailySample{
			{Date: t0, MinTempF: 28, MaxTempF: 45},
			{Date: t0.AddDate(0, 0, 1), MinTempF: 34, MaxTempF: 48},
			{Date: t0.AddDate(0, 0, 2), MinTempF: 40, MaxTempF: 50},
		},
	}

	content, err := r.RenderStatus("COLD", "COLD", snap)
	require.NoError(t, err)

	assert.Equal(t, "Test Alert: Freeze Monitor Status", content.Subject)
	assert.Contains(t, content.Body, "Last stored state: COLD")
	assert.Contains(t, content.Body, "Forecast-derived state: COLD")
	assert.Contains(t, content.Body, "Next 2 hourly points: min 30.0°F, max 40.0°F")
	assert.Contains(t, content.Body, "Hours at/below freeze threshold: 1")
	assert.Contains(t, content.Body, "low 28.0°F, high 45.0°F (below freeze threshold)")
	assert.Contains(t, content.Body, "low 34.0°F, high 48.0°F (below warm-clear threshold)")
	assert.Contains(t, content.Body, "low 40.0°F, high 50.0°F\n")
	assert.Equal(t, TestSMSText, content.SMSText)
}

func TestRenderStatus_EmptySnapshot(t *testing.T) {
	r := newTestRenderer(t)

	content, err := r.RenderStatus("None (initial run)", types.StateUnknownLabel, types.ForecastSnapshot{})
	require.NoError(t, err)

	assert.Contains(t, content.Body, "Last stored state: None (initial run)")
	assert.Contains(t, content.Body, "Forecast-derived state: UNKNOWN")
	assert.Contains(t, content.Body, "No hourly data available.")
	assert.Contains(t, content.Body, "(no daily forecast data available)")
}

func TestRenderStatus_DailyHorizonCapped(t *testing.T) {
	r := newTestRenderer(t)

	t0 := time.Date(2026, 1, 15, 6, 0, 0, 0, time.UTC)
	var daily []types.DailySample
	for i := 0; i < 14; i++ {
		daily = append(daily, types.DailySample{Date: t0.AddDate(0, 0, i), MinTempF: 40, MaxTempF: 50})
	}

	content, err := r.RenderStatus("WARM", "WARM", types.ForecastSnapshot{Daily: daily})
	require.NoError(t, err)

	assert.Equal(t, StatusReportDays, strings.Count(content.Body, "low 40.0°F"))
}
