package monitor

import (
	"time"

	"freezewatch/internal/types"
)

// simulatedColdSnapshot fabricates a forecast that the classifier must call
// COLD: every hour in the alert window sits below the freeze threshold,
// dropping a degree per hour from one below the threshold.
func simulatedColdSnapshot(now time.Time, cfg types.ThresholdConfig) types.ForecastSnapshot {
	start := now.Truncate(time.Hour)

	hourly := make([]types.HourlySample, 0, cfg.HoursAhead)
	for i := 0; i < cfg.HoursAhead; i++ {
		hourly = append(hourly, types.HourlySample{
			Time:  start.Add(time.Duration(i) * time.Hour),
			TempF: cfg.FreezeThresholdF - 1 - float64(i),
		})
	}

	daily := make([]types.DailySample, 0, cfg.WarmClearDays)
	for i := 0; i < cfg.WarmClearDays; i++ {
		daily = append(daily, types.DailySample{
			Date:     start.AddDate(0, 0, i),
			MinTempF: cfg.FreezeThresholdF - 5,
			MaxTempF: cfg.FreezeThresholdF + 10,
		})
	}

	return types.ForecastSnapshot{Hourly: hourly, Daily: daily}
}

// simulatedWarmSnapshot fabricates a forecast that the classifier must call
// WARM: no hour touches the freeze threshold and every day in the clearing
// window keeps its minimum above the warm threshold.
func simulatedWarmSnapshot(now time.Time, cfg types.ThresholdConfig) types.ForecastSnapshot {
	start := now.Truncate(time.Hour)

	hourly := make([]types.HourlySample, 0, cfg.HoursAhead)
	for i := 0; i < cfg.HoursAhead; i++ {
		hourly = append(hourly, types.HourlySample{
			Time:  start.Add(time.Duration(i) * time.Hour),
			TempF: cfg.WarmThresholdF + 5 + float64(i),
		})
	}

	daily := make([]types.DailySample, 0, cfg.WarmClearDays)
	for i := 0; i < cfg.WarmClearDays; i++ {
		daily = append(daily, types.DailySample{
			Date:     start.AddDate(0, 0, i),
			MinTempF: cfg.WarmThresholdF + 3,
			MaxTempF: cfg.WarmThresholdF + 20,
		})
	}

	return types.ForecastSnapshot{Hourly: hourly, Daily: daily}
}
