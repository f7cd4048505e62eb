// Package alert renders transition decisions and their evidence into
// channel-agnostic notification content: an email subject and body plus a
// short SMS text. Rendering is pure text composition — no network, storage,
// or clock access — so it can be exercised with literal evidence fixtures.
package alert

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
	"time"

	"freezewatch/internal/evaluate"
	"freezewatch/internal/types"
)

//go:embed templates/*.txt
var templateFS embed.FS

// StatusReportDays is the fixed daily horizon for the TEST status report.
// Intentionally longer than the configured warm-clear window; the extra days
// are purely informational.
const StatusReportDays = 10

// Content is the rendered, channel-agnostic alert.
type Content struct {
	Subject string
	Body    string
	SMSText string
}

// RendererConfig holds the parameters needed to construct a Renderer.
type RendererConfig struct {
	// Timezone is the IANA zone name used for human-readable timestamps,
	// e.g. "America/Chicago".
	Timezone string
	// Thresholds provides the values echoed into alert bodies.
	Thresholds types.ThresholdConfig
}

// Renderer renders alert content from embedded text templates.
type Renderer struct {
	templates  *template.Template
	loc        *time.Location
	thresholds types.ThresholdConfig
}

// NewRenderer parses the embedded templates and resolves the display
// timezone. Returns an error if either fails.
func NewRenderer(cfg RendererConfig) (*Renderer, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("alert: invalid timezone %q: %w", cfg.Timezone, err)
	}

	funcs := template.FuncMap{
		"temp": func(f float64) string { return fmt.Sprintf("%.1f", f) },
	}

	tmpl, err := template.New("alert").Funcs(funcs).ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("alert: failed to parse templates: %w", err)
	}

	return &Renderer{
		templates:  tmpl,
		loc:        loc,
		thresholds: cfg.Thresholds,
	}, nil
}

// coldData feeds the cold.txt template.
type coldData struct {
	HoursAhead       int
	FreezeThresholdF float64
	FreezeHourCount  int
	MinTempF         float64
	Start            string
	End              string
}

// warmData feeds the warm.txt template.
type warmData struct {
	HoursAhead       int
	WarmClearDays    int
	FreezeThresholdF float64
	WarmThresholdF   float64
	Days             []warmDay
}

type warmDay struct {
	Date     string
	MinTempF float64
}

// statusData feeds the status.txt template.
type statusData struct {
	HoursAhead       int
	WarmClearDays    int
	FreezeThresholdF float64
	WarmThresholdF   float64
	LastState        string
	CurrentState     string
	ShortTermLine    string
	FreezeHourCount  int
	ReportDays       int
	Days             []statusDay
}

type statusDay struct {
	Date     string
	MinTempF float64
	MaxTempF float64
	Tag      string
}

// RenderCold renders the freeze alert from the qualifying hours. The hours
// slice must be non-empty; the caller supplies a representative sample when
// the classification defaulted to COLD without specific freeze hours.
func (r *Renderer) RenderCold(hours []types.HourlySample) (Content, error) {
	if len(hours) == 0 {
		return Content{}, fmt.Errorf("alert: cold alert requires at least one evidence hour")
	}

	minTemp, _ := evaluate.MinTemp(hours)
	start := r.formatTime(hours[0].Time)
	end := r.formatTime(hours[len(hours)-1].Time)

	body, err := r.execute("cold.txt", coldData{
		HoursAhead:       r.thresholds.HoursAhead,
		FreezeThresholdF: r.thresholds.FreezeThresholdF,
		FreezeHourCount:  len(hours),
		MinTempF:         minTemp,
		Start:            start,
		End:              end,
	})
	if err != nil {
		return Content{}, err
	}

	sms := fmt.Sprintf(
		"Freeze alert: forecast low %.1f°F in the next %d hours (%s to %s). Turn bathroom heaters ON.",
		minTemp, r.thresholds.HoursAhead, start, end,
	)

	return Content{
		Subject: "Cold Alert: Turn ON Bathroom Heaters",
		Body:    body,
		SMSText: sms,
	}, nil
}

// RenderWarm renders the warm-clear alert from the qualifying days.
func (r *Renderer) RenderWarm(days []types.DailySample) (Content, error) {
	data := warmData{
		HoursAhead:       r.thresholds.HoursAhead,
		WarmClearDays:    r.thresholds.WarmClearDays,
		FreezeThresholdF: r.thresholds.FreezeThresholdF,
		WarmThresholdF:   r.thresholds.WarmThresholdF,
	}
	for _, d := range days {
		data.Days = append(data.Days, warmDay{
			Date:     r.formatDate(d.Date),
			MinTempF: d.MinTempF,
		})
	}

	body, err := r.execute("warm.txt", data)
	if err != nil {
		return Content{}, err
	}

	sms := fmt.Sprintf(
		"Warm-clear alert: next %d night(s) have lows at or above %.1f°F. Safe to turn bathroom heaters OFF.",
		r.thresholds.WarmClearDays, r.thresholds.WarmThresholdF,
	)

	return Content{
		Subject: "Warm Alert: Turn OFF Bathroom Heaters",
		Body:    body,
		SMSText: sms,
	}, nil
}

// RenderStatus renders the TEST status report: stored vs classified state
// side by side, the hourly summary, and the daily forecast for the fixed
// reporting horizon.
//
// lastState is the display label for the stored state; pass "None (initial
// run)" when absent. currentState may be the UNKNOWN label when the forecast
// had no hourly data.
func (r *Renderer) RenderStatus(lastState, currentState string, snapshot types.ForecastSnapshot) (Content, error) {
	data := statusData{
		HoursAhead:       r.thresholds.HoursAhead,
		WarmClearDays:    r.thresholds.WarmClearDays,
		FreezeThresholdF: r.thresholds.FreezeThresholdF,
		WarmThresholdF:   r.thresholds.WarmThresholdF,
		LastState:        lastState,
		CurrentState:     currentState,
		ShortTermLine:    "No hourly data available.",
		ReportDays:       StatusReportDays,
	}

	window := snapshot.Hourly
	if r.thresholds.HoursAhead > 0 && len(window) > r.thresholds.HoursAhead {
		window = window[:r.thresholds.HoursAhead]
	}
	if len(window) > 0 {
		min := window[0].TempF
		max := window[0].TempF
		for _, h := range window[1:] {
			if h.TempF < min {
				min = h.TempF
			}
			if h.TempF > max {
				max = h.TempF
			}
		}
		data.ShortTermLine = fmt.Sprintf(
			"Next %d hourly points: min %.1f°F, max %.1f°F (threshold: %.1f°F)",
			len(window), min, max, r.thresholds.FreezeThresholdF,
		)
		data.FreezeHourCount = len(evaluate.FreezeHours(window, r.thresholds))
	}

	days := snapshot.Daily
	if len(days) > StatusReportDays {
		days = days[:StatusReportDays]
	}
	for _, d := range days {
		tag := ""
		if d.MinTempF <= r.thresholds.FreezeThresholdF {
			tag = " (below freeze threshold)"
		} else if d.MinTempF < r.thresholds.WarmThresholdF {
			tag = " (below warm-clear threshold)"
		}
		data.Days = append(data.Days, statusDay{
			Date:     r.formatDate(d.Date),
			MinTempF: d.MinTempF,
			MaxTempF: d.MaxTempF,
			Tag:      tag,
		})
	}

	body, err := r.execute("status.txt", data)
	if err != nil {
		return Content{}, err
	}

	return Content{
		Subject: "Test Alert: Freeze Monitor Status",
		Body:    body,
		SMSText: TestSMSText,
	}, nil
}

// TestSMSText is the fixed wiring-check SMS sent by the test modes.
const TestSMSText = "TEST SMS from the freeze monitor: SNS wiring is working."

// execute runs the named template against data.
func (r *Renderer) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("alert: failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

// formatTime renders a timestamp in the configured local zone.
func (r *Renderer) formatTime(t time.Time) string {
	return t.In(r.loc).Format("2006-01-02 03:04 PM MST")
}

// formatDate renders a date-only timestamp in the configured local zone.
func (r *Renderer) formatDate(t time.Time) string {
	return t.In(r.loc).Format("2006-01-02")
}
