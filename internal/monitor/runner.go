// Package monitor implements the effect shell around the pure evaluate/
// transition/alert core. The Runner owns one invocation: fetch forecast, read
// state, classify, decide, then enact the decision (dispatch + persist) or,
// in diagnostic modes, report it without enacting.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"freezewatch/internal/alert"
	"freezewatch/internal/evaluate"
	"freezewatch/internal/transition"
	"freezewatch/internal/types"
)

// ForecastProvider supplies a forecast snapshot for a coordinate. Empty
// hourly/daily sequences are valid results; provider errors are surfaced to
// the Runner, not swallowed.
type ForecastProvider interface {
	Fetch(ctx context.Context, lat, lon float64) (types.ForecastSnapshot, error)
}

// StateStore reads and writes the persisted thermal state.
type StateStore interface {
	Read(ctx context.Context) (types.PersistedState, error)
	Write(ctx context.Context, state types.ThermalState) error
}

// EmailDispatcher delivers rendered alert emails.
type EmailDispatcher interface {
	Send(ctx context.Context, subject, body string) error
}

// SMSDispatcher delivers rendered SMS texts. Optional collaborator: a nil
// dispatcher means the channel is not configured and is skipped entirely.
type SMSDispatcher interface {
	Publish(ctx context.Context, subject, text string) error
}

// MetricPublisher records operational metrics. Optional; nil means metrics
// are disabled. Implementations must not fail the invocation.
type MetricPublisher interface {
	RecordTransition(ctx context.Context, kind types.AlertKind)
	RecordDataGap(ctx context.Context)
}

// SMS subject lines, one per alert kind.
const (
	smsSubjectCold = "Freeze Alert"
	smsSubjectWarm = "Warm-Clear Alert"
	smsSubjectTest = "Freeze Monitor TEST"
)

// RunnerConfig holds the collaborators and parameters for a Runner.
type RunnerConfig struct {
	Provider   ForecastProvider
	States     StateStore
	Email      EmailDispatcher
	SMS        SMSDispatcher
	Metrics    MetricPublisher
	Renderer   *alert.Renderer
	Thresholds types.ThresholdConfig
	Latitude   float64
	Longitude  float64
	// Clock returns the invocation time, used to anchor simulated forecasts.
	// Defaults to time.Now.
	Clock  func() time.Time
	Logger *slog.Logger
}

// Runner executes one monitor invocation. It holds no mutable state between
// invocations; all memory lives in the StateStore.
type Runner struct {
	provider   ForecastProvider
	states     StateStore
	email      EmailDispatcher
	sms        SMSDispatcher
	metrics    MetricPublisher
	renderer   *alert.Renderer
	thresholds types.ThresholdConfig
	lat        float64
	lon        float64
	clock      func() time.Time
	logger     *slog.Logger
}

// NewRunner creates a Runner from the given configuration.
func NewRunner(cfg RunnerConfig) *Runner {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		provider:   cfg.Provider,
		states:     cfg.States,
		email:      cfg.Email,
		sms:        cfg.SMS,
		metrics:    cfg.Metrics,
		renderer:   cfg.Renderer,
		thresholds: cfg.Thresholds,
		lat:        cfg.Latitude,
		lon:        cfg.Longitude,
		clock:      clock,
		logger:     logger,
	}
}

// Run executes one invocation in the given mode and returns a human-readable
// outcome message.
func (r *Runner) Run(ctx context.Context, mode types.Mode) (string, error) {
	switch mode {
	case types.ModeTestSMSOnly:
		return r.runTestSMSOnly(ctx)
	case types.ModeTestCold:
		return r.runSimulatedAlert(ctx, types.AlertCold)
	case types.ModeTestWarm:
		return r.runSimulatedAlert(ctx, types.AlertWarm)
	case types.ModeTest:
		return r.runStatus(ctx)
	default:
		return r.runNormal(ctx)
	}
}

// runNormal is the scheduled production path: classify, decide, enact.
//
// Enactment order is dispatch-then-persist. If the email send fails the write
// is skipped, so the same transition is re-detected and re-alerted on the next
// cycle; if the write fails after dispatch the invocation fails for the same
// reason. At-least-once alerting on failure is the accepted trade-off — a
// COLD transition is never silently lost.
func (r *Runner) runNormal(ctx context.Context) (string, error) {
	snapshot, err := r.provider.Fetch(ctx, r.lat, r.lon)
	if err != nil {
		return "", err
	}

	if len(snapshot.Hourly) == 0 {
		if r.metrics != nil {
			r.metrics.RecordDataGap(ctx)
		}
		return "", types.NewAppError(
			types.ErrCodeDataUnavailable,
			"weather provider returned no hourly data; no decision made",
			nil,
		)
	}

	result := evaluate.Evaluate(snapshot, r.thresholds)

	persisted, err := r.states.Read(ctx)
	if err != nil {
		return "", err
	}

	decision := transition.Decide(result, persisted)

	r.logger.InfoContext(ctx, "transition decided",
		"last_state", lastStateLabel(persisted),
		"current_state", string(result.State),
		"action", string(decision.Action),
	)

	if decision.Action == types.ActionNone {
		return fmt.Sprintf("state unchanged (%s); no alert", result.State), nil
	}

	content, err := r.renderAlert(decision.AlertKind, result, snapshot)
	if err != nil {
		return "", types.NewAppError(types.ErrCodeInternal, "failed to render alert", err)
	}

	if err := r.email.Send(ctx, content.Subject, content.Body); err != nil {
		return "", err
	}
	r.dispatchSMS(ctx, decision.AlertKind, content.SMSText)

	if err := r.states.Write(ctx, decision.NewState); err != nil {
		return "", err
	}

	if r.metrics != nil {
		r.metrics.RecordTransition(ctx, decision.AlertKind)
	}

	if decision.Action == types.ActionInitialize {
		return fmt.Sprintf("initial state set to %s; %s alert sent", decision.NewState, decision.NewState), nil
	}
	return fmt.Sprintf("transition to %s; %s alert sent", decision.NewState, decision.NewState), nil
}

// runStatus is the TEST mode: fetch real data, report stored vs classified
// state, and never write. An empty hourly sequence is non-fatal here — the
// report shows UNKNOWN instead of a silently defaulted COLD.
func (r *Runner) runStatus(ctx context.Context) (string, error) {
	snapshot, err := r.provider.Fetch(ctx, r.lat, r.lon)
	if err != nil {
		return "", err
	}

	currentLabel := types.StateUnknownLabel + " (no hourly data)"
	if len(snapshot.Hourly) > 0 {
		result := evaluate.Evaluate(snapshot, r.thresholds)
		currentLabel = string(result.State)
	}

	persisted, err := r.states.Read(ctx)
	if err != nil {
		return "", err
	}

	content, err := r.renderer.RenderStatus(lastStateLabel(persisted), currentLabel, snapshot)
	if err != nil {
		return "", types.NewAppError(types.ErrCodeInternal, "failed to render status report", err)
	}

	if err := r.email.Send(ctx, content.Subject, content.Body); err != nil {
		return "", err
	}
	r.dispatchSMS(ctx, types.AlertTest, content.SMSText)

	return "TEST: status email and test SMS sent; stored state unchanged", nil
}

// runSimulatedAlert is the TEST_COLD / TEST_WARM path: substitute a simulated
// snapshot, run the identical classification and rendering, dispatch the
// alert, and never write.
func (r *Runner) runSimulatedAlert(ctx context.Context, kind types.AlertKind) (string, error) {
	now := r.clock().UTC()

	var snapshot types.ForecastSnapshot
	if kind == types.AlertCold {
		snapshot = simulatedColdSnapshot(now, r.thresholds)
	} else {
		snapshot = simulatedWarmSnapshot(now, r.thresholds)
	}

	result := evaluate.Evaluate(snapshot, r.thresholds)

	content, err := r.renderAlert(kind, result, snapshot)
	if err != nil {
		return "", types.NewAppError(types.ErrCodeInternal, "failed to render simulated alert", err)
	}

	if err := r.email.Send(ctx, content.Subject, content.Body); err != nil {
		return "", err
	}
	r.dispatchSMS(ctx, kind, content.SMSText)

	return fmt.Sprintf("%s: %s alert sent with simulated conditions; stored state unchanged",
		modeNameForKind(kind), result.State), nil
}

// runTestSMSOnly exercises only the SMS wiring.
func (r *Runner) runTestSMSOnly(ctx context.Context) (string, error) {
	if r.sms == nil {
		r.logger.InfoContext(ctx, "SMS topic not configured; nothing to send")
		return "TEST_SMS_ONLY: no SMS topic configured; nothing sent", nil
	}

	if err := r.sms.Publish(ctx, smsSubjectTest, alert.TestSMSText); err != nil {
		return "", err
	}

	return "TEST_SMS_ONLY: test SMS sent", nil
}

// renderAlert renders the alert content for a COLD or WARM kind. A COLD
// classification can arrive without specific freeze hours (the conservative
// default); the first hourly sample then serves as the representative
// evidence, matching what the report period should show.
func (r *Runner) renderAlert(kind types.AlertKind, result types.EvaluationResult, snapshot types.ForecastSnapshot) (alert.Content, error) {
	switch kind {
	case types.AlertCold:
		hours := result.FreezeHours
		if len(hours) == 0 && len(snapshot.Hourly) > 0 {
			hours = snapshot.Hourly[:1]
		}
		return r.renderer.RenderCold(hours)
	case types.AlertWarm:
		return r.renderer.RenderWarm(result.WarmDays)
	default:
		return alert.Content{}, fmt.Errorf("no alert template for kind %q", kind)
	}
}

// dispatchSMS sends the SMS for the given kind. The channel is optional and
// best-effort: a missing dispatcher is skipped and a publish failure is
// logged without failing the invocation (the email already carried the
// alert, and a dispatch failure must not block the persistence write).
func (r *Runner) dispatchSMS(ctx context.Context, kind types.AlertKind, text string) {
	if r.sms == nil {
		r.logger.InfoContext(ctx, "SMS topic not configured; skipping SMS")
		return
	}

	subject := smsSubjectTest
	switch kind {
	case types.AlertCold:
		subject = smsSubjectCold
	case types.AlertWarm:
		subject = smsSubjectWarm
	}

	if err := r.sms.Publish(ctx, subject, text); err != nil {
		r.logger.WarnContext(ctx, "SMS dispatch failed",
			"kind", string(kind),
			"error", err,
		)
	}
}

// lastStateLabel renders the persisted state for logs and status reports.
func lastStateLabel(persisted types.PersistedState) string {
	if persisted.Last == nil {
		return "None (initial run)"
	}
	return string(*persisted.Last)
}

// modeNameForKind maps an alert kind back to its diagnostic mode name for
// outcome messages.
func modeNameForKind(kind types.AlertKind) string {
	if kind == types.AlertCold {
		return string(types.ModeTestCold)
	}
	return string(types.ModeTestWarm)
}
