package types

import "fmt"

// ThermalState is the believed physical condition relevant to heater
// operation. Only COLD and WARM are ever persisted; an unresolvable forecast
// is normalized to COLD by the evaluator before it becomes a state.
type ThermalState string

const (
	StateCold ThermalState = "COLD"
	StateWarm ThermalState = "WARM"
)

// StateUnknownLabel is the display label used by diagnostic output when the
// forecast-derived state could not be resolved. It is never a ThermalState.
const StateUnknownLabel = "UNKNOWN"

// TransitionAction describes what the transition engine decided.
type TransitionAction string

const (
	// ActionNone means the classified state matches the stored state: no
	// alert, no write.
	ActionNone TransitionAction = "NONE"
	// ActionInitialize means no state had been stored yet (first run).
	ActionInitialize TransitionAction = "INITIALIZE"
	// ActionTransition means the classified state differs from the stored one.
	ActionTransition TransitionAction = "TRANSITION"
)

// AlertKind selects the notification template.
type AlertKind string

const (
	AlertCold AlertKind = "COLD"
	AlertWarm AlertKind = "WARM"
	AlertTest AlertKind = "TEST"
)

// Mode is the invocation mode supplied by the trigger event.
type Mode string

const (
	// ModeNormal runs the full fetch/classify/decide/enact cycle.
	ModeNormal Mode = "NORMAL"
	// ModeTest sends a status email and a wiring-check SMS; never writes state.
	ModeTest Mode = "TEST"
	// ModeTestSMSOnly sends only the wiring-check SMS.
	ModeTestSMSOnly Mode = "TEST_SMS_ONLY"
	// ModeTestCold runs the cold-alert path against a simulated freezing
	// forecast; never writes state.
	ModeTestCold Mode = "TEST_COLD"
	// ModeTestWarm runs the warm-alert path against a simulated warm
	// forecast; never writes state.
	ModeTestWarm Mode = "TEST_WARM"
)

// ParseMode maps the raw event mode string to a Mode. The empty string means
// NORMAL; anything else unrecognized is a validation error.
func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case "":
		return ModeNormal, nil
	case ModeNormal, ModeTest, ModeTestSMSOnly, ModeTestCold, ModeTestWarm:
		return Mode(raw), nil
	default:
		return "", NewAppError(ErrCodeConfig, fmt.Sprintf("unrecognized invocation mode %q", raw), nil)
	}
}

// Simulated reports whether the mode must never enact a persistence write.
func (m Mode) Simulated() bool {
	return m != ModeNormal
}
