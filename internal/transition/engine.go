// Package transition implements the state machine that decides whether a
// fresh classification constitutes a transition against the last persisted
// state.
//
// Decide is pure and advisory: it never performs the persistence write or the
// alert dispatch itself. The monitor Runner enacts the decision, which lets
// diagnostic modes reuse identical logic with writes and sends stubbed out.
package transition

import "freezewatch/internal/types"

// Decide compares the evaluator's output against the last persisted state.
//
//   - No stored state (first run): INITIALIZE with an alert for the initial
//     classification, so the operator knows where the FSM starts.
//   - Stored state equals the classification: NONE. No alert, no write. This
//     is what makes repeated scheduled checks silent between real changes.
//   - Otherwise: TRANSITION with an alert for the new state.
//
// For fixed inputs Decide is deterministic with no side effects, so the NONE
// path is provably safe to take on every scheduled invocation.
func Decide(current types.EvaluationResult, persisted types.PersistedState) types.TransitionDecision {
	if persisted.Last == nil {
		return types.TransitionDecision{
			Action:    types.ActionInitialize,
			NewState:  current.State,
			AlertKind: types.AlertKind(current.State),
		}
	}

	if *persisted.Last == current.State {
		return types.TransitionDecision{Action: types.ActionNone}
	}

	return types.TransitionDecision{
		Action:    types.ActionTransition,
		NewState:  current.State,
		AlertKind: types.AlertKind(current.State),
	}
}
