// Package wizard implements ordered multi-step data-collection flows on top
// of the session manager. A Flow names its steps; the Engine walks an operator
// through them, remembering answers as session temp values so any Manager
// backend (memory or Redis) can hold a half-finished dialogue.
package wizard

import (
	"errors"

	"shopbot/core/telegram/state"
)

// KeepCurrent is the reply an operator sends to keep the edited record's
// existing value for the current step. It only works when an edit target was
// set before the flow started.
const KeepCurrent = "."

// ErrNoDefault is returned by Resolve when KeepCurrent is entered outside of
// an edit, where no previous value exists.
var ErrNoDefault = errors.New("wizard: no previous value to keep")

// Step is a single question of a flow. Field keys the collected answer;
// Prompt is what the operator sees when the step begins.
type Step struct {
	State  state.State
	Field  string
	Prompt string
}

// Flow is an ordered list of steps ending in a commit performed by the caller.
type Flow struct {
	Name  string
	Steps []Step
}

// Engine drives one flow for many operators, each identified by user id.
type Engine struct {
	flow Flow
	mgr  state.Manager
}

func New(flow Flow, mgr state.Manager) *Engine {
	return &Engine{flow: flow, mgr: mgr}
}

func (e *Engine) Flow() Flow { return e.flow }

const (
	tempValuePrefix  = "wizard:"
	tempTargetPrefix = "target:"
	tempTargetID     = "target:id"
)

// Start moves the operator to the first step, dropping answers left over from
// an abandoned run. An edit target set beforehand survives.
func (e *Engine) Start(userID int64) Step {
	for _, s := range e.flow.Steps {
		e.mgr.ClearTemp(userID, tempValuePrefix+s.Field)
	}
	first := e.flow.Steps[0]
	e.mgr.SetState(userID, first.State)
	return first
}

// Active reports whether the operator's current state belongs to this flow.
func (e *Engine) Active(userID int64) bool {
	_, ok := e.step(e.mgr.GetState(userID))
	return ok
}

// Current returns the step matching the operator's state.
func (e *Engine) Current(userID int64) (Step, bool) {
	return e.step(e.mgr.GetState(userID))
}

// SetValue records the answer for a field.
func (e *Engine) SetValue(userID int64, field, value string) {
	e.mgr.SetTemp(userID, tempValuePrefix+field, value)
}

// Value returns the recorded answer for a field.
func (e *Engine) Value(userID int64, field string) (string, bool) {
	v, ok := e.mgr.GetTemp(userID, tempValuePrefix+field)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Values returns every recorded answer keyed by field.
func (e *Engine) Values(userID int64) map[string]string {
	out := make(map[string]string, len(e.flow.Steps))
	for _, s := range e.flow.Steps {
		if v, ok := e.Value(userID, s.Field); ok {
			out[s.Field] = v
		}
	}
	return out
}

// Resolve turns raw operator input into the answer for a field: KeepCurrent
// is swapped for the edit target's stored value, anything else passes
// through unchanged.
func (e *Engine) Resolve(userID int64, field, input string) (string, error) {
	if input != KeepCurrent {
		return input, nil
	}
	if def, ok := e.TargetDefault(userID, field); ok {
		return def, nil
	}
	return "", ErrNoDefault
}

// Advance moves to the next step. After the final step it reports done=true
// and leaves the state untouched so the caller can commit and then Finish.
func (e *Engine) Advance(userID int64) (Step, bool) {
	i := e.index(e.mgr.GetState(userID))
	if i < 0 || i == len(e.flow.Steps)-1 {
		return Step{}, true
	}
	next := e.flow.Steps[i+1]
	e.mgr.SetState(userID, next.State)
	return next, false
}

// Back returns to the previous step. From the first step it reports false
// and stays put.
func (e *Engine) Back(userID int64) (Step, bool) {
	i := e.index(e.mgr.GetState(userID))
	if i <= 0 {
		return e.flow.Steps[0], false
	}
	prev := e.flow.Steps[i-1]
	e.mgr.SetState(userID, prev.State)
	return prev, true
}

// SetTarget marks an existing record as the edit target: subsequent
// KeepCurrent replies resolve to the given per-field defaults.
func (e *Engine) SetTarget(userID, id int64, defaults map[string]string) {
	e.mgr.SetTemp(userID, tempTargetID, id)
	for field, value := range defaults {
		e.mgr.SetTemp(userID, tempTargetPrefix+field, value)
	}
}

// Target returns the edit target's record id, if one is set.
func (e *Engine) Target(userID int64) (int64, bool) {
	return e.mgr.GetTempInt64(userID, tempTargetID)
}

// TargetDefault returns the edit target's stored value for a field.
func (e *Engine) TargetDefault(userID int64, field string) (string, bool) {
	v, ok := e.mgr.GetTemp(userID, tempTargetPrefix+field)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Cancel abandons the flow: answers, edit target and state are all dropped.
func (e *Engine) Cancel(userID int64) {
	e.reset(userID)
}

// Finish clears the flow after a successful commit.
func (e *Engine) Finish(userID int64) {
	e.reset(userID)
}

func (e *Engine) reset(userID int64) {
	for _, s := range e.flow.Steps {
		e.mgr.ClearTemp(userID, tempValuePrefix+s.Field)
		e.mgr.ClearTemp(userID, tempTargetPrefix+s.Field)
	}
	e.mgr.ClearTemp(userID, tempTargetID)
	e.mgr.ClearState(userID)
}

func (e *Engine) step(st state.State) (Step, bool) {
	if i := e.index(st); i >= 0 {
		return e.flow.Steps[i], true
	}
	return Step{}, false
}

func (e *Engine) index(st state.State) int {
	for i, s := range e.flow.Steps {
		if s.State == st {
			return i
		}
	}
	return -1
}
