// Package notify decides when threshold notifications fire and delivers them.
package notify

import (
	"sync"

	"StaminaSentinel/internal/model"
)

// firingState is the per-resource runtime record backing cooldown and
// fire-once semantics. Created lazily on first evaluation, kept for the
// process lifetime, never persisted.
type firingState struct {
	lastFiredAt   int64 // millis, 0 = never fired
	onceConsumed  bool  // set when a cooldown-0 policy has fired its one shot
	lastCondition bool
}

// Evaluator applies notification policies to projections. It is safe for
// concurrent use, though the scheduler drives it from a single goroutine so
// each logical update is evaluated exactly once.
type Evaluator struct {
	mu     sync.Mutex
	states map[string]*firingState
}

// NewEvaluator creates an Evaluator with no firing history.
func NewEvaluator() *Evaluator {
	return &Evaluator{states: make(map[string]*firingState)}
}

// Evaluate decides whether a notification should fire now for one resource,
// updating firing state on fire. Malformed policies (disabled, or a stamina
// policy with no trigger field) never fire; notifications are best-effort UX,
// not correctness-critical.
//
// With a positive cooldown, a condition that stays continuously satisfied
// re-fires once per elapsed cooldown window. A cooldown of zero fires once
// ever, until the policy is edited or the process restarts.
func (e *Evaluator) Evaluate(snap model.ResourceSnapshot, proj model.Projection, policy model.ResourceNotificationConfig, nowMillis int64) bool {
	if !policy.Enabled {
		return false
	}

	cond := condition(snap, proj, policy)

	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.stateLocked(snap.GameID, snap.Type)
	if !cond {
		st.lastCondition = false
		return false
	}
	st.lastCondition = true

	switch {
	case st.lastFiredAt == 0:
		// Never fired: the entry into the condition is the first edge.
	case policy.CooldownMinutes == 0:
		if st.onceConsumed {
			return false
		}
	default:
		if nowMillis-st.lastFiredAt < int64(policy.CooldownMinutes)*60_000 {
			return false
		}
	}

	st.lastFiredAt = nowMillis
	if policy.CooldownMinutes == 0 {
		st.onceConsumed = true
	}
	return true
}

// condition reports whether the policy's trigger is satisfied, ignoring
// cooldown and firing history.
func condition(snap model.ResourceSnapshot, proj model.Projection, policy model.ResourceNotificationConfig) bool {
	if snap.Kind != model.KindStamina {
		// Cooldown and expedition resources fire on readiness and ignore
		// the trigger-value fields. Idle expeditions never satisfy.
		return proj.Complete()
	}

	// When a stored config carries both trigger fields, the value trigger is
	// authoritative.
	if policy.NotifyAtValue != nil {
		return snap.Current >= *policy.NotifyAtValue
	}
	if policy.NotifyMinutesBeforeFull != nil {
		return proj.RemainingSeconds <= int64(*policy.NotifyMinutesBeforeFull)*60
	}
	return false
}

// ResetResource clears the firing state for one resource. Called when its
// policy is edited so cooldowns and fire-once re-arm against the new policy.
func (e *Evaluator) ResetResource(gameID, resourceType string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.states, stateKey(gameID, resourceType))
}

// LastFiredAt returns when the resource last fired, zero if never.
func (e *Evaluator) LastFiredAt(gameID, resourceType string) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if st, ok := e.states[stateKey(gameID, resourceType)]; ok {
		return st.lastFiredAt
	}
	return 0
}

func (e *Evaluator) stateLocked(gameID, resourceType string) *firingState {
	key := stateKey(gameID, resourceType)
	st, ok := e.states[key]
	if !ok {
		st = &firingState{}
		e.states[key] = st
	}
	return st
}

func stateKey(gameID, resourceType string) string {
	return gameID + "/" + resourceType
}
