package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"StaminaSentinel/internal/model"
	"StaminaSentinel/internal/projection"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func resinSnap(current int) model.ResourceSnapshot {
	return model.ResourceSnapshot{
		GameID:  "genshin",
		Type:    "resin",
		Kind:    model.KindStamina,
		Current: current,
		Max:     160,
		FullAt:  t0.Add(2 * time.Hour),
	}
}

func evalAt(e *Evaluator, snap model.ResourceSnapshot, policy model.ResourceNotificationConfig, at time.Time) bool {
	return e.Evaluate(snap, projection.Project(snap, at.UnixMilli()), policy, at.UnixMilli())
}

func TestEvaluate_Disabled(t *testing.T) {
	e := NewEvaluator()
	policy := model.ResourceNotificationConfig{Enabled: false, NotifyAtValue: intPtr(1)}
	assert.False(t, evalAt(e, resinSnap(160), policy, t0))
}

func TestEvaluate_ValueTriggerFiresImmediately(t *testing.T) {
	// End-to-end: 140/160, full in 2h, notify at 140 → fires on first
	// evaluation since current >= threshold.
	e := NewEvaluator()
	policy := model.ResourceNotificationConfig{Enabled: true, NotifyAtValue: intPtr(140), CooldownMinutes: 30}

	snap := resinSnap(140)
	proj := projection.Project(snap, t0.UnixMilli())
	assert.Equal(t, int64(7200), proj.RemainingSeconds)
	assert.False(t, proj.Complete())

	assert.True(t, e.Evaluate(snap, proj, policy, t0.UnixMilli()))
}

func TestEvaluate_ValueTriggerBelowThreshold(t *testing.T) {
	e := NewEvaluator()
	policy := model.ResourceNotificationConfig{Enabled: true, NotifyAtValue: intPtr(140)}
	assert.False(t, evalAt(e, resinSnap(139), policy, t0))
}

func TestEvaluate_MinutesBeforeFullTrigger(t *testing.T) {
	e := NewEvaluator()
	policy := model.ResourceNotificationConfig{Enabled: true, NotifyMinutesBeforeFull: intPtr(30), CooldownMinutes: 60}

	// 2h remaining > 30min window: no fire.
	assert.False(t, evalAt(e, resinSnap(100), policy, t0))

	// 25min remaining: fires.
	assert.True(t, evalAt(e, resinSnap(100), policy, t0.Add(95*time.Minute)))
}

func TestEvaluate_ValueWinsWhenBothSet(t *testing.T) {
	// A stored config may carry both trigger fields; the value trigger is
	// authoritative.
	e := NewEvaluator()
	policy := model.ResourceNotificationConfig{
		Enabled:                 true,
		NotifyAtValue:           intPtr(150),
		NotifyMinutesBeforeFull: intPtr(600), // would match immediately
	}
	assert.False(t, evalAt(e, resinSnap(100), policy, t0))
	assert.True(t, evalAt(e, resinSnap(150), policy, t0))
}

func TestEvaluate_MalformedStaminaPolicyNeverFires(t *testing.T) {
	e := NewEvaluator()
	policy := model.ResourceNotificationConfig{Enabled: true} // no trigger field
	assert.False(t, evalAt(e, resinSnap(160), policy, t0))
}

func TestEvaluate_CooldownZeroFiresOnceEver(t *testing.T) {
	e := NewEvaluator()
	policy := model.ResourceNotificationConfig{Enabled: true, NotifyAtValue: intPtr(100), CooldownMinutes: 0}

	snap := resinSnap(150)
	assert.True(t, evalAt(e, snap, policy, t0), "first evaluation fires")
	assert.False(t, evalAt(e, snap, policy, t0.Add(time.Minute)))
	assert.False(t, evalAt(e, snap, policy, t0.Add(24*time.Hour)), "never re-arms")

	// Even a fresh rising edge stays consumed.
	assert.False(t, evalAt(e, resinSnap(50), policy, t0.Add(25*time.Hour)))
	assert.False(t, evalAt(e, resinSnap(150), policy, t0.Add(26*time.Hour)))
}

func TestEvaluate_CooldownRearm(t *testing.T) {
	e := NewEvaluator()
	policy := model.ResourceNotificationConfig{Enabled: true, NotifyAtValue: intPtr(100), CooldownMinutes: 30}
	snap := resinSnap(150)

	assert.True(t, evalAt(e, snap, policy, t0), "fires at t=0")
	assert.False(t, evalAt(e, snap, policy, t0.Add(29*time.Minute)), "cooldown window still open")
	assert.True(t, evalAt(e, snap, policy, t0.Add(31*time.Minute)), "re-arms after the window")
}

func TestEvaluate_RisingEdgeInsideCooldownWaits(t *testing.T) {
	e := NewEvaluator()
	policy := model.ResourceNotificationConfig{Enabled: true, NotifyAtValue: intPtr(100), CooldownMinutes: 30}

	assert.True(t, evalAt(e, resinSnap(150), policy, t0))
	// Condition drops, then rises again inside the cooldown window: the
	// fresh edge does not bypass the cooldown.
	assert.False(t, evalAt(e, resinSnap(50), policy, t0.Add(5*time.Minute)))
	assert.False(t, evalAt(e, resinSnap(150), policy, t0.Add(10*time.Minute)))
	assert.True(t, evalAt(e, resinSnap(150), policy, t0.Add(31*time.Minute)))
}

func TestEvaluate_CooldownResourceFiresOnReady(t *testing.T) {
	e := NewEvaluator()
	// Trigger fields are ignored for cooldown resources.
	policy := model.ResourceNotificationConfig{Enabled: true, NotifyAtValue: intPtr(9999), CooldownMinutes: 60}

	waiting := model.ResourceSnapshot{GameID: "genshin", Type: "parametric_transformer", Kind: model.KindCooldown, ReadyAt: t0.Add(time.Hour)}
	assert.False(t, evalAt(e, waiting, policy, t0))
	assert.True(t, evalAt(e, waiting, policy, t0.Add(61*time.Minute)))
}

func TestEvaluate_ExpeditionIdleNeverFires(t *testing.T) {
	e := NewEvaluator()
	policy := model.ResourceNotificationConfig{Enabled: true, CooldownMinutes: 30}

	idle := model.ResourceSnapshot{GameID: "starrail", Type: "assignment", Kind: model.KindExpedition, CurrentExpeditions: 0}
	assert.False(t, evalAt(e, idle, policy, t0))

	running := model.ResourceSnapshot{GameID: "starrail", Type: "assignment", Kind: model.KindExpedition, CurrentExpeditions: 2, EarliestFinishAt: t0.Add(time.Minute)}
	assert.False(t, evalAt(e, running, policy, t0))
	assert.True(t, evalAt(e, running, policy, t0.Add(2*time.Minute)))
}

func TestResetResource_RearmsFireOnce(t *testing.T) {
	e := NewEvaluator()
	policy := model.ResourceNotificationConfig{Enabled: true, NotifyAtValue: intPtr(100), CooldownMinutes: 0}
	snap := resinSnap(150)

	assert.True(t, evalAt(e, snap, policy, t0))
	assert.False(t, evalAt(e, snap, policy, t0.Add(time.Minute)))

	// Policy edits reset the state, so the one shot is available again.
	e.ResetResource("genshin", "resin")
	assert.True(t, evalAt(e, snap, policy, t0.Add(2*time.Minute)))
}

func TestLastFiredAt(t *testing.T) {
	e := NewEvaluator()
	policy := model.ResourceNotificationConfig{Enabled: true, NotifyAtValue: intPtr(100), CooldownMinutes: 30}

	assert.Zero(t, e.LastFiredAt("genshin", "resin"))
	evalAt(e, resinSnap(150), policy, t0)
	assert.Equal(t, t0.UnixMilli(), e.LastFiredAt("genshin", "resin"))
}
