package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"StaminaSentinel/internal/model"
)

var base = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestProject_StaminaCountdown(t *testing.T) {
	snap := model.ResourceSnapshot{
		GameID:           "genshin",
		Type:             "resin",
		Kind:             model.KindStamina,
		Current:          140,
		Max:              160,
		FullAt:           base.Add(2 * time.Hour),
		RegenRateSeconds: 480,
	}

	p := Project(snap, base.UnixMilli())
	assert.Equal(t, int64(7200), p.RemainingSeconds)
	assert.Equal(t, model.StateCounting, p.State)
	assert.False(t, p.Complete())
	assert.Equal(t, snap.FullAt, p.CompletesAt)
}

func TestProject_StaminaMonotonic(t *testing.T) {
	snap := model.ResourceSnapshot{
		Kind:    model.KindStamina,
		Current: 10,
		Max:     100,
		FullAt:  base.Add(90 * time.Minute),
	}

	prev := int64(1 << 62)
	for offset := time.Duration(0); offset <= 2*time.Hour; offset += 7 * time.Second {
		p := Project(snap, base.Add(offset).UnixMilli())
		assert.LessOrEqual(t, p.RemainingSeconds, prev, "remaining must never increase")
		assert.GreaterOrEqual(t, p.RemainingSeconds, int64(0))
		prev = p.RemainingSeconds
	}

	// Exactly at full_at the countdown is zero and complete, and stays so.
	at := Project(snap, snap.FullAt.UnixMilli())
	assert.Equal(t, int64(0), at.RemainingSeconds)
	assert.True(t, at.Complete())
	after := Project(snap, snap.FullAt.Add(time.Hour).UnixMilli())
	assert.True(t, after.Complete())
}

func TestProject_StaminaAlreadyFull(t *testing.T) {
	// current >= max wins over any full_at value, future or malformed.
	tests := []struct {
		name   string
		fullAt time.Time
	}{
		{"future full_at", base.Add(24 * time.Hour)},
		{"past full_at", base.Add(-time.Hour)},
		{"absent full_at", time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := model.ResourceSnapshot{Kind: model.KindStamina, Current: 160, Max: 160, FullAt: tt.fullAt}
			p := Project(snap, base.UnixMilli())
			assert.True(t, p.Complete())
			assert.Equal(t, int64(0), p.RemainingSeconds)
		})
	}
}

func TestProject_StaminaMalformedTimestamp(t *testing.T) {
	snap := model.ResourceSnapshot{Kind: model.KindStamina, Current: 50, Max: 160}
	p := Project(snap, base.UnixMilli())
	assert.True(t, p.Complete(), "absent full_at is fail-safe complete")
}

func TestProject_Cooldown(t *testing.T) {
	readyAt := base.Add(30 * time.Minute)

	counting := Project(model.ResourceSnapshot{Kind: model.KindCooldown, ReadyAt: readyAt}, base.UnixMilli())
	assert.Equal(t, model.StateCounting, counting.State)
	assert.Equal(t, int64(1800), counting.RemainingSeconds)

	// is_ready overrides a future ready_at.
	ready := Project(model.ResourceSnapshot{Kind: model.KindCooldown, IsReady: true, ReadyAt: readyAt}, base.UnixMilli())
	assert.True(t, ready.Complete())
	assert.Equal(t, int64(0), ready.RemainingSeconds)

	absent := Project(model.ResourceSnapshot{Kind: model.KindCooldown}, base.UnixMilli())
	assert.True(t, absent.Complete())
}

func TestProject_ExpeditionIdle(t *testing.T) {
	snap := model.ResourceSnapshot{
		Kind:               model.KindExpedition,
		CurrentExpeditions: 0,
		MaxExpeditions:     5,
		EarliestFinishAt:   base.Add(time.Hour),
	}
	p := Project(snap, base.UnixMilli())
	assert.Equal(t, model.StateIdle, p.State)
	assert.False(t, p.Complete(), "idle is never complete")
	assert.Equal(t, int64(0), p.RemainingSeconds, "idle has no countdown")
}

func TestProject_ExpeditionCounting(t *testing.T) {
	snap := model.ResourceSnapshot{
		Kind:               model.KindExpedition,
		CurrentExpeditions: 3,
		MaxExpeditions:     5,
		EarliestFinishAt:   base.Add(45 * time.Minute),
	}
	p := Project(snap, base.UnixMilli())
	assert.Equal(t, model.StateCounting, p.State)
	assert.Equal(t, int64(2700), p.RemainingSeconds)

	done := Project(snap, base.Add(time.Hour).UnixMilli())
	assert.True(t, done.Complete())
}

func TestProject_RemainingFloors(t *testing.T) {
	snap := model.ResourceSnapshot{Kind: model.KindCooldown, ReadyAt: base.Add(1500 * time.Millisecond)}
	p := Project(snap, base.UnixMilli())
	assert.Equal(t, int64(1), p.RemainingSeconds)
}
