// Package projection maps point-in-time resource snapshots onto live
// countdowns. Project is pure and deterministic; callers re-run it on every
// tick advance and on every snapshot replacement.
package projection

import (
	"time"

	"StaminaSentinel/internal/model"
)

// Project computes the remaining duration and completion state of a snapshot
// as of nowMillis (milliseconds since epoch).
//
// Absent or unparseable timestamps (zero time.Time) collapse to "complete":
// an incorrect "ready" reading is less harmful than a negative countdown, so
// malformed input never surfaces as an error.
func Project(snap model.ResourceSnapshot, nowMillis int64) model.Projection {
	switch snap.Kind {
	case model.KindStamina:
		// A full snapshot is complete regardless of what full_at claims.
		if snap.Current >= snap.Max {
			return model.Projection{State: model.StateComplete}
		}
		return countdownTo(snap.FullAt, nowMillis)

	case model.KindCooldown:
		if snap.IsReady {
			return model.Projection{State: model.StateComplete}
		}
		return countdownTo(snap.ReadyAt, nowMillis)

	case model.KindExpedition:
		if snap.CurrentExpeditions == 0 {
			return model.Projection{State: model.StateIdle}
		}
		return countdownTo(snap.EarliestFinishAt, nowMillis)
	}

	// Unknown kind: nothing to count down.
	return model.Projection{State: model.StateComplete}
}

func countdownTo(target time.Time, nowMillis int64) model.Projection {
	if target.IsZero() {
		return model.Projection{State: model.StateComplete}
	}
	remaining := (target.UnixMilli() - nowMillis) / 1000
	if remaining <= 0 {
		return model.Projection{State: model.StateComplete, CompletesAt: target}
	}
	return model.Projection{
		RemainingSeconds: remaining,
		State:            model.StateCounting,
		CompletesAt:      target,
	}
}
