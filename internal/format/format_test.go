package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"StaminaSentinel/internal/model"
)

func counting(seconds int64) model.Projection {
	return model.Projection{RemainingSeconds: seconds, State: model.StateCounting}
}

func TestRemaining_TwoLargestUnits(t *testing.T) {
	f := New("en", time.UTC)

	tests := []struct {
		name    string
		seconds int64
		want    string
	}{
		{"days and hours", 2*86400 + 4*3600 + 30*60, "2d 4h"},
		{"exact days collapse", 3 * 86400, "3d"},
		{"hours and minutes", 2*3600 + 15*60 + 40, "2h 15m"},
		{"exact hours collapse", 2 * 3600, "2h"},
		{"minutes and seconds", 15*60 + 30, "15m 30s"},
		{"exact minutes collapse", 45 * 60, "45m"},
		{"seconds only", 42, "42s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Remaining(counting(tt.seconds), model.KindStamina))
		})
	}
}

func TestRemaining_CompleteTokens(t *testing.T) {
	f := New("en", time.UTC)
	done := model.Projection{State: model.StateComplete}

	assert.Equal(t, "Full", f.Remaining(done, model.KindStamina))
	assert.Equal(t, "Ready", f.Remaining(done, model.KindCooldown))
	assert.Equal(t, "Ready", f.Remaining(done, model.KindExpedition))
	assert.Equal(t, "Idle", f.Remaining(model.Projection{State: model.StateIdle}, model.KindExpedition))
}

func TestRemaining_Localized(t *testing.T) {
	f := New("zh-Hans", time.UTC)

	assert.Equal(t, "已满", f.Remaining(model.Projection{State: model.StateComplete}, model.KindStamina))
	assert.Equal(t, "2时 15分", f.Remaining(counting(2*3600+15*60), model.KindCooldown))
}

func TestAbsolute_DayBoundary(t *testing.T) {
	f := New("en", time.UTC)
	now := time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC)

	// Same calendar day: time-only.
	sameDay := time.Date(2024, 1, 1, 23, 59, 30, 0, time.UTC)
	assert.Equal(t, "23:59", f.Absolute(sameDay, now))

	// One minute of wall clock later, but a different calendar day:
	// weekday plus time.
	nextDay := time.Date(2024, 1, 2, 0, 0, 30, 0, time.UTC)
	assert.Equal(t, "Tue 00:00", f.Absolute(nextDay, now))
}

func TestAbsolute_AbsentIsEmpty(t *testing.T) {
	f := New("en", time.UTC)
	assert.Equal(t, "", f.Absolute(time.Time{}, time.Now()))
}

func TestAbsolute_UsesConfiguredLocation(t *testing.T) {
	f := New("en", time.UTC)
	// Construct the instant in another zone; rendering is still UTC-based.
	est := time.FixedZone("EST", -5*3600)
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	completes := time.Date(2024, 6, 10, 20, 30, 0, 0, est) // 01:30 UTC next day

	assert.Equal(t, "Tue 01:30", f.Absolute(completes, now))
}

func TestUnknownLocaleFallsBackToEnglish(t *testing.T) {
	f := New("xx-unknown", time.UTC)
	assert.Equal(t, "Ready", f.Remaining(model.Projection{State: model.StateComplete}, model.KindCooldown))
}
