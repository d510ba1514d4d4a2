package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"StaminaSentinel/internal/format"
	"StaminaSentinel/internal/model"
)

// BuildIntent composes the delivery payload for one resource. The display
// strings come from the shared formatter so notifications and the UI never
// disagree about a countdown.
func BuildIntent(snap model.ResourceSnapshot, proj model.Projection, f *format.Formatter, now time.Time) Intent {
	game, _ := model.GameByID(snap.GameID)
	info, ok := model.ResourceByType(snap.GameID, snap.Type)
	resourceName := snap.Type
	if ok {
		resourceName = info.DisplayName
	}

	var body string
	switch snap.Kind {
	case model.KindStamina:
		if proj.Complete() {
			body = fmt.Sprintf("%s is full (%d/%d).", resourceName, snap.Current, snap.Max)
		} else {
			body = fmt.Sprintf("%s at %d/%d, full in %s", resourceName, snap.Current, snap.Max, f.Remaining(proj, snap.Kind))
			if abs := f.Absolute(proj.CompletesAt, now); abs != "" {
				body += fmt.Sprintf(" (%s)", abs)
			}
			body += "."
		}
	case model.KindCooldown:
		if proj.Complete() {
			body = fmt.Sprintf("%s is ready.", resourceName)
		} else {
			body = fmt.Sprintf("%s ready in %s.", resourceName, f.Remaining(proj, snap.Kind))
		}
	case model.KindExpedition:
		switch proj.State {
		case model.StateIdle:
			body = fmt.Sprintf("No %s dispatched.", strings.ToLower(resourceName))
		case model.StateComplete:
			body = fmt.Sprintf("%s finished (%d/%d).", resourceName, snap.CurrentExpeditions, snap.MaxExpeditions)
		default:
			body = fmt.Sprintf("%d/%d %s, first back in %s.", snap.CurrentExpeditions, snap.MaxExpeditions, strings.ToLower(resourceName), f.Remaining(proj, snap.Kind))
		}
	}

	return Intent{
		GameID:       snap.GameID,
		ResourceType: snap.Type,
		Title:        game.DisplayName,
		Body:         body,
		FiredAt:      now,
	}
}

// FormatStatusReport renders the current state of every tracked game for the
// /status Telegram command.
func FormatStatusReport(all model.AllResourcesSnapshot, project func(model.ResourceSnapshot) model.Projection, f *format.Formatter, now time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>StaminaSentinel</b> | %s\n", now.Format("2006-01-02 15:04")))
	if !all.LastUpdated.IsZero() {
		b.WriteString(fmt.Sprintf("last poll %s\n", humanize.Time(all.LastUpdated)))
	}

	for _, game := range model.Games {
		snaps := all.Games[game.ID]
		if len(snaps) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("\n<b>%s</b>\n", game.DisplayName))
		for _, snap := range snaps {
			proj := project(snap)
			info, ok := model.ResourceByType(snap.GameID, snap.Type)
			name := snap.Type
			if ok {
				name = info.DisplayName
			}
			switch snap.Kind {
			case model.KindStamina:
				b.WriteString(fmt.Sprintf("  %s: %d/%d, %s\n", name, snap.Current, snap.Max, f.Remaining(proj, snap.Kind)))
			case model.KindExpedition:
				b.WriteString(fmt.Sprintf("  %s: %d/%d, %s\n", name, snap.CurrentExpeditions, snap.MaxExpeditions, f.Remaining(proj, snap.Kind)))
			default:
				b.WriteString(fmt.Sprintf("  %s: %s\n", name, f.Remaining(proj, snap.Kind)))
			}
		}
	}
	return b.String()
}
