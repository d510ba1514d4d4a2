// Package format renders projections as human display strings. It is the one
// formatter in the codebase: the HTTP layer, the Telegram reports, and the
// notification bodies all go through it.
package format

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"StaminaSentinel/internal/model"
)

var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.SimplifiedChinese,
})

// Formatter renders durations and timestamps for one locale.
type Formatter struct {
	printer *message.Printer
	loc     *time.Location
}

// New creates a Formatter for a BCP 47 locale string, falling back to English
// for anything unrecognized. Absolute times are rendered in loc (nil means
// time.Local).
func New(locale string, loc *time.Location) *Formatter {
	tag, _ := language.MatchStrings(matcher, locale)
	if loc == nil {
		loc = time.Local
	}
	return &Formatter{printer: message.NewPrinter(tag), loc: loc}
}

// Remaining renders a projection as a relative duration with at most the two
// largest units. Complete projections collapse to a fixed token: "Full" for
// stamina, "Ready" otherwise. Idle expeditions get their own token.
func (f *Formatter) Remaining(p model.Projection, kind model.ResourceKind) string {
	switch p.State {
	case model.StateIdle:
		return f.printer.Sprintf("Idle")
	case model.StateComplete:
		if kind == model.KindStamina {
			return f.printer.Sprintf("Full")
		}
		return f.printer.Sprintf("Ready")
	}

	rem := p.RemainingSeconds
	days := rem / 86400
	hours := (rem % 86400) / 3600
	minutes := (rem % 3600) / 60
	seconds := rem % 60

	var parts []string
	switch {
	case days > 0:
		parts = append(parts, f.printer.Sprintf("%dd", days))
		if hours > 0 {
			parts = append(parts, f.printer.Sprintf("%dh", hours))
		}
	case hours > 0:
		parts = append(parts, f.printer.Sprintf("%dh", hours))
		if minutes > 0 {
			parts = append(parts, f.printer.Sprintf("%dm", minutes))
		}
	case minutes > 0:
		parts = append(parts, f.printer.Sprintf("%dm", minutes))
		if seconds > 0 {
			parts = append(parts, f.printer.Sprintf("%ds", seconds))
		}
	default:
		parts = append(parts, f.printer.Sprintf("%ds", seconds))
	}
	return strings.Join(parts, " ")
}

// Absolute renders the completion instant as a time-of-day string: time-only
// when it falls on the same local calendar day as now, weekday plus time
// otherwise. The boundary is calendar fields, not elapsed hours: 23:59 today
// and 00:00 tomorrow format differently even one minute apart. An absent
// (zero) timestamp yields the empty string.
func (f *Formatter) Absolute(completesAt, now time.Time) string {
	if completesAt.IsZero() {
		return ""
	}
	c := completesAt.In(f.loc)
	n := now.In(f.loc)

	cy, cm, cd := c.Date()
	ny, nm, nd := n.Date()
	if cy == ny && cm == nm && cd == nd {
		return c.Format("15:04")
	}
	return f.printer.Sprintf(weekdayKey(c.Weekday())) + " " + c.Format("15:04")
}

func weekdayKey(d time.Weekday) string {
	// Keys registered in catalog.go; English text doubles as the key.
	return d.String()
}
