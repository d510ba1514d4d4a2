package recorder

import (
	"time"

	"StaminaSentinel/internal/model"
)

// PollRecord is one resource reading captured during a poll cycle.
type PollRecord struct {
	GameID           string
	ResourceType     string
	Kind             model.ResourceKind
	Current          int
	Max              int
	RemainingSeconds int64
	State            model.ProjectionState
	CompletesAt      time.Time
}

// NotificationRecord is one delivered (or previewed) notification.
type NotificationRecord struct {
	GameID       string
	ResourceType string
	Title        string
	Body         string
	Sink         string
	Preview      bool
}

// Recorder persists append-only history for later inspection. Live snapshots
// themselves are never persisted; this is an audit trail, not state.
type Recorder interface {
	RecordPoll(records []PollRecord) error
	RecordNotification(rec *NotificationRecord) error
	Close() error
}
