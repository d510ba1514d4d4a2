package notify

import (
	"context"
	"log"
	"time"
)

// Intent is a notification ready for delivery, produced when a threshold
// fires or a preview is requested.
type Intent struct {
	GameID       string    `json:"game_id"`
	ResourceType string    `json:"resource_type"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	Preview      bool      `json:"preview,omitempty"`
	FiredAt      time.Time `json:"fired_at"`
}

// Sink delivers notification intents to the outside world.
type Sink interface {
	Deliver(ctx context.Context, intent Intent) error
	Name() string
}

// LogSink writes intents to the process log. Used when no delivery channel is
// configured so threshold evaluation stays observable.
type LogSink struct{}

func NewLogSink() *LogSink { return &LogSink{} }

func (l *LogSink) Name() string { return "log" }

func (l *LogSink) Deliver(_ context.Context, intent Intent) error {
	log.Printf("[INFO] notification %s/%s: %s | %s", intent.GameID, intent.ResourceType, intent.Title, intent.Body)
	return nil
}
