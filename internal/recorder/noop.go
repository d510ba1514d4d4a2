package recorder

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordPoll(_ []PollRecord) error { return nil }

func (n *NoopRecorder) RecordNotification(_ *NotificationRecord) error { return nil }

func (n *NoopRecorder) Close() error { return nil }
