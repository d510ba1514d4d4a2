// Package scheduler drives the poll cycle and the per-tick threshold
// evaluation.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"StaminaSentinel/internal/collector"
	"StaminaSentinel/internal/config"
	"StaminaSentinel/internal/format"
	"StaminaSentinel/internal/model"
	"StaminaSentinel/internal/notify"
	"StaminaSentinel/internal/projection"
	"StaminaSentinel/internal/recorder"
	"StaminaSentinel/internal/sse"
	"StaminaSentinel/internal/store"
	"StaminaSentinel/internal/tick"
)

// Scheduler owns the cron poll task and the tick subscription. Polls refresh
// the snapshot store from upstream; ticks re-project the stored snapshots and
// run the notification evaluator without touching the network.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Store     *store.Store
	Ticks     *tick.Source
	Evaluator *notify.Evaluator
	Config    *config.Config
	Sink      notify.Sink
	Recorder  recorder.Recorder
	Formatter *format.Formatter
	Hub       *sse.Hub
	Ctx       context.Context

	tickCancel func()
}

// NewScheduler creates a Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, st *store.Store, ts *tick.Source,
	ev *notify.Evaluator, cfg *config.Config, sink notify.Sink, rec recorder.Recorder,
	f *format.Formatter, hub *sse.Hub) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Store:     st,
		Ticks:     ts,
		Evaluator: ev,
		Config:    cfg,
		Sink:      sink,
		Recorder:  rec,
		Formatter: f,
		Hub:       hub,
		Ctx:       ctx,
	}
}

// Register registers the poll task.
func (s *Scheduler) Register(pollCron string) error {
	if _, err := s.Cron.AddFunc(pollCron, s.pollTask); err != nil {
		return fmt.Errorf("register poll task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler and the tick consumer. The tick
// subscription keeps the shared clock running for the process lifetime and
// re-evaluates thresholds on every advance.
func (s *Scheduler) Start() {
	s.Cron.Start()

	ticks, cancel := s.Ticks.Subscribe(1)
	s.tickCancel = cancel
	go func() {
		for now := range ticks {
			s.evaluateAll(now)
		}
	}()

	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and detaches from the tick source.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	if s.tickCancel != nil {
		s.tickCancel()
	}
	log.Println("[INFO] scheduler stopped")
}

// Refresh polls every configured game immediately. Used by the HTTP refresh
// endpoint and the /refresh command; the cron poll task goes through the same
// path.
func (s *Scheduler) Refresh() error {
	s.Hub.Broadcast(sse.EventRefreshStarted, nil)

	results, err := s.Collector.CollectAll(s.Ctx)
	if err != nil {
		s.Hub.Broadcast(sse.EventRefreshFailed, map[string]string{"error": err.Error()})
		return err
	}

	for gameID, snaps := range results {
		s.Store.ReplaceAll(gameID, snaps)
		s.Hub.Broadcast(sse.EventGameUpdated, map[string]any{
			"game_id":   gameID,
			"resources": snaps,
		})
	}
	s.Hub.Broadcast(sse.EventResourcesUpdated, map[string]any{
		"generation": s.Store.Generation(),
	})

	// Reset the shared clock so freshly stored snapshots are projected
	// against the actual current time, not a tick up to a minute old. The
	// broadcast also drives one evaluation pass through the tick consumer.
	s.Ticks.ForceRefresh()

	s.recordPoll(results)
	return nil
}

// RunNow executes the poll task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() { s.pollTask() }

func (s *Scheduler) pollTask() {
	log.Println("[INFO] running poll task")
	if err := s.Refresh(); err != nil {
		log.Printf("[ERROR] poll: %v", err)
	}
}

// evaluateAll runs the notification evaluator over every stored snapshot at
// one shared timestamp.
func (s *Scheduler) evaluateAll(nowMillis int64) {
	all := s.Store.All()
	now := time.UnixMilli(nowMillis)

	for _, game := range model.Games {
		for _, snap := range all.Games[game.ID] {
			proj := projection.Project(snap, nowMillis)
			policy := s.Config.PolicyFor(snap.GameID, snap.Type)
			if !s.Evaluator.Evaluate(snap, proj, policy, nowMillis) {
				continue
			}
			intent := notify.BuildIntent(snap, proj, s.Formatter, now)
			s.deliver(intent)
		}
	}
}

// Preview composes and delivers a notification for one resource as it stands
// right now, bypassing the evaluator entirely. Firing state is untouched.
func (s *Scheduler) Preview(gameID, resourceType string) (notify.Intent, error) {
	for _, snap := range s.Store.Get(gameID) {
		if snap.Type != resourceType {
			continue
		}
		nowMillis := s.Ticks.Now()
		proj := projection.Project(snap, nowMillis)
		intent := notify.BuildIntent(snap, proj, s.Formatter, time.UnixMilli(nowMillis))
		intent.Preview = true
		s.deliver(intent)
		return intent, nil
	}
	return notify.Intent{}, fmt.Errorf("no snapshot for %s/%s", gameID, resourceType)
}

func (s *Scheduler) deliver(intent notify.Intent) {
	if err := s.Sink.Deliver(s.Ctx, intent); err != nil {
		log.Printf("[ERROR] deliver %s/%s via %s: %v", intent.GameID, intent.ResourceType, s.Sink.Name(), err)
		return
	}
	s.Hub.Broadcast(sse.EventNotificationFired, intent)
	if err := s.Recorder.RecordNotification(&recorder.NotificationRecord{
		GameID:       intent.GameID,
		ResourceType: intent.ResourceType,
		Title:        intent.Title,
		Body:         intent.Body,
		Sink:         s.Sink.Name(),
		Preview:      intent.Preview,
	}); err != nil {
		log.Printf("[ERROR] record notification: %v", err)
	}
}

func (s *Scheduler) recordPoll(results map[string][]model.ResourceSnapshot) {
	nowMillis := s.Ticks.Now()
	var records []recorder.PollRecord
	for _, snaps := range results {
		for _, snap := range snaps {
			proj := projection.Project(snap, nowMillis)
			records = append(records, recorder.PollRecord{
				GameID:           snap.GameID,
				ResourceType:     snap.Type,
				Kind:             snap.Kind,
				Current:          currentOf(snap),
				Max:              capacityOf(snap),
				RemainingSeconds: proj.RemainingSeconds,
				State:            proj.State,
				CompletesAt:      proj.CompletesAt,
			})
		}
	}
	if len(records) == 0 {
		return
	}
	if err := s.Recorder.RecordPoll(records); err != nil {
		log.Printf("[ERROR] record poll: %v", err)
	}
}

func currentOf(snap model.ResourceSnapshot) int {
	if snap.Kind == model.KindExpedition {
		return snap.CurrentExpeditions
	}
	return snap.Current
}

func capacityOf(snap model.ResourceSnapshot) int {
	if snap.Kind == model.KindExpedition {
		return snap.MaxExpeditions
	}
	return snap.Max
}

// HandleCommand processes a Telegram command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return commandHelp
	}
	switch fields[0] {
	case "/status":
		nowMillis := s.Ticks.Now()
		project := func(snap model.ResourceSnapshot) model.Projection {
			return projection.Project(snap, nowMillis)
		}
		return notify.FormatStatusReport(s.Store.All(), project, s.Formatter, time.UnixMilli(nowMillis))
	case "/refresh":
		if err := s.Refresh(); err != nil {
			return fmt.Sprintf("refresh failed: %v", err)
		}
		return "✅ refreshed"
	case "/preview":
		if len(fields) != 3 {
			return "usage: /preview <game> <resource>"
		}
		if _, err := s.Preview(fields[1], fields[2]); err != nil {
			return fmt.Sprintf("preview failed: %v", err)
		}
		// The preview itself arrives through the sink.
		return ""
	default:
		return commandHelp
	}
}

const commandHelp = "Commands:\n• /status\n• /refresh\n• /preview <game> <resource>"
