package collector

import (
	"context"
	"fmt"
	"log"
	"time"

	"StaminaSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Game      string
	Snapshots []model.ResourceSnapshot
	Err       error
}

func (m *MockFetcher) GameID() string { return m.Game }
func (m *MockFetcher) Name() string   { return "mock" }

func (m *MockFetcher) Fetch(_ context.Context) ([]model.ResourceSnapshot, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Snapshots != nil {
		return m.Snapshots, nil
	}
	return generateMockSnapshots(m.Game), nil
}

func generateMockSnapshots(gameID string) []model.ResourceSnapshot {
	now := time.Now()
	game, ok := model.GameByID(gameID)
	if !ok {
		return nil
	}
	var snaps []model.ResourceSnapshot
	for _, info := range game.Resources {
		snap := model.ResourceSnapshot{
			GameID:    gameID,
			Type:      info.Type,
			Kind:      info.Kind,
			FetchedAt: now,
		}
		switch info.Kind {
		case model.KindStamina:
			cap := info.Cap
			if cap == 0 {
				cap = 2400
			}
			snap.Current = cap / 2
			snap.Max = cap
			snap.RegenRateSeconds = info.RegenRateSeconds
			snap.FullAt = now.Add(time.Duration(float64(cap-snap.Current)*info.RegenRateSeconds) * time.Second)
		case model.KindCooldown:
			snap.ReadyAt = now.Add(6 * time.Hour)
		case model.KindExpedition:
			snap.CurrentExpeditions = 2
			snap.MaxExpeditions = 5
			snap.EarliestFinishAt = now.Add(4 * time.Hour)
		}
		snaps = append(snaps, snap)
	}
	return snaps
}

// Collector orchestrates the configured per-game fetchers.
type Collector struct {
	fetchers map[string]Fetcher
	order    []string
}

// NewCollector creates a Collector. Fetcher order is preserved for
// deterministic poll cycles.
func NewCollector(fetchers ...Fetcher) *Collector {
	c := &Collector{fetchers: make(map[string]Fetcher)}
	for _, f := range fetchers {
		if _, dup := c.fetchers[f.GameID()]; dup {
			continue
		}
		c.fetchers[f.GameID()] = f
		c.order = append(c.order, f.GameID())
	}
	return c
}

// GameIDs returns the configured games in registration order.
func (c *Collector) GameIDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// CollectGame polls one game.
func (c *Collector) CollectGame(ctx context.Context, gameID string) ([]model.ResourceSnapshot, error) {
	f, ok := c.fetchers[gameID]
	if !ok {
		return nil, fmt.Errorf("no fetcher configured for game %q", gameID)
	}
	snaps, err := f.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s (%s): %w", gameID, f.Name(), err)
	}
	return snaps, nil
}

// CollectAll polls every configured game. Per-game failures are logged and
// skipped so one broken account doesn't blank the rest; an error is returned
// only when every game fails.
func (c *Collector) CollectAll(ctx context.Context) (map[string][]model.ResourceSnapshot, error) {
	results := make(map[string][]model.ResourceSnapshot)
	var lastErr error
	for _, gameID := range c.order {
		snaps, err := c.CollectGame(ctx, gameID)
		if err != nil {
			log.Printf("[WARN] collect %s failed: %v", gameID, err)
			lastErr = err
			continue
		}
		results[gameID] = snaps
	}
	if len(results) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return results, nil
}
