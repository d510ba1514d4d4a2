// Package store holds the latest resource snapshots per game for the lifetime
// of the process. Snapshots are replaced wholesale, never mutated in place,
// and are never persisted to disk.
package store

import (
	"sync"
	"time"

	"StaminaSentinel/internal/model"
)

// Store is a replace-on-write snapshot store. Every successful write bumps a
// generation counter so callers can invalidate memoized projections.
type Store struct {
	mu          sync.RWMutex
	games       map[string][]model.ResourceSnapshot
	generation  uint64
	lastUpdated time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{games: make(map[string][]model.ResourceSnapshot)}
}

// Get returns a copy of the snapshot list for a game. Unknown or disabled
// games yield an empty list, never an error.
func (s *Store) Get(gameID string) []model.ResourceSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snaps := s.games[gameID]
	out := make([]model.ResourceSnapshot, len(snaps))
	copy(out, snaps)
	return out
}

// All returns a copy of every game's snapshot list plus the last update time.
func (s *Store) All() model.AllResourcesSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	games := make(map[string][]model.ResourceSnapshot, len(s.games))
	for id, snaps := range s.games {
		cp := make([]model.ResourceSnapshot, len(snaps))
		copy(cp, snaps)
		games[id] = cp
	}
	return model.AllResourcesSnapshot{Games: games, LastUpdated: s.lastUpdated}
}

// ReplaceAll atomically replaces a game's whole snapshot list.
func (s *Store) ReplaceAll(gameID string, snaps []model.ResourceSnapshot) {
	cp := make([]model.ResourceSnapshot, len(snaps))
	copy(cp, snaps)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[gameID] = cp
	s.generation++
	s.lastUpdated = time.Now()
}

// ReplaceOne atomically replaces a single resource within a game's list,
// matching on the resource-type tag. Existing entries keep their position;
// an unknown type is appended at the end.
func (s *Store) ReplaceOne(gameID string, snap model.ResourceSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snaps := s.games[gameID]
	replaced := false
	out := make([]model.ResourceSnapshot, len(snaps))
	for i, existing := range snaps {
		if existing.Type == snap.Type {
			out[i] = snap
			replaced = true
		} else {
			out[i] = existing
		}
	}
	if !replaced {
		out = append(out, snap)
	}
	s.games[gameID] = out
	s.generation++
	s.lastUpdated = time.Now()
}

// Generation returns the current write generation.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// LastUpdated returns the time of the most recent write, zero if none.
func (s *Store) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}
