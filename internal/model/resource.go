package model

import "time"

// ResourceKind discriminates the three snapshot variants. It is decided once
// when a fetcher decodes the upstream payload and never re-derived from field
// presence downstream.
type ResourceKind string

const (
	KindStamina    ResourceKind = "stamina"
	KindCooldown   ResourceKind = "cooldown"
	KindExpedition ResourceKind = "expedition"
)

// ResourceSnapshot is an immutable point-in-time reading of one resource.
// A zero time.Time means the upstream value was absent or unparseable;
// projection treats that as already complete.
type ResourceSnapshot struct {
	GameID string       `json:"game_id"`
	Type   string       `json:"type"`
	Kind   ResourceKind `json:"kind"`

	// Stamina
	Current          int       `json:"current,omitempty"`
	Max              int       `json:"max,omitempty"`
	FullAt           time.Time `json:"full_at,omitzero"`
	RegenRateSeconds float64   `json:"regen_rate_seconds,omitempty"`

	// Cooldown
	IsReady bool      `json:"is_ready,omitempty"`
	ReadyAt time.Time `json:"ready_at,omitzero"`

	// Expedition
	CurrentExpeditions int       `json:"current_expeditions,omitempty"`
	MaxExpeditions     int       `json:"max_expeditions,omitempty"`
	EarliestFinishAt   time.Time `json:"earliest_finish_at,omitzero"`

	FetchedAt time.Time `json:"fetched_at"`
}

// ProjectionState is the three-way outcome of projecting a snapshot forward.
// Idle is distinct from complete: an expedition slot with nothing dispatched
// has neither a countdown nor a "ready" claim to make.
type ProjectionState string

const (
	StateIdle     ProjectionState = "idle"
	StateCounting ProjectionState = "counting"
	StateComplete ProjectionState = "complete"
)

// Projection is the result of mapping a snapshot plus a "now" onto a live
// countdown.
type Projection struct {
	RemainingSeconds int64           `json:"remaining_seconds"`
	State            ProjectionState `json:"state"`
	CompletesAt      time.Time       `json:"completes_at,omitzero"`
}

// Complete reports whether the projected countdown has finished.
func (p Projection) Complete() bool { return p.State == StateComplete }

// AllResourcesSnapshot is the full-replacement shape pushed to front ends.
type AllResourcesSnapshot struct {
	Games       map[string][]ResourceSnapshot `json:"games"`
	LastUpdated time.Time                     `json:"last_updated,omitzero"`
}
