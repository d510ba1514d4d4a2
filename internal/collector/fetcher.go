package collector

import (
	"context"

	"StaminaSentinel/internal/model"
)

// Fetcher polls one game account and decodes the upstream payload into
// resource snapshots. Variant tags (Kind) are decided here, at the boundary,
// and never re-derived downstream.
type Fetcher interface {
	GameID() string
	Name() string
	Fetch(ctx context.Context) ([]model.ResourceSnapshot, error)
}
