package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StaminaSentinel/internal/model"
)

func TestCollectAll_PartialFailure(t *testing.T) {
	ok := &MockFetcher{Game: "genshin", Snapshots: []model.ResourceSnapshot{
		{GameID: "genshin", Type: "resin", Kind: model.KindStamina, Current: 100, Max: 160},
	}}
	broken := &MockFetcher{Game: "starrail", Err: errors.New("cookie expired")}

	c := NewCollector(ok, broken)
	results, err := c.CollectAll(context.Background())
	require.NoError(t, err, "partial failure degrades, not errors")
	assert.Len(t, results, 1)
	assert.Contains(t, results, "genshin")
}

func TestCollectAll_TotalFailure(t *testing.T) {
	c := NewCollector(&MockFetcher{Game: "genshin", Err: errors.New("down")})
	_, err := c.CollectAll(context.Background())
	assert.Error(t, err)
}

func TestCollectGame_Unconfigured(t *testing.T) {
	c := NewCollector()
	_, err := c.CollectGame(context.Background(), "zzz")
	assert.Error(t, err)
}

func TestMockFetcher_GeneratesRegistryShapes(t *testing.T) {
	c := NewCollector(&MockFetcher{Game: "genshin"})
	snaps, err := c.CollectGame(context.Background(), "genshin")
	require.NoError(t, err)
	require.Len(t, snaps, 4)

	kinds := map[string]model.ResourceKind{}
	for _, s := range snaps {
		kinds[s.Type] = s.Kind
	}
	assert.Equal(t, model.KindStamina, kinds["resin"])
	assert.Equal(t, model.KindCooldown, kinds["parametric_transformer"])
	assert.Equal(t, model.KindExpedition, kinds["expedition"])
}

func TestGameIDs_PreservesOrder(t *testing.T) {
	c := NewCollector(
		&MockFetcher{Game: "wuwa"},
		&MockFetcher{Game: "genshin"},
	)
	assert.Equal(t, []string{"wuwa", "genshin"}, c.GameIDs())
}
