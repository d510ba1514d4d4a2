package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"StaminaSentinel/internal/model"
)

func snap(resourceType string, current int) model.ResourceSnapshot {
	return model.ResourceSnapshot{
		GameID:  "genshin",
		Type:    resourceType,
		Kind:    model.KindStamina,
		Current: current,
		Max:     200,
	}
}

func TestGet_UnknownGameIsEmpty(t *testing.T) {
	s := New()
	got := s.Get("starrail")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestReplaceAll(t *testing.T) {
	s := New()
	s.ReplaceAll("genshin", []model.ResourceSnapshot{snap("resin", 100), snap("realm_currency", 500)})

	got := s.Get("genshin")
	assert.Len(t, got, 2)
	assert.Equal(t, "resin", got[0].Type)

	s.ReplaceAll("genshin", []model.ResourceSnapshot{snap("resin", 120)})
	assert.Len(t, s.Get("genshin"), 1)
}

func TestReplaceOne_PreservesOrderAndAppends(t *testing.T) {
	s := New()
	s.ReplaceAll("genshin", []model.ResourceSnapshot{snap("resin", 100), snap("realm_currency", 500)})

	// Existing entry keeps its position.
	s.ReplaceOne("genshin", snap("resin", 150))
	got := s.Get("genshin")
	assert.Equal(t, []string{"resin", "realm_currency"}, []string{got[0].Type, got[1].Type})
	assert.Equal(t, 150, got[0].Current)

	// Unknown type is appended at the end.
	s.ReplaceOne("genshin", snap("expedition", 0))
	got = s.Get("genshin")
	assert.Len(t, got, 3)
	assert.Equal(t, "expedition", got[2].Type)
}

func TestReplaceOne_IntoEmptyGame(t *testing.T) {
	s := New()
	s.ReplaceOne("zzz", snap("battery", 40))
	assert.Len(t, s.Get("zzz"), 1)
}

func TestGenerationAdvancesOnEveryWrite(t *testing.T) {
	s := New()
	assert.Equal(t, uint64(0), s.Generation())

	s.ReplaceAll("genshin", []model.ResourceSnapshot{snap("resin", 1)})
	assert.Equal(t, uint64(1), s.Generation())

	s.ReplaceOne("genshin", snap("resin", 2))
	assert.Equal(t, uint64(2), s.Generation())
}

func TestGetReturnsCopy(t *testing.T) {
	s := New()
	s.ReplaceAll("genshin", []model.ResourceSnapshot{snap("resin", 100)})

	got := s.Get("genshin")
	got[0].Current = 999

	assert.Equal(t, 100, s.Get("genshin")[0].Current)
}

func TestAll(t *testing.T) {
	s := New()
	assert.True(t, s.All().LastUpdated.IsZero())

	s.ReplaceAll("genshin", []model.ResourceSnapshot{snap("resin", 100)})
	s.ReplaceAll("zzz", []model.ResourceSnapshot{snap("battery", 40)})

	all := s.All()
	assert.Len(t, all.Games, 2)
	assert.False(t, all.LastUpdated.IsZero())
}
