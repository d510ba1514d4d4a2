package model

// ResourceInfo describes one trackable resource type of a game. The Type tag
// is the wire-level identifier shared with fetchers and front ends; it is
// opaque everywhere except this table.
type ResourceInfo struct {
	Type             string
	Kind             ResourceKind
	DisplayName      string
	Cap              int     // 0 when the cap is account-dependent
	RegenRateSeconds float64 // seconds per unit, stamina kind only
	DisplayPriority  int     // ascending; callers sort by this for stable display
}

// GameInfo describes one supported game.
type GameInfo struct {
	ID          string
	DisplayName string
	Resources   []ResourceInfo
}

// Games is the registry of supported games in display order.
var Games = []GameInfo{
	{
		ID:          "genshin",
		DisplayName: "Genshin Impact",
		Resources: []ResourceInfo{
			{Type: "resin", Kind: KindStamina, DisplayName: "Original Resin", Cap: 200, RegenRateSeconds: 480, DisplayPriority: 0},
			{Type: "realm_currency", Kind: KindStamina, DisplayName: "Realm Currency", DisplayPriority: 1},
			{Type: "expedition", Kind: KindExpedition, DisplayName: "Expeditions", DisplayPriority: 2},
			{Type: "parametric_transformer", Kind: KindCooldown, DisplayName: "Parametric Transformer", DisplayPriority: 3},
		},
	},
	{
		ID:          "starrail",
		DisplayName: "Honkai: Star Rail",
		Resources: []ResourceInfo{
			{Type: "trailblaze_power", Kind: KindStamina, DisplayName: "Trailblaze Power", Cap: 300, RegenRateSeconds: 360, DisplayPriority: 0},
			{Type: "assignment", Kind: KindExpedition, DisplayName: "Assignments", DisplayPriority: 1},
		},
	},
	{
		ID:          "zzz",
		DisplayName: "Zenless Zone Zero",
		Resources: []ResourceInfo{
			{Type: "battery", Kind: KindStamina, DisplayName: "Battery Charge", Cap: 240, RegenRateSeconds: 360, DisplayPriority: 0},
		},
	},
	{
		ID:          "wuwa",
		DisplayName: "Wuthering Waves",
		Resources: []ResourceInfo{
			{Type: "waveplate", Kind: KindStamina, DisplayName: "Waveplates", Cap: 240, RegenRateSeconds: 360, DisplayPriority: 0},
		},
	},
}

// GameByID looks up a game in the registry.
func GameByID(id string) (GameInfo, bool) {
	for _, g := range Games {
		if g.ID == id {
			return g, true
		}
	}
	return GameInfo{}, false
}

// ResourceByType looks up a resource type within a game.
func ResourceByType(gameID, resourceType string) (ResourceInfo, bool) {
	g, ok := GameByID(gameID)
	if !ok {
		return ResourceInfo{}, false
	}
	for _, r := range g.Resources {
		if r.Type == resourceType {
			return r, true
		}
	}
	return ResourceInfo{}, false
}
