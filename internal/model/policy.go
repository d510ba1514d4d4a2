package model

// ResourceNotificationConfig is the per-game, per-resource-type notification
// policy. The two trigger fields are mutually exclusive for stamina resources;
// the policy editor nulls one when the other is set. A stored config carrying
// both is tolerated by the evaluator, which prefers NotifyAtValue.
// Cooldown- and expedition-kind resources ignore both trigger fields and fire
// on the transition into "ready".
type ResourceNotificationConfig struct {
	Enabled         bool `yaml:"enabled" json:"enabled"`
	CooldownMinutes int  `yaml:"cooldown_minutes" json:"cooldown_minutes"`

	NotifyMinutesBeforeFull *int `yaml:"notify_minutes_before_full,omitempty" json:"notify_minutes_before_full,omitempty"`
	NotifyAtValue           *int `yaml:"notify_at_value,omitempty" json:"notify_at_value,omitempty"`
}

// Normalize enforces the trigger-field XOR the way the policy editor does:
// when both are present the value trigger wins and the minutes trigger is
// cleared. Out-of-range values are cleared rather than rejected.
func (c *ResourceNotificationConfig) Normalize() {
	if c.NotifyAtValue != nil && *c.NotifyAtValue < 1 {
		c.NotifyAtValue = nil
	}
	if c.NotifyMinutesBeforeFull != nil && *c.NotifyMinutesBeforeFull < 0 {
		c.NotifyMinutesBeforeFull = nil
	}
	if c.NotifyAtValue != nil {
		c.NotifyMinutesBeforeFull = nil
	}
	if c.CooldownMinutes < 0 {
		c.CooldownMinutes = 0
	}
}
