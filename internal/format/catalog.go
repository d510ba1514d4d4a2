package format

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Built-in string catalog. English strings double as message keys, so the
// English entries are identity mappings registered for completeness.
func init() {
	en := language.English
	zh := language.SimplifiedChinese

	entries := []struct {
		key, enMsg, zhMsg string
	}{
		{"Full", "Full", "已满"},
		{"Ready", "Ready", "已就绪"},
		{"Idle", "Idle", "空闲"},
		{"%dd", "%dd", "%d天"},
		{"%dh", "%dh", "%d时"},
		{"%dm", "%dm", "%d分"},
		{"%ds", "%ds", "%d秒"},
		{"Sunday", "Sun", "周日"},
		{"Monday", "Mon", "周一"},
		{"Tuesday", "Tue", "周二"},
		{"Wednesday", "Wed", "周三"},
		{"Thursday", "Thu", "周四"},
		{"Friday", "Fri", "周五"},
		{"Saturday", "Sat", "周六"},
	}
	for _, e := range entries {
		message.SetString(en, e.key, e.enMsg)
		message.SetString(zh, e.key, e.zhMsg)
	}
}
