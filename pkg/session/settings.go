package session

import "strings"

// Named settings read by this package.
const (
	KeyMaxLifetime = "max_lifetime"
	KeyIdleTime    = "idle_time"

	SettingHandling    = "session_handling"
	SettingGCScanQueue = "session_gc_scan_queue"
	SettingBaseURL     = "base_url"

	// HandlingApp enables database-backed persistence with a persistent cookie.
	HandlingApp = "app"
)

// Settings is the named-configuration accessor. Implementations must be
// safe for concurrent use; values are re-read on every call and never
// cached by this package.
type Settings interface {
	Get(key string) (string, bool)
}

// SettingsMap is a static Settings implementation, handy in tests.
type SettingsMap map[string]string

func (m SettingsMap) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func setting(s Settings, key string) string {
	if s == nil {
		return ""
	}
	v, _ := s.Get(key)
	return strings.TrimSpace(v)
}

// enabled treats a setting as a loose boolean: anything but empty, "0",
// "false", "no" or "off" is on.
func enabled(s Settings, key string) bool {
	switch strings.ToLower(setting(s, key)) {
	case "", "0", "false", "no", "off":
		return false
	default:
		return true
	}
}

// persistent reports whether session_handling selects application-managed sessions.
func persistent(s Settings) bool {
	return strings.EqualFold(setting(s, SettingHandling), HandlingApp)
}
