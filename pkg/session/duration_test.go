package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessiondb/pkg/session"
)

func TestParseTimeout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		set   bool
		want  int64
	}{
		{name: "unset", want: 86400},
		{name: "empty", value: "", set: true, want: 86400},
		{name: "blank", value: "   ", set: true, want: 86400},
		{name: "plain seconds", value: "1800", set: true, want: 1800},
		{name: "hours", value: "2h", set: true, want: 7200},
		{name: "days", value: "3d", set: true, want: 259200},
		{name: "months", value: "1m", set: true, want: 2592000},
		{name: "years", value: "1y", set: true, want: 31536000},
		{name: "unknown unit ignored", value: "45s", set: true, want: 45},
		{name: "no digits", value: "h", set: true, want: 0},
		{name: "negative is not a number", value: "-5", set: true, want: 0},
		{name: "digits after garbage", value: "12x3", set: true, want: 12},
		{name: "zero", value: "0", set: true, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := session.SettingsMap{}
			if tt.set {
				s["session_idle_time"] = tt.value
			}
			assert.Equal(t, tt.want, session.ParseTimeout(s, session.KeyIdleTime))
		})
	}

	t.Run("nil settings", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, session.DefaultTimeout, session.ParseTimeout(nil, session.KeyMaxLifetime))
	})

	t.Run("huge value saturates", func(t *testing.T) {
		t.Parallel()
		s := session.SettingsMap{"session_max_lifetime": "99999999999999999999999y"}
		got := session.ParseTimeout(s, session.KeyMaxLifetime)
		assert.Positive(t, got)
	})
}

func TestParseTimeoutStrict(t *testing.T) {
	t.Parallel()

	t.Run("valid values", func(t *testing.T) {
		t.Parallel()
		for _, v := range []string{"", "60", "2h", "3d", "1m", "1y"} {
			_, err := session.ParseTimeoutStrict(session.SettingsMap{"session_idle_time": v}, session.KeyIdleTime)
			assert.NoError(t, err, v)
		}
	})

	t.Run("lenient values are reported", func(t *testing.T) {
		t.Parallel()
		for v, want := range map[string]int64{"45s": 45, "abc": 0, "1x2": 1} {
			got, err := session.ParseTimeoutStrict(session.SettingsMap{"session_idle_time": v}, session.KeyIdleTime)
			assert.ErrorIs(t, err, session.ErrInvalidDurationConfig, v)
			assert.Equal(t, want, got, v)
		}
	})
}

func TestPolicyFrom(t *testing.T) {
	t.Parallel()

	p := session.PolicyFrom(session.SettingsMap{
		"session_idle_time":    "1800",
		"session_max_lifetime": "1d",
	})
	assert.Equal(t, 30*time.Minute, p.Idle)
	assert.Equal(t, 24*time.Hour, p.MaxLifetime)

	t.Run("defaults", func(t *testing.T) {
		p := session.PolicyFrom(session.SettingsMap{})
		assert.Equal(t, 24*time.Hour, p.Idle)
		assert.Equal(t, 24*time.Hour, p.MaxLifetime)
	})

	t.Run("re-read on every call", func(t *testing.T) {
		s := session.SettingsMap{"session_idle_time": "10"}
		require.Equal(t, 10*time.Second, session.PolicyFrom(s).Idle)
		s["session_idle_time"] = "20"
		assert.Equal(t, 20*time.Second, session.PolicyFrom(s).Idle)
	})
}

func TestPolicy_Expired(t *testing.T) {
	t.Parallel()

	p := session.Policy{Idle: 30 * time.Minute, MaxLifetime: 24 * time.Hour}

	assert.False(t, p.Expired(time.Hour, 29*time.Minute))
	assert.False(t, p.Expired(24*time.Hour, 30*time.Minute), "limits are exclusive")
	assert.True(t, p.Expired(time.Hour, 31*time.Minute), "idle exceeded")
	assert.True(t, p.Expired(25*time.Hour, time.Minute), "lifetime exceeded")
}
