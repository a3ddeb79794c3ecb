package session

import (
	"fmt"
	"time"
)

// DefaultTimeout applies when a timeout setting is missing or empty.
const DefaultTimeout int64 = 86400

const (
	secondsPerHour  int64 = 3600
	secondsPerDay   int64 = 86400
	secondsPerMonth int64 = secondsPerDay * 30
	secondsPerYear  int64 = secondsPerDay * 365
)

// ParseTimeout converts the setting session_<key> into seconds.
//
// Accepted forms are "<n>" and "<n><unit>" with unit h, d, m (30 days) or
// y (365 days). Any other trailing letter is ignored and the numeric prefix
// is returned as is. A value without leading digits yields 0. ParseTimeout
// never fails: a missing or empty setting yields DefaultTimeout.
func ParseTimeout(s Settings, key string) int64 {
	seconds, _ := ParseTimeoutStrict(s, key)
	return seconds
}

// ParseTimeoutStrict is ParseTimeout that also reports values it had to be
// lenient about. The returned seconds are identical to ParseTimeout's.
func ParseTimeoutStrict(s Settings, key string) (int64, error) {
	raw := setting(s, "session_"+key)
	if raw == "" {
		return DefaultTimeout, nil
	}

	n, digits := leadingInt(raw)
	var err error
	if digits == 0 {
		err = fmt.Errorf("%w: session_%s=%q has no numeric prefix", ErrInvalidDurationConfig, key, raw)
	}

	unit := raw[len(raw)-1]
	if unit >= '0' && unit <= '9' {
		if digits != len(raw) && err == nil {
			err = fmt.Errorf("%w: session_%s=%q", ErrInvalidDurationConfig, key, raw)
		}
		return n, err
	}

	switch unit {
	case 'h':
		n *= secondsPerHour
	case 'd':
		n *= secondsPerDay
	case 'm':
		n *= secondsPerMonth
	case 'y':
		n *= secondsPerYear
	default:
		if err == nil {
			err = fmt.Errorf("%w: session_%s=%q has unknown unit %q", ErrInvalidDurationConfig, key, raw, unit)
		}
	}
	return n, err
}

// leadingInt parses the decimal digits at the start of s, saturating instead
// of overflowing. It returns the value and the number of digits consumed.
func leadingInt(s string) (int64, int) {
	const limit = int64(1<<63-1) / secondsPerYear

	var n int64
	i := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		if n < limit {
			n = n*10 + int64(s[i]-'0')
		}
	}
	return min(n, limit), i
}

// Policy holds the expiration thresholds of one read or GC pass.
type Policy struct {
	Idle        time.Duration
	MaxLifetime time.Duration
}

// PolicyFrom computes the policy from session_idle_time and session_max_lifetime.
func PolicyFrom(s Settings) Policy {
	return Policy{
		Idle:        time.Duration(ParseTimeout(s, KeyIdleTime)) * time.Second,
		MaxLifetime: time.Duration(ParseTimeout(s, KeyMaxLifetime)) * time.Second,
	}
}

// Expired reports whether a session of the given age and idle time violates the policy.
// Both limits are exclusive: a session exactly at a limit is still alive.
func (p Policy) Expired(lifespan, idle time.Duration) bool {
	return lifespan > p.MaxLifetime || idle > p.Idle
}
