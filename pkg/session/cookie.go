package session

import (
	"fmt"
	"net/http"
	"net/netip"
	"regexp"
	"strings"
	"time"

	"github.com/dmitrymomot/sessiondb/pkg/cookie"
)

// clearCookieAge is how far in the past a cleared cookie's expiry is set.
const clearCookieAge = 42000 * time.Second

var baseURLPattern = regexp.MustCompile(`(?i)^(https?)://(\[[0-9a-f:.]+\]|[^/:]+)(:[0-9]+)?(/.*)?$`)

// BaseURL is the part of the application base URL that scopes the session cookie.
type BaseURL struct {
	Secure bool
	Host   string
	Port   string
	Path   string
}

// ParseBaseURL splits scheme://host[:port][/path]. Path is normalized to
// begin and end with "/"; a missing path becomes "/".
func ParseBaseURL(raw string) (BaseURL, error) {
	m := baseURLPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return BaseURL{Path: "/"}, fmt.Errorf("%w: %q", ErrMalformedBaseURL, raw)
	}
	return BaseURL{
		Secure: strings.EqualFold(m[1], "https"),
		Host:   m[2],
		Port:   strings.TrimPrefix(m[3], ":"),
		Path:   normalizePath(m[4]),
	}, nil
}

// Domain returns the cookie Domain attribute: the host, or empty for
// localhost and IP literals so the browser scopes the cookie to the host.
func (u BaseURL) Domain() string {
	host := strings.TrimSuffix(strings.TrimPrefix(u.Host, "["), "]")
	if host == "" || strings.EqualFold(host, "localhost") {
		return ""
	}
	if _, err := netip.ParseAddr(host); err == nil {
		return ""
	}
	return u.Host
}

func normalizePath(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

// ResolveCookie derives session cookie attributes from baseURL. A
// malformed URL falls back to path "/", no domain and no Secure flag.
// MaxAge is session_max_lifetime in app handling mode and 0 otherwise.
func ResolveCookie(baseURL string, s Settings) cookie.Options {
	opts := scopeCookie(baseURL)
	if persistent(s) {
		opts.MaxAge = int(ParseTimeout(s, KeyMaxLifetime))
	}
	return opts
}

// ClearCookie returns attributes that make the browser drop the session cookie.
func ClearCookie(baseURL string) cookie.Options {
	opts := scopeCookie(baseURL)
	opts.MaxAge = -1
	opts.Expires = time.Now().Add(-clearCookieAge)
	return opts
}

func scopeCookie(baseURL string) cookie.Options {
	u, _ := ParseBaseURL(baseURL)
	return cookie.Options{
		Path:     u.Path,
		Domain:   u.Domain(),
		Secure:   u.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
