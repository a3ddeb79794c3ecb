package cookie

import (
	"errors"
	"net/http"
	"time"
)

// Manager writes cookies starting from a default attribute set.
type Manager struct {
	defaults Options
}

// New returns a Manager with defaults Path "/", HttpOnly and SameSite=Lax,
// adjusted by opts.
func New(opts ...Option) *Manager {
	defaults := Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{defaults: apply(defaults, opts)}
}

// Defaults returns a copy of the manager's default attributes.
func (m *Manager) Defaults() Options {
	return m.defaults
}

// Set writes a cookie.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) error {
	if name == "" {
		return ErrInvalidName
	}
	http.SetCookie(w, build(name, value, apply(m.defaults, opts)))
	return nil
}

// Get returns the value of the named request cookie.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Delete instructs the browser to drop the cookie. Path and Domain from opts
// must match the ones the cookie was set with.
func (m *Manager) Delete(w http.ResponseWriter, name string, opts ...Option) {
	o := apply(m.defaults, opts)
	o.MaxAge = -1
	if o.Expires.IsZero() {
		o.Expires = time.Unix(0, 0)
	}
	http.SetCookie(w, build(name, "", o))
}

func build(name, value string, o Options) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   o.MaxAge,
		Expires:  o.Expires,
		Secure:   o.Secure,
		HttpOnly: o.HttpOnly,
		SameSite: o.SameSite,
	}
}
