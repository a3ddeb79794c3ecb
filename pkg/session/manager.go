package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/sessiondb/pkg/cookie"
	"github.com/dmitrymomot/sessiondb/pkg/logger"
)

// maxIDLength bounds the cookie value accepted as a session id.
const maxIDLength = 128

// Manager drives the session lifecycle of a request: Start reads or
// establishes the session, End writes it back, Kill destroys it.
type Manager struct {
	store     Store
	settings  Settings
	collector *Collector
	cookies   *cookie.Manager
	config    Config
	logger    *slog.Logger
	newID     func() (string, error)
}

// New creates a new session manager with the given options
func New(opts ...Option) *Manager {
	m := &Manager{
		config: DefaultConfig(),
		newID:  generateID,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.store == nil {
		m.store = NewMemoryStore()
	}
	if m.settings == nil {
		m.settings = SettingsMap{}
	}
	if m.cookies == nil {
		m.cookies = cookie.New()
	}
	if m.config.CookieName == "" {
		m.config.CookieName = DefaultCookieName
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	m.logger = m.logger.With(logger.Component("session"))
	if m.collector == nil {
		m.collector = NewCollector(m.store, m.settings, WithCollectorLogger(m.logger))
	}

	return m
}

// Start loads the session named by the request cookie or establishes a new
// one, and sets the session cookie. A missing, expired or unreadable
// session yields a fresh empty session with a new id; store failures are
// logged, not returned.
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	sess := m.load(ctx, r)
	if sess == nil {
		id, err := m.newID()
		if err != nil {
			return nil, err
		}
		sess = newSession(id)
	}

	opts := ResolveCookie(setting(m.settings, SettingBaseURL), m.settings)
	if err := m.cookies.Set(w, m.config.CookieName, sess.ID, cookie.WithOptions(opts)); err != nil {
		return nil, err
	}
	return sess, nil
}

func (m *Manager) load(ctx context.Context, r *http.Request) *Session {
	id, err := m.cookies.Get(r, m.config.CookieName)
	if err != nil || !validID(id) {
		return nil
	}

	rec, err := m.store.Read(ctx, id, PolicyFrom(m.settings))
	switch {
	case err == nil:
	case errors.Is(err, ErrSessionExpired):
		m.logger.DebugContext(ctx, "session expired", logger.SessionID(id))
		return nil
	case errors.Is(err, ErrSessionNotFound):
		return nil
	default:
		m.logger.ErrorContext(ctx, "session read failed, starting fresh",
			logger.SessionID(id), logger.Error(err))
		return nil
	}

	sess := &Session{ID: rec.ID, Owner: rec.Owner, Values: make(map[string]any)}
	if len(rec.Data) > 0 {
		if err := json.Unmarshal(rec.Data, &sess.Values); err != nil {
			m.logger.WarnContext(ctx, "session data unreadable, values reset",
				logger.SessionID(id), logger.Error(err))
			sess.Values = make(map[string]any)
		}
	}
	return sess
}

// End writes the session back. Errors are returned so the request can fail.
func (m *Manager) End(ctx context.Context, sess *Session) error {
	if sess == nil || sess.destroyed {
		return nil
	}

	data, err := json.Marshal(sess.Values)
	if err != nil {
		return err
	}

	var owner *int64
	if sess.ownerChanged {
		owner = sess.Owner
	}
	if err := m.store.Write(ctx, sess.ID, data, owner); err != nil {
		return err
	}
	// A freshly inserted row carries no owner; attach it with an update.
	if sess.IsNew && owner != nil {
		if err := m.store.Write(ctx, sess.ID, data, owner); err != nil {
			return err
		}
	}

	sess.IsNew = false
	sess.ownerChanged = false
	return nil
}

// Login ties the session to an access-log entry. The link is persisted by
// the next End.
func (m *Manager) Login(sess *Session, accessLogID int64) {
	if sess == nil {
		return
	}
	sess.Owner = &accessLogID
	sess.ownerChanged = true
}

// Kill destroys the session, closing accessLogID or, when nil, the entry
// linked to the session. The browser cookie is cleared only once the row is
// gone, so a failed destroy leaves the client on its live session.
func (m *Manager) Kill(ctx context.Context, w http.ResponseWriter, sess *Session, accessLogID *int64) error {
	if sess != nil {
		if err := m.store.Destroy(ctx, sess.ID, accessLogID); err != nil {
			m.logger.ErrorContext(ctx, "session destroy failed", logger.SessionID(sess.ID), logger.Error(err))
			return err
		}
		sess.destroyed = true
		sess.Values = make(map[string]any)
	}

	m.cookies.Delete(w, m.config.CookieName, cookie.WithOptions(ClearCookie(setting(m.settings, SettingBaseURL))))
	return nil
}

// Maintain runs one garbage collection pass.
func (m *Manager) Maintain(ctx context.Context) (Sweep, error) {
	return m.collector.Collect(ctx)
}

// Collector returns the collector used by Maintain.
func (m *Manager) Collector() *Collector {
	return m.collector
}

// generateID creates a cryptographically secure session id.
func generateID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func validID(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_', c == ',':
		default:
			return false
		}
	}
	return true
}
