package session

// Session is the request-scoped view of a session row.
type Session struct {
	ID     string
	Owner  *int64
	Values map[string]any
	// IsNew is true until the session has been written once.
	IsNew bool

	ownerChanged bool
	destroyed    bool
}

func newSession(id string) *Session {
	return &Session{
		ID:     id,
		Values: make(map[string]any),
		IsNew:  true,
	}
}

// Destroyed reports whether the session was killed during this request.
func (s *Session) Destroyed() bool {
	return s != nil && s.destroyed
}

// Get retrieves a value from session data
func (s *Session) Get(key string) (any, bool) {
	if s == nil || s.Values == nil {
		return nil, false
	}
	val, ok := s.Values[key]
	return val, ok
}

// GetString retrieves a string value from session data
func (s *Session) GetString(key string) (string, bool) {
	val, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, ok := val.(string)
	return str, ok
}

// GetInt retrieves an int value. Numbers decoded from storage arrive as float64.
func (s *Session) GetInt(key string) (int, bool) {
	val, ok := s.Get(key)
	if !ok {
		return 0, false
	}
	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// GetBool retrieves a bool value from session data
func (s *Session) GetBool(key string) (bool, bool) {
	val, ok := s.Get(key)
	if !ok {
		return false, false
	}
	b, ok := val.(bool)
	return b, ok
}

// Set stores a value in session data
func (s *Session) Set(key string, value any) {
	if s == nil {
		return
	}
	if s.Values == nil {
		s.Values = make(map[string]any)
	}
	s.Values[key] = value
}

// Delete removes a value from session data
func (s *Session) Delete(key string) {
	if s == nil || s.Values == nil {
		return
	}
	delete(s.Values, key)
}

// Clear removes all values.
func (s *Session) Clear() {
	if s == nil {
		return
	}
	s.Values = make(map[string]any)
}

// IsAuthenticated returns true once an owner is attached.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Owner != nil
}
