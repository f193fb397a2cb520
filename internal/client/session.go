package client

import "sync"

// Session carries the bearer token for outgoing calls plus the hook fired
// when the server rejects it. It replaces any notion of global auth
// state: the owner constructs one and hands it to the client.
type Session struct {
	mu    sync.RWMutex
	token string

	// OnUnauthorized is invoked at most once per rejected call, after the
	// normalized error is built. Optional.
	OnUnauthorized func()
}

func NewSession(token string) *Session {
	return &Session{token: token}
}

func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *Session) unauthorized() {
	if s == nil || s.OnUnauthorized == nil {
		return
	}
	s.OnUnauthorized()
}
