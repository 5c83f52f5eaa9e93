package session

import (
	"errors"
	"sync"
)

// ErrNoSession is returned before any capture logs have been loaded.
var ErrNoSession = errors.New("no capture logs loaded")

// Store holds the current session. Loading new files replaces it wholesale.
type Store struct {
	mu      sync.RWMutex
	current *Session
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Replace makes s the current session.
func (st *Store) Replace(s *Session) {
	st.mu.Lock()
	st.current = s
	st.mu.Unlock()
}

// Current returns the active session or ErrNoSession.
func (st *Store) Current() (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if st.current == nil {
		return nil, ErrNoSession
	}
	return st.current, nil
}
