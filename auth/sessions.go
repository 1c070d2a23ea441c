package auth

import (
	"sync"
	"time"
)

type (
	// Session binds an opaque id to the user it was issued for
	Session struct {
		ID        string    `json:"session_id"`
		UserID    string    `json:"user_id"`
		CreatedAt time.Time `json:"created_at"`
	}

	// SessionStore keeps sessions in memory, safe for concurrent use.
	SessionStore struct {
		lock     sync.RWMutex
		sessions map[string]Session
	}
)

var (
	processSessions     *SessionStore
	processSessionsOnce sync.Once
)

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]Session)}
}

// ProcessSessions returns the store shared by every in-memory strategy
// built without an explicit store. It lives as long as the process.
func ProcessSessions() *SessionStore {
	processSessionsOnce.Do(func() {
		processSessions = NewSessionStore()
	})
	return processSessions
}

func (s *SessionStore) Put(sess Session) {
	s.lock.Lock()
	s.sessions[sess.ID] = sess
	s.lock.Unlock()
}

func (s *SessionStore) Get(id string) (Session, bool) {
	s.lock.RLock()
	sess, ok := s.sessions[id]
	s.lock.RUnlock()
	return sess, ok
}

// Delete removes id and reports if it was present
func (s *SessionStore) Delete(id string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

func (s *SessionStore) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.sessions)
}
