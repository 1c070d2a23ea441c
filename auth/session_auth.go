package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/andrebq/turnstile/users"
	"github.com/google/uuid"
)

type (
	// Option customizes session based strategies
	Option func(*SessionAuth)

	// SessionAuth identifies requests by a session id cookie, sessions
	// live in a SessionStore.
	SessionAuth struct {
		Base
		store *SessionStore
		users UserStore
		now   func() time.Time
		newID func() (string, error)
	}
)

// WithClock replaces time.Now as the source of creation and expiry times
func WithClock(now func() time.Time) Option {
	return func(s *SessionAuth) { s.now = now }
}

// WithIDGenerator replaces the random session id generator
func WithIDGenerator(gen func() (string, error)) Option {
	return func(s *SessionAuth) { s.newID = gen }
}

func WithSessionName(name string) Option {
	return func(s *SessionAuth) { s.SessionName = name }
}

// NewSessionAuth returns a strategy keeping sessions in store, when store
// is nil ProcessSessions is used.
func NewSessionAuth(store *SessionStore, us UserStore, opts ...Option) *SessionAuth {
	if store == nil {
		store = ProcessSessions()
	}
	s := &SessionAuth{
		Base:  Base{SessionName: DefaultSessionName},
		store: store,
		users: us,
		now:   time.Now,
		newID: randomID,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func randomID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Sessions exposes the store backing s
func (s *SessionAuth) Sessions() *SessionStore {
	return s.store
}

func (s *SessionAuth) CreateSession(ctx context.Context, userID string) (string, error) {
	sess, err := s.mint(userID)
	if err != nil {
		return "", err
	}
	s.store.Put(sess)
	return sess.ID, nil
}

// mint builds a fresh session for userID without storing it
func (s *SessionAuth) mint(userID string) (Session, error) {
	if userID == "" {
		return Session{}, ErrMalformedCredential
	}
	id, err := s.newID()
	if err != nil {
		return Session{}, fmt.Errorf("unable to generate session id, cause %w", err)
	}
	return Session{ID: id, UserID: userID, CreatedAt: s.now()}, nil
}

func (s *SessionAuth) lookup(sessionID string) (Session, error) {
	if sessionID == "" {
		return Session{}, ErrUnknownSession
	}
	sess, ok := s.store.Get(sessionID)
	if !ok {
		return Session{}, ErrUnknownSession
	}
	return sess, nil
}

func (s *SessionAuth) UserIDForSession(ctx context.Context, sessionID string) (string, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return "", err
	}
	return sess.UserID, nil
}

// DestroySession removes the session referenced by the request cookie,
// it reports false when there was nothing to remove.
func (s *SessionAuth) DestroySession(r *http.Request) (bool, error) {
	id := s.SessionCookie(r)
	if id == "" {
		return false, nil
	}
	return s.store.Delete(id), nil
}

func (s *SessionAuth) Authenticate(r *http.Request) (*users.User, error) {
	return authenticateSession(r, s.SessionCookie, s.UserIDForSession, s.users)
}

func (s *SessionAuth) CurrentUser(r *http.Request) *users.User {
	return collapse(r, s.Authenticate)
}

func authenticateSession(r *http.Request,
	cookie func(*http.Request) string,
	userID func(context.Context, string) (string, error),
	store UserStore) (*users.User, error) {
	if r == nil {
		return nil, ErrNoCredentials
	}
	sessionID := cookie(r)
	if sessionID == "" {
		return nil, ErrNoCredentials
	}
	uid, err := userID(r.Context(), sessionID)
	if err != nil {
		return nil, err
	}
	return lookupUser(r.Context(), store, uid)
}
