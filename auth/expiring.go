package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/andrebq/turnstile/users"
)

type (
	// ExpiringSessionAuth refuses sessions older than a fixed duration.
	// A duration <= 0 disables expiration.
	ExpiringSessionAuth struct {
		*SessionAuth
		duration time.Duration
	}
)

func NewExpiringSessionAuth(inner *SessionAuth, duration time.Duration) *ExpiringSessionAuth {
	return &ExpiringSessionAuth{SessionAuth: inner, duration: duration}
}

func (e *ExpiringSessionAuth) Duration() time.Duration {
	return e.duration
}

// Expired reports if a session created at createdAt is no longer valid.
// A session is still valid at exactly createdAt+duration.
func (e *ExpiringSessionAuth) Expired(createdAt time.Time) bool {
	if e.duration <= 0 {
		return false
	}
	return e.now().After(createdAt.Add(e.duration))
}

// UserIDForSession behaves like SessionAuth but returns ErrExpiredSession
// for old sessions. Expired sessions are kept in the store.
func (e *ExpiringSessionAuth) UserIDForSession(ctx context.Context, sessionID string) (string, error) {
	sess, err := e.lookup(sessionID)
	if err != nil {
		return "", err
	}
	if e.Expired(sess.CreatedAt) {
		return "", ErrExpiredSession
	}
	return sess.UserID, nil
}

func (e *ExpiringSessionAuth) Authenticate(r *http.Request) (*users.User, error) {
	return authenticateSession(r, e.SessionCookie, e.UserIDForSession, e.users)
}

func (e *ExpiringSessionAuth) CurrentUser(r *http.Request) *users.User {
	return collapse(r, e.Authenticate)
}
