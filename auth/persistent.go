package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/andrebq/turnstile/users"
)

type (
	// RecordStore keeps sessions outside of the process memory.
	//
	// Get must return ErrUnknownSession when id is not present,
	// Delete reports if a record was removed.
	RecordStore interface {
		Insert(ctx context.Context, sess Session) error
		Get(ctx context.Context, id string) (Session, error)
		Delete(ctx context.Context, id string) (bool, error)
	}

	// PersistentSessionAuth applies the expiration rules of the wrapped
	// strategy to sessions kept in a RecordStore. The in-memory store of
	// the wrapped strategy is never written.
	PersistentSessionAuth struct {
		*ExpiringSessionAuth
		records RecordStore
	}
)

func NewPersistentSessionAuth(inner *ExpiringSessionAuth, records RecordStore) *PersistentSessionAuth {
	return &PersistentSessionAuth{ExpiringSessionAuth: inner, records: records}
}

// CreateSession writes a new session record. When the record cannot be
// written no session exists and a PersistenceFailure is returned.
func (p *PersistentSessionAuth) CreateSession(ctx context.Context, userID string) (string, error) {
	sess, err := p.mint(userID)
	if err != nil {
		return "", err
	}
	if err := p.records.Insert(ctx, sess); err != nil {
		return "", persistenceFailure("insert session", err)
	}
	return sess.ID, nil
}

func (p *PersistentSessionAuth) UserIDForSession(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", ErrUnknownSession
	}
	sess, err := p.records.Get(ctx, sessionID)
	if errors.Is(err, ErrUnknownSession) {
		return "", ErrUnknownSession
	} else if err != nil {
		return "", persistenceFailure("load session", err)
	}
	if p.Expired(sess.CreatedAt) {
		return "", ErrExpiredSession
	}
	return sess.UserID, nil
}

func (p *PersistentSessionAuth) DestroySession(r *http.Request) (bool, error) {
	if r == nil {
		return false, nil
	}
	id := p.SessionCookie(r)
	if id == "" {
		return false, nil
	}
	removed, err := p.records.Delete(r.Context(), id)
	if err != nil {
		return false, persistenceFailure("delete session", err)
	}
	return removed, nil
}

func (p *PersistentSessionAuth) Authenticate(r *http.Request) (*users.User, error) {
	return authenticateSession(r, p.SessionCookie, p.UserIDForSession, p.users)
}

func (p *PersistentSessionAuth) CurrentUser(r *http.Request) *users.User {
	return collapse(r, p.Authenticate)
}
