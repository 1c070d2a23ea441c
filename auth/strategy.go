package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/andrebq/turnstile/internal/logutil"
	"github.com/andrebq/turnstile/users"
)

const (
	DefaultSessionName = "_my_session_id"
)

type (
	Strategy interface {
		// RequireAuth returns false only when path matches one of the excluded patterns
		RequireAuth(path string, excluded []string) bool
		AuthorizationHeader(r *http.Request) string
		SessionCookie(r *http.Request) string
		// CurrentUser is nil whenever Authenticate fails
		CurrentUser(r *http.Request) *users.User
		Authenticate(r *http.Request) (*users.User, error)
	}

	// SessionStrategy is implemented by strategies that issue sessions
	SessionStrategy interface {
		Strategy
		// CookieName is the cookie carrying the session id
		CookieName() string
		CreateSession(ctx context.Context, userID string) (string, error)
		UserIDForSession(ctx context.Context, sessionID string) (string, error)
		DestroySession(r *http.Request) (bool, error)
	}

	// UserStore is the read side of the user persistence layer
	UserStore interface {
		SearchByEmail(ctx context.Context, email string) ([]*users.User, error)
		Get(ctx context.Context, id string) (*users.User, error)
	}

	// Base implements the contract without ever accepting a request,
	// other strategies embed it for the request reading helpers.
	Base struct {
		SessionName string
	}
)

func (b Base) RequireAuth(path string, excluded []string) bool {
	return RequireAuth(path, excluded)
}

func (b Base) AuthorizationHeader(r *http.Request) string {
	if r == nil {
		return ""
	}
	return r.Header.Get("Authorization")
}

func (b Base) CookieName() string {
	if b.SessionName == "" {
		return DefaultSessionName
	}
	return b.SessionName
}

func (b Base) SessionCookie(r *http.Request) string {
	if r == nil {
		return ""
	}
	c, err := r.Cookie(b.CookieName())
	if err != nil {
		return ""
	}
	return c.Value
}

func (b Base) CurrentUser(r *http.Request) *users.User {
	return nil
}

func (b Base) Authenticate(r *http.Request) (*users.User, error) {
	return nil, ErrNoCredentials
}

// RequireAuth reports if path needs authentication given the excluded
// patterns.
//
// Trailing slashes are ignored on both sides. A pattern ending in * matches
// every path starting with the pattern (without the * and the trailing
// slash). Comparison is case-sensitive.
func RequireAuth(path string, excluded []string) bool {
	if path == "" || len(excluded) == 0 {
		return true
	}
	normalized := strings.TrimRight(path, "/")
	for _, pattern := range excluded {
		if strings.HasSuffix(pattern, "*") {
			prefix := strings.TrimRight(strings.TrimRight(pattern, "*"), "/")
			if strings.HasPrefix(normalized, prefix) {
				return false
			}
			continue
		}
		if normalized == strings.TrimRight(pattern, "/") {
			return false
		}
	}
	return true
}

// collapse turns the outcome of authenticate into a user or nil,
// storage problems are logged since they are not the client's fault.
func collapse(r *http.Request, authenticate func(*http.Request) (*users.User, error)) *users.User {
	u, err := authenticate(r)
	if err == nil {
		return u
	}
	if r != nil {
		log := logutil.GetOrDefault(r.Context())
		if errors.Is(err, PersistenceFailure{}) {
			log.Error().Err(err).Msg("Unable to authenticate request")
		} else {
			log.Debug().Err(err).Msg("Request not authenticated")
		}
	}
	return nil
}

// lookupUser resolves the user behind userID, missing users and store
// errors are kept apart.
func lookupUser(ctx context.Context, store UserStore, userID string) (*users.User, error) {
	if store == nil {
		return nil, ErrUserNotFound
	}
	u, err := store.Get(ctx, userID)
	if errors.Is(err, users.ErrUserNotFound) {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, persistenceFailure("load user", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}
