package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/andrebq/turnstile/auth"
	"github.com/andrebq/turnstile/internal/logutil"
	"github.com/andrebq/turnstile/users"
)

type (
	// Realm guards handlers with an authentication strategy
	Realm struct {
		strategy auth.Strategy
		excluded []string
	}

	userKey struct{}
)

var (
	// DefaultExcludedPaths never require authentication
	DefaultExcludedPaths = []string{
		"/api/v1/status/",
		"/api/v1/unauthorized/",
		"/api/v1/forbidden/",
		"/api/v1/auth_session/login/",
	}
)

func NewRealm(strategy auth.Strategy, excluded []string) *Realm {
	return &Realm{
		strategy: strategy,
		excluded: excluded,
	}
}

// Protect rejects requests to non-excluded paths unless the strategy
// can identify the user. Requests without any credentials get 401,
// requests with credentials that do not resolve to a user get 403.
func (s *Realm) Protect(sensitive http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.strategy.RequireAuth(r.URL.Path, s.excluded) {
			sensitive.ServeHTTP(w, r)
			return
		}
		if s.strategy.AuthorizationHeader(r) == "" && s.strategy.SessionCookie(r) == "" {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		user, err := s.strategy.Authenticate(r)
		if err != nil {
			log := logutil.GetOrDefault(r.Context())
			if errors.Is(err, auth.PersistenceFailure{}) {
				log.Error().Err(err).Str("path", r.URL.Path).Msg("Unable to authenticate request")
			} else {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("Request rejected")
			}
			writeError(w, http.StatusForbidden, "Forbidden")
			return
		}
		sensitive.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// WithUser returns a copy of ctx carrying u
func WithUser(ctx context.Context, u *users.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFromContext returns the user attached by Protect, nil for
// requests that did not require authentication
func UserFromContext(ctx context.Context) *users.User {
	u, _ := ctx.Value(userKey{}).(*users.User)
	return u
}
