package api

import (
	"net/http"

	"github.com/andrebq/turnstile/auth"
	"github.com/julienschmidt/httprouter"
)

type (
	Options struct {
		// Excluded paths skip authentication, nil means DefaultExcludedPaths
		Excluded []string
		// SecureCookie marks session cookies as https only
		SecureCookie bool
		// Upstream receives authenticated requests that match no route
		Upstream http.Handler
	}
)

// AsHandler exposes the v1 api guarded by strategy. Login and logout
// are only available when strategy manages sessions.
func AsHandler(strategy auth.Strategy, store auth.UserStore, opts Options) http.Handler {
	excluded := opts.Excluded
	if excluded == nil {
		excluded = DefaultExcludedPaths
	}
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(notFound)
	if opts.Upstream != nil {
		router.NotFound = opts.Upstream
		router.HandleMethodNotAllowed = false
	}
	router.HandlerFunc("GET", "/api/v1/status", status)
	router.HandlerFunc("GET", "/api/v1/unauthorized", unauthorized)
	router.HandlerFunc("GET", "/api/v1/forbidden", forbidden)
	router.HandlerFunc("GET", "/api/v1/users/me", me)
	if sessions, ok := strategy.(auth.SessionStrategy); ok && store != nil {
		router.HandlerFunc("POST", "/api/v1/auth_session/login", login(sessions, store, opts.SecureCookie))
		router.HandlerFunc("DELETE", "/api/v1/auth_session/logout", logout(sessions))
	}
	return NewRealm(strategy, excluded).Protect(router)
}
