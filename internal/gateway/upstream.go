// Package gateway forwards authenticated requests to the service
// turnstile protects.
package gateway

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/andrebq/turnstile/auth/api"
	"github.com/andrebq/turnstile/internal/logutil"
)

const (
	// UserHeader carries the id of the authenticated user to the upstream
	UserHeader = "X-Turnstile-User-Id"
)

// Upstream proxies every request to target. Whatever the client sent as
// UserHeader is dropped and replaced by the user attached to the request.
func Upstream(target *url.URL) http.Handler {
	proxy := httputil.NewSingleHostReverseProxy(target)
	director := proxy.Director
	proxy.Director = func(r *http.Request) {
		director(r)
		r.Header.Del(UserHeader)
		if u := api.UserFromContext(r.Context()); u != nil {
			r.Header.Set(UserHeader, u.ID)
		}
	}
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger := logutil.GetOrDefault(r.Context())
		logger.Error().Err(err).Str("upstream", target.String()).Msg("Unable to reach upstream")
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}
	return proxy
}
