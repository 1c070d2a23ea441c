package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequireAuth(t *testing.T) {
	excluded := []string{"/api/v1/status/", "/api/v1/stat*", "/api/v1/public/*"}
	for _, tc := range []struct {
		path     string
		excluded []string
		expected bool
	}{
		{"/api/v1/status", excluded, false},
		{"/api/v1/status/", excluded, false},
		{"/api/v1/stats", excluded, false},
		{"/api/v1/public/index.html", excluded, false},
		{"/api/v1/public", excluded, false},
		{"/api/v1/other/", []string{"/api/v1/stat*"}, true},
		{"/api/v1/Status", []string{"/api/v1/status"}, true},
		{"/api/v1/status/more", []string{"/api/v1/status/"}, true},
		{"/api/v1/users", []string{"/api/v1/users///"}, false},
		{"", excluded, true},
		{"/x", nil, true},
		{"/x", []string{}, true},
	} {
		require.Equal(t, tc.expected, RequireAuth(tc.path, tc.excluded), "path %q excluded %v", tc.path, tc.excluded)
	}
}

func TestBaseReadsRequest(t *testing.T) {
	var b Base
	require.Equal(t, "", b.AuthorizationHeader(nil))
	require.Equal(t, "", b.SessionCookie(nil))
	require.Nil(t, b.CurrentUser(nil))

	r := httptest.NewRequest("GET", "/", nil)
	require.Equal(t, "", b.AuthorizationHeader(r))
	require.Equal(t, "", b.SessionCookie(r))

	r.Header.Set("Authorization", "Basic abc")
	r.AddCookie(&http.Cookie{Name: DefaultSessionName, Value: "s1"})
	r.AddCookie(&http.Cookie{Name: "other", Value: "s2"})
	require.Equal(t, "Basic abc", b.AuthorizationHeader(r))
	require.Equal(t, "s1", b.SessionCookie(r))
	require.Equal(t, "s2", Base{SessionName: "other"}.SessionCookie(r))

	u, err := b.Authenticate(r)
	require.Nil(t, u)
	require.ErrorIs(t, err, ErrNoCredentials)
}

func TestPersistenceFailureMatching(t *testing.T) {
	err := persistenceFailure("load user", errBroken)
	require.ErrorIs(t, err, PersistenceFailure{})
	require.ErrorIs(t, err, errBroken)
	require.Contains(t, err.Error(), "load user")
	require.NotErrorIs(t, ErrUnknownSession, PersistenceFailure{})
}
