package auth

import (
	"context"
	"encoding/base64"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBasicStages(t *testing.T) {
	encoded, ok := ExtractBase64AuthorizationHeader("Basic dXNlcjpwYXNz")
	require.True(t, ok)
	require.Equal(t, "dXNlcjpwYXNz", encoded)

	for _, header := range []string{"", "basic dXNlcjpwYXNz", "Basic", "Bearer abc", "BasicdXNlcjpwYXNz"} {
		_, ok := ExtractBase64AuthorizationHeader(header)
		require.False(t, ok, "header %q should be refused", header)
	}

	decoded, ok := DecodeBase64AuthorizationHeader(encoded)
	require.True(t, ok)
	require.Equal(t, "user:pass", decoded)

	_, ok = DecodeBase64AuthorizationHeader("not base64!")
	require.False(t, ok)
	_, ok = DecodeBase64AuthorizationHeader(base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe, ':'}))
	require.False(t, ok, "non utf-8 content must be refused")

	cred, ok := ExtractUserCredentials(decoded)
	require.True(t, ok)
	require.Equal(t, Credential{Email: "user", Password: "pass"}, cred)

	cred, ok = ExtractUserCredentials("bob@example.com:pa:ss:")
	require.True(t, ok)
	require.Equal(t, "bob@example.com", cred.Email)
	require.Equal(t, "pa:ss:", cred.Password)

	_, ok = ExtractUserCredentials("no colon here")
	require.False(t, ok)
}

func basicHeader(email, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+password))
}

func TestBasicCurrentUser(t *testing.T) {
	store := &fakeUsers{}
	store.list = append(store.list,
		newUser(t, "1", "bob@example.com", "first"),
		newUser(t, "2", "bob@example.com", "second"),
		newUser(t, "3", "alice@example.com", "alice"))
	strategy := NewBasicAuth(store)

	r := httptest.NewRequest("GET", "/api/v1/users/me", nil)
	r.Header.Set("Authorization", basicHeader("bob@example.com", "second"))
	u := strategy.CurrentUser(r)
	require.NotNil(t, u)
	require.Equal(t, "2", u.ID, "the user whose password matches must win")

	r.Header.Set("Authorization", basicHeader("alice@example.com", "wrong"))
	require.Nil(t, strategy.CurrentUser(r))
	_, err := strategy.Authenticate(r)
	require.ErrorIs(t, err, ErrUserNotFound)

	r.Header.Set("Authorization", basicHeader("carol@example.com", "alice"))
	require.Nil(t, strategy.CurrentUser(r))

	r.Header.Set("Authorization", "Basic %%%")
	_, err = strategy.Authenticate(r)
	require.ErrorIs(t, err, ErrDecodeFailure)

	r.Header.Set("Authorization", "Token abc")
	_, err = strategy.Authenticate(r)
	require.ErrorIs(t, err, ErrMalformedCredential)

	r.Header.Del("Authorization")
	_, err = strategy.Authenticate(r)
	require.ErrorIs(t, err, ErrNoCredentials)
	require.Nil(t, strategy.CurrentUser(nil))
}

func TestBasicStoreFailure(t *testing.T) {
	strategy := NewBasicAuth(&fakeUsers{err: errBroken})
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", basicHeader("bob@example.com", "first"))
	require.Nil(t, strategy.CurrentUser(r))
	_, err := strategy.Authenticate(r)
	require.ErrorIs(t, err, PersistenceFailure{})

	_, err = strategy.UserObjectFromCredentials(context.Background(), Credential{Password: "x"})
	require.ErrorIs(t, err, ErrMalformedCredential)
}
