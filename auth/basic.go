package auth

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/andrebq/turnstile/users"
)

type (
	// Credential is the email/password pair carried by a Basic header
	Credential struct {
		Email    string
		Password string
	}

	// BasicAuth authenticates every request from its Authorization header
	BasicAuth struct {
		Base
		users UserStore
	}
)

const (
	basicPrefix = "Basic "
)

func NewBasicAuth(store UserStore) *BasicAuth {
	return &BasicAuth{users: store}
}

// ExtractBase64AuthorizationHeader returns what follows the "Basic " prefix.
// The scheme is case sensitive and must be followed by exactly one space.
func ExtractBase64AuthorizationHeader(header string) (string, bool) {
	if !strings.HasPrefix(header, basicPrefix) {
		return "", false
	}
	return header[len(basicPrefix):], true
}

// DecodeBase64AuthorizationHeader decodes standard base64 into utf-8 text
func DecodeBase64AuthorizationHeader(encoded string) (string, bool) {
	buf, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || !utf8.Valid(buf) {
		return "", false
	}
	return string(buf), true
}

// ExtractUserCredentials splits decoded at the first colon, passwords
// might contain colons but emails can't.
func ExtractUserCredentials(decoded string) (Credential, bool) {
	idx := strings.Index(decoded, ":")
	if idx < 0 {
		return Credential{}, false
	}
	return Credential{Email: decoded[:idx], Password: decoded[idx+1:]}, true
}

// UserObjectFromCredentials returns the first user registered with
// cred.Email whose password matches cred.Password.
func (b *BasicAuth) UserObjectFromCredentials(ctx context.Context, cred Credential) (*users.User, error) {
	if cred.Email == "" {
		return nil, ErrMalformedCredential
	}
	if b.users == nil {
		return nil, ErrUserNotFound
	}
	candidates, err := b.users.SearchByEmail(ctx, cred.Email)
	if err != nil {
		return nil, persistenceFailure("search users", err)
	}
	for _, u := range candidates {
		if u.IsValidPassword(cred.Password) {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (b *BasicAuth) Authenticate(r *http.Request) (*users.User, error) {
	header := b.AuthorizationHeader(r)
	if header == "" {
		return nil, ErrNoCredentials
	}
	encoded, ok := ExtractBase64AuthorizationHeader(header)
	if !ok {
		return nil, ErrMalformedCredential
	}
	decoded, ok := DecodeBase64AuthorizationHeader(encoded)
	if !ok {
		return nil, ErrDecodeFailure
	}
	cred, ok := ExtractUserCredentials(decoded)
	if !ok {
		return nil, ErrMalformedCredential
	}
	return b.UserObjectFromCredentials(r.Context(), cred)
}

func (b *BasicAuth) CurrentUser(r *http.Request) *users.User {
	return collapse(r, b.Authenticate)
}
