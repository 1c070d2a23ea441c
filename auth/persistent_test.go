package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPersistentSession(t *testing.T) {
	ctx := context.Background()
	clock := newManualClock()
	memory := NewSessionStore()
	records := newFakeRecords()
	bob := newUser(t, "42", "bob@example.com", "secret")
	inner := NewExpiringSessionAuth(NewSessionAuth(memory, storeWith(bob), WithClock(clock.Now)), time.Minute)
	strategy := NewPersistentSessionAuth(inner, records)

	id, err := strategy.CreateSession(ctx, bob.ID)
	require.NoError(t, err)
	require.Equal(t, 1, records.Len())
	require.Equal(t, 0, memory.Len(), "persistent sessions never touch memory")

	uid, err := strategy.UserIDForSession(ctx, id)
	require.NoError(t, err)
	require.Equal(t, bob.ID, uid)
	u := strategy.CurrentUser(requestWithCookie(DefaultSessionName, id))
	require.NotNil(t, u)
	require.Equal(t, bob.ID, u.ID)

	_, err = strategy.UserIDForSession(ctx, "")
	require.ErrorIs(t, err, ErrUnknownSession)
	_, err = strategy.UserIDForSession(ctx, "unknown")
	require.ErrorIs(t, err, ErrUnknownSession)

	clock.Advance(time.Minute + time.Second)
	_, err = strategy.UserIDForSession(ctx, id)
	require.ErrorIs(t, err, ErrExpiredSession)
	require.Equal(t, 1, records.Len())

	r := requestWithCookie(DefaultSessionName, id)
	destroyed, err := strategy.DestroySession(r)
	require.NoError(t, err)
	require.True(t, destroyed)
	destroyed, err = strategy.DestroySession(r)
	require.NoError(t, err)
	require.False(t, destroyed)

	destroyed, err = strategy.DestroySession(nil)
	require.NoError(t, err)
	require.False(t, destroyed)
	destroyed, err = strategy.DestroySession(httptest.NewRequest("DELETE", "/", nil))
	require.NoError(t, err)
	require.False(t, destroyed)
}

func TestPersistentSessionStorageFailure(t *testing.T) {
	ctx := context.Background()
	memory := NewSessionStore()
	records := newFakeRecords()
	strategy := NewPersistentSessionAuth(NewExpiringSessionAuth(NewSessionAuth(memory, nil), 0), records)

	id, err := strategy.CreateSession(ctx, "42")
	require.NoError(t, err)

	records.err = errBroken
	created, err := strategy.CreateSession(ctx, "43")
	require.ErrorIs(t, err, PersistenceFailure{})
	require.ErrorIs(t, err, errBroken)
	require.Empty(t, created)
	require.Equal(t, 0, memory.Len(), "a failed insert leaves nothing behind")

	_, err = strategy.UserIDForSession(ctx, id)
	require.ErrorIs(t, err, PersistenceFailure{})

	_, err = strategy.Authenticate(requestWithCookie(DefaultSessionName, id))
	require.ErrorIs(t, err, PersistenceFailure{})
	require.Nil(t, strategy.CurrentUser(requestWithCookie(DefaultSessionName, id)))

	destroyed, err := strategy.DestroySession(requestWithCookie(DefaultSessionName, id))
	require.ErrorIs(t, err, PersistenceFailure{})
	require.False(t, destroyed)

	records.err = nil
	_, err = strategy.CreateSession(ctx, "")
	require.ErrorIs(t, err, ErrMalformedCredential)
}
