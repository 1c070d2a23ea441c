package users_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andrebq/turnstile/internal/testutil"
	"github.com/andrebq/turnstile/users"
	"github.com/stretchr/testify/require"
)

func TestAddAndFindUser(t *testing.T) {
	ctx := context.Background()
	store, cleanup := testutil.AcquireUserStore(ctx, t, "users")
	defer cleanup()

	bob := testutil.AddUser(ctx, t, store, "bob@example.com", "secret")
	require.NotEmpty(t, bob.ID)
	require.False(t, bob.CreatedAt.IsZero())

	found, err := store.FindUserBy(ctx, users.Attrs{"email": "bob@example.com"})
	require.NoError(t, err)
	require.Equal(t, bob.ID, found.ID)
	require.True(t, found.IsValidPassword("secret"))
	require.False(t, found.IsValidPassword("Secret"))

	_, err = store.FindUserBy(ctx, users.Attrs{"email": "alice@example.com"})
	if !errors.Is(err, users.ErrUserNotFound) {
		t.Fatalf("missing user should give ErrUserNotFound got %v", err)
	}

	_, err = store.FindUserBy(ctx, users.Attrs{"not_a_column": "x"})
	if !errors.Is(err, users.InvalidQuery{Attribute: "not_a_column"}) {
		t.Fatalf("unknown column should give InvalidQuery got %#v", err)
	}

	_, err = store.FindUserBy(ctx, nil)
	if !errors.Is(err, users.InvalidQuery{}) {
		t.Fatalf("empty filter should give InvalidQuery got %#v", err)
	}

	_, err = store.AddUser(ctx, "bob@example.com", "other")
	if !errors.Is(err, users.ErrDuplicated) {
		t.Fatalf("emails are unique, got %v", err)
	}
}

func TestGetIsCached(t *testing.T) {
	ctx := context.Background()
	store, cleanup := testutil.AcquireUserStore(ctx, t, "users")
	defer cleanup()

	bob := testutil.AddUser(ctx, t, store, "bob@example.com", "secret")
	first, err := store.Get(ctx, bob.ID)
	require.NoError(t, err)
	second, err := store.Get(ctx, bob.ID)
	require.NoError(t, err)
	require.Equal(t, first.Email, second.Email)
	require.Equal(t, first.HashedPassword, second.HashedPassword)
	require.True(t, second.IsValidPassword("secret"), "cached users keep their password hash")

	_, err = store.Get(ctx, "missing")
	require.ErrorIs(t, err, users.ErrUserNotFound)
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	store, cleanup := testutil.AcquireUserStore(ctx, t, "users")
	defer cleanup()

	bob := testutil.AddUser(ctx, t, store, "bob@example.com", "secret")
	// warm the cache so the update must invalidate it
	_, err := store.Get(ctx, bob.ID)
	require.NoError(t, err)

	err = store.UpdateUser(ctx, bob.ID, users.Attrs{"first_name": "Bob", "last_name": "Dylan"})
	require.NoError(t, err)
	updated, err := store.Get(ctx, bob.ID)
	require.NoError(t, err)
	require.Equal(t, "Bob Dylan", updated.DisplayName())

	err = store.UpdateUser(ctx, bob.ID, users.Attrs{"first_name": "Robert", "favorite_color": "blue"})
	if !errors.Is(err, users.InvalidAttributeUpdate{Attribute: "favorite_color"}) {
		t.Fatalf("unknown attribute should be rejected, got %#v", err)
	}
	unchanged, err := store.FindUserBy(ctx, users.Attrs{"id": bob.ID})
	require.NoError(t, err)
	require.Equal(t, "Bob", unchanged.FirstName, "a rejected update must not write anything")

	err = store.UpdateUser(ctx, bob.ID, users.Attrs{"id": "other"})
	require.ErrorIs(t, err, users.InvalidAttributeUpdate{Attribute: "id"})

	err = store.UpdateUser(ctx, "missing", users.Attrs{"first_name": "x"})
	require.ErrorIs(t, err, users.ErrUserNotFound)
}

func TestCacheExpiresForeignUpdates(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the cache window to pass")
	}
	ctx := context.Background()
	db, cleanup := testutil.AcquireDatabase(ctx, t, "users")
	defer cleanup()

	local, err := users.OpenWithCacheLife(ctx, db, time.Second)
	require.NoError(t, err)
	defer local.Close()
	// a second store has its own cache, like another process would
	other, err := users.Open(ctx, db)
	require.NoError(t, err)
	defer other.Close()

	bob := testutil.AddUser(ctx, t, local, "bob@example.com", "secret")
	_, err = local.Get(ctx, bob.ID)
	require.NoError(t, err)

	require.NoError(t, other.UpdateUser(ctx, bob.ID, users.Attrs{"first_name": "Robert"}))
	stale, err := local.Get(ctx, bob.ID)
	require.NoError(t, err)
	require.Equal(t, "", stale.FirstName, "cached copy is served inside the window")

	require.Eventually(t, func() bool {
		u, err := local.Get(ctx, bob.ID)
		return err == nil && u.FirstName == "Robert"
	}, 10*time.Second, 200*time.Millisecond)
}

func TestSearchOrder(t *testing.T) {
	ctx := context.Background()
	store, cleanup := testutil.AcquireUserStore(ctx, t, "users")
	defer cleanup()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		testutil.AddUser(ctx, t, store, email, "pw")
	}
	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "a@example.com", all[0].Email)
	require.Equal(t, "c@example.com", all[2].Email)

	found, err := store.SearchByEmail(ctx, "b@example.com")
	require.NoError(t, err)
	require.Len(t, found, 1)

	none, err := store.SearchByEmail(ctx, "z@example.com")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestPublicJSON(t *testing.T) {
	u := &users.User{ID: "1", Email: "bob@example.com", HashedPassword: "$2a$hash", ResetToken: "tk"}
	buf, err := u.MarshalJSON()
	require.NoError(t, err)
	require.NotContains(t, string(buf), "hash")
	require.NotContains(t, string(buf), "tk")
	require.Contains(t, string(buf), `"email":"bob@example.com"`)
	require.Equal(t, "bob@example.com", u.DisplayName())
}
