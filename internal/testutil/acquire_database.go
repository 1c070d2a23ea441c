package testutil

import (
	"context"
	"database/sql"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/andrebq/turnstile/internal/database"
	"github.com/andrebq/turnstile/passwd"
	"github.com/andrebq/turnstile/users"
	"golang.org/x/crypto/bcrypt"
)

type (
	TestLog interface {
		Fatal(...interface{})
		Log(...interface{})
	}
)

// FastHasher keeps tests quick, it must never be used outside tests
var FastHasher = passwd.Bcrypt{Cost: bcrypt.MinCost}

func AcquireDatabase(ctx context.Context, t TestLog, name string) (*sql.DB, func()) {
	dir, err := ioutil.TempDir("", "turnstile-tests")
	if err != nil {
		t.Fatal(err)
	}
	db, err := database.Open(ctx, filepath.Join(dir, name), true)
	if err != nil {
		t.Fatal(err)
	}
	return db, func() {
		err := db.Close()
		if err != nil {
			t.Log("unable to close database", err)
		}
		err = os.RemoveAll(dir)
		if err != nil {
			t.Log("unable to cleanup temp dir", dir)
		}
	}
}

func AcquireUserStore(ctx context.Context, t TestLog, name string) (*users.Store, func()) {
	db, cleanupDB := AcquireDatabase(ctx, t, name)
	store, err := users.Open(ctx, db)
	if err != nil {
		cleanupDB()
		t.Fatal(err)
	}
	return store, func() {
		err := store.Close()
		if err != nil {
			t.Log("unable to close user store", err)
		}
		cleanupDB()
	}
}

// AddUser registers email with a hash of password and fails the test
// on any error
func AddUser(ctx context.Context, t TestLog, store *users.Store, email, password string) *users.User {
	hash, err := FastHasher.Hash(password)
	if err != nil {
		t.Fatal(err)
	}
	u, err := store.AddUser(ctx, email, string(hash))
	if err != nil {
		t.Fatal(err)
	}
	return u
}
