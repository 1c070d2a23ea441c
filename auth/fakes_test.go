package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/andrebq/turnstile/internal/testutil"
	"github.com/andrebq/turnstile/users"
)

type (
	fakeUsers struct {
		list []*users.User
		err  error
	}

	fakeRecords struct {
		sync.Mutex
		records map[string]Session
		err     error
	}

	manualClock struct {
		sync.Mutex
		now time.Time
	}
)

var errBroken = errors.New("storage is broken")

func newUser(t *testing.T, id, email, password string) *users.User {
	hash, err := testutil.FastHasher.Hash(password)
	if err != nil {
		t.Fatal(err)
	}
	return &users.User{ID: id, Email: email, HashedPassword: string(hash)}
}

func (f *fakeUsers) SearchByEmail(_ context.Context, email string) ([]*users.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*users.User
	for _, u := range f.list {
		if u.Email == email {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) Get(_ context.Context, id string) (*users.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.list {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, users.ErrUserNotFound
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{records: map[string]Session{}}
}

func (f *fakeRecords) Insert(_ context.Context, sess Session) error {
	f.Lock()
	defer f.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records[sess.ID] = sess
	return nil
}

func (f *fakeRecords) Get(_ context.Context, id string) (Session, error) {
	f.Lock()
	defer f.Unlock()
	if f.err != nil {
		return Session{}, f.err
	}
	sess, ok := f.records[id]
	if !ok {
		return Session{}, ErrUnknownSession
	}
	return sess, nil
}

func (f *fakeRecords) Delete(_ context.Context, id string) (bool, error) {
	f.Lock()
	defer f.Unlock()
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.records[id]
	delete(f.records, id)
	return ok, nil
}

func (f *fakeRecords) Len() int {
	f.Lock()
	defer f.Unlock()
	return len(f.records)
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (m *manualClock) Now() time.Time {
	m.Lock()
	defer m.Unlock()
	return m.now
}

func (m *manualClock) Advance(d time.Duration) {
	m.Lock()
	m.now = m.now.Add(d)
	m.Unlock()
}

func requestWithCookie(name, value string) *http.Request {
	r := httptest.NewRequest("GET", "/api/v1/users/me", nil)
	r.AddCookie(&http.Cookie{Name: name, Value: value})
	return r
}

func storeWith(list ...*users.User) *fakeUsers {
	return &fakeUsers{list: list}
}
