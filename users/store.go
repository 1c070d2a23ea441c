package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/andrebq/turnstile/internal/database"
	"github.com/andrebq/turnstile/internal/logutil"
	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

type (
	// Attrs maps column names to the values used to filter or update users
	Attrs map[string]string

	Store struct {
		db    *sql.DB
		cache *bigcache.BigCache
		now   func() time.Time
	}

	cachedUser struct {
		ID             string    `json:"id"`
		Email          string    `json:"email"`
		HashedPassword string    `json:"hashed_password"`
		FirstName      string    `json:"first_name"`
		LastName       string    `json:"last_name"`
		SessionID      string    `json:"session_id"`
		ResetToken     string    `json:"reset_token"`
		CreatedAt      time.Time `json:"created_at"`
		UpdatedAt      time.Time `json:"updated_at"`
	}
)

const (
	// DefaultCacheLife bounds how stale a cached user can be when
	// another process updates the same database
	DefaultCacheLife = time.Minute

	userColumns = `id, email, hashed_password, first_name, last_name, session_id, reset_token, created_at, updated_at`
)

var (
	filterable = map[string]bool{
		"id": true, "email": true, "hashed_password": true,
		"first_name": true, "last_name": true,
		"session_id": true, "reset_token": true,
	}
	updatable = map[string]bool{
		"email": true, "hashed_password": true,
		"first_name": true, "last_name": true,
		"session_id": true, "reset_token": true,
	}
)

// Open prepares db to hold users and returns a store on top of it,
// caching reads for DefaultCacheLife.
func Open(ctx context.Context, db *sql.DB) (*Store, error) {
	return OpenWithCacheLife(ctx, db, DefaultCacheLife)
}

// OpenWithCacheLife is Open with a custom cache window. Updates made by
// other processes sharing db become visible once the window passes.
func OpenWithCacheLife(ctx context.Context, db *sql.DB, life time.Duration) (*Store, error) {
	cache, err := bigcache.NewBigCache(bigcache.DefaultConfig(life))
	if err != nil {
		return nil, fmt.Errorf("unable to create user cache, cause %w", err)
	}
	s := &Store{db: db, cache: cache, now: time.Now}
	err = database.Exec(ctx, db,
		`create table if not exists users(
			id text not null primary key,
			email text not null unique,
			hashed_password text not null,
			first_name text not null default '',
			last_name text not null default '',
			session_id text not null default '',
			reset_token text not null default '',
			created_at integer not null,
			updated_at integer not null
		)`,
		`create index if not exists idx_users_created_at on users(created_at)`)
	if err != nil {
		cache.Close()
		return nil, fmt.Errorf("unable to create users table, cause %w", err)
	}
	return s, nil
}

// AddUser stores a new user with the given email and password hash
func (s *Store) AddUser(ctx context.Context, email, hashedPassword string) (*User, error) {
	u := &User{Email: email, HashedPassword: hashedPassword}
	if err := s.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts u, filling its ID and timestamps when they are empty.
func (s *Store) Create(ctx context.Context, u *User) error {
	if strings.TrimSpace(u.Email) == "" {
		return InvalidQuery{Attribute: "email"}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := s.now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}
	_, err := s.db.ExecContext(ctx, `insert into users(`+userColumns+`) values (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.HashedPassword, u.FirstName, u.LastName, u.SessionID, u.ResetToken,
		u.CreatedAt.UnixNano(), u.UpdatedAt.UnixNano())
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return ErrDuplicated
	} else if err != nil {
		return fmt.Errorf("unable to insert user, cause %w", err)
	}
	return nil
}

// FindUserBy returns the first user matching every attribute in attrs
func (s *Store) FindUserBy(ctx context.Context, attrs Attrs) (*User, error) {
	found, err := s.search(ctx, attrs, 1)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, ErrUserNotFound
	}
	return found[0], nil
}

// Search returns all users matching attrs, oldest first.
func (s *Store) Search(ctx context.Context, attrs Attrs) ([]*User, error) {
	return s.search(ctx, attrs, -1)
}

func (s *Store) SearchByEmail(ctx context.Context, email string) ([]*User, error) {
	return s.Search(ctx, Attrs{"email": email})
}

// Get returns the user with the given id, served from cache when possible.
func (s *Store) Get(ctx context.Context, id string) (*User, error) {
	if buf, err := s.cache.Get(id); err == nil {
		var cu cachedUser
		if err := json.Unmarshal(buf, &cu); err == nil {
			u := User(cu)
			return &u, nil
		}
	}
	u, err := s.FindUserBy(ctx, Attrs{"id": id})
	if err != nil {
		return nil, err
	}
	s.remember(ctx, u)
	return u, nil
}

// UpdateUser changes the given attributes of user id. Every attribute is
// validated before anything is written.
func (s *Store) UpdateUser(ctx context.Context, id string, attrs Attrs) error {
	if _, err := s.FindUserBy(ctx, Attrs{"id": id}); err != nil {
		return err
	}
	keys := sortedKeys(attrs)
	for _, k := range keys {
		if !updatable[k] {
			return InvalidAttributeUpdate{Attribute: k}
		}
	}
	if len(keys) == 0 {
		return nil
	}
	sets := make([]string, 0, len(keys)+1)
	args := make([]interface{}, 0, len(keys)+2)
	for _, k := range keys {
		sets = append(sets, fmt.Sprintf("%v = ?", k))
		args = append(args, attrs[k])
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, s.now().UnixNano(), id)
	_, err := s.db.ExecContext(ctx, fmt.Sprintf("update users set %v where id = ?", strings.Join(sets, ", ")), args...)
	s.cache.Delete(id)
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return ErrDuplicated
	} else if err != nil {
		return fmt.Errorf("unable to update user %v, cause %w", id, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]*User, error) {
	return s.query(ctx, `select `+userColumns+` from users order by created_at asc, rowid asc`)
}

// Close releases the cache, the database is owned by the caller
func (s *Store) Close() error {
	return s.cache.Close()
}

func (s *Store) search(ctx context.Context, attrs Attrs, limit int) ([]*User, error) {
	if len(attrs) == 0 {
		return nil, InvalidQuery{}
	}
	keys := sortedKeys(attrs)
	conds := make([]string, 0, len(keys))
	args := make([]interface{}, 0, len(keys)+1)
	for _, k := range keys {
		if !filterable[k] {
			return nil, InvalidQuery{Attribute: k}
		}
		conds = append(conds, fmt.Sprintf("%v = ?", k))
		args = append(args, attrs[k])
	}
	args = append(args, limit)
	return s.query(ctx, fmt.Sprintf(`select %v from users where %v order by created_at asc, rowid asc limit ?`,
		userColumns, strings.Join(conds, " and ")), args...)
}

func (s *Store) query(ctx context.Context, stmt string, args ...interface{}) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("unable to query users, cause %w", err)
	}
	defer rows.Close()
	var out []*User
	for rows.Next() {
		var u User
		var created, updated int64
		err = rows.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.FirstName, &u.LastName,
			&u.SessionID, &u.ResetToken, &created, &updated)
		if err != nil {
			return nil, fmt.Errorf("unable to scan user, cause %w", err)
		}
		u.CreatedAt = time.Unix(0, created)
		u.UpdatedAt = time.Unix(0, updated)
		out = append(out, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to read users, cause %w", err)
	}
	return out, nil
}

func (s *Store) remember(ctx context.Context, u *User) {
	buf, err := json.Marshal(cachedUser(*u))
	if err != nil {
		return
	}
	if err := s.cache.Set(u.ID, buf); err != nil {
		log := logutil.GetOrDefault(ctx)
		log.Warn().Err(err).Str("user_id", u.ID).Msg("unable to cache user")
	}
}

func sortedKeys(attrs Attrs) []string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
