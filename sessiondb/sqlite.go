// Package sessiondb keeps sessions outside of the process, so they
// survive restarts and can be shared by many instances.
package sessiondb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/andrebq/turnstile/auth"
	"github.com/andrebq/turnstile/internal/database"
	"github.com/cespare/xxhash/v2"
	"github.com/mattn/go-sqlite3"
)

type (
	// SQLite stores sessions in the user_sessions table
	SQLite struct {
		db *sql.DB
	}
)

var (
	ErrDuplicatedSession = errors.New("sessiondb: session id already in use")
)

func OpenSQLite(ctx context.Context, db *sql.DB) (*SQLite, error) {
	err := database.Exec(ctx, db,
		`create table if not exists user_sessions(
			session_id text not null primary key,
			session_hash64 integer not null,
			user_id text not null,
			created_at integer not null
		)`,
		`create index if not exists idx_user_sessions_hash64
			on user_sessions(session_hash64)`,
		`create index if not exists idx_user_sessions_created_at
			on user_sessions(created_at)`)
	if err != nil {
		return nil, fmt.Errorf("unable to create user_sessions table, cause %w", err)
	}
	return &SQLite{db: db}, nil
}

func sessionHash(id string) int64 {
	return int64(xxhash.Sum64String(id))
}

func (s *SQLite) Insert(ctx context.Context, sess auth.Session) error {
	_, err := s.db.ExecContext(ctx, `insert into user_sessions(session_id, session_hash64, user_id, created_at) values (?, ?, ?, ?)`,
		sess.ID, sessionHash(sess.ID), sess.UserID, sess.CreatedAt.UnixNano())
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
		return ErrDuplicatedSession
	} else if err != nil {
		return fmt.Errorf("unable to insert session, cause %w", err)
	}
	return nil
}

// Get returns auth.ErrUnknownSession when id is not stored
func (s *SQLite) Get(ctx context.Context, id string) (auth.Session, error) {
	sess := auth.Session{ID: id}
	var created int64
	err := s.db.QueryRowContext(ctx, `select user_id, created_at from user_sessions where session_hash64 = ? and session_id = ?`,
		sessionHash(id), id).Scan(&sess.UserID, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.Session{}, auth.ErrUnknownSession
	} else if err != nil {
		return auth.Session{}, fmt.Errorf("unable to load session, cause %w", err)
	}
	sess.CreatedAt = time.Unix(0, created)
	return sess, nil
}

func (s *SQLite) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `delete from user_sessions where session_hash64 = ? and session_id = ?`, sessionHash(id), id)
	if err != nil {
		return false, fmt.Errorf("unable to delete session, cause %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("unable to delete session, cause %w", err)
	}
	return n > 0, nil
}

// PurgeExpired removes every session created before the given instant
// and returns how many were removed.
func (s *SQLite) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `delete from user_sessions where created_at < ?`, before.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("unable to purge sessions, cause %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLite) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `select count(*) from user_sessions`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("unable to count sessions, cause %w", err)
	}
	return n, nil
}
