// Package setup opens the stores selected by the configuration and
// builds the authentication strategy on top of them.
package setup

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/andrebq/turnstile/auth"
	"github.com/andrebq/turnstile/internal/config"
	"github.com/andrebq/turnstile/internal/database"
	"github.com/andrebq/turnstile/internal/logutil"
	"github.com/andrebq/turnstile/passwd"
	"github.com/andrebq/turnstile/sessiondb"
	"github.com/andrebq/turnstile/users"
)

type (
	Env struct {
		Config  config.Config
		DB      *sql.DB
		Users   *users.Store
		Hasher  passwd.Hasher
		Records auth.RecordStore

		closers []func() error
	}

	UnknownSessionStore struct {
		Name string
	}
)

func (u UnknownSessionStore) Error() string {
	return fmt.Sprintf("unknown session store %q, use sqlite or redis", u.Name)
}

// Open connects to the database and prepares the user store. The
// durable session store is only opened when the configured auth type
// needs one.
func Open(ctx context.Context, cfg config.Config) (*Env, error) {
	hasher, err := passwd.ByName(cfg.PasswordHasher)
	if err != nil {
		return nil, err
	}
	db, err := database.Open(ctx, cfg.DatabaseDir, true)
	if err != nil {
		return nil, err
	}
	env := &Env{Config: cfg, DB: db, Hasher: hasher}
	env.closers = append(env.closers, db.Close)
	env.Users, err = users.Open(ctx, db)
	if err != nil {
		env.Close()
		return nil, err
	}
	env.closers = append(env.closers, env.Users.Close)
	if cfg.AuthType == auth.KindPersistent {
		env.Records, err = env.openRecords(ctx)
		if err != nil {
			env.Close()
			return nil, err
		}
	}
	return env, nil
}

func (e *Env) openRecords(ctx context.Context) (auth.RecordStore, error) {
	switch e.Config.SessionStore {
	case "", "sqlite":
		return e.SQLiteSessions(ctx)
	case "redis":
		r, err := sessiondb.DialRedis(ctx, e.Config.RedisAddr, e.Config.RedisPassword, e.Config.SessionDuration)
		if err != nil {
			return nil, err
		}
		e.closers = append(e.closers, r.Close)
		return r, nil
	}
	return nil, UnknownSessionStore{Name: e.Config.SessionStore}
}

// SQLiteSessions returns the session table living next to the users
func (e *Env) SQLiteSessions(ctx context.Context) (*sessiondb.SQLite, error) {
	return sessiondb.OpenSQLite(ctx, e.DB)
}

// Strategy builds the strategy named by the configured auth type
func (e *Env) Strategy(ctx context.Context) (auth.Strategy, error) {
	log := logutil.GetOrDefault(ctx)
	if !auth.Known(e.Config.AuthType) {
		log.Warn().Str("auth_type", e.Config.AuthType).Msg("No known auth type configured, every protected request will be refused")
	}
	return auth.New(e.Config.AuthType, auth.Deps{
		Users:           e.Users,
		Records:         e.Records,
		SessionName:     e.Config.SessionName,
		SessionDuration: e.Config.SessionDuration,
	})
}

// Close releases everything in reverse order of acquisition
func (e *Env) Close() error {
	var first error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	e.closers = nil
	return first
}
