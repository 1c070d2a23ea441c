// Package config reads the environment style settings that select and
// tune the authentication strategy.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultSessionName = "_my_session_id"
	DefaultBind        = "localhost:5000"
	DefaultDatabaseDir = "./data"
)

type (
	Config struct {
		// SessionName is the cookie carrying the session id
		SessionName string
		// SessionDuration <= 0 disables expiration
		SessionDuration time.Duration
		AuthType        string

		Bind        string
		DatabaseDir string

		// SessionStore selects the durable backend used by session_db_auth
		SessionStore  string
		RedisAddr     string
		RedisPassword string

		PasswordHasher string
	}
)

// FromEnv builds a Config using getfn to read each variable,
// os.Getenv is used when getfn is nil.
func FromEnv(getfn func(string) string) Config {
	if getfn == nil {
		getfn = os.Getenv
	}
	return Config{
		SessionName:     valueOr(getfn("SESSION_NAME"), DefaultSessionName),
		SessionDuration: parseSeconds(getfn("SESSION_DURATION")),
		AuthType:        strings.TrimSpace(getfn("AUTH_TYPE")),
		Bind:            valueOr(getfn("TURNSTILE_BIND"), DefaultBind),
		DatabaseDir:     valueOr(getfn("TURNSTILE_DB"), DefaultDatabaseDir),
		SessionStore:    valueOr(getfn("SESSION_STORE"), "sqlite"),
		RedisAddr:       getfn("REDIS_ADDR"),
		RedisPassword:   getfn("REDIS_PASSWORD"),
		PasswordHasher:  valueOr(getfn("PASSWORD_HASHER"), "bcrypt"),
	}
}

// parseSeconds falls back to zero (no expiration) on anything that
// is not an integer
func parseSeconds(val string) time.Duration {
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return 0
	}
	return time.Duration(n) * time.Second
}

func valueOr(val, def string) string {
	if len(val) == 0 {
		return def
	}
	return val
}

// TakeSecret reads varname and removes it from the environment so
// child processes and later readers never see it.
func TakeSecret(varname string, getfn func(string) string, setfn func(string, string) error) string {
	if getfn == nil {
		getfn = os.Getenv
	}
	if setfn == nil {
		setfn = os.Setenv
	}
	val := getfn(varname)
	setfn(varname, "")
	return val
}
