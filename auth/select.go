package auth

import (
	"errors"
	"time"
)

const (
	KindBasic      = "basic_auth"
	KindSession    = "session_auth"
	KindExpiring   = "session_exp_auth"
	KindPersistent = "session_db_auth"
)

type (
	// Deps carries what strategies might need, each kind uses a subset
	Deps struct {
		Users UserStore
		// Sessions defaults to ProcessSessions
		Sessions        *SessionStore
		Records         RecordStore
		SessionName     string
		SessionDuration time.Duration
		Options         []Option
	}
)

var (
	ErrMissingRecordStore = errors.New("auth: session_db_auth requires a record store")
)

// New builds the strategy named by kind (usually AUTH_TYPE).
// Empty or unknown kinds give Base, which authenticates nobody.
func New(kind string, deps Deps) (Strategy, error) {
	name := deps.SessionName
	if name == "" {
		name = DefaultSessionName
	}
	newSession := func() *SessionAuth {
		opts := append([]Option{WithSessionName(name)}, deps.Options...)
		return NewSessionAuth(deps.Sessions, deps.Users, opts...)
	}
	switch kind {
	case KindBasic:
		b := NewBasicAuth(deps.Users)
		b.SessionName = name
		return b, nil
	case KindSession:
		return newSession(), nil
	case KindExpiring:
		return NewExpiringSessionAuth(newSession(), deps.SessionDuration), nil
	case KindPersistent:
		if deps.Records == nil {
			return nil, ErrMissingRecordStore
		}
		return NewPersistentSessionAuth(NewExpiringSessionAuth(newSession(), deps.SessionDuration), deps.Records), nil
	}
	return Base{SessionName: name}, nil
}

// Known reports if kind names one of the strategies New can build
func Known(kind string) bool {
	switch kind {
	case KindBasic, KindSession, KindExpiring, KindPersistent:
		return true
	}
	return false
}
