package auth

import (
	"errors"
	"fmt"
)

type (
	// PersistenceFailure wraps errors from the stores backing users or
	// sessions, it allows callers to tell "not authenticated" apart from
	// "could not check".
	PersistenceFailure struct {
		Op    string
		cause error
	}
)

var (
	ErrNoCredentials       = errors.New("auth: request has no credentials")
	ErrMalformedCredential = errors.New("auth: malformed credential")
	ErrDecodeFailure       = errors.New("auth: unable to decode credential")
	ErrUnknownSession      = errors.New("auth: unknown session")
	ErrExpiredSession      = errors.New("auth: session expired")
	ErrUserNotFound        = errors.New("auth: user not found")
)

func persistenceFailure(op string, cause error) error {
	return PersistenceFailure{Op: op, cause: cause}
}

func (p PersistenceFailure) Error() string {
	if p.cause == nil {
		return fmt.Sprintf("auth: unable to %v", p.Op)
	}
	return fmt.Sprintf("auth: unable to %v, cause %v", p.Op, p.cause)
}

func (p PersistenceFailure) Unwrap() error {
	return p.cause
}

// Is matches any PersistenceFailure regardless of operation or cause
func (p PersistenceFailure) Is(target error) bool {
	_, ok := target.(PersistenceFailure)
	return ok
}
