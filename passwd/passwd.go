// Package passwd hashes and verifies user passwords.
//
// Hashes are self describing: the encoded prefix tells which algorithm
// produced them, so Verify can be called without knowing which Hasher
// was configured when the password was stored.
package passwd

import (
	"bytes"
	"errors"
	"fmt"
)

type (
	// Hash is the encoded output of a Hasher. The only meaningful
	// operation on a Hash is Verify.
	Hash []byte

	Hasher interface {
		Hash(password string) (Hash, error)
		Verify(h Hash, password string) bool
	}
)

var (
	ErrInvalidHash         = errors.New("passwd: the encoded hash is not in the correct format")
	ErrIncompatibleVersion = errors.New("passwd: incompatible version of argon2")
)

// Default returns the hasher used when nothing else is configured.
func Default() Hasher {
	return Bcrypt{}
}

// ByName returns the hasher registered under name (bcrypt or argon2id).
// An empty name selects the default.
func ByName(name string) (Hasher, error) {
	switch name {
	case "", "bcrypt":
		return Bcrypt{}, nil
	case "argon2id", "argon2":
		return Argon2id{Params: StdParams}, nil
	}
	return nil, fmt.Errorf("passwd: unknown hasher %q", name)
}

// Verify checks password against h using whichever algorithm encoded h.
// Malformed hashes never verify.
func Verify(h Hash, password string) bool {
	switch {
	case bytes.HasPrefix(h, []byte(argon2Prefix)):
		return Argon2id{}.Verify(h, password)
	case bytes.HasPrefix(h, []byte("$2")):
		return Bcrypt{}.Verify(h, password)
	}
	return false
}
