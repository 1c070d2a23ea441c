package users

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/andrebq/turnstile/passwd"
)

type (
	User struct {
		ID             string
		Email          string
		HashedPassword string
		FirstName      string
		LastName       string
		SessionID      string
		ResetToken     string
		CreatedAt      time.Time
		UpdatedAt      time.Time
	}

	// Public is what gets exposed over the wire, it never carries
	// passwords or tokens
	Public struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		CreatedAt string `json:"created_at"`
		UpdatedAt string `json:"updated_at"`
	}
)

const (
	TimestampFormat = "2006-01-02T15:04:05"
)

// IsValidPassword reports if password matches the stored hash.
// Users without a password never match.
func (u *User) IsValidPassword(password string) bool {
	if u == nil || len(u.HashedPassword) == 0 {
		return false
	}
	return passwd.Verify(passwd.Hash(u.HashedPassword), password)
}

func (u *User) DisplayName() string {
	first, last := strings.TrimSpace(u.FirstName), strings.TrimSpace(u.LastName)
	switch {
	case first == "" && last == "":
		return u.Email
	case last == "":
		return first
	case first == "":
		return last
	}
	return first + " " + last
}

func (u *User) Public() Public {
	return Public{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt.UTC().Format(TimestampFormat),
		UpdatedAt: u.UpdatedAt.UTC().Format(TimestampFormat),
	}
}

func (u *User) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.Public())
}
