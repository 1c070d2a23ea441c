package passwd

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

type (
	Bcrypt struct {
		// Cost defaults to bcrypt.DefaultCost when zero
		Cost int
	}
)

func (b Bcrypt) Hash(password string) (Hash, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	buf, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("passwd: unable to hash password with bcrypt, cause %w", err)
	}
	return Hash(buf), nil
}

func (b Bcrypt) Verify(h Hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(h), []byte(password)) == nil
}
