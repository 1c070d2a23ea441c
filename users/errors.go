package users

import (
	"errors"
	"fmt"
)

type (
	// InvalidAttributeUpdate is returned when an update names something
	// that is not a user column
	InvalidAttributeUpdate struct {
		Attribute string
	}

	// InvalidQuery is returned by lookups without filters or with
	// filters over unknown columns
	InvalidQuery struct {
		Attribute string
	}
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrDuplicated   = errors.New("user with the same email already exists")
)

func (i InvalidAttributeUpdate) Error() string {
	return fmt.Sprintf("attribute %v cannot be updated", i.Attribute)
}

func (i InvalidQuery) Error() string {
	if i.Attribute == "" {
		return "user lookup requires at least one attribute"
	}
	return fmt.Sprintf("users cannot be filtered by %v", i.Attribute)
}
