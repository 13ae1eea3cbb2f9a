package user

import (
	"fmt"
	"time"
	c "usuario/internal/core/domain/common"
	e "usuario/internal/core/domain/errors"
)

type ID int64

type Username string

type PasswordHash string

func (p PasswordHash) String() string {
	return "***"
}

type RawPassword string

func (p RawPassword) String() string {
	return "***"
}

type SessionToken string

type User struct {
	ID           ID
	Email        c.Email
	Username     Username
	PasswordHash PasswordHash
	CreatedAt    time.Time
	ConfirmedAt  c.Optional[time.Time]
	BlockedAt    c.Optional[time.Time]
}

func (u *User) Validate() error {
	if u.Email == "" {
		return e.NewInvalidStateError(fmt.Sprintf("email is not set for user %d", u.ID))
	}
	if u.Username == "" {
		return e.NewInvalidStateError(fmt.Sprintf("username is not set for user %d", u.ID))
	}
	if u.PasswordHash == "" {
		return e.NewInvalidStateError(fmt.Sprintf("password hash is not set for user %d", u.ID))
	}
	return nil
}

func (u *User) IsConfirmed() bool {
	return u.ConfirmedAt.IsPresent
}

func (u *User) IsBlocked() bool {
	return u.BlockedAt.IsPresent
}
