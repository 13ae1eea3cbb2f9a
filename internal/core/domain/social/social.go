package social

import (
	"time"
	c "usuario/internal/core/domain/common"
	"usuario/internal/core/domain/user"
)

type ID int64

type Provider string

// Code is the provider-assigned account identifier. A provider+code
// pair resolves to at most one account.
type Code string

type Account struct {
	ID          ID
	Provider    Provider
	Code        Code
	Email       c.Optional[c.Email]
	Username    c.Optional[user.Username]
	CreatedAt   time.Time
	UserID      c.Optional[user.ID]
	ConnectedAt c.Optional[time.Time]
}

func (a *Account) IsConnected() bool {
	return a.UserID.IsPresent
}
