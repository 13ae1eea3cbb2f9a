package token

import (
	"time"
	c "usuario/internal/core/domain/common"
	"usuario/internal/core/domain/user"
)

type ID int64

// Code is the opaque secret sent to the user's mailbox. It must never
// end up in logs.
type Code string

func (c Code) String() string {
	return "***"
}

type Type string

const (
	Confirmation Type = "confirmation"
	Recovery     Type = "recovery"
)

type Token struct {
	ID         ID
	UserID     user.ID
	Code       Code
	Type       Type
	CreatedAt  time.Time
	ExpiresAt  time.Time
	ConsumedAt c.Optional[time.Time]
}

func (t *Token) IsConsumed() bool {
	return t.ConsumedAt.IsPresent
}

func (t *Token) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// IsLive reports whether the token can still be consumed.
func (t *Token) IsLive(now time.Time) bool {
	return !t.IsConsumed() && !t.IsExpired(now)
}

type Generator interface {
	GenerateCode() Code
}
