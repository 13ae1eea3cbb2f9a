package token

import (
	"context"
	"time"
	"usuario/internal/core/domain/user"
)

type IssueInput struct {
	UserID    user.ID
	Code      Code
	Type      Type
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store persists confirmation tokens.
//
// Issue must atomically invalidate every live token of the same type
// for the user together with the insert of the new one, so that at no
// point two live tokens of one type coexist for a user.
//
// Consume must be a compare-and-set on the consumed mark: out of any
// number of concurrent calls for one token, exactly one succeeds and
// the rest get ErrTokenAlreadyConsumed.
type Store interface {
	Issue(ctx context.Context, input IssueInput) (Token, error)
	GetByCode(ctx context.Context, code Code) (Token, error)
	Consume(ctx context.Context, id ID, at time.Time) (Token, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
