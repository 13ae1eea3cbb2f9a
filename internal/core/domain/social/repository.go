package social

import (
	"context"
	"time"
	c "usuario/internal/core/domain/common"
	"usuario/internal/core/domain/user"
)

type CreateAccountInput struct {
	Provider  Provider
	Code      Code
	Email     c.Optional[c.Email]
	Username  c.Optional[user.Username]
	CreatedAt time.Time
}

// Repository persists social network accounts. Account rows are
// created by the OAuth callback once the handshake completed; this
// module only resolves and links them.
type Repository interface {
	Create(ctx context.Context, input CreateAccountInput) (Account, error)
	GetByCode(ctx context.Context, code Code) (Account, error)
	// Connect links an unconnected account to the user. The link is a
	// compare-and-set guarded by the account being unconnected, so a
	// concurrent second connect gets ErrAccountAlreadyConnected and no
	// partial link is ever left behind.
	Connect(ctx context.Context, id ID, userID user.ID, at time.Time) (Account, error)
}
