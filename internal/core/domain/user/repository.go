package user

import (
	"context"
	"time"
	c "usuario/internal/core/domain/common"
)

type CreateUserInput struct {
	Email        c.Email
	Username     Username
	PasswordHash PasswordHash
	CreatedAt    time.Time
	ConfirmedAt  c.Optional[time.Time]
}

type UserRepository interface {
	Create(ctx context.Context, input CreateUserInput) (User, error)
	GetByID(ctx context.Context, id ID) (User, error)
	GetByEmail(ctx context.Context, email c.Email) (User, error)
	// Confirm sets the confirmation timestamp. Confirming an already
	// confirmed user returns ErrUserAlreadyConfirmed.
	Confirm(ctx context.Context, id ID, at time.Time) (User, error)
}

type CreateSessionInput struct {
	UserID    ID
	Token     SessionToken
	CreatedAt time.Time
}

type SessionRepository interface {
	Create(ctx context.Context, input CreateSessionInput) error
	GetUserByToken(ctx context.Context, token SessionToken) (User, error)
}
