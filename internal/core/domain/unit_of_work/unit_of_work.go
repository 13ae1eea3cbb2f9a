package uow

import (
	"context"
	"usuario/internal/core/domain/social"
	"usuario/internal/core/domain/token"
	"usuario/internal/core/domain/user"
)

type Context interface {
	Rollback(ctx context.Context) error
	Commit(ctx context.Context) error

	Users() user.UserRepository
	Sessions() user.SessionRepository
	Tokens() token.Store
	SocialAccounts() social.Repository
}

type UnitOfWork interface {
	Begin(ctx context.Context) (Context, error)
}
