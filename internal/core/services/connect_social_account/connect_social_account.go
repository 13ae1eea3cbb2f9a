package connectsocialaccount

import (
	"context"
	"errors"
	"time"
	c "usuario/internal/core/domain/common"
	e "usuario/internal/core/domain/errors"
	"usuario/internal/core/domain/hook"
	"usuario/internal/core/domain/logging"
	"usuario/internal/core/domain/social"
	uow "usuario/internal/core/domain/unit_of_work"
	"usuario/internal/core/domain/user"
	"usuario/internal/core/services"
)

type Input struct {
	Code     social.Code
	Email    c.Email
	Username user.Username
	Password user.RawPassword
}

type Result struct {
	User         user.User
	Account      social.Account
	SessionToken user.SessionToken
}

type service struct {
	log                   logging.Logger
	unitOfWork            uow.UnitOfWork
	passwordHasher        user.PasswordHasher
	sessionTokenGenerator user.SessionTokenGenerator
	hooks                 *hook.Registry
	now                   func() time.Time
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	passwordHasher user.PasswordHasher,
	sessionTokenGenerator user.SessionTokenGenerator,
	hooks *hook.Registry,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	if sessionTokenGenerator == nil {
		panic(e.NewNilArgumentError("sessionTokenGenerator"))
	}
	if hooks == nil {
		panic(e.NewNilArgumentError("hooks"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:                   log,
		unitOfWork:            unitOfWork,
		passwordHasher:        passwordHasher,
		sessionTokenGenerator: sessionTokenGenerator,
		hooks:                 hooks,
		now:                   now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	uow, err := s.unitOfWork.Begin(ctx)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not begin unit of work.", logging.Entry("err", err))
		return result, err
	}
	defer uow.Rollback(ctx)

	account, err := uow.SocialAccounts().GetByCode(ctx, input.Code)
	if errors.Is(err, social.ErrAccountDoesNotExist) {
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not get social account.", logging.Entry("err", err))
		return result, err
	}
	if account.IsConnected() {
		s.log.Info(
			ctx,
			"Social account is already connected.",
			logging.Entry("accountId", account.ID),
			logging.Entry("provider", account.Provider),
		)
		return result, social.ErrAccountAlreadyConnected
	}

	s.hooks.Notify(ctx, hook.BeforeConnect, hook.Payload{Account: c.NewOptional(account, true)})

	passwordHash, err := s.passwordHasher.HashPassword(input.Password)
	if err != nil {
		s.log.Error(ctx, "Could not hash password.", logging.Entry("err", err))
		return result, err
	}

	// The provider already verified the email, so the user starts out
	// confirmed.
	now := s.now()
	createdUser, err := uow.Users().Create(ctx, user.CreateUserInput{
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		ConfirmedAt:  c.NewOptional(now, true),
	})
	if errors.Is(err, user.ErrEmailAlreadyExists) || errors.Is(err, user.ErrUsernameAlreadyExists) {
		s.log.Info(
			ctx,
			"User with the email or username already exists.",
			logging.Entry("email", input.Email),
			logging.Entry("username", input.Username),
		)
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not create user.", logging.Entry("err", err))
		return result, err
	}

	// The guard repeats inside the store as a compare-and-set, so a
	// concurrent connect loses here and the whole transaction, user
	// row included, rolls back leaving the account untouched.
	connectedAccount, err := uow.SocialAccounts().Connect(ctx, account.ID, createdUser.ID, now)
	if errors.Is(err, social.ErrAccountAlreadyConnected) {
		s.log.Info(
			ctx,
			"Social account was connected concurrently.",
			logging.Entry("accountId", account.ID),
		)
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not connect social account.",
			logging.Entry("accountId", account.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	sessionToken := s.sessionTokenGenerator.GenerateSessionToken()
	err = uow.Sessions().Create(ctx, user.CreateSessionInput{
		UserID:    createdUser.ID,
		Token:     sessionToken,
		CreatedAt: now,
	})
	if err != nil {
		s.log.Error(
			ctx,
			"Could not create session for the connected user.",
			logging.Entry("userId", createdUser.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	if err = uow.Commit(ctx); err != nil {
		s.log.Error(ctx, "Could not commit unit of work.", logging.Entry("err", err))
		return result, err
	}

	s.hooks.Notify(ctx, hook.AfterConnect, hook.Payload{
		User:    c.NewOptional(createdUser, true),
		Account: c.NewOptional(connectedAccount, true),
	})
	s.log.Info(
		ctx,
		"Social account successfully connected.",
		logging.Entry("userId", createdUser.ID),
		logging.Entry("accountId", connectedAccount.ID),
	)
	return Result{User: createdUser, Account: connectedAccount, SessionToken: sessionToken}, nil
}
