package registeruser

import (
	"context"
	"errors"
	"time"
	c "usuario/internal/core/domain/common"
	e "usuario/internal/core/domain/errors"
	"usuario/internal/core/domain/hook"
	"usuario/internal/core/domain/logging"
	"usuario/internal/core/domain/token"
	uow "usuario/internal/core/domain/unit_of_work"
	"usuario/internal/core/domain/user"
	"usuario/internal/core/services"
)

type Input struct {
	Email    c.Email
	Username user.Username
	Password user.RawPassword
}

func (i Input) GetRateLimitKey() string {
	return "register::" + string(i.Email)
}

type Result struct {
	User user.User
	// Token is present when the deployment requires email confirmation.
	Token c.Optional[token.Token]
	// SessionToken is present when the user was confirmed right away
	// and logged in.
	SessionToken c.Optional[user.SessionToken]
}

type service struct {
	log                   logging.Logger
	unitOfWork            uow.UnitOfWork
	passwordHasher        user.PasswordHasher
	tokenGenerator        token.Generator
	sessionTokenGenerator user.SessionTokenGenerator
	hooks                 *hook.Registry
	now                   func() time.Time
	confirmationRequired  bool
	tokenTTL              time.Duration
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	passwordHasher user.PasswordHasher,
	tokenGenerator token.Generator,
	sessionTokenGenerator user.SessionTokenGenerator,
	hooks *hook.Registry,
	now func() time.Time,
	confirmationRequired bool,
	tokenTTL time.Duration,
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
	if tokenGenerator == nil {
		panic(e.NewNilArgumentError("tokenGenerator"))
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
		tokenGenerator:        tokenGenerator,
		sessionTokenGenerator: sessionTokenGenerator,
		hooks:                 hooks,
		now:                   now,
		confirmationRequired:  confirmationRequired,
		tokenTTL:              tokenTTL,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	passwordHash, err := s.passwordHasher.HashPassword(input.Password)
	if err != nil {
		s.log.Error(ctx, "Could not hash password.", logging.Entry("err", err))
		return result, err
	}

	s.hooks.Notify(ctx, hook.BeforeRegister, hook.Payload{})

	uow, err := s.unitOfWork.Begin(ctx)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not begin unit of work.",
			logging.Entry("input", input),
			logging.Entry("err", err),
		)
		return result, err
	}
	defer uow.Rollback(ctx)

	now := s.now()
	createdUser, err := uow.Users().Create(ctx, user.CreateUserInput{
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		ConfirmedAt:  c.NewOptional(now, !s.confirmationRequired),
	})
	if errors.Is(err, context.Canceled) {
		return result, err
	}
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
		s.log.Error(
			ctx,
			"Could not create new user.",
			logging.Entry("input", input),
			logging.Entry("err", err),
		)
		return result, err
	}
	result.User = createdUser

	if s.confirmationRequired {
		issuedToken, err := uow.Tokens().Issue(ctx, token.IssueInput{
			UserID:    createdUser.ID,
			Code:      s.tokenGenerator.GenerateCode(),
			Type:      token.Confirmation,
			CreatedAt: now,
			ExpiresAt: now.Add(s.tokenTTL),
		})
		if err != nil {
			s.log.Error(
				ctx,
				"Could not issue confirmation token.",
				logging.Entry("userId", createdUser.ID),
				logging.Entry("err", err),
			)
			return result, err
		}
		result.Token = c.NewOptional(issuedToken, true)
	} else {
		sessionToken := s.sessionTokenGenerator.GenerateSessionToken()
		err = uow.Sessions().Create(ctx, user.CreateSessionInput{
			UserID:    createdUser.ID,
			Token:     sessionToken,
			CreatedAt: now,
		})
		if err != nil {
			s.log.Error(
				ctx,
				"Could not create session for the new user.",
				logging.Entry("userId", createdUser.ID),
				logging.Entry("err", err),
			)
			return result, err
		}
		result.SessionToken = c.NewOptional(sessionToken, true)
	}

	err = uow.Commit(ctx)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not commit unit of work.",
			logging.Entry("input", input),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.hooks.Notify(ctx, hook.AfterRegister, hook.Payload{User: c.NewOptional(createdUser, true)})
	s.log.Info(ctx, "New user has been registered.", logging.Entry("userId", createdUser.ID))
	return result, nil
}
