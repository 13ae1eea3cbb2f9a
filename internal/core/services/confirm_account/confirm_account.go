package confirmaccount

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
	UserID user.ID
	Code   token.Code
}

type Result struct {
	User         user.User
	SessionToken user.SessionToken
}

type service struct {
	log                   logging.Logger
	unitOfWork            uow.UnitOfWork
	sessionTokenGenerator user.SessionTokenGenerator
	hooks                 *hook.Registry
	now                   func() time.Time
	confirmationEnabled   bool
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	sessionTokenGenerator user.SessionTokenGenerator,
	hooks *hook.Registry,
	now func() time.Time,
	confirmationEnabled bool,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
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
		sessionTokenGenerator: sessionTokenGenerator,
		hooks:                 hooks,
		now:                   now,
		confirmationEnabled:   confirmationEnabled,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if !s.confirmationEnabled {
		s.log.Info(ctx, "Email confirmation is disabled, skip confirming.")
		return result, user.ErrUserDoesNotExist
	}

	uow, err := s.unitOfWork.Begin(ctx)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not begin unit of work.",
			logging.Entry("userId", input.UserID),
			logging.Entry("err", err),
		)
		return result, err
	}
	defer uow.Rollback(ctx)

	u, err := uow.Users().GetByID(ctx, input.UserID)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not get user by ID.",
			logging.Entry("userId", input.UserID),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.hooks.Notify(ctx, hook.BeforeConfirmation, hook.Payload{User: c.NewOptional(u, true)})

	t, err := uow.Tokens().GetByCode(ctx, input.Code)
	if errors.Is(err, token.ErrTokenDoesNotExist) {
		s.log.Info(ctx, "Unknown confirmation code presented.", logging.Entry("userId", u.ID))
		return result, token.ErrTokenInvalid
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not resolve confirmation code.",
			logging.Entry("userId", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}
	// A code minted for another user or another purpose is treated the
	// same as an unknown one, so codes cannot be replayed across
	// accounts.
	if t.UserID != u.ID || t.Type != token.Confirmation {
		s.log.Warning(
			ctx,
			"Confirmation code presented for a different user.",
			logging.Entry("userId", u.ID),
			logging.Entry("tokenUserId", t.UserID),
		)
		return result, token.ErrTokenInvalid
	}

	now := s.now()
	if t.IsExpired(now) {
		s.log.Info(ctx, "Confirmation token is expired.", logging.Entry("userId", u.ID))
		return result, token.ErrTokenExpired
	}
	if t.IsConsumed() {
		s.log.Info(ctx, "Confirmation token is already consumed.", logging.Entry("userId", u.ID))
		return result, token.ErrTokenAlreadyConsumed
	}

	confirmedUser, err := uow.Users().Confirm(ctx, u.ID, now)
	if errors.Is(err, user.ErrUserAlreadyConfirmed) {
		return result, token.ErrTokenInvalid
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not confirm user.",
			logging.Entry("userId", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	// Compare-and-set: a concurrent confirmation that consumed the
	// token first wins, this transaction rolls back.
	_, err = uow.Tokens().Consume(ctx, t.ID, now)
	if errors.Is(err, token.ErrTokenAlreadyConsumed) {
		s.log.Info(
			ctx,
			"Confirmation token was consumed concurrently.",
			logging.Entry("userId", u.ID),
		)
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not consume confirmation token.",
			logging.Entry("userId", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	sessionToken := s.sessionTokenGenerator.GenerateSessionToken()
	err = uow.Sessions().Create(ctx, user.CreateSessionInput{
		UserID:    confirmedUser.ID,
		Token:     sessionToken,
		CreatedAt: now,
	})
	if err != nil {
		s.log.Error(
			ctx,
			"Could not create session for the confirmed user.",
			logging.Entry("userId", confirmedUser.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	if err = uow.Commit(ctx); err != nil {
		s.log.Error(
			ctx,
			"Could not commit unit of work.",
			logging.Entry("userId", confirmedUser.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.hooks.Notify(ctx, hook.AfterConfirmation, hook.Payload{User: c.NewOptional(confirmedUser, true)})
	s.log.Info(ctx, "User successfully confirmed.", logging.Entry("userId", confirmedUser.ID))
	return Result{User: confirmedUser, SessionToken: sessionToken}, nil
}
