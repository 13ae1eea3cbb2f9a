package resendconfirmation

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

// ErrNotResendable covers every reason a confirmation cannot be
// re-sent: unknown email, blocked or already confirmed user, or the
// feature being disabled. Callers must present it exactly like a
// successful resend so that the endpoint does not reveal whether an
// account exists.
var ErrNotResendable = errors.New("confirmation is not resendable")

type Input struct {
	Email c.Email
}

func (i Input) GetRateLimitKey() string {
	return "resend::" + string(i.Email)
}

type Result struct {
	User  user.User
	Token token.Token
}

type service struct {
	log                 logging.Logger
	unitOfWork          uow.UnitOfWork
	tokenGenerator      token.Generator
	hooks               *hook.Registry
	now                 func() time.Time
	confirmationEnabled bool
	tokenTTL            time.Duration
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	tokenGenerator token.Generator,
	hooks *hook.Registry,
	now func() time.Time,
	confirmationEnabled bool,
	tokenTTL time.Duration,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if tokenGenerator == nil {
		panic(e.NewNilArgumentError("tokenGenerator"))
	}
	if hooks == nil {
		panic(e.NewNilArgumentError("hooks"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:                 log,
		unitOfWork:          unitOfWork,
		tokenGenerator:      tokenGenerator,
		hooks:               hooks,
		now:                 now,
		confirmationEnabled: confirmationEnabled,
		tokenTTL:            tokenTTL,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if !s.confirmationEnabled {
		s.log.Info(ctx, "Email confirmation is disabled, skip resending.")
		return result, ErrNotResendable
	}

	uow, err := s.unitOfWork.Begin(ctx)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not begin unit of work.", logging.Entry("err", err))
		return result, err
	}
	defer uow.Rollback(ctx)

	u, err := uow.Users().GetByEmail(ctx, input.Email)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(ctx, "Resend requested for unknown email.", logging.Entry("email", input.Email))
		return result, ErrNotResendable
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not get user by email.",
			logging.Entry("email", input.Email),
			logging.Entry("err", err),
		)
		return result, err
	}
	if u.IsConfirmed() || u.IsBlocked() {
		s.log.Info(
			ctx,
			"Resend requested for a non-resendable user.",
			logging.Entry("userId", u.ID),
		)
		return result, ErrNotResendable
	}

	s.hooks.Notify(ctx, hook.BeforeResend, hook.Payload{User: c.NewOptional(u, true)})

	// Rotation: issuing invalidates whatever live token the user had.
	now := s.now()
	issuedToken, err := uow.Tokens().Issue(ctx, token.IssueInput{
		UserID:    u.ID,
		Code:      s.tokenGenerator.GenerateCode(),
		Type:      token.Confirmation,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokenTTL),
	})
	if err != nil {
		s.log.Error(
			ctx,
			"Could not issue confirmation token.",
			logging.Entry("userId", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	if err = uow.Commit(ctx); err != nil {
		s.log.Error(
			ctx,
			"Could not commit unit of work.",
			logging.Entry("userId", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.hooks.Notify(ctx, hook.AfterResend, hook.Payload{User: c.NewOptional(u, true)})
	s.log.Info(ctx, "Confirmation token has been rotated.", logging.Entry("userId", u.ID))
	return Result{User: u, Token: issuedToken}, nil
}
