package services

import (
	"time"
	"usuario/internal/app/deps"
	drl "usuario/internal/core/domain/rate_limiter"
	"usuario/internal/core/services"
	confirmaccount "usuario/internal/core/services/confirm_account"
	connectsocialaccount "usuario/internal/core/services/connect_social_account"
	deleteexpiredtokens "usuario/internal/core/services/delete_expired_tokens"
	ratelimiting "usuario/internal/core/services/rate_limiting"
	registeruser "usuario/internal/core/services/register_user"
	resendconfirmation "usuario/internal/core/services/resend_confirmation"
)

type Services struct {
	RegisterUser         services.Service[registeruser.Input, registeruser.Result]
	ConfirmAccount       services.Service[confirmaccount.Input, confirmaccount.Result]
	ResendConfirmation   services.Service[resendconfirmation.Input, resendconfirmation.Result]
	ConnectSocialAccount services.Service[connectsocialaccount.Input, connectsocialaccount.Result]
	DeleteExpiredTokens  services.Service[deleteexpiredtokens.Input, deleteexpiredtokens.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}
	tokenTTL := time.Duration(deps.Config.ConfirmationValidDurationHours) * time.Hour

	s.RegisterUser = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		drl.Limit{Interval: drl.Hour, Value: 10},
		registeruser.NewWithWelcomeMailSending(
			deps.Logger,
			deps.MailSender,
			registeruser.New(
				deps.Logger,
				deps.UnitOfWork,
				deps.PasswordHasher,
				deps.TokenGenerator,
				deps.SessionTokenGenerator,
				deps.Hooks,
				deps.Now,
				deps.Config.IsEmailConfirmationEnabled,
				tokenTTL,
			),
		),
	)
	s.ConfirmAccount = confirmaccount.New(
		deps.Logger,
		deps.UnitOfWork,
		deps.SessionTokenGenerator,
		deps.Hooks,
		deps.Now,
		deps.Config.IsEmailConfirmationEnabled,
	)
	s.ResendConfirmation = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		drl.Limit{Interval: drl.Hour, Value: 3},
		resendconfirmation.NewWithConfirmationMailSending(
			deps.Logger,
			deps.MailSender,
			resendconfirmation.New(
				deps.Logger,
				deps.UnitOfWork,
				deps.TokenGenerator,
				deps.Hooks,
				deps.Now,
				deps.Config.IsEmailConfirmationEnabled,
				tokenTTL,
			),
		),
	)
	s.ConnectSocialAccount = connectsocialaccount.NewWithWelcomeMailSending(
		deps.Logger,
		deps.MailSender,
		connectsocialaccount.New(
			deps.Logger,
			deps.UnitOfWork,
			deps.PasswordHasher,
			deps.SessionTokenGenerator,
			deps.Hooks,
			deps.Now,
		),
	)
	s.DeleteExpiredTokens = deleteexpiredtokens.New(
		deps.Logger,
		deps.TokenStore,
		deps.Now,
	)
	return s
}
