package connectsocialaccount

import (
	"context"
	"errors"
	c "usuario/internal/core/domain/common"
	e "usuario/internal/core/domain/errors"
	"usuario/internal/core/domain/logging"
	"usuario/internal/core/domain/mail"
	"usuario/internal/core/domain/token"
	"usuario/internal/core/services"
)

type serviceWithWelcomeMailSending struct {
	log    logging.Logger
	sender mail.Sender
	inner  services.Service[Input, Result]
}

func NewWithWelcomeMailSending(
	log logging.Logger,
	sender mail.Sender,
	inner services.Service[Input, Result],
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if sender == nil {
		panic(e.NewNilArgumentError("sender"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &serviceWithWelcomeMailSending{
		log:    log,
		sender: sender,
		inner:  inner,
	}
}

func (s *serviceWithWelcomeMailSending) Run(ctx context.Context, input Input) (result Result, err error) {
	result, err = s.inner.Run(ctx, input)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Info(ctx, "Skip sending welcome mail.", logging.Entry("err", err))
		return result, err
	}

	// Connected users are confirmed on creation, no token goes along.
	err = s.sender.SendWelcome(ctx, result.User, c.NewOptional(token.Token{}, false))
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not send welcome mail.",
			logging.Entry("userId", result.User.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	return result, err
}
