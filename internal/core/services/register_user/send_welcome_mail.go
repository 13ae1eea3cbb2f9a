package registeruser

import (
	"context"
	"errors"
	e "usuario/internal/core/domain/errors"
	"usuario/internal/core/domain/logging"
	"usuario/internal/core/domain/mail"
	"usuario/internal/core/services"
)

type serviceWithWelcomeMailSending struct {
	log    logging.Logger
	sender mail.Sender
	inner  services.Service[Input, Result]
}

// NewWithWelcomeMailSending sends the welcome mail after a successful
// registration. A dispatch failure is reported to the caller, but the
// user row and the issued token stay in place so that a resend can
// still deliver the confirmation link.
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

	err = s.sender.SendWelcome(ctx, result.User, result.Token)
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

	s.log.Info(
		ctx,
		"Welcome mail has been sent to the user.",
		logging.Entry("userId", result.User.ID),
	)
	return result, err
}
