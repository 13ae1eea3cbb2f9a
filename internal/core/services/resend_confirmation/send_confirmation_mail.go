package resendconfirmation

import (
	"context"
	"errors"
	e "usuario/internal/core/domain/errors"
	"usuario/internal/core/domain/logging"
	"usuario/internal/core/domain/mail"
	"usuario/internal/core/services"
)

type serviceWithConfirmationMailSending struct {
	log    logging.Logger
	sender mail.Sender
	inner  services.Service[Input, Result]
}

// NewWithConfirmationMailSending sends the freshly rotated token to
// the user's mailbox. When dispatch fails the token stays valid, so a
// later resend attempt can still succeed, but the operation reports
// the failure.
func NewWithConfirmationMailSending(
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
	return &serviceWithConfirmationMailSending{
		log:    log,
		sender: sender,
		inner:  inner,
	}
}

func (s *serviceWithConfirmationMailSending) Run(ctx context.Context, input Input) (result Result, err error) {
	result, err = s.inner.Run(ctx, input)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Info(ctx, "Skip sending confirmation mail.", logging.Entry("err", err))
		return result, err
	}

	err = s.sender.SendConfirmation(ctx, result.User, result.Token)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not send confirmation mail.",
			logging.Entry("userId", result.User.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.log.Info(
		ctx,
		"Confirmation mail has been sent to the user.",
		logging.Entry("userId", result.User.ID),
	)
	return result, err
}
