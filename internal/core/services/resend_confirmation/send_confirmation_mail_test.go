package resendconfirmation

import (
	"context"
	"errors"
	"testing"
	"time"
	c "usuario/internal/core/domain/common"
	"usuario/internal/core/domain/hook"
	"usuario/internal/core/domain/logging"
	"usuario/internal/core/domain/mail"
	"usuario/internal/core/domain/token"
	uow "usuario/internal/core/domain/unit_of_work"
	"usuario/internal/core/domain/user"
	"usuario/internal/core/services"

	"github.com/stretchr/testify/suite"
)

type sendConfirmationMailTestSuite struct {
	suite.Suite
	Logger  *logging.FakeLogger
	Uow     *uow.FakeUnitOfWork
	Sender  *mail.FakeSender
	Service services.Service[Input, Result]
}

func (suite *sendConfirmationMailTestSuite) SetupTest() {
	suite.Logger = logging.NewFakeLogger()
	suite.Uow = uow.NewFakeUnitOfWork()
	suite.Sender = mail.NewFakeSender()
	suite.Service = NewWithConfirmationMailSending(
		suite.Logger,
		suite.Sender,
		New(
			suite.Logger,
			suite.Uow,
			token.NewFakeGenerator(NEW_CODE),
			hook.NewRegistry(suite.Logger),
			func() time.Time { return Now },
			true,
			TokenTTL,
		),
	)
}

func TestResendConfirmationWithMailSending(t *testing.T) {
	suite.Run(t, new(sendConfirmationMailTestSuite))
}

func (s *sendConfirmationMailTestSuite) TestSuccessMailSentWithRotatedToken() {
	u := s.createPendingUser()

	_, err := s.Service.Run(context.Background(), Input{Email: c.Email(EMAIL)})
	s.Nil(err)

	s.Equal(1, s.Sender.ConfirmationCount())
	sent := s.Sender.LastConfirmation()
	s.Equal(u.ID, sent.User.ID)
	s.Equal(token.Code(NEW_CODE), sent.Token.Value.Code)
}

func (s *sendConfirmationMailTestSuite) TestMailDispatchFailedTokenStaysValid() {
	u := s.createPendingUser()
	s.Sender.ReturnError = true

	_, err := s.Service.Run(context.Background(), Input{Email: c.Email(EMAIL)})
	s.NotNil(err)
	s.False(errors.Is(err, ErrNotResendable))

	// The rotated token is still live, a retry can deliver it.
	live := s.Uow.Context.TokenStore.LiveTokens(u.ID, token.Confirmation, Now)
	s.Equal(1, len(live))
	s.Equal(token.Code(NEW_CODE), live[0].Code)
}

func (s *sendConfirmationMailTestSuite) TestNotResendableNoMailSent() {
	_, err := s.Service.Run(context.Background(), Input{Email: c.Email(EMAIL)})
	s.True(errors.Is(err, ErrNotResendable))
	s.Equal(0, s.Sender.ConfirmationCount())
}

func (s *sendConfirmationMailTestSuite) createPendingUser() user.User {
	u, err := s.Uow.Context.UserRepository.Create(context.Background(), user.CreateUserInput{
		Email:        c.Email(EMAIL),
		Username:     USERNAME,
		PasswordHash: "test-password-hash",
		CreatedAt:    Now,
	})
	s.Require().Nil(err)
	return u
}
