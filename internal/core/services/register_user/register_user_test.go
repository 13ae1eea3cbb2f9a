package registeruser

import (
	"context"
	"errors"
	"testing"
	"time"
	c "usuario/internal/core/domain/common"
	"usuario/internal/core/domain/hook"
	"usuario/internal/core/domain/logging"
	"usuario/internal/core/domain/token"
	uow "usuario/internal/core/domain/unit_of_work"
	"usuario/internal/core/domain/user"
	"usuario/internal/core/services"

	"github.com/stretchr/testify/suite"
)

const (
	EMAIL             = "test@test.test"
	USERNAME          = "test-user"
	PASSWORD          = "test-password"
	CONFIRMATION_CODE = "test-confirmation-code"
	SESSION_TOKEN     = "test-session-token"
)

var (
	Now      time.Time     = time.Now().UTC()
	TokenTTL time.Duration = 24 * time.Hour
)

type testSuite struct {
	suite.Suite
	Logger   *logging.FakeLogger
	Uow      *uow.FakeUnitOfWork
	Observer *hook.FakeObserver
	Hooks    *hook.Registry
	Service  services.Service[Input, Result]
}

func (suite *testSuite) SetupTest() {
	suite.Logger = logging.NewFakeLogger()
	suite.Uow = uow.NewFakeUnitOfWork()
	suite.Hooks = hook.NewRegistry(suite.Logger)
	suite.Observer = hook.NewFakeObserver()
	suite.Hooks.Register(hook.AfterRegister, suite.Observer)
	suite.Service = suite.newService(true)
}

func (suite *testSuite) newService(confirmationRequired bool) services.Service[Input, Result] {
	return New(
		suite.Logger,
		suite.Uow,
		user.NewFakePasswordHasher(),
		token.NewFakeGenerator(CONFIRMATION_CODE),
		user.NewFakeSessionTokenGenerator(SESSION_TOKEN),
		suite.Hooks,
		func() time.Time { return Now },
		confirmationRequired,
		TokenTTL,
	)
}

func TestRegisterUserService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestSuccessUserCreatedPending() {
	result, err := s.Service.Run(context.Background(), s.input())
	s.Nil(err)

	u, err := s.Uow.Context.UserRepository.GetByEmail(context.Background(), c.Email(EMAIL))
	s.Nil(err)
	s.False(u.IsConfirmed())
	s.Equal(user.Username(USERNAME), u.Username)
	s.Equal(u.ID, result.User.ID)
	s.True(s.Uow.Context.WasCommitCalled)
}

func (s *testSuite) TestSuccessConfirmationTokenIssued() {
	result, err := s.Service.Run(context.Background(), s.input())
	s.Nil(err)

	s.True(result.Token.IsPresent)
	issued := result.Token.Value
	s.Equal(token.Code(CONFIRMATION_CODE), issued.Code)
	s.Equal(token.Confirmation, issued.Type)
	s.Equal(result.User.ID, issued.UserID)
	s.Equal(Now.Add(TokenTTL), issued.ExpiresAt)

	live := s.Uow.Context.TokenStore.LiveTokens(result.User.ID, token.Confirmation, Now)
	s.Equal(1, len(live))
	s.False(result.SessionToken.IsPresent)
}

func (s *testSuite) TestSuccessWithoutConfirmation() {
	service := s.newService(false)

	result, err := service.Run(context.Background(), s.input())
	s.Nil(err)

	s.True(result.User.IsConfirmed())
	s.False(result.Token.IsPresent)
	s.True(result.SessionToken.IsPresent)
	s.Equal(user.SessionToken(SESSION_TOKEN), result.SessionToken.Value)
	s.Equal(1, s.Uow.Context.SessionRepository.SessionCount())
	s.Equal(0, len(s.Uow.Context.TokenStore.Tokens))
	s.True(s.Uow.Context.WasCommitCalled)
}

func (s *testSuite) TestEmailAlreadyExists() {
	_, err := s.Uow.Context.UserRepository.Create(context.Background(), user.CreateUserInput{
		Email:     c.Email(EMAIL),
		Username:  "another-user",
		CreatedAt: Now,
	})
	s.Nil(err)
	s.Uow.Context.WasCommitCalled = false

	_, err = s.Service.Run(context.Background(), s.input())
	s.True(errors.Is(err, user.ErrEmailAlreadyExists))
	s.False(s.Uow.Context.WasCommitCalled)
	s.Equal(0, s.Observer.ObservedCount())
}

func (s *testSuite) TestUsernameAlreadyExists() {
	_, err := s.Uow.Context.UserRepository.Create(context.Background(), user.CreateUserInput{
		Email:     "another@test.test",
		Username:  user.Username(USERNAME),
		CreatedAt: Now,
	})
	s.Nil(err)
	s.Uow.Context.WasCommitCalled = false

	_, err = s.Service.Run(context.Background(), s.input())
	s.True(errors.Is(err, user.ErrUsernameAlreadyExists))
	s.False(s.Uow.Context.WasCommitCalled)
}

func (s *testSuite) TestTokenIssueFailed() {
	s.Uow.Context.TokenStore.ReturnError = true

	_, err := s.Service.Run(context.Background(), s.input())
	s.NotNil(err)
	s.False(s.Uow.Context.WasCommitCalled)
	s.Equal(0, s.Observer.ObservedCount())
}

func (s *testSuite) TestAfterRegisterHookNotified() {
	result, err := s.Service.Run(context.Background(), s.input())
	s.Nil(err)

	s.Equal(1, s.Observer.ObservedCount())
	observed := s.Observer.LastObserved()
	s.Equal(hook.AfterRegister, observed.Event)
	s.True(observed.Payload.User.IsPresent)
	s.Equal(result.User.ID, observed.Payload.User.Value.ID)
}

func (s *testSuite) input() Input {
	return Input{
		Email:    c.Email(EMAIL),
		Username: user.Username(USERNAME),
		Password: user.RawPassword(PASSWORD),
	}
}
