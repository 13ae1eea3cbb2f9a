package connectsocialaccount

import (
	"context"
	"errors"
	"testing"
	"time"
	c "usuario/internal/core/domain/common"
	"usuario/internal/core/domain/hook"
	"usuario/internal/core/domain/logging"
	"usuario/internal/core/domain/social"
	uow "usuario/internal/core/domain/unit_of_work"
	"usuario/internal/core/domain/user"
	"usuario/internal/core/services"

	"github.com/stretchr/testify/suite"
)

const (
	EMAIL         = "test@test.test"
	USERNAME      = "test-user"
	PASSWORD      = "test-password"
	PROVIDER      = "github"
	PROVIDER_CODE = "provider-account-code"
	SESSION_TOKEN = "test-session-token"
)

var Now time.Time = time.Now().UTC()

type testSuite struct {
	suite.Suite
	Logger   *logging.FakeLogger
	Uow      *uow.FakeUnitOfWork
	Observer *hook.FakeObserver
	Service  services.Service[Input, Result]
}

func (suite *testSuite) SetupTest() {
	suite.Logger = logging.NewFakeLogger()
	suite.Uow = uow.NewFakeUnitOfWork()
	hooks := hook.NewRegistry(suite.Logger)
	suite.Observer = hook.NewFakeObserver()
	hooks.Register(hook.AfterConnect, suite.Observer)
	suite.Service = New(
		suite.Logger,
		suite.Uow,
		user.NewFakePasswordHasher(),
		user.NewFakeSessionTokenGenerator(SESSION_TOKEN),
		hooks,
		func() time.Time { return Now },
	)
}

func TestConnectSocialAccountService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestSuccess() {
	account := s.createUnconnectedAccount()

	result, err := s.Service.Run(context.Background(), s.input())
	s.Nil(err)

	s.True(result.User.IsConfirmed())
	s.Equal(user.SessionToken(SESSION_TOKEN), result.SessionToken)
	s.True(result.Account.IsConnected())
	s.Equal(result.User.ID, result.Account.UserID.Value)

	stored, err := s.Uow.Context.SocialRepository.GetByCode(context.Background(), account.Code)
	s.Nil(err)
	s.True(stored.IsConnected())
	s.Equal(1, s.Uow.Context.SessionRepository.SessionCount())
	s.True(s.Uow.Context.WasCommitCalled)
	s.Equal(1, s.Observer.ObservedCount())
}

func (s *testSuite) TestAccountDoesNotExist() {
	_, err := s.Service.Run(context.Background(), s.input())
	s.True(errors.Is(err, social.ErrAccountDoesNotExist))
	s.False(s.Uow.Context.WasCommitCalled)
}

func (s *testSuite) TestAccountAlreadyConnected() {
	account := s.createUnconnectedAccount()
	_, err := s.Uow.Context.SocialRepository.Connect(
		context.Background(), account.ID, user.ID(99), Now,
	)
	s.Require().Nil(err)

	_, err = s.Service.Run(context.Background(), s.input())
	s.True(errors.Is(err, social.ErrAccountAlreadyConnected))

	// No user was created, nothing was committed.
	s.Equal(0, len(s.Uow.Context.UserRepository.Users))
	s.False(s.Uow.Context.WasCommitCalled)
	s.Equal(0, s.Observer.ObservedCount())
}

func (s *testSuite) TestEmailAlreadyExistsAccountStaysUnconnected() {
	account := s.createUnconnectedAccount()
	_, err := s.Uow.Context.UserRepository.Create(context.Background(), user.CreateUserInput{
		Email:        c.Email(EMAIL),
		Username:     "another-user",
		PasswordHash: "test-password-hash",
		CreatedAt:    Now,
	})
	s.Require().Nil(err)

	_, err = s.Service.Run(context.Background(), s.input())
	s.True(errors.Is(err, user.ErrEmailAlreadyExists))

	stored, err := s.Uow.Context.SocialRepository.GetByCode(context.Background(), account.Code)
	s.Nil(err)
	s.False(stored.IsConnected())
	s.False(s.Uow.Context.WasCommitCalled)
}

func (s *testSuite) TestUserCreationFailedAccountStaysUnconnected() {
	account := s.createUnconnectedAccount()
	s.Uow.Context.UserRepository.ReturnError = true

	_, err := s.Service.Run(context.Background(), s.input())
	s.NotNil(err)

	stored, err := s.Uow.Context.SocialRepository.GetByCode(context.Background(), account.Code)
	s.Nil(err)
	s.False(stored.IsConnected())
}

func (s *testSuite) createUnconnectedAccount() social.Account {
	account, err := s.Uow.Context.SocialRepository.Create(context.Background(), social.CreateAccountInput{
		Provider:  social.Provider(PROVIDER),
		Code:      social.Code(PROVIDER_CODE),
		Email:     c.NewOptional(c.Email(EMAIL), true),
		Username:  c.NewOptional(user.Username(USERNAME), true),
		CreatedAt: Now,
	})
	s.Require().Nil(err)
	return account
}

func (s *testSuite) input() Input {
	return Input{
		Code:     social.Code(PROVIDER_CODE),
		Email:    c.Email(EMAIL),
		Username: user.Username(USERNAME),
		Password: user.RawPassword(PASSWORD),
	}
}
