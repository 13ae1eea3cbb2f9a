package mail

import (
	"context"
	"fmt"
	"sync"
	c "usuario/internal/core/domain/common"
	"usuario/internal/core/domain/token"
	"usuario/internal/core/domain/user"
)

type SentMail struct {
	User  user.User
	Token c.Optional[token.Token]
}

type FakeSender struct {
	Welcomes      []SentMail
	Confirmations []SentMail
	ReturnError   bool
	lock          sync.Mutex
}

func NewFakeSender() *FakeSender {
	return &FakeSender{}
}

func (s *FakeSender) SendWelcome(ctx context.Context, u user.User, t c.Optional[token.Token]) error {
	if s.ReturnError {
		return fmt.Errorf("could not send welcome mail to user %d", u.ID)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Welcomes = append(s.Welcomes, SentMail{User: u, Token: t})
	return nil
}

func (s *FakeSender) SendConfirmation(ctx context.Context, u user.User, t token.Token) error {
	if s.ReturnError {
		return fmt.Errorf("could not send confirmation mail to user %d", u.ID)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Confirmations = append(s.Confirmations, SentMail{User: u, Token: c.NewOptional(t, true)})
	return nil
}

func (s *FakeSender) WelcomeCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.Welcomes)
}

func (s *FakeSender) ConfirmationCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.Confirmations)
}

func (s *FakeSender) LastConfirmation() SentMail {
	s.lock.Lock()
	defer s.lock.Unlock()
	l := len(s.Confirmations)
	if l == 0 {
		panic("no confirmation mail has been sent")
	}
	return s.Confirmations[l-1]
}
