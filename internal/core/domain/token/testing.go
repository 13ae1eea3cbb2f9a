package token

import (
	"context"
	"fmt"
	"sync"
	"time"
	c "usuario/internal/core/domain/common"
	"usuario/internal/core/domain/user"
)

type FakeStore struct {
	Tokens      []Token
	ReturnError bool
	lock        sync.Mutex
	nextID      ID
}

func NewFakeStore() *FakeStore {
	return &FakeStore{Tokens: make([]Token, 0, 10)}
}

func (s *FakeStore) Issue(ctx context.Context, input IssueInput) (t Token, err error) {
	if s.ReturnError {
		return t, fmt.Errorf("could not issue token %v", input)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	kept := s.Tokens[:0]
	for _, existing := range s.Tokens {
		if existing.UserID == input.UserID && existing.Type == input.Type && !existing.IsConsumed() {
			continue
		}
		kept = append(kept, existing)
	}
	s.Tokens = kept
	s.nextID++
	t = Token{
		ID:        s.nextID,
		UserID:    input.UserID,
		Code:      input.Code,
		Type:      input.Type,
		CreatedAt: input.CreatedAt,
		ExpiresAt: input.ExpiresAt,
	}
	s.Tokens = append(s.Tokens, t)
	return t, nil
}

func (s *FakeStore) GetByCode(ctx context.Context, code Code) (t Token, err error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	for _, existing := range s.Tokens {
		if existing.Code == code {
			return existing, nil
		}
	}
	return t, ErrTokenDoesNotExist
}

func (s *FakeStore) Consume(ctx context.Context, id ID, at time.Time) (t Token, err error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	for ix, existing := range s.Tokens {
		if existing.ID != id {
			continue
		}
		if existing.IsConsumed() {
			return existing, ErrTokenAlreadyConsumed
		}
		s.Tokens[ix].ConsumedAt = c.NewOptional(at, true)
		return s.Tokens[ix], nil
	}
	return t, ErrTokenDoesNotExist
}

func (s *FakeStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if s.ReturnError {
		return 0, fmt.Errorf("could not delete expired tokens")
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	var deleted int64
	kept := s.Tokens[:0]
	for _, existing := range s.Tokens {
		if existing.IsExpired(now) {
			deleted++
			continue
		}
		kept = append(kept, existing)
	}
	s.Tokens = kept
	return deleted, nil
}

func (s *FakeStore) LiveTokens(userID user.ID, tokenType Type, now time.Time) []Token {
	s.lock.Lock()
	defer s.lock.Unlock()
	live := make([]Token, 0, 1)
	for _, existing := range s.Tokens {
		if existing.UserID == userID && existing.Type == tokenType && existing.IsLive(now) {
			live = append(live, existing)
		}
	}
	return live
}

type FakeGenerator struct {
	Code Code
}

func NewFakeGenerator(code string) *FakeGenerator {
	return &FakeGenerator{Code: Code(code)}
}

func (g *FakeGenerator) GenerateCode() Code {
	return g.Code
}
