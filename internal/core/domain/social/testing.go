package social

import (
	"context"
	"fmt"
	"sync"
	"time"
	c "usuario/internal/core/domain/common"
	"usuario/internal/core/domain/user"
)

type FakeRepository struct {
	Accounts    []Account
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{Accounts: make([]Account, 0, 5)}
}

func (r *FakeRepository) Create(ctx context.Context, input CreateAccountInput) (a Account, err error) {
	if r.ReturnError {
		return a, fmt.Errorf("could not create social account %v", input)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	maxID := ID(0)
	for _, a := range r.Accounts {
		if a.Provider == input.Provider && a.Code == input.Code {
			return a, ErrAccountAlreadyExists
		}
		maxID = a.ID
	}
	a = Account{
		ID:        maxID + 1,
		Provider:  input.Provider,
		Code:      input.Code,
		Email:     input.Email,
		Username:  input.Username,
		CreatedAt: input.CreatedAt,
	}
	r.Accounts = append(r.Accounts, a)
	return a, nil
}

func (r *FakeRepository) GetByCode(ctx context.Context, code Code) (a Account, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, a := range r.Accounts {
		if a.Code == code {
			return a, nil
		}
	}
	return a, ErrAccountDoesNotExist
}

func (r *FakeRepository) Connect(ctx context.Context, id ID, userID user.ID, at time.Time) (a Account, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, a := range r.Accounts {
		if a.ID != id {
			continue
		}
		if a.IsConnected() {
			return a, ErrAccountAlreadyConnected
		}
		r.Accounts[ix].UserID = c.NewOptional(userID, true)
		r.Accounts[ix].ConnectedAt = c.NewOptional(at, true)
		return r.Accounts[ix], nil
	}
	return a, ErrAccountDoesNotExist
}
