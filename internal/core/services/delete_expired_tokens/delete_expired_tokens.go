package deleteexpiredtokens

import (
	"context"
	"errors"
	"time"
	e "usuario/internal/core/domain/errors"
	"usuario/internal/core/domain/logging"
	"usuario/internal/core/domain/token"
	"usuario/internal/core/services"
)

type Input struct{}

type Result struct {
	DeletedCount int64
}

type service struct {
	log        logging.Logger
	tokenStore token.Store
	now        func() time.Time
}

func New(
	log logging.Logger,
	tokenStore token.Store,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if tokenStore == nil {
		panic(e.NewNilArgumentError("tokenStore"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{log: log, tokenStore: tokenStore, now: now}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	deletedCount, err := s.tokenStore.DeleteExpired(ctx, s.now())
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not delete expired tokens.", logging.Entry("err", err))
		return result, err
	}
	s.log.Info(ctx, "Expired tokens deleted.", logging.Entry("deletedCount", deletedCount))
	return Result{DeletedCount: deletedCount}, nil
}
