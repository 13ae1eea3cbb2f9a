package uow

import (
	"context"
	"errors"
	"testing"
	"time"
	c "usuario/internal/core/domain/common"
	"usuario/internal/core/domain/user"
	"usuario/internal/db"
	dbuser "usuario/internal/db/user"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/suite"
)

var NOW time.Time = time.Date(2020, 6, 6, 15, 30, 30, 0, time.UTC)

type testSuite struct {
	suite.Suite
	pool *pgxpool.Pool
	uow  *PgxUnitOfWork
}

func (suite *testSuite) SetupSuite() {
	suite.pool = db.CreateTestPool()
	suite.uow = NewPgxUnitOfWork(suite.pool)
}

func (suite *testSuite) TearDownSuite() {
	suite.pool.Close()
}

func (suite *testSuite) TearDownTest() {
	db.TruncateTables(suite.pool)
}

func TestPgxUnitOfWork(t *testing.T) {
	if db.TestPostgresURL() == "" {
		t.Skip("TEST_POSTGRESQL_URL is not set")
	}
	suite.Run(t, new(testSuite))
}

func (suite *testSuite) TestCommitPersistsChanges() {
	ctx := context.Background()
	uow, err := suite.uow.Begin(ctx)
	suite.Require().Nil(err)
	defer uow.Rollback(ctx)

	created, err := uow.Users().Create(ctx, suite.createInput())
	suite.Require().Nil(err)
	suite.Require().Nil(uow.Commit(ctx))

	repo := dbuser.NewPgxRepository(suite.pool)
	u, err := repo.GetByID(ctx, created.ID)
	suite.Nil(err)
	suite.Equal(created.Email, u.Email)
}

func (suite *testSuite) TestRollbackDiscardsChanges() {
	ctx := context.Background()
	uow, err := suite.uow.Begin(ctx)
	suite.Require().Nil(err)

	created, err := uow.Users().Create(ctx, suite.createInput())
	suite.Require().Nil(err)
	suite.Require().Nil(uow.Rollback(ctx))

	repo := dbuser.NewPgxRepository(suite.pool)
	_, err = repo.GetByID(ctx, created.ID)
	suite.True(errors.Is(err, user.ErrUserDoesNotExist))
}

func (suite *testSuite) createInput() user.CreateUserInput {
	return user.CreateUserInput{
		Email:        c.Email("test@test.test"),
		Username:     "test-user",
		PasswordHash: "test-password-hash",
		CreatedAt:    NOW,
	}
}
