package social

import (
	"context"
	"database/sql"
	"errors"
	c "usuario/internal/core/domain/common"
	e "usuario/internal/core/domain/errors"
	"usuario/internal/core/domain/social"
	"usuario/internal/core/domain/user"
	"usuario/internal/db"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

const PG_UNIQUE_CONSTRAINT_ERR_CODE = "23505"
const PROVIDER_CODE_CONSTRAINT_NAME = "social_account_provider_code_idx"

const accountColumns = `id, provider, code, email, username, created_at, user_id, connected_at`

type PgxRepository struct {
	db db.Queryer
}

func NewPgxRepository(db db.Queryer) *PgxRepository {
	if db == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxRepository{db: db}
}

func (r *PgxRepository) Create(ctx context.Context, input social.CreateAccountInput) (a social.Account, err error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO social_account (provider, code, email, username, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+accountColumns,
		string(input.Provider),
		string(input.Code),
		encodeOptionalString(input.Email),
		encodeOptionalString(input.Username),
		input.CreatedAt,
	)
	a, err = scanAccount(row)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) &&
		pgErr.Code == PG_UNIQUE_CONSTRAINT_ERR_CODE &&
		pgErr.ConstraintName == PROVIDER_CODE_CONSTRAINT_NAME {
		return a, social.ErrAccountAlreadyExists
	}
	return a, err
}

func (r *PgxRepository) GetByCode(ctx context.Context, code social.Code) (a social.Account, err error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT `+accountColumns+` FROM social_account WHERE code = $1`,
		string(code),
	)
	a, err = scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return a, social.ErrAccountDoesNotExist
	}
	return a, err
}

// Connect links the account only while it is still unlinked. The
// WHERE clause is the compare-and-set, so a concurrent second connect
// updates zero rows.
func (r *PgxRepository) Connect(ctx context.Context, id social.ID, userID user.ID, at time.Time) (a social.Account, err error) {
	row := r.db.QueryRow(
		ctx,
		`UPDATE social_account SET user_id = $2, connected_at = $3
		 WHERE id = $1 AND user_id IS NULL
		 RETURNING `+accountColumns,
		int64(id),
		int64(userID),
		at,
	)
	a, err = scanAccount(row)
	if !errors.Is(err, pgx.ErrNoRows) {
		return a, err
	}

	row = r.db.QueryRow(
		ctx,
		`SELECT `+accountColumns+` FROM social_account WHERE id = $1`,
		int64(id),
	)
	a, err = scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return a, social.ErrAccountDoesNotExist
	}
	if err != nil {
		return a, err
	}
	return a, social.ErrAccountAlreadyConnected
}

type optionalString interface {
	~string
}

func encodeOptionalString[T optionalString](v c.Optional[T]) sql.NullString {
	return sql.NullString{String: string(v.Value), Valid: v.IsPresent}
}

func scanAccount(row pgx.Row) (a social.Account, err error) {
	var (
		id              int64
		provider        string
		code            string
		email, username sql.NullString
		createdAt       time.Time
		userID          sql.NullInt64
		connectedAt     sql.NullTime
	)
	err = row.Scan(&id, &provider, &code, &email, &username, &createdAt, &userID, &connectedAt)
	if err != nil {
		return a, err
	}
	a = social.Account{
		ID:          social.ID(id),
		Provider:    social.Provider(provider),
		Code:        social.Code(code),
		Email:       c.NewOptional(c.Email(email.String), email.Valid),
		Username:    c.NewOptional(user.Username(username.String), username.Valid),
		CreatedAt:   createdAt,
		UserID:      c.NewOptional(user.ID(userID.Int64), userID.Valid),
		ConnectedAt: c.NewOptional(connectedAt.Time, connectedAt.Valid),
	}
	return a, nil
}
