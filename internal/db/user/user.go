package user

import (
	"context"
	"database/sql"
	"errors"
	c "usuario/internal/core/domain/common"
	e "usuario/internal/core/domain/errors"
	"usuario/internal/core/domain/user"
	"usuario/internal/db"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

const PG_UNIQUE_CONSTRAINT_ERR_CODE = "23505"
const EMAIL_CONSTRAINT_NAME = "user_email_idx"
const USERNAME_CONSTRAINT_NAME = "user_username_idx"

const userColumns = `id, email, username, password_hash, created_at, confirmed_at, blocked_at`

type PgxUserRepository struct {
	db db.Queryer
}

func NewPgxRepository(db db.Queryer) *PgxUserRepository {
	if db == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxUserRepository{db: db}
}

func (r *PgxUserRepository) Create(ctx context.Context, input user.CreateUserInput) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO "user" (email, username, password_hash, created_at, confirmed_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+userColumns,
		string(input.Email),
		string(input.Username),
		string(input.PasswordHash),
		input.CreatedAt,
		encodeOptionalTime(input.ConfirmedAt),
	)
	u, err = scanUser(row)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == PG_UNIQUE_CONSTRAINT_ERR_CODE {
		switch pgErr.ConstraintName {
		case EMAIL_CONSTRAINT_NAME:
			return u, user.ErrEmailAlreadyExists
		case USERNAME_CONSTRAINT_NAME:
			return u, user.ErrUsernameAlreadyExists
		}
	}
	if err != nil {
		return u, err
	}
	if err = u.Validate(); err != nil {
		return u, err
	}
	return u, nil
}

func (r *PgxUserRepository) GetByID(ctx context.Context, id user.ID) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM "user" WHERE id = $1`,
		int64(id),
	)
	u, err = scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrUserDoesNotExist
	}
	if err != nil {
		return u, err
	}
	if err = u.Validate(); err != nil {
		return u, err
	}
	return u, nil
}

func (r *PgxUserRepository) GetByEmail(ctx context.Context, email c.Email) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM "user" WHERE email = $1`,
		string(email),
	)
	u, err = scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrUserDoesNotExist
	}
	if err != nil {
		return u, err
	}
	if err = u.Validate(); err != nil {
		return u, err
	}
	return u, nil
}

func (r *PgxUserRepository) Confirm(ctx context.Context, id user.ID, at time.Time) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`UPDATE "user" SET confirmed_at = $2
		 WHERE id = $1 AND confirmed_at IS NULL
		 RETURNING `+userColumns,
		int64(id),
		at,
	)
	u, err = scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		// Either the user is gone or someone confirmed it first.
		u, err = r.GetByID(ctx, id)
		if err != nil {
			return u, err
		}
		return u, user.ErrUserAlreadyConfirmed
	}
	if err != nil {
		return u, err
	}
	return u, nil
}

func encodeOptionalTime(at c.Optional[time.Time]) sql.NullTime {
	return sql.NullTime{Time: at.Value, Valid: at.IsPresent}
}

func scanUser(row pgx.Row) (u user.User, err error) {
	var (
		id                     int64
		email                  string
		username               string
		passwordHash           string
		createdAt              time.Time
		confirmedAt, blockedAt sql.NullTime
	)
	err = row.Scan(&id, &email, &username, &passwordHash, &createdAt, &confirmedAt, &blockedAt)
	if err != nil {
		return u, err
	}
	u = user.User{
		ID:           user.ID(id),
		Email:        c.Email(email),
		Username:     user.Username(username),
		PasswordHash: user.PasswordHash(passwordHash),
		CreatedAt:    createdAt,
		ConfirmedAt:  c.NewOptional(confirmedAt.Time, confirmedAt.Valid),
		BlockedAt:    c.NewOptional(blockedAt.Time, blockedAt.Valid),
	}
	return u, nil
}
