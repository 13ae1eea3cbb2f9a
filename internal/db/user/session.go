package user

import (
	"context"
	"errors"
	e "usuario/internal/core/domain/errors"
	"usuario/internal/core/domain/user"
	"usuario/internal/db"

	"github.com/jackc/pgx/v4"
)

type PgxSessionRepository struct {
	db db.Queryer
}

func NewPgxSessionRepository(db db.Queryer) *PgxSessionRepository {
	if db == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxSessionRepository{db: db}
}

func (r *PgxSessionRepository) Create(ctx context.Context, input user.CreateSessionInput) error {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO session (token, user_id, created_at) VALUES ($1, $2, $3)`,
		string(input.Token),
		int64(input.UserID),
		input.CreatedAt,
	)
	return err
}

func (r *PgxSessionRepository) GetUserByToken(ctx context.Context, token user.SessionToken) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT `+prefixedUserColumns(`u`)+`
		 FROM session s JOIN "user" u ON u.id = s.user_id
		 WHERE s.token = $1`,
		string(token),
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

func prefixedUserColumns(alias string) string {
	return alias + `.id, ` + alias + `.email, ` + alias + `.username, ` +
		alias + `.password_hash, ` + alias + `.created_at, ` +
		alias + `.confirmed_at, ` + alias + `.blocked_at`
}
