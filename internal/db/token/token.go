package token

import (
	"context"
	"database/sql"
	"errors"
	c "usuario/internal/core/domain/common"
	e "usuario/internal/core/domain/errors"
	"usuario/internal/core/domain/token"
	"usuario/internal/core/domain/user"
	"usuario/internal/db"
	"time"

	"github.com/jackc/pgx/v4"
)

const tokenColumns = `id, user_id, code, type, created_at, expires_at, consumed_at`

type PgxStore struct {
	db db.Queryer
}

func NewPgxStore(db db.Queryer) *PgxStore {
	if db == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxStore{db: db}
}

// Issue replaces the live token in a single upsert. A partial unique
// index on (user_id, type) for unconsumed rows backs the conflict
// target, so at no point two live tokens of one type coexist for a
// user, even under concurrent issues.
func (s *PgxStore) Issue(ctx context.Context, input token.IssueInput) (t token.Token, err error) {
	row := s.db.QueryRow(
		ctx,
		`INSERT INTO confirmation_token (user_id, code, type, created_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, type) WHERE consumed_at IS NULL
		 DO UPDATE SET code = EXCLUDED.code,
		               created_at = EXCLUDED.created_at,
		               expires_at = EXCLUDED.expires_at
		 RETURNING `+tokenColumns,
		int64(input.UserID),
		string(input.Code),
		string(input.Type),
		input.CreatedAt,
		input.ExpiresAt,
	)
	return scanToken(row)
}

func (s *PgxStore) GetByCode(ctx context.Context, code token.Code) (t token.Token, err error) {
	row := s.db.QueryRow(
		ctx,
		`SELECT `+tokenColumns+` FROM confirmation_token WHERE code = $1`,
		string(code),
	)
	t, err = scanToken(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return t, token.ErrTokenDoesNotExist
	}
	return t, err
}

// Consume marks the token consumed only if no one consumed it before.
// The WHERE clause is the compare-and-set.
func (s *PgxStore) Consume(ctx context.Context, id token.ID, at time.Time) (t token.Token, err error) {
	row := s.db.QueryRow(
		ctx,
		`UPDATE confirmation_token SET consumed_at = $2
		 WHERE id = $1 AND consumed_at IS NULL
		 RETURNING `+tokenColumns,
		int64(id),
		at,
	)
	t, err = scanToken(row)
	if !errors.Is(err, pgx.ErrNoRows) {
		return t, err
	}

	row = s.db.QueryRow(
		ctx,
		`SELECT `+tokenColumns+` FROM confirmation_token WHERE id = $1`,
		int64(id),
	)
	t, err = scanToken(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return t, token.ErrTokenDoesNotExist
	}
	if err != nil {
		return t, err
	}
	return t, token.ErrTokenAlreadyConsumed
}

func (s *PgxStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	commandTag, err := s.db.Exec(
		ctx,
		`DELETE FROM confirmation_token WHERE expires_at < $1`,
		now,
	)
	if err != nil {
		return 0, err
	}
	return commandTag.RowsAffected(), nil
}

func scanToken(row pgx.Row) (t token.Token, err error) {
	var (
		id         int64
		userID     int64
		code       string
		tokenType  string
		createdAt  time.Time
		expiresAt  time.Time
		consumedAt sql.NullTime
	)
	err = row.Scan(&id, &userID, &code, &tokenType, &createdAt, &expiresAt, &consumedAt)
	if err != nil {
		return t, err
	}
	t = token.Token{
		ID:         token.ID(id),
		UserID:     user.ID(userID),
		Code:       token.Code(code),
		Type:       token.Type(tokenType),
		CreatedAt:  createdAt,
		ExpiresAt:  expiresAt,
		ConsumedAt: c.NewOptional(consumedAt.Time, consumedAt.Valid),
	}
	return t, nil
}
