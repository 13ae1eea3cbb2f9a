package db

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// TestPostgresURL returns the connection string for integration tests,
// or an empty string when no test database is available. Tests must
// skip in that case.
func TestPostgresURL() string {
	return os.Getenv("TEST_POSTGRESQL_URL")
}

func applyMigrations(connString string) {
	migrationsPath := os.Getenv("TEST_MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "../../../migrations"
	}
	m, err := migrate.New("file://"+migrationsPath, connString)
	if err != nil {
		panic(fmt.Sprintf("Could not connect to DB for applying migrations: %v.", err))
	}
	err = m.Up()
	if !errors.Is(err, migrate.ErrNoChange) && err != nil {
		panic(fmt.Sprintf("Could not apply DB migrations: %v.", err))
	}
}

func CreateTestPool() *pgxpool.Pool {
	connString := TestPostgresURL()
	if connString == "" {
		panic("TEST_POSTGRESQL_URL must be set.")
	}
	applyMigrations(connString)

	pool, err := pgxpool.Connect(context.Background(), connString)
	if err != nil {
		panic("Could not connect to the database.")
	}
	return pool
}

func TruncateTables(pool *pgxpool.Pool) {
	_, err := pool.Exec(
		context.Background(),
		`TRUNCATE "user", session, confirmation_token, social_account RESTART IDENTITY CASCADE`,
	)
	if err != nil {
		panic("Could not truncate DB tables.")
	}
}
