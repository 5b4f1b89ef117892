package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/claude/fitflow/internal/planner"
)

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries holds the repository methods. It runs against the pool or
// against a transaction.
type Queries struct {
	db dbtx
}

// DB wraps a pgxpool.Pool and provides repository methods.
type DB struct {
	Pool *pgxpool.Pool
	*Queries
}

var (
	_ planner.Store = (*DB)(nil)
	_ planner.Repo  = (*Queries)(nil)
)

// New creates a new DB with a connection pool.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{Pool: pool, Queries: &Queries{db: pool}}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}

// Ping checks database connectivity.
func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// WithTx runs fn in a transaction. The transaction is rolled back when fn
// returns an error and committed otherwise. Deferred constraint failures
// surface from the commit.
func (db *DB) WithTx(ctx context.Context, fn func(planner.Repo) error) error {
	err := pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		return fn(&Queries{db: tx})
	})
	return mapError(err)
}

// RunMigrations applies all pending migrations from the given directory.
func RunMigrations(dsn, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

const uniqueViolation = "23505"

// mapError translates driver errors into planner sentinels. Errors that
// already carry a sentinel pass through unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	switch pgErr.TableName {
	case "recovery_assessments":
		return fmt.Errorf("%w: %s", planner.ErrAlreadySubmitted, pgErr.Detail)
	case "program_exercises":
		return fmt.Errorf("%w: order_index already used on this day", planner.ErrInvalidArgument)
	}
	return err
}

// notFound maps pgx.ErrNoRows to planner.ErrNotFound for the named row.
func notFound(err error, what string, id any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %v: %w", what, id, planner.ErrNotFound)
	}
	return fmt.Errorf("querying %s: %w", what, err)
}

// mustAffect returns ErrNotFound when an UPDATE or DELETE touched no row.
func mustAffect(tag pgconn.CommandTag, what string, id any) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %v: %w", what, id, planner.ErrNotFound)
	}
	return nil
}
