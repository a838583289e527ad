package repository

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alexanderramin/threadlog/internal/db"
)

// Repos bundles the repositories bound to one connection or transaction.
type Repos struct {
	WorkLogs      WorkLogRepo
	Employees     EmployeeRepo
	Organizations OrganizationRepo
}

// Store hands out repositories for either direct reads or a transaction.
// Repos from Read must not be used while a WithinTx callback is running on
// the same store, since an in-memory SQLite database has a single connection.
type Store interface {
	Read() Repos
	WithinTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error
}

// SQLiteStore backs a Store with database/sql.
type SQLiteStore struct {
	db  *sql.DB
	uow db.UnitOfWork
}

// NewSQLiteStore wires a Store on database. A nil uow uses a plain
// SQLiteUnitOfWork.
func NewSQLiteStore(database *sql.DB, uow db.UnitOfWork) *SQLiteStore {
	if uow == nil {
		uow = db.NewSQLiteUnitOfWork(database)
	}
	return &SQLiteStore{db: database, uow: uow}
}

func (s *SQLiteStore) Read() Repos {
	return sqliteRepos(s.db)
}

func (s *SQLiteStore) WithinTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, sqliteRepos(tx))
	})
}

func sqliteRepos(conn db.DBTX) Repos {
	return Repos{
		WorkLogs:      NewSQLiteWorkLogRepo(conn),
		Employees:     NewSQLiteEmployeeRepo(conn),
		Organizations: NewSQLiteOrganizationRepo(conn),
	}
}

// PostgresStore backs a Store with a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
	uow  *db.PgxUnitOfWork
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, uow: db.NewPgxUnitOfWork(pool)}
}

func (s *PostgresStore) Read() Repos {
	return postgresRepos(s.pool)
}

func (s *PostgresStore) WithinTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, postgresRepos(tx))
	})
}

func postgresRepos(conn db.PgxDBTX) Repos {
	return Repos{
		WorkLogs:      NewPostgresWorkLogRepo(conn),
		Employees:     NewPostgresEmployeeRepo(conn),
		Organizations: NewPostgresOrganizationRepo(conn),
	}
}

var (
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
