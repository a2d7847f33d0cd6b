// Package database owns the PostgreSQL connection pool and the transaction
// boundary shared by every repository.
//
// Transactions travel inside context.Context: repositories call Conn(ctx) and
// transparently run inside the caller's transaction when one is open. Nested
// WithinTx/WithinReadTx calls join the outer transaction.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/ghuser/orderserver/pkg/logger"
)

const (
	defaultMaxConns        = 25
	defaultMinConns        = 2
	defaultConnMaxLifetime = 30 * time.Minute
	defaultConnMaxIdleTime = 5 * time.Minute
	pingTimeout            = 5 * time.Second
)

// ErrReadOnlyTx is returned when a write transaction is requested while the
// context already carries a read-only one.
var ErrReadOnlyTx = errors.New("database: write requested inside read-only transaction")

// Querier is the subset of *sql.DB / *sql.Tx used by the generated query packages.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Database wraps a pgx pool exposed through database/sql so that sqlc
// queries and watermill-sql share the same connections.
type Database struct {
	pool *pgxpool.Pool
	db   *sql.DB
	log  logger.Logger
}

type txKey struct{}

type txState struct {
	tx       *sql.Tx
	readOnly bool
}

// NewPool connects to url, verifies connectivity and returns a ready Database.
func NewPool(ctx context.Context, url string, log logger.Logger) (*Database, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = defaultMaxConns
	cfg.MinConns = defaultMinConns
	cfg.MaxConnLifetime = defaultConnMaxLifetime
	cfg.MaxConnIdleTime = defaultConnMaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Database{pool: pool, db: stdlib.OpenDBFromPool(pool), log: log}, nil
}

// DB returns the pool as a *sql.DB.
func (d *Database) DB() *sql.DB {
	return d.db
}

// Conn returns the transaction carried by ctx, or the pool when there is none.
func (d *Database) Conn(ctx context.Context) Querier {
	if st := stateFrom(ctx); st != nil {
		return st.tx
	}
	return d.db
}

// TxFromContext returns the transaction carried by ctx, if any.
func TxFromContext(ctx context.Context) (*sql.Tx, bool) {
	st := stateFrom(ctx)
	if st == nil {
		return nil, false
	}
	return st.tx, true
}

// WithinTx runs fn inside a read-write transaction. The transaction commits
// when fn returns nil and rolls back otherwise.
func (d *Database) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if st := stateFrom(ctx); st != nil {
		if st.readOnly {
			return ErrReadOnlyTx
		}
		return fn(ctx)
	}
	return d.run(ctx, nil, fn)
}

// WithinReadTx runs fn inside a read-only REPEATABLE READ transaction so all
// of fn's queries observe the same snapshot.
func (d *Database) WithinReadTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if stateFrom(ctx) != nil {
		return fn(ctx)
	}
	return d.run(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
}

func (d *Database) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				d.log.WarnContext(ctx, "rollback failed", "error", rbErr)
			}
		}
	}()

	state := &txState{tx: tx, readOnly: opts != nil && opts.ReadOnly}
	if err = fn(context.WithValue(ctx, txKey{}, state)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Ping checks the database connection health.
func (d *Database) Ping(ctx context.Context) error {
	if err := d.pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping: %w", err)
	}
	return nil
}

// Close releases the *sql.DB handle and the underlying pool.
func (d *Database) Close() {
	_ = d.db.Close()
	d.pool.Close()
}

// IsUniqueViolation reports whether err is a Postgres unique_violation (23505).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func stateFrom(ctx context.Context) *txState {
	st, _ := ctx.Value(txKey{}).(*txState)
	return st
}
