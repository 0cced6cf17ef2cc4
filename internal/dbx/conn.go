// Package dbx binds a *sql.DB to the SQL dialect of its driver. Repositories
// write their queries with '?' placeholders; Conn and Tx rebind them before
// they reach the driver.
package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Querier runs dialect-neutral queries. Conn and Tx implement it.
type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) *sql.Row
}

type Conn struct {
	db      *sql.DB
	dialect Dialect
}

func Bind(db *sql.DB, d Dialect) *Conn {
	return &Conn{db: db, dialect: d}
}

func (c *Conn) Dialect() Dialect {
	return c.dialect
}

func (c *Conn) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.db.ExecContext(ctx, c.dialect.Rebind(query), args...)
}

func (c *Conn) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.db.QueryContext(ctx, c.dialect.Rebind(query), args...)
}

func (c *Conn) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return c.db.QueryRowContext(ctx, c.dialect.Rebind(query), args...)
}

// InTx runs fn in one transaction. The transaction commits when fn returns
// nil and rolls back when fn fails or panics; panics are re-raised. A failed
// rollback is joined to the error of fn.
func (c *Conn) InTx(ctx context.Context, fn func(ctx context.Context, q Querier) error) (err error) {
	sqlTx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := sqlTx.Rollback(); rbErr != nil {
				err = errors.Join(err, fmt.Errorf("failed to roll back: %w", rbErr))
			}
			return
		}
		if cErr := sqlTx.Commit(); cErr != nil {
			err = fmt.Errorf("failed to commit: %w", cErr)
		}
	}()

	return fn(ctx, &Tx{tx: sqlTx, dialect: c.dialect})
}

// Tx is a transaction opened by Conn.InTx.
type Tx struct {
	tx      *sql.Tx
	dialect Dialect
}

func (t *Tx) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return t.tx.ExecContext(ctx, t.dialect.Rebind(query), args...)
}

func (t *Tx) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return t.tx.QueryContext(ctx, t.dialect.Rebind(query), args...)
}

func (t *Tx) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return t.tx.QueryRowContext(ctx, t.dialect.Rebind(query), args...)
}
