// Package repomanager opens the catalogue database for the configured
// driver, applies migrations and hands out the repositories bound to it.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/cardkeeper/internal/backend/migrations"
	"github.com/dmitrijs2005/cardkeeper/internal/backend/repositories/records"
	"github.com/dmitrijs2005/cardkeeper/internal/backend/repositories/sets"
	"github.com/dmitrijs2005/cardkeeper/internal/dbx"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Records() records.Repository
	Sets() sets.Repository
	Close() error
}

type SQLRepositoryManager struct {
	db      *sql.DB
	dialect dbx.Dialect
	records records.Repository
	sets    sets.Repository
}

func (m *SQLRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *SQLRepositoryManager) Records() records.Repository {
	return m.records
}

func (m *SQLRepositoryManager) Sets() sets.Repository {
	return m.sets
}

func (m *SQLRepositoryManager) RunMigrations(ctx context.Context) error {
	return migrations.Up(ctx, m.db, m.dialect)
}

func (m *SQLRepositoryManager) Close() error {
	return m.db.Close()
}

// New opens dsn with the driver ("sqlite" or "pgx") and migrates it.
// SQLite connections are limited to one so writers never contend.
func New(ctx context.Context, driver, dsn string) (*SQLRepositoryManager, error) {
	dialect, err := dbx.ParseDialect(driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if dialect == dbx.DialectSQLite {
		db.SetMaxOpenConns(1)
	}

	m := &SQLRepositoryManager{
		db:      db,
		dialect: dialect,
		records: records.NewSQLRepository(db, dialect),
		sets:    sets.NewSQLRepository(db, dialect),
	}

	if err := m.RunMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return m, nil
}
