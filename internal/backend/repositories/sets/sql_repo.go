package sets

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/cardkeeper/internal/dbx"
	"github.com/dmitrijs2005/cardkeeper/internal/records"
)

type SQLRepository struct {
	conn *dbx.Conn
}

func NewSQLRepository(db *sql.DB, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{conn: dbx.Bind(db, dialect)}
}

func (r *SQLRepository) List(ctx context.Context, game records.Game) ([]records.SetRef, error) {
	rows, err := r.conn.Query(ctx, `SELECT id, name, release_date FROM sets WHERE game=? ORDER BY position`, string(game))
	if err != nil {
		return nil, fmt.Errorf("failed to select sets: %w", err)
	}
	defer rows.Close()

	result := []records.SetRef{}
	for rows.Next() {
		var s records.SetRef
		if err := rows.Scan(&s.ID, &s.Name, &s.ReleaseDate); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLRepository) Replace(ctx context.Context, game records.Game, sets []records.SetRef) error {
	return r.conn.InTx(ctx, func(ctx context.Context, tx dbx.Querier) error {
		if _, err := tx.Exec(ctx, `DELETE FROM sets WHERE game=?`, string(game)); err != nil {
			return fmt.Errorf("failed to clear sets: %w", err)
		}
		query := `INSERT INTO sets (game, id, name, release_date, position) VALUES (?, ?, ?, ?, ?)`
		seen := make(map[string]struct{}, len(sets))
		pos := 0
		for _, s := range sets {
			if _, dup := seen[s.ID]; dup {
				continue
			}
			seen[s.ID] = struct{}{}
			if _, err := tx.Exec(ctx, query, string(game), s.ID, s.Name, s.ReleaseDate, pos); err != nil {
				return fmt.Errorf("failed to insert set %s: %w", s.ID, err)
			}
			pos++
		}
		return nil
	})
}
