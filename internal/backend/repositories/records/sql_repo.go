package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cardkeeper/internal/common"
	"github.com/dmitrijs2005/cardkeeper/internal/dbx"
	"github.com/dmitrijs2005/cardkeeper/internal/records"
)

const columns = `id, name, set_id, set_name, set_release_date, set_no, language,
	card_condition, amount, note, signed, altered, flags, images`

type SQLRepository struct {
	conn *dbx.Conn
}

func NewSQLRepository(db *sql.DB, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{conn: dbx.Bind(db, dialect)}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (records.Record, error) {
	var (
		r             records.Record
		flags, images string
	)
	err := s.Scan(&r.ID, &r.Name, &r.Set.ID, &r.Set.Name, &r.Set.ReleaseDate, &r.SetNo,
		&r.Language, &r.Condition, &r.Amount, &r.Note, &r.Signed, &r.Altered, &flags, &images)
	if err != nil {
		return records.Record{}, err
	}
	if err := json.Unmarshal([]byte(flags), &r.Flags); err != nil {
		return records.Record{}, fmt.Errorf("failed to decode flags of record %d: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(images), &r.Images); err != nil {
		return records.Record{}, fmt.Errorf("failed to decode images of record %d: %w", r.ID, err)
	}
	if r.Images == nil {
		r.Images = []string{}
	}
	if len(r.Flags) == 0 {
		r.Flags = nil
	}
	return r, nil
}

func encodeLists(r records.Record) (string, string, error) {
	flags := r.Flags
	if flags == nil {
		flags = map[string]bool{}
	}
	images := r.Images
	if images == nil {
		images = []string{}
	}
	f, err := json.Marshal(flags)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode flags: %w", err)
	}
	i, err := json.Marshal(images)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode images: %w", err)
	}
	return string(f), string(i), nil
}

func (r *SQLRepository) List(ctx context.Context, game records.Game) ([]records.Record, error) {
	rows, err := r.conn.Query(ctx, `SELECT `+columns+` FROM records WHERE game=? ORDER BY id`, string(game))
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	result := []records.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLRepository) Get(ctx context.Context, game records.Game, id int64) (records.Record, error) {
	rec, err := scanRecord(r.conn.QueryRow(ctx, `SELECT `+columns+` FROM records WHERE game=? AND id=?`, string(game), id))
	if errors.Is(err, sql.ErrNoRows) {
		return records.Record{}, common.ErrNotFound
	}
	if err != nil {
		return records.Record{}, fmt.Errorf("failed to select record: %w", err)
	}
	return rec, nil
}

func nextID(ctx context.Context, q dbx.Querier, game records.Game) (int64, error) {
	var id int64
	err := q.QueryRow(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM records WHERE game=?`, string(game)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to get next id: %w", err)
	}
	return id, nil
}

func (r *SQLRepository) NextID(ctx context.Context, game records.Game) (int64, error) {
	return nextID(ctx, r.conn, game)
}

func (r *SQLRepository) Insert(ctx context.Context, game records.Game, rec records.Record) (int64, error) {
	flags, images, err := encodeLists(rec)
	if err != nil {
		return 0, err
	}

	var id int64
	err = r.conn.InTx(ctx, func(ctx context.Context, tx dbx.Querier) error {
		id, err = nextID(ctx, tx, game)
		if err != nil {
			return err
		}
		query := `INSERT INTO records (game, ` + columns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := tx.Exec(ctx, query, string(game), id, rec.Name, rec.Set.ID, rec.Set.Name,
			rec.Set.ReleaseDate, rec.SetNo, rec.Language, rec.Condition, rec.Amount, rec.Note,
			rec.Signed, rec.Altered, flags, images)
		if err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *SQLRepository) Update(ctx context.Context, game records.Game, rec records.Record) error {
	flags, images, err := encodeLists(rec)
	if err != nil {
		return err
	}

	query := `UPDATE records SET name=?, set_id=?, set_name=?, set_release_date=?,
		set_no=?, language=?, card_condition=?, amount=?, note=?, signed=?, altered=?, flags=?, images=?
		WHERE game=? AND id=?`
	result, err := r.conn.Exec(ctx, query, rec.Name, rec.Set.ID, rec.Set.Name, rec.Set.ReleaseDate,
		rec.SetNo, rec.Language, rec.Condition, rec.Amount, rec.Note, rec.Signed, rec.Altered,
		flags, images, string(game), rec.ID)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	return expectOneRow(result)
}

func (r *SQLRepository) Delete(ctx context.Context, game records.Game, id int64) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM records WHERE game=? AND id=?`, string(game), id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return expectOneRow(result)
}

func expectOneRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
