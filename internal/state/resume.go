package state

import (
	"context"
	"database/sql"
	"errors"
	"time"

	dbutil "github.com/llehouerou/airwaves/internal/db"
)

// historyLimit bounds the play_history table.
const historyLimit = 200

// ResumeState is the selection restored on the next start.
type ResumeState struct {
	URL      string
	Index    int     // position in the file list, -1 if unknown
	Position float64 // seconds into the file
}

// Play is one entry of the play history.
type Play struct {
	URL      string
	OpenedAt time.Time
}

func getResume(ctx context.Context, db *sql.DB) (*ResumeState, error) {
	row := db.QueryRowContext(ctx, `
		SELECT url, file_index, position FROM resume_state WHERE id = 1
	`)

	var state ResumeState
	var index sql.NullInt64
	var position sql.NullFloat64

	err := row.Scan(&state.URL, &index, &position)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // no saved state is valid on first run
	}
	if err != nil {
		return nil, err
	}

	state.Index = int(dbutil.NullInt64Value(index, -1))
	state.Position = dbutil.NullFloat64Value(position)
	return &state, nil
}

// saveResume upserts the resume row. A URL different from the stored one
// also appends to the play history.
func saveResume(ctx context.Context, db *sql.DB, state ResumeState) error {
	now := time.Now().Unix()
	return dbutil.WithTx(ctx, db, func(tx *sql.Tx) error {
		var previous sql.NullString
		err := tx.QueryRowContext(ctx, `SELECT url FROM resume_state WHERE id = 1`).Scan(&previous)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		var index sql.NullInt64
		if state.Index >= 0 {
			index = sql.NullInt64{Int64: int64(state.Index), Valid: true}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO resume_state (id, url, file_index, position, saved_at)
			VALUES (1, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				url = excluded.url,
				file_index = excluded.file_index,
				position = excluded.position,
				saved_at = excluded.saved_at
		`, state.URL, index, state.Position, now); err != nil {
			return err
		}

		if dbutil.NullStringValue(previous) == state.URL {
			return nil
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO play_history (url, opened_at) VALUES (?, ?)
		`, state.URL, now); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			DELETE FROM play_history WHERE id NOT IN (
				SELECT id FROM play_history ORDER BY id DESC LIMIT ?
			)
		`, historyLimit)
		return err
	})
}

func recentPlays(ctx context.Context, db *sql.DB, limit int) ([]Play, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT url, opened_at FROM play_history ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plays []Play
	for rows.Next() {
		var p Play
		var openedAt int64
		if err := rows.Scan(&p.URL, &openedAt); err != nil {
			return nil, err
		}
		p.OpenedAt = time.Unix(openedAt, 0)
		plays = append(plays, p)
	}
	return plays, rows.Err()
}
