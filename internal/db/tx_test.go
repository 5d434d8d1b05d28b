package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE plays (id INTEGER PRIMARY KEY, url TEXT)`)
	if err != nil {
		db.Close()
		t.Fatalf("failed to create table: %v", err)
	}

	return db
}

func countPlays(t *testing.T, db *sql.DB) int {
	t.Helper()
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM plays`).Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	return count
}

func TestWithTx_Success(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	err := WithTx(context.Background(), db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO plays (url) VALUES (?)`, "a.mp3"); err != nil {
			return err
		}
		_, err := tx.Exec(`INSERT INTO plays (url) VALUES (?)`, "b.mp3")
		return err
	})
	if err != nil {
		t.Fatalf("WithTx failed: %v", err)
	}

	if count := countPlays(t, db); count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestWithTx_Rollback(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	testErr := errors.New("test error")

	err := WithTx(context.Background(), db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO plays (url) VALUES (?)`, "a.mp3"); err != nil {
			return err
		}
		return testErr // Return error to trigger rollback
	})

	if !errors.Is(err, testErr) {
		t.Fatalf("WithTx should return the error: got %v, want %v", err, testErr)
	}
	if count := countPlays(t, db); count != 0 {
		t.Errorf("count = %d, want 0 (rolled back)", count)
	}
}

func TestWithTx_CanceledContext(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := WithTx(ctx, db, func(_ *sql.Tx) error {
		called = true
		return nil
	})

	if err == nil {
		t.Fatal("WithTx should fail on a canceled context")
	}
	if called {
		t.Error("fn should not run when the transaction cannot begin")
	}
}

func TestNullValues(t *testing.T) {
	if got := NullInt64Value(sql.NullInt64{Int64: 3, Valid: true}, -1); got != 3 {
		t.Errorf("NullInt64Value(valid) = %d, want 3", got)
	}
	if got := NullInt64Value(sql.NullInt64{Int64: 3}, -1); got != -1 {
		t.Errorf("NullInt64Value(invalid) = %d, want -1", got)
	}
	if got := NullFloat64Value(sql.NullFloat64{Float64: 1.5, Valid: true}); got != 1.5 {
		t.Errorf("NullFloat64Value(valid) = %v, want 1.5", got)
	}
	if got := NullFloat64Value(sql.NullFloat64{Float64: 1.5}); got != 0 {
		t.Errorf("NullFloat64Value(invalid) = %v, want 0", got)
	}
	if got := NullStringValue(sql.NullString{String: "x", Valid: true}); got != "x" {
		t.Errorf("NullStringValue(valid) = %q, want %q", got, "x")
	}
	if got := NullStringValue(sql.NullString{String: "x"}); got != "" {
		t.Errorf("NullStringValue(invalid) = %q, want empty", got)
	}
}
