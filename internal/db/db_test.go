package db

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE test_table (id INTEGER PRIMARY KEY, value TEXT)`)
	if err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	return db
}

func TestWithTx_Success(t *testing.T) {
	db := setupTestDB(t)

	err := WithTx(db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO test_table (value) VALUES (?)`, "test")
		return err
	})
	if err != nil {
		t.Fatalf("WithTx failed: %v", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM test_table`).Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestWithTx_Rollback(t *testing.T) {
	db := setupTestDB(t)

	testErr := errors.New("test error")

	err := WithTx(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO test_table (value) VALUES (?)`, "test"); err != nil {
			return err
		}
		return testErr
	})
	if !errors.Is(err, testErr) {
		t.Fatalf("WithTx should return the error: got %v, want %v", err, testErr)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM test_table`).Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0 (rolled back)", count)
	}
}

func TestQueryOne(t *testing.T) {
	db := setupTestDB(t)
	if _, err := db.Exec(`INSERT INTO test_table (id, value) VALUES (1, 'a'), (2, 'b')`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	var value string
	found, err := QueryOne(context.Background(), db, `SELECT value FROM test_table WHERE id = ?`, []any{2}, &value)
	if err != nil {
		t.Fatalf("QueryOne: %v", err)
	}
	if !found {
		t.Fatal("expected a row")
	}
	if value != "b" {
		t.Errorf("value = %q, want %q", value, "b")
	}
}

func TestQueryOne_NoRows(t *testing.T) {
	db := setupTestDB(t)

	var value string
	found, err := QueryOne(context.Background(), db, `SELECT value FROM test_table WHERE id = ?`, []any{99}, &value)
	if err != nil {
		t.Fatalf("QueryOne: %v", err)
	}
	if found {
		t.Error("expected no row")
	}
}

func TestQueryOne_BadQuery(t *testing.T) {
	db := setupTestDB(t)

	var value string
	_, err := QueryOne(context.Background(), db, `SELECT nope FROM missing`, nil, &value)
	if err == nil {
		t.Fatal("expected error for invalid query")
	}
}

func TestOpenReadOnly(t *testing.T) {
	tests := []struct {
		name string
		file string
	}{
		{"plain", "pokeapi.sqlite3"},
		{"hash", "a#b.db"},
		{"question mark", "what?.db"},
		{"percent", "50%.db"},
		{"percent escape", "a%23b.db"},
		{"space", "poke api.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testOpenReadOnly(t, filepath.Join(t.TempDir(), tt.file))
		})
	}
}

func testOpenReadOnly(t *testing.T, path string) {
	t.Helper()
	seed := filepath.Join(filepath.Dir(path), "seed.sqlite3")
	rw, err := sql.Open("sqlite", seed)
	if err != nil {
		t.Fatalf("open rw: %v", err)
	}
	if _, err := rw.Exec(`CREATE TABLE t (v TEXT); INSERT INTO t VALUES ('x')`); err != nil {
		t.Fatalf("seed: %v", err)
	}
	rw.Close()
	if err := os.Rename(seed, path); err != nil {
		t.Fatalf("rename: %v", err)
	}

	ro, err := OpenReadOnly(path)
	if err != nil {
		t.Fatalf("OpenReadOnly: %v", err)
	}
	defer ro.Close()

	var v string
	if err := ro.QueryRow(`SELECT v FROM t`).Scan(&v); err != nil {
		t.Fatalf("select: %v", err)
	}
	if v != "x" {
		t.Errorf("v = %q, want x", v)
	}

	if _, err := ro.Exec(`INSERT INTO t VALUES ('y')`); err == nil {
		t.Error("write on read-only database should fail")
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if e.Name() != filepath.Base(path) {
			t.Errorf("unexpected file %q created next to the database", e.Name())
		}
	}
}

func TestReadOnlyDSN(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/data/pokeapi.sqlite3", "file:///data/pokeapi.sqlite3?mode=ro"},
		{"/data/a#b.db", "file:///data/a%23b.db?mode=ro"},
		{"/data/what?.db", "file:///data/what%3F.db?mode=ro"},
		{"/data/50%.db", "file:///data/50%25.db?mode=ro"},
	}

	for _, tt := range tests {
		if got := readOnlyDSN(tt.path); got != tt.want {
			t.Errorf("readOnlyDSN(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestOpenReadOnly_RelativePath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	testOpenReadOnly(t, "pokeapi.sqlite3")
}

func TestOpenReadOnly_Missing(t *testing.T) {
	_, err := OpenReadOnly(filepath.Join(t.TempDir(), "missing.sqlite3"))
	if err == nil {
		t.Fatal("expected error for missing database")
	}
}

func TestOpenReadOnly_EmptyPath(t *testing.T) {
	if _, err := OpenReadOnly(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestNullStringValue(t *testing.T) {
	if got := NullStringValue(sql.NullString{String: "hello", Valid: true}); got != "hello" {
		t.Errorf("result = %q, want \"hello\"", got)
	}
	if got := NullStringValue(sql.NullString{String: "hello"}); got != "" {
		t.Errorf("result = %q, want empty string", got)
	}
}
