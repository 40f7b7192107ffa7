package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"testing"
)

// setupTestDB opens a shared in-memory database named after the test, so
// parallel tests stay isolated while the writer and reader connections see
// the same data. WAL does not apply to in-memory databases, so the
// journal_mode pragma is omitted.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// The test name lands in a file: URI; percent-encode it so slashes from
	// subtests cannot be read as path segments or query parameters.
	dsn := fmt.Sprintf(
		"file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=cache_size(-64000)",
		url.PathEscape(t.Name()),
	)

	open := func(role string, maxConns int) *sql.DB {
		conn, err := sql.Open("sqlite", dsn)
		if err != nil {
			t.Fatalf("open test db %s: %v", role, err)
		}
		t.Cleanup(func() { _ = conn.Close() })
		conn.SetMaxOpenConns(maxConns)
		if err := conn.PingContext(context.Background()); err != nil {
			t.Fatalf("ping test db %s: %v", role, err)
		}
		return conn
	}

	db := &DB{Writer: open("writer", 1), Reader: open("reader", 4), path: dsn}

	if err := RunMigrations(db.Writer); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}
