package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Open creates the data directory if needed, opens the SQLite file at
// path and verifies the connection. modernc.org/sqlite is a pure Go
// driver, so the service stays CGo-free and single-binary.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	// _pragma busy_timeout keeps concurrent writers queueing instead of
	// failing with SQLITE_BUSY; WAL lets readers proceed during writes.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// SQLite allows exactly one writer at a time; a single connection
	// serializes every read-modify-write cycle at the store level.
	db.SetMaxOpenConns(1)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}
