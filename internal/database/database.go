package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Open returns a connection to the sqlite file under dir.
//
// When readwrite is set the directory is created if needed and the
// database is opened in wal mode.
func Open(ctx context.Context, dir string, readwrite bool) (*sql.DB, error) {
	file := filepath.Join(dir, "turnstile.db")
	if readwrite {
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			return nil, fmt.Errorf("unable to create directory %v to store the database, cause %w", dir, err)
		}
	}
	var connstr string
	if readwrite {
		connstr = fmt.Sprintf("file:%v?_writable_schema=false&_journal=wal&_busy_timeout=5000&mode=rwc", file)
	} else {
		connstr = fmt.Sprintf("file:%v?_writable_schema=false&mode=ro", file)
	}
	conn, err := sql.Open("sqlite3", connstr)
	if err != nil {
		return nil, fmt.Errorf("unable to open %v, cause %w", file, err)
	}
	err = conn.PingContext(ctx)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to ping database %v, cause %w", file, err)
	}
	return conn, nil
}

// Exec runs each statement in order, stopping at the first error.
func Exec(ctx context.Context, db *sql.DB, stmts ...string) error {
	for _, cmd := range stmts {
		_, err := db.ExecContext(ctx, cmd)
		if err != nil {
			return err
		}
	}
	return nil
}
