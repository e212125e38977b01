// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

// Package database wraps DuckDB for reading case series and storing
// estimation results.
//
// A DB is opened on a file path (or ":memory:") and owns a single
// database/sql pool. The rtcast schema is created on demand by
// EnsureSchema; reading series never requires it.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/rtcast/internal/logging"
)

// MemoryPath opens an in-memory database.
const MemoryPath = ":memory:"

// Options tune the DuckDB connection.
type Options struct {
	// Threads used by DuckDB. <= 0 means runtime.NumCPU().
	Threads int
	// MaxMemory is a DuckDB memory limit such as "1GB". Empty keeps the default.
	MaxMemory string
	// ReadOnly opens an existing file without write access.
	ReadOnly bool
}

// DB wraps a DuckDB connection pool.
type DB struct {
	conn     *sql.DB
	path     string
	readOnly bool
}

// Open opens the DuckDB database at path, creating the parent directory
// for file databases.
func Open(path string, opts Options) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is empty")
	}

	if path != MemoryPath && !opts.ReadOnly {
		dir := filepath.Dir(path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	}

	conn, err := sql.Open("duckdb", connString(path, opts))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps in-memory databases shared across calls.
	if path == MemoryPath {
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(runtime.NumCPU())
		conn.SetMaxIdleConns(2)
		conn.SetConnMaxIdleTime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to connect to database %s: %w", path, err)
	}

	logging.Debug().Str("path", path).Bool("read_only", opts.ReadOnly).Msg("Opened DuckDB database")
	return &DB{conn: conn, path: path, readOnly: opts.ReadOnly}, nil
}

func connString(path string, opts Options) string {
	threads := opts.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	params := []string{fmt.Sprintf("threads=%d", threads)}
	if opts.ReadOnly {
		params = append(params, "access_mode=read_only")
	}
	if opts.MaxMemory != "" {
		params = append(params, "max_memory="+opts.MaxMemory)
	}
	if path == MemoryPath {
		path = ""
	}
	return path + "?" + strings.Join(params, "&")
}

// Conn returns the underlying connection pool.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Path returns the path the database was opened with.
func (db *DB) Path() string {
	return db.path
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// Close checkpoints writable file databases and closes the pool.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	if db.path != MemoryPath && !db.readOnly {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
			logging.Debug().Err(err).Msg("Checkpoint before close failed")
		}
		cancel()
	}
	return db.conn.Close()
}

// QuoteIdent quotes a SQL identifier for DuckDB.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
