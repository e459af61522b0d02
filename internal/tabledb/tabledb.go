// Package tabledb keeps the score tables in a SQL database so several processes can share them.
package tabledb

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/aeroindex/aeroindex/internal/contract"
	"github.com/aeroindex/aeroindex/schema"
	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names for score table storage.
const (
	labelScoresTable = "aeroindex_label_scores"
	adjustmentsTable = "aeroindex_adjustments"
	importsTable     = "aeroindex_imports"
	migrationsTable  = "aeroindex_schema_migrations"
)

// DB is an open table database with its schema migrated to the latest version.
type DB struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

// driverName returns the database/sql driver registered for a backend.
func driverName(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported table backend: %s", backend)
	}
}

// resolveConn fills in the default SQLite file when no connection string is given.
func resolveConn(backend schema.DatabaseBackend, connStr string) string {
	if backend == schema.SQLiteBackend && connStr == "" {
		return contract.GetTablesDBFilePath()
	}
	return connStr
}

// openRaw opens and pings a connection without touching the schema.
func openRaw(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	driver, err := driverName(backend)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, resolveConn(backend, connStr))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Check that the directory is writable."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}
	return db, nil
}

// Open connects to a table database and brings its schema up to date.
func Open(backend schema.DatabaseBackend, connStr string) (*DB, error) {
	if backend == schema.NoneBackend {
		return nil, fmt.Errorf("table database is disabled (backend %s)", backend)
	}
	if err := upgrade(backend, connStr); err != nil {
		return nil, err
	}
	db, err := openRaw(backend, connStr)
	if err != nil {
		return nil, err
	}
	return &DB{db: db, backend: backend}, nil
}

// Backend returns the backend the database was opened with.
func (d *DB) Backend() schema.DatabaseBackend {
	return d.backend
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// rebind rewrites '?' placeholders into '$n' for PostgreSQL.
func rebind(backend schema.DatabaseBackend, query string) string {
	if backend != schema.PostgreSQLBackend {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
