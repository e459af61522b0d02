package tabledb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/aeroindex/aeroindex/internal/tables"
	"github.com/aeroindex/aeroindex/schema"
)

// Import replaces the stored tables with the contents of s in one transaction
// and records the import. It returns the id of the import record.
func (d *DB) Import(ctx context.Context, s *tables.Store, source string) (int64, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{labelScoresTable, adjustmentsTable} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			return 0, fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	insertLabel := rebind(d.backend, fmt.Sprintf(
		"INSERT INTO %s (category, category_pos, label, label_pos, score) VALUES (?, ?, ?, ?, ?)", labelScoresTable))
	categories := s.Categories()
	for ci, c := range categories {
		for oi, o := range c.Options {
			if _, err := tx.ExecContext(ctx, insertLabel, c.Name, ci, o.Label, oi, o.Score); err != nil {
				return 0, fmt.Errorf("failed to insert option %q of %q: %w", o.Label, c.Name, err)
			}
		}
	}

	insertAdj := rebind(d.backend, fmt.Sprintf(
		"INSERT INTO %s (discipline, service_group, category, label_score, adj_value, percentage) VALUES (?, ?, ?, ?, ?, ?)", adjustmentsTable))
	rules := 0
	for _, disc := range schema.AllDisciplines {
		table := s.Table(disc)
		groups := make([]string, 0, len(table))
		for g := range table {
			groups = append(groups, string(g))
		}
		sort.Strings(groups)
		for _, g := range groups {
			for cat, byScore := range table[schema.ServiceGroup(g)] {
				for score, adj := range byScore {
					if _, err := tx.ExecContext(ctx, insertAdj, string(disc), g, cat, score, adj.Value, adj.Percentage); err != nil {
						return 0, fmt.Errorf("failed to insert %s rule for %q: %w", g, cat, err)
					}
					rules++
				}
			}
		}
	}

	var lastID sql.NullInt64
	if err := tx.QueryRowContext(ctx, fmt.Sprintf("SELECT MAX(import_id) FROM %s", importsTable)).Scan(&lastID); err != nil {
		return 0, fmt.Errorf("failed to read last import: %w", err)
	}
	importID := lastID.Int64 + 1
	insertImport := rebind(d.backend, fmt.Sprintf(
		"INSERT INTO %s (import_id, imported_at, source, categories, adjustments) VALUES (?, ?, ?, ?, ?)", importsTable))
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := tx.ExecContext(ctx, insertImport, importID, now, source, len(categories), rules); err != nil {
		return 0, fmt.Errorf("failed to record import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}
	return importID, nil
}

// Load rebuilds an in-memory Store from the stored tables.
// An empty database yields a *tables.ConfigurationError.
func (d *DB) Load(ctx context.Context) (*tables.Store, error) {
	source := fmt.Sprintf("%s table database", d.backend)

	rows, err := d.db.QueryContext(ctx, fmt.Sprintf(
		"SELECT category, label, score FROM %s ORDER BY category_pos, label_pos", labelScoresTable))
	if err != nil {
		return nil, &tables.ConfigurationError{Source: source, Err: err}
	}
	var categories []schema.Category
	for rows.Next() {
		var category, label string
		var score int
		if err := rows.Scan(&category, &label, &score); err != nil {
			_ = rows.Close()
			return nil, &tables.ConfigurationError{Source: source, Err: err}
		}
		if n := len(categories); n == 0 || categories[n-1].Name != category {
			categories = append(categories, schema.Category{Name: category})
		}
		last := &categories[len(categories)-1]
		last.Options = append(last.Options, schema.Option{Label: label, Score: score})
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, &tables.ConfigurationError{Source: source, Err: err}
	}
	_ = rows.Close()
	if len(categories) == 0 {
		return nil, &tables.ConfigurationError{Source: source, Err: errors.New("no label scores imported")}
	}

	rows, err = d.db.QueryContext(ctx, fmt.Sprintf(
		"SELECT discipline, service_group, category, label_score, adj_value, percentage FROM %s", adjustmentsTable))
	if err != nil {
		return nil, &tables.ConfigurationError{Source: source, Err: err}
	}
	defer func() { _ = rows.Close() }()

	adjustments := map[schema.Discipline]schema.AdjustmentTable{
		schema.IFR: {},
		schema.VFR: {},
	}
	for rows.Next() {
		var disc, group, category string
		var score int
		var adj schema.Adjustment
		if err := rows.Scan(&disc, &group, &category, &score, &adj.Value, &adj.Percentage); err != nil {
			return nil, &tables.ConfigurationError{Source: source, Err: err}
		}
		table, ok := adjustments[schema.Discipline(disc)]
		if !ok {
			return nil, &tables.ConfigurationError{Source: source, Err: fmt.Errorf("unknown discipline %q", disc)}
		}
		g := schema.ServiceGroup(group)
		if table[g] == nil {
			table[g] = map[string]map[int]schema.Adjustment{}
		}
		if table[g][category] == nil {
			table[g][category] = map[int]schema.Adjustment{}
		}
		table[g][category][score] = adj
	}
	if err := rows.Err(); err != nil {
		return nil, &tables.ConfigurationError{Source: source, Err: err}
	}

	return tables.New(categories, adjustments[schema.IFR], adjustments[schema.VFR]), nil
}

// Status reports what the database currently holds.
func (d *DB) Status(ctx context.Context) (schema.TableStatus, error) {
	status := schema.TableStatus{Backend: d.backend, Connected: d.db != nil}
	if d.db == nil {
		return status, nil
	}

	count := func(query string, dest *int) error {
		return d.db.QueryRowContext(ctx, query).Scan(dest)
	}
	if err := count(fmt.Sprintf("SELECT COUNT(DISTINCT category) FROM %s", labelScoresTable), &status.Categories); err != nil {
		return status, fmt.Errorf("failed to count categories: %w", err)
	}
	if err := count(fmt.Sprintf("SELECT COUNT(*) FROM %s", labelScoresTable), &status.Options); err != nil {
		return status, fmt.Errorf("failed to count options: %w", err)
	}
	if err := count(fmt.Sprintf("SELECT COUNT(*) FROM %s", adjustmentsTable), &status.Adjustments); err != nil {
		return status, fmt.Errorf("failed to count adjustments: %w", err)
	}
	// COUNT(DISTINCT a, b) is not portable, so groups are counted per discipline.
	for _, disc := range schema.AllDisciplines {
		var n int
		query := rebind(d.backend, fmt.Sprintf("SELECT COUNT(DISTINCT service_group) FROM %s WHERE discipline = ?", adjustmentsTable))
		if err := d.db.QueryRowContext(ctx, query, string(disc)).Scan(&n); err != nil {
			return status, fmt.Errorf("failed to count groups: %w", err)
		}
		status.Groups += n
	}

	last, err := d.LastImport(ctx)
	if err != nil {
		return status, err
	}
	if last != nil {
		status.LastImportTime = last.ImportedAt
	}
	return status, nil
}

// LastImport returns the most recent import record, or nil when nothing was imported.
func (d *DB) LastImport(ctx context.Context) (*schema.ImportRecord, error) {
	query := fmt.Sprintf(
		"SELECT import_id, imported_at, source, categories, adjustments FROM %s ORDER BY import_id DESC LIMIT 1", importsTable)
	var rec schema.ImportRecord
	var importedAt string
	err := d.db.QueryRowContext(ctx, query).Scan(&rec.ImportID, &importedAt, &rec.Source, &rec.Categories, &rec.Adjustments)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last import: %w", err)
	}
	rec.ImportedAt, err = time.Parse(time.RFC3339Nano, importedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse import time: %w", err)
	}
	return &rec, nil
}

// Clear removes all stored tables for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the tables and the migration history.
// For NoneBackend, it does nothing.
func Clear(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		dbFilePath := resolveConn(backend, connStr)
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		db, err := openRaw(backend, connStr)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		for _, table := range []string{labelScoresTable, adjustmentsTable, importsTable, migrationsTable} {
			if _, err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
				return fmt.Errorf("failed to drop table %s: %w", table, err)
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported table backend for clearing: %s", backend)
	}
}
