package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"fondstree/internal/graph"
	"fondstree/internal/index"
	"fondstree/internal/record"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			canonical_id TEXT,
			title TEXT,
			type TEXT,
			identifiers JSON NOT NULL,
			source_path TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS idx_records_canonical ON records(canonical_id);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// SaveRecords stores a full snapshot. Records from a previous snapshot are
// removed so the catalog always mirrors the last harvest.
func (s *SQLiteStore) SaveRecords(ctx context.Context, records []record.Record, resolver record.Resolver) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (canonical_id, title, type, identifiers, source_path)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range records {
		ids := rec.Identifiers
		if ids == nil {
			ids = []string{}
		}
		identifiers, err := json.Marshal(ids)
		if err != nil {
			return fmt.Errorf("encode identifiers: %w", err)
		}

		var canonical sql.NullString
		if id, ok := resolver.Resolve(rec); ok {
			canonical = sql.NullString{String: id, Valid: true}
		}

		if _, err := stmt.ExecContext(ctx, canonical, nullable(rec.Title), nullable(rec.Type), identifiers, rec.SourcePath); err != nil {
			return fmt.Errorf("insert record %s: %w", rec.SourcePath, err)
		}
	}

	return tx.Commit()
}

// ListRecords returns the stored records in insertion order.
func (s *SQLiteStore) ListRecords(ctx context.Context) ([]record.Record, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT title, type, identifiers, source_path FROM records ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []record.Record
	for rows.Next() {
		var rec record.Record
		var title, typ sql.NullString
		var identifiers []byte
		if err := rows.Scan(&title, &typ, &identifiers, &rec.SourcePath); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		if err := json.Unmarshal(identifiers, &rec.Identifiers); err != nil {
			return nil, fmt.Errorf("decode identifiers of %s: %w", rec.SourcePath, err)
		}
		if title.Valid {
			rec.Title = record.StringPtr(title.String)
		}
		if typ.Valid {
			rec.Type = record.StringPtr(typ.String)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) LoadSourceIndex(ctx context.Context) (*index.SourceIndex, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT canonical_id, source_path FROM records
		WHERE canonical_id IS NOT NULL AND source_path != ''
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query source paths: %w", err)
	}
	defer rows.Close()

	idx := index.NewSourceIndex()
	for rows.Next() {
		var id, path string
		if err := rows.Scan(&id, &path); err != nil {
			return nil, err
		}
		if graph.ValidateID(id) != nil {
			continue
		}
		idx.Add(id, path)
	}
	return idx, rows.Err()
}

func (s *SQLiteStore) CountRecords(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&n)
	return n, err
}

func nullable(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
