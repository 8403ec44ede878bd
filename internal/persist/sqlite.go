package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/skelrealm/server/internal/data"
)

// OpenSQLite opens (creating if needed) an embedded SQLite catalog database.
func OpenSQLite(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("empty sqlite path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, p := range []string{
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	} {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite pragma: %w", err)
		}
	}
	return db, nil
}

// SQLiteCatalog reads the static catalog from an embedded SQLite file.
type SQLiteCatalog struct {
	db      *sql.DB
	decoder *data.Decoder
}

func NewSQLiteCatalog(db *sql.DB, dec *data.Decoder) *SQLiteCatalog {
	return &SQLiteCatalog{db: db, decoder: dec}
}

func (s *SQLiteCatalog) Name() string { return "sqlite" }

// Load implements data.Source.
func (s *SQLiteCatalog) Load(ctx context.Context) (*data.Document, error) {
	doc := &data.Document{}

	if err := s.scanBodies(ctx, selectMonsters, func(id string, body []byte) {
		s.decoder.AddMonster(doc, id, body)
	}); err != nil {
		return nil, fmt.Errorf("load monsters: %w", err)
	}
	if err := s.scanBodies(ctx, selectItems, func(id string, body []byte) {
		s.decoder.AddItem(doc, id, body)
	}); err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	var body string
	err := s.db.QueryRowContext(ctx, selectConfig).Scan(&body)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("load server config: %w", err)
	default:
		s.decoder.SetConfig(doc, []byte(body))
	}
	return doc, nil
}

func (s *SQLiteCatalog) scanBodies(ctx context.Context, query string, fn func(id string, body []byte)) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return err
		}
		fn(id, []byte(body))
	}
	return rows.Err()
}
