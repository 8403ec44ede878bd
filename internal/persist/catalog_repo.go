package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/skelrealm/server/internal/data"
)

// Catalog queries shared by the PostgreSQL and SQLite sources. Bodies are
// JSON documents validated by data.Decoder.
const (
	selectMonsters = `SELECT id, body FROM monster_archetypes WHERE enabled ORDER BY id`
	selectItems    = `SELECT id, body FROM item_defs ORDER BY sort_order, id`
	selectConfig   = `SELECT body FROM server_config WHERE id = 'default'`
)

// CatalogRepo reads the static catalog from PostgreSQL. Read-only.
type CatalogRepo struct {
	db      *DB
	decoder *data.Decoder
}

func NewCatalogRepo(db *DB, dec *data.Decoder) *CatalogRepo {
	return &CatalogRepo{db: db, decoder: dec}
}

func (r *CatalogRepo) Name() string { return "postgres" }

// Load implements data.Source.
func (r *CatalogRepo) Load(ctx context.Context) (*data.Document, error) {
	doc := &data.Document{}

	if err := r.scanBodies(ctx, selectMonsters, func(id string, body []byte) {
		r.decoder.AddMonster(doc, id, body)
	}); err != nil {
		return nil, fmt.Errorf("load monsters: %w", err)
	}
	if err := r.scanBodies(ctx, selectItems, func(id string, body []byte) {
		r.decoder.AddItem(doc, id, body)
	}); err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	var body string
	err := r.db.Pool.QueryRow(ctx, selectConfig).Scan(&body)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("load server config: %w", err)
	default:
		r.decoder.SetConfig(doc, []byte(body))
	}
	return doc, nil
}

func (r *CatalogRepo) scanBodies(ctx context.Context, query string, fn func(id string, body []byte)) error {
	rows, err := r.db.Pool.Query(ctx, query)
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
