package pgkv

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/elimuhub/elimu/core"
)

// schema is bootstrapped on open; the store contract has no evolving
// relational schema so there is no migration tooling.
const schema = `
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    doc JSONB NOT NULL
);`

// Store is the Postgres-backed KV store: one table mapping key to JSON
// document, prefix scan as a LIKE query over the primary key.
type Store struct {
	db *sqlx.DB
}

var _ core.KV = (*Store)(nil)

func Open(url string) (*Store, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to postgres")
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "bootstrapping kv table")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var doc []byte
	err := s.db.GetContext(ctx, &doc, `SELECT doc FROM kv WHERE key = $1`, key)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.ErrKeyNotFound
		}
		return nil, errors.Wrap(err, "selecting doc")
	}
	return doc, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, doc) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET doc = EXCLUDED.doc`,
		key, value,
	)
	return errors.Wrap(err, "upserting doc")
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = $1`, key)
	return errors.Wrap(err, "deleting doc")
}

func (s *Store) ScanPrefix(ctx context.Context, prefix string) ([][]byte, error) {
	// scan prefixes never contain LIKE metacharacters ("%", "_");
	// namespaces are IDs and fixed prefixes only
	var docs [][]byte
	err := s.db.SelectContext(ctx, &docs, `SELECT doc FROM kv WHERE key LIKE $1 || '%'`, prefix)
	if err != nil {
		return nil, errors.Wrap(err, "scanning docs")
	}
	return docs, nil
}
