package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/funvibe/funherit/internal/registry"
)

// SQLStore persists finalized registries across separate compilation
// sessions in a single SQLite database. The finalize-once contract maps
// onto the primary key: a second insert for the same unit identity is
// rejected, never overwritten.
type SQLStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS registries (
	unit_id TEXT PRIMARY KEY,
	payload BLOB NOT NULL
);`

// OpenSQL opens (creating if needed) the registry database at path.
// Use ":memory:" for an in-process throwaway database.
func OpenSQL(path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) Get(unitID string) (*registry.Registry, bool, error) {
	var payload []byte
	err := s.db.QueryRow(`SELECT payload FROM registries WHERE unit_id = ?`, unitID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store: get %s: %w", unitID, err)
	}
	reg, err := DecodeRegistry(payload)
	if err != nil {
		return nil, false, err
	}
	return reg, true, nil
}

func (s *SQLStore) Finalize(unitID string, reg *registry.Registry) error {
	blob, err := EncodeRegistry(reg)
	if err != nil {
		return err
	}
	res, err := s.db.Exec(
		`INSERT INTO registries (unit_id, payload) VALUES (?, ?) ON CONFLICT (unit_id) DO NOTHING`,
		unitID, blob,
	)
	if err != nil {
		return fmt.Errorf("store: finalize %s: %w", unitID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: finalize %s: %w", unitID, err)
	}
	if n == 0 {
		return ErrAlreadyFinalized
	}
	return nil
}

// Registry adapts the store to the evaluator's Source interface. Decode
// failures surface as a missing unit; the compile driver reports the real
// error on its own path.
func (s *SQLStore) Registry(id string) (*registry.Registry, bool) {
	reg, ok, err := s.Get(id)
	if err != nil {
		return nil, false
	}
	return reg, ok
}
