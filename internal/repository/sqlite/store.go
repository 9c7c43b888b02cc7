// Package sqlite implements the local key-value slot on an embedded SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mamadbah2/ecotrack/internal/domain/models"
	"github.com/mamadbah2/ecotrack/internal/repository"
)

var _ repository.Store = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`

// Store keeps the serialized database in a single row of the kv table.
type Store struct {
	db     *sql.DB
	key    string
	logger *zap.Logger
}

// NewStore opens (and creates when missing) the SQLite file at path.
func NewStore(ctx context.Context, path, key string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if key == "" {
		key = repository.DefaultKey
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}
	// a single connection keeps ":memory:" databases coherent
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}

	logger.Debug("sqlite store ready", zap.String("path", path), zap.String("key", key))
	return &Store{db: db, key: key, logger: logger}, nil
}

// Load reads the blob stored under the configured key.
func (s *Store) Load(ctx context.Context) (models.Database, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, s.key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Database{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read key %s: %w", s.key, err)
	}

	return models.DecodeDatabase([]byte(raw)), nil
}

// Save overwrites the blob stored under the configured key.
func (s *Store) Save(ctx context.Context, db models.Database) error {
	payload, err := models.EncodeDatabase(db)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.key, string(payload))
	if err != nil {
		return fmt.Errorf("write key %s: %w", s.key, err)
	}

	s.logger.Debug("database saved", zap.Int("dates", len(db)), zap.Int("bytes", len(payload)))
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
