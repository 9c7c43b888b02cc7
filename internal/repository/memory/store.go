// Package memory provides a process-local slot, used by tests and dry runs.
package memory

import (
	"context"
	"sync"

	"github.com/mamadbah2/ecotrack/internal/domain/models"
	"github.com/mamadbah2/ecotrack/internal/repository"
)

var _ repository.Store = (*Store)(nil)

// Store keeps the serialized blob in memory so every Load decodes a fresh copy.
type Store struct {
	mu    sync.RWMutex
	blob  []byte
	saves int
}

// NewStore returns an empty slot.
func NewStore() *Store {
	return &Store{}
}

// NewStoreWithBlob returns a slot pre-filled with raw persisted content.
func NewStoreWithBlob(raw []byte) *Store {
	return &Store{blob: append([]byte(nil), raw...)}
}

func (s *Store) Load(_ context.Context) (models.Database, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.DecodeDatabase(s.blob), nil
}

func (s *Store) Save(_ context.Context, db models.Database) error {
	payload, err := models.EncodeDatabase(db)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blob = payload
	s.saves++
	return nil
}

// Saves reports how many times Save succeeded.
func (s *Store) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
