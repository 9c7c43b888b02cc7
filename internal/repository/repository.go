// Package repository holds the persistence contracts shared by the storage backends.
package repository

import (
	"context"

	"github.com/mamadbah2/ecotrack/internal/domain/models"
)

// DefaultKey is the storage key the whole database is persisted under.
const DefaultKey = "ecoTrackDB"

// Store persists the whole Database as a single blob under one key.
//
// Load returns an empty Database when nothing was saved yet or the saved
// content cannot be parsed; only failures of the backing store are errors.
// Save overwrites the blob; the last writer wins.
type Store interface {
	Load(ctx context.Context) (models.Database, error)
	Save(ctx context.Context, db models.Database) error
}
