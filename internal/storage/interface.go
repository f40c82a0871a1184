package storage

import "github.com/vaigaworld/vaiga/internal/models"

// Provider is a durable home for exactly one kingdom snapshot. Load never
// fails on a missing or corrupt record: it degrades to the seed snapshot so
// the caller can route the user to the founding flow. Save overwrites the
// whole record; there are no incremental writes and no versioned history.
type Provider interface {
	// Lifecycle
	Init() error
	Load() (models.Snapshot, error)
	Close() error

	// Snapshot
	Save(models.Snapshot) error

	// Utils
	Path() string
}
