package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vaigaworld/vaiga/internal/logging"
	"github.com/vaigaworld/vaiga/internal/models"
)

// JSONStore keeps the whole snapshot as one pretty-printed JSON file.
type JSONStore struct {
	path string
	log  *logging.Logger
}

func NewJSONStore(path string, log *logging.Logger) *JSONStore {
	return &JSONStore{
		path: path,
		log:  log,
	}
}

func (s *JSONStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Check if file already exists
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	return s.write(models.SeedSnapshot())
}

// Load reads the snapshot. A missing or unparsable file is not an error:
// it is logged and the seed snapshot is returned, which routes the user to
// household founding.
func (s *JSONStore) Load() (models.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Printf("storage: read %s: %v", s.path, err)
		}
		return models.SeedSnapshot(), nil
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.log.Printf("storage: parse %s: %v", s.path, err)
		return models.SeedSnapshot(), nil
	}

	// A hand-edited file may drop the seeded boards entirely
	if snap.Chores == nil {
		snap.Chores = models.SeedChores()
	}
	if snap.TravelTargets == nil {
		snap.TravelTargets = models.SeedTravelTargets()
	}

	return snap, nil
}

func (s *JSONStore) Close() error {
	return nil
}

// Save overwrites the previous snapshot in full.
func (s *JSONStore) Save(snap models.Snapshot) error {
	return s.write(snap)
}

func (s *JSONStore) write(snap models.Snapshot) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	return nil
}

func (s *JSONStore) Path() string {
	return s.path
}
