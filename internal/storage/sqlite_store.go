package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vaigaworld/vaiga/internal/logging"
	"github.com/vaigaworld/vaiga/internal/models"
)

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS kingdom (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS members (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	avatar TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL DEFAULT '',
	points INTEGER NOT NULL DEFAULT 0,
	sort_order INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS chores (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	points INTEGER NOT NULL DEFAULT 0,
	assigned_to_id TEXT NOT NULL DEFAULT '',
	completed_by_id TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	category TEXT NOT NULL,
	sort_order INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS grievances (
	id TEXT PRIMARY KEY,
	from_id TEXT NOT NULL,
	against_id TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL,
	content TEXT NOT NULL DEFAULT '',
	severity TEXT NOT NULL,
	filed_at TEXT NOT NULL,
	resolved INTEGER NOT NULL DEFAULT 0,
	sort_order INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS grievance_comments (
	id TEXT PRIMARY KEY,
	grievance_id TEXT NOT NULL REFERENCES grievances(id) ON DELETE CASCADE,
	from_id TEXT NOT NULL,
	content TEXT NOT NULL,
	posted_at TEXT NOT NULL,
	sort_order INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS travel_targets (
	id TEXT PRIMARY KEY,
	location TEXT NOT NULL,
	status TEXT NOT NULL,
	sort_order INTEGER NOT NULL DEFAULT 0
);
`

// SQLiteStore keeps the snapshot in a sqlite database. It implements the
// same full-overwrite contract as the JSON store: Save replaces every row
// inside one transaction.
type SQLiteStore struct {
	path string
	log  *logging.Logger
	db   *sql.DB
}

func NewSQLiteStore(path string, log *logging.Logger) *SQLiteStore {
	return &SQLiteStore{
		path: path,
		log:  log,
	}
}

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	if err := s.open(); err != nil {
		return err
	}

	return s.Save(models.SeedSnapshot())
}

func (s *SQLiteStore) open() error {
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		db.Close()
		return fmt.Errorf("failed to set schema version: %w", err)
	}

	s.db = db
	return nil
}

// Load reads the full snapshot. A missing database file degrades to the
// seed snapshot, same as the JSON store.
func (s *SQLiteStore) Load() (models.Snapshot, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return models.SeedSnapshot(), nil
	}

	if err := s.open(); err != nil {
		s.log.Printf("storage: open %s: %v", s.path, err)
		return models.SeedSnapshot(), nil
	}

	snap, err := s.readSnapshot()
	if err != nil {
		s.log.Printf("storage: load %s: %v", s.path, err)
		return models.SeedSnapshot(), nil
	}
	return snap, nil
}

func (s *SQLiteStore) readSnapshot() (models.Snapshot, error) {
	var snap models.Snapshot

	err := s.db.QueryRow("SELECT name FROM kingdom WHERE id = 1").Scan(&snap.KingdomName)
	if err != nil && err != sql.ErrNoRows {
		return snap, fmt.Errorf("reading kingdom: %w", err)
	}

	rows, err := s.db.Query("SELECT id, name, avatar, role, points FROM members ORDER BY sort_order")
	if err != nil {
		return snap, fmt.Errorf("reading members: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m models.FamilyMember
		if err := rows.Scan(&m.ID, &m.Name, &m.Avatar, &m.Role, &m.Points); err != nil {
			return snap, fmt.Errorf("scanning member: %w", err)
		}
		snap.Members = append(snap.Members, m)
	}
	if err := rows.Err(); err != nil {
		return snap, err
	}

	chores, err := s.readChores()
	if err != nil {
		return snap, err
	}
	snap.Chores = chores

	grievances, err := s.readGrievances()
	if err != nil {
		return snap, err
	}
	snap.Grievances = grievances

	targets, err := s.readTravelTargets()
	if err != nil {
		return snap, err
	}
	snap.TravelTargets = targets

	return snap, nil
}

func (s *SQLiteStore) readChores() ([]models.Chore, error) {
	rows, err := s.db.Query("SELECT id, title, description, points, assigned_to_id, completed_by_id, status, category FROM chores ORDER BY sort_order")
	if err != nil {
		return nil, fmt.Errorf("reading chores: %w", err)
	}
	defer rows.Close()

	var chores []models.Chore
	for rows.Next() {
		var c models.Chore
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Points, &c.AssignedToID, &c.CompletedByID, &c.Status, &c.Category); err != nil {
			return nil, fmt.Errorf("scanning chore: %w", err)
		}
		chores = append(chores, c)
	}
	return chores, rows.Err()
}

func (s *SQLiteStore) readGrievances() ([]models.Grievance, error) {
	rows, err := s.db.Query("SELECT id, from_id, against_id, title, content, severity, filed_at, resolved FROM grievances ORDER BY sort_order")
	if err != nil {
		return nil, fmt.Errorf("reading grievances: %w", err)
	}
	defer rows.Close()

	var grievances []models.Grievance
	for rows.Next() {
		var g models.Grievance
		var filedAt string
		var resolved int
		if err := rows.Scan(&g.ID, &g.FromID, &g.AgainstID, &g.Title, &g.Content, &g.Severity, &filedAt, &resolved); err != nil {
			return nil, fmt.Errorf("scanning grievance: %w", err)
		}
		g.Timestamp, _ = time.Parse(time.RFC3339Nano, filedAt)
		g.IsResolved = resolved != 0
		g.Comments = []models.GrievanceComment{}
		grievances = append(grievances, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	index := make(map[string]int, len(grievances))
	for i, g := range grievances {
		index[g.ID] = i
	}

	crows, err := s.db.Query("SELECT id, grievance_id, from_id, content, posted_at FROM grievance_comments ORDER BY grievance_id, sort_order")
	if err != nil {
		return nil, fmt.Errorf("reading comments: %w", err)
	}
	defer crows.Close()
	for crows.Next() {
		var c models.GrievanceComment
		var grievanceID, postedAt string
		if err := crows.Scan(&c.ID, &grievanceID, &c.FromID, &c.Content, &postedAt); err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		c.Timestamp, _ = time.Parse(time.RFC3339Nano, postedAt)
		if i, ok := index[grievanceID]; ok {
			grievances[i].Comments = append(grievances[i].Comments, c)
		}
	}
	return grievances, crows.Err()
}

func (s *SQLiteStore) readTravelTargets() ([]models.TravelTarget, error) {
	rows, err := s.db.Query("SELECT id, location, status FROM travel_targets ORDER BY sort_order")
	if err != nil {
		return nil, fmt.Errorf("reading travel targets: %w", err)
	}
	defer rows.Close()

	var targets []models.TravelTarget
	for rows.Next() {
		var t models.TravelTarget
		if err := rows.Scan(&t.ID, &t.Location, &t.Status); err != nil {
			return nil, fmt.Errorf("scanning travel target: %w", err)
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}

// Save replaces the whole snapshot in one transaction.
func (s *SQLiteStore) Save(snap models.Snapshot) error {
	if err := s.open(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"grievance_comments", "grievances", "chores", "members", "travel_targets", "kingdom"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	if _, err := tx.Exec("INSERT INTO kingdom (id, name) VALUES (1, ?)", snap.KingdomName); err != nil {
		return fmt.Errorf("writing kingdom: %w", err)
	}

	for i, m := range snap.Members {
		if _, err := tx.Exec("INSERT INTO members (id, name, avatar, role, points, sort_order) VALUES (?, ?, ?, ?, ?, ?)",
			m.ID, m.Name, m.Avatar, m.Role, m.Points, i); err != nil {
			return fmt.Errorf("writing member %s: %w", m.ID, err)
		}
	}

	for i, c := range snap.Chores {
		if _, err := tx.Exec("INSERT INTO chores (id, title, description, points, assigned_to_id, completed_by_id, status, category, sort_order) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			c.ID, c.Title, c.Description, c.Points, c.AssignedToID, c.CompletedByID, string(c.Status), string(c.Category), i); err != nil {
			return fmt.Errorf("writing chore %s: %w", c.ID, err)
		}
	}

	for i, g := range snap.Grievances {
		resolved := 0
		if g.IsResolved {
			resolved = 1
		}
		if _, err := tx.Exec("INSERT INTO grievances (id, from_id, against_id, title, content, severity, filed_at, resolved, sort_order) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			g.ID, g.FromID, g.AgainstID, g.Title, g.Content, string(g.Severity), g.Timestamp.Format(time.RFC3339Nano), resolved, i); err != nil {
			return fmt.Errorf("writing grievance %s: %w", g.ID, err)
		}
		for j, c := range g.Comments {
			if _, err := tx.Exec("INSERT INTO grievance_comments (id, grievance_id, from_id, content, posted_at, sort_order) VALUES (?, ?, ?, ?, ?, ?)",
				c.ID, g.ID, c.FromID, c.Content, c.Timestamp.Format(time.RFC3339Nano), j); err != nil {
				return fmt.Errorf("writing comment %s: %w", c.ID, err)
			}
		}
	}

	for i, t := range snap.TravelTargets {
		if _, err := tx.Exec("INSERT INTO travel_targets (id, location, status, sort_order) VALUES (?, ?, ?, ?)",
			t.ID, t.Location, string(t.Status), i); err != nil {
			return fmt.Errorf("writing travel target %s: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) Path() string {
	return s.path
}

// GetDB exposes the underlying handle for diagnostics.
func (s *SQLiteStore) GetDB() *sql.DB {
	return s.db
}
