package storage

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vaigaworld/vaiga/internal/models"
)

func TestSQLiteStore_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vaiga.db")
	store := NewSQLiteStore(path, nil)
	defer store.Close()

	want := sampleSnapshot()
	if err := store.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\ngot:  %+v\nwant: %+v", got, want)
	}
}

func TestSQLiteStore_SaveReplacesPreviousSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vaiga.db")
	store := NewSQLiteStore(path, nil)
	defer store.Close()

	if err := store.Save(sampleSnapshot()); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}

	replacement := sampleSnapshot()
	replacement.Members = replacement.Members[:1]
	replacement.Chores = nil
	replacement.Grievances = nil
	if err := store.Save(replacement); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got.Members) != 1 {
		t.Errorf("expected 1 member after replacement, got %d", len(got.Members))
	}
	if len(got.Chores) != 0 || len(got.Grievances) != 0 {
		t.Errorf("expected cleared boards, got %d chores and %d grievances",
			len(got.Chores), len(got.Grievances))
	}
}

func TestSQLiteStore_PreservesOrdering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vaiga.db")
	store := NewSQLiteStore(path, nil)
	defer store.Close()

	want := sampleSnapshot()
	if err := store.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Chores are stored most-recent-first; sqlite must give them back in
	// the same order, not primary-key order.
	if got.Chores[0].ID != "c2" || got.Chores[1].ID != "c1" {
		t.Errorf("chore order lost: got %s, %s", got.Chores[0].ID, got.Chores[1].ID)
	}
	comments := got.Grievances[0].Comments
	if comments[0].ID != "gc1" || comments[1].ID != "gc2" {
		t.Errorf("comment order lost: got %s, %s", comments[0].ID, comments[1].ID)
	}
}

func TestSQLiteStore_MissingFileDegradesToSeed(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "absent.db"), nil)
	defer store.Close()

	snap, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if snap.KingdomName != "" || len(snap.Members) != 0 {
		t.Error("expected unfounded seed snapshot")
	}
	if len(snap.Chores) != len(models.SeedChores()) {
		t.Errorf("expected seed chores, got %d", len(snap.Chores))
	}
}

func TestSQLiteStore_InitRefusesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vaiga.db")
	store := NewSQLiteStore(path, nil)
	defer store.Close()

	if err := store.Init(); err != nil {
		t.Fatalf("first Init failed: %v", err)
	}
	if err := store.Init(); err == nil {
		t.Error("expected second Init to refuse existing storage")
	}
}
