package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/vaigaworld/vaiga/internal/backup"
	"github.com/vaigaworld/vaiga/internal/storage"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false

	// Check 1: storage reachable
	if err := checkStorageReachable(ctx); err != nil {
		fmt.Printf("❌ Storage reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Storage reachable: OK\n")
	}

	// Check 2: single writer (warning only; the snapshot has no locking)
	if err := checkSingleProcess(); err != nil {
		fmt.Printf("⚠ Single vaiga process: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Single vaiga process: OK\n")
	}

	// Check 3: backups present (warning only)
	if err := checkBackupsPresent(ctx); err != nil {
		fmt.Printf("⚠ Backups present: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Backups present: OK\n")
	}

	// Check 4: reference integrity
	if err := checkReferences(ctx); err != nil {
		fmt.Printf("❌ Reference integrity: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Reference integrity: OK\n")
	}

	// Check 5: oracle credential
	if os.Getenv("GEMINI_API_KEY") == "" {
		fmt.Printf("⚠ Oracle credential: WARNING\n")
		fmt.Printf("   GEMINI_API_KEY not set; reports will use the fallback\n")
	} else {
		fmt.Printf("✓ Oracle credential: OK\n")
	}

	// Check 6: clock sanity
	if err := checkClock(); err != nil {
		fmt.Printf("❌ Clock: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStorageReachable(ctx *Context) error {
	if _, err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	if sqliteStore, ok := ctx.Store.(*storage.SQLiteStore); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}

	return nil
}

// checkSingleProcess looks for other running vaiga processes. The snapshot
// file has exactly one writer per session; a second process risks lost
// writes.
func checkSingleProcess() error {
	procs, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("failed to list processes: %w", err)
	}

	self := filepath.Base(os.Args[0])
	others := 0
	for _, p := range procs {
		if p.Pid() == os.Getpid() {
			continue
		}
		if strings.EqualFold(p.Executable(), self) {
			others++
		}
	}

	if others > 0 {
		return fmt.Errorf("found %d other running %s process(es); concurrent writers are not supported", others, self)
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	mgr := backup.NewManager(ctx.Store.Path())
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'vaiga backup create'")
	}

	return nil
}

// checkReferences verifies every foreign key names an existing member or
// is empty. The model never deletes members, so a dangling reference means
// the snapshot was edited by hand.
func checkReferences(ctx *Context) error {
	snap := ctx.Kingdom.Snapshot()

	known := make(map[string]bool, len(snap.Members))
	for _, m := range snap.Members {
		if known[m.ID] {
			return fmt.Errorf("duplicate member ID found: %s", m.ID)
		}
		known[m.ID] = true
	}

	check := func(id, what string) error {
		if id != "" && !known[id] {
			return fmt.Errorf("%s references unknown member %s", what, id)
		}
		return nil
	}

	for _, c := range snap.Chores {
		if err := check(c.AssignedToID, "chore "+c.ID); err != nil {
			return err
		}
		if err := check(c.CompletedByID, "chore "+c.ID); err != nil {
			return err
		}
	}
	for _, g := range snap.Grievances {
		if err := check(g.FromID, "grievance "+g.ID); err != nil {
			return err
		}
		if err := check(g.AgainstID, "grievance "+g.ID); err != nil {
			return err
		}
		for _, comment := range g.Comments {
			if err := check(comment.FromID, "comment "+comment.ID); err != nil {
				return err
			}
		}
	}

	return nil
}

func checkClock() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
