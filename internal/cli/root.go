package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/vaigaworld/vaiga/internal/backup"
	"github.com/vaigaworld/vaiga/internal/kingdom"
	"github.com/vaigaworld/vaiga/internal/logging"
	"github.com/vaigaworld/vaiga/internal/models"
	"github.com/vaigaworld/vaiga/internal/storage"
)

// Context is handed to every command's Run.
type Context struct {
	Store   storage.Provider
	Kingdom *kingdom.Service
	Log     *logging.Logger

	// Actor is the member acting in this invocation, from the root --as
	// flag. Resolved by id or name.
	Actor string
}

// actingMember resolves the --as flag to a member. Commands that mutate
// points or file content need one.
func (ctx *Context) actingMember() (models.FamilyMember, error) {
	if !ctx.Kingdom.Founded() {
		return models.FamilyMember{}, fmt.Errorf("no household founded yet, run 'vaiga found' first")
	}
	if strings.TrimSpace(ctx.Actor) == "" {
		return models.FamilyMember{}, fmt.Errorf("no acting member: pass --as <name>")
	}
	member, ok := ctx.Kingdom.FindMember(ctx.Actor)
	if !ok {
		return models.FamilyMember{}, fmt.Errorf("unknown member %q", ctx.Actor)
	}
	return member, nil
}

// PerformAutomaticBackup backs up the snapshot on TUI startup. Failures
// are warnings only.
func (ctx *Context) PerformAutomaticBackup() {
	if _, err := os.Stat(ctx.Store.Path()); os.IsNotExist(err) {
		return
	}
	mgr := backup.NewManager(ctx.Store.Path())
	if _, err := mgr.Create(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: automatic backup failed: %v\n", err)
	}
}

func parseCategory(s string) (models.ChoreCategory, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CLEANING":
		return models.CategoryCleaning, nil
	case "COOKING":
		return models.CategoryCooking, nil
	case "HOMEWORK":
		return models.CategoryHomework, nil
	case "BAKING":
		return models.CategoryBaking, nil
	case "TEACHING":
		return models.CategoryTeaching, nil
	case "OTHER", "":
		return models.CategoryOther, nil
	}
	return "", fmt.Errorf("invalid category: %s", s)
}

func parseSeverity(s string) (models.Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MILD", "":
		return models.SeverityMild, nil
	case "MODERATE":
		return models.SeverityModerate, nil
	case "SEVERE":
		return models.SeveritySevere, nil
	}
	return "", fmt.Errorf("invalid severity: %s", s)
}

func statusMark(status models.ChoreStatus) string {
	if status == models.ChoreStatusDone {
		return "✓"
	}
	return " "
}
