package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/vaigaworld/vaiga/internal/cli"
	"github.com/vaigaworld/vaiga/internal/kingdom"
	"github.com/vaigaworld/vaiga/internal/logging"
	"github.com/vaigaworld/vaiga/internal/report"
	"github.com/vaigaworld/vaiga/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Storage file path (.json or sqlite)." type:"path" default:"~/.config/vaiga/vaiga.json"`
	As      string `help:"Acting member, by name or id."`

	Init  cli.InitCmd  `cmd:"" help:"Initialize vaiga storage."`
	Tui   cli.TuiCmd   `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Found cli.FoundCmd `cmd:"" help:"Found the household and its roster."`
	Quest struct {
		Add    cli.QuestAddCmd    `cmd:"" help:"Post a new quest."`
		List   cli.QuestListCmd   `cmd:"" help:"List the quest board."`
		Toggle cli.QuestToggleCmd `cmd:"" help:"Complete or reopen a quest."`
	} `cmd:"" help:"Manage quests."`
	Reward struct {
		List   cli.RewardListCmd   `cmd:"" help:"List the reward vault."`
		Redeem cli.RewardRedeemCmd `cmd:"" help:"Redeem a reward."`
	} `cmd:"" help:"Browse and redeem rewards."`
	Travel struct {
		List  cli.TravelListCmd  `cmd:"" help:"List expedition targets."`
		Cycle cli.TravelCycleCmd `cmd:"" help:"Advance an expedition's planning status."`
	} `cmd:"" help:"Track expedition plans."`
	Grievance struct {
		File    cli.GrievanceFileCmd    `cmd:"" help:"File a new grievance."`
		List    cli.GrievanceListCmd    `cmd:"" help:"List the council docket."`
		Comment cli.GrievanceCommentCmd `cmd:"" help:"Comment on a grievance."`
		Resolve cli.GrievanceResolveCmd `cmd:"" help:"Resolve a grievance."`
	} `cmd:"" help:"Run the family council."`
	Report cli.ReportCmd `cmd:"" help:"Consult the oracle for a kingdom report."`
	Stats  cli.StatsCmd  `cmd:"" help:"Show the household leaderboard."`
	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a backup of the storage file."`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore storage from a backup."`
	} `cmd:"" help:"Manage storage backups."`
	Doctor cli.DoctorCmd `cmd:"" help:"Run diagnostic checks."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("vaiga"),
		kong.Description("Vaiga World household gamification dashboard"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	log, err := logging.New(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging unavailable: %v\n", err)
	}
	defer log.Close()

	// Storage backend follows the file extension.
	var store storage.Provider
	if strings.HasSuffix(CLI.Config, ".json") {
		store = storage.NewJSONStore(CLI.Config, log)
	} else {
		store = storage.NewSQLiteStore(CLI.Config, log)
	}
	defer store.Close()

	oracle := report.NewClient(os.Getenv("GEMINI_API_KEY"), log)

	svc, err := kingdom.New(store, oracle, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	appCtx := &cli.Context{
		Store:   store,
		Kingdom: svc,
		Log:     log,
		Actor:   CLI.As,
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
