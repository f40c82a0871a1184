package cli

import (
	"fmt"

	"github.com/vaigaworld/vaiga/internal/kingdom"
	"github.com/vaigaworld/vaiga/internal/models"
)

type QuestAddCmd struct {
	Title       string `arg:"" help:"Quest title."`
	Description string `short:"d" help:"What the quest involves."`
	Points      int    `short:"p" help:"Star Gold awarded on completion." default:"50"`
	Category    string `short:"c" help:"Category (cleaning|cooking|homework|baking|teaching|other)." default:"other"`
	AssignTo    string `short:"a" help:"Member to assign the quest to."`
}

func (c *QuestAddCmd) Validate() error {
	if c.Points <= 0 {
		return fmt.Errorf("points must be a positive number")
	}
	_, err := parseCategory(c.Category)
	return err
}

func (c *QuestAddCmd) Run(ctx *Context) error {
	actor, err := ctx.actingMember()
	if err != nil {
		return err
	}

	category, err := parseCategory(c.Category)
	if err != nil {
		return err
	}

	var assignedID string
	if c.AssignTo != "" {
		assignee, ok := ctx.Kingdom.FindMember(c.AssignTo)
		if !ok {
			return fmt.Errorf("unknown member %q", c.AssignTo)
		}
		assignedID = assignee.ID
	}

	chore, ok := ctx.Kingdom.CreateQuest(kingdom.QuestDraft{
		Title:        c.Title,
		Description:  c.Description,
		Points:       c.Points,
		Category:     category,
		AssignedToID: assignedID,
	}, actor.ID)
	if !ok {
		// Empty title is a silent no-op at the service boundary; kong's
		// arg parsing already guarantees a title here.
		return nil
	}

	fmt.Printf("Posted quest: %s (%d pts, ID: %s)\n", chore.Title, chore.Points, chore.ID)
	return nil
}

type QuestListCmd struct{}

func (c *QuestListCmd) Run(ctx *Context) error {
	snap := ctx.Kingdom.Snapshot()
	if len(snap.Chores) == 0 {
		fmt.Println("No quests posted.")
		return nil
	}

	for _, chore := range snap.Chores {
		assignee := snap.MemberName(chore.AssignedToID, "unclaimed")
		fmt.Printf("[%s] %-30s %4d pts  %-10s %s  (ID: %s)\n",
			statusMark(chore.Status), chore.Title, chore.Points, chore.Category, assignee, chore.ID)
	}
	return nil
}

type QuestToggleCmd struct {
	Quest string `arg:"" help:"Quest ID or title."`
}

func (c *QuestToggleCmd) Run(ctx *Context) error {
	actor, err := ctx.actingMember()
	if err != nil {
		return err
	}

	chore, ok := findChore(ctx.Kingdom.Chores(), c.Quest)
	if !ok {
		return fmt.Errorf("unknown quest %q", c.Quest)
	}

	ctx.Kingdom.ToggleChore(chore.ID, actor.ID)

	updated, _ := findChore(ctx.Kingdom.Chores(), chore.ID)
	member, _ := ctx.Kingdom.FindMember(actor.ID)
	if updated.Status == models.ChoreStatusDone {
		fmt.Printf("Quest complete: %s (+%d pts). %s now has %d Star Gold.\n",
			updated.Title, updated.Points, member.Name, member.Points)
	} else {
		fmt.Printf("Quest reopened: %s.\n", updated.Title)
	}
	return nil
}

func findChore(chores []models.Chore, key string) (models.Chore, bool) {
	for _, c := range chores {
		if c.ID == key {
			return c, true
		}
	}
	for _, c := range chores {
		if c.Title == key {
			return c, true
		}
	}
	return models.Chore{}, false
}
