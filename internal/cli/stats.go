package cli

import (
	"fmt"
	"sort"

	"github.com/vaigaworld/vaiga/internal/models"
)

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *Context) error {
	snap := ctx.Kingdom.Snapshot()
	if len(snap.Members) == 0 {
		fmt.Println("No household founded yet.")
		return nil
	}

	members := append([]models.FamilyMember(nil), snap.Members...)
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Points > members[j].Points
	})

	fmt.Printf("Hero Power Rankings — %s\n\n", snap.KingdomName)
	for i, m := range members {
		fmt.Printf("%2d. %-15s %-20s %5d Star Gold\n", i+1, m.Name, m.Role, m.Points)
	}

	done := 0
	for _, c := range snap.Chores {
		if c.Status == models.ChoreStatusDone {
			done++
		}
	}
	if len(snap.Chores) > 0 {
		fmt.Printf("\nQuests complete: %d/%d\n", done, len(snap.Chores))
	}
	return nil
}
