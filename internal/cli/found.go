package cli

import (
	"fmt"
	"strings"

	"github.com/vaigaworld/vaiga/internal/kingdom"
)

type FoundCmd struct {
	Name    string   `arg:"" help:"Kingdom name."`
	Members []string `short:"m" help:"Member as 'Name' or 'Name:Role'. Repeatable." required:""`
	Force   bool     `help:"Overwrite an already-founded household."`
}

func (c *FoundCmd) Run(ctx *Context) error {
	var drafts []kingdom.MemberDraft
	for _, raw := range c.Members {
		name, role, _ := strings.Cut(raw, ":")
		drafts = append(drafts, kingdom.MemberDraft{Name: name, Role: role})
	}

	if err := ctx.Kingdom.FoundHousehold(c.Name, drafts, c.Force); err != nil {
		return err
	}

	members := ctx.Kingdom.Members()
	fmt.Printf("Founded %s with %d members:\n", c.Name, len(members))
	for _, m := range members {
		fmt.Printf("  %s (%s)\n", m.Name, m.Role)
	}
	return nil
}
