package cli

import (
	"fmt"

	"github.com/vaigaworld/vaiga/internal/kingdom"
)

type GrievanceFileCmd struct {
	Title    string `arg:"" help:"Incident title."`
	Content  string `short:"c" help:"Describe the situation."`
	Severity string `short:"s" help:"Severity (mild|moderate|severe)." default:"mild"`
	Against  string `short:"a" help:"Member the concern is about (omit for a general family issue)."`
}

func (c *GrievanceFileCmd) Run(ctx *Context) error {
	actor, err := ctx.actingMember()
	if err != nil {
		return err
	}

	severity, err := parseSeverity(c.Severity)
	if err != nil {
		return err
	}

	var againstID string
	if c.Against != "" {
		against, ok := ctx.Kingdom.FindMember(c.Against)
		if !ok {
			return fmt.Errorf("unknown member %q", c.Against)
		}
		againstID = against.ID
	}

	grievance, ok := ctx.Kingdom.FileGrievance(kingdom.GrievanceDraft{
		Title:     c.Title,
		Content:   c.Content,
		Severity:  severity,
		AgainstID: againstID,
	}, actor.ID)
	if !ok {
		return nil
	}

	fmt.Printf("Concern filed: %s [%s] (ID: %s)\n", grievance.Title, grievance.Severity, grievance.ID)
	return nil
}

type GrievanceListCmd struct{}

func (c *GrievanceListCmd) Run(ctx *Context) error {
	snap := ctx.Kingdom.Snapshot()
	if len(snap.Grievances) == 0 {
		fmt.Println("No grievances reported! The kingdom is in a state of pure harmony.")
		return nil
	}

	for _, g := range snap.Grievances {
		state := "open"
		if g.IsResolved {
			state = "resolved"
		}
		regarding := ""
		if g.AgainstID != "" {
			regarding = " regarding " + snap.MemberName(g.AgainstID, "unknown")
		}
		fmt.Printf("[%s] %s — from %s%s [%s] (ID: %s)\n",
			state, g.Title, snap.MemberName(g.FromID, "unknown"), regarding, g.Severity, g.ID)
		if g.Content != "" {
			fmt.Printf("    %q\n", g.Content)
		}
		for _, comment := range g.Comments {
			fmt.Printf("    ↳ %s: %s\n", snap.MemberName(comment.FromID, "unknown"), comment.Content)
		}
	}
	return nil
}

type GrievanceCommentCmd struct {
	Grievance string `arg:"" help:"Grievance ID."`
	Text      string `arg:"" help:"Question or detail to add."`
}

func (c *GrievanceCommentCmd) Run(ctx *Context) error {
	actor, err := ctx.actingMember()
	if err != nil {
		return err
	}

	before := commentCount(ctx, c.Grievance)
	ctx.Kingdom.AddGrievanceComment(c.Grievance, c.Text, actor.ID)
	after := commentCount(ctx, c.Grievance)

	if after == before {
		fmt.Println("Nothing added: grievance is unknown or already resolved.")
		return nil
	}
	fmt.Println("Comment added to the investigation.")
	return nil
}

func commentCount(ctx *Context, grievanceID string) int {
	for _, g := range ctx.Kingdom.Grievances() {
		if g.ID == grievanceID {
			return len(g.Comments)
		}
	}
	return -1
}

type GrievanceResolveCmd struct {
	Grievance string `arg:"" help:"Grievance ID."`
}

func (c *GrievanceResolveCmd) Run(ctx *Context) error {
	ctx.Kingdom.ResolveGrievance(c.Grievance)
	fmt.Println("Case resolved.")
	return nil
}
