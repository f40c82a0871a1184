package cli

import (
	"context"
	"fmt"
	"strings"
)

type ReportCmd struct{}

func (c *ReportCmd) Run(ctx *Context) error {
	if !ctx.Kingdom.Founded() {
		return fmt.Errorf("no household founded yet, run 'vaiga found' first")
	}

	fmt.Println("Consulting the Oracle of the Family Vibe...")
	rep, err := ctx.Kingdom.GenerateReportSync(context.Background())
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("%q\n", rep.Summary)
	fmt.Println(strings.Repeat("─", 60))
	fmt.Printf("Hero of the Week:  %s\n", rep.HeroOfTheWeek)
	fmt.Printf("Efficiency:        %d%%\n", rep.EfficiencyScore)
	fmt.Printf("Emotional Climate: %s\n", rep.EmotionalClimate)
	fmt.Printf("Social Insight:    %s\n", rep.SocialInsight)
	if rep.RoyalMediation != "" {
		fmt.Printf("Royal Mediation:   %s\n", rep.RoyalMediation)
	}
	fmt.Printf("Nudge:             %s\n", rep.EncouragingNudge)
	return nil
}
