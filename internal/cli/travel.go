package cli

import (
	"fmt"
	"strings"

	"github.com/vaigaworld/vaiga/internal/models"
)

type TravelListCmd struct{}

func (c *TravelListCmd) Run(ctx *Context) error {
	for _, t := range ctx.Kingdom.TravelTargets() {
		fmt.Printf("%-12s %s  (ID: %s)\n", t.Location, travelLabel(t.Status), t.ID)
	}
	return nil
}

type TravelCycleCmd struct {
	Target string `arg:"" help:"Travel target ID or location."`
}

func (c *TravelCycleCmd) Run(ctx *Context) error {
	target, ok := findTarget(ctx.Kingdom.TravelTargets(), c.Target)
	if !ok {
		return fmt.Errorf("unknown travel target %q", c.Target)
	}

	ctx.Kingdom.CycleTravelStatus(target.ID)

	updated, _ := findTarget(ctx.Kingdom.TravelTargets(), target.ID)
	fmt.Printf("%s is now: %s\n", updated.Location, travelLabel(updated.Status))
	return nil
}

func findTarget(targets []models.TravelTarget, key string) (models.TravelTarget, bool) {
	for _, t := range targets {
		if t.ID == key || strings.EqualFold(t.Location, key) {
			return t, true
		}
	}
	return models.TravelTarget{}, false
}

func travelLabel(s models.TravelStatus) string {
	switch s {
	case models.TravelPlanned:
		return "Planned"
	case models.TravelDone:
		return "Done"
	default:
		return "Not yet planned"
	}
}
