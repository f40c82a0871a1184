package cli

import (
	"fmt"
	"strings"

	"github.com/vaigaworld/vaiga/internal/models"
)

type RewardListCmd struct{}

func (c *RewardListCmd) Run(ctx *Context) error {
	for _, r := range models.RewardCatalog() {
		fmt.Printf("%s  %-22s %5d Star Gold  %s\n", r.Icon, r.Title, r.Cost, r.Description)
	}
	return nil
}

type RewardRedeemCmd struct {
	Reward string `arg:"" help:"Reward ID or title."`
}

func (c *RewardRedeemCmd) Run(ctx *Context) error {
	actor, err := ctx.actingMember()
	if err != nil {
		return err
	}

	reward, ok := findReward(c.Reward)
	if !ok {
		return fmt.Errorf("unknown reward %q", c.Reward)
	}

	shortfall, ok := ctx.Kingdom.RedeemReward(reward, actor.ID)
	if !ok {
		fmt.Printf("Not enough gold! You need %d more Star Gold for %s.\n", shortfall, reward.Title)
		return nil
	}

	member, _ := ctx.Kingdom.FindMember(actor.ID)
	fmt.Printf("Huzzah! You redeemed: %s. %d Star Gold remaining.\n", reward.Title, member.Points)
	return nil
}

func findReward(key string) (models.Reward, bool) {
	for _, r := range models.RewardCatalog() {
		if r.ID == key || strings.EqualFold(r.Title, key) {
			return r, true
		}
	}
	return models.Reward{}, false
}
