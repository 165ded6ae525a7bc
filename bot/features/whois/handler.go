package whois

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/Ninjaclasher/DMOJ-Bot/bot/common"
)

// handleWhois replies with an embed describing the member's linked DMOJ
// account. Defaults to the invoking user when no member is given.
func (f *Feature) handleWhois(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	target := i.Member.User
	for _, option := range i.ApplicationCommandData().Options {
		if option.Name == "member" {
			target = option.UserValue(s)
		}
	}

	discordID, err := strconv.ParseInt(target.ID, 10, 64)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetOrCreate(ctx, discordID)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	if err := uow.Commit(); err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if !account.IsLinked() {
		common.RespondWithMessage(s, i, "This user is not linked.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Color:       common.EmbedColour(),
		Description: fmt.Sprintf("Who is %s?", target.Mention()),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Username", Value: account.DisplayUsername(), Inline: true},
			{Name: "Rating", Value: account.DisplayRating(), Inline: true},
		},
	}
	common.RespondWithEmbed(s, i, embed)
}
