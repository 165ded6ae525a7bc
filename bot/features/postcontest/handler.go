package postcontest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/Ninjaclasher/DMOJ-Bot/bot/common"
	"github.com/Ninjaclasher/DMOJ-Bot/domain/entities"
)

// handlePostcontest adds the invoking user to the postcontest role for a
// contest, provided they are linked and their own participation window
// for that contest has ended.
func (f *Feature) handlePostcontest(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	if i.GuildID == "" {
		return
	}

	key := strings.TrimSpace(i.ApplicationCommandData().Options[0].StringValue())

	discordID, err := common.InteractionUserID(i)
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
		common.RespondWithEphemeral(s, i, "You are not linked.")
		return
	}

	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Failed to defer postcontest response: %v", err)
		return
	}

	contest, err := f.client.GetContest(ctx, key)
	if err != nil {
		common.HandleError(s, i, err, true)
		return
	}
	if contest == nil {
		common.FollowUpWithEphemeral(s, i, "Contest not found.")
		return
	}

	if f.grantPostcontestRole(s, i, key, account.DisplayUsername(), contest) {
		common.FollowUpWithEphemeral(s, i, "Added!")
	} else {
		common.FollowUpWithEphemeral(s, i, fmt.Sprintf("Cannot add you to %s's postcontest.", key))
	}
}

// grantPostcontestRole grants the guild role named "postcontest <key>" if
// the user appears in the contest rankings with a participation window
// that has already ended.
func (f *Feature) grantPostcontestRole(s *discordgo.Session, i *discordgo.InteractionCreate, key, username string, contest *entities.Contest) bool {
	now := time.Now().UTC()

	for _, ranking := range contest.Rankings {
		if !strings.EqualFold(ranking.User, username) {
			continue
		}
		if now.Before(ranking.EndTime) {
			return false
		}

		roleName := fmt.Sprintf("postcontest %s", strings.ToLower(key))
		roles, err := s.GuildRoles(i.GuildID)
		if err != nil {
			log.Errorf("Failed to list roles in guild %s: %v", i.GuildID, err)
			return false
		}
		for _, role := range roles {
			if role.Name != roleName {
				continue
			}
			if err := s.GuildMemberRoleAdd(i.GuildID, i.Member.User.ID, role.ID); err != nil {
				log.Errorf("Failed to add postcontest role %s: %v", role.ID, err)
				return false
			}
			return true
		}
		return false
	}
	return false
}
