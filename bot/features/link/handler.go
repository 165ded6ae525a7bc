package link

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/Ninjaclasher/DMOJ-Bot/bot/common"
	"github.com/Ninjaclasher/DMOJ-Bot/domain/interfaces"
	"github.com/Ninjaclasher/DMOJ-Bot/domain/services"
)

// handleLink handles the /link command.
func (f *Feature) handleLink(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	discordID, err := common.InteractionUserID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	username := strings.TrimSpace(i.ApplicationCommandData().Options[0].StringValue())
	if username == "" {
		common.RespondWithMessage(s, i, "A username is required.")
		return
	}

	// The link flow makes several rate-limited API calls, so acknowledge
	// the interaction before starting.
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer link response: %v", err)
		return
	}

	_, err = f.linkService.VerifyAndLink(ctx, discordID, username)
	switch {
	case errors.Is(err, services.ErrAlreadyLinked):
		common.FollowUpWithMessage(s, i, "You are already linked! /unlink first.")
	case errors.Is(err, services.ErrExternalUserNotFound):
		common.FollowUpWithMessage(s, i, fmt.Sprintf("%s does not exist!", username))
	case errors.Is(err, services.ErrChallengeNotFound):
		token := f.linkService.ChallengeToken(discordID, username)
		common.FollowUpWithMessage(s, i, fmt.Sprintf(
			"Please add `%s` anywhere in your about: %s/edit/profile and run the command again",
			token, f.baseURL,
		))
	case errors.Is(err, interfaces.ErrDuplicateDMOJID):
		common.FollowUpWithMessage(s, i, "Someone else just linked that DMOJ account. Please try again.")
	case err != nil:
		common.HandleError(s, i, err, true)
	default:
		common.FollowUpWithMessage(s, i, "Linked!")
	}
}

// handleUnlink handles the /unlink command.
func (f *Feature) handleUnlink(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	discordID, err := common.InteractionUserID(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer unlink response: %v", err)
		return
	}

	err = f.linkService.Unlink(ctx, discordID)
	switch {
	case errors.Is(err, services.ErrNotLinked):
		common.FollowUpWithMessage(s, i, "You are not linked.")
	case err != nil:
		common.HandleError(s, i, err, true)
	default:
		common.FollowUpWithMessage(s, i, "Unlinked!")
	}
}

// handleManageLink handles the /manage-link command: force-link a member
// to a username, or unlink them when no username is given.
func (f *Feature) handleManageLink(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	if !common.HasManageRoles(i) {
		common.RespondWithEphemeral(s, i, "You need the Manage Roles permission to use this command.")
		return
	}

	var member *discordgo.User
	var username string
	for _, option := range i.ApplicationCommandData().Options {
		switch option.Name {
		case "member":
			member = option.UserValue(s)
		case "username":
			username = strings.TrimSpace(option.StringValue())
		}
	}
	if member == nil {
		common.RespondWithMessage(s, i, "A member is required.")
		return
	}

	targetID, err := strconv.ParseInt(member.ID, 10, 64)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer manage-link response: %v", err)
		return
	}

	if username == "" {
		err = f.linkService.Unlink(ctx, targetID)
		switch {
		case errors.Is(err, services.ErrNotLinked):
			common.FollowUpWithMessage(s, i, fmt.Sprintf("%s is not linked.", member.Mention()))
		case err != nil:
			common.HandleError(s, i, err, true)
		default:
			common.FollowUpWithMessage(s, i, fmt.Sprintf("Unlinked %s.", member.Mention()))
		}
		return
	}

	account, err := f.linkService.ForceLink(ctx, targetID, username)
	switch {
	case errors.Is(err, services.ErrExternalUserNotFound):
		common.FollowUpWithMessage(s, i, fmt.Sprintf("%s does not exist!", username))
	case errors.Is(err, interfaces.ErrDuplicateDMOJID):
		common.FollowUpWithMessage(s, i, "Another link for that DMOJ account is in progress. Please try again.")
	case err != nil:
		common.HandleError(s, i, err, true)
	default:
		common.FollowUpWithMessage(s, i, fmt.Sprintf("Updated %s to be linked to %s", member.Mention(), account.DisplayUsername()))
	}
}
