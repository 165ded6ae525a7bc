package resync

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/Ninjaclasher/DMOJ-Bot/bot/common"
)

// handleUpdateUsers kicks off a full resync of linked accounts. Fetching
// every DMOJ profile is bounded by the "long" rate class and can take
// minutes, so the sync runs as an independent task and reports its result
// to the invoking channel when done.
func (f *Feature) handleUpdateUsers(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.HasManageRoles(i) {
		common.RespondWithEphemeral(s, i, "You need the Manage Roles permission to use this command.")
		return
	}

	var forceRoles bool
	for _, option := range i.ApplicationCommandData().Options {
		if option.Name == "force_roles" {
			forceRoles = option.BoolValue()
		}
	}

	common.RespondWithMessage(s, i, "Updating...")

	channelID := i.ChannelID
	go func() {
		report, err := f.linkService.ResyncAll(context.Background(), forceRoles)
		if err != nil {
			log.Errorf("Failed to resync users: %v", err)
			common.ReportToErrorChannel(s, fmt.Sprintf("/update-users: %v", err))
			if _, err := s.ChannelMessageSend(channelID, "Failed to update users."); err != nil {
				log.Errorf("Failed to send resync failure message: %v", err)
			}
			return
		}

		message := fmt.Sprintf("Updated %d of %d linked users.", report.Updated, report.Examined)
		if _, err := s.ChannelMessageSend(channelID, message); err != nil {
			log.Errorf("Failed to send resync result message: %v", err)
		}
	}()
}
