package bot

import (
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// registerCommands registers all slash commands with Discord, scoped to
// each configured guild.
func (b *Bot) registerCommands() error {
	manageRoles := int64(discordgo.PermissionManageRoles)

	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "link",
			Description: "Link your Discord account with a DMOJ account",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "username",
					Description: "Your DMOJ username",
					Required:    true,
				},
			},
		},
		{
			Name:        "unlink",
			Description: "Unlink your Discord account from your DMOJ account",
		},
		{
			Name:                     "manage-link",
			Description:              "Manage a member's DMOJ link",
			DefaultMemberPermissions: &manageRoles,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "member",
					Description: "The member whose link to manage",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "username",
					Description: "DMOJ username to link the member to; omit to unlink",
				},
			},
		},
		{
			Name:        "whois",
			Description: "See who a member is",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "member",
					Description: "The member to view; defaults to you",
				},
			},
		},
		{
			Name:                     "update-users",
			Description:              "Update all linked users' usernames and ratings",
			DefaultMemberPermissions: &manageRoles,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "force_roles",
					Description: "Force update rating roles even when ratings are unchanged",
					Required:    true,
				},
			},
		},
		{
			Name:        "postcontest",
			Description: "Join the postcontest channel for the specified contest",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "key",
					Description: "The contest key",
					Required:    true,
				},
			},
		},
	}

	for _, guildID := range b.config.GuildIDs {
		gid := strconv.FormatInt(guildID, 10)
		if _, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, gid, commands); err != nil {
			return fmt.Errorf("failed to register commands in guild %s: %w", gid, err)
		}
	}

	return nil
}
