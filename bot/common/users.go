package common

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// InteractionUserID returns the invoking user's Discord ID as an int64.
func InteractionUserID(i *discordgo.InteractionCreate) (int64, error) {
	var user *discordgo.User
	if i.Member != nil {
		user = i.Member.User
	} else {
		user = i.User
	}
	return strconv.ParseInt(user.ID, 10, 64)
}

// HasManageRoles reports whether the invoking member holds the Manage
// Roles permission in the interaction's guild.
func HasManageRoles(i *discordgo.InteractionCreate) bool {
	return i.Member != nil && i.Member.Permissions&discordgo.PermissionManageRoles != 0
}
