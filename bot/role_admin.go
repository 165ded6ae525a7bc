package bot

import (
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/Ninjaclasher/DMOJ-Bot/domain/interfaces"
)

// roleAdmin implements interfaces.RoleAdmin over a live Discord session.
type roleAdmin struct {
	session *discordgo.Session
}

// NewRoleAdmin creates a RoleAdmin backed by the Discord session.
func NewRoleAdmin(session *discordgo.Session) interfaces.RoleAdmin {
	return &roleAdmin{session: session}
}

// IsMember reports whether the user is present in the guild, consulting
// the session state cache before falling back to the API.
func (ra *roleAdmin) IsMember(guildID, userID int64) bool {
	gid, uid := formatID(guildID), formatID(userID)

	if member, err := ra.session.State.Member(gid, uid); err == nil && member != nil {
		return true
	}

	member, err := ra.session.GuildMember(gid, uid)
	return err == nil && member != nil
}

// AddRoles adds each role to the member. An empty role list is a no-op.
func (ra *roleAdmin) AddRoles(guildID, userID int64, roleIDs []int64, reason string) error {
	gid, uid := formatID(guildID), formatID(userID)
	for _, roleID := range roleIDs {
		if err := ra.session.GuildMemberRoleAdd(gid, uid, formatID(roleID), discordgo.WithAuditLogReason(reason)); err != nil {
			return err
		}
	}
	return nil
}

// RemoveRoles removes each role from the member. Removing a role the
// member does not hold is harmless.
func (ra *roleAdmin) RemoveRoles(guildID, userID int64, roleIDs []int64, reason string) error {
	gid, uid := formatID(guildID), formatID(userID)
	for _, roleID := range roleIDs {
		if err := ra.session.GuildMemberRoleRemove(gid, uid, formatID(roleID), discordgo.WithAuditLogReason(reason)); err != nil {
			return err
		}
	}
	return nil
}

// RenameMember sets the member's guild nickname.
func (ra *roleAdmin) RenameMember(guildID, userID int64, nick, reason string) error {
	return ra.session.GuildMemberNickname(formatID(guildID), formatID(userID), nick, discordgo.WithAuditLogReason(reason))
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
