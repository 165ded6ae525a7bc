package services

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/Ninjaclasher/DMOJ-Bot/domain/entities"
	"github.com/Ninjaclasher/DMOJ-Bot/domain/interfaces"
)

// VerifiedRoleName is the configuration key for the role granted to any
// member with a linked account, regardless of rating.
const VerifiedRoleName = "verified"

type roleSyncService struct {
	admin    interfaces.RoleAdmin
	guildIDs []int64
	roleIDs  map[int64]map[string]int64
}

// NewRoleSyncService creates a role sync service operating over the given
// guilds. roleIDs maps guild ID to role-name (bucket name or "verified")
// to Discord role ID; guilds missing an entry for a name simply have no
// role managed for it.
func NewRoleSyncService(admin interfaces.RoleAdmin, guildIDs []int64, roleIDs map[int64]map[string]int64) interfaces.RoleSyncService {
	return &roleSyncService{
		admin:    admin,
		guildIDs: guildIDs,
		roleIDs:  roleIDs,
	}
}

// GrantOnLink adds the verified role and the rating bucket role in every
// guild the account's user is a member of, and renames the member to the
// cached username. Rename failures are logged, not propagated.
func (s *roleSyncService) GrantOnLink(ctx context.Context, account *entities.Account) error {
	reason := fmt.Sprintf("Linked account with %s", account.DisplayUsername())
	for _, guildID := range s.memberGuilds(account.DiscordID) {
		var roles []int64
		if id, ok := s.roleID(guildID, VerifiedRoleName); ok {
			roles = append(roles, id)
		}
		if id, ok := s.roleID(guildID, entities.RatingToBucket(account.Rating)); ok {
			roles = append(roles, id)
		}
		if err := s.admin.AddRoles(guildID, account.DiscordID, roles, reason); err != nil {
			return fmt.Errorf("failed to add link roles in guild %d: %w", guildID, err)
		}
		if account.Username != nil {
			if err := s.admin.RenameMember(guildID, account.DiscordID, *account.Username, reason); err != nil {
				log.WithFields(log.Fields{
					"guild_id":   guildID,
					"discord_id": account.DiscordID,
					"error":      err,
				}).Warn("Failed to rename member after link")
			}
		}
	}
	return nil
}

// RevokeOnUnlink removes the verified role and every rating bucket role,
// not just the current one, to clean up stale state.
func (s *roleSyncService) RevokeOnUnlink(ctx context.Context, account *entities.Account) error {
	for _, guildID := range s.memberGuilds(account.DiscordID) {
		roles := s.ratingRoles(guildID)
		if id, ok := s.roleID(guildID, VerifiedRoleName); ok {
			roles = append(roles, id)
		}
		if err := s.admin.RemoveRoles(guildID, account.DiscordID, roles, "Unlinked account"); err != nil {
			return fmt.Errorf("failed to remove link roles in guild %d: %w", guildID, err)
		}
	}
	return nil
}

// ResyncRatingRoles removes every rating bucket role and re-adds the one
// matching the account's current rating.
func (s *roleSyncService) ResyncRatingRoles(ctx context.Context, account *entities.Account) error {
	for _, guildID := range s.memberGuilds(account.DiscordID) {
		if err := s.admin.RemoveRoles(guildID, account.DiscordID, s.ratingRoles(guildID), "Rating change"); err != nil {
			return fmt.Errorf("failed to remove rating roles in guild %d: %w", guildID, err)
		}
		if id, ok := s.roleID(guildID, entities.RatingToBucket(account.Rating)); ok {
			if err := s.admin.AddRoles(guildID, account.DiscordID, []int64{id}, "Rating change"); err != nil {
				return fmt.Errorf("failed to add rating role in guild %d: %w", guildID, err)
			}
		}
	}
	return nil
}

// memberGuilds returns the configured guilds the user is currently a
// member of. Absence in a guild is silently skipped.
func (s *roleSyncService) memberGuilds(discordID int64) []int64 {
	var guilds []int64
	for _, guildID := range s.guildIDs {
		if s.admin.IsMember(guildID, discordID) {
			guilds = append(guilds, guildID)
		}
	}
	return guilds
}

func (s *roleSyncService) roleID(guildID int64, name string) (int64, bool) {
	mapping, ok := s.roleIDs[guildID]
	if !ok {
		return 0, false
	}
	id, ok := mapping[name]
	return id, ok
}

// ratingRoles returns every configured rating bucket role in the guild,
// including the unrated role.
func (s *roleSyncService) ratingRoles(guildID int64) []int64 {
	var roles []int64
	for _, bucket := range entities.AllBuckets() {
		if id, ok := s.roleID(guildID, bucket); ok {
			roles = append(roles, id)
		}
	}
	return roles
}
