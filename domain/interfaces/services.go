package interfaces

import (
	"context"

	"github.com/Ninjaclasher/DMOJ-Bot/domain/entities"
)

// DMOJClient fetches data from the DMOJ API. Implementations degrade
// upstream and network failures to absent results (nil) rather than
// returning errors, logging the failure for diagnostics.
type DMOJClient interface {
	// GetUser fetches a single user's profile. Returns nil when the user
	// does not exist or the upstream is unavailable.
	GetUser(ctx context.Context, username string) (*entities.Profile, error)

	// GetUsers fetches every user profile, auto-paginating. If a page
	// fetch fails mid-way, the profiles gathered so far are returned.
	GetUsers(ctx context.Context) ([]*entities.Profile, error)

	// GetContest fetches a single contest. Returns nil when the contest
	// does not exist or the upstream is unavailable.
	GetContest(ctx context.Context, key string) (*entities.Contest, error)

	// GetUserAbout fetches the raw text of a user's public profile page,
	// used for the link challenge check. Returns nil when absent.
	GetUserAbout(ctx context.Context, username string) (*string, error)
}

// RoleAdmin abstracts the guild-member role operations the bot performs,
// so services can be tested without a live Discord session.
type RoleAdmin interface {
	// IsMember reports whether the user is present in the guild.
	IsMember(guildID, userID int64) bool
	AddRoles(guildID, userID int64, roleIDs []int64, reason string) error
	RemoveRoles(guildID, userID int64, roleIDs []int64, reason string) error
	RenameMember(guildID, userID int64, nick, reason string) error
}

// RoleSyncService reconciles a member's verified and rating-bucket roles
// across every guild the bot serves.
type RoleSyncService interface {
	GrantOnLink(ctx context.Context, account *entities.Account) error
	RevokeOnUnlink(ctx context.Context, account *entities.Account) error
	ResyncRatingRoles(ctx context.Context, account *entities.Account) error
}

// LinkService orchestrates the DMOJ account linking flow.
type LinkService interface {
	// ChallengeToken derives the proof-of-ownership token for a Discord
	// user and candidate username. Pure function of its inputs plus the
	// shared secret.
	ChallengeToken(discordID int64, username string) string

	// VerifyAndLink checks the challenge token against the candidate's
	// profile page and, on success, links the account, evicting any
	// previous holder of the same DMOJ identity.
	VerifyAndLink(ctx context.Context, discordID int64, username string) (*entities.Account, error)

	// ForceLink links without the challenge check. Used by moderators.
	ForceLink(ctx context.Context, discordID int64, username string) (*entities.Account, error)

	// Unlink clears the account's DMOJ identity and revokes roles.
	Unlink(ctx context.Context, discordID int64) error

	// ResyncAll refreshes cached usernames and ratings for every linked
	// account from the DMOJ user list, resyncing rating roles for
	// accounts whose rating changed (or all, when forceRoles is set).
	ResyncAll(ctx context.Context, forceRoles bool) (*entities.SyncReport, error)
}
