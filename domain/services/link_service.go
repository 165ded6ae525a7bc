package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/Ninjaclasher/DMOJ-Bot/domain/entities"
	"github.com/Ninjaclasher/DMOJ-Bot/domain/interfaces"
)

type linkService struct {
	uowFactory interfaces.UnitOfWorkFactory
	client     interfaces.DMOJClient
	roleSync   interfaces.RoleSyncService
	secret     string
	batchSize  int
}

// NewLinkService creates a link service. secret is the shared secret used
// to derive challenge tokens; batchSize bounds bulk profile updates
// during resync.
func NewLinkService(uowFactory interfaces.UnitOfWorkFactory, client interfaces.DMOJClient, roleSync interfaces.RoleSyncService, secret string, batchSize int) interfaces.LinkService {
	return &linkService{
		uowFactory: uowFactory,
		client:     client,
		roleSync:   roleSync,
		secret:     secret,
		batchSize:  batchSize,
	}
}

// ChallengeToken derives the proof-of-ownership token. The username is
// lowercased first so the token does not depend on how the user typed it.
func (s *linkService) ChallengeToken(discordID int64, username string) string {
	sum := sha256.Sum256([]byte(s.secret + "/" + strings.ToLower(username) + "/" + strconv.FormatInt(discordID, 10)))
	return hex.EncodeToString(sum[:])
}

// VerifyAndLink implements the challenge-verified linking flow. The
// profile page and profile object are fetched outside any transaction;
// the eviction of previous holders and the link itself happen in one.
func (s *linkService) VerifyAndLink(ctx context.Context, discordID int64, username string) (*entities.Account, error) {
	account, err := s.getOrCreate(ctx, discordID)
	if err != nil {
		return nil, err
	}
	if account.IsLinked() {
		return nil, ErrAlreadyLinked
	}

	token := s.ChallengeToken(discordID, username)

	about, err := s.client.GetUserAbout(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile page for %s: %w", username, err)
	}
	if about == nil {
		return nil, ErrExternalUserNotFound
	}
	if !strings.Contains(*about, token) {
		return nil, ErrChallengeNotFound
	}

	profile, err := s.client.GetUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile for %s: %w", username, err)
	}
	if profile == nil {
		return nil, ErrExternalUserNotFound
	}

	return s.linkToProfile(ctx, discordID, profile)
}

// ForceLink links without the challenge check. The target account may
// already be linked; its previous identity is overwritten.
func (s *linkService) ForceLink(ctx context.Context, discordID int64, username string) (*entities.Account, error) {
	profile, err := s.client.GetUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile for %s: %w", username, err)
	}
	if profile == nil {
		return nil, ErrExternalUserNotFound
	}

	return s.linkToProfile(ctx, discordID, profile)
}

// Unlink clears the account's DMOJ identity and revokes roles. Returns
// ErrNotLinked when the account holds no identity.
func (s *linkService) Unlink(ctx context.Context, discordID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetOrCreate(ctx, discordID)
	if err != nil {
		return err
	}
	if !account.IsLinked() {
		return ErrNotLinked
	}

	account.Unlink()
	if err := uow.AccountRepository().Save(ctx, account); err != nil {
		return err
	}
	if err := s.roleSync.RevokeOnUnlink(ctx, account); err != nil {
		return err
	}

	return uow.Commit()
}

// ResyncAll fetches every DMOJ profile and refreshes cached usernames and
// ratings for linked accounts. Accounts whose DMOJ ID is missing from the
// fetched set are left untouched: the user list is paginated and a page
// fetch may have failed, so absence is not proof of deletion.
func (s *linkService) ResyncAll(ctx context.Context, forceRoles bool) (*entities.SyncReport, error) {
	profiles, err := s.client.GetUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user list: %w", err)
	}

	fresh := make(map[int64]*entities.Profile, len(profiles))
	for _, profile := range profiles {
		fresh[profile.ID] = profile
	}
	log.WithField("profiles", len(fresh)).Info("Fetched DMOJ user list for resync")

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	accounts, err := uow.AccountRepository().GetAllLinked(ctx)
	if err != nil {
		return nil, err
	}

	report := &entities.SyncReport{}
	var changed []*entities.Account
	for _, account := range accounts {
		report.Examined++

		profile, ok := fresh[*account.DMOJID]
		if !ok {
			continue
		}

		changedUsername := account.Username == nil || *account.Username != profile.Username
		changedRating := !ratingEqual(account.Rating, profile.Rating)

		if changedUsername {
			account.Username = &profile.Username
		}
		if changedRating {
			account.Rating = profile.Rating
		}

		if changedRating || forceRoles {
			if err := s.roleSync.ResyncRatingRoles(ctx, account); err != nil {
				return nil, err
			}
		}

		if changedUsername || changedRating {
			changed = append(changed, account)
			report.Updated++
		}
	}

	if err := uow.AccountRepository().BulkUpdateProfiles(ctx, changed, s.batchSize); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return report, nil
}

// linkToProfile evicts every current holder of the profile's DMOJ ID and
// links the requesting account to it, all in one transaction. A crash or
// failure partway leaves neither two holders nor a half-linked requester.
func (s *linkService) linkToProfile(ctx context.Context, discordID int64, profile *entities.Profile) (*entities.Account, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	repo := uow.AccountRepository()

	holders, err := repo.FindByDMOJID(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	for _, holder := range holders {
		if holder.DiscordID == discordID {
			continue
		}
		holder.Unlink()
		if err := repo.Save(ctx, holder); err != nil {
			return nil, err
		}
		if err := s.roleSync.RevokeOnUnlink(ctx, holder); err != nil {
			return nil, err
		}
	}

	account, err := repo.GetOrCreate(ctx, discordID)
	if err != nil {
		return nil, err
	}
	account.Link(profile.ID, profile.Username, profile.Rating)
	if err := repo.Save(ctx, account); err != nil {
		return nil, err
	}
	if err := s.roleSync.GrantOnLink(ctx, account); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return account, nil
}

// getOrCreate loads the account row in its own short transaction so the
// network round trips of the link flow never hold one open.
func (s *linkService) getOrCreate(ctx context.Context, discordID int64) (*entities.Account, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetOrCreate(ctx, discordID)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return account, nil
}

func ratingEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
