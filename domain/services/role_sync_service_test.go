package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Ninjaclasher/DMOJ-Bot/domain/entities"
	"github.com/Ninjaclasher/DMOJ-Bot/domain/testhelpers"
)

const (
	guildMain  = int64(100)
	guildOther = int64(200)
)

func testRoleIDs() map[int64]map[string]int64 {
	return map[int64]map[string]int64{
		guildMain: {
			"verified": 10,
			"unrated":  11,
			"newbie":   12,
			"amateur":  13,
			"expert":   14,
		},
		// guildOther is configured but carries no role mapping.
	}
}

func newRoleSyncFixture() (*testhelpers.MockRoleAdmin, *roleSyncService) {
	admin := new(testhelpers.MockRoleAdmin)
	service := NewRoleSyncService(admin, []int64{guildMain, guildOther}, testRoleIDs()).(*roleSyncService)
	return admin, service
}

func TestGrantOnLink(t *testing.T) {
	admin, service := newRoleSyncFixture()
	ctx := context.Background()

	account := &entities.Account{DiscordID: 42, DMOJID: int64Ptr(7), Username: strPtr("Alice"), Rating: intPtr(1050)}

	admin.On("IsMember", guildMain, int64(42)).Return(true)
	admin.On("IsMember", guildOther, int64(42)).Return(false)
	admin.On("AddRoles", guildMain, int64(42), []int64{10, 13}, mock.Anything).Return(nil)
	admin.On("RenameMember", guildMain, int64(42), "Alice", mock.Anything).Return(nil)

	require.NoError(t, service.GrantOnLink(ctx, account))
	admin.AssertExpectations(t)
	admin.AssertNotCalled(t, "AddRoles", guildOther, mock.Anything, mock.Anything, mock.Anything)
}

func TestGrantOnLink_UnratedAccount(t *testing.T) {
	admin, service := newRoleSyncFixture()
	ctx := context.Background()

	account := &entities.Account{DiscordID: 42, DMOJID: int64Ptr(7), Username: strPtr("Alice")}

	admin.On("IsMember", guildMain, int64(42)).Return(true)
	admin.On("IsMember", guildOther, int64(42)).Return(false)
	admin.On("AddRoles", guildMain, int64(42), []int64{10, 11}, mock.Anything).Return(nil)
	admin.On("RenameMember", guildMain, int64(42), "Alice", mock.Anything).Return(nil)

	require.NoError(t, service.GrantOnLink(ctx, account))
	admin.AssertExpectations(t)
}

func TestGrantOnLink_RenameFailureIsNotFatal(t *testing.T) {
	admin, service := newRoleSyncFixture()
	ctx := context.Background()

	account := &entities.Account{DiscordID: 42, DMOJID: int64Ptr(7), Username: strPtr("Alice"), Rating: intPtr(1050)}

	admin.On("IsMember", guildMain, int64(42)).Return(true)
	admin.On("IsMember", guildOther, int64(42)).Return(false)
	admin.On("AddRoles", guildMain, int64(42), []int64{10, 13}, mock.Anything).Return(nil)
	admin.On("RenameMember", guildMain, int64(42), "Alice", mock.Anything).Return(errors.New("missing permission"))

	assert.NoError(t, service.GrantOnLink(ctx, account))
	admin.AssertExpectations(t)
}

func TestGrantOnLink_AddRolesFailurePropagates(t *testing.T) {
	admin, service := newRoleSyncFixture()
	ctx := context.Background()

	account := &entities.Account{DiscordID: 42, DMOJID: int64Ptr(7), Username: strPtr("Alice"), Rating: intPtr(1050)}

	admin.On("IsMember", guildMain, int64(42)).Return(true)
	admin.On("IsMember", guildOther, int64(42)).Return(false)
	admin.On("AddRoles", guildMain, int64(42), []int64{10, 13}, mock.Anything).Return(errors.New("missing permission"))

	assert.Error(t, service.GrantOnLink(ctx, account))
	admin.AssertExpectations(t)
}

func TestRevokeOnUnlink_RemovesEveryManagedRole(t *testing.T) {
	admin, service := newRoleSyncFixture()
	ctx := context.Background()

	account := &entities.Account{DiscordID: 42}

	admin.On("IsMember", guildMain, int64(42)).Return(true)
	admin.On("IsMember", guildOther, int64(42)).Return(false)
	// Every configured bucket role plus verified, not just the current one.
	admin.On("RemoveRoles", guildMain, int64(42), []int64{12, 13, 14, 11, 10}, mock.Anything).Return(nil)

	require.NoError(t, service.RevokeOnUnlink(ctx, account))
	admin.AssertExpectations(t)
}

func TestResyncRatingRoles(t *testing.T) {
	admin, service := newRoleSyncFixture()
	ctx := context.Background()

	account := &entities.Account{DiscordID: 42, DMOJID: int64Ptr(7), Username: strPtr("Alice"), Rating: intPtr(1400)}

	admin.On("IsMember", guildMain, int64(42)).Return(true)
	admin.On("IsMember", guildOther, int64(42)).Return(false)
	admin.On("RemoveRoles", guildMain, int64(42), []int64{12, 13, 14, 11}, mock.Anything).Return(nil)
	admin.On("AddRoles", guildMain, int64(42), []int64{14}, mock.Anything).Return(nil)

	require.NoError(t, service.ResyncRatingRoles(ctx, account))
	admin.AssertExpectations(t)
}

func TestResyncRatingRoles_BucketWithoutConfiguredRole(t *testing.T) {
	admin, service := newRoleSyncFixture()
	ctx := context.Background()

	// No "master" role is configured in the guild, so nothing is re-added.
	account := &entities.Account{DiscordID: 42, DMOJID: int64Ptr(7), Username: strPtr("Alice"), Rating: intPtr(2000)}

	admin.On("IsMember", guildMain, int64(42)).Return(true)
	admin.On("IsMember", guildOther, int64(42)).Return(false)
	admin.On("RemoveRoles", guildMain, int64(42), []int64{12, 13, 14, 11}, mock.Anything).Return(nil)

	require.NoError(t, service.ResyncRatingRoles(ctx, account))
	admin.AssertExpectations(t)
	admin.AssertNotCalled(t, "AddRoles", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRoleSync_NonMemberIsSkippedEverywhere(t *testing.T) {
	admin, service := newRoleSyncFixture()
	ctx := context.Background()

	account := &entities.Account{DiscordID: 42, DMOJID: int64Ptr(7), Username: strPtr("Alice"), Rating: intPtr(1050)}

	admin.On("IsMember", mock.Anything, int64(42)).Return(false)

	require.NoError(t, service.GrantOnLink(ctx, account))
	require.NoError(t, service.RevokeOnUnlink(ctx, account))
	require.NoError(t, service.ResyncRatingRoles(ctx, account))
	admin.AssertNotCalled(t, "AddRoles", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	admin.AssertNotCalled(t, "RemoveRoles", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	admin.AssertNotCalled(t, "RenameMember", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
