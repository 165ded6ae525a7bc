package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ninjaclasher/DMOJ-Bot/domain/entities"
	"github.com/Ninjaclasher/DMOJ-Bot/domain/interfaces"
	"github.com/Ninjaclasher/DMOJ-Bot/repository/testutil"
)

func intPtr(n int) *int {
	return &n
}

func strPtr(s string) *string {
	return &s
}

func TestAccountRepository_GetOrCreate(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	account, err := repo.GetOrCreate(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), account.DiscordID)
	assert.Nil(t, account.DMOJID)
	assert.Nil(t, account.Username)
	assert.Nil(t, account.Rating)
	assert.False(t, account.CreatedAt.IsZero())

	// A second call returns the same row, not a new one.
	again, err := repo.GetOrCreate(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, account.CreatedAt, again.CreatedAt)
}

func TestAccountRepository_SaveAndFind(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	account, err := repo.GetOrCreate(ctx, 42)
	require.NoError(t, err)
	account.Link(7, "Alice", intPtr(1500))
	require.NoError(t, repo.Save(ctx, account))

	holders, err := repo.FindByDMOJID(ctx, 7)
	require.NoError(t, err)
	require.Len(t, holders, 1)
	assert.Equal(t, int64(42), holders[0].DiscordID)
	assert.Equal(t, "Alice", *holders[0].Username)
	assert.Equal(t, 1500, *holders[0].Rating)

	// Unlink persists back to NULLs.
	account.Unlink()
	require.NoError(t, repo.Save(ctx, account))

	holders, err = repo.FindByDMOJID(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, holders)
}

func TestAccountRepository_DuplicateDMOJID(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	first, err := repo.GetOrCreate(ctx, 42)
	require.NoError(t, err)
	first.Link(7, "Alice", intPtr(1500))
	require.NoError(t, repo.Save(ctx, first))

	second, err := repo.GetOrCreate(ctx, 43)
	require.NoError(t, err)
	second.Link(7, "Alice", intPtr(1500))
	err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, interfaces.ErrDuplicateDMOJID)
}

func TestAccountRepository_MultipleUnlinkedAccountsCoexist(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	// The uniqueness constraint is partial: any number of NULL dmoj_ids
	// may coexist.
	for id := int64(1); id <= 3; id++ {
		_, err := repo.GetOrCreate(ctx, id)
		require.NoError(t, err)
	}

	linked, err := repo.GetAllLinked(ctx)
	require.NoError(t, err)
	assert.Empty(t, linked)
}

func TestAccountRepository_GetAllLinked(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	for id := int64(1); id <= 4; id++ {
		account, err := repo.GetOrCreate(ctx, id)
		require.NoError(t, err)
		if id%2 == 0 {
			account.Link(id*100, "user", intPtr(int(id)*500))
			require.NoError(t, repo.Save(ctx, account))
		}
	}

	linked, err := repo.GetAllLinked(ctx)
	require.NoError(t, err)
	require.Len(t, linked, 2)
	assert.Equal(t, int64(2), linked[0].DiscordID)
	assert.Equal(t, int64(4), linked[1].DiscordID)
}

func TestAccountRepository_BulkUpdateProfiles(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	var accounts []*entities.Account
	for id := int64(1); id <= 5; id++ {
		account, err := repo.GetOrCreate(ctx, id)
		require.NoError(t, err)
		account.Link(id*100, "old", intPtr(1000))
		require.NoError(t, repo.Save(ctx, account))
		accounts = append(accounts, account)
	}

	for i, account := range accounts {
		account.Username = strPtr("new")
		account.Rating = intPtr(2000 + i)
	}

	// Batch size smaller than the slice to exercise chunking.
	require.NoError(t, repo.BulkUpdateProfiles(ctx, accounts, 2))

	linked, err := repo.GetAllLinked(ctx)
	require.NoError(t, err)
	require.Len(t, linked, 5)
	for i, account := range linked {
		assert.Equal(t, "new", *account.Username)
		assert.Equal(t, 2000+i, *account.Rating)
	}
}

func TestUnitOfWork_CommitPersists(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	factory := NewUnitOfWorkFactory(testDB.DB)
	ctx := context.Background()

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	account, err := uow.AccountRepository().GetOrCreate(ctx, 42)
	require.NoError(t, err)
	account.Link(7, "Alice", intPtr(1500))
	require.NoError(t, uow.AccountRepository().Save(ctx, account))
	require.NoError(t, uow.Commit())

	repo := NewAccountRepository(testDB.DB)
	holders, err := repo.FindByDMOJID(ctx, 7)
	require.NoError(t, err)
	require.Len(t, holders, 1)
}

func TestUnitOfWork_RollbackDiscards(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	factory := NewUnitOfWorkFactory(testDB.DB)
	ctx := context.Background()

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	account, err := uow.AccountRepository().GetOrCreate(ctx, 42)
	require.NoError(t, err)
	account.Link(7, "Alice", intPtr(1500))
	require.NoError(t, uow.AccountRepository().Save(ctx, account))
	require.NoError(t, uow.Rollback())

	repo := NewAccountRepository(testDB.DB)
	holders, err := repo.FindByDMOJID(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, holders)
}

func TestUnitOfWork_RollbackAfterCommitIsNoOp(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	factory := NewUnitOfWorkFactory(testDB.DB)
	ctx := context.Background()

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	_, err := uow.AccountRepository().GetOrCreate(ctx, 42)
	require.NoError(t, err)
	require.NoError(t, uow.Commit())
	assert.NoError(t, uow.Rollback())
}
