package testhelpers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Ninjaclasher/DMOJ-Bot/domain/entities"
	"github.com/Ninjaclasher/DMOJ-Bot/domain/interfaces"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetOrCreate(ctx context.Context, discordID int64) (*entities.Account, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByDMOJID(ctx context.Context, dmojID int64) ([]*entities.Account, error) {
	args := m.Called(ctx, dmojID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) GetAllLinked(ctx context.Context) ([]*entities.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) Save(ctx context.Context, account *entities.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) BulkUpdateProfiles(ctx context.Context, accounts []*entities.Account, batchSize int) error {
	args := m.Called(ctx, accounts, batchSize)
	return args.Error(0)
}

// MockDMOJClient is a mock implementation of DMOJClient
type MockDMOJClient struct {
	mock.Mock
}

func (m *MockDMOJClient) GetUser(ctx context.Context, username string) (*entities.Profile, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Profile), args.Error(1)
}

func (m *MockDMOJClient) GetUsers(ctx context.Context) ([]*entities.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Profile), args.Error(1)
}

func (m *MockDMOJClient) GetContest(ctx context.Context, key string) (*entities.Contest, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Contest), args.Error(1)
}

func (m *MockDMOJClient) GetUserAbout(ctx context.Context, username string) (*string, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

// MockRoleAdmin is a mock implementation of RoleAdmin
type MockRoleAdmin struct {
	mock.Mock
}

func (m *MockRoleAdmin) IsMember(guildID, userID int64) bool {
	args := m.Called(guildID, userID)
	return args.Bool(0)
}

func (m *MockRoleAdmin) AddRoles(guildID, userID int64, roleIDs []int64, reason string) error {
	args := m.Called(guildID, userID, roleIDs, reason)
	return args.Error(0)
}

func (m *MockRoleAdmin) RemoveRoles(guildID, userID int64, roleIDs []int64, reason string) error {
	args := m.Called(guildID, userID, roleIDs, reason)
	return args.Error(0)
}

func (m *MockRoleAdmin) RenameMember(guildID, userID int64, nick, reason string) error {
	args := m.Called(guildID, userID, nick, reason)
	return args.Error(0)
}

// MockRoleSyncService is a mock implementation of RoleSyncService
type MockRoleSyncService struct {
	mock.Mock
}

func (m *MockRoleSyncService) GrantOnLink(ctx context.Context, account *entities.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockRoleSyncService) RevokeOnUnlink(ctx context.Context, account *entities.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockRoleSyncService) ResyncRatingRoles(ctx context.Context, account *entities.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// FakeUnitOfWork is a unit of work whose repository is supplied by the
// test. Begin/Commit/Rollback are counted, not transactional.
type FakeUnitOfWork struct {
	Repo       interfaces.AccountRepository
	Began      int
	Committed  int
	RolledBack int
}

func (u *FakeUnitOfWork) Begin(ctx context.Context) error {
	u.Began++
	return nil
}

func (u *FakeUnitOfWork) Commit() error {
	u.Committed++
	return nil
}

func (u *FakeUnitOfWork) Rollback() error {
	u.RolledBack++
	return nil
}

func (u *FakeUnitOfWork) AccountRepository() interfaces.AccountRepository {
	return u.Repo
}

// FakeUnitOfWorkFactory hands out FakeUnitOfWorks sharing one repository.
type FakeUnitOfWorkFactory struct {
	Repo    interfaces.AccountRepository
	Created []*FakeUnitOfWork
}

func (f *FakeUnitOfWorkFactory) Create() interfaces.UnitOfWork {
	uow := &FakeUnitOfWork{Repo: f.Repo}
	f.Created = append(f.Created, uow)
	return uow
}
