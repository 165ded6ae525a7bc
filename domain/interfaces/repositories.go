package interfaces

import (
	"context"
	"errors"

	"github.com/Ninjaclasher/DMOJ-Bot/domain/entities"
)

// ErrDuplicateDMOJID is returned by AccountRepository.Save when the
// accounts table's uniqueness constraint on dmoj_id is violated, i.e. a
// concurrent link claimed the same DMOJ identity first.
var ErrDuplicateDMOJID = errors.New("DMOJ account is already linked to another user")

// AccountRepository manages persistence of account rows.
type AccountRepository interface {
	// GetOrCreate returns the account for the given Discord ID, creating
	// an empty unlinked row if none exists. The check-and-insert is
	// atomic so concurrent first-time interactions cannot produce
	// duplicate rows.
	GetOrCreate(ctx context.Context, discordID int64) (*entities.Account, error)

	// FindByDMOJID returns every account currently holding the given
	// DMOJ ID. Zero or one row is expected, but callers must tolerate
	// more and clean them up.
	FindByDMOJID(ctx context.Context, dmojID int64) ([]*entities.Account, error)

	// GetAllLinked returns every account with a DMOJ ID present.
	GetAllLinked(ctx context.Context) ([]*entities.Account, error)

	// Save upserts the full account row.
	Save(ctx context.Context, account *entities.Account) error

	// BulkUpdateProfiles updates username and rating for the given
	// accounts in batches of batchSize.
	BulkUpdateProfiles(ctx context.Context, accounts []*entities.Account, batchSize int) error
}

// UnitOfWork scopes repository access to a single database transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error
	AccountRepository() AccountRepository
}

// UnitOfWorkFactory creates units of work.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
