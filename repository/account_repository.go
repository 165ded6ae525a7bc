package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Ninjaclasher/DMOJ-Bot/database"
	"github.com/Ninjaclasher/DMOJ-Bot/domain/entities"
	"github.com/Ninjaclasher/DMOJ-Bot/domain/interfaces"
)

// uniqueViolation is the Postgres error code for unique constraint
// violations.
const uniqueViolation = "23505"

// AccountRepository is the Postgres implementation of
// interfaces.AccountRepository.
type AccountRepository struct {
	q Queryable
}

// NewAccountRepository creates an account repository backed by the pool.
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepository creates an account repository scoped to a
// transaction.
func newAccountRepository(q Queryable) *AccountRepository {
	return &AccountRepository{q: q}
}

const accountColumns = `discord_id, dmoj_id, username, rating, created_at, updated_at`

// GetOrCreate returns the account for the given Discord ID, inserting an
// empty row first if none exists. ON CONFLICT DO NOTHING makes the
// check-and-insert atomic under concurrent first-time access.
func (r *AccountRepository) GetOrCreate(ctx context.Context, discordID int64) (*entities.Account, error) {
	insert := `
		INSERT INTO accounts (discord_id)
		VALUES ($1)
		ON CONFLICT (discord_id) DO NOTHING
	`
	if _, err := r.q.Exec(ctx, insert, discordID); err != nil {
		return nil, fmt.Errorf("failed to create account for discord ID %d: %w", discordID, err)
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE discord_id = $1`
	account, err := scanAccount(r.q.QueryRow(ctx, query, discordID))
	if err != nil {
		return nil, fmt.Errorf("failed to get account for discord ID %d: %w", discordID, err)
	}
	return account, nil
}

// FindByDMOJID returns every account holding the given DMOJ ID.
func (r *AccountRepository) FindByDMOJID(ctx context.Context, dmojID int64) ([]*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE dmoj_id = $1`
	rows, err := r.q.Query(ctx, query, dmojID)
	if err != nil {
		return nil, fmt.Errorf("failed to find accounts by DMOJ ID %d: %w", dmojID, err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// GetAllLinked returns every account with a DMOJ ID present.
func (r *AccountRepository) GetAllLinked(ctx context.Context) ([]*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE dmoj_id IS NOT NULL ORDER BY discord_id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get linked accounts: %w", err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// Save upserts the full account row. A violation of the dmoj_id
// uniqueness constraint is surfaced as interfaces.ErrDuplicateDMOJID so
// callers can treat a lost link race as retryable.
func (r *AccountRepository) Save(ctx context.Context, account *entities.Account) error {
	query := `
		INSERT INTO accounts (discord_id, dmoj_id, username, rating)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (discord_id) DO UPDATE
		SET dmoj_id = EXCLUDED.dmoj_id,
		    username = EXCLUDED.username,
		    rating = EXCLUDED.rating,
		    updated_at = NOW()
	`
	if _, err := r.q.Exec(ctx, query, account.DiscordID, account.DMOJID, account.Username, account.Rating); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("save account %d: %w", account.DiscordID, interfaces.ErrDuplicateDMOJID)
		}
		return fmt.Errorf("failed to save account %d: %w", account.DiscordID, err)
	}
	return nil
}

// BulkUpdateProfiles updates username and rating for the given accounts
// in batches. Batching is an optimization over per-row round trips, not
// a correctness requirement.
func (r *AccountRepository) BulkUpdateProfiles(ctx context.Context, accounts []*entities.Account, batchSize int) error {
	if batchSize <= 0 {
		batchSize = 50
	}

	query := `
		UPDATE accounts
		SET username = $1, rating = $2, updated_at = NOW()
		WHERE discord_id = $3
	`
	for start := 0; start < len(accounts); start += batchSize {
		end := start + batchSize
		if end > len(accounts) {
			end = len(accounts)
		}

		batch := &pgx.Batch{}
		for _, account := range accounts[start:end] {
			batch.Queue(query, account.Username, account.Rating, account.DiscordID)
		}

		results := r.q.SendBatch(ctx, batch)
		for range accounts[start:end] {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("failed to bulk update accounts: %w", err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("failed to close bulk update batch: %w", err)
		}
	}
	return nil
}

func scanAccount(row pgx.Row) (*entities.Account, error) {
	var account entities.Account
	err := row.Scan(
		&account.DiscordID,
		&account.DMOJID,
		&account.Username,
		&account.Rating,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func scanAccounts(rows pgx.Rows) ([]*entities.Account, error) {
	var accounts []*entities.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return accounts, nil
}
