package entities

import (
	"strconv"
	"time"
)

// Account represents a Discord user's row in the accounts table, holding
// the cached DMOJ identity for that user when one is linked.
type Account struct {
	DiscordID int64     `db:"discord_id"`
	DMOJID    *int64    `db:"dmoj_id"`
	Username  *string   `db:"username"`
	Rating    *int      `db:"rating"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsLinked reports whether the account currently holds a DMOJ identity.
func (a *Account) IsLinked() bool {
	return a.DMOJID != nil
}

// Link sets the cached DMOJ identity on the account.
func (a *Account) Link(dmojID int64, username string, rating *int) {
	a.DMOJID = &dmojID
	a.Username = &username
	a.Rating = rating
}

// Unlink clears the cached DMOJ identity from the account.
func (a *Account) Unlink() {
	a.DMOJID = nil
	a.Username = nil
	a.Rating = nil
}

// DisplayUsername returns the cached username, or a placeholder when the
// account has none cached.
func (a *Account) DisplayUsername() string {
	if a.Username == nil {
		return "Unknown"
	}
	return *a.Username
}

// DisplayRating returns the cached rating as text, or "Unrated" when the
// account has no rating.
func (a *Account) DisplayRating() string {
	if a.Rating == nil {
		return "Unrated"
	}
	return strconv.Itoa(*a.Rating)
}
