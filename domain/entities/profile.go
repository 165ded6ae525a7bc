package entities

import "time"

// Profile is a user's record on DMOJ as returned by the API.
type Profile struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Rating   *int   `json:"rating"`
}

// ContestRanking is a single row of a contest's rankings.
type ContestRanking struct {
	User    string
	EndTime time.Time
}

// Contest is a contest record on DMOJ, reduced to the fields the bot
// consumes.
type Contest struct {
	Key      string
	Name     string
	Rankings []ContestRanking
}

// SyncReport summarizes a bulk resync pass over linked accounts.
type SyncReport struct {
	Examined int
	Updated  int
}
