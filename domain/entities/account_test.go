package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccountLinkUnlink(t *testing.T) {
	account := &Account{DiscordID: 42}
	assert.False(t, account.IsLinked())

	account.Link(7, "Alice", intPtr(1500))
	assert.True(t, account.IsLinked())
	assert.Equal(t, int64(7), *account.DMOJID)
	assert.Equal(t, "Alice", *account.Username)
	assert.Equal(t, 1500, *account.Rating)

	account.Unlink()
	assert.False(t, account.IsLinked())
	assert.Nil(t, account.DMOJID)
	assert.Nil(t, account.Username)
	assert.Nil(t, account.Rating)
}

func TestAccountDisplayHelpers(t *testing.T) {
	account := &Account{DiscordID: 42}
	assert.Equal(t, "Unknown", account.DisplayUsername())
	assert.Equal(t, "Unrated", account.DisplayRating())

	account.Link(7, "Alice", intPtr(1500))
	assert.Equal(t, "Alice", account.DisplayUsername())
	assert.Equal(t, "1500", account.DisplayRating())

	account.Rating = nil
	assert.Equal(t, "Unrated", account.DisplayRating())
}
