package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ninjaclasher/DMOJ-Bot/dmoj"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432")
	t.Setenv("DMOJ_API_KEY", "api-key")
	t.Setenv("LINK_SECRET", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := load()
	require.NoError(t, err)
	assert.Equal(t, "https://dmoj.ca", cfg.DMOJBaseURL)
	assert.Equal(t, "api/v2", cfg.DMOJAPIPath)
	assert.Equal(t, 0xFF6E00, cfg.BotColour)
	assert.Equal(t, 50, cfg.ResyncBatchSize)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 500*time.Millisecond, cfg.DMOJDelays[dmoj.RateDefault])
	assert.Equal(t, 5*time.Second, cfg.DMOJDelays[dmoj.RateLong])
}

func TestLoad_ParsesGuildIDs(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GUILD_IDS", "100, 200,300")

	cfg, err := load()
	require.NoError(t, err)
	assert.Equal(t, []int64{100, 200, 300}, cfg.GuildIDs)
}

func TestLoad_RejectsBadGuildIDs(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GUILD_IDS", "100,not-a-number")

	_, err := load()
	assert.Error(t, err)
}

func TestLoad_ParsesRoleIDs(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ROLE_IDS", `{"100":{"verified":10,"newbie":11},"200":{"verified":20}}`)

	cfg, err := load()
	require.NoError(t, err)
	assert.Equal(t, int64(10), cfg.RoleIDs[100]["verified"])
	assert.Equal(t, int64(11), cfg.RoleIDs[100]["newbie"])
	assert.Equal(t, int64(20), cfg.RoleIDs[200]["verified"])
}

func TestLoad_RejectsBadRoleIDs(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ROLE_IDS", `{"not-a-number":{"verified":10}}`)

	_, err := load()
	assert.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BOT_COLOUR", "0x00FF00")
	t.Setenv("RESYNC_BATCH_SIZE", "25")
	t.Setenv("DMOJ_DELAY_DEFAULT_MS", "100")
	t.Setenv("DMOJ_DELAY_LONG_MS", "2000")

	cfg, err := load()
	require.NoError(t, err)
	assert.Equal(t, 0x00FF00, cfg.BotColour)
	assert.Equal(t, 25, cfg.ResyncBatchSize)
	assert.Equal(t, 100*time.Millisecond, cfg.DMOJDelays[dmoj.RateDefault])
	assert.Equal(t, 2*time.Second, cfg.DMOJDelays[dmoj.RateLong])
}

func TestLoad_RequiresSecretsOutsideTestEnvironment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DISCORD_TOKEN", "")

	_, err := load()
	assert.Error(t, err)

	t.Setenv("ENVIRONMENT", "test")
	_, err = load()
	assert.NoError(t, err)
}
