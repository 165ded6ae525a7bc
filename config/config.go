package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Ninjaclasher/DMOJ-Bot/database"
	"github.com/Ninjaclasher/DMOJ-Bot/dmoj"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string
	GuildIDs       []int64 // Guilds the bot serves
	ErrorChannelID string  // Optional channel for operator error reports
	BotColour      int     // Accent colour for embeds

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// DMOJ API configuration
	DMOJAPIKey  string
	DMOJBaseURL string
	DMOJAPIPath string
	DMOJDelays  map[string]time.Duration // Per-rate-class minimum delays

	// Link configuration
	LinkSecret      string                     // Shared secret for challenge token derivation
	RoleIDs         map[int64]map[string]int64 // Guild ID -> role name -> Discord role ID
	ResyncBatchSize int                        // Batch size for bulk profile updates

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Discord
		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		ErrorChannelID: os.Getenv("ERROR_CHANNEL_ID"),
		BotColour:      0xFF6E00,

		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		// DMOJ API
		DMOJAPIKey:  os.Getenv("DMOJ_API_KEY"),
		DMOJBaseURL: getEnvWithDefault("DMOJ_BASE_URL", "https://dmoj.ca"),
		DMOJAPIPath: getEnvWithDefault("DMOJ_API_PATH", "api/v2"),
		DMOJDelays: map[string]time.Duration{
			dmoj.RateDefault: 500 * time.Millisecond,
			dmoj.RateLong:    5 * time.Second,
		},

		// Link
		LinkSecret:      os.Getenv("LINK_SECRET"),
		RoleIDs:         make(map[int64]map[string]int64),
		ResyncBatchSize: 50,

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Parse guild IDs
	if guildIDs := os.Getenv("GUILD_IDS"); guildIDs != "" {
		for _, idStr := range strings.Split(guildIDs, ",") {
			idStr = strings.TrimSpace(idStr)
			if idStr == "" {
				continue
			}
			id, err := strconv.ParseInt(idStr, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid guild ID %q in GUILD_IDS", idStr)
			}
			config.GuildIDs = append(config.GuildIDs, id)
		}
	}

	// Parse the per-guild role mapping: {"<guild id>": {"verified": <role id>, "newbie": <role id>, ...}}
	if roleIDs := os.Getenv("ROLE_IDS"); roleIDs != "" {
		var raw map[string]map[string]int64
		if err := json.Unmarshal([]byte(roleIDs), &raw); err != nil {
			return nil, fmt.Errorf("invalid ROLE_IDS JSON: %w", err)
		}
		for guildStr, mapping := range raw {
			guildID, err := strconv.ParseInt(guildStr, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid guild ID %q in ROLE_IDS", guildStr)
			}
			config.RoleIDs[guildID] = mapping
		}
	}

	// Override defaults if environment variables are set
	if colour := os.Getenv("BOT_COLOUR"); colour != "" {
		if parsed, err := strconv.ParseInt(strings.TrimPrefix(colour, "0x"), 16, 32); err == nil {
			config.BotColour = int(parsed)
		}
	}
	if batchSize := os.Getenv("RESYNC_BATCH_SIZE"); batchSize != "" {
		if parsed, err := strconv.Atoi(batchSize); err == nil && parsed > 0 {
			config.ResyncBatchSize = parsed
		}
	}
	if delayMs := os.Getenv("DMOJ_DELAY_DEFAULT_MS"); delayMs != "" {
		if parsed, err := strconv.Atoi(delayMs); err == nil && parsed >= 0 {
			config.DMOJDelays[dmoj.RateDefault] = time.Duration(parsed) * time.Millisecond
		}
	}
	if delayMs := os.Getenv("DMOJ_DELAY_LONG_MS"); delayMs != "" {
		if parsed, err := strconv.Atoi(delayMs); err == nil && parsed >= 0 {
			config.DMOJDelays[dmoj.RateLong] = time.Duration(parsed) * time.Millisecond
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.DMOJAPIKey == "" {
			return nil, fmt.Errorf("DMOJ_API_KEY is required")
		}
		if config.LinkSecret == "" {
			return nil, fmt.Errorf("LINK_SECRET is required")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment: "test",
		BotColour:   0xFF6E00,
		LinkSecret:  "test-secret",
		DMOJDelays: map[string]time.Duration{
			dmoj.RateDefault: 0,
			dmoj.RateLong:    0,
		},
		RoleIDs:         make(map[int64]map[string]int64),
		ResyncBatchSize: 50,
	}
}
