package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Ninjaclasher/DMOJ-Bot/bot"
	"github.com/Ninjaclasher/DMOJ-Bot/config"
	"github.com/Ninjaclasher/DMOJ-Bot/database"
	"github.com/Ninjaclasher/DMOJ-Bot/dmoj"
	"github.com/Ninjaclasher/DMOJ-Bot/repository"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting DMOJ bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db)

	// Initialize DMOJ API client
	client := dmoj.NewClient(dmoj.Config{
		BaseURL: cfg.DMOJBaseURL,
		APIPath: cfg.DMOJAPIPath,
		APIKey:  cfg.DMOJAPIKey,
		Delays:  cfg.DMOJDelays,
	})

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:           cfg.DiscordToken,
		GuildIDs:        cfg.GuildIDs,
		ErrorChannelID:  cfg.ErrorChannelID,
		BotColour:       cfg.BotColour,
		DMOJBaseURL:     cfg.DMOJBaseURL,
		LinkSecret:      cfg.LinkSecret,
		RoleIDs:         cfg.RoleIDs,
		ResyncBatchSize: cfg.ResyncBatchSize,
	}
	discordBot, err := bot.New(botConfig, uowFactory, client)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")
	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
