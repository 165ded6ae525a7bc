package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/Ninjaclasher/DMOJ-Bot/bot/common"
	"github.com/Ninjaclasher/DMOJ-Bot/bot/features/link"
	"github.com/Ninjaclasher/DMOJ-Bot/bot/features/postcontest"
	"github.com/Ninjaclasher/DMOJ-Bot/bot/features/resync"
	"github.com/Ninjaclasher/DMOJ-Bot/bot/features/whois"
	"github.com/Ninjaclasher/DMOJ-Bot/domain/interfaces"
	"github.com/Ninjaclasher/DMOJ-Bot/domain/services"
)

// Config holds bot configuration
type Config struct {
	Token           string
	GuildIDs        []int64
	ErrorChannelID  string
	BotColour       int
	DMOJBaseURL     string
	LinkSecret      string
	RoleIDs         map[int64]map[string]int64
	ResyncBatchSize int
}

// Bot manages the Discord session and all feature modules
type Bot struct {
	config  Config
	session *discordgo.Session

	// Feature modules
	link        *link.Feature
	whois       *whois.Feature
	resync      *resync.Feature
	postcontest *postcontest.Feature
}

// New creates a new bot instance with all features and opens the gateway
// connection.
func New(config Config, uowFactory interfaces.UnitOfWorkFactory, client interfaces.DMOJClient) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	// Member lookups for role sync need the privileged members intent.
	dg.Identify.Intents = discordgo.IntentsAllWithoutPrivileged | discordgo.IntentGuildMembers

	common.Configure(config.ErrorChannelID, config.BotColour)

	// Domain services share the session through the RoleAdmin port.
	roleAdmin := NewRoleAdmin(dg)
	roleSync := services.NewRoleSyncService(roleAdmin, config.GuildIDs, config.RoleIDs)
	linkService := services.NewLinkService(uowFactory, client, roleSync, config.LinkSecret, config.ResyncBatchSize)

	bot := &Bot{
		config:  config,
		session: dg,
	}

	bot.link = link.NewFeature(linkService, config.DMOJBaseURL)
	bot.whois = whois.NewFeature(uowFactory)
	bot.resync = resync.NewFeature(linkService)
	bot.postcontest = postcontest.NewFeature(client, uowFactory)

	dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Infof("Logged in as %s (ID: %s)", r.User.Username, r.User.ID)
	})
	dg.AddHandler(bot.handleCommands)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	return bot, nil
}

// handleCommands routes slash commands to their feature modules.
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "link", "unlink", "manage-link":
		b.link.HandleCommand(s, i)
	case "whois":
		b.whois.HandleCommand(s, i)
	case "update-users":
		b.resync.HandleCommand(s, i)
	case "postcontest":
		b.postcontest.HandleCommand(s, i)
	default:
		log.Warnf("Unknown command: %s", i.ApplicationCommandData().Name)
	}
}

// Close gracefully shuts down the bot
func (b *Bot) Close() error {
	return b.session.Close()
}
