package common

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Detail blocks posted to the error channel are truncated to fit inside
// an embed description.
const maxErrorDetailLength = 3000

var (
	errorChannelID string
	embedColour    = 0xFF6E00
)

// Configure sets the operator error channel and embed accent colour.
// Called once from bot startup.
func Configure(channelID string, colour int) {
	errorChannelID = channelID
	embedColour = colour
}

// EmbedColour returns the configured embed accent colour.
func EmbedColour() int {
	return embedColour
}

// BotError represents a structured error with user-facing and internal messages
type BotError struct {
	UserMessage string // Message shown to Discord user
	LogMessage  string // Internal message for logging
	Err         error  // Underlying error
}

// Error implements the error interface
func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

// Unwrap returns the underlying error
func (e *BotError) Unwrap() error {
	return e.Err
}

// NewUserError creates an error for user-caused issues (bad input, expected conditions)
func NewUserError(userMessage string, logMessage string) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  logMessage,
	}
}

// NewSystemError creates an error for system issues (database, unexpected state)
func NewSystemError(err error, logMessage string) *BotError {
	return &BotError{
		UserMessage: "Something went wrong. Please try again later.",
		LogMessage:  logMessage,
		Err:         err,
	}
}

// HandleError processes an error from a command handler. BotErrors carry
// their own user message; anything else is logged with context, reported
// to the operator error channel, and answered with a generic message.
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, deferred bool) {
	if botErr, ok := err.(*BotError); ok {
		log.WithFields(log.Fields{
			"user_id": i.Member.User.ID,
			"command": i.ApplicationCommandData().Name,
			"error":   botErr.Error(),
		}).Error(botErr.LogMessage)

		respond(s, i, botErr.UserMessage, deferred)
		return
	}

	log.WithFields(log.Fields{
		"user_id": i.Member.User.ID,
		"command": i.ApplicationCommandData().Name,
		"error":   err.Error(),
	}).Error("Unexpected error in bot command")

	ReportToErrorChannel(s, fmt.Sprintf("/%s: %v", i.ApplicationCommandData().Name, err))
	respond(s, i, "Something went wrong. Please try again later.", deferred)
}

// ReportToErrorChannel renders failure detail to the operator-designated
// error channel, when one is configured.
func ReportToErrorChannel(s *discordgo.Session, detail string) {
	if errorChannelID == "" {
		return
	}

	if len(detail) > maxErrorDetailLength {
		detail = detail[:maxErrorDetailLength]
	}

	embed := &discordgo.MessageEmbed{
		Title:       "ERROR",
		Description: fmt.Sprintf("```%s```", detail),
		Color:       embedColour,
	}
	if _, err := s.ChannelMessageSendEmbed(errorChannelID, embed); err != nil {
		log.Errorf("Failed to send error report to channel %s: %v", errorChannelID, err)
	}
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, message string, deferred bool) {
	if deferred {
		FollowUpWithMessage(s, i, message)
	} else {
		RespondWithMessage(s, i, message)
	}
}
