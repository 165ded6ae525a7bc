package whois

import (
	"github.com/bwmarrin/discordgo"

	"github.com/Ninjaclasher/DMOJ-Bot/domain/interfaces"
)

// Feature handles the /whois command.
type Feature struct {
	uowFactory interfaces.UnitOfWorkFactory
}

// NewFeature creates a new whois feature instance.
func NewFeature(uowFactory interfaces.UnitOfWorkFactory) *Feature {
	return &Feature{uowFactory: uowFactory}
}

// HandleCommand handles the /whois slash command.
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleWhois(s, i)
}
