package postcontest

import (
	"github.com/bwmarrin/discordgo"

	"github.com/Ninjaclasher/DMOJ-Bot/domain/interfaces"
)

// Feature handles the /postcontest command.
type Feature struct {
	client     interfaces.DMOJClient
	uowFactory interfaces.UnitOfWorkFactory
}

// NewFeature creates a new postcontest feature instance.
func NewFeature(client interfaces.DMOJClient, uowFactory interfaces.UnitOfWorkFactory) *Feature {
	return &Feature{
		client:     client,
		uowFactory: uowFactory,
	}
}

// HandleCommand handles the /postcontest slash command.
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handlePostcontest(s, i)
}
