package resync

import (
	"github.com/bwmarrin/discordgo"

	"github.com/Ninjaclasher/DMOJ-Bot/domain/interfaces"
)

// Feature handles the /update-users command.
type Feature struct {
	linkService interfaces.LinkService
}

// NewFeature creates a new resync feature instance.
func NewFeature(linkService interfaces.LinkService) *Feature {
	return &Feature{linkService: linkService}
}

// HandleCommand handles the /update-users slash command.
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleUpdateUsers(s, i)
}
