package link

import (
	"github.com/bwmarrin/discordgo"

	"github.com/Ninjaclasher/DMOJ-Bot/domain/interfaces"
)

// Feature handles the /link, /unlink and /manage-link commands.
type Feature struct {
	linkService interfaces.LinkService
	baseURL     string
}

// NewFeature creates a new link feature instance. baseURL is the DMOJ
// site root, used to point users at their profile edit page.
func NewFeature(linkService interfaces.LinkService, baseURL string) *Feature {
	return &Feature{
		linkService: linkService,
		baseURL:     baseURL,
	}
}

// HandleCommand routes link-related slash commands.
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "link":
		f.handleLink(s, i)
	case "unlink":
		f.handleUnlink(s, i)
	case "manage-link":
		f.handleManageLink(s, i)
	}
}
