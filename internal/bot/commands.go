package bot

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"siegetracker/internal/tracker"
)

const commandName = "tracker"

// Commands defines all slash commands for the bot.
var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        commandName,
		Description: "2-player Siege operator tracker",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "start",
				Description: "Start a new 2-player tracker in this channel",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "player1",
						Description: "Display name for Player 1",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "player2",
						Description: "Display name for Player 2",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "play",
				Description: "Mark an operator as played for a player",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:         discordgo.ApplicationCommandOptionString,
						Name:         "player",
						Description:  "Who played? (P1/P2 or the player's name)",
						Required:     true,
						Autocomplete: true,
					},
					{
						Type:         discordgo.ApplicationCommandOptionString,
						Name:         "operator",
						Description:  "Operator name",
						Required:     true,
						Autocomplete: true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "unplay",
				Description: "Undo a mistaken operator mark for a player",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:         discordgo.ApplicationCommandOptionString,
						Name:         "player",
						Description:  "Which player? (P1/P2 or the player's name)",
						Required:     true,
						Autocomplete: true,
					},
					{
						Type:         discordgo.ApplicationCommandOptionString,
						Name:         "operator",
						Description:  "Operator name",
						Required:     true,
						Autocomplete: true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "remaining",
				Description: "Show remaining operators for a player",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:         discordgo.ApplicationCommandOptionString,
						Name:         "player",
						Description:  "Which player? (P1/P2 or the player's name)",
						Required:     true,
						Autocomplete: true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "show",
				Description: "Refresh the tracker message and post a full snapshot",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "stop",
				Description: "Close the tracker in this server",
			},
		},
	},
}

// Component custom-ID actions. The full ID is "tracker-p1-plus" etc.
const (
	actionPlus      = "plus"
	actionMinus     = "minus"
	actionPenalty   = "penalty"
	actionRemaining = "remaining"
)

func customID(slot tracker.Slot, action string) string {
	return commandName + "-" + strings.ToLower(slot.String()) + "-" + action
}

// parseCustomID recovers the slot and action from a component custom ID. The
// third return is false for IDs that belong to something else.
func parseCustomID(id string) (tracker.Slot, string, bool) {
	parts := strings.SplitN(id, "-", 3)
	if len(parts) != 3 || parts[0] != commandName {
		return tracker.P1, "", false
	}
	var slot tracker.Slot
	switch parts[1] {
	case "p1":
		slot = tracker.P1
	case "p2":
		slot = tracker.P2
	default:
		return tracker.P1, "", false
	}
	switch parts[2] {
	case actionPlus, actionMinus, actionPenalty, actionRemaining:
		return slot, parts[2], true
	}
	return tracker.P1, "", false
}
