package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siegetracker/internal/operators"
	"siegetracker/internal/tracker"
)

// newTestBot builds a Bot without a session; the choice helpers under test
// only touch the manager.
func newTestBot(m *tracker.Manager) *Bot {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return New(nil, m, log)
}

func TestPlayerChoices(t *testing.T) {
	b := newTestBot(tracker.NewManager())

	// Without a tracker only the slot references are offered.
	assert.Equal(t, []string{"P1", "P2"}, b.playerChoices(testGuild))

	_, err := b.manager.Create(testGuild, "Alice", "Bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob", "P1", "P2"}, b.playerChoices(testGuild))
}

func playSubOption(subName, playerArg string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name: subName,
		Type: discordgo.ApplicationCommandOptionSubCommand,
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{
				Name:  "player",
				Type:  discordgo.ApplicationCommandOptionString,
				Value: playerArg,
			},
		},
	}
}

func TestOperatorChoicesPlay(t *testing.T) {
	b := newTestBot(newTestManager(t))

	// Full catalog before anything is played.
	choices := b.operatorChoices(testGuild, playSubOption("play", "Alice"))
	assert.Equal(t, operators.All(), choices)

	_, err := b.manager.MarkPlayed(testGuild, tracker.P1, "Sledge")
	require.NoError(t, err)

	choices = b.operatorChoices(testGuild, playSubOption("play", "Alice"))
	assert.Len(t, choices, operators.Count-1)
	assert.NotContains(t, choices, "Sledge")

	// Bob's pool is unaffected.
	choices = b.operatorChoices(testGuild, playSubOption("play", "Bob"))
	assert.Contains(t, choices, "Sledge")
}

func TestOperatorChoicesUnplay(t *testing.T) {
	b := newTestBot(newTestManager(t))

	// Nothing played yet, nothing to undo.
	choices := b.operatorChoices(testGuild, playSubOption("unplay", "Alice"))
	assert.Empty(t, choices)

	_, err := b.manager.MarkPlayed(testGuild, tracker.P1, "Sledge")
	require.NoError(t, err)
	_, err = b.manager.MarkPlayed(testGuild, tracker.P1, "Rook")
	require.NoError(t, err)

	choices = b.operatorChoices(testGuild, playSubOption("unplay", "Alice"))
	assert.ElementsMatch(t, []string{"Sledge", "Rook"}, choices)
}

func TestOptStringToleratesMissingOptions(t *testing.T) {
	opts := optionMap([]*discordgo.ApplicationCommandInteractionDataOption{
		{
			Name:  "player",
			Type:  discordgo.ApplicationCommandOptionString,
			Value: "Alice",
		},
	})

	assert.Equal(t, "Alice", optString(opts, "player"))
	// A payload missing a required option must not panic the handler.
	assert.Equal(t, "", optString(opts, "operator"))
	assert.Equal(t, "", optString(nil, "player"))
}

func TestOperatorChoicesFallbacks(t *testing.T) {
	b := newTestBot(tracker.NewManager())

	// No tracker: offer the whole catalog rather than failing.
	choices := b.operatorChoices(testGuild, playSubOption("play", "Alice"))
	assert.Equal(t, operators.All(), choices)

	// Tracker but unresolvable player: same fallback.
	_, err := b.manager.Create(testGuild, "Alice", "Bob")
	require.NoError(t, err)
	choices = b.operatorChoices(testGuild, playSubOption("play", "Nobody"))
	assert.Equal(t, operators.All(), choices)
}
