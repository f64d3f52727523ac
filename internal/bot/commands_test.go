package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siegetracker/internal/tracker"
)

func TestCustomIDRoundTrip(t *testing.T) {
	for _, slot := range []tracker.Slot{tracker.P1, tracker.P2} {
		for _, action := range []string{actionPlus, actionMinus, actionPenalty, actionRemaining} {
			id := customID(slot, action)
			gotSlot, gotAction, ok := parseCustomID(id)
			require.True(t, ok, "id %s", id)
			assert.Equal(t, slot, gotSlot, "id %s", id)
			assert.Equal(t, action, gotAction, "id %s", id)
		}
	}
}

func TestParseCustomIDRejectsForeignIDs(t *testing.T) {
	for _, id := range []string{
		"",
		"something-else",
		"tracker-p3-plus",
		"tracker-p1-explode",
		"tracker-p1",
		"other-p1-plus",
	} {
		_, _, ok := parseCustomID(id)
		assert.False(t, ok, "id %q should be rejected", id)
	}
}

func TestCommandDefinitions(t *testing.T) {
	require.Len(t, Commands, 1)
	cmd := Commands[0]
	assert.Equal(t, commandName, cmd.Name)

	subs := make(map[string]*discordgo.ApplicationCommandOption, len(cmd.Options))
	for _, sub := range cmd.Options {
		assert.Equal(t, discordgo.ApplicationCommandOptionSubCommand, sub.Type)
		subs[sub.Name] = sub
	}
	for _, name := range []string{"start", "play", "unplay", "remaining", "show", "stop"} {
		require.Contains(t, subs, name)
	}

	// play and unplay autocomplete both of their options.
	for _, name := range []string{"play", "unplay"} {
		require.Len(t, subs[name].Options, 2)
		for _, opt := range subs[name].Options {
			assert.True(t, opt.Required, "%s %s", name, opt.Name)
			assert.True(t, opt.Autocomplete, "%s %s", name, opt.Name)
		}
	}
	assert.True(t, subs["remaining"].Options[0].Autocomplete)
}
