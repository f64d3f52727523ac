// Package bot is the Discord interaction layer: it translates slash
// commands, button presses and autocomplete queries into tracker.Manager
// calls and renders the results back as embeds and components. It holds no
// game state of its own; everything it shows is a projection of a
// tracker.View.
package bot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"siegetracker/internal/operators"
	"siegetracker/internal/tracker"
)

// maxChoices is Discord's cap on autocomplete suggestions.
const maxChoices = 25

const noTrackerMsg = "No active tracker here. Use /tracker start first."

type Bot struct {
	session *discordgo.Session
	manager *tracker.Manager
	log     *logrus.Logger
}

func New(session *discordgo.Session, manager *tracker.Manager, log *logrus.Logger) *Bot {
	return &Bot{
		session: session,
		manager: manager,
		log:     log,
	}
}

// Register attaches the interaction handler to the session.
func (b *Bot) Register() {
	b.session.AddHandler(b.handleInteraction)
}

// RegisterCommands overwrites the application's slash commands. With a guild
// ID the commands are guild-scoped and propagate immediately; empty
// registers them globally.
func (b *Bot) RegisterCommands(guildID string) error {
	_, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, guildID, Commands)
	if err != nil {
		return fmt.Errorf("registering commands: %w", err)
	}
	return nil
}

// UnregisterCommands removes the guild-scoped commands again.
func (b *Bot) UnregisterCommands(guildID string) error {
	_, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, guildID, nil)
	if err != nil {
		return fmt.Errorf("unregistering commands: %w", err)
	}
	return nil
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if i.ApplicationCommandData().Name == commandName {
			b.handleCommand(s, i)
		}
	case discordgo.InteractionApplicationCommandAutocomplete:
		if i.ApplicationCommandData().Name == commandName {
			b.handleAutocomplete(s, i)
		}
	case discordgo.InteractionMessageComponent:
		b.handleComponent(s, i)
	}
}

// ---- Slash commands ----

func (b *Bot) handleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		b.replyEphemeral(s, i, "Run this in a server channel, not DMs.")
		return
	}

	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]
	opts := optionMap(sub.Options)

	switch sub.Name {
	case "start":
		b.handleStart(s, i, optString(opts, "player1"), optString(opts, "player2"))
	case "play":
		b.handlePlay(s, i, optString(opts, "player"), optString(opts, "operator"))
	case "unplay":
		b.handleUnplay(s, i, optString(opts, "player"), optString(opts, "operator"))
	case "remaining":
		b.handleRemaining(s, i, optString(opts, "player"))
	case "show":
		b.handleShow(s, i)
	case "stop":
		b.handleStop(s, i)
	}
}

func (b *Bot) handleStart(s *discordgo.Session, i *discordgo.InteractionCreate, player1, player2 string) {
	v, err := b.manager.Create(i.GuildID, player1, player2)
	if err != nil {
		b.replyEphemeral(s, i, "Player names must not be empty.")
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{trackerEmbed(v)},
			Components: buttonRows(v),
		},
	})
	if err != nil {
		b.log.Errorln("Error sending tracker message:", err)
		return
	}

	// Bind the tracker to the message just sent so buttons and later
	// commands can re-render it.
	m, err := s.InteractionResponse(i.Interaction)
	if err != nil {
		b.log.Errorln("Error getting tracker message:", err)
		return
	}
	if err := b.manager.SetMessage(i.GuildID, m.ChannelID, m.ID); err != nil {
		b.log.Errorln("Error binding tracker message:", err)
		return
	}

	b.log.WithFields(logrus.Fields{
		"guild":   i.GuildID,
		"message": m.ID,
		"player1": v.Players[tracker.P1].Name,
		"player2": v.Players[tracker.P2].Name,
	}).Debugln("Tracker started")
}

func (b *Bot) handlePlay(s *discordgo.Session, i *discordgo.InteractionCreate, playerArg, operator string) {
	slot, ok := b.resolvePlayerArg(s, i, playerArg)
	if !ok {
		return
	}

	res, err := b.manager.MarkPlayed(i.GuildID, slot, operator)
	if err != nil {
		if errors.Is(err, tracker.ErrUnknownOperator) {
			b.replyEphemeral(s, i, fmt.Sprintf("`%s` isn't a recognized operator.", operator))
		} else {
			b.replyEphemeral(s, i, noTrackerMsg)
		}
		return
	}

	v, err := b.manager.Snapshot(i.GuildID)
	if err != nil {
		b.replyEphemeral(s, i, noTrackerMsg)
		return
	}
	name := v.Player(slot).Name

	if res == tracker.AlreadyPlayed {
		b.replyEphemeral(s, i, fmt.Sprintf("%s already played **%s**.", name, operator))
		return
	}

	b.refreshTrackerMessage(s, v)
	b.replyEphemeral(s, i, fmt.Sprintf("Marked **%s** as played for **%s**.", operator, name))

	b.log.WithFields(logrus.Fields{
		"guild":    i.GuildID,
		"player":   slot.String(),
		"operator": operator,
	}).Debugln("Operator marked played")
}

func (b *Bot) handleUnplay(s *discordgo.Session, i *discordgo.InteractionCreate, playerArg, operator string) {
	slot, ok := b.resolvePlayerArg(s, i, playerArg)
	if !ok {
		return
	}

	res, err := b.manager.UnmarkPlayed(i.GuildID, slot, operator)
	if err != nil {
		if errors.Is(err, tracker.ErrUnknownOperator) {
			b.replyEphemeral(s, i, fmt.Sprintf("`%s` isn't a recognized operator.", operator))
		} else {
			b.replyEphemeral(s, i, noTrackerMsg)
		}
		return
	}

	v, err := b.manager.Snapshot(i.GuildID)
	if err != nil {
		b.replyEphemeral(s, i, noTrackerMsg)
		return
	}
	name := v.Player(slot).Name

	if res == tracker.NotPlayed {
		b.replyEphemeral(s, i, fmt.Sprintf("%s hasn't played **%s** yet.", name, operator))
		return
	}

	b.refreshTrackerMessage(s, v)
	b.replyEphemeral(s, i, fmt.Sprintf("Unmarked **%s** for **%s**.", operator, name))

	b.log.WithFields(logrus.Fields{
		"guild":    i.GuildID,
		"player":   slot.String(),
		"operator": operator,
	}).Debugln("Operator mark undone")
}

func (b *Bot) handleRemaining(s *discordgo.Session, i *discordgo.InteractionCreate, playerArg string) {
	slot, ok := b.resolvePlayerArg(s, i, playerArg)
	if !ok {
		return
	}

	remaining, err := b.manager.RemainingOperators(i.GuildID, slot)
	if err != nil {
		b.replyEphemeral(s, i, noTrackerMsg)
		return
	}
	v, err := b.manager.Snapshot(i.GuildID)
	if err != nil {
		b.replyEphemeral(s, i, noTrackerMsg)
		return
	}

	b.replyEphemeralEmbeds(s, i, remainingEmbed(v.Player(slot).Name, remaining))
}

func (b *Bot) handleShow(s *discordgo.Session, i *discordgo.InteractionCreate) {
	v, err := b.manager.Snapshot(i.GuildID)
	if err != nil {
		b.replyEphemeral(s, i, noTrackerMsg)
		return
	}

	var remaining [2][]string
	for _, slot := range []tracker.Slot{tracker.P1, tracker.P2} {
		remaining[slot], err = b.manager.RemainingOperators(i.GuildID, slot)
		if err != nil {
			b.replyEphemeral(s, i, noTrackerMsg)
			return
		}
	}

	// Refresh the live tracker message first so its buttons stay current,
	// then post the snapshot publicly.
	b.refreshTrackerMessage(s, v)
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: snapshotEmbeds(v, remaining),
		},
	})
	if err != nil {
		b.log.Errorln("Error sending snapshot:", err)
	}
}

func (b *Bot) handleStop(s *discordgo.Session, i *discordgo.InteractionCreate) {
	v, err := b.manager.Snapshot(i.GuildID)
	if err != nil {
		b.replyEphemeral(s, i, noTrackerMsg)
		return
	}
	b.manager.Close(i.GuildID)

	// Grey out the old message's buttons so it stops inviting presses.
	if v.MessageID != "" {
		embeds := []*discordgo.MessageEmbed{trackerEmbed(v)}
		components := disabledButtonRows(v)
		_, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
			ID:         v.MessageID,
			Channel:    v.ChannelID,
			Embeds:     &embeds,
			Components: &components,
		})
		if err != nil {
			b.log.Errorln("Error disabling tracker message:", err)
		}
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("Tracker closed. Final score: **%s** %d – %d **%s**.",
				v.Players[tracker.P1].Name, v.Players[tracker.P1].Score,
				v.Players[tracker.P2].Score, v.Players[tracker.P2].Name),
		},
	})
	if err != nil {
		b.log.Errorln("Error sending stop message:", err)
	}

	b.log.WithFields(logrus.Fields{
		"guild": i.GuildID,
	}).Debugln("Tracker closed")
}

// ---- Buttons ----

func (b *Bot) handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	slot, action, ok := parseCustomID(i.MessageComponentData().CustomID)
	if !ok {
		return
	}
	if i.GuildID == "" {
		b.replyEphemeral(s, i, "Run this in a server channel, not DMs.")
		return
	}

	var err error
	switch action {
	case actionPlus:
		_, err = b.manager.IncrementScore(i.GuildID, slot)
	case actionMinus:
		_, err = b.manager.DecrementScore(i.GuildID, slot)
	case actionPenalty:
		b.handlePenaltyButton(s, i, slot)
		return
	case actionRemaining:
		b.handleRemainingButton(s, i, slot)
		return
	}
	if err != nil {
		b.warnMissingTracker(i, action)
		b.replyEphemeral(s, i, noTrackerMsg)
		return
	}

	b.updateFromButton(s, i)
}

func (b *Bot) handlePenaltyButton(s *discordgo.Session, i *discordgo.InteractionCreate, slot tracker.Slot) {
	res, err := b.manager.ApplyPenalty(i.GuildID, slot)
	if err != nil {
		b.warnMissingTracker(i, actionPenalty)
		b.replyEphemeral(s, i, noTrackerMsg)
		return
	}

	if res == tracker.Rejected {
		// The button was stale: the precondition is validated here, not
		// by the greyed-out rendering.
		v, err := b.manager.Snapshot(i.GuildID)
		if err != nil {
			b.replyEphemeral(s, i, noTrackerMsg)
			return
		}
		p := v.Player(slot)
		if p.PenaltyApplied {
			b.replyEphemeral(s, i, fmt.Sprintf("%s has already taken the penalty.", p.Name))
		} else {
			b.replyEphemeral(s, i, fmt.Sprintf("%s still has %d operators to play before the penalty unlocks.", p.Name, p.Remaining))
		}
		return
	}

	b.log.WithFields(logrus.Fields{
		"guild":  i.GuildID,
		"player": slot.String(),
	}).Debugln("Penalty applied")

	b.updateFromButton(s, i)
}

func (b *Bot) handleRemainingButton(s *discordgo.Session, i *discordgo.InteractionCreate, slot tracker.Slot) {
	remaining, err := b.manager.RemainingOperators(i.GuildID, slot)
	if err != nil {
		b.warnMissingTracker(i, actionRemaining)
		b.replyEphemeral(s, i, noTrackerMsg)
		return
	}
	v, err := b.manager.Snapshot(i.GuildID)
	if err != nil {
		b.replyEphemeral(s, i, noTrackerMsg)
		return
	}

	b.replyEphemeralEmbeds(s, i, remainingEmbed(v.Player(slot).Name, remaining))
}

// updateFromButton re-renders the tracker message in place as the response
// to a button press.
func (b *Bot) updateFromButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	v, err := b.manager.Snapshot(i.GuildID)
	if err != nil {
		b.replyEphemeral(s, i, noTrackerMsg)
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{trackerEmbed(v)},
			Components: buttonRows(v),
		},
	})
	if err != nil {
		b.log.Errorln("Error updating tracker message:", err)
	}
}

// ---- Autocomplete ----

func (b *Bot) handleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]

	var focused *discordgo.ApplicationCommandInteractionDataOption
	for _, opt := range sub.Options {
		if opt.Focused {
			focused = opt
			break
		}
	}
	if focused == nil {
		return
	}

	var pool []string
	switch focused.Name {
	case "player":
		pool = b.playerChoices(i.GuildID)
	case "operator":
		pool = b.operatorChoices(i.GuildID, sub)
	default:
		return
	}

	query := strings.ToLower(strings.TrimSpace(focused.StringValue()))
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, maxChoices)
	for _, c := range pool {
		if query != "" && !strings.Contains(strings.ToLower(c), query) {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: c, Value: c})
		if len(choices) == maxChoices {
			break
		}
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
	if err != nil {
		b.log.Errorln("Error sending autocomplete choices:", err)
	}
}

func (b *Bot) playerChoices(guildID string) []string {
	v, err := b.manager.Snapshot(guildID)
	if err != nil {
		return []string{"P1", "P2"}
	}
	return []string{
		v.Players[tracker.P1].Name,
		v.Players[tracker.P2].Name,
		"P1",
		"P2",
	}
}

// operatorChoices narrows the operator pool to what the selected player can
// still play (or, for unplay, what they already have). Without a tracker or
// a resolvable player the full catalog is offered.
func (b *Bot) operatorChoices(guildID string, sub *discordgo.ApplicationCommandInteractionDataOption) []string {
	playerArg := ""
	for _, opt := range sub.Options {
		if opt.Name == "player" {
			playerArg = opt.StringValue()
			break
		}
	}

	slot, err := b.manager.ResolvePlayer(guildID, playerArg)
	if err != nil {
		return operators.All()
	}

	remaining, err := b.manager.RemainingOperators(guildID, slot)
	if err != nil {
		return operators.All()
	}

	if sub.Name == "unplay" {
		left := make(map[string]bool, len(remaining))
		for _, op := range remaining {
			left[op] = true
		}
		var played []string
		for _, op := range operators.All() {
			if !left[op] {
				played = append(played, op)
			}
		}
		return played
	}
	return remaining
}

// ---- Shared helpers ----

func (b *Bot) resolvePlayerArg(s *discordgo.Session, i *discordgo.InteractionCreate, arg string) (tracker.Slot, bool) {
	slot, err := b.manager.ResolvePlayer(i.GuildID, arg)
	if err != nil {
		if errors.Is(err, tracker.ErrNotFound) {
			b.replyEphemeral(s, i, noTrackerMsg)
		} else {
			b.replyEphemeral(s, i, "I couldn't match that player. Use P1/P2 or the exact name shown in the tracker.")
		}
		return tracker.P1, false
	}
	return slot, true
}

// refreshTrackerMessage re-renders the live tracker message after a slash
// command mutated state. Fire-and-forget: a failed edit does not affect
// tracker state.
func (b *Bot) refreshTrackerMessage(s *discordgo.Session, v *tracker.View) {
	if v.MessageID == "" {
		return
	}
	embeds := []*discordgo.MessageEmbed{trackerEmbed(v)}
	components := buttonRows(v)
	_, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         v.MessageID,
		Channel:    v.ChannelID,
		Embeds:     &embeds,
		Components: &components,
	})
	if err != nil {
		b.log.Errorln("Error refreshing tracker message:", err)
	}
}

func (b *Bot) replyEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   1 << 6, // User-only visibility.
		},
	})
	if err != nil {
		b.log.Errorln("Error sending reply:", err)
	}
}

func (b *Bot) replyEphemeralEmbeds(s *discordgo.Session, i *discordgo.InteractionCreate, embeds ...*discordgo.MessageEmbed) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: embeds,
			Flags:  1 << 6, // User-only visibility.
		},
	})
	if err != nil {
		b.log.Errorln("Error sending reply:", err)
	}
}

func (b *Bot) warnMissingTracker(i *discordgo.InteractionCreate, action string) {
	b.log.WithFields(logrus.Fields{
		"guild":  i.GuildID,
		"action": action,
	}).Warnln("Button pressed for nonexistent tracker")
}

func optionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, opt := range opts {
		m[opt.Name] = opt
	}
	return m
}

// optString reads a string option, tolerating payloads that omit it. The
// required flags on the command definition make absence abnormal, but a
// malformed interaction must not panic the handler.
func optString(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	opt, ok := opts[name]
	if !ok {
		return ""
	}
	return opt.StringValue()
}
