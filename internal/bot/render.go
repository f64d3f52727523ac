package bot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"siegetracker/internal/operators"
	"siegetracker/internal/tracker"
)

const (
	colorBlurple = 0x5865F2
	colorGreen   = 0x57F287

	// Discord caps embed field values at 1024 characters; chunk well under
	// that so the side headers fit too.
	fieldChunkChars = 900

	trackerTitle = "🎯 2-Player Siege Tracker"
)

const trackerUsage = "Use **/tracker play** to mark an operator as played.\n" +
	"Use the **View Remaining** buttons or `/tracker remaining` to see operators left.\n" +
	"Buttons adjust scores. Penalty buttons unlock once a player has played all operators (−10)."

// trackerEmbed renders the live tracker message body from a view. Rendering
// is a pure projection: the same view always produces the same embed.
func trackerEmbed(v *tracker.View) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       trackerTitle,
		Description: trackerUsage,
		Color:       colorBlurple,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Player 1 – " + v.Players[tracker.P1].Name, Value: playerBlock(v.Players[tracker.P1])},
			{Name: "Player 2 – " + v.Players[tracker.P2].Name, Value: playerBlock(v.Players[tracker.P2])},
		},
	}
}

func playerBlock(p tracker.PlayerView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Score:** %d", p.Score)
	if p.PenaltyApplied {
		b.WriteString(" (penalty taken)")
	}
	fmt.Fprintf(&b, "\n**Totals:** Played %d / %d • Remaining %d\n",
		p.PlayedTotal, operators.Count, p.Remaining)
	fmt.Fprintf(&b, "**Attackers:** %d/%d played\nLast A: %s\n",
		p.PlayedAttackers, operators.AttackerCount, joinOrDash(p.LastAttackers))
	fmt.Fprintf(&b, "**Defenders:** %d/%d played\nLast D: %s",
		p.PlayedDefenders, operators.DefenderCount, joinOrDash(p.LastDefenders))
	return b.String()
}

// buttonRows renders the two per-player button rows. The penalty button is
// enabled exactly when ApplyPenalty would succeed; this is display state
// only, and the manager re-checks the precondition on press.
func buttonRows(v *tracker.View) []discordgo.MessageComponent {
	rows := make([]discordgo.MessageComponent, 0, 2)
	for _, slot := range []tracker.Slot{tracker.P1, tracker.P2} {
		p := v.Players[slot]
		rows = append(rows, discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    slot.String() + " +1",
					Style:    discordgo.SuccessButton,
					CustomID: customID(slot, actionPlus),
				},
				discordgo.Button{
					Label:    slot.String() + " -1",
					Style:    discordgo.SecondaryButton,
					CustomID: customID(slot, actionMinus),
				},
				discordgo.Button{
					Label:    slot.String() + " Penalty -10",
					Style:    discordgo.DangerButton,
					CustomID: customID(slot, actionPenalty),
					Disabled: !p.PenaltyEligible,
				},
				discordgo.Button{
					Label:    slot.String() + " View Remaining",
					Style:    discordgo.PrimaryButton,
					CustomID: customID(slot, actionRemaining),
				},
			},
		})
	}
	return rows
}

// disabledButtonRows renders the button rows with everything greyed out, for
// a closed tracker's final message state.
func disabledButtonRows(v *tracker.View) []discordgo.MessageComponent {
	rows := buttonRows(v)
	for i, row := range rows {
		ar := row.(discordgo.ActionsRow)
		for j, c := range ar.Components {
			btn := c.(discordgo.Button)
			btn.Disabled = true
			ar.Components[j] = btn
		}
		rows[i] = ar
	}
	return rows
}

// remainingEmbed renders the ephemeral remaining-operators list for one
// player, split into attacker and defender fields.
func remainingEmbed(name string, remaining []string) *discordgo.MessageEmbed {
	var att, def []string
	for _, op := range remaining {
		if side, _ := operators.SideOf(op); side == operators.Attacker {
			att = append(att, op)
		} else {
			def = append(def, op)
		}
	}

	e := &discordgo.MessageEmbed{
		Title:  "Remaining Operators – " + name,
		Color:  colorGreen,
		Footer: &discordgo.MessageEmbedFooter{Text: "Only you can see this (ephemeral)"},
	}
	addChunkedFields(e, fmt.Sprintf("Attackers (%d)", len(att)), att)
	addChunkedFields(e, fmt.Sprintf("Defenders (%d)", len(def)), def)
	return e
}

// snapshotEmbeds builds the public full snapshot: a summary embed plus one
// detail embed per player. remaining holds each player's remaining
// operators in catalog order.
func snapshotEmbeds(v *tracker.View, remaining [2][]string) []*discordgo.MessageEmbed {
	main := &discordgo.MessageEmbed{
		Title: trackerTitle + " — Full Snapshot",
		Color: colorBlurple,
		Description: "Totals and recent history per player. Full played/remaining lists are below.\n" +
			"Tip: Use `/tracker remaining` for an ephemeral, per-player view.",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Player 1 – " + v.Players[tracker.P1].Name, Value: playerBlock(v.Players[tracker.P1])},
			{Name: "Player 2 – " + v.Players[tracker.P2].Name, Value: playerBlock(v.Players[tracker.P2])},
		},
	}

	embeds := []*discordgo.MessageEmbed{main}
	for _, slot := range []tracker.Slot{tracker.P1, tracker.P2} {
		embeds = append(embeds, detailEmbed(v.Players[slot], remaining[slot]))
	}
	return embeds
}

func detailEmbed(p tracker.PlayerView, remaining []string) *discordgo.MessageEmbed {
	left := make(map[string]bool, len(remaining))
	for _, op := range remaining {
		left[op] = true
	}
	played := func(catalog []string) []string {
		var out []string
		for _, op := range catalog {
			if !left[op] {
				out = append(out, op)
			}
		}
		return out
	}
	remainingOf := func(catalog []string) []string {
		var out []string
		for _, op := range catalog {
			if left[op] {
				out = append(out, op)
			}
		}
		return out
	}

	playedAtt := played(operators.Attackers())
	playedDef := played(operators.Defenders())
	remAtt := remainingOf(operators.Attackers())
	remDef := remainingOf(operators.Defenders())

	e := &discordgo.MessageEmbed{
		Title: "Details — " + p.Name,
		Color: colorGreen,
	}
	addChunkedFields(e, fmt.Sprintf("Played Attackers (%d)", len(playedAtt)), playedAtt)
	addChunkedFields(e, fmt.Sprintf("Played Defenders (%d)", len(playedDef)), playedDef)
	addChunkedFields(e, fmt.Sprintf("Remaining Attackers (%d)", len(remAtt)), remAtt)
	addChunkedFields(e, fmt.Sprintf("Remaining Defenders (%d)", len(remDef)), remDef)
	return e
}

func addChunkedFields(e *discordgo.MessageEmbed, name string, items []string) {
	chunks := chunkList(items, fieldChunkChars)
	for i, chunk := range chunks {
		fieldName := name
		if len(chunks) > 1 {
			fieldName = fmt.Sprintf("%s – %d", name, i+1)
		}
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{
			Name:  fieldName,
			Value: chunk,
		})
	}
}

// chunkList joins items with ", " into chunks of at most maxChars each, so
// long operator lists fit inside embed field limits. An empty list produces
// a single "—" placeholder chunk.
func chunkList(items []string, maxChars int) []string {
	var chunks []string
	var cur []string
	curLen := 0
	for _, item := range items {
		add := len(item)
		if len(cur) > 0 {
			add += 2 // ", "
		}
		if curLen+add > maxChars && len(cur) > 0 {
			chunks = append(chunks, strings.Join(cur, ", "))
			cur = []string{item}
			curLen = len(item)
		} else {
			cur = append(cur, item)
			curLen += add
		}
	}
	if len(cur) > 0 {
		chunks = append(chunks, strings.Join(cur, ", "))
	}
	if len(chunks) == 0 {
		chunks = []string{"—"}
	}
	return chunks
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "—"
	}
	return strings.Join(items, ", ")
}
