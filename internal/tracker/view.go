package tracker

import "siegetracker/internal/operators"

// PlayerView is the read-only projection of one player's state. It carries
// everything the interaction layer needs to render the live message and
// decide button state; it shares no memory with the tracker.
type PlayerView struct {
	Name  string
	Score int

	PlayedAttackers int
	PlayedDefenders int
	PlayedTotal     int
	Remaining       int

	// LastAttackers and LastDefenders list the most recently marked
	// operators of each side, newest first, capped at a handful.
	LastAttackers []string
	LastDefenders []string

	PenaltyApplied bool

	// PenaltyEligible is true exactly when ApplyPenalty would succeed.
	// The penalty button is rendered enabled from this, but the Manager
	// re-validates on press; this field is advisory.
	PenaltyEligible bool
}

// View is the read-only projection of a tracker.
type View struct {
	GuildID   string
	ChannelID string
	MessageID string
	Players   [2]PlayerView
}

// Player returns the view for a slot. Out-of-range slots fall back to P1;
// callers resolve slots through the Manager first.
func (v *View) Player(slot Slot) PlayerView {
	if slot != P1 && slot != P2 {
		slot = P1
	}
	return v.Players[slot]
}

func (t *Tracker) view() *View {
	t.lock.Lock()
	defer t.lock.Unlock()

	v := &View{
		GuildID:   t.guildID,
		ChannelID: t.channelID,
		MessageID: t.messageID,
	}
	for i, p := range t.players {
		v.Players[i] = p.view()
	}
	return v
}

func (p *player) view() PlayerView {
	pv := PlayerView{
		Name:            p.name,
		Score:           p.score,
		PlayedTotal:     len(p.played),
		Remaining:       operators.Count - len(p.played),
		PenaltyApplied:  p.penalty,
		PenaltyEligible: !p.penalty && len(p.played) == operators.Count,
	}
	for op := range p.played {
		if side, _ := operators.SideOf(op); side == operators.Attacker {
			pv.PlayedAttackers++
		} else {
			pv.PlayedDefenders++
		}
	}
	pv.LastAttackers = p.lastPlayed(operators.Attacker)
	pv.LastDefenders = p.lastPlayed(operators.Defender)
	return pv
}

// lastPlayed walks the mark history backwards collecting the most recent
// operators of one side.
func (p *player) lastPlayed(side operators.Side) []string {
	var out []string
	for i := len(p.history) - 1; i >= 0 && len(out) < historyDepth; i-- {
		op := p.history[i]
		if s, _ := operators.SideOf(op); s == side {
			out = append(out, op)
		}
	}
	return out
}
