// Package tracker is the state manager for two-player operator trackers. A
// Manager owns every live tracker, keyed by guild ID, and is the single
// authority for mutating them; the interaction layer only ever reaches a
// tracker through the Manager and renders from the read-only View it gets
// back. All preconditions (score floor, catalog membership, the all-76
// penalty gate) are validated here regardless of what the UI displayed.
package tracker

import (
	"errors"
	"strings"
	"sync"

	"siegetracker/internal/operators"
)

// PenaltyDelta is the score adjustment applied when a player who has played
// every operator takes the penalty. It is applied exactly once per player and
// is exempt from the zero floor.
const PenaltyDelta = -10

// historyDepth bounds the recent-operator lists carried in a View.
const historyDepth = 5

var (
	ErrNotFound        = errors.New("tracker: no active tracker")
	ErrUnknownOperator = errors.New("tracker: unknown operator")
	ErrUnknownPlayer   = errors.New("tracker: unknown player")
	ErrEmptyName       = errors.New("tracker: player names must not be empty")
)

// Slot identifies one of a tracker's two player positions.
type Slot int

const (
	P1 Slot = iota
	P2
)

func (s Slot) String() string {
	if s == P1 {
		return "P1"
	}
	return "P2"
}

// MarkResult reports the outcome of marking or unmarking an operator.
type MarkResult int

const (
	// Marked means the operator was added to the played set.
	Marked MarkResult = iota
	// AlreadyPlayed means the operator was in the played set; no change.
	AlreadyPlayed
	// Unmarked means the operator was removed from the played set.
	Unmarked
	// NotPlayed means the operator was not in the played set; no change.
	NotPlayed
)

// PenaltyResult reports the outcome of a penalty attempt.
type PenaltyResult int

const (
	// Applied means the flag transitioned and the delta was taken.
	Applied PenaltyResult = iota
	// Rejected means the precondition failed; no change.
	Rejected
)

type player struct {
	name    string
	score   int
	floor   int // lowest score decrements may reach; lowered by the penalty
	played  map[string]bool
	history []string // catalog names in mark order, oldest first
	penalty bool
}

func newPlayer(name string) *player {
	return &player{
		name:   name,
		played: make(map[string]bool, operators.Count),
	}
}

// Tracker is one live two-player session, bound to a single message.
type Tracker struct {
	guildID   string
	channelID string
	messageID string
	players   [2]*player
	lock      sync.Mutex
}

// Manager is the registry of live trackers. The zero value is not usable;
// construct with NewManager and pass the instance to whoever needs it.
type Manager struct {
	trackers map[string]*Tracker
	lock     sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{trackers: make(map[string]*Tracker)}
}

// Create allocates a fresh tracker for the guild, replacing any existing one,
// and returns its initial view. Both names must be non-empty after trimming.
func (m *Manager) Create(guildID, player1, player2 string) (*View, error) {
	p1 := strings.TrimSpace(player1)
	p2 := strings.TrimSpace(player2)
	if p1 == "" || p2 == "" {
		return nil, ErrEmptyName
	}

	t := &Tracker{
		guildID: guildID,
		players: [2]*player{newPlayer(p1), newPlayer(p2)},
	}

	m.lock.Lock()
	m.trackers[guildID] = t
	m.lock.Unlock()

	return t.view(), nil
}

// Close drops the guild's tracker from the registry. It reports whether a
// tracker existed.
func (m *Manager) Close(guildID string) bool {
	m.lock.Lock()
	defer m.lock.Unlock()
	_, ok := m.trackers[guildID]
	delete(m.trackers, guildID)
	return ok
}

// SetMessage binds the tracker to its live message so the interaction layer
// can re-render it later.
func (m *Manager) SetMessage(guildID, channelID, messageID string) error {
	t, err := m.get(guildID)
	if err != nil {
		return err
	}
	t.lock.Lock()
	defer t.lock.Unlock()
	t.channelID = channelID
	t.messageID = messageID
	return nil
}

// IncrementScore adds one to the player's score and returns the new score.
func (m *Manager) IncrementScore(guildID string, slot Slot) (int, error) {
	return m.adjust(guildID, slot, +1)
}

// DecrementScore subtracts one from the player's score, clamped so the
// result never drops below zero, and returns the new score.
func (m *Manager) DecrementScore(guildID string, slot Slot) (int, error) {
	return m.adjust(guildID, slot, -1)
}

func (m *Manager) adjust(guildID string, slot Slot, delta int) (int, error) {
	t, err := m.get(guildID)
	if err != nil {
		return 0, err
	}
	p, err := t.player(slot)
	if err != nil {
		return 0, err
	}

	t.lock.Lock()
	defer t.lock.Unlock()
	// Decrements clamp at the player's floor: zero until a penalty lowers
	// it. Increments climb back out of a penalty hole normally; decrements
	// cannot dig below where the penalty left it.
	p.score += delta
	if p.score < p.floor {
		p.score = p.floor
	}
	return p.score, nil
}

// MarkPlayed adds operator to the player's played set. Marking an operator
// that is already played is a no-op reported as AlreadyPlayed.
func (m *Manager) MarkPlayed(guildID string, slot Slot, operator string) (MarkResult, error) {
	t, err := m.get(guildID)
	if err != nil {
		return AlreadyPlayed, err
	}
	p, err := t.player(slot)
	if err != nil {
		return AlreadyPlayed, err
	}
	if !operators.IsValid(operator) {
		return AlreadyPlayed, ErrUnknownOperator
	}

	t.lock.Lock()
	defer t.lock.Unlock()
	if p.played[operator] {
		return AlreadyPlayed, nil
	}
	p.played[operator] = true
	p.history = append(p.history, operator)
	return Marked, nil
}

// UnmarkPlayed removes operator from the player's played set, undoing a
// mistaken mark. Unmarking an operator that was never played is a no-op
// reported as NotPlayed.
func (m *Manager) UnmarkPlayed(guildID string, slot Slot, operator string) (MarkResult, error) {
	t, err := m.get(guildID)
	if err != nil {
		return NotPlayed, err
	}
	p, err := t.player(slot)
	if err != nil {
		return NotPlayed, err
	}
	if !operators.IsValid(operator) {
		return NotPlayed, ErrUnknownOperator
	}

	t.lock.Lock()
	defer t.lock.Unlock()
	if !p.played[operator] {
		return NotPlayed, nil
	}
	delete(p.played, operator)
	for i := len(p.history) - 1; i >= 0; i-- {
		if p.history[i] == operator {
			p.history = append(p.history[:i], p.history[i+1:]...)
			break
		}
	}
	return Unmarked, nil
}

// RemainingOperators returns the catalog entries the player has not yet
// played, in catalog order. The returned slice is fresh on every call.
func (m *Manager) RemainingOperators(guildID string, slot Slot) ([]string, error) {
	t, err := m.get(guildID)
	if err != nil {
		return nil, err
	}
	p, err := t.player(slot)
	if err != nil {
		return nil, err
	}

	t.lock.Lock()
	defer t.lock.Unlock()
	remaining := make([]string, 0, operators.Count-len(p.played))
	for _, op := range operators.All() {
		if !p.played[op] {
			remaining = append(remaining, op)
		}
	}
	return remaining, nil
}

// ApplyPenalty takes the penalty for the player: the penalty flag flips and
// PenaltyDelta is applied, possibly pushing the score negative. It succeeds
// only when the player has played the entire catalog and has not already
// taken the penalty; otherwise it reports Rejected with no state change.
func (m *Manager) ApplyPenalty(guildID string, slot Slot) (PenaltyResult, error) {
	t, err := m.get(guildID)
	if err != nil {
		return Rejected, err
	}
	p, err := t.player(slot)
	if err != nil {
		return Rejected, err
	}

	t.lock.Lock()
	defer t.lock.Unlock()
	if p.penalty || len(p.played) != operators.Count {
		return Rejected, nil
	}
	p.penalty = true
	p.score += PenaltyDelta
	if p.score < p.floor {
		p.floor = p.score
	}
	return Applied, nil
}

// Snapshot returns a read-only view of the guild's tracker.
func (m *Manager) Snapshot(guildID string) (*View, error) {
	t, err := m.get(guildID)
	if err != nil {
		return nil, err
	}
	return t.view(), nil
}

// ResolvePlayer maps a user-supplied player argument to a slot. It accepts
// "P1"/"P2" style references or either display name, case-insensitively.
// Slot aliases ("p1", "1", "player1" and the P2 equivalents) are checked
// before display names, so a player whose display name collides with an
// alias — say, a player named "2" — resolves as the alias, not the name.
// Refer to such players by their own slot instead.
func (m *Manager) ResolvePlayer(guildID, arg string) (Slot, error) {
	t, err := m.get(guildID)
	if err != nil {
		return P1, err
	}

	t.lock.Lock()
	defer t.lock.Unlock()
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "p1", "1", "player1":
		return P1, nil
	case "p2", "2", "player2":
		return P2, nil
	case strings.ToLower(t.players[P1].name):
		return P1, nil
	case strings.ToLower(t.players[P2].name):
		return P2, nil
	}
	return P1, ErrUnknownPlayer
}

func (m *Manager) get(guildID string) (*Tracker, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	t, ok := m.trackers[guildID]
	if !ok {
		return nil, ErrNotFound
	}
	return t, nil
}

func (t *Tracker) player(slot Slot) (*player, error) {
	if slot != P1 && slot != P2 {
		return nil, ErrUnknownPlayer
	}
	return t.players[slot], nil
}
