// Package operators holds the fixed Rainbow Six Siege operator catalog that
// trackers draw from. The catalog is static configuration: it never changes
// at runtime, and all exported accessors return fresh slices so callers
// cannot mutate it.
package operators

// Side classifies an operator as an attacker or a defender.
type Side int

const (
	Attacker Side = iota
	Defender
)

func (s Side) String() string {
	if s == Attacker {
		return "Attacker"
	}
	return "Defender"
}

// Catalog order matters: remaining-operator listings and autocomplete
// suggestions are produced in this order, newest operators first.
var attackers = []string{
	"Rauora", "Striker*", "Deimos", "Ram", "Brava", "Grim", "Sens", "Osa", "Flores", "Zero",
	"Ace", "Iana", "Kali", "Amaru", "NØKK", "Gridlock", "Nomad", "Maverick", "Lion", "Finka",
	"Dokkaebi", "Zofia", "Ying", "Jackal", "Hibana", "CAPITÃO", "Blackbeard", "Buck", "Sledge",
	"Thatcher", "Ash", "Thermite", "Montagne", "Twitch", "Blitz", "IQ", "Fuze", "Glaz",
}

var defenders = []string{
	"Denari", "Skopós", "Sentry*", "Tubarão", "Fenrir", "Solis", "Azami", "Thorn", "Thunderbird",
	"Aruni", "Melusi", "Oryx", "Wamai", "Goyo", "Warden", "Mozzie", "Kaid", "Clash", "Maestro",
	"Alibi", "Vigil", "Ela", "Lesion", "Mira", "Echo", "Caveira", "Valkyrie", "Frost", "Mute",
	"Smoke", "Castle", "Pulse", "Doc", "Rook", "Jäger", "Bandit", "Tachanka", "Kapkan",
}

const (
	AttackerCount = 38
	DefenderCount = 38

	// Count is the full catalog size. A player must exhaust all of it to
	// unlock the penalty.
	Count = AttackerCount + DefenderCount
)

var sides = func() map[string]Side {
	m := make(map[string]Side, Count)
	for _, op := range attackers {
		m[op] = Attacker
	}
	for _, op := range defenders {
		m[op] = Defender
	}
	return m
}()

// Attackers returns the attacker catalog in catalog order.
func Attackers() []string {
	return append([]string(nil), attackers...)
}

// Defenders returns the defender catalog in catalog order.
func Defenders() []string {
	return append([]string(nil), defenders...)
}

// All returns the full catalog, attackers first, in catalog order.
func All() []string {
	out := make([]string, 0, Count)
	out = append(out, attackers...)
	out = append(out, defenders...)
	return out
}

// IsValid reports whether name is an exact catalog entry.
func IsValid(name string) bool {
	_, ok := sides[name]
	return ok
}

// SideOf returns the side of a catalog entry. The second return is false for
// names outside the catalog.
func SideOf(name string) (Side, bool) {
	s, ok := sides[name]
	return s, ok
}
