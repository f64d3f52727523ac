package operators

import "testing"

func TestCatalogCounts(t *testing.T) {
	if got := len(Attackers()); got != AttackerCount {
		t.Errorf("expected %d attackers, got %d", AttackerCount, got)
	}
	if got := len(Defenders()); got != DefenderCount {
		t.Errorf("expected %d defenders, got %d", DefenderCount, got)
	}
	if got := len(All()); got != Count {
		t.Errorf("expected %d operators, got %d", Count, got)
	}
}

func TestCatalogNoDuplicates(t *testing.T) {
	seen := make(map[string]bool, Count)
	for _, op := range All() {
		if seen[op] {
			t.Errorf("duplicate catalog entry: %s", op)
		}
		seen[op] = true
	}
}

func TestCatalogOrder(t *testing.T) {
	// All() is attackers first, then defenders, each in catalog order.
	all := All()
	for i, op := range Attackers() {
		if all[i] != op {
			t.Fatalf("position %d: expected %s, got %s", i, op, all[i])
		}
	}
	for i, op := range Defenders() {
		if all[AttackerCount+i] != op {
			t.Fatalf("position %d: expected %s, got %s", AttackerCount+i, op, all[AttackerCount+i])
		}
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"Sledge", true},
		{"Kapkan", true},
		{"NØKK", true},
		{"Jäger", true},
		{"sledge", false}, // exact match only
		{"Recruit", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValid(tt.name); got != tt.valid {
			t.Errorf("IsValid(%q) = %v, expected %v", tt.name, got, tt.valid)
		}
	}
}

func TestSideOf(t *testing.T) {
	if side, ok := SideOf("Ash"); !ok || side != Attacker {
		t.Errorf("expected Ash to be an attacker")
	}
	if side, ok := SideOf("Rook"); !ok || side != Defender {
		t.Errorf("expected Rook to be a defender")
	}
	if _, ok := SideOf("NotAnOperator"); ok {
		t.Errorf("expected unknown name to be rejected")
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	a := Attackers()
	a[0] = "tampered"
	if Attackers()[0] == "tampered" {
		t.Errorf("Attackers() exposed internal catalog slice")
	}

	all := All()
	all[Count-1] = "tampered"
	if All()[Count-1] == "tampered" {
		t.Errorf("All() exposed internal catalog slice")
	}
}
