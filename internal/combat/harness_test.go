package combat

import "testing"

// Creature builders shared by the package tests. Attackers belong to
// "alice", blockers to "bob".

const (
	attackerPlayer = "alice"
	defenderPlayer = "bob"
)

func attacker(name string, power, toughness int, abilities ...Ability) *Creature {
	return &Creature{
		Name:       name,
		Power:      power,
		Toughness:  toughness,
		Controller: attackerPlayer,
		Abilities:  NewAbilitySet(abilities...),
	}
}

func blocker(name string, power, toughness int, abilities ...Ability) *Creature {
	return &Creature{
		Name:       name,
		Power:      power,
		Toughness:  toughness,
		Controller: defenderPlayer,
		Abilities:  NewAbilitySet(abilities...),
	}
}

// blocks builds an assignment literal: blocks(-1, 0) means blocker 0
// stays out and blocker 1 blocks attacker 0.
func blocks(choices ...int) Assignment {
	return Assignment{Blocks: choices}
}

func destroyedNames(result *CombatResult) map[string]bool {
	out := make(map[string]bool, len(result.CreaturesDestroyed))
	for _, c := range result.CreaturesDestroyed {
		out[c.Name] = true
	}
	return out
}

func assertDestroyed(t *testing.T, result *CombatResult, names ...string) {
	t.Helper()
	got := destroyedNames(result)
	if len(got) != len(names) {
		t.Errorf("destroyed %v, want %v", result.CreaturesDestroyed, names)
		return
	}
	for _, name := range names {
		if !got[name] {
			t.Errorf("expected %s destroyed, got %v", name, result.CreaturesDestroyed)
		}
	}
}
