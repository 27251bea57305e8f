package blocking

import (
	"sort"

	"github.com/magiccombat/combat-server-go/internal/combat"
)

// SimpleBlocks assigns blockers with a fast two-pass heuristic instead of
// searching: first take favorable one-for-one trades, then chump-block the
// biggest attackers while unblocked damage would be lethal. Useful as a
// baseline opponent and for very large creature counts where the full
// search is too expensive.
func SimpleBlocks(attackers, blockers []*combat.Creature, defenderLife int) combat.Assignment {
	assign := combat.NewAssignment(len(blockers))
	if len(blockers) == 0 {
		return assign
	}
	if defenderLife <= 0 {
		defenderLife = combat.DefaultStartingLife
	}

	available := make([]int, 0, len(blockers))
	for bi, b := range blockers {
		if !b.Tapped {
			available = append(available, bi)
		}
	}

	take := func(ai, bi int) {
		assign.Blocks[bi] = ai
		for i, v := range available {
			if v == bi {
				available = append(available[:i], available[i+1:]...)
				break
			}
		}
	}

	// Favorable trades first, biggest attackers first, cheapest blocker
	// that trades wins.
	attackerOrder := make([]int, len(attackers))
	for i := range attackerOrder {
		attackerOrder[i] = i
	}
	sort.SliceStable(attackerOrder, func(i, j int) bool {
		return attackers[attackerOrder[i]].Value() > attackers[attackerOrder[j]].Value()
	})
	for _, ai := range attackerOrder {
		atk := attackers[ai]
		if atk.Abilities.Has(combat.AbilityMenace) {
			continue // single blocks on menace are illegal; leave to the search
		}
		bestBi := -1
		for _, bi := range available {
			b := blockers[bi]
			if !combat.CanBlock(atk, b) {
				continue
			}
			if b.EffectivePower() >= atk.EffectiveToughness() &&
				atk.EffectivePower() >= b.EffectiveToughness() &&
				b.Value() <= atk.Value() {
				if bestBi == -1 || blockers[bi].Value() < blockers[bestBi].Value() {
					bestBi = bi
				}
			}
		}
		if bestBi != -1 {
			take(ai, bestBi)
		}
	}

	// Chump blocks while the remaining unblocked damage is lethal.
	unblockedDamage := func() int {
		dmg := 0
		counts := make([]int, len(attackers))
		for _, choice := range assign.Blocks {
			if choice != combat.NoBlock {
				counts[choice]++
			}
		}
		for ai, atk := range attackers {
			if counts[ai] == 0 {
				dmg += atk.EffectivePower()
			}
		}
		return dmg
	}

	for _, ai := range attackerOrder {
		if len(available) == 0 {
			break
		}
		atk := attackers[ai]
		if len(assign.BlockersOf(ai)) > 0 || atk.Abilities.Has(combat.AbilityMenace) {
			continue
		}
		if defenderLife > unblockedDamage() {
			break
		}
		bestBi := -1
		for _, bi := range available {
			if !combat.CanBlock(atk, blockers[bi]) {
				continue
			}
			if bestBi == -1 || blockers[bi].Value() < blockers[bestBi].Value() {
				bestBi = bi
			}
		}
		if bestBi != -1 {
			take(ai, bestBi)
		}
	}

	return assign
}
