package blocking

import (
	"github.com/magiccombat/combat-server-go/internal/combat"
)

// forEachPermutation invokes fn with every permutation of items in a
// deterministic order. fn must not retain the slice; it returns false to
// stop early. Group sizes are tiny (a handful of blockers), so recursive
// enumeration is fine.
func forEachPermutation(items []int, fn func([]int) bool) bool {
	if len(items) <= 1 {
		return fn(items)
	}
	scratch := append([]int{}, items...)
	var walk func(k int) bool
	walk = func(k int) bool {
		if k == len(scratch) {
			return fn(scratch)
		}
		for i := k; i < len(scratch); i++ {
			scratch[k], scratch[i] = scratch[i], scratch[k]
			if !walk(k + 1) {
				return false
			}
			scratch[k], scratch[i] = scratch[i], scratch[k]
		}
		return true
	}
	return walk(0)
}

// chooseDamageOrder picks the damage-assignment order for attacker ai
// among its blockers. Order control normally belongs to the attacking
// player, who is assumed adversarial: the order minimizing the defender's
// evaluation wins. When a blocker in the group has banding, control moves
// to the defender and the best order for the defender wins instead. Ties
// in material outcome are broken by the searcher's TieBreak policy, then
// by enumeration order.
func (s *Searcher) chooseDamageOrder(attackers, blockers []*combat.Creature, group []int, ai int) ([]int, error) {
	if len(group) <= 1 {
		return group, nil
	}

	members := make([]*combat.Creature, len(group))
	for i, bi := range group {
		members[i] = blockers[bi]
	}
	defenderControls := combat.DefenderOrdersDamage(members)

	attackerPlayer := attackers[ai].Controller
	defenderPlayer := members[0].Controller

	var (
		best      []int
		bestScore combat.Score
		have      bool
		iterErr   error
	)
	// Permute positions within the group; the mini-resolution below sees
	// only this attacker and its blockers, which is enough to rank
	// orders: independent attacker/blocker pairs cannot influence it.
	positions := make([]int, len(group))
	for i := range positions {
		positions[i] = i
	}
	forEachPermutation(positions, func(perm []int) bool {
		if err := s.tick(); err != nil {
			iterErr = err
			return false
		}
		atk := attackers[ai].Clone()
		atk.ClearCombatState()
		blks := make([]*combat.Creature, len(members))
		orderLocal := make([]int, len(perm))
		for i, p := range perm {
			blks[p] = members[p].Clone()
			blks[p].ClearCombatState()
			orderLocal[i] = p
		}
		assign := combat.Assignment{Blocks: make([]int, len(blks))}
		result, err := s.sim.Resolve([]*combat.Creature{atk}, blks, assign,
			combat.WithDamageOrder(combat.DamageOrder{0: orderLocal}),
			combat.WithStartingLife(s.attackerLife, s.defenderLife),
		)
		if err != nil {
			// Legality was established before ordering; anything here is
			// a programming error worth surfacing.
			iterErr = err
			return false
		}
		score := result.Score(attackerPlayer, defenderPlayer)
		if !have || s.orderPreferred(score, bestScore, defenderControls) {
			have = true
			bestScore = score
			best = append(best[:0], perm...)
		}
		return true
	})
	if iterErr != nil {
		return nil, iterErr
	}

	ordered := make([]int, len(best))
	for i, p := range best {
		ordered[i] = group[p]
	}
	return ordered, nil
}

// orderPreferred reports whether candidate beats incumbent for whichever
// player controls the damage order.
func (s *Searcher) orderPreferred(candidate, incumbent combat.Score, defenderControls bool) bool {
	if candidate.MaterialEqual(incumbent) {
		switch s.tieBreak {
		case PreferLeastPlayerDamage:
			return candidate.LifeDiff < incumbent.LifeDiff
		case PreferMostPlayerDamage:
			return candidate.LifeDiff > incumbent.LifeDiff
		}
		return false
	}
	if defenderControls {
		return candidate.Less(incumbent)
	}
	return incumbent.Less(candidate)
}
